package ownership

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OwnedBy returns a GORM scope restricting rows to the acting user. Every
// tag, ingredient and recipe query goes through it; a row owned by another
// user is indistinguishable from a missing one.
func OwnedBy(userID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}
