package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/plateful/recipe-api/internal/dto"
	"github.com/plateful/recipe-api/internal/models"
	"github.com/plateful/recipe-api/internal/ownership"
	"gorm.io/gorm"
)

// StaffRequired guards administrative routes. The staff and superuser flags
// come from the database rather than the token, so a revoked flag takes
// effect without waiting for token expiry.
func StaffRequired(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := ownership.UserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		var user models.User
		if err := db.First(&user, "id = ?", userID).Error; err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		if !user.IsStaff && !user.IsSuperuser {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Staff access required",
			})
		}

		return c.Next()
	}
}
