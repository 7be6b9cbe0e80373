package repository

import (
	"github.com/google/uuid"
	"github.com/plateful/recipe-api/internal/models"
	"github.com/plateful/recipe-api/internal/ownership"
	"gorm.io/gorm"
)

type TagRepository interface {
	Create(tag *models.Tag) error
	// ListForUser returns the user's tags ordered by name. With assignedOnly
	// the listing is restricted to tags attached to at least one of the
	// user's recipes, each tag exactly once however many recipes use it.
	ListForUser(userID uuid.UUID, assignedOnly bool) ([]models.Tag, error)
	GetForUser(id uint, userID uuid.UUID) (*models.Tag, error)
	Update(tag *models.Tag) error
	Delete(tag *models.Tag) error
	// ResolveForUser looks up the user's tags with the given ids; missing or
	// foreign ids are simply absent from the result.
	ResolveForUser(userID uuid.UUID, ids []uint) ([]models.Tag, error)
}

type gormTagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) TagRepository {
	return &gormTagRepository{db: db}
}

func (r *gormTagRepository) Create(tag *models.Tag) error {
	return r.db.Create(tag).Error
}

func (r *gormTagRepository) ListForUser(userID uuid.UUID, assignedOnly bool) ([]models.Tag, error) {
	q := r.db.Scopes(ownership.OwnedBy(userID))
	if assignedOnly {
		// The IN subquery deduplicates a tag attached to several recipes.
		q = q.Where("id IN (?)", r.db.Table("recipe_tags").
			Select("recipe_tags.tag_id").
			Joins("JOIN recipes ON recipes.id = recipe_tags.recipe_id").
			Where("recipes.user_id = ?", userID))
	}

	var tags []models.Tag
	if err := q.Order("name ASC").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *gormTagRepository) GetForUser(id uint, userID uuid.UUID) (*models.Tag, error) {
	var tag models.Tag
	if err := r.db.Scopes(ownership.OwnedBy(userID)).First(&tag, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *gormTagRepository) Update(tag *models.Tag) error {
	return r.db.Save(tag).Error
}

func (r *gormTagRepository) Delete(tag *models.Tag) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tag_id = ?", tag.ID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(tag).Error
	})
}

func (r *gormTagRepository) ResolveForUser(userID uuid.UUID, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	if err := r.db.Scopes(ownership.OwnedBy(userID)).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}
