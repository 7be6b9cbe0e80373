package repository

import (
	"github.com/google/uuid"
	"github.com/plateful/recipe-api/internal/models"
	"github.com/plateful/recipe-api/internal/ownership"
	"gorm.io/gorm"
)

// IngredientRepository mirrors TagRepository; the two entities share their
// ownership and listing semantics.
type IngredientRepository interface {
	Create(ingredient *models.Ingredient) error
	ListForUser(userID uuid.UUID, assignedOnly bool) ([]models.Ingredient, error)
	GetForUser(id uint, userID uuid.UUID) (*models.Ingredient, error)
	Update(ingredient *models.Ingredient) error
	Delete(ingredient *models.Ingredient) error
	ResolveForUser(userID uuid.UUID, ids []uint) ([]models.Ingredient, error)
}

type gormIngredientRepository struct {
	db *gorm.DB
}

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &gormIngredientRepository{db: db}
}

func (r *gormIngredientRepository) Create(ingredient *models.Ingredient) error {
	return r.db.Create(ingredient).Error
}

func (r *gormIngredientRepository) ListForUser(userID uuid.UUID, assignedOnly bool) ([]models.Ingredient, error) {
	q := r.db.Scopes(ownership.OwnedBy(userID))
	if assignedOnly {
		q = q.Where("id IN (?)", r.db.Table("recipe_ingredients").
			Select("recipe_ingredients.ingredient_id").
			Joins("JOIN recipes ON recipes.id = recipe_ingredients.recipe_id").
			Where("recipes.user_id = ?", userID))
	}

	var ingredients []models.Ingredient
	if err := q.Order("name ASC").Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *gormIngredientRepository) GetForUser(id uint, userID uuid.UUID) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := r.db.Scopes(ownership.OwnedBy(userID)).First(&ingredient, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ingredient, nil
}

func (r *gormIngredientRepository) Update(ingredient *models.Ingredient) error {
	return r.db.Save(ingredient).Error
}

func (r *gormIngredientRepository) Delete(ingredient *models.Ingredient) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ingredient_id = ?", ingredient.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return tx.Delete(ingredient).Error
	})
}

func (r *gormIngredientRepository) ResolveForUser(userID uuid.UUID, ids []uint) ([]models.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var ingredients []models.Ingredient
	if err := r.db.Scopes(ownership.OwnedBy(userID)).Where("id IN ?", ids).Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}
