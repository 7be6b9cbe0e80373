package repository

import (
	"github.com/google/uuid"
	"github.com/plateful/recipe-api/internal/models"
	"github.com/plateful/recipe-api/internal/ownership"
	"github.com/plateful/recipe-api/internal/query"
	"gorm.io/gorm"
)

// RelationSet carries the desired join-table state for an update. A nil
// slice leaves the relation untouched; a non-nil slice (empty included)
// replaces the whole set. The distinction is what separates a partial update
// from a full replace.
type RelationSet struct {
	TagIDs        *[]uint
	IngredientIDs *[]uint
}

type RecipeRepository interface {
	// Create persists the recipe and its initial join rows in one transaction.
	Create(recipe *models.Recipe, tagIDs, ingredientIDs []uint) error
	ListForUser(userID uuid.UUID, filter query.RecipeFilter) ([]models.Recipe, error)
	GetForUser(id uint, userID uuid.UUID) (*models.Recipe, error)
	// Update saves the recipe row and applies the relation set atomically,
	// clear-then-insert, so readers never observe a half-applied membership.
	Update(recipe *models.Recipe, relations RelationSet) error
	Delete(recipe *models.Recipe) error
	SetImagePath(recipe *models.Recipe, path string) error

	TagsFor(recipeID uint) ([]models.Tag, error)
	IngredientsFor(recipeID uint) ([]models.Ingredient, error)
	// TagIDsFor and IngredientIDsFor batch-load join rows for a listing,
	// keyed by recipe id.
	TagIDsFor(recipeIDs []uint) (map[uint][]uint, error)
	IngredientIDsFor(recipeIDs []uint) (map[uint][]uint, error)
}

type gormRecipeRepository struct {
	db *gorm.DB
}

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &gormRecipeRepository{db: db}
}

func (r *gormRecipeRepository) Create(recipe *models.Recipe, tagIDs, ingredientIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(recipe).Error; err != nil {
			return err
		}
		if err := insertTagLinks(tx, recipe.ID, tagIDs); err != nil {
			return err
		}
		return insertIngredientLinks(tx, recipe.ID, ingredientIDs)
	})
}

func (r *gormRecipeRepository) ListForUser(userID uuid.UUID, filter query.RecipeFilter) ([]models.Recipe, error) {
	q := r.db.Scopes(ownership.OwnedBy(userID))

	if len(filter.TagIDs) > 0 {
		q = q.Where("id IN (?)", r.db.Table("recipe_tags").
			Select("recipe_id").
			Where("tag_id IN ?", filter.TagIDs))
	}
	if len(filter.IngredientIDs) > 0 {
		q = q.Where("id IN (?)", r.db.Table("recipe_ingredients").
			Select("recipe_id").
			Where("ingredient_id IN ?", filter.IngredientIDs))
	}

	var recipes []models.Recipe
	if err := q.Order("id DESC").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *gormRecipeRepository) GetForUser(id uint, userID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := r.db.Scopes(ownership.OwnedBy(userID)).First(&recipe, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *gormRecipeRepository) Update(recipe *models.Recipe, relations RelationSet) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(recipe).Error; err != nil {
			return err
		}
		if relations.TagIDs != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeTag{}).Error; err != nil {
				return err
			}
			if err := insertTagLinks(tx, recipe.ID, *relations.TagIDs); err != nil {
				return err
			}
		}
		if relations.IngredientIDs != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return err
			}
			if err := insertIngredientLinks(tx, recipe.ID, *relations.IngredientIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *gormRecipeRepository) Delete(recipe *models.Recipe) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		return tx.Delete(recipe).Error
	})
}

func (r *gormRecipeRepository) SetImagePath(recipe *models.Recipe, path string) error {
	if err := r.db.Model(recipe).Update("image_path", path).Error; err != nil {
		return err
	}
	recipe.ImagePath = path
	return nil
}

func (r *gormRecipeRepository) TagsFor(recipeID uint) ([]models.Tag, error) {
	var tags []models.Tag
	err := r.db.
		Joins("JOIN recipe_tags ON recipe_tags.tag_id = tags.id").
		Where("recipe_tags.recipe_id = ?", recipeID).
		Order("tags.name ASC").
		Find(&tags).Error
	if err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *gormRecipeRepository) IngredientsFor(recipeID uint) ([]models.Ingredient, error) {
	var ingredients []models.Ingredient
	err := r.db.
		Joins("JOIN recipe_ingredients ON recipe_ingredients.ingredient_id = ingredients.id").
		Where("recipe_ingredients.recipe_id = ?", recipeID).
		Order("ingredients.name ASC").
		Find(&ingredients).Error
	if err != nil {
		return nil, err
	}
	return ingredients, nil
}

func (r *gormRecipeRepository) TagIDsFor(recipeIDs []uint) (map[uint][]uint, error) {
	result := make(map[uint][]uint)
	if len(recipeIDs) == 0 {
		return result, nil
	}
	var links []models.RecipeTag
	if err := r.db.Where("recipe_id IN ?", recipeIDs).Find(&links).Error; err != nil {
		return nil, err
	}
	for _, link := range links {
		result[link.RecipeID] = append(result[link.RecipeID], link.TagID)
	}
	return result, nil
}

func (r *gormRecipeRepository) IngredientIDsFor(recipeIDs []uint) (map[uint][]uint, error) {
	result := make(map[uint][]uint)
	if len(recipeIDs) == 0 {
		return result, nil
	}
	var links []models.RecipeIngredient
	if err := r.db.Where("recipe_id IN ?", recipeIDs).Find(&links).Error; err != nil {
		return nil, err
	}
	for _, link := range links {
		result[link.RecipeID] = append(result[link.RecipeID], link.IngredientID)
	}
	return result, nil
}

func insertTagLinks(tx *gorm.DB, recipeID uint, tagIDs []uint) error {
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]models.RecipeTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		links = append(links, models.RecipeTag{RecipeID: recipeID, TagID: tagID})
	}
	return tx.Create(&links).Error
}

func insertIngredientLinks(tx *gorm.DB, recipeID uint, ingredientIDs []uint) error {
	if len(ingredientIDs) == 0 {
		return nil
	}
	links := make([]models.RecipeIngredient, 0, len(ingredientIDs))
	for _, ingredientID := range ingredientIDs {
		links = append(links, models.RecipeIngredient{RecipeID: recipeID, IngredientID: ingredientID})
	}
	return tx.Create(&links).Error
}
