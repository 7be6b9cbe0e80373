package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	"github.com/plateful/recipe-api/internal/models"
	"github.com/plateful/recipe-api/internal/query"
	"github.com/plateful/recipe-api/internal/repository"
	"github.com/plateful/recipe-api/internal/storage"
	"github.com/shopspring/decimal"
)

var (
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrTitleRequired      = errors.New("title must not be empty")
	ErrTimeRequired       = errors.New("time_minutes must be a positive number")
	ErrPriceRequired      = errors.New("price is required")
	ErrInvalidPrice       = errors.New("price must be a non-negative amount with at most 5 digits and 2 decimal places")
	ErrInvalidImage       = errors.New("uploaded file is not a valid image")
)

// UpdateMode selects between the two update semantics: a partial update
// merges the supplied fields, a replace treats omitted fields as cleared.
type UpdateMode int

const (
	UpdatePartial UpdateMode = iota
	UpdateReplace
)

// RecipeChanges is a sparse change set. Nil means the field was not supplied;
// what that implies depends on the UpdateMode.
type RecipeChanges struct {
	Title         *string
	TimeMinutes   *int
	Price         *decimal.Decimal
	Link          *string
	TagIDs        *[]uint
	IngredientIDs *[]uint
}

// RecipeListItem is the flat projection used by list and write responses:
// relations appear as id lists.
type RecipeListItem struct {
	Recipe        models.Recipe
	TagIDs        []uint
	IngredientIDs []uint
}

// RecipeDetail is the nested projection used by single-item retrieval.
type RecipeDetail struct {
	Recipe      models.Recipe
	Tags        []models.Tag
	Ingredients []models.Ingredient
}

type RecipeService struct {
	recipes     repository.RecipeRepository
	tags        repository.TagRepository
	ingredients repository.IngredientRepository
	store       storage.ImageStore
}

func NewRecipeService(
	recipes repository.RecipeRepository,
	tags repository.TagRepository,
	ingredients repository.IngredientRepository,
	store storage.ImageStore,
) *RecipeService {
	return &RecipeService{recipes: recipes, tags: tags, ingredients: ingredients, store: store}
}

// Create persists a new recipe. Relation ids resolve only within the acting
// user's attributes; an id that is missing or owned by someone else fails
// the whole request, nothing is silently dropped.
func (s *RecipeService) Create(userID uuid.UUID, changes RecipeChanges) (*RecipeListItem, error) {
	recipe := models.Recipe{UserID: userID}
	if err := applyReplace(&recipe, changes); err != nil {
		return nil, err
	}

	tagIDs, err := s.resolveTagIDs(userID, valueOrEmpty(changes.TagIDs))
	if err != nil {
		return nil, err
	}
	ingredientIDs, err := s.resolveIngredientIDs(userID, valueOrEmpty(changes.IngredientIDs))
	if err != nil {
		return nil, err
	}

	if err := s.recipes.Create(&recipe, tagIDs, ingredientIDs); err != nil {
		return nil, fmt.Errorf("failed to create recipe: %w", err)
	}

	return &RecipeListItem{Recipe: recipe, TagIDs: tagIDs, IngredientIDs: ingredientIDs}, nil
}

func (s *RecipeService) List(userID uuid.UUID, filter query.RecipeFilter) ([]RecipeListItem, error) {
	recipes, err := s.recipes.ListForUser(userID, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}

	recipeIDs := make([]uint, 0, len(recipes))
	for _, recipe := range recipes {
		recipeIDs = append(recipeIDs, recipe.ID)
	}

	tagMap, err := s.recipes.TagIDsFor(recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load tag links: %w", err)
	}
	ingredientMap, err := s.recipes.IngredientIDsFor(recipeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredient links: %w", err)
	}

	items := make([]RecipeListItem, 0, len(recipes))
	for _, recipe := range recipes {
		items = append(items, RecipeListItem{
			Recipe:        recipe,
			TagIDs:        tagMap[recipe.ID],
			IngredientIDs: ingredientMap[recipe.ID],
		})
	}
	return items, nil
}

func (s *RecipeService) Get(id uint, userID uuid.UUID) (*RecipeDetail, error) {
	recipe, err := s.recipes.GetForUser(id, userID)
	if err != nil {
		return nil, ErrRecipeNotFound
	}

	tags, err := s.recipes.TagsFor(recipe.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	ingredients, err := s.recipes.IngredientsFor(recipe.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredients: %w", err)
	}

	return &RecipeDetail{Recipe: *recipe, Tags: tags, Ingredients: ingredients}, nil
}

// Update applies a change set under the given mode. Validation happens
// before any write, and the recipe row and join rows change in one
// transaction, so a failed update leaves the recipe exactly as it was.
func (s *RecipeService) Update(id uint, userID uuid.UUID, changes RecipeChanges, mode UpdateMode) (*RecipeListItem, error) {
	recipe, err := s.recipes.GetForUser(id, userID)
	if err != nil {
		return nil, ErrRecipeNotFound
	}

	var relations repository.RelationSet
	switch mode {
	case UpdateReplace:
		if err := applyReplace(recipe, changes); err != nil {
			return nil, err
		}
		// Omitted relation lists mean "clear" under replace semantics.
		tagIDs := valueOrEmpty(changes.TagIDs)
		ingredientIDs := valueOrEmpty(changes.IngredientIDs)
		relations.TagIDs = &tagIDs
		relations.IngredientIDs = &ingredientIDs
	default:
		if err := applyPartial(recipe, changes); err != nil {
			return nil, err
		}
		relations.TagIDs = changes.TagIDs
		relations.IngredientIDs = changes.IngredientIDs
	}

	if relations.TagIDs != nil {
		resolved, err := s.resolveTagIDs(userID, *relations.TagIDs)
		if err != nil {
			return nil, err
		}
		relations.TagIDs = &resolved
	}
	if relations.IngredientIDs != nil {
		resolved, err := s.resolveIngredientIDs(userID, *relations.IngredientIDs)
		if err != nil {
			return nil, err
		}
		relations.IngredientIDs = &resolved
	}

	if err := s.recipes.Update(recipe, relations); err != nil {
		return nil, fmt.Errorf("failed to update recipe: %w", err)
	}

	item := RecipeListItem{Recipe: *recipe}
	if relations.TagIDs != nil {
		item.TagIDs = *relations.TagIDs
	} else if item.TagIDs, err = s.currentTagIDs(recipe.ID); err != nil {
		return nil, err
	}
	if relations.IngredientIDs != nil {
		item.IngredientIDs = *relations.IngredientIDs
	} else if item.IngredientIDs, err = s.currentIngredientIDs(recipe.ID); err != nil {
		return nil, err
	}
	return &item, nil
}

// Delete removes the recipe, its join rows and its stored image blob.
func (s *RecipeService) Delete(id uint, userID uuid.UUID) error {
	recipe, err := s.recipes.GetForUser(id, userID)
	if err != nil {
		return ErrRecipeNotFound
	}

	if err := s.recipes.Delete(recipe); err != nil {
		return fmt.Errorf("failed to delete recipe: %w", err)
	}

	if recipe.ImagePath != "" {
		if err := s.store.Delete(recipe.ImagePath); err != nil {
			slog.Error("failed to delete image blob", "path", recipe.ImagePath, "error", err)
		}
	}
	return nil
}

// UploadImage validates that the bytes decode as a raster image, stores the
// blob under a fresh uuid-based key and replaces the previous image. On a
// validation failure the previous image stays untouched.
func (s *RecipeService) UploadImage(id uint, userID uuid.UUID, data []byte, filename string) (*models.Recipe, error) {
	recipe, err := s.recipes.GetForUser(id, userID)
	if err != nil {
		return nil, ErrRecipeNotFound
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrInvalidImage
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = "." + format
	}
	key := uuid.New().String() + ext

	path, err := s.store.Put(key, data)
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	previous := recipe.ImagePath
	if err := s.recipes.SetImagePath(recipe, path); err != nil {
		// The recipe still points at the previous image; drop the new blob
		// so nothing is left orphaned.
		if delErr := s.store.Delete(path); delErr != nil {
			slog.Error("failed to delete unrecorded image blob", "path", path, "error", delErr)
		}
		return nil, fmt.Errorf("failed to record image path: %w", err)
	}

	if previous != "" {
		if err := s.store.Delete(previous); err != nil {
			slog.Error("failed to delete replaced image blob", "path", previous, "error", err)
		}
	}
	return recipe, nil
}

// ImageURL maps a recipe's stored image path to a client-facing URL.
func (s *RecipeService) ImageURL(recipe *models.Recipe) string {
	if recipe.ImagePath == "" {
		return ""
	}
	return s.store.URL(recipe.ImagePath)
}

func (s *RecipeService) resolveTagIDs(userID uuid.UUID, ids []uint) ([]uint, error) {
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return []uint{}, nil
	}
	tags, err := s.tags.ResolveForUser(userID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve tags: %w", err)
	}
	if len(tags) != len(ids) {
		return nil, ErrTagNotFound
	}
	return ids, nil
}

func (s *RecipeService) resolveIngredientIDs(userID uuid.UUID, ids []uint) ([]uint, error) {
	ids = dedupeIDs(ids)
	if len(ids) == 0 {
		return []uint{}, nil
	}
	ingredients, err := s.ingredients.ResolveForUser(userID, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ingredients: %w", err)
	}
	if len(ingredients) != len(ids) {
		return nil, ErrIngredientNotFound
	}
	return ids, nil
}

func (s *RecipeService) currentTagIDs(recipeID uint) ([]uint, error) {
	tagMap, err := s.recipes.TagIDsFor([]uint{recipeID})
	if err != nil {
		return nil, fmt.Errorf("failed to load tag links: %w", err)
	}
	return tagMap[recipeID], nil
}

func (s *RecipeService) currentIngredientIDs(recipeID uint) ([]uint, error) {
	ingredientMap, err := s.recipes.IngredientIDsFor([]uint{recipeID})
	if err != nil {
		return nil, fmt.Errorf("failed to load ingredient links: %w", err)
	}
	return ingredientMap[recipeID], nil
}

// applyReplace requires every scalar field and clears the optional ones that
// were omitted. Used for create and for full updates.
func applyReplace(recipe *models.Recipe, changes RecipeChanges) error {
	if changes.Title == nil {
		return ErrTitleRequired
	}
	if changes.TimeMinutes == nil {
		return ErrTimeRequired
	}
	if changes.Price == nil {
		return ErrPriceRequired
	}

	recipe.Title = *changes.Title
	recipe.TimeMinutes = *changes.TimeMinutes
	recipe.Price = *changes.Price
	if changes.Link != nil {
		recipe.Link = *changes.Link
	} else {
		recipe.Link = ""
	}
	return validateRecipe(recipe)
}

// applyPartial merges only the supplied fields.
func applyPartial(recipe *models.Recipe, changes RecipeChanges) error {
	if changes.Title != nil {
		recipe.Title = *changes.Title
	}
	if changes.TimeMinutes != nil {
		recipe.TimeMinutes = *changes.TimeMinutes
	}
	if changes.Price != nil {
		recipe.Price = *changes.Price
	}
	if changes.Link != nil {
		recipe.Link = *changes.Link
	}
	return validateRecipe(recipe)
}

var maxPrice = decimal.New(99999, -2) // numeric(5,2) ceiling

func validateRecipe(recipe *models.Recipe) error {
	if strings.TrimSpace(recipe.Title) == "" {
		return ErrTitleRequired
	}
	if recipe.TimeMinutes <= 0 {
		return ErrTimeRequired
	}
	if recipe.Price.IsNegative() || recipe.Price.GreaterThan(maxPrice) {
		return ErrInvalidPrice
	}
	if !recipe.Price.Equal(recipe.Price.Round(2)) {
		return ErrInvalidPrice
	}
	return nil
}

func valueOrEmpty(ids *[]uint) []uint {
	if ids == nil {
		return []uint{}
	}
	return *ids
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	result := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		result = append(result, id)
	}
	return result
}
