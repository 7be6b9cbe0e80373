package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/plateful/recipe-api/internal/models"
	"github.com/plateful/recipe-api/internal/repository"
)

var (
	ErrNameRequired      = errors.New("name must not be empty")
	ErrAttributeNotFound = errors.New("not found")
)

// Attribute is the shared projection of a tag or ingredient: both are plain
// named entities scoped to one user, so one service contract covers them.
type Attribute struct {
	ID   uint
	Name string
}

type AttributeService interface {
	Create(userID uuid.UUID, name string) (*Attribute, error)
	List(userID uuid.UUID, assignedOnly bool) ([]Attribute, error)
	Update(id uint, userID uuid.UUID, name string) (*Attribute, error)
	Delete(id uint, userID uuid.UUID) error
}

type TagService struct {
	tags repository.TagRepository
}

func NewTagService(tags repository.TagRepository) *TagService {
	return &TagService{tags: tags}
}

func (s *TagService) Create(userID uuid.UUID, name string) (*Attribute, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	tag := models.Tag{UserID: userID, Name: name}
	if err := s.tags.Create(&tag); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return &Attribute{ID: tag.ID, Name: tag.Name}, nil
}

func (s *TagService) List(userID uuid.UUID, assignedOnly bool) ([]Attribute, error) {
	tags, err := s.tags.ListForUser(userID, assignedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}

	result := make([]Attribute, 0, len(tags))
	for _, tag := range tags {
		result = append(result, Attribute{ID: tag.ID, Name: tag.Name})
	}
	return result, nil
}

func (s *TagService) Update(id uint, userID uuid.UUID, name string) (*Attribute, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	tag, err := s.tags.GetForUser(id, userID)
	if err != nil {
		return nil, ErrAttributeNotFound
	}

	tag.Name = name
	if err := s.tags.Update(tag); err != nil {
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}
	return &Attribute{ID: tag.ID, Name: tag.Name}, nil
}

func (s *TagService) Delete(id uint, userID uuid.UUID) error {
	tag, err := s.tags.GetForUser(id, userID)
	if err != nil {
		return ErrAttributeNotFound
	}
	if err := s.tags.Delete(tag); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	return nil
}

type IngredientService struct {
	ingredients repository.IngredientRepository
}

func NewIngredientService(ingredients repository.IngredientRepository) *IngredientService {
	return &IngredientService{ingredients: ingredients}
}

func (s *IngredientService) Create(userID uuid.UUID, name string) (*Attribute, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	ingredient := models.Ingredient{UserID: userID, Name: name}
	if err := s.ingredients.Create(&ingredient); err != nil {
		return nil, fmt.Errorf("failed to create ingredient: %w", err)
	}
	return &Attribute{ID: ingredient.ID, Name: ingredient.Name}, nil
}

func (s *IngredientService) List(userID uuid.UUID, assignedOnly bool) ([]Attribute, error) {
	ingredients, err := s.ingredients.ListForUser(userID, assignedOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}

	result := make([]Attribute, 0, len(ingredients))
	for _, ingredient := range ingredients {
		result = append(result, Attribute{ID: ingredient.ID, Name: ingredient.Name})
	}
	return result, nil
}

func (s *IngredientService) Update(id uint, userID uuid.UUID, name string) (*Attribute, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}

	ingredient, err := s.ingredients.GetForUser(id, userID)
	if err != nil {
		return nil, ErrAttributeNotFound
	}

	ingredient.Name = name
	if err := s.ingredients.Update(ingredient); err != nil {
		return nil, fmt.Errorf("failed to update ingredient: %w", err)
	}
	return &Attribute{ID: ingredient.ID, Name: ingredient.Name}, nil
}

func (s *IngredientService) Delete(id uint, userID uuid.UUID) error {
	ingredient, err := s.ingredients.GetForUser(id, userID)
	if err != nil {
		return ErrAttributeNotFound
	}
	if err := s.ingredients.Delete(ingredient); err != nil {
		return fmt.Errorf("failed to delete ingredient: %w", err)
	}
	return nil
}
