package handlers

import (
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/plateful/recipe-api/internal/dto"
	"github.com/plateful/recipe-api/internal/ownership"
	"github.com/plateful/recipe-api/internal/query"
	"github.com/plateful/recipe-api/internal/services"
)

const maxImageSize = 10 * 1024 * 1024

type RecipeHandler struct {
	recipeService *services.RecipeService
}

func NewRecipeHandler(recipeService *services.RecipeService) *RecipeHandler {
	return &RecipeHandler{recipeService: recipeService}
}

// List handles GET /recipes with optional tags / ingredients id filters.
func (h *RecipeHandler) List(c *fiber.Ctx) error {
	userID, err := ownership.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	filter := query.ParseRecipeFilter(c.Query("tags"), c.Query("ingredients"))

	items, err := h.recipeService.List(userID, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list recipes",
		})
	}

	resp := make([]dto.RecipeResponse, 0, len(items))
	for i := range items {
		resp = append(resp, toRecipeResponse(&items[i]))
	}
	return c.JSON(resp)
}

func (h *RecipeHandler) Create(c *fiber.Ctx) error {
	userID, err := ownership.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.RecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	item, err := h.recipeService.Create(userID, toRecipeChanges(&req))
	if err != nil {
		return recipeError(c, err, "Failed to create recipe")
	}

	resp := toRecipeResponse(item)
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Get handles GET /recipes/:id and returns the nested detail projection.
func (h *RecipeHandler) Get(c *fiber.Ctx) error {
	userID, err := ownership.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid recipe ID",
		})
	}

	detail, err := h.recipeService.Get(id, userID)
	if err != nil {
		return recipeError(c, err, "Failed to fetch recipe")
	}

	resp := dto.RecipeDetailResponse{
		ID:          detail.Recipe.ID,
		Title:       detail.Recipe.Title,
		TimeMinutes: detail.Recipe.TimeMinutes,
		Price:       dto.Price{Decimal: detail.Recipe.Price},
		Link:        detail.Recipe.Link,
		Image:       h.recipeService.ImageURL(&detail.Recipe),
		Tags:        make([]dto.AttributeResponse, 0, len(detail.Tags)),
		Ingredients: make([]dto.AttributeResponse, 0, len(detail.Ingredients)),
	}
	for _, tag := range detail.Tags {
		resp.Tags = append(resp.Tags, dto.AttributeResponse{ID: tag.ID, Name: tag.Name})
	}
	for _, ingredient := range detail.Ingredients {
		resp.Ingredients = append(resp.Ingredients, dto.AttributeResponse{ID: ingredient.ID, Name: ingredient.Name})
	}
	return c.JSON(resp)
}

// Patch handles PATCH /recipes/:id with merge semantics.
func (h *RecipeHandler) Patch(c *fiber.Ctx) error {
	return h.update(c, services.UpdatePartial)
}

// Put handles PUT /recipes/:id with replace semantics: relation lists left
// out of the payload end up empty.
func (h *RecipeHandler) Put(c *fiber.Ctx) error {
	return h.update(c, services.UpdateReplace)
}

func (h *RecipeHandler) update(c *fiber.Ctx, mode services.UpdateMode) error {
	userID, err := ownership.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid recipe ID",
		})
	}

	var req dto.RecipeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	item, err := h.recipeService.Update(id, userID, toRecipeChanges(&req), mode)
	if err != nil {
		return recipeError(c, err, "Failed to update recipe")
	}

	resp := toRecipeResponse(item)
	return c.JSON(resp)
}

func (h *RecipeHandler) Delete(c *fiber.Ctx) error {
	userID, err := ownership.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid recipe ID",
		})
	}

	if err := h.recipeService.Delete(id, userID); err != nil {
		return recipeError(c, err, "Failed to delete recipe")
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// UploadImage handles POST /recipes/:id/image with a multipart "image" field.
func (h *RecipeHandler) UploadImage(c *fiber.Ctx) error {
	userID, err := ownership.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid recipe ID",
		})
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Image file is required",
		})
	}
	if file.Size > maxImageSize {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Image size must be less than 10MB",
		})
	}

	src, err := file.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read image file",
		})
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to read image file",
		})
	}

	recipe, err := h.recipeService.UploadImage(id, userID, data, file.Filename)
	if err != nil {
		return recipeError(c, err, "Failed to upload image")
	}

	return c.JSON(fiber.Map{
		"id":    recipe.ID,
		"image": h.recipeService.ImageURL(recipe),
	})
}

func toRecipeChanges(req *dto.RecipeRequest) services.RecipeChanges {
	return services.RecipeChanges{
		Title:         req.Title,
		TimeMinutes:   req.TimeMinutes,
		Price:         req.Price,
		Link:          req.Link,
		TagIDs:        req.Tags,
		IngredientIDs: req.Ingredients,
	}
}

func toRecipeResponse(item *services.RecipeListItem) dto.RecipeResponse {
	resp := dto.RecipeResponse{
		ID:          item.Recipe.ID,
		Title:       item.Recipe.Title,
		TimeMinutes: item.Recipe.TimeMinutes,
		Price:       dto.Price{Decimal: item.Recipe.Price},
		Link:        item.Recipe.Link,
		Tags:        item.TagIDs,
		Ingredients: item.IngredientIDs,
	}
	if resp.Tags == nil {
		resp.Tags = []uint{}
	}
	if resp.Ingredients == nil {
		resp.Ingredients = []uint{}
	}
	return resp
}

func recipeError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrRecipeNotFound),
		errors.Is(err, services.ErrTagNotFound),
		errors.Is(err, services.ErrIngredientNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	case errors.Is(err, services.ErrTitleRequired),
		errors.Is(err, services.ErrTimeRequired),
		errors.Is(err, services.ErrPriceRequired),
		errors.Is(err, services.ErrInvalidPrice),
		errors.Is(err, services.ErrInvalidImage):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: err.Error(),
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: fallback,
		})
	}
}
