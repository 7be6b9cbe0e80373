package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/plateful/recipe-api/internal/dto"
	"github.com/plateful/recipe-api/internal/ownership"
	"github.com/plateful/recipe-api/internal/services"
)

// AttributeHandler serves both tags and ingredients; the two endpoints are
// the same handler bound to different services.
type AttributeHandler struct {
	service services.AttributeService
	label   string
}

func NewAttributeHandler(service services.AttributeService, label string) *AttributeHandler {
	return &AttributeHandler{service: service, label: label}
}

// List returns the user's attributes sorted by name. With assigned_only=1
// only attributes attached to at least one of the user's recipes appear.
func (h *AttributeHandler) List(c *fiber.Ctx) error {
	userID, err := ownership.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	assigned := c.Query("assigned_only")
	assignedOnly := assigned == "1" || assigned == "true"

	attributes, err := h.service.List(userID, assignedOnly)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to list " + h.label + "s",
		})
	}

	resp := make([]dto.AttributeResponse, 0, len(attributes))
	for _, attribute := range attributes {
		resp = append(resp, dto.AttributeResponse{ID: attribute.ID, Name: attribute.Name})
	}
	return c.JSON(resp)
}

func (h *AttributeHandler) Create(c *fiber.Ctx) error {
	userID, err := ownership.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	var req dto.AttributeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	attribute, err := h.service.Create(userID, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrNameRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to create " + h.label,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(dto.AttributeResponse{ID: attribute.ID, Name: attribute.Name})
}

func (h *AttributeHandler) Update(c *fiber.Ctx) error {
	userID, err := ownership.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid " + h.label + " ID",
		})
	}

	var req dto.AttributeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	attribute, err := h.service.Update(id, userID, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrNameRequired) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		if errors.Is(err, services.ErrAttributeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: titleCase(h.label) + " not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to update " + h.label,
		})
	}

	return c.JSON(dto.AttributeResponse{ID: attribute.ID, Name: attribute.Name})
}

func (h *AttributeHandler) Delete(c *fiber.Ctx) error {
	userID, err := ownership.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Unauthorized",
		})
	}

	id, err := parseID(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid " + h.label + " ID",
		})
	}

	if err := h.service.Delete(id, userID); err != nil {
		if errors.Is(err, services.ErrAttributeNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
				Error: true, Message: titleCase(h.label) + " not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
			Error: true, Message: "Failed to delete " + h.label,
		})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
