package feed

import (
	"errors"

	"github.com/costurapp/costurapp-backend/internal/authctx"
	"github.com/costurapp/costurapp-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	service    *Service
	moderation *services.ModerationService
}

func NewHandler(service *Service, moderation *services.ModerationService) *Handler {
	return &Handler{service: service, moderation: moderation}
}

// --- Request DTOs ---

type CreatePostRequest struct {
	Description   string   `json:"descripcion"`
	Images        []string `json:"imagenes"`
	City          string   `json:"ciudad"`
	Neighborhood  string   `json:"barrio"`
	ContactPhone  string   `json:"telefono_contacto"`
	ContactMethod string   `json:"metodo_contacto"`
}

type SetStateRequest struct {
	State string `json:"estado"`
}

func (h *Handler) GetPage(c *fiber.Ctx) error {
	cursor := c.Query("cursor")
	limit := c.QueryInt("limit", 0)

	page, err := h.service.GetPage(c.Context(), cursor, limit)
	if err != nil {
		if errors.Is(err, ErrBadCursor) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to fetch feed"})
	}

	return c.JSON(fiber.Map{"data": page})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	var req CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	if ok, reason := h.moderation.FilterContent(req.Description); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": h.moderation.GetRejectionMessage(reason)})
	}

	post, err := h.service.Create(c.Context(), userID, CreateInput{
		Description:   req.Description,
		Images:        req.Images,
		City:          req.City,
		Neighborhood:  req.Neighborhood,
		ContactPhone:  req.ContactPhone,
		ContactMethod: req.ContactMethod,
	})
	if err != nil {
		if errors.Is(err, ErrProfileRequired) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(post)
}

func (h *Handler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid post ID"})
	}

	post, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"data": post})
}

func (h *Handler) ListMine(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	posts, err := h.service.ListMine(c.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileRequired) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"data": posts})
}

func (h *Handler) SetState(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid post ID"})
	}

	var req SetStateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	if err := h.service.SetState(c.Context(), userID, id, req.State); err != nil {
		return h.stateError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid post ID"})
	}

	if err := h.service.SetState(c.Context(), userID, id, StateDeleted); err != nil {
		return h.stateError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Publicación eliminada"})
}

func (h *Handler) stateError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrPostNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
	case errors.Is(err, ErrNotAuthor):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": err.Error()})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
}
