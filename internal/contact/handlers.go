package contact

import (
	"errors"

	"github.com/costurapp/costurapp-backend/internal/authctx"
	"github.com/costurapp/costurapp-backend/internal/feed"
	"github.com/costurapp/costurapp-backend/internal/profiles"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) ContactPost(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid post ID"})
	}

	channel := c.Query("canal", ChannelWhatsApp)
	if err := h.requireAuth(c, channel); err != nil {
		return err
	}

	link, err := h.service.ForPost(c.Context(), id, channel)
	if err != nil {
		return h.contactError(c, err)
	}
	return c.JSON(fiber.Map{"data": link})
}

func (h *Handler) ContactProfile(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid profile ID"})
	}

	channel := c.Query("canal", ChannelWhatsApp)
	if err := h.requireAuth(c, channel); err != nil {
		return err
	}

	link, err := h.service.ForProfile(c.Context(), id, channel)
	if err != nil {
		return h.contactError(c, err)
	}
	return c.JSON(fiber.Map{"data": link})
}

// requireAuth gates direct-contact channels behind a session; sharing stays
// open to everyone.
func (h *Handler) requireAuth(c *fiber.Ctx, channel string) error {
	if channel == ChannelShare {
		return nil
	}
	if !authctx.IsAuthenticated(c) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error":   true,
			"message": "Regístrate para contactar directamente",
		})
	}
	return nil
}

func (h *Handler) contactError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, feed.ErrPostNotFound), errors.Is(err, profiles.ErrProfileNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
	case errors.Is(err, feed.ErrContactLimit):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": true, "message": "Límite de contactos alcanzado esta semana"})
	case errors.Is(err, ErrUnknownChannel), errors.Is(err, ErrNoPhone):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to resolve contact"})
}
