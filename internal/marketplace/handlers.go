package marketplace

import (
	"errors"
	"strings"

	"github.com/costurapp/costurapp-backend/internal/authctx"
	"github.com/costurapp/costurapp-backend/internal/profiles"
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

type CreateListingRequest struct {
	Title       string   `json:"titulo"`
	Description string   `json:"descripcion"`
	Brand       string   `json:"marca"`
	PriceCOP    int64    `json:"precio"`
	Condition   string   `json:"condicion"`
	Images      []string `json:"imagenes"`
	City        string   `json:"ciudad"`
}

type SetListingStateRequest struct {
	State string `json:"estado"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	var req CreateListingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	if ok, reason := h.moderation.FilterContent(req.Title + " " + req.Description); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": h.moderation.GetRejectionMessage(reason)})
	}

	listing, err := h.service.Create(c.Context(), userID, CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Brand:       req.Brand,
		PriceCOP:    req.PriceCOP,
		Condition:   req.Condition,
		Images:      req.Images,
		City:        req.City,
	})
	if err != nil {
		if errors.Is(err, ErrProfileRequired) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(listing)
}

func (h *Handler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 50 {
		limit = 20
	}

	listings, total, err := h.service.List(c.Context(), page, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to fetch listings"})
	}

	if q := strings.TrimSpace(c.Query("q")); q != "" {
		listings = filterListings(listings, q)
	}

	return c.JSON(fiber.Map{
		"data":  listings,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

func (h *Handler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid listing ID"})
	}

	listing, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"data": listing})
}

func (h *Handler) ListMine(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	listings, err := h.service.ListBySeller(c.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrProfileRequired) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"data": listings})
}

func (h *Handler) SetState(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid listing ID"})
	}

	var req SetListingStateRequest
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
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid listing ID"})
	}

	if err := h.service.SetState(c.Context(), userID, id, StateDeleted); err != nil {
		return h.stateError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Publicación eliminada"})
}

func (h *Handler) stateError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrListingNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
	case errors.Is(err, ErrNotSeller):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": err.Error()})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
}

// filterListings keeps listings whose title, brand or city contains every
// query token, accents ignored.
func filterListings(listings []Listing, query string) []Listing {
	tokens := strings.Fields(profiles.Fold(query))
	if len(tokens) == 0 {
		return listings
	}

	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		haystack := profiles.Fold(l.Title + " " + l.Brand + " " + l.City)
		match := true
		for _, tok := range tokens {
			if !strings.Contains(haystack, tok) {
				match = false
				break
			}
		}
		if match {
			out = append(out, l)
		}
	}
	return out
}
