package profiles

import (
	"errors"

	"github.com/costurapp/costurapp-backend/internal/authctx"
	"github.com/costurapp/costurapp-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type Handler struct {
	service    *Service
	directory  *Directory
	moderation *services.ModerationService
}

func NewHandler(service *Service, directory *Directory, moderation *services.ModerationService) *Handler {
	return &Handler{service: service, directory: directory, moderation: moderation}
}

// --- Request DTOs ---

type CreateProfileRequest struct {
	Category      string          `json:"categoria"`
	Name          string          `json:"nombre"`
	Phone         string          `json:"telefono"`
	City          string          `json:"ciudad"`
	Country       string          `json:"pais"`
	Neighborhood  string          `json:"barrio"`
	Gender        string          `json:"genero"`
	Responsible   string          `json:"responsable"`
	EmployeeCount string          `json:"numero_empleados"`
	BusinessName  string          `json:"razon_social"`
	TaxID         string          `json:"nit"`
	Specialties   []string        `json:"especialidades"`
	Machines      []string        `json:"maquinas"`
	Positions     []PositionDraft `json:"posiciones"`
}

type UpdateProfileRequest struct {
	Name         *string  `json:"nombre"`
	Phone        *string  `json:"telefono"`
	PhotoURL     *string  `json:"foto_url"`
	City         *string  `json:"ciudad"`
	Country      *string  `json:"pais"`
	Neighborhood *string  `json:"barrio"`
	Specialties  []string `json:"especialidades"`
	Machines     []string `json:"maquinas"`
}

type AddRatingRequest struct {
	Score int    `json:"score"`
	Text  string `json:"texto"`
}

type AddPositionRequest struct {
	Title       string   `json:"titulo"`
	Specialties []string `json:"especialidades"`
	PaymentType string   `json:"tipo_pago"`
}

type SetPositionStatusRequest struct {
	Status string `json:"estado"`
}

// Create runs the registration payload through the wizard so the same
// per-step validation applies no matter how the client collected the data.
func (h *Handler) Create(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	var req CreateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	w := NewWizard()
	if err := w.SelectCategory(Category(req.Category)); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
	}
	if !w.Advance() {
		return h.wizardError(c, w)
	}

	w.Set("nombre", req.Name)
	w.Set("telefono", req.Phone)
	w.Set("ciudad", req.City)
	w.Set("pais", req.Country)
	w.Set("barrio", req.Neighborhood)
	if !w.Advance() {
		return h.wizardError(c, w)
	}

	w.Set("genero", req.Gender)
	w.Set("responsable", req.Responsible)
	w.Set("numero_empleados", req.EmployeeCount)
	w.Set("razon_social", req.BusinessName)
	w.Set("nit", req.TaxID)
	if !w.Advance() {
		return h.wizardError(c, w)
	}

	w.SetList("especialidades", req.Specialties)
	w.SetList("maquinas", req.Machines)
	for _, p := range req.Positions {
		w.AddPosition(p)
	}

	draft, err := w.Submit()
	if err != nil {
		return h.wizardError(c, w)
	}

	profile, err := h.service.CreateFromDraft(c.Context(), userID, draft)
	if err != nil {
		if errors.Is(err, ErrProfileExists) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(profile)
}

func (h *Handler) wizardError(c *fiber.Ctx, w *Wizard) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":   true,
		"message": "Hay campos inválidos",
		"fields":  w.Errors(),
	})
}

func (h *Handler) GetByID(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid profile ID"})
	}

	profile, err := h.service.GetByID(c.Context(), id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"data": profile})
}

func (h *Handler) GetMine(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	profile, err := h.service.GetByUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"data": profile})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid profile ID"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	profile, err := h.service.Update(c.Context(), userID, id, UpdateInput{
		Name:         req.Name,
		Phone:        req.Phone,
		PhotoURL:     req.PhotoURL,
		City:         req.City,
		Country:      req.Country,
		Neighborhood: req.Neighborhood,
		Specialties:  req.Specialties,
		Machines:     req.Machines,
	})
	if err != nil {
		return h.ownershipError(c, err)
	}

	return c.JSON(fiber.Map{"data": profile})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid profile ID"})
	}

	if err := h.service.Delete(c.Context(), userID, id); err != nil {
		return h.ownershipError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "message": "Perfil eliminado"})
}

func (h *Handler) AddRating(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid profile ID"})
	}

	var req AddRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	if ok, reason := h.moderation.FilterContent(req.Text); !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": h.moderation.GetRejectionMessage(reason)})
	}

	rater, err := h.service.GetByUser(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": "Necesitas un perfil para calificar"})
	}

	profile, err := h.service.AddRating(c.Context(), profileID, rater.ID, rater.Name, req.Score, req.Text)
	if err != nil {
		switch {
		case errors.Is(err, ErrSelfRating), errors.Is(err, ErrAlreadyRated), errors.Is(err, ErrInvalidScore):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
		case errors.Is(err, ErrProfileNotFound):
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": profile})
}

func (h *Handler) ListRatings(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid profile ID"})
	}

	ratings, err := h.service.ListRatings(c.Context(), profileID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"data": ratings})
}

func (h *Handler) Search(c *fiber.Ctx) error {
	category := Category(c.Query("categoria"))
	if !category.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid category"})
	}

	if err := h.directory.EnsureLoaded(c.Context()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Failed to load directory"})
	}

	results := h.directory.Search(c.Query("q"), category)
	if results == nil {
		results = []Profile{}
	}

	return c.JSON(fiber.Map{"data": results, "total": len(results)})
}

func (h *Handler) AddPosition(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid profile ID"})
	}

	var req AddPositionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	position, err := h.service.AddPosition(c.Context(), userID, profileID, PositionInput{
		Title:       req.Title,
		Specialties: req.Specialties,
		PaymentType: req.PaymentType,
	})
	if err != nil {
		return h.ownershipError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(position)
}

func (h *Handler) ListPositions(c *fiber.Ctx) error {
	profileID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid profile ID"})
	}

	positions, err := h.service.ListPositions(c.Context(), profileID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": err.Error()})
	}

	return c.JSON(fiber.Map{"data": positions})
}

func (h *Handler) SetPositionStatus(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	positionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid position ID"})
	}

	var req SetPositionStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid request"})
	}

	if err := h.service.SetPositionStatus(c.Context(), userID, positionID, req.Status); err != nil {
		return h.ownershipError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) DeletePosition(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	positionID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Invalid position ID"})
	}

	if err := h.service.DeletePosition(c.Context(), userID, positionID); err != nil {
		return h.ownershipError(c, err)
	}

	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) ownershipError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
	case errors.Is(err, ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": err.Error()})
	case errors.Is(err, ErrNotWorkshop):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
}
