package uploads

import (
	"errors"

	"github.com/costurapp/costurapp-backend/internal/authctx"
	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) Upload(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	fileHeader, err := c.FormFile("imagen")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Missing imagen field"})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Unreadable upload"})
	}
	defer src.Close()

	upload, err := h.store.Save(c.Context(), userID, fileHeader.Header.Get("Content-Type"), fileHeader.Size, src)
	if err != nil {
		return h.uploadError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"path": upload.Path,
			"url":  h.store.URL(upload),
		},
	})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	userID, err := authctx.UserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": true, "message": "Unauthorized"})
	}

	path := c.Params("path")
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": "Missing path"})
	}

	if err := h.store.Delete(c.Context(), userID, path); err != nil {
		return h.uploadError(c, err)
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) uploadError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ErrTooLarge), errors.Is(err, ErrBadType), errors.Is(err, ErrEmptyUpload):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": true, "message": err.Error()})
	case errors.Is(err, ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": true, "message": err.Error()})
	case errors.Is(err, ErrNotOwner):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": true, "message": err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": true, "message": "Upload failed"})
}
