package feed

import (
	"github.com/costurapp/costurapp-backend/internal/config"
	"github.com/costurapp/costurapp-backend/internal/middleware"
	"github.com/costurapp/costurapp-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type FeedModule struct {
	service    *Service
	moderation *services.ModerationService
}

func NewModule(service *Service, moderation *services.ModerationService) *FeedModule {
	return &FeedModule{service: service, moderation: moderation}
}

func (m *FeedModule) ID() string { return "feed" }

func (m *FeedModule) Models() []interface{} {
	return []interface{}{
		&Post{},
	}
}

func (m *FeedModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	h := NewHandler(m.service, m.moderation)

	// Public feed
	router.Get("/publicaciones", h.GetPage)
	router.Get("/publicaciones/:id", h.GetByID)

	// Protected routes
	protected := router.Group("", middleware.JWTProtected(cfg))
	protected.Post("/publicaciones", h.Create)
	protected.Get("/publicaciones/mias/list", h.ListMine)
	protected.Put("/publicaciones/:id/estado", h.SetState)
	protected.Delete("/publicaciones/:id", h.Delete)
}
