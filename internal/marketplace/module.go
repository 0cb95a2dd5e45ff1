package marketplace

import (
	"github.com/costurapp/costurapp-backend/internal/config"
	"github.com/costurapp/costurapp-backend/internal/middleware"
	"github.com/costurapp/costurapp-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type MarketplaceModule struct {
	service    *Service
	moderation *services.ModerationService
}

func NewModule(service *Service, moderation *services.ModerationService) *MarketplaceModule {
	return &MarketplaceModule{service: service, moderation: moderation}
}

func (m *MarketplaceModule) ID() string { return "marketplace" }

func (m *MarketplaceModule) Models() []interface{} {
	return []interface{}{
		&Listing{},
	}
}

func (m *MarketplaceModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	h := NewHandler(m.service, m.moderation)

	// Public catalogue
	router.Get("/maquinas", h.List)
	router.Get("/maquinas/:id", h.GetByID)

	// Protected routes
	protected := router.Group("", middleware.JWTProtected(cfg))
	protected.Post("/maquinas", h.Create)
	protected.Get("/maquinas/mias/list", h.ListMine)
	protected.Put("/maquinas/:id/estado", h.SetState)
	protected.Delete("/maquinas/:id", h.Delete)
}
