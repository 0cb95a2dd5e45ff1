package profiles

import (
	"github.com/costurapp/costurapp-backend/internal/config"
	"github.com/costurapp/costurapp-backend/internal/middleware"
	"github.com/costurapp/costurapp-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type ProfilesModule struct {
	service    *Service
	directory  *Directory
	moderation *services.ModerationService
}

func NewModule(service *Service, directory *Directory, moderation *services.ModerationService) *ProfilesModule {
	return &ProfilesModule{service: service, directory: directory, moderation: moderation}
}

func (m *ProfilesModule) ID() string { return "profiles" }

func (m *ProfilesModule) Models() []interface{} {
	return []interface{}{
		&Profile{},
		&Position{},
		&Rating{},
	}
}

func (m *ProfilesModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	h := NewHandler(m.service, m.directory, m.moderation)

	// Public directory routes
	router.Get("/perfiles/buscar", h.Search)
	router.Get("/perfiles/:id", h.GetByID)
	router.Get("/perfiles/:id/calificaciones", h.ListRatings)
	router.Get("/perfiles/:id/vacantes", h.ListPositions)

	// Protected routes
	protected := router.Group("", middleware.JWTProtected(cfg))
	protected.Post("/perfiles", h.Create)
	protected.Get("/perfiles/me/own", h.GetMine)
	protected.Put("/perfiles/:id", h.Update)
	protected.Delete("/perfiles/:id", h.Delete)
	protected.Post("/perfiles/:id/calificaciones", h.AddRating)
	protected.Post("/perfiles/:id/vacantes", h.AddPosition)
	protected.Put("/vacantes/:id/estado", h.SetPositionStatus)
	protected.Delete("/vacantes/:id", h.DeletePosition)
}
