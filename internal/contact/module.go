package contact

import (
	"github.com/costurapp/costurapp-backend/internal/config"
	"github.com/costurapp/costurapp-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ContactModule carries no tables of its own; clicks are counted on the
// posts and profiles they belong to.
type ContactModule struct {
	service *Service
}

func NewModule(service *Service) *ContactModule {
	return &ContactModule{service: service}
}

func (m *ContactModule) ID() string { return "contact" }

func (m *ContactModule) Models() []interface{} { return nil }

func (m *ContactModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	h := NewHandler(m.service)

	// Optional auth: the handler decides per channel whether a session is
	// required, so share links work for anonymous visitors.
	optional := router.Group("", middleware.JWTOptional(cfg))
	optional.Get("/publicaciones/:id/contacto", h.ContactPost)
	optional.Get("/perfiles/:id/contacto", h.ContactProfile)
}
