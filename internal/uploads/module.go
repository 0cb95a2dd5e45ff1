package uploads

import (
	"github.com/costurapp/costurapp-backend/internal/config"
	"github.com/costurapp/costurapp-backend/internal/middleware"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type UploadsModule struct {
	store *Store
}

func NewModule(store *Store) *UploadsModule {
	return &UploadsModule{store: store}
}

func (m *UploadsModule) ID() string { return "uploads" }

func (m *UploadsModule) Models() []interface{} {
	return []interface{}{
		&Upload{},
	}
}

func (m *UploadsModule) RegisterRoutes(router fiber.Router, db *gorm.DB, cfg *config.Config) {
	h := NewHandler(m.store)

	protected := router.Group("", middleware.JWTProtected(cfg))
	protected.Post("/uploads", h.Upload)
	protected.Delete("/uploads/:path", h.Delete)
}
