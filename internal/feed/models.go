package feed

import (
	"time"

	"github.com/costurapp/costurapp-backend/internal/profiles"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Post states. "eliminada" is a soft state: the row stays but never
// surfaces in feed pages again.
const (
	StateActive   = "activa"
	StateInactive = "inactiva"
	StatePaused   = "pausada"
	StateDeleted  = "eliminada"
)

// Contact methods offered on a post.
const (
	ContactWhatsApp = "whatsapp"
	ContactCall     = "llamada"
	ContactBoth     = "ambos"
)

// MaxImages caps the image gallery of a post.
const MaxImages = 5

// Post is one publication in the public feed. The author is referenced by
// profile id + category; the snapshot attached on reads comes from a join.
type Post struct {
	ID             uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	AuthorID       uuid.UUID                   `gorm:"type:uuid;not null;index" json:"author_id"`
	AuthorCategory profiles.Category           `gorm:"size:30;not null" json:"author_categoria"`
	Description    string                      `gorm:"type:text;not null" json:"descripcion"`
	Images         datatypes.JSONSlice[string] `json:"imagenes"`
	City           string                      `gorm:"size:100" json:"ciudad"`
	Neighborhood   string                      `gorm:"size:100" json:"barrio"`
	ContactPhone   string                      `gorm:"size:20" json:"telefono_contacto"`
	ContactMethod  string                      `gorm:"size:20;not null;default:'whatsapp'" json:"metodo_contacto"`
	State          string                      `gorm:"size:20;not null;default:'activa';index" json:"estado"`
	ContactCount   int                         `gorm:"default:0" json:"contact_count"`
	ContactLimit   int                         `gorm:"default:0" json:"contact_limit"`
	ContactWeek    string                      `gorm:"size:10" json:"-"`
	CreatedAt      time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time                   `json:"updated_at"`
}

// PostWithAuthor is a feed row enriched with its author snapshot.
type PostWithAuthor struct {
	Post
	Author profiles.AuthorSnapshot `json:"autor"`
}

// Page is one feed page plus the cursor to resume from.
type Page struct {
	Posts      []PostWithAuthor `json:"publicaciones"`
	NextCursor string           `json:"next_cursor,omitempty"`
	HasMore    bool             `json:"has_more"`
}
