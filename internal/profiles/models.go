package profiles

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Profile is the public face of an account. One row per user; the category
// column decides which of the category-specific fields are meaningful.
type Profile struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Category     Category  `gorm:"size:30;not null;index" json:"categoria"`
	Name         string    `gorm:"size:255;not null" json:"nombre"`
	Phone        string    `gorm:"size:20" json:"telefono"`
	PhotoURL     string    `gorm:"size:500" json:"foto_url"`
	City         string    `gorm:"size:100;index" json:"ciudad"`
	Country      string    `gorm:"size:100" json:"pais"`
	Neighborhood string    `gorm:"size:100" json:"barrio"`

	// trabajador
	Gender string `gorm:"size:20" json:"genero,omitempty"`

	// taller
	Responsible   string `gorm:"size:255" json:"responsable,omitempty"`
	EmployeeCount int    `gorm:"default:0" json:"numero_empleados,omitempty"`

	// empresa
	BusinessName string `gorm:"size:255" json:"razon_social,omitempty"`
	TaxID        string `gorm:"size:30" json:"nit,omitempty"`

	Specialties datatypes.JSONSlice[string] `json:"especialidades"`
	Machines    datatypes.JSONSlice[string] `json:"maquinas"`

	AverageScore float64 `gorm:"default:0" json:"average_score"`
	RatingCount  int     `gorm:"default:0" json:"rating_count"`
	VisitCount   int     `gorm:"default:0" json:"visit_count"`
	ContactCount int     `gorm:"default:0" json:"contact_count"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Position is a job opening owned by a taller profile.
type Position struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID   uuid.UUID                   `gorm:"type:uuid;not null;index" json:"profile_id"`
	Title       string                      `gorm:"size:255;not null" json:"titulo"`
	Specialties datatypes.JSONSlice[string] `json:"especialidades"`
	PaymentType string                      `gorm:"size:30;not null" json:"tipo_pago"`
	Status      string                      `gorm:"size:20;not null;default:'activa'" json:"estado"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
	Profile     Profile                     `gorm:"foreignKey:ProfileID" json:"-"`
}

// Rating is one user's score of a profile. The unique index is what makes
// "one rating per (profile, rater) pair" hold under concurrent writers.
type Rating struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProfileID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_profile_author" json:"profile_id"`
	AuthorID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_ratings_profile_author" json:"author_id"`
	AuthorName string    `gorm:"size:255" json:"author_name"`
	Score      int       `gorm:"not null" json:"score"`
	Text       string    `gorm:"size:1000" json:"texto"`
	CreatedAt  time.Time `json:"created_at"`
}
