package models

import (
	"time"

	"github.com/google/uuid"
)

// Report is a user complaint about a publication, listing, profile or rating.
// It carries a snapshot of the reported content's author so the report stays
// readable even after the content is taken down.
type Report struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ReporterID     uuid.UUID `gorm:"type:uuid;not null;index" json:"reporter_id"`
	ReporterName   string    `gorm:"size:255" json:"reporter_name"`
	ContentType    string    `gorm:"not null;size:50" json:"content_type"`
	ContentID      string    `gorm:"not null;size:255;index" json:"content_id"`
	ContentOwnerID string    `gorm:"size:255" json:"content_owner_id"`
	OwnerName      string    `gorm:"size:255" json:"owner_name"`
	Reason         string    `gorm:"not null;size:500" json:"reason"`
	Detail         string    `gorm:"size:2000" json:"detail,omitempty"`
	Status         string    `gorm:"not null;default:'pendiente';size:50" json:"status"`
	AdminNote      string    `gorm:"size:1000" json:"admin_note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	Reporter       User      `gorm:"foreignKey:ReporterID" json:"-"`
}
