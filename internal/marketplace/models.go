package marketplace

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Listing states.
const (
	StateActive  = "activa"
	StateSold    = "vendida"
	StateDeleted = "eliminada"
)

// Machine conditions.
const (
	ConditionNew      = "nueva"
	ConditionUsed     = "usada"
	ConditionForParts = "para_repuestos"
)

// MaxImages caps the photo gallery of a listing.
const MaxImages = 5

// Listing is a used sewing machine (or related equipment) offered for sale.
type Listing struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	SellerID    uuid.UUID                   `gorm:"type:uuid;not null;index" json:"seller_id"`
	Title       string                      `gorm:"size:255;not null" json:"titulo"`
	Description string                      `gorm:"type:text" json:"descripcion"`
	Brand       string                      `gorm:"size:100" json:"marca"`
	PriceCOP    int64                       `gorm:"not null" json:"precio"`
	Condition   string                      `gorm:"size:30;not null" json:"condicion"`
	Images      datatypes.JSONSlice[string] `json:"imagenes"`
	City        string                      `gorm:"size:100;index" json:"ciudad"`
	State       string                      `gorm:"size:20;not null;default:'activa';index" json:"estado"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}
