package profiles

// Category discriminates the profile shape. The set is closed; every
// switch over it handles all values explicitly.
type Category string

const (
	CategoryWorker        Category = "trabajador"
	CategoryWorkshop      Category = "taller"
	CategoryCompany       Category = "empresa"
	CategoryNaturalPerson Category = "persona_natural"
	CategoryNone          Category = "sin_perfil"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryWorker, CategoryWorkshop, CategoryCompany, CategoryNaturalPerson, CategoryNone:
		return true
	}
	return false
}

// Registrable reports whether a profile of this category can be created
// through the registration wizard. CategoryNone marks visitors who browse
// without a profile and is never stored.
func (c Category) Registrable() bool {
	switch c {
	case CategoryWorker, CategoryWorkshop, CategoryCompany, CategoryNaturalPerson:
		return true
	case CategoryNone:
		return false
	}
	return false
}

// Payment types for workshop positions.
const (
	PaymentDaily    = "al_dia"
	PaymentPerPiece = "por_prenda"
	PaymentFixed    = "fijo"
)

// Position statuses.
const (
	PositionActive   = "activa"
	PositionInactive = "inactiva"
)
