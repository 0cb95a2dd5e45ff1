package profiles

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFold(t *testing.T) {
	assert.Equal(t, "medellin", Fold("Medellín"))
	assert.Equal(t, "confeccion", Fold("CONFECCIÓN"))
	assert.Equal(t, "nino", Fold("niño"))
	assert.Equal(t, "plain", Fold("plain"))
}

func loadedDirectory(ps ...Profile) *Directory {
	return &Directory{loaded: true, profiles: ps}
}

func TestDirectorySearchMatchesAccentInsensitive(t *testing.T) {
	maria := Profile{
		ID:       uuid.New(),
		Category: CategoryWorker,
		Name:     "María Rodríguez",
		City:     "Medellín",
		Country:  "Colombia",
	}
	d := loadedDirectory(maria)

	got := d.Search("medellin maria", CategoryWorker)
	require.Len(t, got, 1)
	assert.Equal(t, maria.ID, got[0].ID)

	// Accented query against folded index works the same way.
	got = d.Search("Medellín", CategoryWorker)
	require.Len(t, got, 1)
}

func TestDirectorySearchTokenOrderIrrelevant(t *testing.T) {
	d := loadedDirectory(Profile{
		ID:       uuid.New(),
		Category: CategoryWorkshop,
		Name:     "Taller La Aguja",
		City:     "Bogotá",
	})

	a := d.Search("aguja bogota", CategoryWorkshop)
	b := d.Search("bogota aguja", CategoryWorkshop)
	assert.Equal(t, a, b)
	assert.Len(t, a, 1)
}

func TestDirectorySearchEveryTokenMustMatch(t *testing.T) {
	d := loadedDirectory(Profile{
		ID:       uuid.New(),
		Category: CategoryWorker,
		Name:     "Ana",
		City:     "Cali",
	})

	assert.Len(t, d.Search("ana cali", CategoryWorker), 1)
	assert.Empty(t, d.Search("ana bogota", CategoryWorker))
}

func TestDirectorySearchFiltersByCategory(t *testing.T) {
	d := loadedDirectory(
		Profile{ID: uuid.New(), Category: CategoryWorker, Name: "Pedro", City: "Cali"},
		Profile{ID: uuid.New(), Category: CategoryWorkshop, Name: "Pedro y Hijos", City: "Cali"},
	)

	workers := d.Search("pedro", CategoryWorker)
	require.Len(t, workers, 1)
	assert.Equal(t, CategoryWorker, workers[0].Category)
}

func TestDirectorySearchMatchesSpecialtiesAndMachines(t *testing.T) {
	d := loadedDirectory(Profile{
		ID:          uuid.New(),
		Category:    CategoryWorker,
		Name:        "Lucía",
		Specialties: toJSONSlice([]string{"confección", "fileteado"}),
		Machines:    toJSONSlice([]string{"fileteadora"}),
	})

	assert.Len(t, d.Search("fileteadora", CategoryWorker), 1)
	assert.Len(t, d.Search("confeccion", CategoryWorker), 1)
}

func TestDirectorySearchEmptyQueryReturnsCategory(t *testing.T) {
	d := loadedDirectory(
		Profile{ID: uuid.New(), Category: CategoryWorker, Name: "Uno"},
		Profile{ID: uuid.New(), Category: CategoryWorker, Name: "Dos"},
		Profile{ID: uuid.New(), Category: CategoryCompany, Name: "Tres"},
	)

	assert.Len(t, d.Search("", CategoryWorker), 2)
}

func TestDirectorySearchUnloadedReturnsNothing(t *testing.T) {
	d := &Directory{}
	assert.Nil(t, d.Search("anything", CategoryWorker))
	assert.False(t, d.Loaded())
}
