package profiles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fillBasic(w *Wizard) {
	w.Set("nombre", "María Rodríguez")
	w.Set("telefono", "3001234567")
	w.Set("ciudad", "Medellín")
	w.Set("pais", "Colombia")
}

func TestWizardHappyPathWorker(t *testing.T) {
	w := NewWizard()

	require.NoError(t, w.SelectCategory(CategoryWorker))
	require.True(t, w.Advance())
	assert.Equal(t, StepBasic, w.Step())

	fillBasic(w)
	require.True(t, w.Advance())
	assert.Equal(t, StepDetails, w.Step())

	w.Set("genero", "mujer")
	require.True(t, w.Advance())
	assert.Equal(t, StepExperience, w.Step())

	w.SetList("especialidades", []string{"filetear", "ojalar"})
	w.SetList("maquinas", []string{"fileteadora"})

	draft, err := w.Submit()
	require.NoError(t, err)

	worker, ok := draft.(WorkerDraft)
	require.True(t, ok, "expected WorkerDraft, got %T", draft)
	assert.Equal(t, CategoryWorker, worker.DraftCategory())
	assert.Equal(t, "María Rodríguez", worker.Basic.Name)
	assert.Equal(t, "573001234567", worker.Basic.Phone, "submit normalizes the phone")
	assert.Equal(t, []string{"filetear", "ojalar"}, worker.Specialties)
}

func TestWizardAdvanceBlocksOnInvalidStep(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.SelectCategory(CategoryWorker))
	require.True(t, w.Advance())

	// Missing phone and city: Advance must refuse and flag the fields.
	w.Set("nombre", "Ana")
	assert.False(t, w.Advance())
	assert.Equal(t, StepBasic, w.Step())
	assert.True(t, w.Touched("telefono"))
	assert.True(t, w.Touched("ciudad"))

	errs := w.Errors()
	assert.Contains(t, errs, "telefono")
	assert.Contains(t, errs, "ciudad")
}

func TestWizardRejectsBadPhone(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.SelectCategory(CategoryNaturalPerson))
	require.True(t, w.Advance())

	fillBasic(w)
	w.Set("telefono", "12345")
	assert.False(t, w.Advance())
	assert.Contains(t, w.Errors(), "telefono")
}

func TestWizardCategorySwitchDiscardsDetails(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.SelectCategory(CategoryWorkshop))
	w.Set("responsable", "Carlos")
	w.Set("numero_empleados", "8")
	w.AddPosition(PositionDraft{Title: "Operaria plana", PaymentType: PaymentDaily})

	require.NoError(t, w.SelectCategory(CategoryCompany))
	assert.False(t, w.Touched("responsable"))
	assert.False(t, w.Touched("numero_empleados"))

	// Steps 2 and 4 survive the switch; only step 3 is category-specific.
	require.True(t, w.Advance())
	fillBasic(w)
	require.True(t, w.Advance())

	w.Set("razon_social", "Confecciones El Hilo SAS")
	w.Set("nit", "900123456-7")
	require.True(t, w.Advance())

	draft, err := w.Submit()
	require.NoError(t, err)

	company, ok := draft.(CompanyDraft)
	require.True(t, ok, "expected CompanyDraft, got %T", draft)
	assert.Equal(t, "Confecciones El Hilo SAS", company.BusinessName)
}

func TestWizardWorkshopCollectsPositions(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.SelectCategory(CategoryWorkshop))
	require.True(t, w.Advance())
	fillBasic(w)
	require.True(t, w.Advance())

	w.Set("responsable", "Carlos Mejía")
	w.Set("numero_empleados", "12")
	require.True(t, w.Advance())

	w.SetList("especialidades", []string{"confección"})
	w.AddPosition(PositionDraft{Title: "Fileteadora", Specialties: []string{"filetear"}, PaymentType: PaymentPerPiece})
	w.AddPosition(PositionDraft{Title: "Cortador", PaymentType: PaymentFixed})

	draft, err := w.Submit()
	require.NoError(t, err)

	workshop, ok := draft.(WorkshopDraft)
	require.True(t, ok)
	assert.Equal(t, 12, workshop.EmployeeCount)
	require.Len(t, workshop.Positions, 2)
	assert.Equal(t, "Fileteadora", workshop.Positions[0].Title)
}

func TestWizardSubmitRequiresSpecialties(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.SelectCategory(CategoryWorker))
	require.True(t, w.Advance())
	fillBasic(w)
	require.True(t, w.Advance())
	w.Set("genero", "otro")
	require.True(t, w.Advance())

	// Worker without specialties: the final step refuses.
	_, err := w.Submit()
	require.Error(t, err)
	assert.True(t, w.Touched("especialidades"))

	w.SetList("especialidades", []string{"botones"})
	_, err = w.Submit()
	assert.NoError(t, err)
}

func TestWizardRejectsUnregistrableCategory(t *testing.T) {
	w := NewWizard()
	assert.Error(t, w.SelectCategory(CategoryNone))
	assert.Error(t, w.SelectCategory(Category("astronauta")))
}

func TestWizardBack(t *testing.T) {
	w := NewWizard()
	require.NoError(t, w.SelectCategory(CategoryNaturalPerson))
	require.True(t, w.Advance())
	w.Back()
	assert.Equal(t, StepCategory, w.Step())
	w.Back()
	assert.Equal(t, StepCategory, w.Step(), "cannot go before the first step")
}
