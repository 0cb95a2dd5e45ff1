package profiles

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/costurapp/costurapp-backend/internal/phone"
	"gorm.io/datatypes"
)

// BasicInfo is the step-2 data shared by every category.
type BasicInfo struct {
	Name         string `json:"nombre"`
	Phone        string `json:"telefono"`
	City         string `json:"ciudad"`
	Country      string `json:"pais"`
	Neighborhood string `json:"barrio"`
}

func (b BasicInfo) apply(p *Profile) {
	p.Name = b.Name
	p.Phone = b.Phone
	p.City = b.City
	p.Country = b.Country
	p.Neighborhood = b.Neighborhood
}

// ProfileDraft is the category-tagged result of a completed wizard.
type ProfileDraft interface {
	DraftCategory() Category
}

type WorkerDraft struct {
	Basic       BasicInfo
	Gender      string
	Specialties []string
	Machines    []string
}

type WorkshopDraft struct {
	Basic         BasicInfo
	Responsible   string
	EmployeeCount int
	Positions     []PositionDraft
	Specialties   []string
	Machines      []string
}

type CompanyDraft struct {
	Basic        BasicInfo
	BusinessName string
	TaxID        string
	Specialties  []string
}

type NaturalPersonDraft struct {
	Basic BasicInfo
}

type PositionDraft struct {
	Title       string   `json:"titulo"`
	Specialties []string `json:"especialidades"`
	PaymentType string   `json:"tipo_pago"`
}

func (WorkerDraft) DraftCategory() Category        { return CategoryWorker }
func (WorkshopDraft) DraftCategory() Category      { return CategoryWorkshop }
func (CompanyDraft) DraftCategory() Category       { return CategoryCompany }
func (NaturalPersonDraft) DraftCategory() Category { return CategoryNaturalPerson }

// Step indexes the four linear wizard steps.
type Step int

const (
	StepCategory Step = iota
	StepBasic
	StepDetails
	StepExperience

	stepCount
)

// Field describes one input of the active step.
type Field struct {
	Name     string
	Required bool
	Validate func(string) error
}

// Wizard is the registration form controller. It is a plain state machine:
// one instance per registration in progress, not safe for concurrent use.
type Wizard struct {
	step      Step
	category  Category
	values    map[string]string
	lists     map[string][]string
	touched   map[string]bool
	positions []PositionDraft
}

func NewWizard() *Wizard {
	return &Wizard{
		step:    StepCategory,
		values:  map[string]string{},
		lists:   map[string][]string{},
		touched: map[string]bool{},
	}
}

func (w *Wizard) Step() Step         { return w.step }
func (w *Wizard) Category() Category { return w.category }

// SelectCategory picks the profile shape. Switching category discards any
// step-3 values entered for the previous one.
func (w *Wizard) SelectCategory(c Category) error {
	if !c.Valid() || !c.Registrable() {
		return fmt.Errorf("invalid category %q", c)
	}
	if w.category != "" && w.category != c {
		for _, f := range detailFields(w.category) {
			delete(w.values, f.Name)
			delete(w.touched, f.Name)
		}
		w.positions = nil
	}
	w.category = c
	w.values["categoria"] = string(c)
	return nil
}

func (w *Wizard) Set(name, value string) {
	w.values[name] = value
	w.touched[name] = true
}

func (w *Wizard) SetList(name string, values []string) {
	w.lists[name] = values
	w.touched[name] = true
}

func (w *Wizard) AddPosition(p PositionDraft) {
	w.positions = append(w.positions, p)
}

func (w *Wizard) Touched(name string) bool { return w.touched[name] }

// Fields returns the input set of the active step, which for step 3 depends
// on the selected category.
func (w *Wizard) Fields() []Field {
	switch w.step {
	case StepCategory:
		return []Field{{Name: "categoria", Required: true, Validate: validCategory}}
	case StepBasic:
		return basicFields()
	case StepDetails:
		return detailFields(w.category)
	case StepExperience:
		return nil // list inputs, validated in stepErrors
	}
	return nil
}

// Advance moves to the next step if every field of the active step passes
// validation. On failure it marks all fields of the step touched so the
// caller can surface inline errors, and stays put.
func (w *Wizard) Advance() bool {
	if w.step >= StepExperience {
		return false
	}
	if len(w.stepErrors(w.step)) > 0 {
		for _, f := range w.Fields() {
			w.touched[f.Name] = true
		}
		return false
	}
	w.step++
	return true
}

func (w *Wizard) Back() {
	if w.step > StepCategory {
		w.step--
	}
}

// Errors returns the validation messages of the active step, keyed by field.
func (w *Wizard) Errors() map[string]string {
	return w.stepErrors(w.step)
}

// Submit validates every step and assembles the category-tagged draft.
func (w *Wizard) Submit() (ProfileDraft, error) {
	for s := StepCategory; s < stepCount; s++ {
		if errs := w.stepErrors(s); len(errs) > 0 {
			for name := range errs {
				w.touched[name] = true
			}
			return nil, fmt.Errorf("step %d has invalid fields", s+1)
		}
	}

	basic := BasicInfo{
		Name:         w.values["nombre"],
		Phone:        w.values["telefono"],
		City:         w.values["ciudad"],
		Country:      w.values["pais"],
		Neighborhood: w.values["barrio"],
	}
	if formatted, err := phone.FormatNumber(basic.Phone); err == nil {
		basic.Phone = formatted
	}

	switch w.category {
	case CategoryWorker:
		return WorkerDraft{
			Basic:       basic,
			Gender:      w.values["genero"],
			Specialties: w.lists["especialidades"],
			Machines:    w.lists["maquinas"],
		}, nil
	case CategoryWorkshop:
		count, _ := strconv.Atoi(w.values["numero_empleados"])
		return WorkshopDraft{
			Basic:         basic,
			Responsible:   w.values["responsable"],
			EmployeeCount: count,
			Positions:     w.positions,
			Specialties:   w.lists["especialidades"],
			Machines:      w.lists["maquinas"],
		}, nil
	case CategoryCompany:
		return CompanyDraft{
			Basic:        basic,
			BusinessName: w.values["razon_social"],
			TaxID:        w.values["nit"],
			Specialties:  w.lists["especialidades"],
		}, nil
	case CategoryNaturalPerson:
		return NaturalPersonDraft{Basic: basic}, nil
	case CategoryNone:
		return nil, errors.New("no category selected")
	}
	return nil, errors.New("no category selected")
}

func (w *Wizard) stepErrors(s Step) map[string]string {
	errs := map[string]string{}

	fields := []Field{}
	switch s {
	case StepCategory:
		fields = []Field{{Name: "categoria", Required: true, Validate: validCategory}}
	case StepBasic:
		fields = basicFields()
	case StepDetails:
		fields = detailFields(w.category)
	case StepExperience:
		if specialtiesRequired(w.category) && len(w.lists["especialidades"]) == 0 {
			errs["especialidades"] = "selecciona al menos una especialidad"
		}
		return errs
	}

	for _, f := range fields {
		val := strings.TrimSpace(w.values[f.Name])
		if val == "" {
			if f.Required {
				errs[f.Name] = "este campo es obligatorio"
			}
			continue
		}
		if f.Validate != nil {
			if err := f.Validate(val); err != nil {
				errs[f.Name] = err.Error()
			}
		}
	}
	return errs
}

func basicFields() []Field {
	return []Field{
		{Name: "nombre", Required: true, Validate: minLen(2)},
		{Name: "telefono", Required: true, Validate: validPhone},
		{Name: "ciudad", Required: true},
		{Name: "pais", Required: true},
		{Name: "barrio"},
	}
}

// detailFields is the dynamic step-3 field set. The switch is exhaustive
// over registrable categories.
func detailFields(c Category) []Field {
	switch c {
	case CategoryWorker:
		return []Field{{Name: "genero", Required: true, Validate: oneOf("mujer", "hombre", "otro")}}
	case CategoryWorkshop:
		return []Field{
			{Name: "responsable", Required: true, Validate: minLen(2)},
			{Name: "numero_empleados", Required: true, Validate: positiveInt},
		}
	case CategoryCompany:
		return []Field{
			{Name: "razon_social", Required: true, Validate: minLen(2)},
			{Name: "nit", Required: true, Validate: validTaxID},
		}
	case CategoryNaturalPerson, CategoryNone:
		return nil
	}
	return nil
}

func specialtiesRequired(c Category) bool {
	switch c {
	case CategoryWorker, CategoryWorkshop:
		return true
	case CategoryCompany, CategoryNaturalPerson, CategoryNone:
		return false
	}
	return false
}

// --- validators ---

func validCategory(v string) error {
	c := Category(v)
	if !c.Valid() || !c.Registrable() {
		return fmt.Errorf("categoría desconocida: %s", v)
	}
	return nil
}

func validPhone(v string) error {
	if _, err := phone.FormatNumber(v); err != nil {
		return errors.New("número de celular inválido")
	}
	return nil
}

func minLen(n int) func(string) error {
	return func(v string) error {
		if len(strings.TrimSpace(v)) < n {
			return fmt.Errorf("mínimo %d caracteres", n)
		}
		return nil
	}
}

func oneOf(options ...string) func(string) error {
	return func(v string) error {
		for _, o := range options {
			if v == o {
				return nil
			}
		}
		return fmt.Errorf("valor no permitido: %s", v)
	}
}

func positiveInt(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return errors.New("debe ser un número mayor que cero")
	}
	return nil
}

func validTaxID(v string) error {
	digits := strings.ReplaceAll(v, "-", "")
	if len(digits) < 9 || len(digits) > 10 {
		return errors.New("NIT inválido")
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return errors.New("NIT inválido")
		}
	}
	return nil
}

func toJSONSlice(v []string) datatypes.JSONSlice[string] {
	return datatypes.JSONSlice[string](v)
}
