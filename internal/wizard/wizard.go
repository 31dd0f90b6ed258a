// Package wizard implements the four-step operation intake flow: step-scoped
// validation, forward transitions gated on it, and final assembly of a
// complete draft for submission.
package wizard

import "errors"

// Step is a wizard state. Steps advance Step1 → Step4; Submitted is terminal.
type Step int

const (
	Step1 Step = iota + 1 // client identity
	Step2                 // financial profile
	Step3                 // property / collateral
	Step4                 // documents & credit case
	Submitted
)

// ErrStepInvalid is returned by Next and Finish when the current step (or the
// whole draft) fails validation; the field map is available via Errs.
var ErrStepInvalid = errors.New("step has invalid fields")

// ErrAlreadySubmitted is returned when the wizard is driven past its terminal
// state without a Reset.
var ErrAlreadySubmitted = errors.New("wizard already submitted")

// ErrUseFinish is returned by Next at the final step: Step4 leaves the wizard
// only through Finish, which validates the whole draft.
var ErrUseFinish = errors.New("final step submits via Finish")

// Wizard walks a draft through the intake steps. Forward transitions require
// the current step to validate; backward transitions are unconditional; steps
// cannot be skipped.
type Wizard struct {
	step    Step
	draft   Draft
	editing bool
	errs    Errors
}

// New starts a wizard at Step1 with a blank draft.
func New() *Wizard {
	return &Wizard{step: Step1, draft: NewDraft(), errs: Errors{}}
}

// NewEdit starts a wizard at Step1 with a pre-populated draft (edit mode).
// Edit mode waives the attached-document rule when the record already has
// documents.
func NewEdit(d Draft) *Wizard {
	return &Wizard{step: Step1, draft: d, editing: true, errs: Errors{}}
}

func (w *Wizard) Step() Step    { return w.step }
func (w *Wizard) Draft() Draft  { return w.draft }
func (w *Wizard) Errs() Errors  { return w.errs }
func (w *Wizard) Editing() bool { return w.editing }

// Update replaces the draft and clears the error of every field whose value
// changed, mirroring live form edits.
func (w *Wizard) Update(d Draft) {
	old := w.draft
	w.draft = d
	for field := range w.errs {
		if fieldChanged(field, old, d) {
			delete(w.errs, field)
		}
	}
}

// Next validates the current step. On success it advances one step; on
// failure it records the field errors and stays put.
func (w *Wizard) Next() error {
	if w.step == Submitted {
		return ErrAlreadySubmitted
	}
	if w.step == Step4 {
		return ErrUseFinish
	}
	errs := ValidateStep(w.step, w.draft, w.editing)
	if len(errs) > 0 {
		w.errs = errs
		return ErrStepInvalid
	}
	w.errs = Errors{}
	w.step++
	return nil
}

// Back moves one step backwards, unconditionally. No-op at Step1.
func (w *Wizard) Back() {
	if w.step > Step1 && w.step != Submitted {
		w.step--
	}
}

// Finish validates all steps (union of per-step results). On success the
// wizard enters Submitted and the completed draft is returned for
// persistence.
func (w *Wizard) Finish() (Draft, error) {
	if w.step == Submitted {
		return Draft{}, ErrAlreadySubmitted
	}
	errs := ValidateAll(w.draft, w.editing)
	if len(errs) > 0 {
		w.errs = errs
		return Draft{}, ErrStepInvalid
	}
	w.errs = Errors{}
	w.step = Submitted
	return w.draft, nil
}

// Reset returns the wizard to Step1 with a blank draft for the next use.
func (w *Wizard) Reset() {
	w.step = Step1
	w.draft = NewDraft()
	w.editing = false
	w.errs = Errors{}
}

func fieldChanged(field string, a, b Draft) bool {
	switch field {
	case "person_type":
		return a.PersonType != b.PersonType
	case "client_name":
		return a.ClientName != b.ClientName
	case "client_email":
		return a.ClientEmail != b.ClientEmail
	case "client_phone":
		return a.ClientPhone != b.ClientPhone
	case "client_address":
		return a.ClientAddress != b.ClientAddress
	case "client_document":
		return a.ClientDocument != b.ClientDocument
	case "client_salary":
		return a.ClientSalary != b.ClientSalary
	case "profession":
		return a.Profession != b.Profession
	case "professional_activity":
		return a.ProfessionalActivity != b.ProfessionalActivity
	case "property_type":
		return a.PropertyType != b.PropertyType
	case "property_value":
		return a.PropertyValue != b.PropertyValue
	case "property_location":
		return a.PropertyLocation != b.PropertyLocation
	case "desired_value":
		return a.DesiredValue != b.DesiredValue
	case "income_proof":
		return a.IncomeProof != b.IncomeProof
	case "credit_defense":
		return a.CreditDefense != b.CreditDefense
	case "documents":
		return a.AttachedFiles != b.AttachedFiles || len(a.Documents) != len(b.Documents)
	}
	return false
}
