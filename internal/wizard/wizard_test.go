package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() Draft {
	return Draft{
		PersonType:           "fisica",
		ClientName:           "Maria Oliveira",
		ClientEmail:          "maria@example.com",
		ClientPhone:          "(11) 98765-4321",
		ClientAddress:        "Rua das Flores, 100 - São Paulo",
		ClientDocument:       "12345678900",
		ClientSalary:         8500,
		Profession:           "Engenheira",
		ProfessionalActivity: "Engenharia civil em construtora de médio porte",
		PropertyType:         "residencial",
		PropertyValue:        500000,
		PropertyLocation:     "São Paulo - SP",
		DesiredValue:         250000,
		IncomeProof:          "holerite",
		CreditDefense:        "Cliente com renda estável há mais de dez anos",
		AttachedFiles:        2,
	}
}

func TestStep1_DocumentPatternFollowsPersonType(t *testing.T) {
	d := validDraft()
	d.ClientDocument = "12345678900" // 11 digits, unmasked

	errs := ValidateStep(Step1, d, false)
	assert.Empty(t, errs)

	d.PersonType = "juridica"
	errs = ValidateStep(Step1, d, false)
	assert.Contains(t, errs, "client_document")
}

func TestStep1_MaskedDocumentIsAccepted(t *testing.T) {
	d := validDraft()
	d.ClientDocument = "123.456.789-00"
	assert.Empty(t, ValidateStep(Step1, d, false))
}

func TestStep1_CollectsAllViolations(t *testing.T) {
	d := Draft{PersonType: "fisica"}
	errs := ValidateStep(Step1, d, false)
	assert.Contains(t, errs, "client_name")
	assert.Contains(t, errs, "client_email")
	assert.Contains(t, errs, "client_phone")
	assert.Contains(t, errs, "client_address")
	assert.Contains(t, errs, "client_document")
}

func TestStep3_DesiredValueBoundary(t *testing.T) {
	d := validDraft()

	d.PropertyValue = 100000
	d.DesiredValue = 200000
	errs := ValidateStep(Step3, d, false)
	assert.Contains(t, errs, "desired_value")

	// Equal is allowed.
	d.DesiredValue = 100000
	assert.Empty(t, ValidateStep(Step3, d, false))
}

func TestStep3_RejectsUnknownPropertyType(t *testing.T) {
	d := validDraft()
	d.PropertyType = "castelo"
	errs := ValidateStep(Step3, d, false)
	assert.Contains(t, errs, "property_type")
}

func TestStep4_DocumentRequirement(t *testing.T) {
	d := validDraft()
	d.AttachedFiles = 0

	// Create mode: no documents fails.
	errs := ValidateStep(Step4, d, false)
	assert.Equal(t, "Anexe pelo menos um documento", errs["documents"])

	// Edit mode with existing documents: waived.
	d.Documents = []string{"https://storage.example.com/operations/x/doc.pdf"}
	assert.Empty(t, ValidateStep(Step4, d, true))

	// Edit mode without existing documents: still required.
	d.Documents = nil
	errs = ValidateStep(Step4, d, true)
	assert.Contains(t, errs, "documents")
}

func TestValidateAll_UnionsSteps(t *testing.T) {
	d := Draft{PersonType: "fisica"}
	errs := ValidateAll(d, false)
	assert.Contains(t, errs, "client_name")      // step 1
	assert.Contains(t, errs, "client_salary")    // step 2
	assert.Contains(t, errs, "property_value")   // step 3
	assert.Contains(t, errs, "credit_defense")   // step 4
}

func TestWizard_ForwardGatedBackwardFree(t *testing.T) {
	w := New()
	require.Equal(t, Step1, w.Step())

	// Blank draft cannot advance.
	err := w.Next()
	require.ErrorIs(t, err, ErrStepInvalid)
	assert.Equal(t, Step1, w.Step())
	assert.NotEmpty(t, w.Errs())

	// Valid draft walks through all steps.
	w.Update(validDraft())
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	assert.Equal(t, Step4, w.Step())

	// Step4 only leaves through Finish.
	err = w.Next()
	assert.ErrorIs(t, err, ErrUseFinish)
	assert.Equal(t, Step4, w.Step())

	// Backward is unconditional.
	w.Back()
	assert.Equal(t, Step3, w.Step())
	w.Back()
	w.Back()
	w.Back() // no-op at Step1
	assert.Equal(t, Step1, w.Step())
}

func TestWizard_UpdateClearsErrorOnChange(t *testing.T) {
	w := New()
	require.Error(t, w.Next())
	require.Contains(t, w.Errs(), "client_name")
	require.Contains(t, w.Errs(), "client_email")

	d := w.Draft()
	d.ClientName = "João Souza"
	w.Update(d)

	assert.NotContains(t, w.Errs(), "client_name")
	assert.Contains(t, w.Errs(), "client_email") // untouched field keeps its error
}

func TestWizard_FinishProducesSubmittedDraft(t *testing.T) {
	w := New()
	w.Update(validDraft())
	d, err := w.Finish()
	require.NoError(t, err)
	assert.Equal(t, Submitted, w.Step())
	assert.Equal(t, "Maria Oliveira", d.ClientName)

	_, err = w.Finish()
	assert.ErrorIs(t, err, ErrAlreadySubmitted)
	assert.ErrorIs(t, w.Next(), ErrAlreadySubmitted)

	w.Reset()
	assert.Equal(t, Step1, w.Step())
	assert.Equal(t, NewDraft(), w.Draft())
}

func TestWizard_EditModeFinishWithExistingDocuments(t *testing.T) {
	d := validDraft()
	d.AttachedFiles = 0
	d.Documents = []string{"https://storage.example.com/operations/x/doc.pdf"}

	w := NewEdit(d)
	_, err := w.Finish()
	assert.NoError(t, err)
}
