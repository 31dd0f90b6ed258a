package wizard

import (
	"strings"

	"credops-backend/internal/models"
	"credops-backend/internal/pkg/masks"
	"credops-backend/internal/pkg/validation"
)

// Errors maps a field identifier to a human-readable message. An empty map
// means the step passed.
type Errors map[string]string

// PropertyTypes is the accepted collateral property set.
var PropertyTypes = []string{"residencial", "comercial", "terreno", "rural", "industrial"}

// IncomeProofTypes is the accepted income-proof set.
var IncomeProofTypes = []string{"holerite", "imposto_renda", "extrato_bancario", "pro_labore", "outros"}

// ValidateStep validates one wizard step and returns every violated field for
// that step. editing waives the attached-document requirement on step 4 when
// the record already has documents.
func ValidateStep(step Step, d Draft, editing bool) Errors {
	errs := Errors{}
	switch step {
	case Step1:
		validateStep1(d, errs)
	case Step2:
		validateStep2(d, errs)
	case Step3:
		validateStep3(d, errs)
	case Step4:
		validateStep4(d, editing, errs)
	}
	return errs
}

// ValidateAll unions the results of the four steps; used before final
// submission.
func ValidateAll(d Draft, editing bool) Errors {
	errs := Errors{}
	validateStep1(d, errs)
	validateStep2(d, errs)
	validateStep3(d, errs)
	validateStep4(d, editing, errs)
	return errs
}

func validateStep1(d Draft, errs Errors) {
	if d.PersonType != models.PersonFisica && d.PersonType != models.PersonJuridica {
		errs["person_type"] = "Selecione o tipo de pessoa"
	}
	if len(strings.TrimSpace(d.ClientName)) < 3 {
		errs["client_name"] = "Informe um nome com pelo menos 3 caracteres"
	}
	if !validation.IsValidEmail(d.ClientEmail) {
		errs["client_email"] = "Informe um email válido"
	}
	if n := len(masks.Digits(d.ClientPhone)); n != 10 && n != 11 {
		errs["client_phone"] = "Informe um telefone válido com DDD"
	}
	if len(strings.TrimSpace(d.ClientAddress)) < 10 {
		errs["client_address"] = "Informe o endereço completo"
	}
	digits := masks.Digits(d.ClientDocument)
	if d.PersonType == models.PersonJuridica {
		if len(digits) != 14 {
			errs["client_document"] = "Informe um CNPJ válido"
		}
	} else if len(digits) != 11 {
		errs["client_document"] = "Informe um CPF válido"
	}
}

func validateStep2(d Draft, errs Errors) {
	if d.ClientSalary <= 0 {
		errs["client_salary"] = "Informe a renda ou faturamento mensal"
	}
	if strings.TrimSpace(d.Profession) == "" {
		errs["profession"] = "Informe a profissão"
	}
	if len(strings.TrimSpace(d.ProfessionalActivity)) < 10 {
		errs["professional_activity"] = "Descreva a atividade profissional"
	}
}

func validateStep3(d Draft, errs Errors) {
	if !contains(PropertyTypes, d.PropertyType) {
		errs["property_type"] = "Selecione o tipo de imóvel"
	}
	if d.PropertyValue <= 0 {
		errs["property_value"] = "Informe o valor do imóvel"
	}
	if strings.TrimSpace(d.PropertyLocation) == "" {
		errs["property_location"] = "Informe a localização do imóvel"
	}
	if d.DesiredValue <= 0 {
		errs["desired_value"] = "Informe o valor pretendido"
	} else if d.PropertyValue > 0 && d.DesiredValue > d.PropertyValue {
		errs["desired_value"] = "O valor pretendido não pode exceder o valor do imóvel"
	}
}

func validateStep4(d Draft, editing bool, errs Errors) {
	if !contains(IncomeProofTypes, d.IncomeProof) {
		errs["income_proof"] = "Selecione a comprovação de renda"
	}
	if len(strings.TrimSpace(d.CreditDefense)) < 10 {
		errs["credit_defense"] = "Descreva a defesa de crédito"
	}
	if d.AttachedFiles == 0 && !(editing && len(d.Documents) > 0) {
		errs["documents"] = "Anexe pelo menos um documento"
	}
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
