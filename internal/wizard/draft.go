package wizard

import (
	"encoding/json"

	"credops-backend/internal/models"

	"github.com/google/uuid"
)

// Draft is the in-progress record assembled by the intake wizard before
// submission. It is passed explicitly through transitions; there is no ambient
// form state.
type Draft struct {
	PersonType           string     `json:"person_type"`
	ClientName           string     `json:"client_name"`
	ClientEmail          string     `json:"client_email"`
	ClientPhone          string     `json:"client_phone"`
	ClientAddress        string     `json:"client_address"`
	ClientDocument       string     `json:"client_document"`
	ClientSalary         float64    `json:"client_salary"`
	Profession           string     `json:"profession"`
	ProfessionalActivity string     `json:"professional_activity"`
	PropertyType         string     `json:"property_type"`
	PropertyValue        float64    `json:"property_value"`
	PropertyLocation     string     `json:"property_location"`
	DesiredValue         float64    `json:"desired_value"`
	IncomeProof          string     `json:"income_proof"`
	CreditDefense        string     `json:"credit_defense"`
	PartnerID            *uuid.UUID `json:"partner_id"`

	// Documents holds the blob URLs already linked to the record (edit mode).
	Documents []string `json:"documents"`
	// AttachedFiles counts the files picked in this wizard pass; they are
	// uploaded only after the record exists.
	AttachedFiles int `json:"attached_files"`
}

// NewDraft returns a blank draft with the default person type.
func NewDraft() Draft {
	return Draft{PersonType: models.PersonFisica}
}

// DraftFromOperation pre-populates a draft for edit mode.
func DraftFromOperation(op models.Operation) Draft {
	var docs []string
	if len(op.Documents) > 0 {
		_ = json.Unmarshal(op.Documents, &docs)
	}
	return Draft{
		PersonType:           op.PersonType,
		ClientName:           op.ClientName,
		ClientEmail:          op.ClientEmail,
		ClientPhone:          op.ClientPhone,
		ClientAddress:        op.ClientAddress,
		ClientDocument:       op.ClientDocument,
		ClientSalary:         op.ClientSalary,
		Profession:           op.Profession,
		ProfessionalActivity: op.ProfessionalActivity,
		PropertyType:         op.PropertyType,
		PropertyValue:        op.PropertyValue,
		PropertyLocation:     op.PropertyLocation,
		DesiredValue:         op.DesiredValue,
		IncomeProof:          op.IncomeProof,
		CreditDefense:        op.CreditDefense,
		PartnerID:            op.PartnerID,
		Documents:            docs,
	}
}
