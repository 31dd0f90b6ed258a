package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Operation statuses. Set to StatusInProgress at creation; changed only by
// explicit update.
const (
	StatusInProgress  = "in_progress"
	StatusUnderReview = "under_review"
	StatusApproved    = "approved"
	StatusDeclined    = "declined"
)

// Person-type discriminator values.
const (
	PersonFisica   = "fisica"
	PersonJuridica = "juridica"
)

// Operation is a single client loan-application case. The uuid primary key is
// server-assigned and distinct from the human-readable Number.
type Operation struct {
	OperationID          uuid.UUID      `gorm:"column:operation_id;type:uuid;primaryKey" json:"operation_id"`
	Number               string         `gorm:"column:number;not null;uniqueIndex" json:"number"`
	Status               string         `gorm:"column:status;type:varchar(20);not null;default:'in_progress'" json:"status"`
	PersonType           string         `gorm:"column:person_type;type:varchar(10);not null" json:"person_type"`
	ClientName           string         `gorm:"column:client_name;not null" json:"client_name"`
	ClientEmail          string         `gorm:"column:client_email;not null" json:"client_email"`
	ClientPhone          string         `gorm:"column:client_phone;not null" json:"client_phone"`
	ClientAddress        string         `gorm:"column:client_address;not null" json:"client_address"`
	ClientDocument       string         `gorm:"column:client_document;not null" json:"client_document"`
	ClientSalary         float64        `gorm:"column:client_salary;type:decimal(18,2);not null" json:"client_salary"`
	Profession           string         `gorm:"column:profession;not null" json:"profession"`
	ProfessionalActivity string         `gorm:"column:professional_activity;not null" json:"professional_activity"`
	PropertyType         string         `gorm:"column:property_type;type:varchar(20);not null" json:"property_type"`
	PropertyValue        float64        `gorm:"column:property_value;type:decimal(18,2);not null" json:"property_value"`
	PropertyLocation     string         `gorm:"column:property_location;not null" json:"property_location"`
	DesiredValue         float64        `gorm:"column:desired_value;type:decimal(18,2);not null" json:"desired_value"`
	IncomeProof          string         `gorm:"column:income_proof;type:varchar(30);not null" json:"income_proof"`
	CreditDefense        string         `gorm:"column:credit_defense;not null" json:"credit_defense"`
	Documents            datatypes.JSON `gorm:"column:documents;type:json" json:"documents"`
	PartnerID            *uuid.UUID     `gorm:"column:partner_id;type:uuid" json:"partner_id"`
	CreatedAt            time.Time      `json:"createdAt"`
	UpdatedAt            time.Time      `json:"updatedAt"`
	DeletedAt            gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Operation) TableName() string {
	return "operations"
}

// BeforeCreate sets the UUID if not set (for DBs without gen_random_uuid).
func (o *Operation) BeforeCreate(tx *gorm.DB) error {
	if o.OperationID == uuid.Nil {
		o.OperationID = uuid.New()
	}
	return nil
}
