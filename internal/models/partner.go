package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Partner document types.
const (
	DocumentCPF  = "cpf"
	DocumentCNPJ = "cnpj"
)

// Partner account types.
const (
	AccountCorrente = "corrente"
	AccountPoupanca = "poupanca"
)

// Partner is a referring third party. Operations point at partners through a
// nullable partner_id; no ownership is implied and the reference may dangle
// after a partner is removed.
type Partner struct {
	PartnerID    uuid.UUID      `gorm:"column:partner_id;type:uuid;primaryKey" json:"partner_id"`
	FullName     string         `gorm:"column:full_name;not null" json:"full_name"`
	DocumentType string         `gorm:"column:document_type;type:varchar(10);not null" json:"document_type"`
	Document     string         `gorm:"column:document;not null" json:"document"`
	Email        string         `gorm:"column:email;not null" json:"email"`
	Phone        string         `gorm:"column:phone;not null" json:"phone"`
	Address      string         `gorm:"column:address" json:"address"`
	Bank         string         `gorm:"column:bank;not null" json:"bank"`
	Branch       string         `gorm:"column:branch;type:varchar(4);not null" json:"branch"`
	Account      string         `gorm:"column:account;not null" json:"account"`
	AccountType  string         `gorm:"column:account_type;type:varchar(10);default:'corrente'" json:"account_type"`
	PixKey       string         `gorm:"column:pix_key" json:"pix_key"`
	Notes        string         `gorm:"column:notes" json:"notes"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Partner) TableName() string {
	return "partners"
}

func (p *Partner) BeforeCreate(tx *gorm.DB) error {
	if p.PartnerID == uuid.Nil {
		p.PartnerID = uuid.New()
	}
	return nil
}
