package partners

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"credops-backend/internal/models"
	"credops-backend/internal/pkg/masks"
	"credops-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("Partner not found")

// ValidationError carries the field->message map of a rejected partner form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("partner form has %d invalid fields", len(e.Fields))
}

type Service struct {
	DB *gorm.DB
}

// Input is the partner registration/edit form.
type Input struct {
	FullName     string `json:"full_name"`
	DocumentType string `json:"document_type"`
	Document     string `json:"document"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	Bank         string `json:"bank"`
	Branch       string `json:"branch"`
	Account      string `json:"account"`
	AccountType  string `json:"account_type"`
	PixKey       string `json:"pix_key"`
	Notes        string `json:"notes"`
}

// Validate checks the required partner fields and returns every violation.
func (in Input) Validate() map[string]string {
	errs := map[string]string{}
	if len(strings.TrimSpace(in.FullName)) < 3 {
		errs["full_name"] = "Informe o nome completo"
	}
	if in.DocumentType != models.DocumentCPF && in.DocumentType != models.DocumentCNPJ {
		errs["document_type"] = "Selecione o tipo de documento"
	}
	digits := masks.Digits(in.Document)
	if in.DocumentType == models.DocumentCNPJ {
		if len(digits) != 14 {
			errs["document"] = "Informe um CNPJ válido"
		}
	} else if len(digits) != 11 {
		errs["document"] = "Informe um CPF válido"
	}
	if !validation.IsValidEmail(in.Email) {
		errs["email"] = "Informe um email válido"
	}
	if n := len(masks.Digits(in.Phone)); n != 10 && n != 11 {
		errs["phone"] = "Informe um telefone válido com DDD"
	}
	if strings.TrimSpace(in.Bank) == "" {
		errs["bank"] = "Informe o banco"
	}
	if len(masks.Digits(in.Branch)) == 0 || len(masks.Digits(in.Branch)) > 4 {
		errs["branch"] = "Informe a agência"
	}
	if len(masks.Digits(in.Account)) < 2 {
		errs["account"] = "Informe a conta"
	}
	return errs
}

func (in Input) toModel() *models.Partner {
	accountType := in.AccountType
	if accountType == "" {
		accountType = models.AccountCorrente
	}
	return &models.Partner{
		FullName:     strings.TrimSpace(in.FullName),
		DocumentType: in.DocumentType,
		Document:     masks.Digits(in.Document),
		Email:        in.Email,
		Phone:        masks.Digits(in.Phone),
		Address:      strings.TrimSpace(in.Address),
		Bank:         strings.TrimSpace(in.Bank),
		Branch:       masks.Branch(in.Branch),
		Account:      masks.Digits(in.Account),
		AccountType:  accountType,
		PixKey:       strings.TrimSpace(in.PixKey),
		Notes:        strings.TrimSpace(in.Notes),
	}
}

// List returns all partners, newest first.
func (s *Service) List(ctx context.Context) ([]models.Partner, error) {
	var ps []models.Partner
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&ps).Error; err != nil {
		return nil, err
	}
	return ps, nil
}

// Search matches the term against partner name and document digits.
func (s *Service) Search(ctx context.Context, term string) ([]models.Partner, error) {
	ps, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	t := strings.ToLower(term)
	digits := masks.Digits(term)
	out := make([]models.Partner, 0, len(ps))
	for _, p := range ps {
		if strings.Contains(strings.ToLower(p.FullName), t) ||
			(digits != "" && strings.Contains(p.Document, digits)) {
			out = append(out, p)
		}
	}
	return out, nil
}

// Get fetches one partner by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Partner, error) {
	var p models.Partner
	if err := s.DB.WithContext(ctx).Where("partner_id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create registers a partner from a validated form.
func (s *Service) Create(ctx context.Context, in Input) (*models.Partner, error) {
	if errs := in.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	p := in.toModel()
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Update rewrites a partner's fields in place.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in Input) (*models.Partner, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if errs := in.Validate(); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	p := in.toModel()
	p.PartnerID = existing.PartnerID
	p.CreatedAt = existing.CreatedAt
	if err := s.DB.WithContext(ctx).Save(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a partner. Operations referencing it keep their (now
// dangling) partner_id; resolution handles that branch.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Delete(p).Error
}
