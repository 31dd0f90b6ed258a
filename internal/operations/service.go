package operations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"credops-backend/internal/models"
	"credops-backend/internal/numbering"
	"credops-backend/internal/pkg/masks"
	"credops-backend/internal/wizard"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("Operation not found")
	ErrPartnerNotFound = errors.New("Partner not found")
	ErrInvalidStatus   = errors.New("Invalid status")
)

// ValidationError carries the field->message map of a rejected draft.
type ValidationError struct {
	Fields wizard.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("draft has %d invalid fields", len(e.Fields))
}

type Service struct {
	DB      *gorm.DB
	Numbers *numbering.Service
}

// List returns all operations, newest first.
func (s *Service) List(ctx context.Context) ([]models.Operation, error) {
	var ops []models.Operation
	if err := s.DB.WithContext(ctx).Order("created_at DESC").Find(&ops).Error; err != nil {
		return nil, err
	}
	return ops, nil
}

// ListByStatus returns operations with the given status, newest first.
func (s *Service) ListByStatus(ctx context.Context, status string) ([]models.Operation, error) {
	if !validStatus(status) {
		return nil, ErrInvalidStatus
	}
	var ops []models.Operation
	if err := s.DB.WithContext(ctx).Where("status = ?", status).Order("created_at DESC").Find(&ops).Error; err != nil {
		return nil, err
	}
	return ops, nil
}

// Search matches the term against operation number and client name,
// case-insensitively. The filter runs in memory over the full list, matching
// the search the dashboard always had.
func (s *Service) Search(ctx context.Context, term string) ([]models.Operation, error) {
	ops, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	t := strings.ToLower(term)
	out := make([]models.Operation, 0, len(ops))
	for _, op := range ops {
		if strings.Contains(strings.ToLower(op.Number), t) ||
			strings.Contains(strings.ToLower(op.ClientName), t) {
			out = append(out, op)
		}
	}
	return out, nil
}

// Get fetches one operation by its server-assigned ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Operation, error) {
	var op models.Operation
	if err := s.DB.WithContext(ctx).Where("operation_id = ?", id).First(&op).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &op, nil
}

// CreateFromDraft validates the whole draft, reserves an operation number and
// persists the record with status in_progress. A numbering failure aborts the
// submission; no record is created.
func (s *Service) CreateFromDraft(ctx context.Context, d wizard.Draft) (*models.Operation, error) {
	if errs := wizard.ValidateAll(d, false); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	if d.PartnerID != nil {
		if err := s.checkPartner(ctx, *d.PartnerID); err != nil {
			return nil, err
		}
	}

	number, err := s.Numbers.Next(ctx)
	if err != nil {
		return nil, err
	}

	op := draftToOperation(d)
	op.Number = number
	op.Status = models.StatusInProgress
	op.Documents = datatypes.JSON([]byte("[]"))

	if err := s.DB.WithContext(ctx).Create(op).Error; err != nil {
		return nil, err
	}
	return op, nil
}

// UpdateFromDraft rewrites the operation's fields in place from an edited
// draft. The number never changes; the document list is untouched here
// (AppendDocuments is the only way it grows).
func (s *Service) UpdateFromDraft(ctx context.Context, id uuid.UUID, d wizard.Draft) (*models.Operation, error) {
	op, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var existing []string
	if len(op.Documents) > 0 {
		_ = json.Unmarshal(op.Documents, &existing)
	}
	d.Documents = existing
	if errs := wizard.ValidateAll(d, true); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	if d.PartnerID != nil {
		if err := s.checkPartner(ctx, *d.PartnerID); err != nil {
			return nil, err
		}
	}

	updated := draftToOperation(d)
	updated.OperationID = op.OperationID
	updated.Number = op.Number
	updated.Status = op.Status
	updated.Documents = op.Documents
	updated.CreatedAt = op.CreatedAt

	if err := s.DB.WithContext(ctx).Save(updated).Error; err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateStatus sets the operation status, the only mutation outside edit mode.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Operation, error) {
	if !validStatus(status) {
		return nil, ErrInvalidStatus
	}
	op, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(op).Update("status", status).Error; err != nil {
		return nil, err
	}
	op.Status = status
	return op, nil
}

// AppendDocuments links uploaded blob URLs to the operation. The list only
// grows; existing entries are never rewritten.
func (s *Service) AppendDocuments(ctx context.Context, id uuid.UUID, urls []string) (*models.Operation, error) {
	op, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	var docs []string
	if len(op.Documents) > 0 {
		if err := json.Unmarshal(op.Documents, &docs); err != nil {
			return nil, err
		}
	}
	docs = append(docs, urls...)
	b, err := json.Marshal(docs)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Model(op).Update("documents", datatypes.JSON(b)).Error; err != nil {
		return nil, err
	}
	op.Documents = datatypes.JSON(b)
	return op, nil
}

// Delete removes an operation. Numbers of other operations are unaffected.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	op, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.DB.WithContext(ctx).Delete(op).Error
}

// ResolvePartner follows the weak partner reference. A dangling reference is
// a handled branch (ErrPartnerNotFound), never an assumed success.
func (s *Service) ResolvePartner(ctx context.Context, op *models.Operation) (*models.Partner, error) {
	if op.PartnerID == nil {
		return nil, nil
	}
	var p models.Partner
	if err := s.DB.WithContext(ctx).Where("partner_id = ?", *op.PartnerID).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (s *Service) checkPartner(ctx context.Context, id uuid.UUID) error {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.Partner{}).Where("partner_id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrPartnerNotFound
	}
	return nil
}

func draftToOperation(d wizard.Draft) *models.Operation {
	return &models.Operation{
		PersonType:           d.PersonType,
		ClientName:           strings.TrimSpace(d.ClientName),
		ClientEmail:          d.ClientEmail,
		ClientPhone:          masks.Digits(d.ClientPhone),
		ClientAddress:        strings.TrimSpace(d.ClientAddress),
		ClientDocument:       masks.Digits(d.ClientDocument),
		ClientSalary:         d.ClientSalary,
		Profession:           strings.TrimSpace(d.Profession),
		ProfessionalActivity: strings.TrimSpace(d.ProfessionalActivity),
		PropertyType:         d.PropertyType,
		PropertyValue:        d.PropertyValue,
		PropertyLocation:     strings.TrimSpace(d.PropertyLocation),
		DesiredValue:         d.DesiredValue,
		IncomeProof:          d.IncomeProof,
		CreditDefense:        strings.TrimSpace(d.CreditDefense),
		PartnerID:            d.PartnerID,
	}
}

func validStatus(status string) bool {
	switch status {
	case models.StatusInProgress, models.StatusUnderReview, models.StatusApproved, models.StatusDeclined:
		return true
	}
	return false
}
