package operations

import (
	"encoding/json"
	"errors"

	"credops-backend/internal/models"
	"credops-backend/internal/pkg/fields"
	"credops-backend/internal/pkg/response"
	"credops-backend/internal/wizard"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles the operation HTTP handlers with the service.
type Handlers struct {
	Service *Service
}

// operationRequest is the create/update body: a wizard draft plus an optional
// status change.
type operationRequest struct {
	wizard.Draft
	Status string `json:"status"`
}

// displayOrder fixes the field order of the display endpoint.
var displayOrder = []string{
	"number", "status", "person_type", "client_name", "client_document",
	"client_email", "client_phone", "client_address", "client_salary",
	"profession", "professional_activity", "property_type", "property_value",
	"property_location", "desired_value", "income_proof", "credit_defense",
	"documents",
}

// List GET /api/v1/operations — all operations, or one by ?id=, filtered by
// ?status=, searched by ?search=.
func (h *Handlers) List(c *fiber.Ctx) error {
	if id := c.Query("id"); id != "" {
		opID, err := uuid.Parse(id)
		if err != nil {
			return response.Error(c, "Invalid operation ID", 400, nil)
		}
		op, err := h.Service.Get(c.Context(), opID)
		if err != nil {
			return response.Error(c, "Failed to fetch operations", 500, nil)
		}
		return response.Success(c, "Operation fetched successfully", op, nil)
	}

	var (
		ops []models.Operation
		err error
	)
	switch {
	case c.Query("search") != "":
		ops, err = h.Service.Search(c.Context(), c.Query("search"))
	case c.Query("status") != "" && c.Query("status") != "all":
		ops, err = h.Service.ListByStatus(c.Context(), c.Query("status"))
	default:
		ops, err = h.Service.List(c.Context())
	}
	if err != nil {
		return response.Error(c, "Failed to fetch operations", 500, nil)
	}
	if ops == nil {
		ops = []models.Operation{}
	}
	return response.Success(c, "Operations fetched successfully", ops, nil)
}

// Create POST /api/v1/operations — persists a complete wizard draft.
func (h *Handlers) Create(c *fiber.Ctx) error {
	var req operationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	op, err := h.Service.CreateFromDraft(c.Context(), req.Draft)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return response.Error(c, "Validation failed", 400, ve.Fields)
		}
		if errors.Is(err, ErrPartnerNotFound) {
			return response.Error(c, "Partner not found", 400, nil)
		}
		return response.Error(c, "Failed to create operation", 500, nil)
	}
	return response.SuccessCreated(c, "Operation created successfully", op, nil)
}

// Update PUT /api/v1/operations?id= — rewrites fields from an edited draft
// and/or applies a status change.
func (h *Handlers) Update(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return response.Error(c, "Operation ID is required", 400, nil)
	}
	opID, err := uuid.Parse(id)
	if err != nil {
		return response.Error(c, "Invalid operation ID", 400, nil)
	}

	var req operationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}

	// Status-only update: explicit mutation without touching the draft.
	if req.Status != "" && req.ClientName == "" {
		op, err := h.Service.UpdateStatus(c.Context(), opID, req.Status)
		if err != nil {
			if errors.Is(err, ErrInvalidStatus) {
				return response.Error(c, "Invalid status", 400, nil)
			}
			return response.Error(c, "Failed to update operation", 500, nil)
		}
		return response.Success(c, "Operation updated successfully", op, nil)
	}

	op, err := h.Service.UpdateFromDraft(c.Context(), opID, req.Draft)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return response.Error(c, "Validation failed", 400, ve.Fields)
		}
		if errors.Is(err, ErrPartnerNotFound) {
			return response.Error(c, "Partner not found", 400, nil)
		}
		return response.Error(c, "Failed to update operation", 500, nil)
	}
	if req.Status != "" && req.Status != op.Status {
		if op, err = h.Service.UpdateStatus(c.Context(), opID, req.Status); err != nil {
			return response.Error(c, "Failed to update operation", 500, nil)
		}
	}
	return response.Success(c, "Operation updated successfully", op, nil)
}

// Delete DELETE /api/v1/operations?id=
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return response.Error(c, "Operation ID is required", 400, nil)
	}
	opID, err := uuid.Parse(id)
	if err != nil {
		return response.Error(c, "Invalid operation ID", 400, nil)
	}
	if err := h.Service.Delete(c.Context(), opID); err != nil {
		return response.Error(c, "Failed to delete operation", 500, nil)
	}
	return response.Success(c, "Operation deleted successfully", fiber.Map{"id": id}, nil)
}

// Display GET /api/v1/operations/:id/display — labeled, formatted values for
// the details dialog, resolved through the field catalog.
func (h *Handlers) Display(c *fiber.Ctx) error {
	opID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid operation ID", 400, nil)
	}
	op, err := h.Service.Get(c.Context(), opID)
	if err != nil {
		return response.Error(c, "Failed to fetch operations", 500, nil)
	}

	var docs []string
	if len(op.Documents) > 0 {
		_ = json.Unmarshal(op.Documents, &docs)
	}
	values := map[string]interface{}{
		"number":                op.Number,
		"status":                op.Status,
		"person_type":           op.PersonType,
		"client_name":           op.ClientName,
		"client_document":       op.ClientDocument,
		"client_email":          op.ClientEmail,
		"client_phone":          op.ClientPhone,
		"client_address":        op.ClientAddress,
		"client_salary":         op.ClientSalary,
		"profession":            op.Profession,
		"professional_activity": op.ProfessionalActivity,
		"property_type":         op.PropertyType,
		"property_value":        op.PropertyValue,
		"property_location":     op.PropertyLocation,
		"desired_value":         op.DesiredValue,
		"income_proof":          op.IncomeProof,
		"credit_defense":        op.CreditDefense,
		"documents":             docs,
	}

	catalog := fields.Operation(op.PersonType)
	display := make([]fiber.Map, 0, len(displayOrder))
	for _, key := range displayOrder {
		f := catalog[key]
		display = append(display, fiber.Map{
			"field": key,
			"label": f.Label,
			"value": f.Format(values[key]),
		})
	}

	meta := fiber.Map{"documents": docs}
	partner, err := h.Service.ResolvePartner(c.Context(), op)
	switch {
	case errors.Is(err, ErrPartnerNotFound):
		meta["partner"] = nil
		meta["partner_not_found"] = true
	case err != nil:
		return response.Error(c, "Failed to fetch operations", 500, nil)
	case partner != nil:
		meta["partner"] = partner
	}

	return response.Success(c, "Operation display fetched successfully", display, meta)
}
