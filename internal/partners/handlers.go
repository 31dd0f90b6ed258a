package partners

import (
	"errors"

	"credops-backend/internal/models"
	"credops-backend/internal/pkg/fields"
	"credops-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Handlers bundles the partner HTTP handlers with the service.
type Handlers struct {
	Service *Service
}

// List GET /api/v1/partners — all partners, one by ?id=, or ?search=.
func (h *Handlers) List(c *fiber.Ctx) error {
	if id := c.Query("id"); id != "" {
		pID, err := uuid.Parse(id)
		if err != nil {
			return response.Error(c, "Invalid partner ID", 400, nil)
		}
		p, err := h.Service.Get(c.Context(), pID)
		if err != nil {
			return response.Error(c, "Failed to fetch partners", 500, nil)
		}
		return response.Success(c, "Partner fetched successfully", p, nil)
	}

	var (
		ps  []models.Partner
		err error
	)
	if term := c.Query("search"); term != "" {
		ps, err = h.Service.Search(c.Context(), term)
	} else {
		ps, err = h.Service.List(c.Context())
	}
	if err != nil {
		return response.Error(c, "Failed to fetch partners", 500, nil)
	}
	if ps == nil {
		ps = []models.Partner{}
	}
	return response.Success(c, "Partners fetched successfully", ps, nil)
}

// Create POST /api/v1/partners
func (h *Handlers) Create(c *fiber.Ctx) error {
	var in Input
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	p, err := h.Service.Create(c.Context(), in)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return response.Error(c, "Validation failed", 400, ve.Fields)
		}
		return response.Error(c, "Failed to create partner", 500, nil)
	}
	return response.SuccessCreated(c, "Partner created successfully", p, nil)
}

// Update PUT /api/v1/partners?id=
func (h *Handlers) Update(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return response.Error(c, "Partner ID is required", 400, nil)
	}
	pID, err := uuid.Parse(id)
	if err != nil {
		return response.Error(c, "Invalid partner ID", 400, nil)
	}
	var in Input
	if err := c.BodyParser(&in); err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	p, err := h.Service.Update(c.Context(), pID, in)
	if err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			return response.Error(c, "Validation failed", 400, ve.Fields)
		}
		return response.Error(c, "Failed to update partner", 500, nil)
	}
	return response.Success(c, "Partner updated successfully", p, nil)
}

// Delete DELETE /api/v1/partners?id=
func (h *Handlers) Delete(c *fiber.Ctx) error {
	id := c.Query("id")
	if id == "" {
		return response.Error(c, "Partner ID is required", 400, nil)
	}
	pID, err := uuid.Parse(id)
	if err != nil {
		return response.Error(c, "Invalid partner ID", 400, nil)
	}
	if err := h.Service.Delete(c.Context(), pID); err != nil {
		return response.Error(c, "Failed to delete partner", 500, nil)
	}
	return response.Success(c, "Partner deleted successfully", fiber.Map{"id": id}, nil)
}

// Display GET /api/v1/partners/:id/display — labeled, formatted values via
// the partner field catalog.
func (h *Handlers) Display(c *fiber.Ctx) error {
	pID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return response.Error(c, "Invalid partner ID", 400, nil)
	}
	p, err := h.Service.Get(c.Context(), pID)
	if err != nil {
		return response.Error(c, "Failed to fetch partners", 500, nil)
	}

	values := map[string]interface{}{
		"full_name":     p.FullName,
		"document_type": p.DocumentType,
		"document":      p.Document,
		"email":         p.Email,
		"phone":         p.Phone,
		"address":       p.Address,
		"bank":          p.Bank,
		"branch":        p.Branch,
		"account":       p.Account,
		"account_type":  p.AccountType,
		"pix_key":       p.PixKey,
		"notes":         p.Notes,
	}
	order := []string{
		"full_name", "document_type", "document", "email", "phone", "address",
		"bank", "branch", "account", "account_type", "pix_key", "notes",
	}

	catalog := fields.Partner(p.DocumentType)
	display := make([]fiber.Map, 0, len(order))
	for _, key := range order {
		f := catalog[key]
		display = append(display, fiber.Map{
			"field": key,
			"label": f.Label,
			"value": f.Format(values[key]),
		})
	}
	return response.Success(c, "Partner display fetched successfully", display, nil)
}
