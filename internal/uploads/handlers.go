package uploads

import (
	"context"
	"io"

	"credops-backend/internal/models"
	"credops-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// DocumentLinker appends uploaded document URLs to an operation record.
type DocumentLinker interface {
	AppendDocuments(ctx context.Context, id uuid.UUID, urls []string) (*models.Operation, error)
}

// Handlers bundles the upload handler with its collaborators.
type Handlers struct {
	Service *Service
	Linker  DocumentLinker
}

// Upload POST /api/v1/uploads — multipart form with operation_id and one or
// more files. Every upload must complete before the operation is linked to
// the resulting URLs; if the uploads fail the record stays as it was.
func (h *Handlers) Upload(c *fiber.Ctx) error {
	operationID := c.FormValue("operation_id")
	if operationID == "" {
		return response.Error(c, "Operation ID is required", 400, nil)
	}
	opID, err := uuid.Parse(operationID)
	if err != nil {
		return response.Error(c, "Invalid operation ID", 400, nil)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return response.Error(c, "Invalid request body", 400, nil)
	}
	headers := form.File["files"]
	if len(headers) == 0 {
		return response.Error(c, "No files uploaded", 400, nil)
	}

	files := make([]File, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return response.Error(c, "Failed to upload files", 500, nil)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return response.Error(c, "Failed to upload files", 500, nil)
		}
		files = append(files, File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	urls, err := h.Service.UploadDocuments(c.Context(), operationID, files)
	if err != nil {
		return response.Error(c, "Failed to upload files", 500, nil)
	}

	op, err := h.Linker.AppendDocuments(c.Context(), opID, urls)
	if err != nil {
		return response.Error(c, "Failed to upload files", 500, nil)
	}

	return response.SuccessCreated(c, "Files uploaded successfully", fiber.Map{
		"files":     urls,
		"operation": op,
	}, nil)
}
