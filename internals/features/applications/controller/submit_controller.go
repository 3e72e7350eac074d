// file: internals/features/applications/controller/submit_controller.go
package controller

import (
	"context"
	"log"
	"mime/multipart"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"

	"jobintake_backend/internals/features/applications/dto"
	"jobintake_backend/internals/features/applications/repository"
	"jobintake_backend/internals/features/applications/service"
	helper "jobintake_backend/internals/helpers"
)

type SubmitController struct {
	Repo    *repository.ApplicationRepository
	Uploads *service.UploadService

	now func() time.Time
}

func NewSubmitController(repo *repository.ApplicationRepository, uploads *service.UploadService) *SubmitController {
	return &SubmitController{Repo: repo, Uploads: uploads, now: time.Now}
}

// ✅ POST /api/submit (multipart/form-data or application/json)
//
// Order: field validation, file inspection, file write, row insert. Any
// failure after the write removes this request's files.
func (ctl *SubmitController) Submit(c *fiber.Ctx) error {
	raw, form, err := readSubmission(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	m, err := dto.ValidateSubmission(raw, ctl.now())
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	plan, err := ctl.Uploads.Inspect(form)
	if err != nil {
		return helper.JsonAppError(c, err)
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	stored, err := plan.Persist(ctx)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	stored.ApplyTo(m)

	id, err := ctl.Repo.Insert(ctx, m)
	if err != nil {
		stored.Cleanup()
		return helper.JsonAppError(c, err)
	}

	log.Printf("[INFO] ✅ application %d (%s) submitted by %s", id, m.ReferenceCode, m.Email)
	return helper.JsonCreated(c, "Application submitted successfully", fiber.Map{
		"id":             id,
		"reference_code": m.ReferenceCode,
	})
}

func readSubmission(c *fiber.Ctx) (dto.RawSubmission, *multipart.Form, error) {
	ct := strings.ToLower(c.Get(fiber.HeaderContentType))
	switch {
	case strings.HasPrefix(ct, fiber.MIMEMultipartForm):
		form, err := c.MultipartForm()
		if err != nil {
			return dto.RawSubmission{}, nil, helper.NewValidationError("Invalid multipart form")
		}
		return dto.RawFromMultipart(form), form, nil

	case strings.HasPrefix(ct, fiber.MIMEApplicationJSON):
		var body map[string]any
		if err := sonic.Unmarshal(c.Body(), &body); err != nil {
			return dto.RawSubmission{}, nil, helper.NewValidationError("Invalid JSON body")
		}
		return dto.RawFromMap(body), nil, nil

	default:
		return dto.RawSubmission{}, nil, helper.NewValidationError("Content-Type must be multipart/form-data or application/json")
	}
}
