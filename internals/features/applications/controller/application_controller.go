// file: internals/features/applications/controller/application_controller.go
package controller

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"jobintake_backend/internals/constants"
	"jobintake_backend/internals/features/applications/dto"
	"jobintake_backend/internals/features/applications/model"
	"jobintake_backend/internals/features/applications/repository"
	"jobintake_backend/internals/features/applications/service"
	helper "jobintake_backend/internals/helpers"
	"jobintake_backend/internals/helpers/storage"
)

// SampleSeeder inserts the bundled sample applicants.
type SampleSeeder func(ctx context.Context) (inserted, skipped int, err error)

type ApplicationController struct {
	Repo  *repository.ApplicationRepository
	Store *storage.LocalStore
	Seed  SampleSeeder
}

func NewApplicationController(repo *repository.ApplicationRepository, store *storage.LocalStore, seed SampleSeeder) *ApplicationController {
	return &ApplicationController{Repo: repo, Store: store, Seed: seed}
}

func parseID(c *fiber.Ctx) (uint, error) {
	raw := strings.TrimSpace(c.Params("id"))
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, helper.NewInvalidArgument(fmt.Sprintf("Invalid application id %q", raw))
	}
	return uint(id), nil
}

/* =========================================================
   READ
   ========================================================= */

// GET /api/applications?status=&page=&per_page=
// Without page/per_page every matching row is returned.
func (ctl *ApplicationController) List(c *fiber.Ctx) error {
	f := repository.ListFilter{Status: c.Query("status")}
	page, paged := helper.ParsePage(c, helper.ListPageOpts)
	if !paged {
		rows, err := ctl.Repo.ListSummaries(c.UserContext(), f)
		if err != nil {
			return helper.JsonAppError(c, err)
		}
		return helper.JsonList(c, dto.FromSummaries(rows))
	}

	total, err := ctl.Repo.CountSummaries(c.UserContext(), f)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	f.Limit, f.Offset = page.Limit(), page.Offset()
	rows, err := ctl.Repo.ListSummaries(c.UserContext(), f)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonPaged(c, dto.FromSummaries(rows), helper.BuildMeta(total, page))
}

// GET /api/applications/:id
func (ctl *ApplicationController) GetByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	m, err := ctl.Repo.GetByID(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(m))
}

// GET /api/applications/export?status=
func (ctl *ApplicationController) Export(c *fiber.Ctx) error {
	rows, err := ctl.Repo.ListForExport(c.UserContext(), repository.ListFilter{Status: c.Query("status")})
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	buf, err := service.BuildWorkbook(rows, c.BaseURL())
	if err != nil {
		return helper.JsonAppError(c, helper.NewInternal(err))
	}
	name := fmt.Sprintf("applications-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(buf.Bytes())
}

/* =========================================================
   WRITE
   ========================================================= */

// PUT /api/applications/:id  {status}
func (ctl *ApplicationController) UpdateStatus(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonAppError(c, helper.NewValidationError("Invalid request body"))
	}
	status, err := req.Normalize()
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	m, err := ctl.Repo.UpdateStatus(c.UserContext(), id, status)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	log.Printf("[INFO] application %d status -> %s", id, status)
	return helper.JsonUpdated(c, "Status updated", dto.FromModel(m))
}

// DELETE /api/applications/:id
func (ctl *ApplicationController) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	res, err := ctl.Repo.DeleteByID(c.UserContext(), id)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonDeleted(c, "Application deleted", fiber.Map{
		"id":            res.ID,
		"files_removed": res.FilesRemoved,
		"files_failed":  res.FilesFailed,
	})
}

// DELETE /api/clear
func (ctl *ApplicationController) Clear(c *fiber.Ctx) error {
	n, err := ctl.Repo.ClearAll(c.UserContext())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	log.Printf("[INFO] ⚠️ cleared %d application(s)", n)
	return helper.JsonDeleted(c, "All applications cleared", fiber.Map{"deleted": n})
}

// POST /api/sample-data
func (ctl *ApplicationController) SampleData(c *fiber.Ctx) error {
	if ctl.Seed == nil {
		return helper.JsonError(c, fiber.StatusNotFound, "Sample data is not available")
	}
	inserted, skipped, err := ctl.Seed(c.UserContext())
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return helper.JsonCreated(c, "Sample data inserted", fiber.Map{
		"inserted": inserted,
		"skipped":  skipped,
	})
}

/* =========================================================
   FILES
   ========================================================= */

// GET /api/files/:filename
func (ctl *ApplicationController) ServeFile(c *fiber.Ctx) error {
	name := c.Params("filename")
	if err := storage.CheckName(name); err != nil {
		return helper.JsonAppError(c, helper.NewInvalidArgument("Invalid file name"))
	}
	return ctl.sendStored(c, name, false)
}

// GET /api/download/:type/:id
func (ctl *ApplicationController) Download(c *fiber.Ctx) error {
	kind := model.AttachmentKind(c.Params("type"))
	if _, ok := kind.Column(); !ok {
		return helper.JsonAppError(c, helper.NewInvalidArgument(
			fmt.Sprintf("Unknown file type %q (resume, cover_letter, photo, id_proof)", kind)))
	}
	id, err := parseID(c)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	stored, err := ctl.Repo.AttachmentPath(c.UserContext(), id, kind)
	if err != nil {
		return helper.JsonAppError(c, err)
	}
	return ctl.sendStored(c, stored, true)
}

func (ctl *ApplicationController) sendStored(c *fiber.Ctx, stored string, attachment bool) error {
	_, path, err := ctl.Store.Stat(stored)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidName) {
			return helper.JsonAppError(c, helper.NewInvalidArgument("Invalid file name"))
		}
		if errors.Is(err, os.ErrNotExist) {
			return helper.JsonAppError(c, helper.NewNotFound("File not found"))
		}
		return helper.JsonAppError(c, helper.NewInternal(err))
	}
	if attachment {
		return c.Download(path, filepath.Base(path))
	}
	c.Set(fiber.HeaderContentType, constants.ContentTypeFor(path))
	return c.SendFile(path)
}
