package route

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"jobintake_backend/internals/configs"
	"jobintake_backend/internals/databases/migrations"
	"jobintake_backend/internals/features/applications/controller"
	"jobintake_backend/internals/features/applications/repository"
	"jobintake_backend/internals/features/applications/service"
	helper "jobintake_backend/internals/helpers"
	"jobintake_backend/internals/helpers/storage"
)

var pdfBody = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< >>\n%%EOF\n")

type testEnv struct {
	app   *fiber.App
	repo  *repository.ApplicationRepository
	store *storage.LocalStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "api.db")),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := migrations.Run(context.Background(), db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	repo := repository.NewApplicationRepository(db, store)
	uploads := service.NewUploadService(store, configs.DefaultUploadPolicy(5<<20))

	app := fiber.New(fiber.Config{ErrorHandler: helper.ErrorHandler})
	api := app.Group("/api")
	ApplicationPublicRoutes(api, controller.NewSubmitController(repo, uploads), nil)
	ApplicationHRRoutes(api, controller.NewApplicationController(repo, store, nil))
	return &testEnv{app: app, repo: repo, store: store}
}

func submissionFields(email string) map[string]string {
	return map[string]string{
		"full_name":          "Asha Rao",
		"email":              email,
		"mobile":             "9876543210",
		"dob":                "1996-02-10",
		"parent_name":        "Ravi Rao",
		"gender":             "Female",
		"nationality":        "Indian",
		"current_address":    "12 Lake Rd",
		"permanent_address":  "12 Lake Rd",
		"state":              "Karnataka",
		"city":               "Mysuru",
		"zipcode":            "570001",
		"emergency_contact":  "9876500000",
		"ssc_board":          "State",
		"ssc_year":           "2012",
		"ssc_percentage":     "91",
		"job_role":           "Data Analyst",
		"preferred_location": "Bengaluru",
		"notice_period":      "Immediate",
		"skills":             "SQL, Excel",
		"experience_status":  "Fresher",
		"agree_terms":        "true",
		"additional_education[0][institution]":   "Coursera",
		"additional_education[0][qualification]": "Data Analytics",
		"additional_education[0][year]":          "2020",
		"additional_education[0][percentage]":    "96",
	}
}

func multipartRequest(t *testing.T, fields map[string]string, withResume bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if withResume {
		fw, err := w.CreateFormFile("resume", "cv.pdf")
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write(pdfBody)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/submit", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func do(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	body := map[string]any{}
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp, body
}

func uploadCount(t *testing.T, store *storage.LocalStore) int {
	t.Helper()
	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatal(err)
	}
	return len(entries)
}

func submit(t *testing.T, env *testEnv, email string) uint {
	t.Helper()
	resp, body := do(t, env.app, multipartRequest(t, submissionFields(email), true))
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("submit status = %d body=%v", resp.StatusCode, body)
	}
	if body["success"] != true || !strings.HasPrefix(fmt.Sprint(body["reference_code"]), "REF") {
		t.Fatalf("submit body = %v", body)
	}
	return uint(body["id"].(float64))
}

func TestSubmitFlow(t *testing.T) {
	env := newTestEnv(t)
	submit(t, env, "asha@example.com")
	if n := uploadCount(t, env.store); n != 1 {
		t.Fatalf("uploads after submit = %d", n)
	}

	t.Run("duplicate email is a conflict and leaves no file", func(t *testing.T) {
		resp, body := do(t, env.app, multipartRequest(t, submissionFields("ASHA@example.com"), true))
		if resp.StatusCode != fiber.StatusConflict {
			t.Fatalf("status = %d body=%v", resp.StatusCode, body)
		}
		if n := uploadCount(t, env.store); n != 1 {
			t.Fatalf("uploads after duplicate = %d", n)
		}
	})

	t.Run("missing fields are listed", func(t *testing.T) {
		f := submissionFields("other@example.com")
		delete(f, "full_name")
		resp, body := do(t, env.app, multipartRequest(t, f, true))
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("status = %d", resp.StatusCode)
		}
		missing, _ := body["missing"].([]any)
		if len(missing) != 1 || missing[0] != "full_name" {
			t.Fatalf("missing = %v", body["missing"])
		}
	})

	t.Run("resume is required", func(t *testing.T) {
		resp, body := do(t, env.app, multipartRequest(t, submissionFields("noresume@example.com"), false))
		if resp.StatusCode != fiber.StatusBadRequest || body["field"] != "resume" {
			t.Fatalf("status = %d body=%v", resp.StatusCode, body)
		}
	})

	t.Run("unsupported content type", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/submit", strings.NewReader("full_name=x"))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMETextPlain)
		resp, _ := do(t, env.app, req)
		if resp.StatusCode != fiber.StatusBadRequest {
			t.Fatalf("status = %d", resp.StatusCode)
		}
	})
}

func TestHRRoutes(t *testing.T) {
	env := newTestEnv(t)
	id := submit(t, env, "hr@example.com")
	path := fmt.Sprintf("/api/applications/%d", id)

	resp, body := do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/applications", nil))
	if resp.StatusCode != fiber.StatusOK || body["count"] != float64(1) {
		t.Fatalf("list = %d %v", resp.StatusCode, body)
	}

	resp, body = do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/applications?page=1&per_page=10", nil))
	meta, _ := body["pagination"].(map[string]any)
	if resp.StatusCode != fiber.StatusOK || meta["total"] != float64(1) || meta["has_next"] != false {
		t.Fatalf("paged list = %d %v", resp.StatusCode, body)
	}

	resp, _ = do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/applications/export", nil))
	if resp.StatusCode != fiber.StatusOK ||
		!strings.Contains(resp.Header.Get(fiber.HeaderContentDisposition), ".xlsx") {
		t.Fatalf("export = %d %q", resp.StatusCode, resp.Header.Get(fiber.HeaderContentDisposition))
	}

	resp, body = do(t, env.app, httptest.NewRequest(http.MethodGet, path, nil))
	data, _ := body["data"].(map[string]any)
	if resp.StatusCode != fiber.StatusOK || data["email"] != "hr@example.com" || data["status"] != "Pending" {
		t.Fatalf("get = %d %v", resp.StatusCode, body)
	}

	put := func(status string) (*http.Response, map[string]any) {
		req := httptest.NewRequest(http.MethodPut, path, strings.NewReader(fmt.Sprintf(`{"status":%q}`, status)))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return do(t, env.app, req)
	}
	if resp, body := put("Approved"); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("put approved = %d %v", resp.StatusCode, body)
	}
	if resp, _ := put("Hired"); resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("put hired = %d", resp.StatusCode)
	}

	resp, _ = do(t, env.app, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/download/resume/%d", id), nil))
	if resp.StatusCode != fiber.StatusOK || !strings.Contains(resp.Header.Get(fiber.HeaderContentDisposition), "attachment") {
		t.Fatalf("download = %d %q", resp.StatusCode, resp.Header.Get(fiber.HeaderContentDisposition))
	}
	resp, _ = do(t, env.app, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/download/passport/%d", id), nil))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("download bad kind = %d", resp.StatusCode)
	}
	resp, _ = do(t, env.app, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/download/photo/%d", id), nil))
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("download absent photo = %d", resp.StatusCode)
	}

	resp, _ = do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/files/..%2F..%2Fetc%2Fpasswd", nil))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("traversal = %d", resp.StatusCode)
	}
	resp, _ = do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/files/missing.pdf", nil))
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("missing file = %d", resp.StatusCode)
	}

	resp, body = do(t, env.app, httptest.NewRequest(http.MethodDelete, path, nil))
	if resp.StatusCode != fiber.StatusOK || body["files_removed"] != float64(1) {
		t.Fatalf("delete = %d %v", resp.StatusCode, body)
	}
	if n := uploadCount(t, env.store); n != 0 {
		t.Fatalf("uploads after delete = %d", n)
	}
	resp, _ = do(t, env.app, httptest.NewRequest(http.MethodGet, path, nil))
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("get after delete = %d", resp.StatusCode)
	}

	resp, _ = do(t, env.app, httptest.NewRequest(http.MethodGet, "/api/applications/abc", nil))
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("bad id = %d", resp.StatusCode)
	}
}

func TestSampleDataWithoutSeeder(t *testing.T) {
	env := newTestEnv(t)
	resp, _ := do(t, env.app, httptest.NewRequest(http.MethodPost, "/api/sample-data", nil))
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
