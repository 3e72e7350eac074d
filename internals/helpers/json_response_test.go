package helper

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

func decodeBody(t *testing.T, r io.Reader) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.NewDecoder(r).Decode(&out); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	return out
}

func TestJsonAppErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"missing", MissingFieldsError([]string{"email", "mobile"}), 400, "VALIDATION_ERROR"},
		{"upload", NewUploadError("resume", "too large"), 400, "UPLOAD_ERROR"},
		{"not found", NewNotFound("Application not found"), 404, "NOT_FOUND"},
		{"invalid arg", NewInvalidArgument("bad status"), 400, "INVALID_ARGUMENT"},
		{"duplicate", NewDuplicateKey("dup", nil), 409, "DUPLICATE_KEY"},
		{"store", NewStoreError("insert failed", errors.New("conn refused")), 500, "STORE_ERROR"},
		{"foreign", errors.New("boom"), 500, "INTERNAL"},
		{"fiber", fiber.NewError(fiber.StatusUnauthorized, "Unauthorized"), 401, "UNAUTHORIZED"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return JsonAppError(c, tc.err) })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tc.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.status)
			}
			body := decodeBody(t, resp.Body)
			if body["success"] != false || body["error_code"] != tc.code {
				t.Fatalf("body = %v", body)
			}
		})
	}
}

func TestJsonAppErrorWithholdsInternalDetail(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return JsonAppError(c, NewStoreError("insert failed", errors.New("password authentication failed for user x")))
	})
	resp, _ := app.Test(httptest.NewRequest("GET", "/", nil))
	body := decodeBody(t, resp.Body)
	if body["error"] != "Database error" {
		t.Fatalf("error = %v", body["error"])
	}
	if _, ok := body["detail"]; ok {
		t.Fatalf("detail leaked: %v", body)
	}
}

func TestJsonAppErrorListsMissingFields(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return JsonAppError(c, MissingFieldsError([]string{"email", "mobile", "dob"}))
	})
	resp, _ := app.Test(httptest.NewRequest("GET", "/", nil))
	body := decodeBody(t, resp.Body)
	missing, ok := body["missing"].([]any)
	if !ok || len(missing) != 3 {
		t.Fatalf("missing = %v", body["missing"])
	}
}

func TestMapStoreError(t *testing.T) {
	pgDup := &pgconn.PgError{Code: "23505", ConstraintName: "uni_applications_email"}
	pqNull := &pq.Error{Code: "23502", Column: "resume_path"}
	sqliteDup := errors.New("UNIQUE constraint failed: applications.email")
	sqliteRef := errors.New("UNIQUE constraint failed: applications.reference_code")

	if k := KindOf(MapStoreError(pgDup, "x")); k != KindDuplicateKey {
		t.Fatalf("pg dup kind = %s", k)
	}
	if k := KindOf(MapStoreError(pqNull, "x")); k != KindConstraint {
		t.Fatalf("pq not-null kind = %s", k)
	}
	if k := KindOf(MapStoreError(sqliteDup, "x")); k != KindDuplicateKey {
		t.Fatalf("sqlite dup kind = %s", k)
	}
	if k := KindOf(MapStoreError(gorm.ErrRecordNotFound, "x")); k != KindNotFound {
		t.Fatalf("not found kind = %s", k)
	}
	if k := KindOf(MapStoreError(errors.New("conn reset"), "x")); k != KindStore {
		t.Fatalf("fallback kind = %s", k)
	}
	if MapStoreError(nil, "x") != nil {
		t.Fatal("nil should stay nil")
	}

	if !UniqueViolationOn(pgDup, "email") || UniqueViolationOn(pgDup, "reference_code") {
		t.Fatal("pg constraint column detection")
	}
	if !UniqueViolationOn(sqliteRef, "reference_code") || UniqueViolationOn(sqliteRef, "email") {
		t.Fatal("sqlite constraint column detection")
	}
}
