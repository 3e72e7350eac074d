package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"os"
	"strings"
	"testing"

	"jobintake_backend/internals/configs"
	"jobintake_backend/internals/features/applications/model"
	helper "jobintake_backend/internals/helpers"
	"jobintake_backend/internals/helpers/storage"
)

var (
	pdfBody = []byte("%PDF-1.4\n1 0 obj\n<< /Type /Catalog >>\nendobj\ntrailer\n<< >>\n%%EOF\n")
	pngBody = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 32)...)
)

type part struct {
	field, filename string
	body            []byte
}

func buildForm(t *testing.T, parts ...part) *multipart.Form {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("full_name", "Jane")
	for _, p := range parts {
		fw, err := w.CreateFormFile(p.field, p.filename)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write(p.body)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form
}

func newUploadService(t *testing.T, maxBytes int64) (*UploadService, *storage.LocalStore) {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewUploadService(store, configs.DefaultUploadPolicy(maxBytes)), store
}

func dirCount(t *testing.T, store *storage.LocalStore) int {
	t.Helper()
	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatal(err)
	}
	return len(entries)
}

func TestInspectAndPersist(t *testing.T) {
	svc, store := newUploadService(t, 5<<20)
	form := buildForm(t,
		part{"resume", "cv.PDF", pdfBody},
		part{"photo", "me.png", pngBody},
		part{"certificates[]", "c1.pdf", pdfBody},
		part{"certificates[]", "c2.png", pngBody},
		part{"unknown_field", "x.pdf", pdfBody},
	)

	plan, err := svc.Inspect(form)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if plan.Len() != 4 {
		t.Fatalf("planned = %d, want 4", plan.Len())
	}
	if dirCount(t, store) != 0 {
		t.Fatal("inspect must not write")
	}

	stored, err := plan.Persist(context.Background())
	if err != nil {
		t.Fatalf("persist: %v", err)
	}
	if dirCount(t, store) != 4 {
		t.Fatalf("files on disk = %d", dirCount(t, store))
	}

	var m model.ApplicationModel
	stored.ApplyTo(&m)
	if !strings.HasPrefix(m.ResumePath, "resume-") || !strings.HasSuffix(m.ResumePath, ".pdf") {
		t.Fatalf("resume path = %q", m.ResumePath)
	}
	if m.PhotoPath == nil || m.CoverLetterPath != nil {
		t.Fatalf("photo=%v cover=%v", m.PhotoPath, m.CoverLetterPath)
	}
	if len(m.CertificatePaths) != 2 {
		t.Fatalf("certificates = %v", m.CertificatePaths)
	}

	stored.Cleanup()
	if dirCount(t, store) != 0 {
		t.Fatal("cleanup left files behind")
	}
	stored.Cleanup()
}

func TestInspectRejections(t *testing.T) {
	cases := []struct {
		name  string
		parts []part
		field string
	}{
		{"missing resume", []part{{"photo", "me.png", pngBody}}, "resume"},
		{"wrong extension", []part{{"resume", "cv.exe", pdfBody}}, "resume"},
		{"renamed image as pdf", []part{{"resume", "cv.pdf", pngBody}}, "resume"},
		{"too many photos", []part{
			{"resume", "cv.pdf", pdfBody},
			{"photo", "a.png", pngBody},
			{"photo", "b.png", pngBody},
		}, "photo"},
		{"oversize", []part{{"resume", "cv.pdf", append(append([]byte{}, pdfBody...), bytes.Repeat([]byte("a"), 2048)...)}}, "resume"},
		{"empty file", []part{{"resume", "cv.pdf", nil}}, "resume"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, store := newUploadService(t, 1024)
			_, err := svc.Inspect(buildForm(t, tc.parts...))
			var ae *helper.AppError
			if e, ok := err.(*helper.AppError); ok {
				ae = e
			}
			if ae == nil || ae.Kind != helper.KindUpload {
				t.Fatalf("err = %v, want upload error", err)
			}
			if ae.Field != tc.field {
				t.Fatalf("field = %q, want %q", ae.Field, tc.field)
			}
			if dirCount(t, store) != 0 {
				t.Fatal("rejected request wrote files")
			}
		})
	}
}

func TestPersistCancelledRemovesWrittenFiles(t *testing.T) {
	svc, store := newUploadService(t, 5<<20)
	plan, err := svc.Inspect(buildForm(t, part{"resume", "cv.pdf", pdfBody}))
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := plan.Persist(ctx); err == nil {
		t.Fatal("expected error on cancelled context")
	}
	if dirCount(t, store) != 0 {
		t.Fatal("files left after failed persist")
	}
}
