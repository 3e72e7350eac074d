// file: internals/features/applications/service/upload_service.go
package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"jobintake_backend/internals/configs"
	"jobintake_backend/internals/constants"
	"jobintake_backend/internals/features/applications/model"
	helper "jobintake_backend/internals/helpers"
	"jobintake_backend/internals/helpers/multipartx"
	"jobintake_backend/internals/helpers/storage"
)

// sniffLen matches the read limit mimetype uses by default.
const sniffLen = 3072

type UploadService struct {
	Store  *storage.LocalStore
	Policy configs.UploadPolicy
}

func NewUploadService(store *storage.LocalStore, policy configs.UploadPolicy) *UploadService {
	return &UploadService{Store: store, Policy: policy}
}

type plannedFile struct {
	Field  string
	Ext    string
	Header *multipart.FileHeader
}

// Plan is the set of file parts that passed every check. Nothing is on
// disk until Persist.
type Plan struct {
	svc   *UploadService
	files []plannedFile
}

func (p *Plan) Len() int { return len(p.files) }

/* =========================================================
   Inspect
   ========================================================= */

// Inspect checks every file part against the policy before anything is
// written. Unknown file fields are ignored.
func (s *UploadService) Inspect(form *multipart.Form) (*Plan, error) {
	byField := multipartx.FilesByField(form)
	maxBytes := s.Policy.MaxFileBytes()
	plan := &Plan{svc: s}

	for _, rule := range s.Policy.Fields {
		fhs := byField[rule.Name]
		if len(fhs) == 0 {
			if rule.Required {
				return nil, helper.NewUploadError(rule.Name, fmt.Sprintf("%s file is required", rule.Name))
			}
			continue
		}
		if len(fhs) > rule.MaxFiles {
			return nil, helper.NewUploadError(rule.Name,
				fmt.Sprintf("too many files for %s: got %d, max %d", rule.Name, len(fhs), rule.MaxFiles))
		}
		for _, fh := range fhs {
			ext := strings.ToLower(filepath.Ext(fh.Filename))
			if err := s.checkFile(rule, fh, ext, maxBytes); err != nil {
				return nil, err
			}
			plan.files = append(plan.files, plannedFile{Field: rule.Name, Ext: ext, Header: fh})
		}
	}
	return plan, nil
}

func (s *UploadService) checkFile(rule configs.FieldRule, fh *multipart.FileHeader, ext string, maxBytes int64) error {
	if fh.Size <= 0 {
		return helper.NewUploadError(rule.Name, fmt.Sprintf("%s: %q is empty", rule.Name, fh.Filename))
	}
	if maxBytes > 0 && fh.Size > maxBytes {
		return helper.NewUploadError(rule.Name,
			fmt.Sprintf("%s: %q exceeds the %d MB limit", rule.Name, fh.Filename, maxBytes>>20))
	}
	if !rule.Allows(ext) {
		return helper.NewUploadError(rule.Name,
			fmt.Sprintf("%s: file type %q not allowed (allowed: %s)", rule.Name, ext, strings.Join(rule.Extensions, ", ")))
	}

	f, err := fh.Open()
	if err != nil {
		return helper.NewUploadError(rule.Name, fmt.Sprintf("%s: cannot read %q", rule.Name, fh.Filename))
	}
	defer f.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return helper.NewUploadError(rule.Name, fmt.Sprintf("%s: cannot read %q", rule.Name, fh.Filename))
	}
	if detected, ok := constants.ContentMatchesExt(fh.Filename, head[:n]); !ok {
		log.Printf("[UPLOAD] ⚠️ rejected %s %q: content %s does not match %s", rule.Name, fh.Filename, detected, ext)
		return helper.NewUploadError(rule.Name,
			fmt.Sprintf("%s: content of %q does not match its %s extension", rule.Name, fh.Filename, ext))
	}
	return nil
}

/* =========================================================
   Persist
   ========================================================= */

// Persist writes every planned file. On any failure the files already
// written by this call are removed before the error is returned.
func (p *Plan) Persist(ctx context.Context) (*StoredFiles, error) {
	stored := &StoredFiles{store: p.svc.Store, ByField: map[string][]string{}}
	maxBytes := p.svc.Policy.MaxFileBytes()

	for _, pf := range p.files {
		if err := ctx.Err(); err != nil {
			stored.Cleanup()
			return nil, helper.NewInternal(err)
		}
		name, err := p.save(pf, maxBytes)
		if err != nil {
			stored.Cleanup()
			return nil, err
		}
		stored.add(pf.Field, name)
	}
	if len(stored.names) > 0 {
		log.Printf("[UPLOAD] ✅ stored %d file(s)", len(stored.names))
	}
	return stored, nil
}

func (p *Plan) save(pf plannedFile, maxBytes int64) (string, error) {
	src, err := pf.Header.Open()
	if err != nil {
		return "", helper.NewUploadError(pf.Field, fmt.Sprintf("%s: cannot read %q", pf.Field, pf.Header.Filename))
	}
	defer src.Close()

	var r io.Reader = src
	if maxBytes > 0 {
		// one extra byte so an understated part size is still caught
		r = io.LimitReader(src, maxBytes+1)
	}
	name, n, err := p.svc.Store.Save(pf.Field, pf.Ext, r)
	if err != nil {
		log.Printf("[UPLOAD] ❌ save %s %q: %v", pf.Field, pf.Header.Filename, err)
		return "", helper.NewInternal(fmt.Errorf("save %s: %w", pf.Field, err))
	}
	if maxBytes > 0 && n > maxBytes {
		_, _ = p.svc.Store.Remove(name)
		return "", helper.NewUploadError(pf.Field,
			fmt.Sprintf("%s: %q exceeds the %d MB limit", pf.Field, pf.Header.Filename, maxBytes>>20))
	}
	return name, nil
}

/* =========================================================
   StoredFiles
   ========================================================= */

// StoredFiles tracks what one request wrote to the upload dir.
type StoredFiles struct {
	store   *storage.LocalStore
	ByField map[string][]string
	names   []string
}

func (s *StoredFiles) add(field, name string) {
	s.ByField[field] = append(s.ByField[field], name)
	s.names = append(s.names, name)
}

func (s *StoredFiles) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.names...)
}

func (s *StoredFiles) first(field string) *string {
	if v := s.ByField[field]; len(v) > 0 {
		name := v[0]
		return &name
	}
	return nil
}

// ApplyTo copies the stored names into the attachment columns.
func (s *StoredFiles) ApplyTo(m *model.ApplicationModel) {
	if s == nil {
		m.CertificatePaths = model.TagList{}
		return
	}
	if p := s.first("resume"); p != nil {
		m.ResumePath = *p
	}
	m.CoverLetterPath = s.first("cover_letter")
	m.PhotoPath = s.first("photo")
	m.IDProofPath = s.first("id_proof")
	m.CertificatePaths = append(model.TagList{}, s.ByField["certificates"]...)
}

// Cleanup removes every file of the request. Safe to call more than once.
func (s *StoredFiles) Cleanup() {
	if s == nil || len(s.names) == 0 {
		return
	}
	for _, name := range s.names {
		if _, err := s.store.Remove(name); err != nil {
			log.Printf("[UPLOAD] ⚠️ cleanup %s: %v", name, err)
		}
	}
	log.Printf("[UPLOAD] cleaned up %d file(s)", len(s.names))
	s.names = nil
	s.ByField = map[string][]string{}
}
