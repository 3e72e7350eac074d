// file: internals/features/applications/repository/application_repository.go
package repository

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"jobintake_backend/internals/features/applications/model"
	helper "jobintake_backend/internals/helpers"
	"jobintake_backend/internals/helpers/storage"
)

const (
	referenceAttempts = 3
	sweepParallel     = 8
	sweepTimeout      = 5 * time.Minute
)

type ApplicationRepository struct {
	DB    *gorm.DB
	Store *storage.LocalStore

	now    func() time.Time
	sweeps sync.WaitGroup
}

func NewApplicationRepository(db *gorm.DB, store *storage.LocalStore) *ApplicationRepository {
	return &ApplicationRepository{DB: db, Store: store, now: time.Now}
}

// ListFilter narrows list queries. Limit 0 means no limit.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}

type DeletionResult struct {
	ID           uint `json:"id"`
	FilesRemoved int  `json:"files_removed"`
	FilesFailed  int  `json:"files_failed"`
}

func newReferenceCode(now time.Time) string {
	return fmt.Sprintf("REF%d%03d", now.UnixMilli(), uuid.New().ID()%1000)
}

/* ====================== WRITE ====================== */

// Insert stores a validated application and returns its id. A collision on
// the generated reference code is retried; everything else is mapped
// through MapStoreError.
func (r *ApplicationRepository) Insert(ctx context.Context, m *model.ApplicationModel) (uint, error) {
	if m.SubmissionDate.IsZero() {
		m.SubmissionDate = r.now()
	}
	if m.Status == "" {
		m.Status = model.StatusPending
	}

	var lastErr error
	for attempt := 0; attempt < referenceAttempts; attempt++ {
		m.ID = 0
		m.ReferenceCode = newReferenceCode(r.now())
		err := r.DB.WithContext(ctx).Create(m).Error
		if err == nil {
			return m.ID, nil
		}
		if helper.UniqueViolationOn(err, "reference_code") {
			lastErr = err
			log.Printf("[REPO] ⚠️ reference code %s taken, retrying", m.ReferenceCode)
			continue
		}
		return 0, helper.MapStoreError(err, "Failed to save application")
	}
	return 0, helper.NewStoreError("Could not allocate a reference code", lastErr)
}

// EmailExists is used by the sample seeder to stay idempotent.
func (r *ApplicationRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.ApplicationModel{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&n).Error
	if err != nil {
		return false, helper.MapStoreError(err, "Failed to check email")
	}
	return n > 0, nil
}

// UpdateStatus changes status and updated_at only. Unknown statuses never
// reach the store.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id uint, status model.ApplicationStatus) (*model.ApplicationModel, error) {
	if !status.Valid() {
		return nil, helper.NewInvalidArgument(fmt.Sprintf("Invalid status %q", status))
	}
	res := r.DB.WithContext(ctx).Model(&model.ApplicationModel{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": r.now()})
	if res.Error != nil {
		return nil, helper.MapStoreError(res.Error, "Failed to update status")
	}
	if res.RowsAffected == 0 {
		return nil, helper.NewNotFound("Application not found")
	}
	return r.GetByID(ctx, id)
}

// DeleteByID removes the row, then its files. File failures are counted,
// not returned.
func (r *ApplicationRepository) DeleteByID(ctx context.Context, id uint) (DeletionResult, error) {
	var paths []string
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.ApplicationModel
		if err := tx.Select(attachmentColumns).First(&row, id).Error; err != nil {
			return err
		}
		paths = row.AttachmentPaths()
		res := tx.Delete(&model.ApplicationModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return DeletionResult{}, helper.MapStoreError(err, "Failed to delete application")
	}

	sweep := r.Store.RemoveMany(ctx, paths, sweepParallel)
	if sweep.Failed > 0 {
		log.Printf("[REPO] ⚠️ application %d deleted, %d file(s) could not be removed", id, sweep.Failed)
	}
	return DeletionResult{ID: id, FilesRemoved: sweep.Removed, FilesFailed: sweep.Failed}, nil
}

// ClearAll deletes every row and starts a background sweep of the upload
// dir. The sweep does not hold up the caller; WaitSweeps blocks on it.
func (r *ApplicationRepository) ClearAll(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&model.ApplicationModel{})
	if res.Error != nil {
		return 0, helper.MapStoreError(res.Error, "Failed to clear applications")
	}

	r.sweeps.Add(1)
	go func() {
		defer r.sweeps.Done()
		sctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		result, err := r.Store.SweepAll(sctx, sweepParallel)
		if err != nil {
			log.Printf("[REPO] ❌ upload sweep failed: %v", err)
			return
		}
		log.Printf("[REPO] 🧹 upload sweep done: removed=%d failed=%d", result.Removed, result.Failed)
	}()
	return res.RowsAffected, nil
}

func (r *ApplicationRepository) WaitSweeps() { r.sweeps.Wait() }

/* ====================== READ ====================== */

var attachmentColumns = []string{"id", "resume_path", "cover_letter_path", "photo_path", "id_proof_path", "certificate_paths"}

func (r *ApplicationRepository) GetByID(ctx context.Context, id uint) (*model.ApplicationModel, error) {
	var m model.ApplicationModel
	if err := r.DB.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, helper.MapStoreError(err, "Failed to load application")
	}
	if m.AdditionalEducation == nil {
		m.AdditionalEducation = model.JSONList[model.EducationEntry]{}
	}
	if m.ReferenceDetails == nil {
		m.ReferenceDetails = model.JSONList[model.ReferenceEntry]{}
	}
	return &m, nil
}

func (r *ApplicationRepository) filtered(ctx context.Context, f ListFilter) (*gorm.DB, error) {
	q := r.DB.WithContext(ctx).Model(&model.ApplicationModel{})
	if s := strings.TrimSpace(f.Status); s != "" {
		st := model.ApplicationStatus(s)
		if !st.Valid() {
			return nil, helper.NewInvalidArgument(fmt.Sprintf("Invalid status filter %q", s))
		}
		q = q.Where("status = ?", st)
	}
	return q, nil
}

func (r *ApplicationRepository) ordered(ctx context.Context, f ListFilter) (*gorm.DB, error) {
	q, err := r.filtered(ctx, f)
	if err != nil {
		return nil, err
	}
	q = q.Order("submission_date DESC").Order("id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}
	return q, nil
}

// CountSummaries counts the rows ListSummaries would return without paging.
func (r *ApplicationRepository) CountSummaries(ctx context.Context, f ListFilter) (int64, error) {
	q, err := r.filtered(ctx, f)
	if err != nil {
		return 0, err
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, helper.MapStoreError(err, "Failed to count applications")
	}
	return n, nil
}

func (r *ApplicationRepository) ListSummaries(ctx context.Context, f ListFilter) ([]model.ApplicationSummary, error) {
	q, err := r.ordered(ctx, f)
	if err != nil {
		return nil, err
	}
	out := []model.ApplicationSummary{}
	if err := q.Select(model.SummaryColumns).Scan(&out).Error; err != nil {
		return nil, helper.MapStoreError(err, "Failed to list applications")
	}
	return out, nil
}

func (r *ApplicationRepository) ListForExport(ctx context.Context, f ListFilter) ([]model.ApplicationModel, error) {
	q, err := r.ordered(ctx, f)
	if err != nil {
		return nil, err
	}
	out := []model.ApplicationModel{}
	if err := q.Find(&out).Error; err != nil {
		return nil, helper.MapStoreError(err, "Failed to load applications")
	}
	return out, nil
}

// ReferencedFiles returns the base name of every attachment any row points at.
func (r *ApplicationRepository) ReferencedFiles(ctx context.Context) (map[string]struct{}, error) {
	var rows []model.ApplicationModel
	if err := r.DB.WithContext(ctx).Select(attachmentColumns).Find(&rows).Error; err != nil {
		return nil, helper.MapStoreError(err, "Failed to load attachment paths")
	}
	out := make(map[string]struct{}, len(rows)*2)
	for i := range rows {
		for _, p := range rows[i].AttachmentPaths() {
			out[filepath.Base(strings.ReplaceAll(p, `\`, "/"))] = struct{}{}
		}
	}
	return out, nil
}

// AttachmentPath returns the stored path of one attachment kind.
func (r *ApplicationRepository) AttachmentPath(ctx context.Context, id uint, kind model.AttachmentKind) (string, error) {
	col, ok := kind.Column()
	if !ok {
		return "", helper.NewInvalidArgument(fmt.Sprintf("Unknown file type %q", kind))
	}
	var row model.ApplicationModel
	if err := r.DB.WithContext(ctx).Select("id", col).First(&row, id).Error; err != nil {
		return "", helper.MapStoreError(err, "Failed to load application")
	}

	var p *string
	switch kind {
	case model.AttachmentResume:
		p = &row.ResumePath
	case model.AttachmentCoverLetter:
		p = row.CoverLetterPath
	case model.AttachmentPhoto:
		p = row.PhotoPath
	case model.AttachmentIDProof:
		p = row.IDProofPath
	}
	if p == nil || *p == "" {
		return "", helper.NewNotFound(fmt.Sprintf("No %s file for this application", kind))
	}
	return *p, nil
}
