package applications

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"path/filepath"
	"time"

	"jobintake_backend/internals/features/applications/dto"
	"jobintake_backend/internals/features/applications/model"
)

//go:embed sample_applications.json
var sampleJSON []byte

// Writer is the slice of the application repository the seeder needs.
type Writer interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, m *model.ApplicationModel) (uint, error)
}

// SeedApplications pushes the bundled applicants through the normal
// submission rules and inserts the ones whose email is not taken yet.
func SeedApplications(ctx context.Context, repo Writer, now time.Time) (inserted, skipped int, err error) {
	var seeds []map[string]any
	if err := json.Unmarshal(sampleJSON, &seeds); err != nil {
		return 0, 0, fmt.Errorf("decode sample applications: %w", err)
	}

	for i, s := range seeds {
		m, err := dto.ValidateSubmission(dto.RawFromMap(s), now)
		if err != nil {
			return inserted, skipped, fmt.Errorf("sample #%d: %w", i+1, err)
		}
		attachSeedFiles(m, s)

		exists, err := repo.EmailExists(ctx, m.Email)
		if err != nil {
			return inserted, skipped, err
		}
		if exists {
			log.Printf("ℹ️ Applicant '%s' already exists, skipped.", m.Email)
			skipped++
			continue
		}
		if _, err := repo.Insert(ctx, m); err != nil {
			return inserted, skipped, err
		}
		inserted++
	}
	log.Printf("✅ Sample applications: %d inserted, %d skipped", inserted, skipped)
	return inserted, skipped, nil
}

// The bundled rows point at file names that never went through an upload.
func attachSeedFiles(m *model.ApplicationModel, s map[string]any) {
	if v, ok := s["resume_path"].(string); ok && v != "" {
		m.ResumePath = filepath.Base(v)
	}
	if v, ok := s["cover_letter_path"].(string); ok && v != "" {
		name := filepath.Base(v)
		m.CoverLetterPath = &name
	}
}
