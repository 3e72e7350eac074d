package seeds

import (
	"context"
	"log"
	"time"

	"jobintake_backend/internals/features/applications/repository"
	applications "jobintake_backend/internals/seeds/applications"
)

func RunAllSeeds(ctx context.Context, repo *repository.ApplicationRepository) error {
	//* Applications
	if _, _, err := applications.SeedApplications(ctx, repo, time.Now()); err != nil {
		log.Printf("❌ Seeding applications failed: %v", err)
		return err
	}
	return nil
}
