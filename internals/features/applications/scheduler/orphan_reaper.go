package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"jobintake_backend/internals/configs"
	"jobintake_backend/internals/helpers/storage"
)

const reapTimeout = 4 * time.Minute

// ReferenceSource lists the file names rows still point at.
type ReferenceSource interface {
	ReferencedFiles(ctx context.Context) (map[string]struct{}, error)
}

// OrphanReaper removes upload files no row references. Files younger than
// Grace are left alone so an in-flight submit never loses its attachments.
type OrphanReaper struct {
	Refs   ReferenceSource
	Store  *storage.LocalStore
	Grace  time.Duration
	DryRun bool

	now func() time.Time
}

func NewOrphanReaper(refs ReferenceSource, store *storage.LocalStore, cfg configs.ReaperConfig) *OrphanReaper {
	return &OrphanReaper{Refs: refs, Store: store, Grace: cfg.Grace, DryRun: cfg.DryRun, now: time.Now}
}

type ReapResult struct {
	Scanned int
	Orphans int
	Removed int
	Failed  int
}

func (r *OrphanReaper) RunOnce(ctx context.Context) (ReapResult, error) {
	refs, err := r.Refs.ReferencedFiles(ctx)
	if err != nil {
		return ReapResult{}, fmt.Errorf("load references: %w", err)
	}
	files, err := r.Store.List()
	if err != nil {
		return ReapResult{}, fmt.Errorf("list upload dir: %w", err)
	}

	threshold := r.now().Add(-r.Grace)
	res := ReapResult{Scanned: len(files)}
	var orphans []string
	for _, f := range files {
		if _, ok := refs[f.Name]; ok {
			continue
		}
		if f.ModTime.After(threshold) {
			continue
		}
		orphans = append(orphans, f.Name)
	}
	res.Orphans = len(orphans)

	if len(orphans) == 0 {
		log.Printf("[REAPER] nothing to delete; scanned=%d", res.Scanned)
		return res, nil
	}
	if r.DryRun {
		log.Printf("[REAPER] DRY-RUN would delete %d/%d files: %v", len(orphans), res.Scanned, orphans)
		return res, nil
	}

	sweep := r.Store.RemoveMany(ctx, orphans, 4)
	res.Removed, res.Failed = sweep.Removed, sweep.Failed
	log.Printf("[REAPER] removed=%d failed=%d scanned=%d", res.Removed, res.Failed, res.Scanned)
	return res, nil
}

// StartOrphanReaper schedules RunOnce. Overlapping runs are skipped.
// The caller stops the returned cron on shutdown.
func StartOrphanReaper(cfg configs.ReaperConfig, reaper *OrphanReaper) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), reapTimeout)
		defer cancel()
		if _, err := reaper.RunOnce(ctx); err != nil {
			log.Printf("[REAPER] ❌ %v", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("add reaper schedule %q: %w", cfg.Schedule, err)
	}
	log.Printf("[REAPER] started schedule=%q grace=%s dryRun=%v", cfg.Schedule, cfg.Grace, cfg.DryRun)
	c.Start()
	return c, nil
}
