package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"jobintake_backend/internals/configs"
	"jobintake_backend/internals/helpers/storage"
)

type staticRefs map[string]struct{}

func (s staticRefs) ReferencedFiles(context.Context) (map[string]struct{}, error) { return s, nil }

func setup(t *testing.T) (*storage.LocalStore, time.Time) {
	t.Helper()
	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	old := time.Now().Add(-3 * time.Hour)
	for _, name := range []string{"kept.pdf", "orphan-old.pdf", "orphan-new.pdf"} {
		p := filepath.Join(store.Dir(), name)
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
		if name != "orphan-new.pdf" {
			if err := os.Chtimes(p, old, old); err != nil {
				t.Fatal(err)
			}
		}
	}
	return store, old
}

func exists(store *storage.LocalStore, name string) bool {
	_, err := os.Stat(filepath.Join(store.Dir(), name))
	return err == nil
}

func TestReaperRemovesOnlyOldOrphans(t *testing.T) {
	store, _ := setup(t)
	r := NewOrphanReaper(staticRefs{"kept.pdf": {}}, store, configs.ReaperConfig{Grace: time.Hour})

	res, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Scanned != 3 || res.Orphans != 1 || res.Removed != 1 {
		t.Fatalf("result = %+v", res)
	}
	if exists(store, "orphan-old.pdf") {
		t.Fatal("old orphan survived")
	}
	if !exists(store, "kept.pdf") || !exists(store, "orphan-new.pdf") {
		t.Fatal("referenced or fresh file removed")
	}
}

func TestReaperDryRun(t *testing.T) {
	store, _ := setup(t)
	r := NewOrphanReaper(staticRefs{}, store, configs.ReaperConfig{Grace: time.Hour, DryRun: true})

	res, err := r.RunOnce(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if res.Orphans != 2 || res.Removed != 0 {
		t.Fatalf("result = %+v", res)
	}
	if !exists(store, "orphan-old.pdf") {
		t.Fatal("dry run deleted a file")
	}
}

func TestStartOrphanReaperRejectsBadSchedule(t *testing.T) {
	store, _ := setup(t)
	r := NewOrphanReaper(staticRefs{}, store, configs.ReaperConfig{})
	if _, err := StartOrphanReaper(configs.ReaperConfig{Schedule: "not a cron"}, r); err == nil {
		t.Fatal("expected schedule error")
	}
}
