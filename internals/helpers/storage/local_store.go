// file: internals/helpers/storage/local_store.go
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var ErrInvalidName = errors.New("invalid file name")

const createAttempts = 5

// LocalStore keeps uploaded attachments as flat files in one directory.
// Rows reference files by base name only.
type LocalStore struct {
	dir string
	now func() time.Time
}

func NewLocalStore(dir string) (*LocalStore, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStore{dir: abs, now: time.Now}, nil
}

func (s *LocalStore) Dir() string { return s.dir }

/* ===============================
   Naming
=================================*/

// NewName returns <field>-<unix millis>-<9 random digits><ext>.
func (s *LocalStore) NewName(field, ext string) string {
	return fmt.Sprintf("%s-%d-%09d%s",
		sanitizeToken(field), s.now().UnixMilli(), uuid.New().ID()%1_000_000_000, sanitizeExt(ext))
}

func sanitizeToken(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == '-' || r == ' ':
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

func sanitizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	var b strings.Builder
	for _, r := range ext {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ""
	}
	return "." + b.String()
}

// CheckName validates a client-supplied file name (GET /api/files/:filename).
func CheckName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") ||
		strings.ContainsRune(name, 0) {
		return ErrInvalidName
	}
	return nil
}

// Resolve maps a stored reference to an absolute path inside the store.
// Legacy rows stored "Uploads/<name>", so only the base name is kept.
func (s *LocalStore) Resolve(stored string) (string, error) {
	name := filepath.Base(filepath.Clean(strings.ReplaceAll(stored, `\`, "/")))
	if err := CheckName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name), nil
}

/* ===============================
   Write
=================================*/

// Save streams src into a fresh, never-before-used file and returns its name.
// A partially written file is removed before returning an error.
func (s *LocalStore) Save(field, ext string, src io.Reader) (string, int64, error) {
	var (
		f    *os.File
		name string
		err  error
	)
	for i := 0; i < createAttempts; i++ {
		name = s.NewName(field, ext)
		f, err = os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err == nil {
			break
		}
		if !errors.Is(err, os.ErrExist) {
			return "", 0, fmt.Errorf("create %s: %w", name, err)
		}
	}
	if err != nil {
		return "", 0, fmt.Errorf("no free file name for %s after %d attempts: %w", field, createAttempts, err)
	}

	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(filepath.Join(s.dir, name))
		return "", 0, fmt.Errorf("write %s: %w", name, err)
	}
	return name, n, nil
}

/* ===============================
   Read / delete
=================================*/

func (s *LocalStore) Stat(stored string) (os.FileInfo, string, error) {
	p, err := s.Resolve(stored)
	if err != nil {
		return nil, "", err
	}
	fi, err := os.Stat(p)
	if err != nil {
		return nil, "", err
	}
	if fi.IsDir() {
		return nil, "", os.ErrNotExist
	}
	return fi, p, nil
}

// Remove deletes one stored file. A file that is already gone is not an error;
// removed reports whether something was actually deleted.
func (s *LocalStore) Remove(stored string) (removed bool, err error) {
	p, err := s.Resolve(stored)
	if err != nil {
		return false, err
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

type FileEntry struct {
	Name    string
	Size    int64
	ModTime time.Time
}

// List returns the regular files directly under the store dir.
func (s *LocalStore) List() ([]FileEntry, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, err
	}
	out := make([]FileEntry, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, FileEntry{Name: e.Name(), Size: info.Size(), ModTime: info.ModTime()})
	}
	return out, nil
}

type SweepResult struct {
	Removed int
	Failed  int
}

// RemoveMany deletes names in parallel. Failures are logged and counted;
// the loop never stops early unless ctx is cancelled.
func (s *LocalStore) RemoveMany(ctx context.Context, names []string, parallel int) SweepResult {
	if parallel <= 0 {
		parallel = 8
	}
	var removed, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for _, name := range names {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			ok, err := s.Remove(name)
			switch {
			case err != nil:
				failed.Add(1)
				log.Printf("[STORAGE] remove %s failed: %v", name, err)
			case ok:
				removed.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	return SweepResult{Removed: int(removed.Load()), Failed: int(failed.Load())}
}

// SweepAll removes every file in the store dir.
func (s *LocalStore) SweepAll(ctx context.Context, parallel int) (SweepResult, error) {
	files, err := s.List()
	if err != nil {
		return SweepResult{}, err
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name)
	}
	return s.RemoveMany(ctx, names, parallel), nil
}
