package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Media subdirectories under the media root.
const (
	DirPlots     = "plots"
	DirResponses = "responses"
	DirPDFs      = "pdfs"
)

// ErrOutsideRoot is returned for relative paths that resolve outside the media root.
var ErrOutsideRoot = errors.New("path escapes media root")

// Media stores generated artifacts under a root directory. Paths handed out and
// accepted are always relative to the root, with forward slashes.
type Media struct {
	root   string
	logger *zap.Logger
}

// NewMedia returns a store rooted at root. Call EnsureLayout before first use.
func NewMedia(root string, logger *zap.Logger) *Media {
	return &Media{root: filepath.Clean(root), logger: logger.Named("MediaStore")}
}

// Root returns the absolute or configured media root.
func (m *Media) Root() string { return m.root }

// EnsureLayout creates the root and its three subdirectories.
func (m *Media) EnsureLayout() error {
	for _, dir := range []string{DirPlots, DirResponses, DirPDFs} {
		if err := os.MkdirAll(filepath.Join(m.root, dir), 0o755); err != nil {
			return fmt.Errorf("create media dir %s: %w", dir, err)
		}
	}
	m.logger.Info("Media layout ready", zap.String("root", m.root))
	return nil
}

// NewPath returns a fresh relative path "<subdir>/<prefix>_<hex>.<ext>".
func (m *Media) NewPath(subdir, prefix, ext string) string {
	name := fmt.Sprintf("%s_%s.%s", prefix, strings.ReplaceAll(uuid.NewString(), "-", ""), strings.TrimPrefix(ext, "."))
	return subdir + "/" + name
}

// Abs resolves a relative media path to a filesystem path.
func (m *Media) Abs(rel string) (string, error) {
	if rel == "" || filepath.IsAbs(rel) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, rel)
	}
	p := filepath.Join(m.root, filepath.FromSlash(rel))
	inside, err := filepath.Rel(m.root, p)
	if err != nil || inside == ".." || strings.HasPrefix(inside, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrOutsideRoot, rel)
	}
	return p, nil
}

// Exists reports whether rel names an existing regular file.
func (m *Media) Exists(rel string) bool {
	p, err := m.Abs(rel)
	if err != nil {
		return false
	}
	info, err := os.Stat(p)
	return err == nil && info.Mode().IsRegular()
}

// Save writes data to a new unique file and returns its relative path.
func (m *Media) Save(subdir, prefix, ext string, data []byte) (string, error) {
	rel := m.NewPath(subdir, prefix, ext)
	err := m.WriteAtomic(rel, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return "", err
	}
	return rel, nil
}

// WriteAtomic streams content into a temp file next to rel and renames it into
// place, so readers never observe a partial file.
func (m *Media) WriteAtomic(rel string, write func(w io.Writer) error) error {
	p, err := m.Abs(rel)
	if err != nil {
		return err
	}
	dir := filepath.Dir(p)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", rel, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", rel, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if err := write(tmp); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("write %s: %w", rel, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close %s: %w", rel, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		cleanup()
		return fmt.Errorf("chmod %s: %w", rel, err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		cleanup()
		return fmt.Errorf("rename into %s: %w", rel, err)
	}
	m.logger.Debug("Artifact stored", zap.String("path", rel))
	return nil
}

// Read returns the content of rel.
func (m *Media) Read(rel string) ([]byte, error) {
	p, err := m.Abs(rel)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

// Remove deletes rel. A missing file is not an error.
func (m *Media) Remove(rel string) error {
	p, err := m.Abs(rel)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", rel, err)
	}
	return nil
}
