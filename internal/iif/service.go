package iif

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cleared-dev/bankflow/internal/model"
)

// ExportDir is where exports are written, relative to a project root.
const ExportDir = "exports"

// ErrInvalidExport is returned by Service.Export when the generated text
// fails validation and the caller did not force the write.
var ErrInvalidExport = errors.New("export failed validation")

// Service writes validated exports into a project.
type Service struct {
	repoRoot string
	opts     Options
	now      func() time.Time
}

// NewService creates an export Service rooted at repoRoot.
func NewService(repoRoot string, opts Options) *Service {
	return &Service{repoRoot: repoRoot, opts: opts, now: time.Now}
}

// Export is the outcome of one Service.Export call.
type Export struct {
	Path    string // empty when nothing was written
	Text    string
	Result  Result
	Written bool
}

// Path returns the default export path for time t.
func (s *Service) Path(t time.Time) string {
	return filepath.Join(s.repoRoot, ExportDir, t.Format("20060102-150405")+".iif")
}

// Export generates and validates the export of txns and writes it to path,
// or to Path(now) when path is empty. An export with errors is written only
// when force is set; otherwise ErrInvalidExport is returned along with the
// validation result.
func (s *Service) Export(txns []model.Transaction, path string, force bool) (Export, error) {
	if path == "" {
		path = s.Path(s.now())
	}
	text := Generate(txns, s.opts)
	out := Export{Text: text, Result: Validate(text, filepath.Base(path))}

	if !out.Result.Valid && !force {
		return out, fmt.Errorf("%w: %d error(s)", ErrInvalidExport, len(out.Result.Errors))
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return out, fmt.Errorf("creating export dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return out, fmt.Errorf("writing export: %w", err)
	}
	out.Path = path
	out.Written = true
	return out, nil
}

// ValidateFile reads and validates an existing export.
func ValidateFile(path string) (Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("reading export %s: %w", path, err)
	}
	return Validate(string(data), filepath.Base(path)), nil
}

// List returns the export files under a project, oldest first.
func List(repoRoot string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(repoRoot, ExportDir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading export dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".iif") {
			continue
		}
		paths = append(paths, filepath.Join(repoRoot, ExportDir, e.Name()))
	}
	return paths, nil
}
