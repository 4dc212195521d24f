package importer

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cleared-dev/bankflow/internal/model"
)

// Format names used to key the registry.
const (
	FormatDelimited = "delimited"
	FormatMarkup    = "ofx"
)

// DefaultMaxRows bounds the number of rows or transaction blocks read from one file.
const DefaultMaxRows = 100000

var (
	// ErrUnknownFormat is returned when no registered parser handles a file.
	ErrUnknownFormat = errors.New("unknown statement format")
	// ErrTooManyRows is returned when a file exceeds the parser's row bound.
	ErrTooManyRows = errors.New("statement exceeds row limit")
)

// Parser converts one statement file into a ParsedStatement.
type Parser interface {
	Parse(r io.Reader, name string) (*model.ParsedStatement, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a statement file in the import directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// DefaultRegistry returns a registry with the delimited and markup parsers,
// both bounded by maxRows (DefaultMaxRows when <= 0).
func DefaultRegistry(maxRows int) *Registry {
	r := NewRegistry()
	r.Register(&DelimitedParser{MaxRows: maxRows})
	r.Register(&MarkupParser{MaxRows: maxRows})
	return r
}

// ParseBytes detects the format of data and parses it with the matching parser.
func (r *Registry) ParseBytes(data []byte, name string) (*model.ParsedStatement, error) {
	format := Detect(data)
	p := r.Get(format)
	if p == nil {
		return nil, fmt.Errorf("%s: %w: %s", name, ErrUnknownFormat, format)
	}
	stmt, err := p.Parse(bytes.NewReader(data), name)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}
	return stmt, nil
}

// ParseFile reads path and parses it with ParseBytes.
func (r *Registry) ParseFile(path string) (*model.ParsedStatement, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return r.ParseBytes(data, filepath.Base(path))
}

// Merge concatenates the statements' transactions and sorts them newest
// first. The sort is stable, so same-day transactions keep input order.
func Merge(stmts ...*model.ParsedStatement) []model.Transaction {
	var out []model.Transaction
	for _, s := range stmts {
		if s == nil {
			continue
		}
		out = append(out, s.Transactions...)
	}
	sortNewestFirst(out)
	return out
}

func sortNewestFirst(txns []model.Transaction) {
	sort.SliceStable(txns, func(i, j int) bool {
		return txns[i].Date.After(txns[j].Date)
	})
}

// importDir is the subdirectory for statement files awaiting import.
const importDir = "import"

// processedDir is the subdirectory for imported statement files.
const processedDir = "import/processed"

var statementExts = map[string]bool{
	".csv": true,
	".txt": true,
	".ofx": true,
	".qfx": true,
	".qbo": true,
}

// IsStatementFile reports whether name has a recognised statement extension.
func IsStatementFile(name string) bool {
	return statementExts[strings.ToLower(filepath.Ext(name))]
}

// Scan returns statement files in <repoRoot>/import/.
func Scan(repoRoot string) ([]FileInfo, error) {
	return ScanDir(filepath.Join(repoRoot, importDir))
}

// ScanProcessed returns statement files in <repoRoot>/import/processed/.
func ScanProcessed(repoRoot string) ([]FileInfo, error) {
	return ScanDir(filepath.Join(repoRoot, processedDir))
}

// ScanDir returns statement files directly inside dir, sorted by name.
// A missing directory yields no files.
func ScanDir(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !IsStatementFile(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// MarkProcessed moves a file from import/ to import/processed/.
func MarkProcessed(repoRoot, fileName string) error {
	src := filepath.Join(repoRoot, importDir, fileName)
	dstDir := filepath.Join(repoRoot, processedDir)

	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
