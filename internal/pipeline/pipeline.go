// Package pipeline runs statement files through parse, validate,
// categorize, rules and export, the order the import command uses.
package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/cleared-dev/bankflow/internal/accounts"
	"github.com/cleared-dev/bankflow/internal/categorize"
	"github.com/cleared-dev/bankflow/internal/config"
	"github.com/cleared-dev/bankflow/internal/iif"
	"github.com/cleared-dev/bankflow/internal/importer"
	"github.com/cleared-dev/bankflow/internal/insights"
	"github.com/cleared-dev/bankflow/internal/logger"
	"github.com/cleared-dev/bankflow/internal/model"
	"github.com/cleared-dev/bankflow/internal/normalize"
	"github.com/cleared-dev/bankflow/internal/rules"
	"github.com/cleared-dev/bankflow/internal/validate"
)

// Options configures a Session.
type Options struct {
	RepoRoot        string
	MaxRows         int
	Workers         int
	RequiredColumns []normalize.Column // normalize.DefaultRequired when empty
	Categorizer     *categorize.Categorizer
	Rules           []model.CustomRule
	Export          iif.Options
}

// NewOptions builds Options from a project config and category table.
func NewOptions(repoRoot string, cfg *config.Config, chart *accounts.Service) Options {
	required := make([]normalize.Column, 0, len(cfg.Import.RequiredColumns))
	for _, c := range cfg.Import.RequiredColumns {
		required = append(required, normalize.Column(c))
	}
	return Options{
		RepoRoot:        repoRoot,
		MaxRows:         cfg.Import.MaxRows,
		Workers:         cfg.Import.Workers,
		RequiredColumns: required,
		Export: iif.Options{
			BankAccount:           cfg.Export.BankAccount,
			DefaultExpenseAccount: cfg.Export.DefaultExpenseAccount,
			DefaultIncomeAccount:  cfg.Export.DefaultIncomeAccount,
			IncludeMemo:           cfg.Export.IncludeMemo,
			AccountMap:            cfg.Export.CategoryAccounts,
			Accounts:              chart,
		},
	}
}

// FileResult is the outcome of parsing and validating one file. Err is set
// when the file could not be parsed; Validation is still filled where
// possible.
type FileResult struct {
	Name       string
	Path       string
	Statement  *model.ParsedStatement
	Validation validate.Result
	Err        error
}

// Session holds the parsers and settings for one import run.
type Session struct {
	opts      Options
	registry  *importer.Registry
	delimited *importer.DelimitedParser
}

// NewSession creates a Session.
func NewSession(opts Options) *Session {
	if opts.Workers <= 0 {
		opts.Workers = config.DefaultWorkers
	}
	if opts.Categorizer == nil {
		opts.Categorizer = categorize.Default()
	}
	return &Session{
		opts:      opts,
		registry:  importer.DefaultRegistry(opts.MaxRows),
		delimited: &importer.DelimitedParser{MaxRows: opts.MaxRows},
	}
}

// ParseFiles parses and validates files concurrently. Results come back in
// input order; one file failing does not stop the others.
func (s *Session) ParseFiles(ctx context.Context, files []importer.FileInfo) []FileResult {
	results := make([]FileResult, len(files))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.opts.Workers)
	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = FileResult{Name: f.Name, Path: f.Path, Err: err}
				return nil
			}
			results[i] = s.ParseFile(ctx, f.Path)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

// ParseFile parses one statement and validates its raw rows.
func (s *Session) ParseFile(ctx context.Context, path string) FileResult {
	log := logger.FromContext(ctx)
	name := filepath.Base(path)
	res := FileResult{Name: name, Path: path, Validation: validate.OK()}

	data, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("reading %s: %w", name, err)
		return res
	}

	if importer.Detect(data) == importer.FormatDelimited {
		records, err := s.delimited.Records(bytes.NewReader(data))
		if err != nil {
			res.Err = fmt.Errorf("parsing %s: %w", name, err)
			return res
		}
		res.Validation = ValidateRecords(records, s.opts.RequiredColumns, name)
		res.Statement = s.delimited.ParseRecords(records, name)
	} else {
		stmt, err := s.registry.ParseBytes(data, name)
		if err != nil {
			res.Err = err
			return res
		}
		res.Statement = stmt
	}

	for _, w := range res.Statement.Warnings {
		res.Validation.Warnings = append(res.Validation.Warnings, validate.Issue{File: name, Message: w})
	}
	log.Debug().
		Str("file", name).
		Str("format", res.Statement.Format).
		Int("transactions", len(res.Statement.Transactions)).
		Int("errors", len(res.Validation.Errors)).
		Int("warnings", len(res.Validation.Warnings)).
		Msg("parsed statement")
	return res
}

// ValidateRecords runs the raw-row checks on a delimited file. Structural
// and missing-column errors stop the later checks for that file.
func ValidateRecords(records [][]string, required []normalize.Column, file string) validate.Result {
	res := validate.CheckStructure(records, file)
	if !res.Valid {
		return res
	}
	res = res.Merge(validate.CheckRequiredColumns(records[0], required, file))
	if !res.Valid {
		return res
	}
	if rows, ok := validate.BalanceRows(records); ok {
		res = res.Merge(validate.CheckBalances(rows, file))
	}
	return res
}

// Statements returns the statements that parsed.
func Statements(results []FileResult) []*model.ParsedStatement {
	var out []*model.ParsedStatement
	for _, r := range results {
		if r.Err == nil && r.Statement != nil {
			out = append(out, r.Statement)
		}
	}
	return out
}

// Process merges the parsed statements newest first, categorizes, and
// applies the session's enabled rules.
func (s *Session) Process(results []FileResult) []model.Transaction {
	merged := importer.Merge(Statements(results)...)
	categorized := s.opts.Categorizer.Apply(merged)
	return rules.ApplyAll(categorized, s.opts.Rules)
}

// Export writes the IIF export of txns; see iif.Service.Export.
func (s *Session) Export(txns []model.Transaction, path string, force bool) (iif.Export, error) {
	return iif.NewService(s.opts.RepoRoot, s.opts.Export).Export(txns, path, force)
}

// Insights computes the analytics for txns. The runway balance is the sum
// of the parsed statements' closing balances.
func (s *Session) Insights(results []FileResult, txns []model.Transaction) insights.Report {
	balance := decimal.Zero
	for _, stmt := range Statements(results) {
		balance = balance.Add(stmt.EndBalance)
	}
	return insights.Compute(txns, balance)
}
