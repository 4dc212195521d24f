package commands

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bankflow/internal/iif"
	"github.com/cleared-dev/bankflow/internal/importer"
	"github.com/cleared-dev/bankflow/internal/importlog"
	"github.com/cleared-dev/bankflow/internal/logger"
	"github.com/cleared-dev/bankflow/internal/pipeline"
	"github.com/cleared-dev/bankflow/internal/ui"
	"github.com/cleared-dev/bankflow/internal/validate"
)

func newImportCommand() *cobra.Command {
	var (
		repoDir string
		dryRun  bool
		force   bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import statements from import/ and write an IIF export",
		Long: `Parses every statement in import/, validates it, categorizes the
transactions, applies the enabled custom rules and writes an IIF export to
exports/. Imported files are moved to import/processed/.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, repoDir)
			if err != nil {
				return err
			}
			return runImport(p, importOptions{dryRun: dryRun, force: force, output: output})
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and validate without writing anything")
	cmd.Flags().BoolVar(&force, "force", false, "write the export even when it fails validation")
	cmd.Flags().StringVarP(&output, "output", "o", "", "export path (default exports/<timestamp>.iif)")

	return cmd
}

type importOptions struct {
	dryRun bool
	force  bool
	output string
}

func runImport(p *project, opts importOptions) error {
	log := logger.FromContext(p.ctx)
	out := p.out
	out.Header("bankflow import")

	out.Step(1, 4, "Scanning import/")
	files, err := importer.Scan(p.root)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		out.Info("No statement files in import/")
		return nil
	}
	out.Detail("%d file(s) found", len(files))

	out.Step(2, 4, "Parsing and validating")
	repo, closeStore, err := p.ruleRepository()
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()
	enabled, err := repo.Enabled(p.ctx)
	if err != nil {
		return err
	}

	sopts := pipeline.NewOptions(p.root, p.cfg, p.chart)
	sopts.Rules = enabled
	session := pipeline.NewSession(sopts)

	results := session.ParseFiles(p.ctx, files)
	parsed := 0
	for _, r := range results {
		printFileResult(out, r)
		if r.Err == nil {
			parsed++
		}
	}
	if parsed == 0 {
		return errors.New("no statement could be parsed")
	}

	out.Step(3, 4, "Categorizing")
	txns := session.Process(results)
	splits := 0
	for _, t := range txns {
		if t.IsSplit() {
			splits++
		}
	}
	out.Detail("%d transaction(s), %d enabled rule(s), %d split fragment(s)", len(txns), len(enabled), splits)

	out.Step(4, 4, "Exporting")
	var export iif.Export
	if opts.dryRun {
		text := iif.Generate(txns, sopts.Export)
		export = iif.Export{Text: text, Result: iif.Validate(text, "dry-run")}
	} else {
		export, err = session.Export(txns, opts.output, opts.force)
	}
	printExportResult(out, export.Result)
	if err != nil {
		if errors.Is(err, iif.ErrInvalidExport) {
			out.Error("Export not written; rerun with --force to write it anyway")
		}
		return err
	}

	if opts.dryRun {
		out.Info("Dry run: nothing written")
		return nil
	}
	out.Success("Wrote %s", export.Path)

	if err := recordImport(p, results, filepath.Base(export.Path)); err != nil {
		return err
	}
	log.Info().
		Int("files", parsed).
		Int("transactions", len(txns)).
		Str("export", export.Path).
		Msg("import complete")
	return nil
}

// recordImport appends an import log entry for every parsed file and moves
// it to import/processed/.
func recordImport(p *project, results []pipeline.FileResult, exportName string) error {
	now := time.Now().UTC()
	var entries []importlog.Entry
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		entries = append(entries, importlog.Entry{
			Timestamp:    now,
			File:         r.Name,
			Format:       r.Statement.Format,
			Transactions: len(r.Statement.Transactions),
			Errors:       len(r.Validation.Errors),
			Warnings:     len(r.Validation.Warnings),
			Export:       exportName,
		})
	}
	if err := importlog.Append(p.root, entries); err != nil {
		return fmt.Errorf("writing import log: %w", err)
	}
	for _, e := range entries {
		if err := importer.MarkProcessed(p.root, e.File); err != nil {
			return err
		}
	}
	return nil
}

func printFileResult(out *ui.Printer, r pipeline.FileResult) {
	if r.Err != nil {
		out.Error("%s: %v", r.Name, r.Err)
		return
	}
	if r.Validation.Valid {
		out.Success("%s: %d transaction(s) [%s]", r.Name, len(r.Statement.Transactions), r.Statement.Format)
	} else {
		out.Warning("%s: %d transaction(s) [%s], %d validation error(s)",
			r.Name, len(r.Statement.Transactions), r.Statement.Format, len(r.Validation.Errors))
	}
	printIssues(out, r.Validation)
}

func printIssues(out *ui.Printer, res validate.Result) {
	for _, i := range res.Errors {
		out.Detail("error: %s", i)
	}
	for _, i := range res.Warnings {
		out.Detail("warning: %s", i)
	}
}

func printExportResult(out *ui.Printer, res iif.Result) {
	out.Detail("%d transaction(s), %d split line(s)", res.Stats.TransactionCount, res.Stats.SplitCount)
	out.Detail("debits %s, credits %s", res.Stats.TotalDebit.StringFixed(2), res.Stats.TotalCredit.StringFixed(2))
	printIssues(out, res.Result)
	if res.Valid {
		out.Success("Export is balanced")
	} else {
		out.Error("Export has %d error(s)", len(res.Errors))
	}
}
