package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/bankflow/internal/importer"
	"github.com/cleared-dev/bankflow/internal/insights"
	"github.com/cleared-dev/bankflow/internal/pipeline"
	"github.com/cleared-dev/bankflow/internal/ui"
)

func newInsightsCommand() *cobra.Command {
	var (
		repoDir string
		top     int
	)

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Spending analytics over imported and pending statements",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(cmd, repoDir)
			if err != nil {
				return err
			}

			pending, err := importer.Scan(p.root)
			if err != nil {
				return err
			}
			processed, err := importer.ScanProcessed(p.root)
			if err != nil {
				return err
			}
			files := append(processed, pending...)
			if len(files) == 0 {
				p.out.Info("No statements to analyze")
				return nil
			}

			repo, closeStore, err := p.ruleRepository()
			defer func() { _ = closeStore() }()
			if err != nil {
				return err
			}
			enabled, err := repo.Enabled(p.ctx)
			if err != nil {
				return err
			}

			opts := pipeline.NewOptions(p.root, p.cfg, p.chart)
			opts.Rules = enabled
			session := pipeline.NewSession(opts)
			results := session.ParseFiles(p.ctx, files)
			for _, r := range results {
				if r.Err != nil {
					p.out.Warning("%s: %v", r.Name, r.Err)
				}
			}
			txns := session.Process(results)
			if len(txns) == 0 {
				p.out.Info("No transactions to analyze")
				return nil
			}
			printReport(p.out, session.Insights(results, txns), top)
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().IntVar(&top, "top", 5, "merchants and categories to show")

	return cmd
}

func printReport(out *ui.Printer, r insights.Report, top int) {
	out.Header("Spending insights")

	out.Info("Velocity")
	v := r.Velocity
	out.Detail("daily spend %s (first half %s, second half %s)",
		v.DailyAverage.StringFixed(2), v.FirstHalfAverage.StringFixed(2), v.SecondHalfAverage.StringFixed(2))
	out.Detail("trend %s (%s%%)", v.Trend, v.ChangePercent.StringFixed(2))

	out.Info("Burn rate")
	b := r.Burn
	out.Detail("%d day(s), monthly burn %s, net per day %s", b.Days, b.MonthlyBurn.StringFixed(2), b.NetDaily.StringFixed(2))
	if b.UnlimitedRunway {
		out.Detail("runway: unlimited")
	} else {
		out.Detail("runway: %s month(s)", b.RunwayMonths.StringFixed(1))
	}

	out.Info("Savings")
	s := r.Savings
	out.Detail("income %s, expense %s, saved %s (%s%%)",
		s.Income.StringFixed(2), s.Expense.StringFixed(2), s.Saved.StringFixed(2), s.RatePercent.StringFixed(2))

	out.Info("Recurring charges")
	rec := r.Recurring
	out.Detail("recurring %s, one-time %s", rec.RecurringTotal.StringFixed(2), rec.OneTimeTotal.StringFixed(2))
	for i, m := range rec.Recurring {
		if i == top {
			break
		}
		out.Detail("%s: %d charge(s), %s total, %s avg [%s]",
			m.Merchant, m.Count, m.Total.StringFixed(2), m.Average.StringFixed(2), m.Category)
	}

	out.Info("Categories")
	for i, c := range r.Breakdown {
		if i == top {
			break
		}
		out.Detail("%s: %s (%s%%, %d)", c.Category, c.Total.StringFixed(2), c.Percent.StringFixed(1), c.Count)
	}
	for _, t := range r.Trends {
		if t.Trend == insights.TrendStable {
			continue
		}
		out.Warning("%s %s %s%%", t.Category, t.Trend, t.ChangePercent.StringFixed(2))
	}
}
