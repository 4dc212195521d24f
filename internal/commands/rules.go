package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/bankflow/internal/model"
	"github.com/cleared-dev/bankflow/internal/rules"
	"github.com/cleared-dev/bankflow/internal/ui"
)

func newRulesCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage custom categorization rules",
	}
	cmd.PersistentFlags().StringVar(&repoDir, "repo", ".", "project directory")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List rules in priority order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withRules(cmd, repoDir, func(p *project, repo *rules.Repository) error {
					all, err := repo.List(p.ctx)
					if err != nil {
						return err
					}
					if len(all) == 0 {
						p.out.Info("No rules defined")
						return nil
					}
					for _, r := range rules.Active(all) {
						printRule(p.out, r)
					}
					for _, r := range all {
						if !r.Enabled {
							printRule(p.out, r)
						}
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "add <rule.json>",
			Short: "Add rules from a JSON file (one rule or an array)",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				in, err := readRuleFile(args[0])
				if err != nil {
					return err
				}
				return withRules(cmd, repoDir, func(p *project, repo *rules.Repository) error {
					for _, r := range in {
						added, err := repo.Add(p.ctx, r)
						if err != nil {
							return fmt.Errorf("adding %q: %w", r.Name, err)
						}
						p.out.Success("Added %s (%s)", added.Name, added.ID)
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "remove <id>",
			Short: "Delete a rule",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withRules(cmd, repoDir, func(p *project, repo *rules.Repository) error {
					if err := repo.Delete(p.ctx, args[0]); err != nil {
						return err
					}
					p.out.Success("Removed %s", args[0])
					return nil
				})
			},
		},
		newRuleToggleCommand(&repoDir, "enable", true),
		newRuleToggleCommand(&repoDir, "disable", false),
		&cobra.Command{
			Use:   "validate <rule.json>",
			Short: "Check rules in a JSON file without saving them",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				in, err := readRuleFile(args[0])
				if err != nil {
					return err
				}
				out := ui.New(cmd.OutOrStdout())
				invalid := 0
				for _, r := range in {
					errs, warnings := rules.ValidateRule(r)
					if len(errs) == 0 {
						out.Success("%s: valid", r.Name)
					} else {
						invalid++
						out.Error("%s: invalid", r.Name)
					}
					for _, e := range errs {
						out.Detail("%s: %s", e.Field, e.Message)
					}
					for _, w := range warnings {
						out.Warning("%s", w)
					}
				}
				if invalid > 0 {
					return fmt.Errorf("%d invalid rule(s)", invalid)
				}
				return nil
			},
		},
	)

	return cmd
}

func newRuleToggleCommand(repoDir *string, verb string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   verb + " <id>",
		Short: strings.ToUpper(verb[:1]) + verb[1:] + " a rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRules(cmd, *repoDir, func(p *project, repo *rules.Repository) error {
				r, err := repo.Get(p.ctx, args[0])
				if err != nil {
					return err
				}
				r.Enabled = enabled
				if _, err := repo.Update(p.ctx, r); err != nil {
					return err
				}
				p.out.Success("%s: %sd", r.Name, verb)
				return nil
			})
		},
	}
}

func withRules(cmd *cobra.Command, repoDir string, fn func(*project, *rules.Repository) error) error {
	p, err := openProject(cmd, repoDir)
	if err != nil {
		return err
	}
	repo, closeStore, err := p.ruleRepository()
	defer func() { _ = closeStore() }()
	if err != nil {
		return err
	}
	return fn(p, repo)
}

// readRuleFile decodes a single rule object or an array of rules.
func readRuleFile(path string) ([]model.CustomRule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule file: %w", err)
	}
	data = bytes.TrimSpace(data)
	if bytes.HasPrefix(data, []byte("[")) {
		var rs []model.CustomRule
		if err := json.Unmarshal(data, &rs); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
		return rs, nil
	}
	var r model.CustomRule
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return []model.CustomRule{r}, nil
}

func printRule(out *ui.Printer, r model.CustomRule) {
	state := "on"
	if !r.Enabled {
		state = "off"
	}
	out.Info("[%s] %d %s (%s)", state, r.Priority, r.Name, r.ID)
	out.Detail("%s of %d condition(s) -> %s", r.ConditionLogic, len(r.Conditions), describeAction(r.Action))
}

func describeAction(a model.Action) string {
	switch a := a.(type) {
	case model.CategorizeAction:
		return "categorize as " + a.Category
	case model.RenameAction:
		return "rename to " + a.NewName
	case model.SplitAction:
		parts := make([]string, 0, len(a.Splits))
		for _, s := range a.Splits {
			switch {
			case s.Percentage != nil:
				parts = append(parts, fmt.Sprintf("%s %s%%", s.Category, s.Percentage.String()))
			case s.FixedAmount != nil:
				parts = append(parts, fmt.Sprintf("%s %s", s.Category, s.FixedAmount.StringFixed(2)))
			default:
				parts = append(parts, s.Category+" rest")
			}
		}
		return "split " + strings.Join(parts, ", ")
	}
	return "none"
}
