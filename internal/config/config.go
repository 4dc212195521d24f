// Package config reads and writes the bankflow.yaml project file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file at the root of a project.
const FileName = "bankflow.yaml"

// Defaults for settings a config file may leave out.
const (
	DefaultMaxRows   = 100000
	DefaultWorkers   = 4
	DefaultRuleStore = "file"
	DefaultRulePath  = "rules"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"
)

// Config represents the top-level bankflow.yaml configuration.
type Config struct {
	Project ProjectConfig `yaml:"project"`
	Import  ImportConfig  `yaml:"import"`
	Export  ExportConfig  `yaml:"export"`
	Rules   RulesConfig   `yaml:"rules"`
	Log     LogConfig     `yaml:"log"`
}

// ProjectConfig identifies the project.
type ProjectConfig struct {
	Name string `yaml:"name"`
}

// ImportConfig controls statement parsing and raw-row validation.
type ImportConfig struct {
	RequiredColumns []string `yaml:"required_columns,omitempty"`
	MaxRows         int      `yaml:"max_rows"`
	Workers         int      `yaml:"workers"`
}

// ExportConfig controls IIF account mapping.
type ExportConfig struct {
	BankAccount           string            `yaml:"bank_account"`
	DefaultExpenseAccount string            `yaml:"default_expense_account"`
	DefaultIncomeAccount  string            `yaml:"default_income_account"`
	IncludeMemo           bool              `yaml:"include_memo"`
	CategoryAccounts      map[string]string `yaml:"category_accounts,omitempty"`
}

// RulesConfig selects where custom rules are persisted.
type RulesConfig struct {
	Store string `yaml:"store"` // file, sqlite or memory
	Path  string `yaml:"path"`  // relative to the project root
}

// LogConfig controls diagnostic logging.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // console or json
}

// Load reads a bankflow.yaml file from disk. Settings the file omits take
// their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// LoadDir reads bankflow.yaml from a project root.
func LoadDir(repoRoot string) (*Config, error) {
	return Load(filepath.Join(repoRoot, FileName))
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(projectName string) *Config {
	cfg := &Config{
		Project: ProjectConfig{Name: projectName},
		Import: ImportConfig{
			RequiredColumns: []string{"date", "description", "deposit", "withdrawal", "balance"},
		},
		Export: ExportConfig{
			BankAccount:           "Checking",
			DefaultExpenseAccount: "Uncategorized Expense",
			DefaultIncomeAccount:  "Uncategorized Income",
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Import.MaxRows <= 0 {
		c.Import.MaxRows = DefaultMaxRows
	}
	if c.Import.Workers <= 0 {
		c.Import.Workers = DefaultWorkers
	}
	if c.Rules.Store == "" {
		c.Rules.Store = DefaultRuleStore
	}
	if c.Rules.Path == "" {
		c.Rules.Path = DefaultRulePath
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// RulePath resolves the rule store location against a project root.
func (c *Config) RulePath(repoRoot string) string {
	if filepath.IsAbs(c.Rules.Path) {
		return c.Rules.Path
	}
	return filepath.Join(repoRoot, c.Rules.Path)
}
