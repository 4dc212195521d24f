package accounts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/cleared-dev/bankflow/internal/model"
)

// FileName is the category table path relative to a project root.
const FileName = "accounts/category-accounts.csv"

// Service provides in-memory lookup over the category to account table.
type Service struct {
	accounts   []model.Account
	byCategory map[string]model.Account
}

// NewService creates a Service from a slice of accounts. Later rows win on
// duplicate categories.
func NewService(accounts []model.Account) *Service {
	byCategory := make(map[string]model.Account, len(accounts))
	for _, a := range accounts {
		byCategory[strings.ToLower(a.Category)] = a
	}
	return &Service{accounts: accounts, byCategory: byCategory}
}

// Default returns a Service over DefaultChart.
func Default() *Service {
	return NewService(DefaultChart())
}

// Load reads accounts/category-accounts.csv from a project root.
func Load(repoRoot string) (*Service, error) {
	path := filepath.Join(repoRoot, FileName)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening category accounts: %w", err)
	}
	defer f.Close()

	accts, err := ReadAccounts(f)
	if err != nil {
		return nil, fmt.Errorf("reading category accounts: %w", err)
	}
	return NewService(accts), nil
}

// LoadOrDefault is Load, falling back to the built-in table when the file
// does not exist.
func LoadOrDefault(repoRoot string) (*Service, error) {
	svc, err := Load(repoRoot)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return svc, err
}

// All returns all accounts.
func (s *Service) All() []model.Account {
	return s.accounts
}

// Lookup returns the account for a category, case-insensitively.
func (s *Service) Lookup(category string) (model.Account, bool) {
	a, ok := s.byCategory[strings.ToLower(strings.TrimSpace(category))]
	return a, ok
}

// ByType returns all accounts of the given type.
func (s *Service) ByType(accountType model.AccountType) []model.Account {
	var result []model.Account
	for _, a := range s.accounts {
		if a.Type == accountType {
			result = append(result, a)
		}
	}
	return result
}

// Save writes the table to accounts/category-accounts.csv.
func (s *Service) Save(repoRoot string) error {
	path := filepath.Join(repoRoot, FileName)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating accounts dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating category accounts file: %w", err)
	}
	defer f.Close()

	if err := WriteAccounts(f, s.accounts); err != nil {
		return fmt.Errorf("writing category accounts: %w", err)
	}
	return nil
}
