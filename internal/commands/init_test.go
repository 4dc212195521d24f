package commands_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bankflow/internal/accounts"
	"github.com/cleared-dev/bankflow/internal/config"
)

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, err := runBankflow(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)
	assert.Contains(t, out, "Initialized bankflow project")

	expectedDirs := []string{
		"accounts",
		"rules",
		"exports",
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range expectedDirs {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runBankflow(t, "init", dir, "--name", "My Company")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, config.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "name: My Company")

	cfg, err := config.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "Checking", cfg.Export.BankAccount)
	assert.Equal(t, config.DefaultRuleStore, cfg.Rules.Store)
}

func TestInit_Accounts(t *testing.T) {
	dir := t.TempDir()
	_, err := runBankflow(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	svc, err := accounts.LoadOrDefault(dir)
	require.NoError(t, err)
	acct, ok := svc.Lookup("groceries")
	require.True(t, ok)
	assert.Equal(t, "Groceries", acct.Name)
}

func TestInit_Gitignore(t *testing.T) {
	dir := t.TempDir()
	_, err := runBankflow(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "exports/")
}

func TestInit_RefusesExistingProject(t *testing.T) {
	dir := t.TempDir()
	_, err := runBankflow(t, "init", dir, "--name", "Test Biz")
	require.NoError(t, err)

	_, err = runBankflow(t, "init", dir, "--name", "Again")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_RequiresName(t *testing.T) {
	_, err := runBankflow(t, "init", t.TempDir())
	require.Error(t, err)
}
