package accounts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bankflow/internal/model"
)

func TestDefaultChart(t *testing.T) {
	chart := DefaultChart()
	require.NotEmpty(t, chart)

	seen := make(map[string]bool)
	for _, acct := range chart {
		assert.NotEmpty(t, acct.Name, "category %q missing account name", acct.Category)
		assert.NotEmpty(t, acct.Type, "category %q missing type", acct.Category)
		assert.False(t, seen[acct.Category], "duplicate category %q", acct.Category)
		seen[acct.Category] = true
	}
	assert.True(t, seen["Dining"])
	assert.True(t, seen["Subscriptions"])
	assert.True(t, seen["Other"])
	assert.True(t, seen["Other Income"])
}

func TestLookup(t *testing.T) {
	svc := Default()

	acct, ok := svc.Lookup("dining")
	require.True(t, ok)
	assert.Equal(t, "Meals and Entertainment", acct.Name)

	_, ok = svc.Lookup(" SUBSCRIPTIONS ")
	assert.True(t, ok)

	_, ok = svc.Lookup("Yachts")
	assert.False(t, ok)
}

func TestLookup_LaterRowWins(t *testing.T) {
	svc := NewService([]model.Account{
		{Category: "Dining", Name: "First", Type: model.AccountTypeExpense},
		{Category: "dining", Name: "Second", Type: model.AccountTypeExpense},
	})
	acct, ok := svc.Lookup("Dining")
	require.True(t, ok)
	assert.Equal(t, "Second", acct.Name)
}

func TestByType(t *testing.T) {
	svc := Default()

	for _, a := range svc.ByType(model.AccountTypeIncome) {
		assert.Equal(t, model.AccountTypeIncome, a.Type)
	}
	bank := svc.ByType(model.AccountTypeBank)
	require.Len(t, bank, 1)
	assert.Equal(t, "Transfers", bank[0].Category)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	svc := Default()
	dir := t.TempDir()
	require.NoError(t, svc.Save(dir))

	_, err := os.Stat(filepath.Join(dir, "accounts", "category-accounts.csv"))
	require.NoError(t, err)

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, svc.All(), loaded.All())
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening category accounts")
}

func TestLoadOrDefault(t *testing.T) {
	svc, err := LoadOrDefault(t.TempDir())
	require.NoError(t, err)
	assert.Len(t, svc.All(), len(DefaultChart()))

	dir := t.TempDir()
	custom := NewService([]model.Account{{Category: "Pets", Name: "Pet Care", Type: model.AccountTypeExpense}})
	require.NoError(t, custom.Save(dir))

	svc, err = LoadOrDefault(dir)
	require.NoError(t, err)
	require.Len(t, svc.All(), 1)
	acct, ok := svc.Lookup("pets")
	require.True(t, ok)
	assert.Equal(t, "Pet Care", acct.Name)
}
