package iif

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bankflow/internal/model"
)

func TestService_ExportWritesValidatedFile(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, Options{})
	svc.now = func() time.Time { return time.Date(2024, 3, 15, 10, 30, 5, 0, time.UTC) }

	out, err := svc.Export([]model.Transaction{txn("STARBUCKS", "42.50", model.TxnExpense, "Dining")}, "", false)
	require.NoError(t, err)
	assert.True(t, out.Written)
	assert.Equal(t, filepath.Join(dir, "exports", "20240315-103005.iif"), out.Path)
	assert.True(t, out.Result.Valid)

	data, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	assert.Equal(t, out.Text, string(data))

	res, err := ValidateFile(out.Path)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.TransactionCount)

	paths, err := List(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{out.Path}, paths)
}

func TestService_ExportRefusesInvalidUnlessForced(t *testing.T) {
	dir := t.TempDir()
	svc := NewService(dir, Options{})
	path := filepath.Join(dir, "out.iif")

	// A fragment whose group claims more than its legs add up to.
	bad := txn("x", "10.00", model.TxnExpense, "Other")
	bad.Split = &model.SplitInfo{ParentID: "g", OriginalAmount: decimal.RequireFromString("50.00"), OriginalDescription: "x"}

	out, err := svc.Export([]model.Transaction{bad}, path, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidExport))
	assert.False(t, out.Written)
	assert.False(t, out.Result.Valid)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))

	out, err = svc.Export([]model.Transaction{bad}, path, true)
	require.NoError(t, err)
	assert.True(t, out.Written)
	assert.False(t, out.Result.Valid)
}

func TestValidateFile_Missing(t *testing.T) {
	_, err := ValidateFile(filepath.Join(t.TempDir(), "nope.iif"))
	require.Error(t, err)
}

func TestList_NoExportDir(t *testing.T) {
	paths, err := List(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, paths)
}
