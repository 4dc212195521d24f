package accounts

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/cleared-dev/bankflow/internal/model"
)

const (
	numFields = 4
	colCat    = 0
	colName   = 1
	colType   = 2
	colDesc   = 3
)

// Header is the first row of category-accounts.csv.
var Header = []string{"category", "account_name", "account_type", "description"}

// ReadAccounts reads category-accounts.csv.
func ReadAccounts(r io.Reader) ([]model.Account, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading accounts CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	var accounts []model.Account
	for i, rec := range records[1:] {
		acct, err := UnmarshalAccount(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		accounts = append(accounts, acct)
	}
	return accounts, nil
}

// WriteAccounts writes category-accounts.csv.
func WriteAccounts(w io.Writer, accounts []model.Account) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, acct := range accounts {
		if err := cw.Write(MarshalAccount(acct)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalAccount converts an Account to a CSV row.
func MarshalAccount(acct model.Account) []string {
	row := make([]string, numFields)
	row[colCat] = acct.Category
	row[colName] = acct.Name
	row[colType] = string(acct.Type)
	row[colDesc] = acct.Description
	return row
}

// UnmarshalAccount converts a CSV row to an Account.
func UnmarshalAccount(record []string) (model.Account, error) {
	if len(record) != numFields {
		return model.Account{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	cat := strings.TrimSpace(record[colCat])
	if cat == "" {
		return model.Account{}, fmt.Errorf("empty category")
	}
	name := strings.TrimSpace(record[colName])
	if name == "" {
		return model.Account{}, fmt.Errorf("category %q: empty account_name", cat)
	}

	typ := model.AccountType(strings.ToLower(strings.TrimSpace(record[colType])))
	switch typ {
	case model.AccountTypeBank, model.AccountTypeIncome, model.AccountTypeExpense:
	default:
		return model.Account{}, fmt.Errorf("category %q: unknown account_type %q", cat, record[colType])
	}

	return model.Account{
		Category:    cat,
		Name:        name,
		Type:        typ,
		Description: record[colDesc],
	}, nil
}
