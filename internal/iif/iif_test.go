package iif

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/bankflow/internal/accounts"
	"github.com/cleared-dev/bankflow/internal/model"
)

var march15 = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func txn(desc, amount string, typ model.TxnType, category string) model.Transaction {
	return model.Transaction{
		Date:        march15,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Type:        typ,
		Category:    category,
	}
}

func fragment(parent string, index int, amount, category string, original string) model.Transaction {
	t := txn("frag", amount, model.TxnExpense, category)
	t.Split = &model.SplitInfo{
		ParentID:            parent,
		Index:               index,
		OriginalAmount:      decimal.RequireFromString(original),
		OriginalDescription: "COSTCO WHSE",
	}
	return t
}

func lines(text string) []string {
	return strings.Split(strings.TrimSuffix(text, "\r\n"), "\r\n")
}

func TestGenerate_Header(t *testing.T) {
	out := Generate(nil, Options{})
	assert.Equal(t, HeaderTrns+"\r\n"+HeaderSpl+"\r\n"+HeaderEndTrns+"\r\n", out)
}

func TestGenerate_SingleExpense(t *testing.T) {
	out := Generate([]model.Transaction{txn("STARBUCKS", "42.50", model.TxnExpense, "Dining")}, Options{})
	got := lines(out)
	require.Len(t, got, 6)

	assert.Equal(t, "TRNS\t1\tCHECK\t03/15/2024\tChecking\tSTARBUCKS\t-42.50\t\t\tN\tN", got[3])
	assert.Equal(t, "SPL\t1a\tCHECK\t03/15/2024\tMeals and Entertainment\tSTARBUCKS\t42.50\t\t\tN\t\t", got[4])
	assert.Equal(t, "ENDTRNS", got[5])

	res := Validate(out, "out.iif")
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 1, res.Stats.TransactionCount)
	assert.Equal(t, 1, res.Stats.SplitCount)
}

func TestGenerate_IncomeIsDeposit(t *testing.T) {
	out := Generate([]model.Transaction{txn("ACME PAYROLL", "2000", model.TxnIncome, "Salary")}, Options{BankAccount: "Business Checking"})
	got := lines(out)
	assert.Equal(t, "TRNS\t1\tDEPOSIT\t03/15/2024\tBusiness Checking\tACME PAYROLL\t2000.00\t\t\tN\tN", got[3])
	assert.Equal(t, "SPL\t1a\tDEPOSIT\t03/15/2024\tSalary Income\tACME PAYROLL\t-2000.00\t\t\tN\t\t", got[4])
}

func TestGenerate_SplitGroupHasOnePrimary(t *testing.T) {
	txns := []model.Transaction{
		txn("coffee", "3.00", model.TxnExpense, "Dining"),
		fragment("g1", 1, "40.00", "Shopping", "100.00"),
		fragment("g1", 0, "60.00", "Groceries", "100.00"),
	}
	out := Generate(txns, Options{})
	got := lines(out)
	require.Len(t, got, 3+3+4)

	assert.True(t, strings.HasPrefix(got[6], "TRNS\t2\tCHECK\t03/15/2024\tChecking\tCOSTCO WHSE\t-100.00"))
	assert.True(t, strings.HasPrefix(got[7], "SPL\t2a\tCHECK\t03/15/2024\tGroceries\tCOSTCO WHSE\t60.00"), got[7])
	assert.True(t, strings.HasPrefix(got[8], "SPL\t2b\tCHECK\t03/15/2024\tSupplies\tCOSTCO WHSE\t40.00"), got[8])
	assert.Equal(t, "ENDTRNS", got[9])

	res := Validate(out, "out.iif")
	assert.True(t, res.Valid, "%v", res.Errors)
	assert.Equal(t, 2, res.Stats.TransactionCount)
	assert.Equal(t, 3, res.Stats.SplitCount)
	assert.Equal(t, "103.00", res.Stats.TotalDebit.StringFixed(2))
	assert.Equal(t, "103.00", res.Stats.TotalCredit.StringFixed(2))
}

func TestGenerate_SplitMemo(t *testing.T) {
	f := fragment("g", 0, "10.00", "Groceries", "10.00")
	f.Split.Memo = "milk\tand eggs"
	got := lines(Generate([]model.Transaction{f}, Options{}))
	assert.Contains(t, got[4], "\tmilk and eggs\tN")
}

func TestGenerate_IncludeMemo(t *testing.T) {
	got := lines(Generate([]model.Transaction{txn("Rent", "900", model.TxnExpense, "Housing")}, Options{IncludeMemo: true}))
	assert.True(t, strings.HasSuffix(got[3], "\t-900.00\t\tRent\tN\tN"), got[3])
	assert.True(t, strings.HasSuffix(got[4], "\t900.00\t\tRent\tN\t\t"), got[4])
}

func TestOptions_AccountFor(t *testing.T) {
	opts := Options{
		AccountMap:            map[string]string{"dining": "Client Meals"},
		DefaultExpenseAccount: "Ask My Accountant",
	}
	assert.Equal(t, "Client Meals", opts.AccountFor("Dining", model.TxnExpense), "override wins, any case")
	assert.Equal(t, "Groceries", opts.AccountFor("groceries", model.TxnExpense))
	assert.Equal(t, "Ask My Accountant", opts.AccountFor("Pets", model.TxnExpense))
	assert.Equal(t, accounts.DefaultIncomeAccount, opts.AccountFor("Gifts", model.TxnIncome))

	custom := Options{Accounts: accounts.NewService([]model.Account{{Category: "Pets", Name: "Pet Supplies", Type: model.AccountTypeExpense}})}
	assert.Equal(t, "Pet Supplies", custom.AccountFor("Pets", model.TxnExpense))
	assert.Equal(t, accounts.DefaultExpenseAccount, custom.AccountFor("Dining", model.TxnExpense))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "Cafe Munchen", Sanitize("Café München", 0))
	assert.Equal(t, "a b c", Sanitize("a\tb\nc", 0))
	assert.Equal(t, "say 'hi'", Sanitize(`say "hi"`, 0))
	assert.Equal(t, "trimmed", Sanitize("  trimmed \r\n", 0))
	assert.Equal(t, "abcde", Sanitize("abcdefgh", 5))
	assert.Equal(t, "ab", Sanitize("ab  cdef", 4), "trailing space after the cut is trimmed")
	assert.Len(t, []rune(Sanitize(strings.Repeat("é", 60), MaxNameLen)), MaxNameLen)
}

func TestGenerate_FieldsNeverBreakColumns(t *testing.T) {
	long := strings.Repeat("x", 80) + "\tEVIL\r\nROW"
	out := Generate([]model.Transaction{txn(long, "1.00", model.TxnExpense, "Other")}, Options{IncludeMemo: true})
	got := lines(out)
	assert.Len(t, strings.Split(got[3], "\t"), 11)
	assert.Len(t, strings.Split(got[4], "\t"), 12)
	assert.True(t, Validate(out, "x.iif").Valid)
}

func TestGenerate_RowsMatchHeaderColumns(t *testing.T) {
	out := Generate([]model.Transaction{txn("STARBUCKS", "42.50", model.TxnExpense, "Dining")}, Options{IncludeMemo: true})
	got := lines(out)

	trnsCols := strings.Split(got[0], "\t")
	splCols := strings.Split(got[1], "\t")
	assert.Equal(t, []string{"!TRNS", "TRNSID", "TRNSTYPE", "DATE", "ACCNT", "NAME", "AMOUNT", "DOCNUM", "MEMO", "CLEAR", "TOPRINT"}, trnsCols)
	assert.Equal(t, []string{"!SPL", "SPLID", "TRNSTYPE", "DATE", "ACCNT", "NAME", "AMOUNT", "DOCNUM", "MEMO", "CLEAR", "QNTY", "REIMBEXP"}, splCols)

	trns := strings.Split(got[3], "\t")
	require.Len(t, trns, len(trnsCols))
	assert.Equal(t, "-42.50", trns[6])
	assert.Equal(t, "", trns[7], "DOCNUM")
	assert.Equal(t, "STARBUCKS", trns[8], "MEMO")
	assert.Equal(t, "N", trns[9], "CLEAR")
	assert.Equal(t, "N", trns[10], "TOPRINT")

	spl := strings.Split(got[4], "\t")
	require.Len(t, spl, len(splCols))
	assert.Equal(t, "42.50", spl[6])
	assert.Equal(t, "STARBUCKS", spl[8], "MEMO")
	assert.Equal(t, "N", spl[9], "CLEAR")
	assert.Equal(t, []string{"", ""}, spl[10:], "QNTY and REIMBEXP")

	res := Validate(out, "out.iif")
	assert.True(t, res.Valid, "%v", res.Errors)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, "42.50", res.Stats.TotalDebit.StringFixed(2))
}
