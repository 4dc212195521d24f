package model

// AccountType classifies accounts an export can post to.
type AccountType string

const (
	AccountTypeBank    AccountType = "bank"
	AccountTypeIncome  AccountType = "income"
	AccountTypeExpense AccountType = "expense"
)

// Account maps a transaction category to an accounting account.
// It is one row of category-accounts.csv.
type Account struct {
	Category    string
	Name        string
	Type        AccountType
	Description string
}
