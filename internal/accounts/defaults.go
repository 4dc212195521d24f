package accounts

import "github.com/cleared-dev/bankflow/internal/model"

// Fallback account names used when a category has no mapping.
const (
	DefaultBankAccount    = "Checking"
	DefaultExpenseAccount = "Uncategorized Expense"
	DefaultIncomeAccount  = "Uncategorized Income"
)

// DefaultChart returns the built-in category to account table.
func DefaultChart() []model.Account {
	return []model.Account{
		{Category: "Salary", Name: "Salary Income", Type: model.AccountTypeIncome, Description: "Payroll and direct deposits"},
		{Category: "Freelance", Name: "Consulting Income", Type: model.AccountTypeIncome, Description: "Invoices and contract work"},
		{Category: "Interest", Name: "Interest Income", Type: model.AccountTypeIncome},
		{Category: "Refunds", Name: "Refunds and Returns", Type: model.AccountTypeIncome},
		{Category: "Deposits", Name: "Other Income", Type: model.AccountTypeIncome, Description: "Cash and check deposits"},
		{Category: "Other Income", Name: "Other Income", Type: model.AccountTypeIncome},
		{Category: "Dining", Name: "Meals and Entertainment", Type: model.AccountTypeExpense},
		{Category: "Groceries", Name: "Groceries", Type: model.AccountTypeExpense},
		{Category: "Subscriptions", Name: "Dues and Subscriptions", Type: model.AccountTypeExpense},
		{Category: "Transportation", Name: "Automobile Expense", Type: model.AccountTypeExpense, Description: "Fuel, rideshare, parking"},
		{Category: "Shopping", Name: "Supplies", Type: model.AccountTypeExpense},
		{Category: "Utilities", Name: "Utilities", Type: model.AccountTypeExpense},
		{Category: "Housing", Name: "Rent Expense", Type: model.AccountTypeExpense, Description: "Rent and mortgage"},
		{Category: "Healthcare", Name: "Medical Expense", Type: model.AccountTypeExpense},
		{Category: "Insurance", Name: "Insurance Expense", Type: model.AccountTypeExpense},
		{Category: "Entertainment", Name: "Entertainment", Type: model.AccountTypeExpense},
		{Category: "Travel", Name: "Travel Expense", Type: model.AccountTypeExpense},
		{Category: "Fees", Name: "Bank Service Charges", Type: model.AccountTypeExpense},
		{Category: "Transfers", Name: "Transfers", Type: model.AccountTypeBank, Description: "Moves between own accounts"},
		{Category: "Other", Name: "Miscellaneous Expense", Type: model.AccountTypeExpense},
	}
}
