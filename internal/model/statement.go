package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ParsedStatement is the output of parsing one uploaded file.
type ParsedStatement struct {
	Source       string // file name the statement was parsed from
	Format       string
	Transactions []Transaction
	Account      string
	StartBalance decimal.Decimal
	EndBalance   decimal.Decimal

	// Meta is only populated by the markup parser.
	Meta *StatementMeta

	// Warnings are non-fatal observations made while parsing.
	Warnings []string
}

// StatementMeta holds the account metadata carried by OFX/QBO files.
type StatementMeta struct {
	BankID        string
	AccountID     string
	AccountType   string
	LedgerBalance decimal.Decimal
	LedgerAsOf    time.Time
	StartDate     time.Time
	EndDate       time.Time
}
