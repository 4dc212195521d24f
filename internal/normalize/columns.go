package normalize

import "strings"

// Column is a canonical field name.
type Column string

const (
	ColDate        Column = "date"
	ColDescription Column = "description"
	ColDeposit     Column = "deposit"
	ColWithdrawal  Column = "withdrawal"
	ColBalance     Column = "balance"
	ColCategory    Column = "category"
	ColAmount      Column = "amount"
)

// AllColumns lists the canonical columns in resolution order.
var AllColumns = []Column{ColDate, ColDescription, ColDeposit, ColWithdrawal, ColBalance, ColCategory, ColAmount}

// DefaultRequired is the column set a statement must carry unless configured otherwise.
var DefaultRequired = []Column{ColDate, ColDescription, ColDeposit, ColWithdrawal, ColBalance}

var synonyms = map[Column][]string{
	ColDate:        {"date", "transaction date", "posting date", "posted date", "trans date", "value date"},
	ColDescription: {"description", "transaction description", "payee", "name", "memo", "narrative", "merchant"},
	ColDeposit:     {"deposit", "deposits", "credit", "credits", "deposit amount", "credit amount", "money in"},
	ColWithdrawal:  {"withdrawal", "withdrawals", "debit", "debits", "withdrawal amount", "debit amount", "money out"},
	ColBalance:     {"balance", "running balance", "account balance", "available balance"},
	ColCategory:    {"category", "transaction category"},
	ColAmount:      {"amount", "transaction amount", "value"},
}

// Synonyms returns the header spellings recognised for col.
func Synonyms(col Column) []string {
	return append([]string(nil), synonyms[col]...)
}

// ResolveColumn returns the index of the first header that spells col, or -1.
// Matching is case-insensitive and exact after trimming.
func ResolveColumn(header []string, col Column) int {
	names := synonyms[col]
	for i, h := range header {
		key := cleanHeader(h)
		for _, n := range names {
			if key == n {
				return i
			}
		}
	}
	return -1
}

// ColumnMap holds resolved column indexes. Missing columns are absent.
type ColumnMap map[Column]int

// ResolveColumns resolves every canonical column against header.
func ResolveColumns(header []string) ColumnMap {
	m := make(ColumnMap, len(AllColumns))
	for _, c := range AllColumns {
		if i := ResolveColumn(header, c); i >= 0 {
			m[c] = i
		}
	}
	return m
}

// Has reports whether col was resolved.
func (m ColumnMap) Has(col Column) bool {
	_, ok := m[col]
	return ok
}

// Get returns the trimmed value of col in record, or "" when the column is
// missing or the record is short.
func (m ColumnMap) Get(record []string, col Column) string {
	i, ok := m[col]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func cleanHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.Trim(strings.TrimSpace(h), `"'`)
	return strings.ToLower(strings.TrimSpace(h))
}
