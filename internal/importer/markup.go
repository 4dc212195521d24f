package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"

	"github.com/cleared-dev/bankflow/internal/model"
	"github.com/cleared-dev/bankflow/internal/normalize"
)

// MarkupParser parses OFX, QFX and QBO statements in either SGML (no
// closing tags) or XML form.
type MarkupParser struct {
	// MaxRows bounds the number of transaction blocks; DefaultMaxRows when <= 0.
	MaxRows int
}

// Format returns the parser name.
func (p *MarkupParser) Format() string { return FormatMarkup }

// Parse reads an OFX statement. Per-transaction balances are reconstructed
// backwards from the ledger balance, which is taken to be the balance after
// the newest transaction.
func (p *MarkupParser) Parse(r io.Reader, name string) (*model.ParsedStatement, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading markup: %w", err)
	}
	content := string(data)

	blocks := normalize.Blocks(content, "STMTTRN")
	limit := p.MaxRows
	if limit <= 0 {
		limit = DefaultMaxRows
	}
	if len(blocks) > limit {
		return nil, fmt.Errorf("%w: %d transactions, limit %d", ErrTooManyRows, len(blocks), limit)
	}

	meta := parseMeta(content)
	stmt := &model.ParsedStatement{
		Source:  name,
		Format:  FormatMarkup,
		Account: markupAccountLabel(meta, name),
		Meta:    meta,
	}

	for _, b := range blocks {
		txn, ok := parseStmtTrn(b)
		if !ok {
			continue
		}
		txn.Account = stmt.Account
		stmt.Transactions = append(stmt.Transactions, txn)
	}
	sortNewestFirst(stmt.Transactions)

	running := meta.LedgerBalance
	for i := range stmt.Transactions {
		stmt.Transactions[i].Balance = running
		running = running.Sub(stmt.Transactions[i].Signed())
	}
	stmt.EndBalance = meta.LedgerBalance
	stmt.StartBalance = running

	if len(stmt.Transactions) > 0 && !meta.LedgerAsOf.IsZero() {
		newest := stmt.Transactions[0].Date
		if meta.LedgerAsOf.Before(newest) {
			stmt.Warnings = append(stmt.Warnings, fmt.Sprintf(
				"ledger balance dated %s predates newest transaction %s; reconstructed balances may be wrong",
				meta.LedgerAsOf.Format("2006-01-02"), newest.Format("2006-01-02")))
		}
	}
	return stmt, nil
}

func parseMeta(content string) *model.StatementMeta {
	meta := &model.StatementMeta{
		BankID:      normalize.Tag(content, "BANKID"),
		AccountID:   normalize.Tag(content, "ACCTID"),
		AccountType: normalizeAcctType(normalize.Tag(content, "ACCTTYPE")),
	}
	if meta.AccountType == "" && strings.Contains(strings.ToUpper(content), "<CREDITCARDMSGSRSV1>") {
		meta.AccountType = "CREDITCARD"
	}

	if ledger := normalize.Block(content, "LEDGERBAL"); ledger != "" {
		meta.LedgerBalance = normalize.ParseNumeric(normalize.Tag(ledger, "BALAMT"))
		meta.LedgerAsOf, _ = ParseMarkupDate(normalize.Tag(ledger, "DTASOF"))
	}

	scope := normalize.Block(content, "BANKTRANLIST")
	if scope == "" {
		scope = content
	}
	meta.StartDate, _ = ParseMarkupDate(normalize.Tag(scope, "DTSTART"))
	meta.EndDate, _ = ParseMarkupDate(normalize.Tag(scope, "DTEND"))
	return meta
}

func parseStmtTrn(block string) (model.Transaction, bool) {
	date, ok := ParseMarkupDate(normalize.Tag(block, "DTPOSTED"))
	if !ok {
		return model.Transaction{}, false
	}
	amount := normalize.ParseNumeric(normalize.Tag(block, "TRNAMT"))
	if amount.IsZero() {
		return model.Transaction{}, false
	}

	typ := model.TxnExpense
	if amount.IsPositive() {
		typ = model.TxnIncome
	}

	return model.Transaction{
		Date:        date,
		Description: composeDescription(block),
		Amount:      amount.Abs(),
		Type:        typ,
		Category:    model.CategoryUncategorized,
		Reference:   normalize.Tag(block, "FITID"),
	}, true
}

// composeDescription builds "name - memo", "name #check" or the bare name.
// An empty name falls back to the memo, then the transaction type.
func composeDescription(block string) string {
	name := normalize.Tag(block, "NAME")
	memo := normalize.Tag(block, "MEMO")
	check := normalize.Tag(block, "CHECKNUM")

	if name == "" {
		if memo != "" {
			return memo
		}
		if t := normalizeTrnType(normalize.Tag(block, "TRNTYPE")); t != "" {
			return t
		}
		return "Unknown"
	}

	switch {
	case memo != "":
		return name + " - " + memo
	case check != "":
		return name + " #" + check
	default:
		return name
	}
}

// ParseMarkupDate reads the leading YYYYMMDD of an OFX datetime such as
// "20240315120000[-5:EST]", discarding time and zone.
func ParseMarkupDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if i := strings.IndexByte(raw, '['); i >= 0 {
		raw = raw[:i]
	}
	if len(raw) < 8 {
		return time.Time{}, false
	}
	t, err := time.Parse("20060102", raw[:8])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func normalizeTrnType(raw string) string {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	if t, err := ofxgo.NewTrnType(raw); err == nil {
		return t.String()
	}
	return raw
}

func normalizeAcctType(raw string) string {
	raw = strings.ToUpper(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	if t, err := ofxgo.NewAcctType(raw); err == nil {
		return t.String()
	}
	return raw
}

// markupAccountLabel renders "Checking ****1234" when an account id is
// known, otherwise the file-name label.
func markupAccountLabel(meta *model.StatementMeta, name string) string {
	id := strings.TrimSpace(meta.AccountID)
	if id == "" {
		return labelFromFileName(name)
	}
	last4 := id
	if len(last4) > 4 {
		last4 = last4[len(last4)-4:]
	}
	kind, ok := acctTypeLabels[meta.AccountType]
	if !ok {
		kind = "Account"
	}
	return kind + " ****" + last4
}

var acctTypeLabels = map[string]string{
	"CHECKING":   "Checking",
	"SAVINGS":    "Savings",
	"MONEYMRKT":  "Money Market",
	"CREDITLINE": "Credit Line",
	"CD":         "CD",
	"CREDITCARD": "Credit Card",
}
