package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/bankflow/internal/model"
	"github.com/cleared-dev/bankflow/internal/normalize"
)

// DelimitedParser parses bank exports with a header row: CSV, or text
// separated by semicolons, tabs or pipes.
type DelimitedParser struct {
	// MaxRows bounds data rows read; DefaultMaxRows when <= 0.
	MaxRows int
}

var candidateDelimiters = []rune{',', ';', '\t', '|'}

// Format returns the parser name.
func (p *DelimitedParser) Format() string { return FormatDelimited }

// Parse reads a delimited statement and returns its transactions newest first.
func (p *DelimitedParser) Parse(r io.Reader, name string) (*model.ParsedStatement, error) {
	records, err := p.Records(r)
	if err != nil {
		return nil, err
	}
	return p.ParseRecords(records, name), nil
}

// Records reads every row of a delimited file, header included. The
// delimiter is sniffed from the header line.
func (p *DelimitedParser) Records(r io.Reader) ([][]string, error) {
	br := bufio.NewReader(r)
	first, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cr := csv.NewReader(br)
	cr.Comma = sniffDelimiter(first)
	cr.LazyQuotes = true
	// Leading-space trimming would swallow empty tab-separated fields.
	cr.TrimLeadingSpace = cr.Comma != '\t'
	cr.FieldsPerRecord = -1

	limit := p.maxRows()
	var records [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading delimited text: %w", err)
		}
		if len(records) > limit {
			return nil, fmt.Errorf("%w: more than %d rows", ErrTooManyRows, limit)
		}
		records = append(records, rec)
	}
	return records, nil
}

// ParseRecords converts rows (header first) into a statement. Rows with no
// parseable date or a zero amount are dropped.
func (p *DelimitedParser) ParseRecords(records [][]string, name string) *model.ParsedStatement {
	stmt := &model.ParsedStatement{
		Source:  name,
		Format:  FormatDelimited,
		Account: labelFromFileName(name),
	}
	if len(records) == 0 {
		return stmt
	}

	cols := normalize.ResolveColumns(records[0])
	for _, rec := range records[1:] {
		txn, ok := parseDelimitedRow(cols, rec)
		if !ok {
			continue
		}
		txn.Account = stmt.Account
		stmt.Transactions = append(stmt.Transactions, txn)
	}

	sortNewestFirst(stmt.Transactions)
	if n := len(stmt.Transactions); n > 0 {
		stmt.EndBalance = stmt.Transactions[0].Balance
		stmt.StartBalance = stmt.Transactions[n-1].Balance
	}
	return stmt
}

func parseDelimitedRow(cols normalize.ColumnMap, rec []string) (model.Transaction, bool) {
	date, ok := normalize.ParseDate(cols.Get(rec, normalize.ColDate))
	if !ok {
		return model.Transaction{}, false
	}

	amount, typ := rowAmount(cols, rec)
	if amount.IsZero() {
		return model.Transaction{}, false
	}

	category := cols.Get(rec, normalize.ColCategory)
	if category == "" {
		category = model.CategoryUncategorized
	}

	return model.Transaction{
		Date:        date,
		Description: cols.Get(rec, normalize.ColDescription),
		Amount:      amount,
		Type:        typ,
		Category:    category,
		Balance:     normalize.ParseNumeric(cols.Get(rec, normalize.ColBalance)),
	}, true
}

// rowAmount reads a signed amount column when present, otherwise the
// withdrawal and deposit columns.
func rowAmount(cols normalize.ColumnMap, rec []string) (decimal.Decimal, model.TxnType) {
	if cols.Has(normalize.ColAmount) {
		raw := cols.Get(rec, normalize.ColAmount)
		v := normalize.ParseNumeric(raw).Abs()
		if normalize.IsNegative(raw) {
			return v, model.TxnExpense
		}
		return v, model.TxnIncome
	}

	w := normalize.ParseNumeric(cols.Get(rec, normalize.ColWithdrawal)).Abs()
	if w.IsPositive() {
		return w, model.TxnExpense
	}
	d := normalize.ParseNumeric(cols.Get(rec, normalize.ColDeposit)).Abs()
	if d.IsPositive() {
		return d, model.TxnIncome
	}
	return decimal.Zero, model.TxnExpense
}

// sniffDelimiter picks the candidate that occurs most often in the first
// line, defaulting to comma.
func sniffDelimiter(head []byte) rune {
	if i := bytes.IndexAny(head, "\r\n"); i >= 0 {
		head = head[:i]
	}
	best, bestCount := ',', 0
	for _, d := range candidateDelimiters {
		if n := bytes.Count(head, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func (p *DelimitedParser) maxRows() int {
	if p.MaxRows <= 0 {
		return DefaultMaxRows
	}
	return p.MaxRows
}
