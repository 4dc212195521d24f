// Package iif writes and checks QuickBooks IIF exports: tab-delimited
// TRNS/SPL/ENDTRNS blocks where every block balances to zero.
package iif

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/cleared-dev/bankflow/internal/accounts"
	"github.com/cleared-dev/bankflow/internal/id"
	"github.com/cleared-dev/bankflow/internal/model"
)

// Header lines, in order, at the top of every export.
const (
	HeaderTrns    = "!TRNS\tTRNSID\tTRNSTYPE\tDATE\tACCNT\tNAME\tAMOUNT\tDOCNUM\tMEMO\tCLEAR\tTOPRINT"
	HeaderSpl     = "!SPL\tSPLID\tTRNSTYPE\tDATE\tACCNT\tNAME\tAMOUNT\tDOCNUM\tMEMO\tCLEAR\tQNTY\tREIMBEXP"
	HeaderEndTrns = "!ENDTRNS"
)

// Row types.
const (
	RowTrns    = "TRNS"
	RowSpl     = "SPL"
	RowEndTrns = "ENDTRNS"
)

// Transaction types written to TRNSTYPE.
const (
	TypeDeposit = "DEPOSIT"
	TypeCheck   = "CHECK"
)

// Field limits applied by Sanitize.
const (
	MaxNameLen = 41
	MaxMemoLen = 100
)

const (
	lineEnd    = "\r\n"
	dateFormat = "01/02/2006"
	notCleared = "N"
	noPrint    = "N"
)

// Options controls account mapping and memo output.
type Options struct {
	BankAccount           string
	DefaultExpenseAccount string
	DefaultIncomeAccount  string
	IncludeMemo           bool
	// AccountMap overrides Accounts for the categories it names.
	AccountMap map[string]string
	// Accounts is the built-in category table; accounts.Default when nil.
	Accounts *accounts.Service
}

func (o Options) bankAccount() string {
	if o.BankAccount != "" {
		return o.BankAccount
	}
	return accounts.DefaultBankAccount
}

// AccountFor maps a category to an account name: AccountMap first, then
// the category table, then the default for the transaction type.
func (o Options) AccountFor(category string, typ model.TxnType) string {
	if name, ok := o.AccountMap[category]; ok && name != "" {
		return name
	}
	for k, name := range o.AccountMap {
		if strings.EqualFold(k, category) && name != "" {
			return name
		}
	}

	table := o.Accounts
	if table == nil {
		table = accounts.Default()
	}
	if a, ok := table.Lookup(category); ok && a.Name != "" {
		return a.Name
	}

	if typ == model.TxnIncome {
		if o.DefaultIncomeAccount != "" {
			return o.DefaultIncomeAccount
		}
		return accounts.DefaultIncomeAccount
	}
	if o.DefaultExpenseAccount != "" {
		return o.DefaultExpenseAccount
	}
	return accounts.DefaultExpenseAccount
}

// entry is one exported block: the bank-side TRNS line plus its offsets.
type entry struct {
	primary model.Transaction
	amount  decimal.Decimal // signed bank-side amount
	desc    string
	legs    []model.Transaction
}

// group collects split fragments by parent, in order of first appearance.
func group(txns []model.Transaction) []*entry {
	var entries []*entry
	byParent := make(map[string]*entry)
	for _, txn := range txns {
		if txn.Split == nil {
			entries = append(entries, &entry{
				primary: txn,
				amount:  txn.Signed(),
				desc:    txn.Description,
				legs:    []model.Transaction{txn},
			})
			continue
		}
		e, ok := byParent[txn.Split.ParentID]
		if !ok {
			original := txn.Split.OriginalAmount.Abs()
			if txn.Type == model.TxnExpense {
				original = original.Neg()
			}
			e = &entry{primary: txn, amount: original, desc: txn.Split.OriginalDescription}
			byParent[txn.Split.ParentID] = e
			entries = append(entries, e)
		}
		e.legs = append(e.legs, txn)
	}
	for _, e := range entries {
		sort.SliceStable(e.legs, func(i, j int) bool {
			return splitIndex(e.legs[i]) < splitIndex(e.legs[j])
		})
	}
	return entries
}

func splitIndex(t model.Transaction) int {
	if t.Split == nil {
		return 0
	}
	return t.Split.Index
}

// Generate renders txns as IIF text with CRLF line endings.
func Generate(txns []model.Transaction, opts Options) string {
	var b strings.Builder
	_ = Write(&b, txns, opts)
	return b.String()
}

// Write streams the IIF export of txns to w.
func Write(w io.Writer, txns []model.Transaction, opts Options) error {
	for _, h := range []string{HeaderTrns, HeaderSpl, HeaderEndTrns} {
		if _, err := io.WriteString(w, h+lineEnd); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range group(txns) {
		seq := i + 1
		if err := writeEntry(w, seq, e, opts); err != nil {
			return fmt.Errorf("writing transaction %d: %w", seq, err)
		}
	}
	return nil
}

func writeEntry(w io.Writer, seq int, e *entry, opts Options) error {
	trnsType := TypeCheck
	if e.amount.IsPositive() {
		trnsType = TypeDeposit
	}
	date := e.primary.Date.Format(dateFormat)
	name := Sanitize(e.desc, MaxNameLen)

	var memo string
	if opts.IncludeMemo {
		memo = Sanitize(e.desc, MaxMemoLen)
	}
	lines := [][]string{{
		RowTrns, id.FormatTrnsID(seq), trnsType, date,
		Sanitize(opts.bankAccount(), MaxNameLen), name,
		e.amount.StringFixed(2), "", memo, notCleared, noPrint,
	}}

	for leg, f := range e.legs {
		legMemo := ""
		if f.Split != nil && f.Split.Memo != "" {
			legMemo = Sanitize(f.Split.Memo, MaxMemoLen)
		} else if opts.IncludeMemo {
			legMemo = Sanitize(f.Description, MaxMemoLen)
		}
		lines = append(lines, []string{
			RowSpl, id.FormatSplID(seq, leg), trnsType, date,
			Sanitize(opts.AccountFor(f.Category, f.Type), MaxNameLen), name,
			f.Signed().Neg().StringFixed(2), "", legMemo, notCleared, "", "",
		})
	}
	lines = append(lines, []string{RowEndTrns})

	for _, l := range lines {
		if _, err := io.WriteString(w, strings.Join(l, "\t")+lineEnd); err != nil {
			return err
		}
	}
	return nil
}

var replacer = strings.NewReplacer("\t", " ", "\r", " ", "\n", " ", `"`, "'")

// Sanitize makes s safe for one IIF field: separators and line breaks
// become spaces, double quotes become single quotes, accents are folded to
// ASCII letters, and the result is cut to limit runes.
func Sanitize(s string, limit int) string {
	s = replacer.Replace(s)
	if folded, _, err := transform.String(fold(), s); err == nil {
		s = folded
	}
	s = strings.TrimSpace(s)
	if r := []rune(s); limit > 0 && len(r) > limit {
		s = strings.TrimSpace(string(r[:limit]))
	}
	return s
}

// fold strips combining marks after canonical decomposition. A transformer
// is stateful, so each call gets its own.
func fold() transform.Transformer {
	return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
}
