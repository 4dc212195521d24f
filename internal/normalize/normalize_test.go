package normalize

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw    string
		want   string
		wantOK bool
	}{
		{"", "0.00", true},
		{"   ", "0.00", true},
		{"42.50", "42.50", true},
		{"$1,234.56", "1234.56", true},
		{"-$12.00", "-12.00", true},
		{"(45.10)", "45.10", true},
		{"+7", "7.00", true},
		{"€ 3,000", "3000.00", true},
		{"n/a", "0.00", false},
		{"12.3.4", "0.00", false},
		{"-", "0.00", false},
	}
	for _, tt := range tests {
		got, ok := ParseAmount(tt.raw)
		assert.Equal(t, tt.want, got.StringFixed(2), "ParseAmount(%q)", tt.raw)
		assert.Equal(t, tt.wantOK, ok, "ParseAmount(%q) ok", tt.raw)
	}
}

func TestParseNumeric_NeverFails(t *testing.T) {
	assert.True(t, ParseNumeric("garbage").IsZero())
	assert.Equal(t, "99.99", ParseNumeric("$99.99").StringFixed(2))
}

func TestIsNegative(t *testing.T) {
	assert.True(t, IsNegative("-5.00"))
	assert.True(t, IsNegative("$-5.00"))
	assert.True(t, IsNegative("(5.00)"))
	assert.True(t, IsNegative(" (1,200.00) "))
	assert.False(t, IsNegative("5.00"))
	assert.False(t, IsNegative(""))
}

func TestResolveColumn(t *testing.T) {
	header := []string{"\ufeffPosting Date", "Description", "Amount", "Type", "Balance"}

	assert.Equal(t, 0, ResolveColumn(header, ColDate))
	assert.Equal(t, 1, ResolveColumn(header, ColDescription))
	assert.Equal(t, 2, ResolveColumn(header, ColAmount))
	assert.Equal(t, 4, ResolveColumn(header, ColBalance))
	assert.Equal(t, -1, ResolveColumn(header, ColDeposit))
}

func TestResolveColumn_FirstMatchWins(t *testing.T) {
	header := []string{"Memo", "Description"}
	assert.Equal(t, 0, ResolveColumn(header, ColDescription))
}

func TestResolveColumn_NoFuzzyMatch(t *testing.T) {
	header := []string{"Date of transaction", "Desc"}
	assert.Equal(t, -1, ResolveColumn(header, ColDate))
	assert.Equal(t, -1, ResolveColumn(header, ColDescription))
}

func TestResolveColumns(t *testing.T) {
	m := ResolveColumns([]string{"DATE", "Withdrawals", "Deposits", "Running Balance", "Payee"})

	assert.True(t, m.Has(ColWithdrawal))
	assert.True(t, m.Has(ColDeposit))
	assert.False(t, m.Has(ColAmount))

	rec := []string{"2024-01-02", " 10.00 ", "", "90.00", "SHELL"}
	assert.Equal(t, "10.00", m.Get(rec, ColWithdrawal))
	assert.Equal(t, "SHELL", m.Get(rec, ColDescription))
	assert.Equal(t, "", m.Get(rec, ColAmount))
	assert.Equal(t, "", m.Get([]string{"2024-01-02"}, ColBalance))
}

func TestSynonymsIsCopy(t *testing.T) {
	s := Synonyms(ColDate)
	s[0] = "mutated"
	assert.Equal(t, "date", Synonyms(ColDate)[0])
}

func TestTag(t *testing.T) {
	closed := "<STMTTRN><NAME>Coffee</NAME><MEMO>latte</MEMO></STMTTRN>"
	sgml := "<STMTTRN>\n<NAME>Coffee Shop\n<MEMO>latte\n<TRNAMT>-4.50\n</STMTTRN>"

	assert.Equal(t, "Coffee", Tag(closed, "NAME"))
	assert.Equal(t, "latte", Tag(closed, "memo"))
	assert.Equal(t, "Coffee Shop", Tag(sgml, "NAME"))
	assert.Equal(t, "-4.50", Tag(sgml, "TRNAMT"))
	assert.Equal(t, "", Tag(sgml, "CHECKNUM"))
}

func TestTag_SGMLValueStopsAtNextTag(t *testing.T) {
	assert.Equal(t, "20240315", Tag("<DTPOSTED>20240315<TRNAMT>5", "DTPOSTED"))
}

func TestBlocks(t *testing.T) {
	content := "<BANKTRANLIST><STMTTRN><FITID>1</STMTTRN><stmttrn><FITID>2</stmttrn></BANKTRANLIST>"
	blocks := Blocks(content, "STMTTRN")
	assert.Len(t, blocks, 2)
	assert.Equal(t, "1", Tag(blocks[0], "FITID"))
	assert.Equal(t, "2", Tag(blocks[1], "FITID"))
}

func TestBlocks_Unclosed(t *testing.T) {
	content := "<STMTTRN><FITID>1\n<STMTTRN><FITID>2\n"
	blocks := Blocks(content, "STMTTRN")
	assert.Len(t, blocks, 2)
	assert.Equal(t, "2", Tag(blocks[1], "FITID"))
	assert.Equal(t, "", Block("nothing here", "STMTTRN"))
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2024-03-05", "03/05/2024", "3/5/2024", "03/05/24", "2024/03/05", "Mar 5, 2024", "05 Mar 2024", "20240305"} {
		got, ok := ParseDate(raw)
		require.True(t, ok, raw)
		assert.Equal(t, want, got, raw)
	}

	_, ok := ParseDate("5th of March")
	assert.False(t, ok)
}
