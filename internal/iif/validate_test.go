package iif

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func iifText(rows ...string) string {
	return strings.Join(append([]string{HeaderTrns, HeaderSpl, HeaderEndTrns}, rows...), "\r\n") + "\r\n"
}

func TestValidate_Balanced(t *testing.T) {
	res := Validate(iifText(
		"TRNS\t1\tCHECK\t01/02/2024\tChecking\tShop\t-10.00\t\t\tN\tN",
		"SPL\t1a\tCHECK\t01/02/2024\tSupplies\tShop\t6.00\t\t\tN\t\t",
		"SPL\t1b\tCHECK\t01/02/2024\tGroceries\tShop\t4.00\t\t\tN\t\t",
		"ENDTRNS",
	), "a.iif")
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.Empty(t, res.Warnings)
	assert.Equal(t, 1, res.Stats.TransactionCount)
	assert.Equal(t, 2, res.Stats.SplitCount)
	assert.Equal(t, "10.00", res.Stats.TotalDebit.StringFixed(2))
	assert.Equal(t, "10.00", res.Stats.TotalCredit.StringFixed(2))
}

func TestValidate_ToleratesOneCent(t *testing.T) {
	res := Validate(iifText(
		"TRNS\t1\tCHECK\t01/02/2024\tChecking\tShop\t-10.00\t\t\tN\tN",
		"SPL\t1a\tCHECK\t01/02/2024\tSupplies\tShop\t9.99\t\t\tN\t\t",
		"ENDTRNS",
	), "a.iif")
	assert.True(t, res.Valid)
}

func TestValidate_Unbalanced(t *testing.T) {
	res := Validate(iifText(
		"TRNS\t1\tCHECK\t01/02/2024\tChecking\tShop\t-10.00\t\t\tN\tN",
		"SPL\t1a\tCHECK\t01/02/2024\tSupplies\tShop\t9.00\t\t\tN\t\t",
		"ENDTRNS",
	), "a.iif")
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	e := res.Errors[0]
	assert.Equal(t, 4, e.Row)
	assert.Equal(t, "10.00", e.Expected.Decimal.StringFixed(2))
	assert.Equal(t, "9.00", e.Actual.Decimal.StringFixed(2))
	assert.Equal(t, "a.iif:4 [AMOUNT]: transaction does not balance (expected 10.00, got 9.00)", e.String())
}

func TestValidate_StateMachine(t *testing.T) {
	tests := []struct {
		name   string
		rows   []string
		errors int
		want   string
	}{
		{
			name:   "nested TRNS",
			rows:   []string{"TRNS\t1\tCHECK\td\tA\tn\t-1\t\t\tN\tN", "TRNS\t2\tCHECK\td\tA\tn\t-1\t\t\tN\tN", "SPL\t2a\tCHECK\td\tB\tn\t1\t\t\tN\t\t", "ENDTRNS"},
			errors: 1,
			want:   "still open",
		},
		{
			name:   "ENDTRNS without TRNS",
			rows:   []string{"ENDTRNS"},
			errors: 1,
			want:   "without an open transaction",
		},
		{
			name:   "SPL outside",
			rows:   []string{"SPL\t1a\tCHECK\td\tB\tn\t1\t\t\tN\t\t"},
			errors: 1,
			want:   "outside a transaction",
		},
		{
			name:   "unterminated",
			rows:   []string{"TRNS\t1\tCHECK\td\tA\tn\t-1\t\t\tN\tN", "SPL\t1a\tCHECK\td\tB\tn\t1\t\t\tN\t\t"},
			errors: 1,
			want:   "file ends inside",
		},
		{
			name:   "bad amount",
			rows:   []string{"TRNS\t1\tCHECK\td\tA\tn\tabc\t\t\tN\tN", "ENDTRNS"},
			errors: 1,
			want:   "invalid amount",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Validate(iifText(tt.rows...), "x.iif")
			assert.False(t, res.Valid)
			require.Len(t, res.Errors, tt.errors, "%v", res.Errors)
			assert.Contains(t, res.Errors[0].Message, tt.want)
		})
	}
}

func TestValidate_SplOutsideStillCounted(t *testing.T) {
	res := Validate(iifText("SPL\t1a\tCHECK\td\tB\tn\t1\t\t\tN\t\t"), "x.iif")
	assert.Equal(t, 1, res.Stats.SplitCount)
}

func TestValidate_UnknownRowIsWarning(t *testing.T) {
	res := Validate(iifText(
		"TRNS\t1\tCHECK\td\tA\tn\t-1\t\t\tN\tN",
		"SPL\t1a\tCHECK\td\tB\tn\t1\t\t\tN\t\t",
		"ENDTRNS",
		"!ACCNT\tNAME",
		"ACCNT\tChecking",
	), "x.iif")
	assert.True(t, res.Valid)
	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[1].Message, `unknown row type "ACCNT"`)
}

func TestValidate_ForeignSplitID(t *testing.T) {
	res := Validate(iifText(
		"TRNS\t1\tCHECK\td\tA\tn\t-1\t\t\tN\tN",
		"SPL\t2a\tCHECK\td\tB\tn\t1\t\t\tN\t\t",
		"ENDTRNS",
	), "x.iif")
	assert.True(t, res.Valid)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "SPLID", res.Warnings[0].Column)
}

func TestValidate_HeaderDefinesColumns(t *testing.T) {
	text := "!TRNS\tAMOUNT\tACCNT\r\n!SPL\tAMOUNT\tACCNT\r\n!ENDTRNS\r\n" +
		"TRNS\t-5.00\tChecking\r\nSPL\t5.00\tSupplies\r\nENDTRNS\r\n"
	res := Validate(text, "x.iif")
	assert.True(t, res.Valid, "%v", res.Errors)
	assert.Empty(t, res.Warnings)
}

func TestValidate_EmptyAndHeaderless(t *testing.T) {
	res := Validate("", "x.iif")
	assert.True(t, res.Valid)
	require.Len(t, res.Warnings, 2)
	assert.Contains(t, res.Warnings[0].Message, "missing !TRNS header")

	res = Validate("TRNS\t1\tCHECK\td\tA\tn\t-1\t\tN\nSPL\t1a\tCHECK\td\tB\tn\t1\t\tN\nENDTRNS\n", "lf.iif")
	assert.True(t, res.Valid, "LF line endings are accepted")
	require.Len(t, res.Warnings, 1)
}

func TestValidate_TransactionSequence(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{name: "in order", ids: []string{"1", "2", "3"}},
		{name: "gap", ids: []string{"1", "3"}, want: []string{"TRNSID 3 out of sequence, expected 2"}},
		{name: "restart", ids: []string{"1", "2", "1"}, want: []string{"TRNSID 1 out of sequence, expected 3"}},
		{name: "not a number", ids: []string{"x7"}, want: []string{`TRNSID "x7" is not a transaction number`}},
		{name: "split id in TRNS column", ids: []string{"1a"}, want: []string{`TRNSID "1a" is not a transaction number`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rows []string
			for _, trnsID := range tt.ids {
				rows = append(rows,
					"TRNS\t"+trnsID+"\tCHECK\td\tA\tn\t-1\t\t\tN\tN",
					"SPL\t\tCHECK\td\tB\tn\t1\t\t\tN\t\t",
					"ENDTRNS",
				)
			}
			res := Validate(iifText(rows...), "x.iif")
			assert.True(t, res.Valid, "%v", res.Errors)

			var got []string
			for _, w := range res.Warnings {
				assert.Equal(t, "TRNSID", w.Column)
				got = append(got, w.Message)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
