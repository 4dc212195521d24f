package id

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGroupID(t *testing.T) {
	a, b := NewGroupID(), NewGroupID()
	assert.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	assert.NoError(t, err)
	_, err = uuid.Parse(NewRuleID())
	assert.NoError(t, err)
}

func TestFormatSplID(t *testing.T) {
	tests := []struct {
		seq, leg int
		want     string
	}{
		{1, 0, "1a"},
		{1, 1, "1b"},
		{12, 2, "12c"},
		{3, 25, "3z"},
		{3, 26, "3aa"},
		{3, 27, "3ab"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatSplID(tt.seq, tt.leg))
	}
	assert.Equal(t, "7", FormatTrnsID(7))
}

func TestParseTrnsID(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"1", 1},
		{"12", 12},
		{"12a", 12},
		{"3aa", 3},
	}
	for _, tt := range tests {
		got, err := ParseTrnsID(tt.input)
		require.NoError(t, err, "input: %s", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestParseTrnsID_Errors(t *testing.T) {
	for _, input := range []string{"", "abc", "0", "-1", "x1"} {
		_, err := ParseTrnsID(input)
		assert.Error(t, err, "expected error for input: %s", input)
	}
}

func TestEntryGroup(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"12a", "12"},
		{"12ab", "12"},
		{"12", "12"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EntryGroup(tt.input))
	}
}
