package idparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mrudul2k/yeet-magic-scanner/internal/serviceerrs"
)

func TestParser_Parse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []uint64
	}{
		{
			"single ID",
			"42",
			[]uint64{42},
		},
		{
			"duplicates collapse, order preserved",
			"5,5,7",
			[]uint64{5, 7},
		},
		{
			"whitespace trimmed",
			"  1 ,\t2 , 3  ",
			[]uint64{1, 2, 3},
		},
		{
			"empty tokens dropped",
			"1,,2,,,3,",
			[]uint64{1, 2, 3},
		},
		{
			"zero is a valid ID",
			"0,1",
			[]uint64{0, 1},
		},
		{
			"first-seen order wins",
			"9,3,9,3,1",
			[]uint64{9, 3, 1},
		},
	}
	p := New(DefaultDelimiter)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParser_Parse_invalidInput(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty string", ""},
		{"only delimiters", ",,,"},
		{"only whitespace", "   "},
		{"non-numeric token rejects whole batch", "1,2,abc,4"},
		{"negative number", "1,-2"},
		{"float", "1.5"},
		{"hex", "0x1f"},
	}
	p := New(DefaultDelimiter)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.raw)
			require.Error(t, err)
			assert.ErrorIs(t, err, &serviceerrs.InvalidInputError{})
			assert.Nil(t, got)
		})
	}
}

func TestParser_Parse_customDelimiter(t *testing.T) {
	p := New(";")
	got, err := p.Parse("5; 6;5")
	require.NoError(t, err)
	assert.Equal(t, []uint64{5, 6}, got)
}
