package roundtrip

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEqual(t *testing.T) {
	tests := []struct {
		name  string
		a, b  string
		equal bool
	}{
		{"key order", "b: 1\na: 2\n", "a: 2\nb: 1\n", true},
		{"quoting and comments", "# note\na: 'x'\n", "a: x  # other\n", true},
		{"flow and block", "a: [1, 2]\n", "a:\n  - 1\n  - 2\n", true},
		{"hex int", "n: 0x1A\n", "n: 26\n", true},
		{"string versus int", "a: '1'\n", "a: 1\n", false},
		{"changed value", "a: x\n", "a: y\n", false},
		{"empty documents", "", "", true},
		{"empty and null", "", "null\n", true},
		{"comment only and null", "# nothing\n", "~\n", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Equal([]byte(tt.a), []byte(tt.b))
			require.NoError(t, err)
			require.Equal(t, tt.equal, got)
		})
	}
}

func TestEqual_Invalid(t *testing.T) {
	_, err := Equal([]byte("a: ["), []byte("a: 1"))
	require.ErrorContains(t, err, "roundtrip: load")

	_, err = Equal([]byte("a: 1"), []byte("a: ["))
	require.Error(t, err)
}

func TestRedump_Documents(t *testing.T) {
	out, err := Redump([]byte("a\n---\nb\n"))
	require.NoError(t, err)
	require.Equal(t, "a\n---\nb\n", string(out))
}
