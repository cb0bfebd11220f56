package scalar

import (
	"errors"
	"testing"

	"github.com/shapestone/yamill/internal/yamlerr"
)

// TestNormalize tests rendering per declared type
func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		tag      string
		raw      string
		expected string
	}{
		// int
		{"hex keeps base", Int, "0x1A", "0x1a"},
		{"octal keeps base", Int, "0o017", "0o17"},
		{"leading zero is decimal", Int, "012", "12"},
		{"plus sign dropped", Int, "+42", "42"},
		{"negative", Int, "-7", "-7"},
		{"negative zero", Int, "-0", "0"},
		{"separators", Int, "1_000_000", "1000000"},
		{"beyond 64 bits", Int, "123456789012345678901234567890", "123456789012345678901234567890"},

		// float
		{"integral float", Float, "1.0", "1.0"},
		{"integral without fraction", Float, "3", "3.0"},
		{"shortest digits", Float, "0.10000000000000001", "0.1"},
		{"exponent input", Float, "6.8523e+5", "685230.0"},
		{"large uses exponent", Float, "1e16", "1e+16"},
		{"small uses exponent", Float, "0.00001", "1e-05"},
		{"small stays fixed", Float, "0.0001", "0.0001"},
		{"negative zero", Float, "-0.0", "-0.0"},
		{"infinity", Float, ".Inf", ".inf"},
		{"signed infinity", Float, "+.inf", ".inf"},
		{"negative infinity", Float, "-.INF", "-.inf"},
		{"not a number", Float, ".NaN", ".nan"},

		// null
		{"empty null", Null, "", "null"},
		{"tilde null", Null, "~", "null"},

		// bool passes through
		{"bool unchanged", Bool, "True", "True"},
		{"bool yes unchanged", Bool, "yes", "yes"},

		// str
		{"plain string", Str, "Ann", "'Ann'"},
		{"escaped quote", Str, `a\"b`, `"a\"b"`},
		{"single quote doubled", Str, "it's", "'it''s'"},
		{"quotes without backslash", Str, `say "hi", it's`, `'say "hi", it''s'`},
		{"escape sequence kept", Str, `line\nnext`, `"line\nnext"`},
		{"empty string", Str, "", "''"},

		// unknown tags pass through
		{"unknown tag", "timestamp", "2001-12-14", "2001-12-14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.tag, tt.raw)
			if err != nil {
				t.Fatalf("Normalize(%q, %q) error: %v", tt.tag, tt.raw, err)
			}
			if got != tt.expected {
				t.Errorf("Normalize(%q, %q) = %q, want %q", tt.tag, tt.raw, got, tt.expected)
			}
		})
	}
}

// TestNormalize_Invalid tests rejection of literals that do not parse
func TestNormalize_Invalid(t *testing.T) {
	tests := []struct {
		tag string
		raw string
	}{
		{Int, "twelve"},
		{Int, "0x"},
		{Int, "1__0"},
		{Int, "_1"},
		{Int, "-0x1A"},
		{Float, "1.2.3"},
		{Float, "1e400"},
		{Float, "inf"},
	}

	for _, tt := range tests {
		t.Run(tt.tag+"/"+tt.raw, func(t *testing.T) {
			_, err := Normalize(tt.tag, tt.raw)
			var se *yamlerr.SanitizeError
			if !errors.As(err, &se) {
				t.Fatalf("Normalize(%q, %q) error = %v, want *yamlerr.SanitizeError", tt.tag, tt.raw, err)
			}
			if se.Value != tt.raw {
				t.Errorf("SanitizeError.Value = %q, want %q", se.Value, tt.raw)
			}
		})
	}
}

// TestMappingKey tests bare and quoted keys
func TestMappingKey(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"foo_1", "foo_1:"},
		{"Name", "Name:"},
		{"foo bar", "'foo bar':"},
		{"foo-bar", "'foo-bar':"},
		{"it's", "'it''s':"},
		{`tab\there`, `"tab\there":`},
		{"", "'':"},
		{"ключ", "'ключ':"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := MappingKey(tt.key); got != tt.expected {
				t.Errorf("MappingKey(%q) = %q, want %q", tt.key, got, tt.expected)
			}
		})
	}
}

// TestComment tests comment spacing
func TestComment(t *testing.T) {
	tests := []struct {
		body     string
		expected string
	}{
		{"bad", "# bad"},
		{" already spaced", "# already spaced"},
		{"# doubled marker", "## doubled marker"},
		{" trailing   \t", "# trailing"},
		{"", "#"},
		{"   ", "#"},
		{"\t", "#"},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			if got := Comment(tt.body); got != tt.expected {
				t.Errorf("Comment(%q) = %q, want %q", tt.body, got, tt.expected)
			}
		})
	}
}

// TestTagClasses tests scalar and collection classification
func TestTagClasses(t *testing.T) {
	for _, tag := range []string{Bool, Float, Int, Null, Str} {
		if !IsScalar(tag) || IsCollection(tag) {
			t.Errorf("%q misclassified", tag)
		}
	}
	for _, tag := range []string{Map, Seq} {
		if IsScalar(tag) || !IsCollection(tag) {
			t.Errorf("%q misclassified", tag)
		}
	}
	for _, tag := range []string{"", "set", "omap", "binary"} {
		if IsScalar(tag) || IsCollection(tag) {
			t.Errorf("%q should be neither scalar nor collection", tag)
		}
	}
}
