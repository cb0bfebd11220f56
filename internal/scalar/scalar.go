// Package scalar renders typed canonical scalars, mapping keys and comments
// in their normalized form.
//
// Comments are rendered with exactly one "#" and no trailing whitespace, so
// an empty comment becomes a bare "#" rather than "# ".
//
// All functions are pure and safe for concurrent use.
package scalar

import (
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/shapestone/yamill/internal/yamlerr"
)

// Scalar type names as they appear in canonical !!tags.
const (
	Bool  = "bool"
	Float = "float"
	Int   = "int"
	Null  = "null"
	Str   = "str"
)

// Collection type names.
const (
	Map = "map"
	Seq = "seq"
)

// IsScalar reports whether tag names one of the five scalar types.
func IsScalar(tag string) bool {
	switch tag {
	case Bool, Float, Int, Null, Str:
		return true
	}
	return false
}

// IsCollection reports whether tag names a mapping or a sequence.
func IsCollection(tag string) bool {
	return tag == Map || tag == Seq
}

// Normalize returns the canonical rendering of raw, declared as tag.
//
//   - bool is passed through unchanged
//   - float uses the shortest round-trip decimal form
//   - int keeps 0o and 0x bases, everything else becomes decimal
//   - null is always null
//   - str is quoted, see FormatString
//
// Unknown tags pass raw through. A literal that does not parse as its
// declared numeric type is a *yamlerr.SanitizeError.
func Normalize(tag, raw string) (string, error) {
	switch tag {
	case Float:
		return FormatFloat(raw)
	case Int:
		return FormatInt(raw)
	case Null:
		return "null", nil
	case Str:
		return FormatString(raw), nil
	default:
		return raw, nil
	}
}

// FormatInt renders an integer literal from its parsed value.
// Single underscores between digits are accepted as separators.
func FormatInt(raw string) (string, error) {
	s, ok := stripSeparators(raw)
	if ok {
		n := new(big.Int)
		switch {
		case strings.HasPrefix(s, "0o"):
			if _, ok = n.SetString(s[2:], 8); ok {
				return "0o" + n.Text(8), nil
			}
		case strings.HasPrefix(s, "0x"):
			if _, ok = n.SetString(s[2:], 16); ok {
				return "0x" + n.Text(16), nil
			}
		default:
			if _, ok = n.SetString(s, 10); ok {
				return n.String(), nil
			}
		}
	}
	return "", &yamlerr.SanitizeError{Msg: "unsupported int literal", Value: raw}
}

func stripSeparators(s string) (string, bool) {
	if !strings.Contains(s, "_") {
		return s, true
	}
	if strings.Contains(s, "__") || strings.HasSuffix(s, "_") || strings.HasPrefix(strings.TrimLeft(s, "+-"), "_") {
		return "", false
	}
	return strings.ReplaceAll(s, "_", ""), true
}

// FormatFloat renders a float literal the way a round-trip repr does: the
// shortest digits that parse back to the same value, always with a fraction
// or an exponent so the result still reads as a float.
func FormatFloat(raw string) (string, error) {
	switch strings.ToLower(strings.TrimPrefix(raw, "+")) {
	case ".inf":
		return ".inf", nil
	case "-.inf":
		return "-.inf", nil
	case ".nan":
		return ".nan", nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return "", &yamlerr.SanitizeError{Msg: "unsupported float literal", Value: raw}
	}

	// Decimal exponent of the shortest representation, read from %e output
	e := strconv.FormatFloat(f, 'e', -1, 64)
	exp, _ := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if exp < -4 || exp >= 16 {
		return e, nil
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s, nil
}

// FormatString quotes a string scalar. Text holding a backslash keeps its
// escapes inside double quotes; anything else is single-quoted with every
// single quote doubled. A single quote alone never forces double quotes.
func FormatString(s string) string {
	if strings.Contains(s, `\`) {
		return `"` + s + `"`
	}
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// MappingKey renders a string key followed by a colon. Keys made only of
// ASCII letters, digits and underscores stay bare.
func MappingKey(s string) string {
	if isPlainKey(s) {
		return s + ":"
	}
	return FormatString(s) + ":"
}

func isPlainKey(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '_' && (c < 'a' || c > 'z') && (c < 'A' || c > 'Z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// Comment renders a comment body with exactly one "#". A body that already
// starts with "#" or a space is kept as is; otherwise a space is inserted.
func Comment(body string) string {
	c := strings.TrimRightFunc(body, unicode.IsSpace)
	if c == "" {
		return "#"
	}
	if strings.HasPrefix(c, "#") || strings.HasPrefix(c, " ") {
		return "#" + c
	}
	return "# " + c
}
