// Package yamlerr defines the three failure kinds of a normalization run.
//
// Every error aborts the run it belongs to. Callers tell them apart with
// errors.As on the concrete type, or errors.Is against the ErrToken, ErrParse
// and ErrSanitize sentinels.
package yamlerr

import (
	"errors"
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

// Sentinels matched by the Is methods of the concrete error types.
var (
	ErrToken    = errors.New("yaml token error")
	ErrParse    = errors.New("yaml parse error")
	ErrSanitize = errors.New("yaml sanitize error")
)

// ExcerptLen is the number of runes of unconsumed input quoted by a TokenError.
const ExcerptLen = 20

// TokenError reports input that is not valid canonical text.
type TokenError struct {
	Pos     ast.Position
	Excerpt string
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("found garbage at %d:%d: %s...", e.Pos.Line, e.Pos.Column, e.Excerpt)
}

// Is reports whether target is ErrToken.
func (e *TokenError) Is(target error) bool { return target == ErrToken }

// ParseError reports a token in a position the layout engine cannot accept.
// Pos is the zero position for end-of-input errors.
type ParseError struct {
	Pos ast.Position
	Msg string
}

func (e *ParseError) Error() string {
	if e.Pos.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s at %d:%d", e.Msg, e.Pos.Line, e.Pos.Column)
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// SanitizeError reports well-formed input that uses a construct outside the
// supported subset: a second document, a disallowed tag, a non-string key.
type SanitizeError struct {
	Pos   ast.Position
	Msg   string
	Value string
}

func (e *SanitizeError) Error() string {
	msg := e.Msg
	if e.Value != "" {
		msg = fmt.Sprintf("%s: %q", msg, e.Value)
	}
	if e.Pos.Line == 0 {
		return msg
	}
	return fmt.Sprintf("%s at %d:%d", msg, e.Pos.Line, e.Pos.Column)
}

// Is reports whether target is ErrSanitize.
func (e *SanitizeError) Is(target error) bool { return target == ErrSanitize }

// Excerpt trims s to at most ExcerptLen runes.
func Excerpt(s string) string {
	r := []rune(s)
	if len(r) > ExcerptLen {
		r = r[:ExcerptLen]
	}
	return string(r)
}
