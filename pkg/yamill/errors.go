package yamill

import (
	"errors"

	"github.com/shapestone/yamill/internal/canonical"
	"github.com/shapestone/yamill/internal/yamlerr"
)

// Error kinds returned by Format, Normalize and Validate.
type (
	// TokenError reports input that is not valid canonical text.
	TokenError = yamlerr.TokenError
	// ParseError reports a token the layout engine cannot accept.
	ParseError = yamlerr.ParseError
	// SanitizeError reports a construct outside the supported subset.
	SanitizeError = yamlerr.SanitizeError
)

// Sentinels for errors.Is.
var (
	ErrToken    = yamlerr.ErrToken
	ErrParse    = yamlerr.ErrParse
	ErrSanitize = yamlerr.ErrSanitize
)

// relocate rewrites the position of a layout error, which points into
// canonical text, to the source position of the node behind it.
func relocate(err error, lines canonical.LineMap) error {
	var te *TokenError
	var pe *ParseError
	var se *SanitizeError
	switch {
	case errors.As(err, &te):
		te.Pos = lines.Source(te.Pos)
	case errors.As(err, &pe):
		pe.Pos = lines.Source(pe.Pos)
	case errors.As(err, &se):
		se.Pos = lines.Source(se.Pos)
	}
	return err
}
