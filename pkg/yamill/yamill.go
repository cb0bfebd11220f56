// Package yamill formats YAML documents into one normalized block style.
//
// Formatting runs in two stages. Arbitrary YAML is first converted to
// canonical text: fully tagged, flow style, a single document. The canonical
// text is then laid out as block YAML with two-space indentation, one
// construct per line, canonical scalars and normalized comments.
//
// # Thread Safety
//
// All functions in this package are safe for concurrent use by multiple goroutines.
// Each call builds its own state; there is no package-level configuration.
//
//	// SAFE: Concurrent formatting
//	go func() { yamill.Format(src1, yamill.Options{}) }()
//	go func() { yamill.Format(src2, yamill.Options{DoubleCheck: true}) }()
//
// # Formatting APIs
//
//   - Format([]byte, Options) - Formats arbitrary YAML
//   - Normalize(string) - Lays out canonical text
//   - NormalizeReader(io.Reader) - Lays out canonical text read from a stream
//   - Canonicalize([]byte) - Converts arbitrary YAML to canonical text
//   - Validate(string) - Checks canonical text without keeping the output
//   - Verify([]byte, []byte) - Checks that a rewrite preserved the data
//
// # Example usage with Format:
//
//	out, err := yamill.Format([]byte("name:   Ann\ntags: [ ]\n"), yamill.Options{DoubleCheck: true})
//	if err != nil {
//	    // handle error
//	}
//	// out == "name: 'Ann'\ntags: []\n"
//
// # Errors
//
// Lexical, structural and policy failures are reported as *TokenError,
// *ParseError and *SanitizeError. Use errors.Is with ErrToken, ErrParse or
// ErrSanitize to test the kind, or errors.As to read the position. Any error
// means the document could not be safely reformatted; no partial output is
// ever returned.
package yamill

import (
	"errors"
	"io"
	"log/slog"

	"github.com/shapestone/shape-core/pkg/tokenizer"

	"github.com/shapestone/yamill/internal/canonical"
	"github.com/shapestone/yamill/internal/normalizer"
	"github.com/shapestone/yamill/internal/roundtrip"
	yamilltok "github.com/shapestone/yamill/internal/tokenizer"
)

// ErrUnsafe reports a rewrite that does not load to the same data as the
// original document.
var ErrUnsafe = errors.New("formatted document does not match the original data")

// Options configures Format.
type Options struct {
	// DoubleCheck loads the original and the formatted text and fails with
	// ErrUnsafe when they differ.
	DoubleCheck bool
	// Logger receives debug records for the canonical text and every token.
	// Nil disables logging.
	Logger *slog.Logger
}

// Format converts arbitrary YAML to normalized form.
//
// The input must hold exactly one document. Constructs outside the supported
// subset, such as anchors, aliases or non-string keys, fail with a typed
// error instead of being rewritten. Error positions refer to src.
//
// Example:
//
//	out, err := yamill.Format([]byte("a: 0x1A\n"), yamill.Options{})
//	// out == "a: 0x1a\n"
func Format(src []byte, opts Options) (string, error) {
	canon, lines, err := canonical.CanonicalizeWithLines(src)
	if err != nil {
		return "", err
	}
	if opts.Logger != nil {
		opts.Logger.Debug("canonical", slog.String("text", canon))
	}

	out, err := normalizer.NormalizeWith(canon, normalizer.Options{Logger: opts.Logger})
	if err != nil {
		return "", relocate(err, lines)
	}

	if opts.DoubleCheck && out != string(src) {
		if err := Verify(src, []byte(out)); err != nil {
			return "", err
		}
	}
	return out, nil
}

// Normalize lays out canonical text in normalized form.
//
// Example:
//
//	out, err := yamill.Normalize("--- !!map {\n  ? !!str \"a\"\n  : !!int \"012\",\n}\n")
//	// out == "a: 12\n"
func Normalize(canonicalText string) (string, error) {
	return normalizer.Normalize(canonicalText)
}

// NormalizeReader lays out canonical text read from reader.
//
// The reader is consumed through a buffered stream, so the canonical text
// never has to be held in memory as a whole.
func NormalizeReader(reader io.Reader) (string, error) {
	stream := tokenizer.NewStreamFromReader(reader)
	return normalizer.NormalizeTokens(yamilltok.NewFromStream(stream), normalizer.Options{})
}

// Canonicalize converts arbitrary YAML to canonical text. Every document in
// src is converted; Normalize rejects inputs holding more than one.
func Canonicalize(src []byte) (string, error) {
	return canonical.Canonicalize(src)
}

// Validate checks that canonical text can be normalized.
func Validate(canonicalText string) error {
	_, err := normalizer.Normalize(canonicalText)
	return err
}

// Verify returns ErrUnsafe when formatted does not load to the same data as
// original. Loader errors are returned as is.
func Verify(original, formatted []byte) error {
	same, err := roundtrip.Equal(original, formatted)
	if err != nil {
		return err
	}
	if !same {
		return ErrUnsafe
	}
	return nil
}
