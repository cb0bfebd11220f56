// Package normalizer renders canonical YAML in the normalized block style.
//
// The layout engine walks the scanner's token stream once. It keeps a stack
// of open collections, whose depth sets the indentation and whose top decides
// whether an element gets a "- " bullet, plus a few pending flags recording
// whether the next scalar is a mapping key or a mapping value.
//
// # Thread Safety
//
// Every call builds its own state; Normalize is safe for concurrent use.
package normalizer

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/shapestone/yamill/internal/scalar"
	"github.com/shapestone/yamill/internal/tokenizer"
	"github.com/shapestone/yamill/internal/yamlerr"
)

// Options configures a single Normalize call.
type Options struct {
	// Logger receives one debug record per token. Nil disables logging.
	Logger *slog.Logger
}

// Normalize returns canonical text in normalized form.
func Normalize(text string) (string, error) {
	return NormalizeWith(text, Options{})
}

// NormalizeWith is Normalize with explicit options.
func NormalizeWith(text string, opts Options) (string, error) {
	return NormalizeTokens(tokenizer.New(text), opts)
}

// TokenSource yields tokens one at a time and io.EOF once exhausted.
// *tokenizer.Scanner implements it.
type TokenSource interface {
	Next() (tokenizer.Token, error)
}

// NormalizeTokens lays out every token of src. The first error src returns,
// other than io.EOF, aborts the run.
func NormalizeTokens(src TokenSource, opts Options) (string, error) {
	l := newLayout(opts.Logger)
	for {
		tok, err := src.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if err := l.step(tok); err != nil {
			return "", err
		}
	}
	return l.finish()
}

// layout is the state of one normalization run.
type layout struct {
	out    []byte
	stack  []string // open collections, scalar.Map or scalar.Seq
	logger *slog.Logger

	nextIsKey   bool // the next value is rendered as a mapping key
	nextIsValue bool // the next tag follows a ':' marker
	seenDoc     bool

	prev          tokenizer.Token // last token, comments excluded
	prevPrintable tokenizer.Token // last content-bearing token
}

func newLayout(logger *slog.Logger) *layout {
	return &layout{
		out:    make([]byte, 0, 1024),
		stack:  make([]string, 0, 8),
		logger: logger,
	}
}

func (l *layout) step(tok tokenizer.Token) error {
	depth := len(l.stack)
	if l.logger != nil {
		l.logger.LogAttrs(context.Background(), slog.LevelDebug, "token",
			slog.Int("depth", depth), slog.String("token", tok.String()))
	}

	var err error
	switch tok.Kind {
	case tokenizer.TokenDocument:
		if l.seenDoc {
			return &yamlerr.SanitizeError{Pos: tok.Pos, Msg: "only one document allowed per file"}
		}
		l.seenDoc = true
	case tokenizer.TokenTag:
		err = l.tag(tok, depth)
	case tokenizer.TokenEmptyLine:
		if len(l.out) > 0 && l.prevPrintable.Kind != tokenizer.TokenEmptyLine {
			l.out = append(l.out, '\n')
		}
	case tokenizer.TokenCommentLine:
		if len(l.out) > 0 {
			l.out = append(l.out, '\n')
		}
		l.out = appendIndent(l.out, depth-1)
		l.out = append(l.out, scalar.Comment(tok.Value)...)
	case tokenizer.TokenCommentInline:
		l.out = append(l.out, "  "...)
		l.out = append(l.out, scalar.Comment(tok.Value)...)
	case tokenizer.TokenValue:
		err = l.value(tok)
	case tokenizer.TokenSeqClose:
		err = l.close(tok, tokenizer.TokenSeqOpen, " []")
	case tokenizer.TokenMapClose:
		err = l.close(tok, tokenizer.TokenMapOpen, " {}")
	case tokenizer.TokenMapValue:
		l.nextIsValue = true
	case tokenizer.TokenMapKey:
		if l.nextIsKey {
			return &yamlerr.ParseError{Pos: tok.Pos, Msg: "unexpected map key"}
		}
		l.nextIsKey = true
	}
	if err != nil {
		return err
	}

	switch tok.Kind {
	case tokenizer.TokenCommentLine, tokenizer.TokenCommentInline:
		// Comments never change layout state
		l.prevPrintable = tok
	case tokenizer.TokenEmptyLine, tokenizer.TokenTag, tokenizer.TokenValue:
		l.prev = tok
		l.prevPrintable = tok
	default:
		l.prev = tok
	}
	return nil
}

// tag opens an element: a scalar whose value follows, or a collection.
// depth is the nesting depth before the tag, so a collection sits at its
// parent's indentation while its elements go one level deeper.
func (l *layout) tag(tok tokenizer.Token, depth int) error {
	isScalar := scalar.IsScalar(tok.Value)
	if !isScalar && !scalar.IsCollection(tok.Value) {
		return &yamlerr.SanitizeError{Pos: tok.Pos, Msg: "tag not allowed", Value: tok.Value}
	}
	if l.nextIsKey && !isScalar {
		return &yamlerr.SanitizeError{Pos: tok.Pos, Msg: "only strings are allowed as mapping keys", Value: tok.Value}
	}

	inSeq := depth > 0 && l.stack[depth-1] == scalar.Seq
	if !isScalar {
		l.stack = append(l.stack, tok.Value)
	}

	switch {
	case l.nextIsValue:
		l.nextIsValue = false
		if isScalar {
			l.out = append(l.out, ' ')
		}
	case len(l.out) == 0:
		l.out = appendIndent(l.out, depth-1)
	default:
		l.out = append(l.out, '\n')
		l.out = appendIndent(l.out, depth-1)
	}

	if inSeq {
		l.out = append(l.out, "- "...)
	}
	return nil
}

func (l *layout) value(tok tokenizer.Token) error {
	if l.prev.Kind != tokenizer.TokenTag {
		return &yamlerr.ParseError{Pos: tok.Pos, Msg: "unexpected value"}
	}
	tag := l.prev.Value

	if l.nextIsKey {
		l.nextIsKey = false
		if tag != scalar.Str {
			return &yamlerr.SanitizeError{Pos: l.prev.Pos, Msg: "only strings are allowed as mapping keys", Value: tag}
		}
		l.out = append(l.out, scalar.MappingKey(tok.Value)...)
		return nil
	}

	rendered, err := scalar.Normalize(tag, tok.Value)
	if err != nil {
		var se *yamlerr.SanitizeError
		if errors.As(err, &se) {
			se.Pos = tok.Pos
		}
		return err
	}
	l.out = append(l.out, rendered...)
	return nil
}

// close pops the innermost collection. A collection closed right after it
// was opened collapses to its flow form on the opening line.
func (l *layout) close(tok tokenizer.Token, open, empty string) error {
	if len(l.stack) == 0 {
		return &yamlerr.ParseError{Pos: tok.Pos, Msg: "unexpected collection end"}
	}
	if l.prev.Kind == open {
		l.out = append(l.out, empty...)
	}
	l.stack = l.stack[:len(l.stack)-1]
	return nil
}

func (l *layout) finish() (string, error) {
	if !l.seenDoc {
		return "", &yamlerr.ParseError{Msg: "no document found"}
	}
	l.out = append(l.out, '\n')
	return string(l.out), nil
}
