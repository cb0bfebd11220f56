package tokenizer

import (
	"fmt"
	"io"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/shapestone/shape-core/pkg/tokenizer"

	"github.com/shapestone/yamill/internal/yamlerr"
)

// Token is one lexical unit of canonical YAML.
type Token struct {
	Kind  string
	Pos   ast.Position // 1-based line and column of the first character
	Value string       // tag name, dequoted scalar text or comment body
}

func (t Token) String() string {
	if t.Value == "" {
		return fmt.Sprintf("%s@%d:%d", t.Kind, t.Pos.Line, t.Pos.Column)
	}
	return fmt.Sprintf("%s@%d:%d %q", t.Kind, t.Pos.Line, t.Pos.Column, t.Value)
}

// continuation is the escaped line break a dumper inserts when it folds a long
// double-quoted scalar.
const continuation = "\\\n\\"

// Scanner wraps the base tokenizer and turns its raw tokens into the stream
// the layout engine walks.
//
// The scanner:
// - Drops spaces, commas and line breaks
// - Emits EmptyLine for a line break ending a line that held only indentation
// - Classifies comments as CommentLine or CommentInline
// - Strips tag prefixes and value quotes
// - Stops with a *yamlerr.TokenError on anything it does not recognize
//
// A Scanner is single pass. Once Next has returned an error, including io.EOF,
// every later call returns that same error.
type Scanner struct {
	base      tokenizer.Tokenizer
	lineBlank bool  // Has the current line held only indentation so far?
	err       error // Terminal state
}

// New creates a scanner over canonical YAML text.
func New(text string) *Scanner {
	return NewFromStream(tokenizer.NewStream(text))
}

// NewFromStream creates a scanner over a pre-configured stream.
func NewFromStream(stream tokenizer.Stream) *Scanner {
	return &Scanner{
		base:      NewTokenizerWithStream(stream),
		lineBlank: true,
	}
}

// Next returns the next token, io.EOF at the end of input, or a
// *yamlerr.TokenError for unrecognized input.
func (s *Scanner) Next() (Token, error) {
	if s.err != nil {
		return Token{}, s.err
	}

	for {
		raw, ok := s.base.NextToken()
		if !ok || raw == nil {
			s.err = io.EOF
			return Token{}, s.err
		}

		pos := ast.NewPosition(raw.Offset(), raw.Row(), raw.Column())
		value := raw.ValueString()

		switch raw.Kind() {
		case TokenWhitespace:
			continue

		case TokenComma:
			s.lineBlank = false
			continue

		case TokenNewline:
			blank := s.lineBlank
			s.lineBlank = true
			if blank {
				return Token{Kind: TokenEmptyLine, Pos: pos}, nil
			}
			continue

		case TokenComment:
			kind := TokenCommentInline
			if s.lineBlank {
				kind = TokenCommentLine
			}
			s.lineBlank = false
			return Token{Kind: kind, Pos: pos, Value: strings.TrimPrefix(value, "#")}, nil

		case TokenTag:
			s.lineBlank = false
			return Token{Kind: TokenTag, Pos: pos, Value: strings.TrimPrefix(value, "!!")}, nil

		case TokenValue:
			s.lineBlank = false
			body := value[1 : len(value)-1]
			return Token{Kind: TokenValue, Pos: pos, Value: strings.ReplaceAll(body, continuation, "")}, nil

		case TokenGarbage:
			s.err = &yamlerr.TokenError{Pos: pos, Excerpt: yamlerr.Excerpt(value)}
			return Token{}, s.err

		default:
			s.lineBlank = false
			return Token{Kind: raw.Kind(), Pos: pos}, nil
		}
	}
}

// Tokenize scans the whole text and returns every token.
func Tokenize(text string) ([]Token, error) {
	s := New(text)
	var tokens []Token
	for {
		tok, err := s.Next()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return tokens, err
		}
		tokens = append(tokens, tok)
	}
}
