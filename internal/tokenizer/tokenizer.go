package tokenizer

import (
	"unicode"

	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// NewTokenizer creates a tokenizer for canonical YAML.
// The tokenizer matches tokens in order of priority.
//
// Ordering is critical:
// 1. Insignificant markers (spaces, commas, newlines)
// 2. Document marker
// 3. Single character structural tokens
// 4. Tags (before values, so !!str "x" splits at the space)
// 5. Double-quoted values
// 6. Comments
// 7. Garbage (last, matches anything else up to the end of the line)
func NewTokenizer() tokenizer.Tokenizer {
	return tokenizer.NewTokenizerWithoutWhitespace(
		SpaceMatcher(),
		tokenizer.StringMatcherFunc(TokenComma, ","),
		NewlineMatcher(),

		tokenizer.StringMatcherFunc(TokenDocument, "---"),

		// Mappings
		tokenizer.StringMatcherFunc(TokenMapOpen, "{"),
		tokenizer.StringMatcherFunc(TokenMapClose, "}"),
		tokenizer.StringMatcherFunc(TokenMapKey, "?"),
		tokenizer.StringMatcherFunc(TokenMapValue, ":"),

		// Sequences
		tokenizer.StringMatcherFunc(TokenSeqOpen, "["),
		tokenizer.StringMatcherFunc(TokenSeqClose, "]"),

		TagMatcher(),
		ValueMatcher(),
		CommentMatcher(),

		GarbageMatcher(),
	)
}

// NewTokenizerWithStream creates a canonical YAML tokenizer over a pre-configured stream.
func NewTokenizerWithStream(stream tokenizer.Stream) tokenizer.Tokenizer {
	tok := NewTokenizer()
	tok.InitializeFromStream(stream)
	return tok
}

// SpaceMatcher matches a run of spaces.
// Tabs are not part of canonical YAML and fall through to GarbageMatcher.
func SpaceMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune
		for {
			r, ok := stream.PeekChar()
			if !ok || r != ' ' {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}

		if len(value) == 0 {
			return nil
		}
		return tokenizer.NewToken(TokenWhitespace, value)
	}
}

// NewlineMatcher creates a matcher for newlines.
// Matches: \n or \r\n
func NewlineMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.PeekChar()
		if !ok {
			return nil
		}

		if r == '\r' {
			stream.NextChar()
			next, ok := stream.PeekChar()
			if ok && next == '\n' {
				stream.NextChar()
				return tokenizer.NewToken(TokenNewline, []rune{'\r', '\n'})
			}
			// A lone \r is not a line break in canonical YAML
			return nil
		}

		if r == '\n' {
			stream.NextChar()
			return tokenizer.NewToken(TokenNewline, []rune{'\n'})
		}

		return nil
	}
}

// TagMatcher creates a matcher for core tags.
// Matches: !! followed by any run of non-whitespace characters, possibly empty.
// An unknown or empty name is still a tag; the layout engine decides whether
// it is allowed.
//
// Examples:
//   - !!str
//   - !!map
//   - !!timestamp (tokenized, rejected later)
func TagMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune
		for i := 0; i < 2; i++ {
			r, ok := stream.NextChar()
			if !ok || r != '!' {
				return nil
			}
			value = append(value, r)
		}

		for {
			r, ok := stream.PeekChar()
			if !ok || unicode.IsSpace(r) {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}

		return tokenizer.NewToken(TokenTag, value)
	}
}

// ValueMatcher creates a matcher for double-quoted scalar text.
// Matches: "..." where a backslash always pairs with the character after it,
// so \" never closes the run. The run may span lines.
//
// Grammar:
//
//	Value = '"' { Character } '"' ;
//	Character = [^"\\] | "\\" AnyChar ;
//
// The token value keeps the quotes and escapes exactly as written.
func ValueMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.NextChar()
		if !ok || r != '"' {
			return nil
		}
		value := []rune{r}

		for {
			r, ok := stream.NextChar()
			if !ok {
				// Unterminated value
				return nil
			}
			value = append(value, r)

			switch r {
			case '"':
				return tokenizer.NewToken(TokenValue, value)
			case '\\':
				r, ok := stream.NextChar()
				if !ok {
					return nil
				}
				value = append(value, r)
			}
		}
	}
}

// CommentMatcher creates a matcher for comments.
// Matches: # followed by any characters until newline
func CommentMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.PeekChar()
		if !ok || r != '#' {
			return nil
		}

		var value []rune
		stream.NextChar()
		value = append(value, r)

		for {
			r, ok := stream.PeekChar()
			if !ok || r == '\n' || r == '\r' {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}

		return tokenizer.NewToken(TokenComment, value)
	}
}

// GarbageMatcher matches whatever no other matcher accepted, up to the end of
// the line. The Scanner turns it into a TokenError.
func GarbageMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune
		for {
			r, ok := stream.PeekChar()
			if !ok || (r == '\n' && len(value) > 0) {
				break
			}
			stream.NextChar()
			value = append(value, r)
			if r == '\n' {
				break
			}
		}

		if len(value) == 0 {
			return nil
		}
		return tokenizer.NewToken(TokenGarbage, value)
	}
}
