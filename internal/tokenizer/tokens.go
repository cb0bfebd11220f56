// Package tokenizer provides lexical analysis of canonical YAML using Shape's tokenizer framework.
//
// Canonical YAML is the fully tagged, flow style, single document form a
// canonicalizing dumper produces:
//
//	---
//	!!map {
//	  ? !!str "name"
//	  : !!str "Ann",
//	}
package tokenizer

// Token kinds produced by the Scanner and consumed by the layout engine.
const (
	TokenDocument      = "Document"      // ---
	TokenMapOpen       = "MapOpen"       // {
	TokenMapClose      = "MapClose"      // }
	TokenMapKey        = "MapKey"        // ?
	TokenMapValue      = "MapValue"      // :
	TokenSeqOpen       = "SeqOpen"       // [
	TokenSeqClose      = "SeqClose"      // ]
	TokenTag           = "Tag"           // !!name, value is name
	TokenValue         = "Value"         // "...", value is the dequoted body
	TokenCommentLine   = "CommentLine"   // # ... alone on its line
	TokenCommentInline = "CommentInline" // # ... after content
	TokenEmptyLine     = "EmptyLine"     // line holding only indentation
)

// Matcher-level kinds. The Scanner consumes these and never returns them.
const (
	TokenWhitespace = "Whitespace"
	TokenComma      = "Comma"
	TokenNewline    = "Newline"
	TokenComment    = "Comment"
	TokenGarbage    = "Garbage"
)
