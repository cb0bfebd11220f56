// Package canonical converts arbitrary YAML into the fully tagged, flow style
// canonical text the normalizer consumes.
//
// Documents are decoded with gopkg.in/yaml.v3 into yaml.Node trees, which keep
// resolved tags, comments and source lines. Every scalar is written as
// !!type "escaped text", every collection as a !!map { ... } or !!seq [ ... ]
// block with one entry per line:
//
//	---
//	!!map {
//	  ? !!str "name"
//	  : !!str "Ann",
//	}
//
// Constructs the normalizer does not support (anchors, aliases, local tags,
// several documents) are written faithfully so that it can reject them with a
// precise position.
package canonical

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/shapestone/shape-core/pkg/ast"
	"gopkg.in/yaml.v3"
)

// Empty is the canonical text of an input holding no document.
const Empty = "---\n!!null \"\"\n"

// bufPool pools output buffers between calls.
var bufPool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, 0, 1024)
		return &b
	},
}

// LineMap maps each line of canonical text to the source position of the
// node written on it. Index 0 holds line 1.
type LineMap []ast.Position

// Source returns the source position behind pos, a position in canonical
// text. Positions the map does not cover are returned unchanged.
func (m LineMap) Source(pos ast.Position) ast.Position {
	if pos.Line < 1 || pos.Line > len(m) || m[pos.Line-1].Line == 0 {
		return pos
	}
	return m[pos.Line-1]
}

// Canonicalize decodes every YAML document in src and returns their canonical
// text. Decoding errors are wrapped with a "canonical:" prefix.
func Canonicalize(src []byte) (string, error) {
	text, _, err := CanonicalizeWithLines(src)
	return text, err
}

// CanonicalizeWithLines is Canonicalize that also returns where each line of
// the canonical text came from.
func CanonicalizeWithLines(src []byte) (string, LineMap, error) {
	dec := yaml.NewDecoder(bytes.NewReader(src))

	bp := bufPool.Get().(*[]byte)
	e := &emitter{
		buf:     (*bp)[:0],
		lines:   strings.Split(string(src), "\n"),
		origins: LineMap{{}},
	}
	defer func() {
		*bp = e.buf
		bufPool.Put(bp)
	}()

	docs := 0
	for {
		var doc yaml.Node
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", nil, fmt.Errorf("canonical: %w", err)
		}
		e.document(&doc)
		docs++
	}
	if docs == 0 {
		// The decoder drops a stream made only of comments
		text := sourceComments(e.lines)
		if text == "" {
			return Empty, nil, nil
		}
		e.buf = append(e.buf, "---"...)
		e.comments(text, 0)
		e.nl()
	}
	return string(e.buf), e.origins, nil
}

// emitter appends canonical text to buf. Every entry starts on a fresh line;
// the caller of node has already written the indentation and the "? " or ": "
// marker.
type emitter struct {
	buf     []byte
	lines   []string // source lines, for blank line detection
	origins LineMap  // one entry per line written so far
}

func (e *emitter) document(doc *yaml.Node) {
	e.mark(doc)
	e.buf = append(e.buf, "---"...)

	if isEmpty(doc) {
		// A document holding only comments keeps them and no data
		var text string
		if len(doc.Content) > 0 {
			root := doc.Content[0]
			text = joinLines(root.HeadComment, joinLines(root.LineComment, root.FootComment))
		}
		text = joinLines(doc.HeadComment, joinLines(text, doc.FootComment))
		if text != "" {
			e.comments(text, 0)
		} else {
			e.newline(0)
			e.buf = append(e.buf, "!!null \"\""...)
		}
		e.nl()
		return
	}

	root := doc.Content[0]
	lead := root.HeadComment
	if doc.HeadComment != "" {
		// yaml.v3 only detaches a head comment from the first node when a
		// blank line separates them
		lead = strings.TrimSuffix(doc.HeadComment+"\n\n"+lead, "\n")
	}

	switch root.Kind {
	case yaml.MappingNode, yaml.SequenceNode:
		// A collection opens on the line after the marker. Comments sitting
		// above it move inside, ahead of the first entry.
		e.newline(0)
		e.collection(root, 0, "", joinLines(lead, root.LineComment))
	default:
		e.comments(lead, 0)
		e.newline(0)
		e.node(root, 0, "")
		e.lineComment(root.LineComment)
	}
	e.comments(root.FootComment, 0)
	if doc.FootComment != "" {
		e.nl()
		e.comments(doc.FootComment, 0)
	}
	e.nl()
}

// isEmpty reports a document without data: no root node, or the implicit
// empty null a decoder produces for a document of comments.
func isEmpty(doc *yaml.Node) bool {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return true
	}
	root := doc.Content[0]
	return root.Kind == yaml.ScalarNode &&
		root.ShortTag() == "!!null" &&
		root.Value == "" &&
		root.Anchor == "" &&
		root.Style&yaml.TaggedStyle == 0
}

// sourceComments collects the comment and blank lines of src, with leading
// and trailing blank lines dropped.
func sourceComments(lines []string) string {
	var kept []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			kept = append(kept, line)
		}
	}
	for len(kept) > 0 && kept[0] == "" {
		kept = kept[1:]
	}
	for len(kept) > 0 && kept[len(kept)-1] == "" {
		kept = kept[:len(kept)-1]
	}
	return strings.Join(kept, "\n")
}

// node writes n without a terminating comma. open is a line comment for the
// opening line of a collection; scalar callers place theirs after the comma.
func (e *emitter) node(n *yaml.Node, depth int, open string) {
	e.mark(n)
	switch n.Kind {
	case yaml.AliasNode:
		e.buf = append(e.buf, '*')
		e.buf = append(e.buf, n.Value...)
	case yaml.MappingNode, yaml.SequenceNode:
		e.collection(n, depth, open, "")
	default:
		e.properties(n)
		e.buf = append(e.buf, '"')
		e.buf = appendEscaped(e.buf, n.Value)
		e.buf = append(e.buf, '"')
	}
}

// properties writes the anchor and tag of n followed by a space.
func (e *emitter) properties(n *yaml.Node) {
	if n.Anchor != "" {
		e.buf = append(e.buf, '&')
		e.buf = append(e.buf, n.Anchor...)
		e.buf = append(e.buf, ' ')
	}
	e.buf = append(e.buf, n.ShortTag()...)
	e.buf = append(e.buf, ' ')
}

// collection writes a mapping or sequence block. lead holds comments written
// as lines right after the opening brace.
func (e *emitter) collection(n *yaml.Node, depth int, open, lead string) {
	e.properties(n)
	closing := byte(']')
	if n.Kind == yaml.MappingNode {
		e.buf = append(e.buf, '{')
		closing = '}'
	} else {
		e.buf = append(e.buf, '[')
	}
	e.lineComment(open)
	e.comments(lead, depth+1)

	inner := depth + 1
	if n.Kind == yaml.MappingNode {
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if i > 0 {
				e.gap(k)
			}
			e.comments(k.HeadComment, inner)
			e.comments(v.HeadComment, inner)

			e.newline(inner)
			e.buf = append(e.buf, "? "...)
			e.node(k, inner, k.LineComment)

			lc := v.LineComment
			if !isCollection(k) {
				lc = joinComments(k.LineComment, lc)
			}
			e.newline(inner)
			e.buf = append(e.buf, ": "...)
			e.entry(v, inner, lc)

			e.comments(k.FootComment, inner)
			e.comments(v.FootComment, inner)
		}
	} else {
		for i, item := range n.Content {
			if i > 0 {
				e.gap(item)
			}
			e.comments(item.HeadComment, inner)
			e.newline(inner)
			e.entry(item, inner, item.LineComment)
			e.comments(item.FootComment, inner)
		}
	}

	e.newline(depth)
	e.buf = append(e.buf, closing)
}

// entry writes a collection element followed by its comma. A scalar's line
// comment goes after the comma, a collection's on its opening line.
func (e *emitter) entry(n *yaml.Node, depth int, comment string) {
	if isCollection(n) {
		e.node(n, depth, comment)
		e.buf = append(e.buf, ',')
		return
	}
	e.node(n, depth, "")
	e.buf = append(e.buf, ',')
	e.lineComment(comment)
}

// gap writes one empty line when the source line above n, and above its head
// comment, is blank.
func (e *emitter) gap(n *yaml.Node) {
	if n.Line == 0 {
		return
	}
	above := n.Line - commentLines(n.HeadComment) - 1
	if above >= 1 && above <= len(e.lines) && strings.TrimSpace(e.lines[above-1]) == "" {
		e.nl()
	}
}

// nl ends the current line. The new line inherits the origin of the one
// before until a node marks it.
func (e *emitter) nl() {
	e.buf = append(e.buf, '\n')
	e.origins = append(e.origins, e.origins[len(e.origins)-1])
}

// mark records n as the origin of the current line.
func (e *emitter) mark(n *yaml.Node) {
	if n.Line > 0 {
		e.origins[len(e.origins)-1] = ast.NewPosition(0, n.Line, n.Column)
	}
}

func (e *emitter) newline(depth int) {
	e.nl()
	for i := 0; i < depth; i++ {
		e.buf = append(e.buf, "  "...)
	}
}

// comments writes each line of a yaml.v3 comment block on its own line.
// Empty lines inside the block are kept as empty lines.
func (e *emitter) comments(text string, depth int) {
	if text == "" {
		return
	}
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			e.nl()
			continue
		}
		e.newline(depth)
		e.buf = append(e.buf, line...)
	}
}

func (e *emitter) lineComment(text string) {
	if text == "" {
		return
	}
	e.buf = append(e.buf, ' ')
	e.buf = append(e.buf, strings.ReplaceAll(text, "\n", " ")...)
}

func joinLines(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + "\n" + b
}

func joinComments(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	}
	return a + " " + b
}

func isCollection(n *yaml.Node) bool {
	return n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode
}

func commentLines(text string) int {
	if text == "" {
		return 0
	}
	return strings.Count(text, "\n") + 1
}
