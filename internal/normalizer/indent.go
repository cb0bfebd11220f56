package normalizer

// Indent is the indentation added per nesting level.
const Indent = "  "

// Pre-computed indent byte arrays to avoid strings.Repeat on the hot path
const maxCachedIndent = 32

var indentTable [maxCachedIndent][]byte

func init() {
	for i := range indentTable {
		indentTable[i] = make([]byte, i*len(Indent))
		for j := range indentTable[i] {
			indentTable[i][j] = ' '
		}
	}
}

// appendIndent appends level indentation steps to buf. A negative level,
// the depth of top-level content, appends nothing.
func appendIndent(buf []byte, level int) []byte {
	if level <= 0 {
		return buf
	}
	if level < maxCachedIndent {
		return append(buf, indentTable[level]...)
	}
	for i := 0; i < level; i++ {
		buf = append(buf, Indent...)
	}
	return buf
}
