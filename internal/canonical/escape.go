package canonical

const hexDigits = "0123456789abcdef"

// appendEscaped appends s to buf escaped for a double-quoted scalar (without
// surrounding quotes). Control bytes without a short escape become \xNN.
func appendEscaped(buf []byte, s string) []byte {
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		var esc byte
		switch c {
		case '"':
			esc = '"'
		case '\\':
			esc = '\\'
		case '\n':
			esc = 'n'
		case '\r':
			esc = 'r'
		case '\t':
			esc = 't'
		default:
			if c >= 0x20 && c != 0x7f {
				continue
			}
			buf = append(buf, s[start:i]...)
			buf = append(buf, '\\', 'x', hexDigits[c>>4], hexDigits[c&0xf])
			start = i + 1
			continue
		}
		buf = append(buf, s[start:i]...)
		buf = append(buf, '\\', esc)
		start = i + 1
	}
	buf = append(buf, s[start:]...)
	return buf
}
