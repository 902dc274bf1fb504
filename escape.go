package evx

import (
	"unicode"
	"unicode/utf8"
)

const hexdigits = "0123456789abcdef"

// QuotedString renders data as a double-quoted, escaped literal.  When bstr
// is true, bytes that do not decode as UTF-8 are hex-escaped instead of
// passed through.
func QuotedString(data []byte, bstr bool) string {
	var out []byte
	var start int
	out = append(out, '"')
	for i := 0; i < len(data); {
		r, l := utf8.DecodeRune(data[i:])
		if c := esc(r); c != 0 {
			out = append(out, data[start:i]...)
			out = append(out, '\\', c)
			i++
			start = i
			continue
		}
		if (r == utf8.RuneError && bstr) || !unicode.IsPrint(r) {
			out = append(out, data[start:i]...)
			c := data[i]
			out = append(out, '\\', 'x', hexdigits[c>>4], hexdigits[c&0xf])
			i++
			start = i
		} else {
			i += l
		}
	}
	out = append(out, data[start:]...)
	out = append(out, '"')
	return string(out)
}

func esc(r rune) byte {
	switch r {
	case '\\':
		return '\\'
	case '"':
		return '"'
	case '\b':
		return 'b'
	case '\f':
		return 'f'
	case '\n':
		return 'n'
	case '\r':
		return 'r'
	case '\t':
		return 't'
	}
	return 0
}

// IsIdentifier returns true if s is a bare identifier needing no quoting.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	first := true
	for _, c := range s {
		if !unicode.IsLetter(c) && c != '_' && (first || !unicode.IsDigit(c)) {
			return false
		}
		first = false
	}
	return true
}

// QuotedName quotes name only if it is not a bare identifier.
func QuotedName(name string) string {
	if !IsIdentifier(name) {
		name = QuotedString([]byte(name), false)
	}
	return name
}
