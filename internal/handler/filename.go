package handler

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// contentDisposition builds an inline disposition carrying both filename
// parameters: an ASCII-safe fallback for older clients and an RFC 5987
// percent-encoded UTF-8 name for modern ones.
func contentDisposition(filename string) string {
	return fmt.Sprintf(`inline; filename="%s"; filename*=UTF-8''%s`,
		fallbackFilename(filename), rfc5987Encode(filename))
}

// fallbackFilename strips diacritics via canonical decomposition, replaces
// any remaining non-printable or non-ASCII byte with '_', and drops quote
// and backslash characters so the quoted string stays well-formed.
func fallbackFilename(filename string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(filename) {
		switch {
		case unicode.Is(unicode.Mn, r):
			// combining mark left over from decomposition
		case r == '"' || r == '\\':
		case r < 0x20 || r > 0x7e:
			b.WriteByte('_')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// rfc5987Encode percent-encodes a UTF-8 string for use in a filename*
// parameter, keeping only attr-char bytes literal.
func rfc5987Encode(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
		} else {
			fmt.Fprintf(&b, "%%%02X", c)
		}
	}
	return b.String()
}

// attr-char from RFC 5987: ALPHA / DIGIT / !#$&+-.^_`|~
func isAttrChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	switch c {
	case '!', '#', '$', '&', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}
