package noves

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ShortenAddress abbreviates a hex address to 0x1234...abcd.
func ShortenAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// FormatType turns a camel-case classification such as "sendToken" into a
// title ("Send Token").
func FormatType(txType string) string {
	var b strings.Builder
	for _, r := range txType {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}

	s := b.String()
	if s != "" {
		r, size := utf8.DecodeRuneInString(s)
		s = string(unicode.ToUpper(r)) + s[size:]
	}
	return strings.TrimSpace(s)
}
