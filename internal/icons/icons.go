// Package icons derives chain logos: the hosted logo URL when it exists, and a
// deterministic generated icon (coloured circle with initials) when it does not.
package icons

import (
	"encoding/base64"
	"fmt"
	"html"
	"image/color"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	saturation = 0.70
	lightness  = 0.60
)

// Hue hashes s over its UTF-16 code units with 32-bit shift semantics and
// folds the result into [0, 360).
func Hue(s string) int {
	var hash int64
	for _, code := range utf16.Encode([]rune(s)) {
		hash = int64(code) + (int64(int32(hash)<<5) - hash)
	}
	hue := hash % 360
	if hue < 0 {
		hue = -hue
	}
	return int(hue)
}

func Color(s string) string {
	return fmt.Sprintf("hsl(%d, %d%%, %d%%)", Hue(s), int(saturation*100), int(lightness*100))
}

func RGBA(s string) color.RGBA {
	r, g, b := colorful.Hsl(float64(Hue(s)), saturation, lightness).Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}

// Initials returns the upper-cased first letter of each of the first two
// whitespace-separated words. Leading whitespace counts as an empty first
// word, so " a b" yields "A".
func Initials(s string) string {
	words := strings.Fields(s)
	if r, _ := utf8.DecodeRuneInString(s); len(words) > 0 && unicode.IsSpace(r) {
		words = append([]string{""}, words...)
	}

	var b strings.Builder
	for i, word := range words {
		if i == 2 {
			break
		}
		if word == "" {
			continue
		}
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}

func SVG(chain string) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100 100">`+
		`<circle cx="50" cy="50" r="50" fill="%s"/>`+
		`<text x="50" y="50" dy="0.35em" fill="white" font-family="Arial, sans-serif" font-size="40" text-anchor="middle">%s</text>`+
		`</svg>`, Color(chain), html.EscapeString(Initials(chain)))
}

func DataURI(chain string) string {
	return "data:image/svg+xml," + encodeURIComponent(SVG(chain))
}

func DataURIBase64(chain string) string {
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(SVG(chain)))
}

// encodeURIComponent percent-encodes everything except the unreserved marks
// browsers leave alone in a URI component.
func encodeURIComponent(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	b.Grow(len(s) * 2)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isUnreserved(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("-_.!~*'()", c) >= 0
}
