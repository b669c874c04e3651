package reconcile

import (
	"io"
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NormalizeIdentifier turns a title or address into a comparison key:
// whitespace and commas are removed and the result is lowercased.
//
//	"G09/1 Queen Street, Blackburn, VIC, 3130" -> "g09/1queenstreetblackburnvic3130"
func NormalizeIdentifier(text string) string {
	stripped := strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, text)
	// Casers are stateful, one per call.
	return cases.Lower(language.Und).String(stripped)
}

// NormalizeText reduces markup or plain text to its ASCII letters and digits.
func NormalizeText(text string) string {
	if text == "" {
		return ""
	}
	plain := plainText(text)

	var sb strings.Builder
	sb.Grow(len(plain))
	for i := 0; i < len(plain); i++ {
		c := plain[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			sb.WriteByte(c)
		}
	}
	return sb.String()
}

// ContainsEither reports whether the shorter string is a contiguous substring
// of the longer one. An empty shorter string always matches.
func ContainsEither(a, b string) bool {
	if len(a) < len(b) {
		return strings.Contains(b, a)
	}
	return strings.Contains(a, b)
}

// plainText extracts the text nodes of an HTML fragment, skipping script and style bodies.
func plainText(fragment string) string {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var sb strings.Builder
	skip := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			if z.Err() == io.EOF {
				return sb.String()
			}
			// Malformed input: fall back to the raw text.
			return fragment
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawTextTag(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawTextTag(name) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				sb.Write(z.Text())
			}
		}
	}
}

func isRawTextTag(name []byte) bool {
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}
