package query

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// MaxLength caps the number of runes kept from a raw query. Longer input is
// truncated, never rejected.
const MaxLength = 1000

// Text is a natural-language search query after normalization. It carries no
// operator syntax: backends parse it with plain-text semantics where every
// remaining term must match.
type Text struct {
	raw       string
	value     string
	truncated bool
}

// NewText normalizes raw user input: NFC composition, control characters
// replaced by spaces, whitespace collapsed, length capped at MaxLength runes.
func NewText(raw string) Text {
	s := norm.NFC.String(raw)
	s = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
	s = strings.Join(strings.Fields(s), " ")

	truncated := false
	if utf8.RuneCountInString(s) > MaxLength {
		s = strings.TrimSpace(string([]rune(s)[:MaxLength]))
		truncated = true
	}

	return Text{raw: raw, value: s, truncated: truncated}
}

// Value is the normalized query passed to the search backend.
func (t Text) Value() string {
	return t.value
}

// Raw is the query exactly as the caller supplied it.
func (t Text) Raw() string {
	return t.raw
}

func (t Text) IsBlank() bool {
	return t.value == ""
}

func (t Text) Truncated() bool {
	return t.truncated
}

func (t Text) String() string {
	return t.value
}
