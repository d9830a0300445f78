package query

import (
	"fmt"
	"strings"
)

const (
	DefaultStartSel = "<b>"
	DefaultStopSel  = "</b>"
)

// Highlight configures how matched terms are marked in returned excerpts.
// MaxWords, MinWords and MaxFragments map onto ts_headline options and are
// left to the backend default when zero.
type Highlight struct {
	StartSel     string
	StopSel      string
	MaxWords     int
	MinWords     int
	MaxFragments int
}

func DefaultHighlight() Highlight {
	return Highlight{
		StartSel: DefaultStartSel,
		StopSel:  DefaultStopSel,
	}
}

// WithDefaults fills empty markers with DefaultStartSel and DefaultStopSel.
func (h Highlight) WithDefaults() Highlight {
	if h.StartSel == "" {
		h.StartSel = DefaultStartSel
	}
	if h.StopSel == "" {
		h.StopSel = DefaultStopSel
	}
	return h
}

func (h Highlight) Validate() error {
	if h.MaxWords < 0 || h.MinWords < 0 || h.MaxFragments < 0 {
		return fmt.Errorf("highlight word and fragment limits must not be negative")
	}
	if h.MaxWords > 0 && h.MinWords >= h.MaxWords {
		return fmt.Errorf("highlight MinWords (%d) must be less than MaxWords (%d)", h.MinWords, h.MaxWords)
	}
	return nil
}

// HeadlineOptions renders the options string accepted by PostgreSQL's
// ts_headline, e.g. `StartSel="<b>", StopSel="</b>"`.
func (h Highlight) HeadlineOptions() string {
	h = h.WithDefaults()
	opts := []string{
		"StartSel=" + quoteHeadlineValue(h.StartSel),
		"StopSel=" + quoteHeadlineValue(h.StopSel),
	}
	if h.MaxWords > 0 {
		opts = append(opts, fmt.Sprintf("MaxWords=%d", h.MaxWords))
	}
	if h.MinWords > 0 {
		opts = append(opts, fmt.Sprintf("MinWords=%d", h.MinWords))
	}
	if h.MaxFragments > 0 {
		opts = append(opts, fmt.Sprintf("MaxFragments=%d", h.MaxFragments))
	}
	return strings.Join(opts, ", ")
}

func quoteHeadlineValue(v string) string {
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}
