package fts

import "strings"

// Highlight wraps every token of text whose lexeme belongs to q in the
// start and stop markers. A possessive suffix stays outside the markers, as
// with ts_headline. Text without matches is returned unchanged.
func (a *Analyzer) Highlight(text string, q Query, start, stop string) string {
	if q.IsEmpty() || text == "" {
		return text
	}

	var b strings.Builder
	last := 0
	for _, tok := range a.tokens(text) {
		if !q.contains(string(tok.Term)) || tok.Start < last || tok.End > len(text) {
			continue
		}
		end := trimPossessive(text, tok.Start, tok.End)
		b.WriteString(text[last:tok.Start])
		b.WriteString(start)
		b.WriteString(text[tok.Start:end])
		b.WriteString(stop)
		last = end
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

var possessiveSuffixes = []string{"'s", "'S", "\u2019s", "\u2019S", "\uff07s", "\uff07S"}

// trimPossessive returns the end offset of text[start:end] without a
// trailing possessive suffix.
func trimPossessive(text string, start, end int) int {
	span := text[start:end]
	for _, suffix := range possessiveSuffixes {
		if len(span) > len(suffix) && strings.HasSuffix(span, suffix) {
			return end - len(suffix)
		}
	}
	return end
}
