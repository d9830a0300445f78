package fts

import (
	"fmt"
	"sort"
	"strings"
)

// Weight is a tsvector weight label. A ranks highest.
type Weight byte

const (
	WeightA Weight = 'A'
	WeightB Weight = 'B'
	WeightC Weight = 'C'
	WeightD Weight = 'D'
)

// Rank multipliers used by ts_rank when no custom weights array is given.
var defaultWeights = map[Weight]float64{
	WeightD: 0.1,
	WeightC: 0.2,
	WeightB: 0.4,
	WeightA: 1.0,
}

func (w Weight) value() float64 {
	return defaultWeights[w]
}

type Position struct {
	Pos    int
	Weight Weight
}

// Vector maps each lexeme to its weighted positions, ordered by position.
type Vector map[string][]Position

// Vectorize computes the weighted representation of an article: title
// lexemes get WeightA, content lexemes WeightB, and content positions
// continue after the last title position. It is the single write-path
// derivation shared by inserts, updates and query-time re-derivation.
func (a *Analyzer) Vectorize(title, content string) Vector {
	v := a.weighted(title, WeightA)
	return v.Concat(a.weighted(content, WeightB))
}

func (a *Analyzer) weighted(text string, w Weight) Vector {
	v := make(Vector)
	for _, tok := range a.tokens(text) {
		term := string(tok.Term)
		if term == "" {
			continue
		}
		v[term] = append(v[term], Position{Pos: tok.Position, Weight: w})
	}
	return v
}

func (v Vector) maxPos() int {
	m := 0
	for _, positions := range v {
		for _, p := range positions {
			if p.Pos > m {
				m = p.Pos
			}
		}
	}
	return m
}

// Concat appends other after v, shifting other's positions past v's last
// position, like the tsvector || operator.
func (v Vector) Concat(other Vector) Vector {
	out := make(Vector, len(v)+len(other))
	for term, positions := range v {
		out[term] = append([]Position(nil), positions...)
	}

	shift := v.maxPos()
	for term, positions := range other {
		for _, p := range positions {
			out[term] = append(out[term], Position{Pos: p.Pos + shift, Weight: p.Weight})
		}
	}
	for term := range out {
		sort.Slice(out[term], func(i, j int) bool { return out[term][i].Pos < out[term][j].Pos })
	}
	return out
}

// Matches reports whether every query lexeme occurs in the vector.
func (v Vector) Matches(q Query) bool {
	if q.IsEmpty() {
		return false
	}
	for _, l := range q.lexemes {
		if _, ok := v[l]; !ok {
			return false
		}
	}
	return true
}

// String renders the vector in tsvector text form, e.g. 'dog':3A,4B.
func (v Vector) String() string {
	terms := make([]string, 0, len(v))
	for term := range v {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	var b strings.Builder
	for i, term := range terms {
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "'%s':", strings.ReplaceAll(term, "'", "''"))
		for j, p := range v[term] {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteString(fmt.Sprint(p.Pos))
			if p.Weight != WeightD {
				b.WriteByte(byte(p.Weight))
			}
		}
	}
	return b.String()
}
