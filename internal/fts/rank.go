package fts

import "math"

// sum(1/i^2) for i = 1..inf
const zeta2 = 1.64493406685

// Rank scores v against q like ts_rank with default weights. Queries parsed
// from plain text are conjunctions, so more than one lexeme is scored by
// proximity of the terms; a single lexeme is scored by its occurrences.
func Rank(v Vector, q Query) float64 {
	if q.IsEmpty() {
		return 0
	}
	var res float64
	if len(q.lexemes) < 2 {
		res = rankOr(v, q)
	} else {
		res = rankAnd(v, q)
	}
	if res < 0 {
		return 1e-20
	}
	return res
}

// rankOr lets each term contribute its strongest weight plus a diminishing
// share of every further occurrence, divided by the number of query terms.
// A title (A) occurrence always outranks a content (B) occurrence.
func rankOr(v Vector, q Query) float64 {
	var res float64
	for _, l := range q.lexemes {
		positions, ok := v[l]
		if !ok {
			continue
		}

		var resj float64
		wjm := -1.0
		jm := 0
		for j, p := range positions {
			w := p.Weight.value()
			d := float64((j + 1) * (j + 1))
			resj += w / d
			if w > wjm {
				wjm = w
				jm = j
			}
		}
		dm := float64((jm + 1) * (jm + 1))
		res += (wjm + resj - wjm/dm) / zeta2
	}

	return res / float64(len(q.lexemes))
}

// rankAnd combines every pair of occurrences of distinct query terms,
// weighting each pair by both weights and by how close the two are. It
// returns -1 when no pair exists.
func rankAnd(v Vector, q Query) float64 {
	res := -1.0
	for i := 1; i < len(q.lexemes); i++ {
		post, ok := v[q.lexemes[i]]
		if !ok {
			continue
		}
		for k := 0; k < i; k++ {
			ct, ok := v[q.lexemes[k]]
			if !ok {
				continue
			}
			for _, a := range post {
				for _, b := range ct {
					dist := a.Pos - b.Pos
					if dist < 0 {
						dist = -dist
					}
					if dist == 0 {
						continue
					}
					curw := math.Sqrt(a.Weight.value() * b.Weight.value() * wordDistance(dist))
					if res < 0 {
						res = curw
					} else {
						res = 1 - (1-res)*(1-curw)
					}
				}
			}
		}
	}
	return res
}

func wordDistance(dist int) float64 {
	if dist > 100 {
		return 1e-30
	}
	return 1 / (1.005 + 0.05*math.Exp(float64(dist)/1.5-2))
}
