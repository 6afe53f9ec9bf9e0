package match

import (
	"cmp"
	"slices"
)

// Candidate is one name scored against a lookup target.
type Candidate struct {
	Name     string
	Distance int     // edit distance between normalized forms
	Score    float64 // similarity of normalized forms, 1 is a perfect match
}

// CandidateList is ordered best first.
type CandidateList []Candidate

// Rank scores every name against target. Ties keep a stable lexical order.
func Rank(target string, names []string) CandidateList {
	norm := NormalizeIdent(target)

	out := make(CandidateList, 0, len(names))
	for _, n := range names {
		nn := NormalizeIdent(n)
		out = append(out, Candidate{
			Name:     n,
			Distance: Levenshtein(norm, nn),
			Score:    Similarity(norm, nn),
		})
	}

	slices.SortFunc(out, func(a, b Candidate) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}

		return cmp.Compare(a.Name, b.Name)
	})

	return out
}

// Best returns the top candidate.
func (l CandidateList) Best() (Candidate, bool) {
	if len(l) == 0 {
		return Candidate{}, false
	}

	return l[0], true
}

// Top returns at most n candidates.
func (l CandidateList) Top(n int) CandidateList {
	return l[:min(n, len(l))]
}

// Within keeps the candidates no further than limit edits away.
func (l CandidateList) Within(limit int) CandidateList {
	i := 0
	for i < len(l) && l[i].Distance <= limit {
		i++
	}

	return l[:i]
}

// IsAmbiguous reports whether the two best candidates are equally close.
func (l CandidateList) IsAmbiguous() bool {
	return len(l) > 1 && l[0].Distance == l[1].Distance
}

// Names returns the candidate names in rank order.
func (l CandidateList) Names() []string {
	out := make([]string, len(l))
	for i, c := range l {
		out[i] = c.Name
	}

	return out
}
