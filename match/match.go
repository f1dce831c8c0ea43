package match

import (
	"errors"
	"fmt"

	"github.com/TuftsBCB/seq"
)

// Gap is the character denoting an insertion/deletion column in an
// aligned sequence.
const Gap seq.Residue = '-'

// ErrUnknownSymbol is wrapped by errors returned when a residue is absent
// from the scoring alphabet.
var ErrUnknownSymbol = errors.New("residue not in scoring alphabet")

// A Scorer returns the compatibility score for an ordered pair of residue
// symbols. The second return value is false when either symbol is outside
// the scorer's alphabet; callers must treat that as an error, never as a
// default score.
type Scorer interface {
	Score(a, b seq.Residue) (int, bool)
}

// ScorerFunc adapts a plain function to the Scorer interface.
type ScorerFunc func(a, b seq.Residue) (int, bool)

func (f ScorerFunc) Score(a, b seq.Residue) (int, bool) {
	return f(a, b)
}

// Pattern computes the match pattern for two aligned sequences of equal
// length. For each column it emits ':' if the residues are equal (byte
// equality, so case matters) and neither is a gap, '.' if both are non-gap
// and their compatibility score is non-negative, and ' ' otherwise.
//
// Pattern is a pure function: it holds no state and may be called from any
// number of goroutines with a shared Scorer, provided the Scorer itself is
// read-only.
//
// An error is returned if the sequences differ in length or if a non-gap
// residue is not in the scorer's alphabet.
func Pattern(query, subject []seq.Residue, scorer Scorer) ([]byte, error) {
	if len(query) != len(subject) {
		return nil, fmt.Errorf(
			"aligned sequences have lengths %d and %d",
			len(query), len(subject))
	}
	pat := make([]byte, len(query))
	for i := range query {
		a, b := query[i], subject[i]
		if a == Gap || b == Gap {
			pat[i] = ' '
			continue
		}
		score, ok := scorer.Score(a, b)
		if !ok {
			return nil, unknownSymbol(scorer, a, b, i)
		}
		switch {
		case a == b:
			pat[i] = ':'
		case score >= 0:
			pat[i] = '.'
		default:
			pat[i] = ' '
		}
	}
	return pat, nil
}

// unknownSymbol names the offending residue of a failed pair lookup.
func unknownSymbol(scorer Scorer, a, b seq.Residue, col int) error {
	bad := a
	if _, ok := scorer.Score(a, a); ok {
		bad = b
	}
	return fmt.Errorf("column %d: '%c': %w", col, bad, ErrUnknownSymbol)
}

// Mutations counts mismatches, gaps and gap openings between two aligned
// sequences of equal length. A mismatch is a column where both residues are
// non-gap and differ; the gap count is the total number of gap characters
// across both sequences; a gap opening is a gap character whose predecessor
// is not a gap (a leading gap opens a run).
func Mutations(query, subject []seq.Residue) (mismatches, gaps, gapOpens int) {
	for _, s := range [][]seq.Residue{query, subject} {
		for i, r := range s {
			if r != Gap {
				continue
			}
			gaps++
			if i == 0 || s[i-1] != Gap {
				gapOpens++
			}
		}
	}
	for i := range query {
		if query[i] != Gap && subject[i] != Gap && query[i] != subject[i] {
			mismatches++
		}
	}
	return mismatches, gaps, gapOpens
}
