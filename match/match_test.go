package match

import (
	"errors"
	"testing"

	"github.com/TuftsBCB/seq"
	"github.com/stretchr/testify/assert"
)

func residues(s string) []seq.Residue {
	rs := make([]seq.Residue, len(s))
	for i := 0; i < len(s); i++ {
		rs[i] = seq.Residue(s[i])
	}
	return rs
}

func TestPatternRules(t *testing.T) {
	// Under BLOSUM62: C/G scores -3 (space), T/A scores 0 (compatible).
	pat, err := Pattern(residues("AC-GT"), residues("AG-GA"), Blosum62())
	assert.NoError(t, err)
	assert.Equal(t, ":  :.", string(pat))
}

func TestPatternGapColumns(t *testing.T) {
	pat, err := Pattern(residues("A--A"), residues("-AAA"), Blosum62())
	assert.NoError(t, err)
	for _, i := range []int{0, 1, 2} {
		assert.Equal(t, byte(' '), pat[i], "column %d touches a gap", i)
	}
	assert.Equal(t, byte(':'), pat[3])
}

func TestPatternCaseSensitivity(t *testing.T) {
	// Lowercase resolves to the uppercase score, but ':' requires byte
	// equality, so a/A is merely compatible.
	pat, err := Pattern(residues("aA"), residues("AA"), Blosum62())
	assert.NoError(t, err)
	assert.Equal(t, ".:", string(pat))
}

func TestPatternIdempotent(t *testing.T) {
	q, s := residues("MKV-LH"), residues("MRVQL-")
	first, err := Pattern(q, s, Blosum62())
	assert.NoError(t, err)
	second, err := Pattern(q, s, Blosum62())
	assert.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Len(t, first, len(q))
}

func TestPatternLengthDisagreement(t *testing.T) {
	_, err := Pattern(residues("ACGT"), residues("ACG"), Blosum62())
	assert.Error(t, err)
}

func TestPatternUnknownSymbol(t *testing.T) {
	_, err := Pattern(residues("MKOL"), residues("MKLL"), Blosum62())
	assert.True(t, errors.Is(err, ErrUnknownSymbol), "got %v", err)
	assert.Contains(t, err.Error(), "'O'")
}

func TestPatternScorerFunc(t *testing.T) {
	// An identity scorer as a bare function: everything known, nothing
	// compatible.
	identity := ScorerFunc(func(a, b seq.Residue) (int, bool) {
		if a == b {
			return 1, true
		}
		return -1, true
	})
	pat, err := Pattern(residues("AXA"), residues("AYA"), identity)
	assert.NoError(t, err)
	assert.Equal(t, ": :", string(pat))
}

func TestBlosum62Symmetry(t *testing.T) {
	alpha := "ARNDCQEGHILKMFPSTWYV"
	m := Blosum62()
	for i := 0; i < len(alpha); i++ {
		for j := 0; j < len(alpha); j++ {
			a, b := seq.Residue(alpha[i]), seq.Residue(alpha[j])
			ab, ok1 := m.Score(a, b)
			ba, ok2 := m.Score(b, a)
			if !ok1 || !ok2 {
				t.Fatalf("%c/%c not in BLOSUM62 alphabet", a, b)
			}
			if ab != ba {
				t.Fatalf("score(%c,%c) = %d but score(%c,%c) = %d",
					a, b, ab, b, a, ba)
			}
		}
	}
}

func TestNucleotideMatrix(t *testing.T) {
	m := Nucleotide()

	score, ok := m.Score('A', 'A')
	assert.True(t, ok)
	assert.Equal(t, 5, score)

	score, ok = m.Score('T', 'U')
	assert.True(t, ok)
	assert.Equal(t, 5, score)

	score, ok = m.Score('A', 'C')
	assert.True(t, ok)
	assert.Equal(t, -4, score)

	score, ok = m.Score('N', 'N')
	assert.True(t, ok)
	assert.Equal(t, -2, score)

	_, ok = m.Score('E', 'E')
	assert.False(t, ok, "'E' is not a nucleotide")
}

func TestMutations(t *testing.T) {
	q := residues("-ACTGT")
	s := residues("AATCG-")
	mismatches, gaps, gapOpens := Mutations(q, s)
	assert.Equal(t, 2, mismatches, "columns 2 (C/T) and 3 (T/C)")
	assert.Equal(t, 2, gaps)
	assert.Equal(t, 2, gapOpens, "a leading gap opens a run")
}

func TestMutationsGapRuns(t *testing.T) {
	q := residues("AC--GT")
	s := residues("ACGTGT")
	_, gaps, gapOpens := Mutations(q, s)
	assert.Equal(t, 2, gaps)
	assert.Equal(t, 1, gapOpens, "one run of two gaps")
}
