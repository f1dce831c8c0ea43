package match

import (
	"fmt"

	"github.com/BurntSushi/cablastp/blosum"
	"github.com/TuftsBCB/seq"
)

// A Matrix is a substitution matrix with O(1) byte-indexed lookup. It is
// immutable after construction and safe for concurrent readers.
type Matrix struct {
	scores [][]int
	index  [256]int8
}

// NewMatrix builds a Matrix from an alphabet and a square score table whose
// rows and columns follow alphabet order. Lowercase letters in a lookup
// resolve to the score of their uppercase counterpart, since alignment
// displays print flanking residues in lowercase.
//
// NewMatrix panics if the table is not square with one row per alphabet
// symbol; the shipped matrices are package data, so a malformed one is a
// programming error, not an input error.
func NewMatrix(alphabet []byte, scores [][]int) *Matrix {
	if len(scores) < len(alphabet) {
		panic(fmt.Sprintf("match: %d score rows for %d symbols",
			len(scores), len(alphabet)))
	}
	for i := 0; i < len(alphabet); i++ {
		if len(scores[i]) < len(alphabet) {
			panic(fmt.Sprintf("match: score row %d has %d columns, want %d",
				i, len(scores[i]), len(alphabet)))
		}
	}

	m := &Matrix{scores: scores}
	for i := range m.index {
		m.index[i] = -1
	}
	for i := 0; i < len(alphabet); i++ {
		b := alphabet[i]
		m.index[b] = int8(i)
		if b >= 'A' && b <= 'Z' {
			lower := b + ('a' - 'A')
			if m.index[lower] == -1 {
				m.index[lower] = int8(i)
			}
		}
	}
	return m
}

// Score returns the substitution score for a pair of residues, or false if
// either residue is outside the matrix's alphabet.
func (m *Matrix) Score(a, b seq.Residue) (int, bool) {
	i, j := m.index[byte(a)], m.index[byte(b)]
	if i < 0 || j < 0 {
		return 0, false
	}
	return m.scores[i][j], true
}

var (
	blosum62   *Matrix
	nucleotide *Matrix
)

// Blosum62 returns the standard BLOSUM62 protein substitution matrix. The
// returned Matrix is shared; it is read-only.
func Blosum62() *Matrix {
	return blosum62
}

// Nucleotide returns a simple DNA substitution matrix: +5 for a match, -4
// for a mismatch, with 'N' penalized against everything including itself.
// The returned Matrix is shared; it is read-only.
func Nucleotide() *Matrix {
	return nucleotide
}

func init() {
	alpha62 := make([]byte, len(blosum.Alphabet62))
	for i := 0; i < len(blosum.Alphabet62); i++ {
		alpha62[i] = byte(blosum.Alphabet62[i])
	}
	blosum62 = NewMatrix(alpha62, blosum.Matrix62)

	nucAlpha := []byte("ACGTUN")
	nucScores := make([][]int, len(nucAlpha))
	for i := range nucScores {
		nucScores[i] = make([]int, len(nucAlpha))
		for j := range nucScores[i] {
			switch {
			case nucAlpha[i] == 'N' || nucAlpha[j] == 'N':
				nucScores[i][j] = -2
			case i == j, nucAlpha[i] == 'T' && nucAlpha[j] == 'U',
				nucAlpha[i] == 'U' && nucAlpha[j] == 'T':
				nucScores[i][j] = 5
			default:
				nucScores[i][j] = -4
			}
		}
	}
	nucleotide = NewMatrix(nucAlpha, nucScores)
}
