package fasta36

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/TuftsBCB/seq"

	"github.com/ntzv-git/fasta-parser/match"
)

var (
	// " initn:  60 init1:  60 opt:  60  Z-score: 80.6  bits: 19.2 E(100): 0.0021"
	reStats = regexp.MustCompile(`^ .+ bits: (.+) E\(\d+\): (.+)$`)

	// "Smith-Waterman score: 60; 85.0% identity (90.0% similar) in 20 nt
	//  overlap (3-22:1-20)" (one line in the report)
	reScore = regexp.MustCompile(
		`^\w.+score: (\d+); (.+)% identity \((.+)% similar\) ` +
			`in (\d+) ([na][ta]) overlap \((\d+)-(\d+):(\d+)-(\d+)\)$`)

	// A sequence line in the alignment graph: display name, then the
	// fragment. The fragment's byte span fixes the column window shared by
	// the query line, the midline and the subject line of a wrap segment.
	reFragment = regexp.MustCompile(`^\S+\s+(\S+)\s*$`)
)

// ParseBlock parses one alignment block: it extracts the labeled statistic
// fields, reassembles the wrapped query and subject sequence fragments, and
// regenerates the match pattern with scorer. It is a pure function of the
// block's text and may be called concurrently on distinct blocks sharing a
// read-only scorer.
//
// Every failure is returned as a *BlockError; the block is rejected whole,
// never as a partial Alignment.
func ParseBlock(blk *Block, scorer match.Scorer) (*Alignment, error) {
	aln := &Alignment{
		Query:      blk.Query,
		QueryLen:   blk.QueryLen,
		Subject:    blk.Subject,
		SubjectLen: blk.SubjectLen,
	}

	var qa, sa []seq.Residue
	var window [2]int
	sawStats, sawScore, wantSubject := false, false, false
	qpre, spre := displayPrefix(blk.Query), displayPrefix(blk.Subject)

	for _, line := range blk.Lines {
		if !sawScore {
			if m := reStats.FindStringSubmatch(line); m != nil && !sawStats {
				bits, err1 := parseFloat(m[1])
				evalue, err2 := parseFloat(m[2])
				if err1 != nil || err2 != nil {
					return nil, blk.reject(fmt.Errorf(
						"statistics line %q: %w", line, ErrMissingField))
				}
				aln.BitScore, aln.EValue = bits, evalue
				sawStats = true
				continue
			}
			if m := reScore.FindStringSubmatch(line); m != nil {
				if err := fillScore(aln, m); err != nil {
					return nil, blk.reject(err)
				}
				sawScore = true
			}
			continue
		}

		// Alignment graph. A query line opens a wrap segment and fixes the
		// column window; the matching subject line closes it. Rulers,
		// midlines and blank lines never match either prefix.
		if wantSubject && strings.HasPrefix(line, spre) {
			sa = appendResidues(sa, clip(line, window))
			wantSubject = false
			continue
		}
		if strings.HasPrefix(line, qpre) {
			if loc := reFragment.FindStringSubmatchIndex(line); loc != nil {
				window = [2]int{loc[2], loc[3]}
				qa = appendResidues(qa, line[loc[2]:loc[3]])
				wantSubject = true
			}
		}
	}

	if !sawStats {
		return nil, blk.reject(fmt.Errorf("statistics (bits/E) line: %w",
			ErrMissingField))
	}
	if !sawScore {
		return nil, blk.reject(fmt.Errorf("score/identity/overlap line: %w",
			ErrMissingField))
	}
	if len(qa) != aln.Length || len(sa) != aln.Length {
		return nil, blk.reject(fmt.Errorf(
			"%w: query %d, subject %d, reported %d",
			ErrLengthMismatch, len(qa), len(sa), aln.Length))
	}

	pat, err := match.Pattern(qa, sa, scorer)
	if err != nil {
		return nil, blk.reject(err)
	}
	aln.QSeq, aln.SSeq, aln.Pattern = qa, sa, pat
	aln.Mismatches, aln.Gaps, aln.GapOpens = match.Mutations(qa, sa)
	return aln, nil
}

// fillScore loads the submatches of reScore into aln. The integer groups
// are guaranteed digits by the pattern, but not guaranteed to fit an int,
// so every parse error rejects the block.
func fillScore(aln *Alignment, m []string) error {
	ident, err1 := parseFloat(m[2])
	sim, err2 := parseFloat(m[3])
	if err1 != nil || err2 != nil {
		return fmt.Errorf("identity/similarity percentages %q, %q: %w",
			m[2], m[3], ErrMissingField)
	}

	var err error
	num := func(s string) int {
		n, e := strconv.Atoi(s)
		if e != nil && err == nil {
			err = fmt.Errorf("numeric field %q: %w", s, ErrMissingField)
		}
		return n
	}
	aln.RawScore = num(m[1])
	aln.PercentIdent = ident
	aln.PercentSim = sim
	aln.Length = num(m[4])
	aln.Unit = m[5]
	aln.QueryStart = num(m[6])
	aln.QueryEnd = num(m[7])
	aln.SubjectStart = num(m[8])
	aln.SubjectEnd = num(m[9])
	return err
}

func (b *Block) reject(err error) *BlockError {
	return &BlockError{
		Query:   b.Query,
		Subject: b.Subject,
		Line:    b.Line,
		Err:     err,
	}
}

// displayPrefix returns the part of an identifier that survives in the
// alignment graph's name column, where fasta36 truncates long names. Four
// bytes is what the display format guarantees.
func displayPrefix(id string) string {
	if len(id) > 4 {
		return id[:4]
	}
	return id
}

// clip slices line to the column window, tolerating a short final line.
func clip(line string, window [2]int) string {
	s, e := window[0], window[1]
	if s > len(line) {
		s = len(line)
	}
	if e > len(line) {
		e = len(line)
	}
	return line[s:e]
}

func appendResidues(rs []seq.Residue, frag string) []seq.Residue {
	for i := 0; i < len(frag); i++ {
		rs = append(rs, seq.Residue(frag[i]))
	}
	return rs
}

func parseFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
