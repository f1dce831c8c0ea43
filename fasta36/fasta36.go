package fasta36

import (
	"errors"
	"fmt"
	"io"

	"github.com/TuftsBCB/seq"

	"github.com/ntzv-git/fasta-parser/match"
)

// Errors wrapped by *BlockError to classify why a block was rejected.
// Unknown-symbol rejections wrap match.ErrUnknownSymbol.
var (
	ErrMissingField   = errors.New("required field missing or unparsable")
	ErrLengthMismatch = errors.New("reconstructed length disagrees with reported overlap")
)

// A BlockError reports a block that had to be rejected. It identifies the
// failing alignment and wraps one of the error values above (or
// match.ErrUnknownSymbol), so callers can test the class with errors.Is.
// A BlockError never invalidates the reader that produced it.
type BlockError struct {
	Query   string
	Subject string
	Line    int
	Err     error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("alignment %s/%s (line %d): %s",
		e.Query, e.Subject, e.Line, e.Err)
}

func (e *BlockError) Unwrap() error { return e.Err }

// An Alignment is one parsed query/subject alignment: the statistics
// reported by the search program, the two reconstructed aligned sequences
// (gap characters preserved), the regenerated match pattern, and the
// mutation counts derived from the sequences. Values reported by the tool
// are carried as reported, not recomputed.
type Alignment struct {
	Query      string
	Subject    string
	QueryLen   int // full query length, in Unit
	SubjectLen int // full subject length, in Unit

	RawScore int     // Smith-Waterman (or program-specific) raw score
	BitScore float64 // bit score from the statistics line
	EValue   float64 // expectation value from the statistics line

	PercentIdent float64
	PercentSim   float64
	Length       int    // alignment columns in the overlap
	Unit         string // "aa" or "nt"

	QueryStart   int // 1-based, inclusive
	QueryEnd     int
	SubjectStart int
	SubjectEnd   int

	// Derived from the reconstructed sequences, with gap columns excluded
	// from the mismatch count.
	Mismatches int
	Gaps       int
	GapOpens   int

	QSeq    []seq.Residue
	SSeq    []seq.Residue
	Pattern []byte
}

// A Reader reads alignments from a "-m 0" report.
//
// Scorer drives match-pattern generation and may be replaced before the
// first call to Read; it defaults to the BLOSUM62 matrix. The Scorer is
// only ever read, so one Reader per goroutine may share it.
type Reader struct {
	Scorer match.Scorer
	seg    *Segmenter
}

// NewReader creates a Reader parsing the report from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{
		Scorer: match.Blosum62(),
		seg:    NewSegmenter(r),
	}
}

// Read returns the next alignment in the report. It returns io.EOF once the
// input is exhausted.
//
// A *BlockError return rejects that block only: the Reader stays positioned
// on the following block, so callers implementing partial-failure tolerance
// simply keep calling Read. Any other error is an input-stream failure and
// is terminal.
//
// It is NOT safe to call Read from multiple goroutines. For concurrent
// parsing, drive a Segmenter yourself and hand the blocks to ParseBlock,
// which is a pure function.
func (r *Reader) Read() (*Alignment, error) {
	blk, err := r.seg.Next()
	if err != nil {
		return nil, err
	}
	return ParseBlock(blk, r.Scorer)
}

// ReadAll reads the report to completion, collecting every alignment that
// parsed cleanly along with the rejected blocks. Rejections never abort the
// read; only an input-stream failure does, in which case the partial results
// are returned alongside the error.
func (r *Reader) ReadAll() ([]*Alignment, []*BlockError, error) {
	var (
		alns    []*Alignment
		rejects []*BlockError
	)
	for {
		aln, err := r.Read()
		if err == io.EOF {
			return alns, rejects, nil
		}
		var berr *BlockError
		if errors.As(err, &berr) {
			rejects = append(rejects, berr)
			continue
		}
		if err != nil {
			return alns, rejects, err
		}
		alns = append(alns, aln)
	}
}
