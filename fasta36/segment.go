package fasta36

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"
)

var (
	// "  1>>>query1 some description - 616 nt"
	reQueryTitle = regexp.MustCompile(`^\s*\d+>>>(\S+)(?: .*)? - (\d+) [na][ta]$`)

	// ">>NM_0012 Homo sapiens something (1176 nt)"
	reSubjectTitle = regexp.MustCompile(`^>>(\S+) .*\((\d+) [na][ta]\)$`)
)

// A Block is the raw text of one query/subject alignment, together with the
// header context it was printed under. Query and Subject are the full
// identifiers from the title lines; QueryLen and SubjectLen are the full
// (unaligned) sequence lengths reported there. Line is the 1-based line
// number of the header that opened the block, for error reporting.
type Block struct {
	Query      string
	QueryLen   int
	Subject    string
	SubjectLen int
	Line       int
	Lines      []string
}

// A Segmenter scans a "-m 0" report and yields its alignment blocks in the
// order they appear. It is lazy, finite and non-restartable: once Next has
// returned io.EOF it will do so forever.
//
// A block opens at a subject title line (">>name ... (N aa)") or at a ">--"
// continuation (a further alignment against the same subject), and closes at
// the next subject title, continuation, query title, the ">>><<<" query
// terminator, or end of input. File banners, "The best scores are:" hit
// lists and summary footers belong to no block and are discarded. Input with
// no recognizable titles yields no blocks and no error.
type Segmenter struct {
	scanner *bufio.Scanner
	line    int

	query      string
	queryLen   int
	subject    string
	subjectLen int

	cur  *Block
	err  error
	done bool
}

// NewSegmenter creates a Segmenter reading from r. Reports are single-byte
// ASCII-compatible text; lines may be arbitrarily long only up to bufio's
// default limits, which comfortably exceed fasta36's display width.
func NewSegmenter(r io.Reader) *Segmenter {
	return &Segmenter{scanner: bufio.NewScanner(r)}
}

// Next returns the next alignment block, or io.EOF when the input is
// exhausted. Any other error is an input-stream failure and is terminal.
//
// It is NOT safe to call Next from multiple goroutines.
func (s *Segmenter) Next() (*Block, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.done {
		return s.finish()
	}
	for s.scanner.Scan() {
		s.line++
		line := s.scanner.Text()

		if m := reQueryTitle.FindStringSubmatch(line); m != nil {
			n, ok := atoi(m[2])
			if ok {
				blk := s.close()
				s.query, s.queryLen = m[1], n
				s.subject, s.subjectLen = "", 0
				if blk != nil {
					return blk, nil
				}
				continue
			}
		}
		if strings.HasPrefix(line, ">>><<<") {
			blk := s.close()
			s.subject, s.subjectLen = "", 0
			if blk != nil {
				return blk, nil
			}
			continue
		}
		if s.query != "" {
			if m := reSubjectTitle.FindStringSubmatch(line); m != nil {
				if n, ok := atoi(m[2]); ok {
					blk := s.close()
					s.subject, s.subjectLen = m[1], n
					s.open()
					if blk != nil {
						return blk, nil
					}
					continue
				}
			}
		}
		if line == ">--" && s.subject != "" {
			blk := s.close()
			s.open()
			if blk != nil {
				return blk, nil
			}
			continue
		}

		if s.cur != nil {
			s.cur.Lines = append(s.cur.Lines, line)
		}
	}
	if err := s.scanner.Err(); err != nil {
		s.err = err
		return nil, err
	}
	s.done = true
	return s.finish()
}

// open starts collecting a block for the current query/subject context.
func (s *Segmenter) open() {
	s.cur = &Block{
		Query:      s.query,
		QueryLen:   s.queryLen,
		Subject:    s.subject,
		SubjectLen: s.subjectLen,
		Line:       s.line,
	}
}

// close detaches and returns the block being collected, if any.
func (s *Segmenter) close() *Block {
	blk := s.cur
	s.cur = nil
	return blk
}

// finish hands out the final unterminated block before settling on io.EOF.
func (s *Segmenter) finish() (*Block, error) {
	if blk := s.close(); blk != nil {
		return blk, nil
	}
	s.err = io.EOF
	return nil, io.EOF
}

func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	return n, err == nil
}
