/*
Package tab writes parsed alignments as tab-delimited rows in the style of
fasta36's "-m 8" tabular output, extended with the aligned sequences and the
match pattern. One alignment becomes exactly one row; rows are written in
the order alignments are handed to the Writer.

Numeric columns are rendered from the parsed values, not echoed from the
report text: each float is printed in its shortest form that parses back to
the same value. "0.012" and "1.2e-30" survive a parse/format cycle
unchanged, but a trailing zero does not ("15.0" is printed as "15").
*/
package tab

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/TuftsBCB/seq"

	"github.com/ntzv-git/fasta-parser/fasta36"
)

// Header is the column legend, written as a single "#"-prefixed line.
const Header = "#query\tsubject\tp_ident\taln_len\tmismatches\tgap_opens\t" +
	"q_start\tq_end\ts_start\ts_end\tevalue\tbit_score\tp_sim\tgaps\t" +
	"q_len\ts_len\tm_aln\tq_aln\ts_aln"

// A Writer writes alignments as TSV rows.
type Writer struct {
	buf *bufio.Writer
}

// NewWriter creates a new tabular writer on top of w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{buf: bufio.NewWriter(w)}
}

// WriteHeader writes the column legend. Call it at most once, before any
// rows.
func (w *Writer) WriteHeader() error {
	_, err := w.buf.WriteString(Header + "\n")
	return err
}

// Write writes one alignment as one row. Float columns (percentages,
// evalue, bit_score) are rendered in shortest round-trip form; see the
// package comment.
//
// You may need to call Flush in order for the row to reach the underlying
// io.Writer.
func (w *Writer) Write(a *fasta36.Alignment) error {
	cols := []string{
		a.Query,
		a.Subject,
		formatFloat(a.PercentIdent),
		strconv.Itoa(a.Length),
		strconv.Itoa(a.Mismatches),
		strconv.Itoa(a.GapOpens),
		strconv.Itoa(a.QueryStart),
		strconv.Itoa(a.QueryEnd),
		strconv.Itoa(a.SubjectStart),
		strconv.Itoa(a.SubjectEnd),
		formatFloat(a.EValue),
		formatFloat(a.BitScore),
		formatFloat(a.PercentSim),
		strconv.Itoa(a.Gaps),
		strconv.Itoa(a.QueryLen),
		strconv.Itoa(a.SubjectLen),
		string(a.Pattern),
		residueString(a.QSeq),
		residueString(a.SSeq),
	}
	_, err := w.buf.WriteString(strings.Join(cols, "\t") + "\n")
	return err
}

// WriteAll writes a slice of alignments and calls Flush.
func (w *Writer) WriteAll(alns []*fasta36.Alignment) error {
	for _, a := range alns {
		if err := w.Write(a); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes any buffered rows to the underlying io.Writer.
func (w *Writer) Flush() error {
	return w.buf.Flush()
}

// formatFloat renders a float the way the report printed it: shortest
// representation that round-trips, scientific notation only when shorter
// (so "0.012" and "1.2e-30" both survive a parse/format cycle).
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func residueString(rs []seq.Residue) string {
	bs := make([]byte, len(rs))
	for i, r := range rs {
		bs[i] = byte(r)
	}
	return string(bs)
}
