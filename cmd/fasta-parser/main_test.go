package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/ntzv-git/fasta-parser/fasta36"
	"github.com/ntzv-git/fasta-parser/match"
)

// makeReport builds a synthetic "-m 0" report with one block per subject
// SUBJ0000, SUBJ0001, ... Blocks whose index appears in broken report a 10
// column overlap while printing only 5, so they must be rejected.
func makeReport(n int, broken map[int]bool) string {
	var b strings.Builder
	b.WriteString("  1>>>query1 - 40 nt\n")
	for i := 0; i < n; i++ {
		overlap := "5 nt overlap (1-5:1-5)"
		if broken[i] {
			overlap = "10 nt overlap (1-10:1-10)"
		}
		fmt.Fprintf(&b, `>>SUBJ%04d synthetic subject (50 nt)
 initn:  30 init1:  30 opt:  30  Z-score: 40.0  bits: 12.0 E(2): 0.5
Smith-Waterman score: 30; 100.0%% identity (100.0%% similar) in %s

query1 ACGTA
       :::::
SUBJ00 ACGTA

`, i, overlap)
	}
	b.WriteString(">>><<<\n")
	return b.String()
}

// collectSubjects runs the parallel fan-out and records, in emit order, the
// subject of every alignment and every rejection.
func collectSubjects(t *testing.T, report string, workers int) (
	subjects []string, rejects []*fasta36.BlockError) {

	emit := func(aln *fasta36.Alignment, err error) {
		var berr *fasta36.BlockError
		if errors.As(err, &berr) {
			subjects = append(subjects, berr.Subject)
			rejects = append(rejects, berr)
			return
		}
		if err != nil {
			t.Fatalf("%s", err)
		}
		subjects = append(subjects, aln.Subject)
	}
	parallel(strings.NewReader(report), match.Blosum62(), workers, emit)
	return subjects, rejects
}

func TestParallelPreservesOrder(t *testing.T) {
	const n = 50
	subjects, rejects := collectSubjects(t, makeReport(n, nil), 8)

	if len(rejects) != 0 {
		t.Fatalf("expected no rejected blocks, got %d: %s",
			len(rejects), rejects[0])
	}
	if len(subjects) != n {
		t.Fatalf("expected %d alignments, got %d", n, len(subjects))
	}
	for i, got := range subjects {
		if want := fmt.Sprintf("SUBJ%04d", i); got != want {
			t.Fatalf("block %d out of order: got %s, want %s", i, got, want)
		}
	}
}

func TestParallelRejectsMidStream(t *testing.T) {
	const n = 20
	subjects, rejects :=
		collectSubjects(t, makeReport(n, map[int]bool{7: true}), 4)

	if len(rejects) != 1 {
		t.Fatalf("expected 1 rejected block, got %d", len(rejects))
	}
	if rejects[0].Subject != "SUBJ0007" ||
		!errors.Is(rejects[0], fasta36.ErrLengthMismatch) {
		t.Fatalf("wrong rejection: %s", rejects[0])
	}
	// The rejection surfaces in block position, and every other block
	// still comes through in input order.
	if len(subjects) != n {
		t.Fatalf("expected %d emissions, got %d", n, len(subjects))
	}
	for i, got := range subjects {
		if want := fmt.Sprintf("SUBJ%04d", i); got != want {
			t.Fatalf("emission %d out of order: got %s, want %s",
				i, got, want)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	report := makeReport(12, map[int]bool{3: true, 9: true})

	var seq []string
	sequential(strings.NewReader(report), match.Blosum62(),
		func(aln *fasta36.Alignment, err error) {
			var berr *fasta36.BlockError
			if errors.As(err, &berr) {
				seq = append(seq, "rejected:"+berr.Subject)
				return
			}
			if err != nil {
				t.Fatalf("%s", err)
			}
			seq = append(seq, aln.Subject)
		})

	var par []string
	emit := func(aln *fasta36.Alignment, err error) {
		var berr *fasta36.BlockError
		if errors.As(err, &berr) {
			par = append(par, "rejected:"+berr.Subject)
			return
		}
		if err != nil {
			t.Fatalf("%s", err)
		}
		par = append(par, aln.Subject)
	}
	parallel(strings.NewReader(report), match.Blosum62(), 3, emit)

	if len(seq) != len(par) {
		t.Fatalf("sequential emitted %d, parallel %d", len(seq), len(par))
	}
	for i := range seq {
		if seq[i] != par[i] {
			t.Fatalf("emission %d differs: sequential %s, parallel %s",
				i, seq[i], par[i])
		}
	}
}
