// Command fasta-parser converts the human-readable "-m 0" report of the
// fasta36 search programs into a "-m 8"-style tab-delimited table, with the
// reconstructed aligned sequences and the regenerated match pattern appended
// to every row.
//
// Rejected blocks are logged and skipped; they never abort the run.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path"
	"runtime"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/ntzv-git/fasta-parser/fasta36"
	"github.com/ntzv-git/fasta-parser/match"
	"github.com/ntzv-git/fasta-parser/tab"
)

var (
	flagInput   string
	flagOutput  string
	flagMatrix  string
	flagWorkers int
	flagVerbose bool
)

func init() {
	flag.StringVar(&flagInput, "i", "",
		"path to the input '-m 0' alignment report (required)")
	flag.StringVar(&flagOutput, "o", "-",
		"path to the output tabular file ('-' for stdout)")
	flag.StringVar(&flagMatrix, "matrix", "blosum62",
		"scoring table for the match pattern: blosum62 or dna")
	flag.IntVar(&flagWorkers, "workers", runtime.NumCPU(),
		"number of goroutines parsing alignment blocks")
	flag.BoolVar(&flagVerbose, "verbose", false, "enable debug logging")
	flag.Usage = usage
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s -i report.m0 [-o table.tsv]\n",
		path.Base(os.Args[0]))
	flag.PrintDefaults()
	os.Exit(1)
}

func main() {
	flag.Parse()

	logger := log.New(os.Stderr)
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	if flagInput == "" {
		usage()
	}

	var scorer match.Scorer
	switch flagMatrix {
	case "blosum62":
		scorer = match.Blosum62()
	case "dna":
		scorer = match.Nucleotide()
	default:
		logger.Fatal("unknown scoring table", "matrix", flagMatrix)
	}

	in, err := os.Open(flagInput)
	if err != nil {
		logger.Fatal("cannot open input", "err", err)
	}
	defer in.Close()

	out := os.Stdout
	if flagOutput != "-" {
		out, err = os.Create(flagOutput)
		if err != nil {
			logger.Fatal("cannot create output", "err", err)
		}
		defer out.Close()
	}

	w := tab.NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		logger.Fatal("cannot write header", "err", err)
	}

	start := time.Now()
	var written, rejected int
	emit := func(aln *fasta36.Alignment, err error) {
		var berr *fasta36.BlockError
		switch {
		case errors.As(err, &berr):
			rejected++
			logger.Warn("rejected alignment block",
				"query", berr.Query, "subject", berr.Subject,
				"line", berr.Line, "err", berr.Err)
		case err != nil:
			logger.Fatal("reading report", "err", err)
		default:
			written++
			if err := w.Write(aln); err != nil {
				logger.Fatal("writing row", "err", err)
			}
		}
	}

	if flagWorkers <= 1 {
		sequential(in, scorer, emit)
	} else {
		parallel(in, scorer, flagWorkers, emit)
	}

	if err := w.Flush(); err != nil {
		logger.Fatal("flushing output", "err", err)
	}
	logger.Info("done",
		"alignments", written, "rejected", rejected,
		"elapsed", time.Since(start))
}

// sequential parses blocks one at a time, in input order.
func sequential(in io.Reader, scorer match.Scorer,
	emit func(*fasta36.Alignment, error)) {

	r := fasta36.NewReader(in)
	r.Scorer = scorer
	for {
		aln, err := r.Read()
		if err == io.EOF {
			return
		}
		emit(aln, err)
	}
}

type job struct {
	idx int
	blk *fasta36.Block
}

type result struct {
	idx int
	aln *fasta36.Alignment
	err error
}

// parallel fans blocks out to workers and fans the results back in,
// re-ordered, so output row order equals input block order. Blocks are
// independent and ParseBlock is pure, so no further coordination is needed.
func parallel(in io.Reader, scorer match.Scorer, workers int,
	emit func(*fasta36.Alignment, error)) {

	jobs := make(chan job, workers*2)
	results := make(chan result, workers*2)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				aln, err := fasta36.ParseBlock(j.blk, scorer)
				results <- result{idx: j.idx, aln: aln, err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	var segErr error
	go func() {
		defer close(jobs)
		seg := fasta36.NewSegmenter(in)
		for i := 0; ; i++ {
			blk, err := seg.Next()
			if err == io.EOF {
				return
			}
			if err != nil {
				segErr = err
				return
			}
			jobs <- job{idx: i, blk: blk}
		}
	}()

	pending := make(map[int]result)
	next := 0
	for res := range results {
		pending[res.idx] = res
		for {
			r, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			emit(r.aln, r.err)
			next++
		}
	}
	// The producer goroutine finished before results closed, so this read
	// is ordered after the write.
	if segErr != nil {
		emit(nil, segErr)
	}
}
