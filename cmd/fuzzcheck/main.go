// Command fuzzcheck is the inner fuzzing-loop CLI: fuzz, read, minify-input,
// and minify-corpus over a single built-in target (an (u8,u8,u8,u8)
// integer-sum predicate), the Go analogue of a single cargo-fuzzcheck
// target binary once the outer build orchestration (explicitly out of
// scope) has produced it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/orizon-lang/fuzzcheck/internal/cli"
	"github.com/orizon-lang/fuzzcheck/pkg/driver"
	"github.com/orizon-lang/fuzzcheck/pkg/mutator"
	"github.com/orizon-lang/fuzzcheck/pkg/pool"
	"github.com/orizon-lang/fuzzcheck/pkg/sensor"
	"github.com/orizon-lang/fuzzcheck/pkg/serialize"
	"github.com/orizon-lang/fuzzcheck/pkg/world"
)

// quad is the (u8, u8, u8, u8) value type of the built-in integer-sum
// target: test(x) = x.0+x.1+x.2+x.3 != 1000.
type quad = mutator.Quad[uint8, uint8, uint8, uint8]

// sumBuckets is the width of the manually instrumented counter region: one
// counter per 32-wide slice of the [0, 1020] possible running-sum range,
// standing in for the compiler-inserted 8-bit counter region spec.md
// section 6 describes (real sancov-style instrumentation is external to
// this module).
const sumBuckets = 33

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	sub := os.Args[1]
	args := os.Args[2:]

	switch sub {
	case "help", "-h", "--help":
		usage()
		os.Exit(0)
	case "version", "-v", "--version":
		cli.PrintVersion("fuzzcheck", false)
		os.Exit(0)
	case "fuzz":
		os.Exit(runFuzz(args))
	case "read":
		os.Exit(runRead(args))
	case "minify-input":
		os.Exit(runMinifyInput(args))
	case "minify-corpus":
		os.Exit(runMinifyCorpus(args))
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `fuzzcheck - coverage-guided structure-aware fuzzing engine

USAGE:
    fuzzcheck <command> [OPTIONS]

COMMANDS:
    fuzz            run the feedback loop until --max-nbr-of-runs or SIGINT
    read            execute the predicate once on --input-file
    minify-input    shrink one failing --input-file until SIGINT
    minify-corpus   shrink a retained corpus to --corpus-size

OPTIONS (not all apply to every command):
    --input-file <path>
    --corpus-in <path> | --no-in-corpus
    --corpus-out <path> | --no-out-corpus
    --artifacts <path> | --no-artifacts
    --corpus-size <n>
    --max-input-cplx <f64>
    --max-nbr-of-runs <u64>
    --timeout <ms>
    --lang <en|ja>`)
}

// sharedFlags is the flag block every subcommand shares, following the
// flat flag.*Var block cmd/orizon-fuzz/main.go uses rather than a
// cobra/urfave layer.
type sharedFlags struct {
	inputFile    string
	corpusIn     string
	noInCorpus   bool
	corpusOut    string
	noOutCorpus  bool
	artifacts    string
	noArtifacts  bool
	corpusSize   int
	maxInputCplx float64
	maxNbrOfRuns uint64
	timeoutMs    uint64
	lang         string
}

func newSharedFlags(fs *flag.FlagSet) *sharedFlags {
	f := &sharedFlags{}
	fs.StringVar(&f.inputFile, "input-file", "", "path to a single input (read, minify-input)")
	fs.StringVar(&f.corpusIn, "corpus-in", "corpus", "directory of seed/retained inputs to load at startup")
	fs.BoolVar(&f.noInCorpus, "no-in-corpus", false, "disable loading any corpus-in directory")
	fs.StringVar(&f.corpusOut, "corpus-out", "corpus", "directory retained inputs are persisted to")
	fs.BoolVar(&f.noOutCorpus, "no-out-corpus", false, "disable persisting the retained corpus")
	fs.StringVar(&f.artifacts, "artifacts", "artifacts", "directory failing inputs are persisted to")
	fs.BoolVar(&f.noArtifacts, "no-artifacts", false, "disable persisting failing inputs")
	fs.IntVar(&f.corpusSize, "corpus-size", 100, "target retained corpus length (minify-corpus)")
	fs.Float64Var(&f.maxInputCplx, "max-input-cplx", 0, "max input complexity (0 = mutator default)")
	fs.Uint64Var(&f.maxNbrOfRuns, "max-nbr-of-runs", 200_000, "stop fuzzing after this many runs (0 = unlimited)")
	fs.Uint64Var(&f.timeoutMs, "timeout", 0, "per-run timeout in milliseconds (0 = none)")
	fs.StringVar(&f.lang, "lang", "en", "message language (en|ja)")

	return f
}

// locale mirrors the closure-struct pattern cmd/orizon-fuzz/main.go and
// cmd/orizon-mockgen/main.go both use instead of an i18n framework.
type locale struct {
	done    func() string
	execs   func(n uint64) string
	skipped func(path string) string
}

func getLocale(lang string) locale {
	p := message.NewPrinter(language.English)

	switch strings.ToLower(lang) {
	case "ja", "jp", "japanese":
		return locale{
			done:    func() string { return "完了" },
			execs:   func(n uint64) string { return p.Sprintf("%d 回実行", n) },
			skipped: func(path string) string { return fmt.Sprintf("デコードできないファイルをスキップしました: %s", path) },
		}
	default:
		return locale{
			done:    func() string { return "done" },
			execs:   func(n uint64) string { return p.Sprintf("%d runs", n) },
			skipped: func(path string) string { return fmt.Sprintf("skipped undecodable file: %s", path) },
		}
	}
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "fuzzcheck: "+format+"\n", args...)
	os.Exit(1)
}

// sumTarget predicate: test(x) = x.0+x.1+x.2+x.3 != 1000, instrumented
// with one counter per 32-wide bucket of the running partial sum so
// SimplestToActivateCounterPool has a gradient toward the boundary case
// spec.md section 8's S1 scenario names (250,250,250,250).
func sumTarget(counters []byte) func(x *quad) bool {
	return func(x *quad) bool {
		sum := uint32(x.First) + uint32(x.Second) + uint32(x.Third) + uint32(x.Fourth)
		bucket := sum / 32
		if int(bucket) < len(counters) {
			counters[bucket]++
		}

		return sum != 1000
	}
}

func buildTarget() (mutator.Mutator[quad], sensor.Sensor[sensor.ObservationHandler], func(*quad) bool) {
	m := mutator.NewTuple4[uint8, uint8, uint8, uint8](
		mutator.NewInt[uint8](8), mutator.NewInt[uint8](8),
		mutator.NewInt[uint8](8), mutator.NewInt[uint8](8),
	)

	counters := make([]byte, sumBuckets)
	cov := sensor.NewCoverage(counters)

	return m, cov, sumTarget(counters)
}

func cloneQuad(v *quad) quad { return *v }

// buildDriver wires the mutator/pool/sensor/serializer stack common to
// every subcommand: AndPool(Simplest, TestFailure) fed by a Coverage
// sensor on Side 0 and a failure-flag sensor on Side 1.
func buildDriver(f *sharedFlags, opts driver.Options) *driver.Driver[quad] {
	m, cov, predicate := buildTarget()

	simplest := pool.NewSimplest[quad]()
	failures := pool.NewTestFailure[quad](nil)
	composed := pool.NewAnd[quad](simplest, failures)

	ser := serialize.NewJSON[quad]()

	d := driver.New[quad](m, composed, cov, ser, predicate, cloneQuad, opts)
	d.FailureSensor = sensor.NewTestFailure()

	if !f.noOutCorpus && f.corpusOut != "" {
		corpus, err := world.NewCorpus[quad](f.corpusOut, ser)
		if err != nil {
			fatal("corpus-out: %v", err)
		}

		if err := world.CheckVersion(f.corpusOut); err != nil {
			fatal("corpus-out: %v", err)
		}

		d.Corpus = corpus
	}

	if !f.noArtifacts && f.artifacts != "" {
		artifacts, err := world.NewArtifacts[quad](f.artifacts, ser)
		if err != nil {
			fatal("artifacts: %v", err)
		}

		d.Artifacts = artifacts
	}

	return d
}

// seedFromCorpusIn loads every file in f.corpusIn (if enabled) and feeds
// it through d.Seed, re-establishing pool ownership for each recovered
// case rather than leaving loaded entries outside the pool's notion of
// state.
func seedFromCorpusIn(d *driver.Driver[quad], f *sharedFlags, ser serialize.Serializer[quad], L locale) {
	if f.noInCorpus || f.corpusIn == "" {
		return
	}

	if _, err := os.Stat(f.corpusIn); os.IsNotExist(err) {
		return
	}

	corpus, err := world.NewCorpus[quad](f.corpusIn, ser)
	if err != nil {
		fatal("corpus-in: %v", err)
	}

	cases, err := corpus.Load()
	if err != nil {
		fatal("corpus-in: %v", err)
	}

	for _, c := range cases {
		if err := d.Seed(c.Value); err != nil {
			fmt.Fprintln(os.Stderr, L.skipped(c.Path))
		}
	}
}

func runFuzz(args []string) int {
	fs := flag.NewFlagSet("fuzz", flag.ExitOnError)
	f := newSharedFlags(fs)
	_ = fs.Parse(args)

	L := getLocale(f.lang)

	opts := driver.Options{
		MaxInputComplexity: f.maxInputCplx,
		MaxNbrOfRuns:       f.maxNbrOfRuns,
		Timeout:            msToDuration(f.timeoutMs),
		CorpusSize:         f.corpusSize,
	}

	d := buildDriver(f, opts)
	ser := serialize.NewJSON[quad]()
	seedFromCorpusIn(d, f, ser, L)

	if !f.noInCorpus && f.corpusIn != "" {
		if watcher, err := world.NewWatcher(f.corpusIn); err == nil {
			d.CorpusInWatcher = watcher
			defer watcher.Close()
		}
	}

	if err := d.Run(context.Background(), driver.Fuzz, nil); err != nil {
		fatal("fuzz: %v", err)
	}

	fmt.Println(L.execs(f.maxNbrOfRuns))
	fmt.Println(L.done())

	if d.FailureObserved() {
		return 1
	}

	return 0
}

func runRead(args []string) int {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	f := newSharedFlags(fs)
	_ = fs.Parse(args)

	if f.inputFile == "" {
		fatal("read requires --input-file")
	}

	L := getLocale(f.lang)

	d := buildDriver(f, driver.Options{MaxInputComplexity: f.maxInputCplx, Timeout: msToDuration(f.timeoutMs)})
	ser := serialize.NewJSON[quad]()

	value := loadInput(ser, f.inputFile)

	err := d.Run(context.Background(), driver.Read, &value)

	fmt.Println(L.done())

	if err != nil || d.FailureObserved() {
		return 1
	}

	return 0
}

func runMinifyInput(args []string) int {
	fs := flag.NewFlagSet("minify-input", flag.ExitOnError)
	f := newSharedFlags(fs)
	_ = fs.Parse(args)

	if f.inputFile == "" {
		fatal("minify-input requires --input-file")
	}

	L := getLocale(f.lang)

	d := buildDriver(f, driver.Options{MaxInputComplexity: f.maxInputCplx, Timeout: msToDuration(f.timeoutMs)})
	ser := serialize.NewJSON[quad]()

	value := loadInput(ser, f.inputFile)

	if err := d.Run(context.Background(), driver.MinifyInput, &value); err != nil {
		fatal("minify-input: %v", err)
	}

	fmt.Println(L.done())

	if d.FailureObserved() {
		return 1
	}

	return 0
}

func runMinifyCorpus(args []string) int {
	fs := flag.NewFlagSet("minify-corpus", flag.ExitOnError)
	f := newSharedFlags(fs)
	_ = fs.Parse(args)

	L := getLocale(f.lang)

	d := buildDriver(f, driver.Options{CorpusSize: f.corpusSize})
	ser := serialize.NewJSON[quad]()
	seedFromCorpusIn(d, f, ser, L)

	if err := d.Run(context.Background(), driver.MinifyCorpus, nil); err != nil {
		fatal("minify-corpus: %v", err)
	}

	fmt.Println(L.done())

	return 0
}

func loadInput(ser serialize.Serializer[quad], path string) quad {
	data, err := os.ReadFile(path)
	if err != nil {
		fatal("input-file: %v", err)
	}

	value, ok := ser.FromData(data)
	if !ok {
		fatal("input-file: %s is not a valid %s document", path, ser.Extension())
	}

	return value
}

func msToDuration(ms uint64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
