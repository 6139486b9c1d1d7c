// stitchq merges paired-end gzip FASTQ files into one single-end file
// with a padding spacer between the mates.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/seqops/stitchq/internal/codec"
	"github.com/seqops/stitchq/internal/stitch"
)

var version = "dev"

const (
	exitSuccess = 0
	exitError   = 1
)

type config struct {
	readOne string
	readTwo string
	output  string
	padding int
	codec   string
	quiet   bool
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, done := parseFlags()
	if done {
		return exitSuccess
	}

	if err := validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitError
	}

	cdc, err := selectCodec(cfg.codec)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return exitError
	}

	opts := &stitch.Options{
		Padding: cfg.padding,
		Codec:   cdc,
	}
	if !cfg.quiet {
		opts.Progress = func(records int64) {
			fmt.Fprintf(os.Stderr, "\rprocessed %d reads...", records)
		}
	}

	n, err := stitch.Stitch(cfg.readOne, cfg.readTwo, cfg.output, opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "\nerror: %v\n", err)
		return exitError
	}

	if !cfg.quiet {
		fmt.Fprintf(os.Stderr, "\rstitched %d reads to %s (codec: %s)\n", n, cfg.output, cdc.Name())
	}
	return exitSuccess
}

func parseFlags() (config, bool) {
	var cfg config
	var showVersion, showHelp bool

	flag.StringVar(&cfg.readOne, "1", "", "read 1 FASTQ file (gzip)")
	flag.StringVar(&cfg.readTwo, "2", "", "read 2 FASTQ file (gzip)")
	flag.StringVar(&cfg.output, "o", "", "output FASTQ file (gzip)")
	flag.IntVar(&cfg.padding, "p", 0, "padding length between mates (N bases, '!' quality)")
	flag.StringVar(&cfg.codec, "codec", "auto", "compression tooling: auto, pigz, gzip, internal")
	flag.BoolVar(&cfg.quiet, "q", false, "suppress progress output")
	flag.BoolVar(&showVersion, "version", false, "show version and exit")
	flag.BoolVar(&showHelp, "h", false, "show help")

	flag.Usage = usage
	flag.Parse()

	if showHelp {
		flag.Usage()
		return cfg, true
	}

	if showVersion {
		fmt.Printf("stitchq version %s\n", version)
		return cfg, true
	}

	// Handle positional arguments: r1 r2 output
	args := flag.Args()
	if len(args) > 0 && cfg.readOne == "" {
		cfg.readOne = args[0]
	}
	if len(args) > 1 && cfg.readTwo == "" {
		cfg.readTwo = args[1]
	}
	if len(args) > 2 && cfg.output == "" {
		cfg.output = args[2]
	}

	return cfg, false
}

func usage() {
	fmt.Fprintf(os.Stderr, `stitchq - Stitch paired-end FASTQ reads into synthetic single-end reads

Merges each read pair into one record: read 1, a spacer of N bases with
'!' quality, then the reverse complement of read 2.

Usage:
  stitchq -1 r1.fastq.gz -2 r2.fastq.gz -o stitched.fastq.gz -p 20
  stitchq r1.fastq.gz r2.fastq.gz stitched.fastq.gz -p 20

Options:
`)
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Examples:
  stitchq -1 s_R1.fastq.gz -2 s_R2.fastq.gz -o s_stitched.fastq.gz -p 15
  stitchq -codec internal -q -1 r1.gz -2 r2.gz -o out.gz -p 10
`)
}

func validate(cfg config) error {
	if cfg.readOne == "" || cfg.readTwo == "" {
		return fmt.Errorf("both read files are required (-1 and -2)")
	}
	if cfg.output == "" {
		return fmt.Errorf("output file is required (-o)")
	}
	if cfg.padding < 1 {
		return fmt.Errorf("padding must be at least 1 (-p); with no padding, run the analysis on read 1 directly")
	}
	return nil
}

func selectCodec(name string) (codec.Codec, error) {
	switch name {
	case "auto", "":
		return codec.Detect(), nil
	case "internal":
		return codec.Internal(), nil
	default:
		return codec.Exec(name)
	}
}
