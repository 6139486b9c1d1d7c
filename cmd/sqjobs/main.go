// sqjobs lists analysis jobs under a shared output directory.
//
// Each job is a subdirectory created at submission time; its state is
// read from the runner's log, so sqjobs works on any machine that can
// see the output root.
package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/seqops/stitchq/internal/jobs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		root    = flag.String("root", "", "output root directory holding job subdirectories")
		logName = flag.String("log", jobs.DefaultLogName, "runner log file name inside each job directory")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `sqjobs - List analysis jobs under a shared output directory

Usage:
  sqjobs -root /data/analysis_out
  sqjobs /data/analysis_out

Options:
`)
		flag.PrintDefaults()
	}

	flag.Parse()

	// Handle positional argument
	if *root == "" && flag.NArg() > 0 {
		*root = flag.Arg(0)
	}
	if *root == "" {
		flag.Usage()
		return fmt.Errorf("output root is required")
	}

	reg := jobs.NewDirRegistry(*root)
	reg.LogName = *logName

	listed, err := reg.List()
	if err != nil {
		return err
	}
	if len(listed) == 0 {
		fmt.Println("no jobs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "JOB\tNAME\tSTATUS\tUPDATED")
	for _, job := range listed {
		updated := "-"
		if !job.Updated.IsZero() {
			updated = job.Updated.Format("2006-01-02 15:04:05")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", job.ID, job.Name, job.Status, updated)
	}
	return w.Flush()
}
