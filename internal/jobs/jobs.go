// Package jobs tracks analysis runs under a shared output directory.
//
// Each job owns one subdirectory holding a spec file and the runner's log.
// Status is derived from the log tail, so the registry needs no channel to
// the runner beyond the filesystem: a job launched on another machine that
// shares the root is visible here.
package jobs

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// Status of a submitted job.
type Status string

// Job states derived from the job directory contents.
const (
	StatusPending Status = "pending" // submitted, runner has not written a log yet
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusFailed  Status = "failed"
)

// Spec describes a submitted analysis job.
type Spec struct {
	Name     string `json:"name"`
	ReadOne  string `json:"read_one"`
	ReadTwo  string `json:"read_two,omitempty"`
	Amplicon string `json:"amplicon"`
	Guide    string `json:"guide"`
	Padding  int    `json:"padding,omitempty"`
}

// Job is one entry under the output root.
type Job struct {
	ID      string
	Name    string
	Status  Status
	Dir     string
	Updated time.Time
}

// Registry submits jobs and reports their status.
type Registry interface {
	Submit(spec Spec) (string, error)
	Status(id string) (Status, error)
	List() ([]Job, error)
}

// SpecFileName is the spec file written into each job directory.
const SpecFileName = "job.json"

// DefaultLogName is the runner log file consulted for status.
const DefaultLogName = "run.log"

// Markers the runner writes; the last few KB of the log decide the status.
const (
	doneMarker = "Job Completed Successfully"
	logTail    = 4096
)

var failMarkers = []string{"Error", "Exception", "Traceback", "panic:"}

// DirRegistry is a Registry over a shared output root directory.
type DirRegistry struct {
	Root    string
	LogName string // defaults to DefaultLogName
}

// NewDirRegistry returns a registry rooted at root.
func NewDirRegistry(root string) *DirRegistry {
	return &DirRegistry{Root: root, LogName: DefaultLogName}
}

func (r *DirRegistry) logName() string {
	if r.LogName != "" {
		return r.LogName
	}
	return DefaultLogName
}

// Submit creates the job directory and persists the spec. The returned id
// doubles as the directory name, Job_<timestamp>_<name>.
func (r *DirRegistry) Submit(spec Spec) (string, error) {
	id := fmt.Sprintf("Job_%s_%s", time.Now().Format("20060102_150405"), SanitizeName(spec.Name))

	if err := os.MkdirAll(r.Root, 0o755); err != nil {
		return "", fmt.Errorf("creating output root: %w", err)
	}
	dir := filepath.Join(r.Root, id)
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating job directory: %w", err)
	}

	data, err := json.MarshalIndent(&spec, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding job spec: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, SpecFileName), data, 0o644); err != nil {
		return "", fmt.Errorf("writing job spec: %w", err)
	}

	return id, nil
}

// Status reports the state of one job.
func (r *DirRegistry) Status(id string) (Status, error) {
	dir := filepath.Join(r.Root, id)
	if _, err := os.Stat(dir); err != nil {
		return "", fmt.Errorf("unknown job %q: %w", id, err)
	}
	return r.dirStatus(dir), nil
}

// List scans the root and returns all jobs, newest first. Directory reads
// run concurrently; the root may live on slow shared storage.
func (r *DirRegistry) List() ([]Job, error) {
	entries, err := os.ReadDir(r.Root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading output root: %w", err)
	}

	jobs := make([]Job, len(entries))
	found := make([]bool, len(entries))

	var g errgroup.Group
	g.SetLimit(8)
	for i, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		i, entry := i, entry
		g.Go(func() error {
			dir := filepath.Join(r.Root, entry.Name())
			job, ok := r.readJob(entry.Name(), dir)
			if ok {
				jobs[i] = job
				found[i] = true
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]Job, 0, len(jobs))
	for i, job := range jobs {
		if found[i] {
			out = append(out, job)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Updated.After(out[j].Updated) })
	return out, nil
}

// readJob loads one job directory. Directories without a spec file are
// not jobs and are skipped.
func (r *DirRegistry) readJob(id, dir string) (Job, bool) {
	data, err := os.ReadFile(filepath.Join(dir, SpecFileName))
	if err != nil {
		return Job{}, false
	}
	var spec Spec
	if err := json.Unmarshal(data, &spec); err != nil {
		return Job{}, false
	}

	job := Job{
		ID:     id,
		Name:   spec.Name,
		Status: r.dirStatus(dir),
		Dir:    dir,
	}
	if info, err := os.Stat(filepath.Join(dir, r.logName())); err == nil {
		job.Updated = info.ModTime()
	} else if info, err := os.Stat(dir); err == nil {
		job.Updated = info.ModTime()
	}
	return job, true
}

func (r *DirRegistry) dirStatus(dir string) Status {
	tail, err := readTail(filepath.Join(dir, r.logName()), logTail)
	if err != nil {
		return StatusPending
	}
	return statusFromLog(tail)
}

// statusFromLog classifies a log tail.
func statusFromLog(tail string) Status {
	if strings.Contains(tail, doneMarker) {
		return StatusDone
	}
	for _, marker := range failMarkers {
		if strings.Contains(tail, marker) {
			return StatusFailed
		}
	}
	return StatusRunning
}

// readTail returns up to n bytes from the end of the file at path.
func readTail(path string, n int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if size := info.Size(); size > n {
		if _, err := f.Seek(size-n, 0); err != nil {
			return "", err
		}
	}

	data := make([]byte, n)
	read, err := f.Read(data)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return string(data[:read]), nil
}

// SanitizeName keeps alphanumerics, '-' and '_', dropping everything else.
// Empty results fall back to "sample".
func SanitizeName(name string) string {
	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteRune(c)
		}
	}
	if b.Len() == 0 {
		return "sample"
	}
	return b.String()
}

// StitchedPath returns the conventional destination for a stitched reads
// file inside a job directory: stitched_reads/<name>_stitched_pad<N>_<HHMMSS>.fastq.gz.
func StitchedPath(jobDir, name string, padding int, now time.Time) string {
	file := fmt.Sprintf("%s_stitched_pad%d_%s.fastq.gz", SanitizeName(name), padding, now.Format("150405"))
	return filepath.Join(jobDir, "stitched_reads", file)
}
