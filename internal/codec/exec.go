package codec

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
)

// execCodec runs an external compressor as a child process per stream,
// treating it as an opaque line-stream transducer.
type execCodec struct {
	tool       string
	decompress []string // argv prefix; input path is appended
	compress   []string // argv; reads stdin, writes stdout
}

var execTools = map[string]execCodec{
	"pigz": {tool: "pigz", decompress: []string{"pigz", "-dc"}, compress: []string{"pigz", "-c"}},
	"gzip": {tool: "gzip", decompress: []string{"gzip", "-dc"}, compress: []string{"gzip", "-c"}},
}

// Exec returns a codec backed by the named external tool ("pigz" or
// "gzip"), or an error if the tool is not installed.
func Exec(tool string) (Codec, error) {
	c, ok := execTools[tool]
	if !ok {
		return nil, fmt.Errorf("unknown compression tool %q", tool)
	}
	if _, err := exec.LookPath(tool); err != nil {
		return nil, fmt.Errorf("locating %s: %w", tool, err)
	}
	return &c, nil
}

func (c *execCodec) Name() string { return c.tool }

// NewReader launches a decompressor child reading path and returns its
// stdout. Close reaps the child; a nonzero exit (corrupt input, missing
// file) surfaces there, so callers must check the Close error even after
// a clean EOF.
func (c *execCodec) NewReader(path string) (io.ReadCloser, error) {
	args := append([]string{}, c.decompress[1:]...)
	args = append(args, path)
	cmd := exec.Command(c.decompress[0], args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("piping %s: %w", c.tool, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", c.tool, err)
	}

	return &procReader{
		out:  stdout,
		proc: proc{tool: c.tool, cmd: cmd, pipe: stdout, stderr: &stderr},
	}, nil
}

// NewWriter launches a compressor child writing to w and returns its
// stdin. Close closes stdin and waits for the child to flush and exit.
func (c *execCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	cmd := exec.Command(c.compress[0], c.compress[1:]...)
	cmd.Stdout = w

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("piping %s: %w", c.tool, err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", c.tool, err)
	}

	return &procWriter{
		in:   stdin,
		proc: proc{tool: c.tool, cmd: cmd, pipe: stdin, stderr: &stderr},
	}, nil
}

// proc reaps a child process on Close. Close is idempotent: abnormal
// teardown paths may close a stream the success path already reaped.
type proc struct {
	tool   string
	cmd    *exec.Cmd
	pipe   io.Closer
	stderr *bytes.Buffer
	closed bool
}

func (p *proc) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true

	// Closing our end of the pipe unblocks the child so Wait can return.
	p.pipe.Close()
	if err := p.cmd.Wait(); err != nil {
		msg := bytes.TrimSpace(p.stderr.Bytes())
		if len(msg) > 0 {
			return fmt.Errorf("%s: %w: %s", p.tool, err, msg)
		}
		return fmt.Errorf("%s: %w", p.tool, err)
	}
	return nil
}

type procReader struct {
	out io.Reader
	proc
}

func (p *procReader) Read(b []byte) (int, error) { return p.out.Read(b) }

type procWriter struct {
	in io.Writer
	proc
}

func (p *procWriter) Write(b []byte) (int, error) { return p.in.Write(b) }
