// Package profiler invokes the external ICC profiling tool on a
// written TI3 file. The collaborator surface is deliberately narrow: a
// job describing the files goes in, a transcript comes out.
package profiler

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"chartproof/internal/logging"
)

// ToolError reports a failed tool invocation. Output carries whatever
// the tool wrote before failing.
type ToolError struct {
	Tool   string
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("profiling tool %s: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error { return e.Err }

// Job names the files one invocation works on. Args is the flag list,
// usually produced by Flags; Env holds extra KEY=VALUE entries.
type Job struct {
	TI3Path     string
	ProfilePath string
	Description string
	Args        []string
	Env         []string
}

// Result carries the combined tool transcript.
type Result struct {
	Output string
}

// Invoker builds an ICC profile from a TI3 file.
type Invoker interface {
	Build(ctx context.Context, job Job) (*Result, error)
}

// Colprof shells out to an ArgyllCMS-compatible colprof binary.
type Colprof struct {
	// Path overrides the binary name looked up on PATH.
	Path string
}

var _ Invoker = (*Colprof)(nil)

func (c *Colprof) tool() string {
	if c.Path != "" {
		return c.Path
	}
	return "colprof"
}

// Build runs the tool against job's TI3 file. The tool gets the TI3
// path without its extension, plus -D description and -O output, after
// the caller's flags. Both output streams are drained concurrently into
// the transcript.
func (c *Colprof) Build(ctx context.Context, job Job) (*Result, error) {
	if _, err := os.Stat(job.TI3Path); err != nil {
		return nil, fmt.Errorf("preflight ti3: %w", err)
	}
	bin, err := exec.LookPath(c.tool())
	if err != nil {
		return nil, &ToolError{Tool: c.tool(), Err: err}
	}

	base := strings.TrimSuffix(job.TI3Path, filepath.Ext(job.TI3Path))
	args := append([]string{}, job.Args...)
	args = append(args, "-D", job.Description, "-O", job.ProfilePath, base)

	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Env = append(os.Environ(), job.Env...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("open stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("open stderr pipe: %w", err)
	}

	log := logging.New("profiler")
	log.Info("invoking profiling tool", "tool", bin, "args", strings.Join(args, " "))

	if err := cmd.Start(); err != nil {
		return nil, &ToolError{Tool: c.tool(), Err: err}
	}

	var (
		mu         sync.Mutex
		transcript strings.Builder
	)
	drain := func(r io.Reader, stream string) error {
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			line := sc.Text()
			mu.Lock()
			transcript.WriteString(line)
			transcript.WriteByte('\n')
			mu.Unlock()
			log.Debug("tool output", "stream", stream, "line", line)
		}
		return sc.Err()
	}

	var g errgroup.Group
	g.Go(func() error { return drain(stdout, "stdout") })
	g.Go(func() error { return drain(stderr, "stderr") })

	drainErr := g.Wait()
	waitErr := cmd.Wait()

	output := transcript.String()
	if waitErr != nil {
		return nil, &ToolError{Tool: c.tool(), Output: output, Err: waitErr}
	}
	if drainErr != nil {
		return nil, &ToolError{Tool: c.tool(), Output: output, Err: drainErr}
	}
	log.Info("profiling tool finished", "profile", job.ProfilePath)
	return &Result{Output: output}, nil
}
