// Package runner executes external commands such as the package manager,
// git and gh.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/relkit/publish/internal/output"
)

// Command is one external process invocation.
type Command struct {
	// Name is the executable.
	Name string

	// Args are the arguments after the executable.
	Args []string

	// Dir is the working directory. Empty means the runner's directory.
	Dir string

	// RunOnDryRun marks commands that still execute under dry-run,
	// typically because they carry their own simulate flag.
	RunOnDryRun bool

	// Title is shown next to the spinner while the command runs.
	Title string
}

// String renders the command line.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Runner runs commands.
type Runner interface {
	// Run executes the command, failing on a non-zero exit.
	Run(ctx context.Context, cmd Command) error

	// Output executes the command and returns its trimmed stdout.
	Output(ctx context.Context, cmd Command) (string, error)
}

// Exec runs commands with os/exec.
type Exec struct {
	// Dir is the default working directory.
	Dir string

	// Verbose streams command stdout to Stdout.
	Verbose bool

	// Spinner shows a spinner while quiet commands run on a terminal.
	Spinner bool

	// Stdout receives command output in verbose mode. Defaults to os.Stdout.
	Stdout io.Writer

	// Stderr receives command stderr in verbose mode. Defaults to os.Stderr.
	Stderr io.Writer
}

var _ Runner = (*Exec)(nil)

func (e *Exec) command(ctx context.Context, c Command) *exec.Cmd {
	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = e.Dir
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	return cmd
}

// Run implements Runner. Outside verbose mode stdout is discarded and stderr
// is only shown when the command fails.
func (e *Exec) Run(ctx context.Context, c Command) error {
	output.Debug("running command", "cmd", c.String())

	cmd := e.command(ctx, c)

	var stderr bytes.Buffer
	if e.Verbose {
		cmd.Stdout = writerOr(e.Stdout, os.Stdout)
		cmd.Stderr = io.MultiWriter(writerOr(e.Stderr, os.Stderr), &stderr)
	} else {
		cmd.Stderr = &stderr
	}

	run := cmd.Run
	if e.Spinner && !e.Verbose {
		title := c.Title
		if title == "" {
			title = c.String()
		}
		run = func() error {
			return output.RunWithSpinner(ctx, cmd.Run, output.WithTitle(title))
		}
	}

	if err := run(); err != nil {
		return commandError(c, err, stderr.String())
	}
	return nil
}

// Output implements Runner.
func (e *Exec) Output(ctx context.Context, c Command) (string, error) {
	output.Debug("running command", "cmd", c.String())

	cmd := e.command(ctx, c)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return "", commandError(c, err, stderr.String())
	}
	return strings.TrimSpace(string(out)), nil
}

func commandError(c Command, err error, stderr string) error {
	stderr = strings.TrimSpace(stderr)
	if stderr == "" {
		return fmt.Errorf("%s: %w", c, err)
	}
	return fmt.Errorf("%s: %w\n%s", c, err, stderr)
}

func writerOr(w, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}

// DryRun wraps a Runner so that, in dry-run mode, commands are logged
// instead of executed. Commands marked RunOnDryRun and all Output calls
// still reach the wrapped runner.
type DryRun struct {
	Runner Runner
	DryRun bool
}

var _ Runner = (*DryRun)(nil)

// NewDryRun wraps r.
func NewDryRun(r Runner, dryRun bool) *DryRun {
	return &DryRun{Runner: r, DryRun: dryRun}
}

// Run implements Runner.
func (d *DryRun) Run(ctx context.Context, c Command) error {
	if d.DryRun && !c.RunOnDryRun {
		output.Skip("command: " + output.Noun(c.String()))
		return nil
	}
	return d.Runner.Run(ctx, c)
}

// Output implements Runner.
func (d *DryRun) Output(ctx context.Context, c Command) (string, error) {
	return d.Runner.Output(ctx, c)
}
