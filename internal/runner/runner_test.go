package runner

import (
	"bytes"
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	calls []Command
}

func (r *recorder) Run(_ context.Context, c Command) error {
	r.calls = append(r.calls, c)
	return nil
}

func (r *recorder) Output(_ context.Context, c Command) (string, error) {
	r.calls = append(r.calls, c)
	return "out", nil
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "npm", Command{Name: "npm"}.String())
	assert.Equal(t, "npm run lint", Command{Name: "npm", Args: []string{"run", "lint"}}.String())
}

func TestDryRun(t *testing.T) {
	ctx := context.Background()

	t.Run("skips commands under dry-run", func(t *testing.T) {
		rec := &recorder{}
		d := NewDryRun(rec, true)

		require.NoError(t, d.Run(ctx, Command{Name: "git", Args: []string{"push"}}))
		assert.Empty(t, rec.calls)
	})

	t.Run("runs commands marked RunOnDryRun", func(t *testing.T) {
		rec := &recorder{}
		d := NewDryRun(rec, true)

		require.NoError(t, d.Run(ctx, Command{Name: "npm", Args: []string{"publish", "--dry-run"}, RunOnDryRun: true}))
		require.Len(t, rec.calls, 1)
		assert.Equal(t, "npm publish --dry-run", rec.calls[0].String())
	})

	t.Run("output always runs", func(t *testing.T) {
		rec := &recorder{}
		d := NewDryRun(rec, true)

		out, err := d.Output(ctx, Command{Name: "gh", Args: []string{"auth", "token"}})
		require.NoError(t, err)
		assert.Equal(t, "out", out)
		assert.Len(t, rec.calls, 1)
	})

	t.Run("passes through outside dry-run", func(t *testing.T) {
		rec := &recorder{}
		d := NewDryRun(rec, false)

		require.NoError(t, d.Run(ctx, Command{Name: "git", Args: []string{"push"}}))
		assert.Len(t, rec.calls, 1)
	})
}

func TestExec(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	ctx := context.Background()

	t.Run("output is trimmed", func(t *testing.T) {
		e := &Exec{}
		out, err := e.Output(ctx, Command{Name: "sh", Args: []string{"-c", "echo hello"}})
		require.NoError(t, err)
		assert.Equal(t, "hello", out)
	})

	t.Run("failure carries stderr", func(t *testing.T) {
		e := &Exec{}
		err := e.Run(ctx, Command{Name: "sh", Args: []string{"-c", "echo boom >&2; exit 3"}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")

		var exitErr *exec.ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 3, exitErr.ExitCode())
	})

	t.Run("verbose streams stdout", func(t *testing.T) {
		var stdout bytes.Buffer
		e := &Exec{Verbose: true, Stdout: &stdout, Stderr: &bytes.Buffer{}}
		require.NoError(t, e.Run(ctx, Command{Name: "sh", Args: []string{"-c", "echo streamed"}}))
		assert.Equal(t, "streamed\n", stdout.String())
	})

	t.Run("dir is honored", func(t *testing.T) {
		dir := t.TempDir()
		e := &Exec{Dir: dir}
		out, err := e.Output(ctx, Command{Name: "pwd"})
		require.NoError(t, err)
		assert.Contains(t, out, dir)
	})
}
