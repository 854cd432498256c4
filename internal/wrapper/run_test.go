package wrapper

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/psantana5/hblaunch/internal/launcher"
	"github.com/psantana5/hblaunch/internal/report"
)

// writeEntrypoint creates bin/quickstart.sh under a temp dir and returns the
// invocation for it.
func writeEntrypoint(t *testing.T, script string, args ...string) *launcher.Invocation {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell entrypoints need a unix host")
	}
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "bin"), 0o755))
	path := filepath.Join(dir, "bin", "quickstart.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755))

	return &launcher.Invocation{
		Entrypoint: "bin/quickstart.sh",
		Args:       args,
		Dir:        dir,
		Env:        []string{"PATH=/usr/bin:/bin", "HB_TEST=1"},
	}
}

func run(t *testing.T, ctx context.Context, inv *launcher.Invocation) (*report.Result, string, error) {
	t.Helper()
	var out bytes.Buffer
	result, err := Run(ctx, inv, Stdio{In: strings.NewReader(""), Out: &out, Err: &out}, zerolog.Nop())
	require.NotNil(t, result)
	return result, out.String(), err
}

func TestRunForwardsExitCode(t *testing.T) {
	tests := []struct {
		desc     string
		script   string
		exitCode int
		outcome  report.Outcome
	}{
		{"success", "exit 0", 0, report.OutcomeCompleted},
		{"failure", "exit 7", 7, report.OutcomeFailed},
		{"killed by TERM", "kill -TERM $$", 128 + 15, report.OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			inv := writeEntrypoint(t, tt.script)
			result, _, err := run(t, context.Background(), inv)
			require.NoError(t, err)
			assert.Equal(t, tt.exitCode, result.ExitCode)
			assert.Equal(t, tt.outcome, result.Outcome)
			assert.NotZero(t, result.PID)
			assert.Equal(t, "bin/quickstart.sh", result.Entrypoint)
		})
	}
}

func TestRunPassesArgvVerbatim(t *testing.T) {
	inv := writeEntrypoint(t, `for a in "$@"; do echo "[$a]"; done`,
		"-p", `pa ss"$HOME`, "-f", "my strategy.yml", "-c", "conf.yml")

	result, out, err := run(t, context.Background(), inv)
	require.NoError(t, err)
	assert.Equal(t, 0, result.ExitCode)
	assert.Equal(t,
		"[-p]\n[pa ss\"$HOME]\n[-f]\n[my strategy.yml]\n[-c]\n[conf.yml]\n",
		out)
}

func TestRunUsesDirAndEnv(t *testing.T) {
	inv := writeEntrypoint(t, `pwd; echo "$HB_TEST"`)

	_, out, err := run(t, context.Background(), inv)
	require.NoError(t, err)

	wantDir, err := filepath.EvalSymlinks(inv.Dir)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	gotDir, err := filepath.EvalSymlinks(lines[0])
	require.NoError(t, err)
	assert.Equal(t, wantDir, gotDir)
	assert.Equal(t, "1", lines[1])
}

func TestRunCannotStart(t *testing.T) {
	inv := writeEntrypoint(t, "exit 0")
	require.NoError(t, os.Chmod(inv.Path(), 0o644))

	result, _, err := run(t, context.Background(), inv)
	require.Error(t, err)
	assert.Equal(t, launcher.ExitCannotStart, result.ExitCode)
	assert.Equal(t, report.OutcomeFailed, result.Outcome)
	assert.Zero(t, result.PID)
	assert.NotEmpty(t, result.Reason)
}

func TestRunCancelTerminatesChild(t *testing.T) {
	inv := writeEntrypoint(t, "exec sleep 30")

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	result, _, _ := run(t, ctx, inv)
	assert.Less(t, time.Since(start), KillGrace)
	assert.Equal(t, 128+15, result.ExitCode)
}
