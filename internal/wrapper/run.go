package wrapper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/psantana5/hblaunch/internal/launcher"
	"github.com/psantana5/hblaunch/internal/report"
)

// KillGrace is how long a cancelled child gets between SIGTERM and SIGKILL.
const KillGrace = 10 * time.Second

// Stdio is the child's standard streams. Nil fields inherit the launcher's.
type Stdio struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Run starts inv and waits for it to exit.
//
// The child stays in the launcher's process group so it keeps the terminal;
// Ctrl-C reaches it directly. SIGTERM and SIGHUP sent to the launcher are
// passed on. Cancelling ctx sends SIGTERM, then SIGKILL after KillGrace.
//
// The Result is always non-nil. Its exit code is the child's status, 128+N
// when the child was killed by signal N, or launcher.ExitCannotStart when it
// never started.
func Run(ctx context.Context, inv *launcher.Invocation, stdio Stdio, logger zerolog.Logger) (*report.Result, error) {
	cmd := exec.CommandContext(ctx, inv.Path(), inv.Args...)
	cmd.Args[0] = inv.Entrypoint
	cmd.Dir = inv.Dir
	cmd.Env = inv.Env
	cmd.Stdin = orFile(stdio.In, os.Stdin)
	cmd.Stdout = orWriter(stdio.Out, os.Stdout)
	cmd.Stderr = orWriter(stdio.Err, os.Stderr)
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	cmd.WaitDelay = KillGrace

	logger.Debug().Str("cmd", inv.String()).Str("dir", inv.Dir).Msg("starting entrypoint")

	startedAt := time.Now()
	if err := cmd.Start(); err != nil {
		result := report.NewResult(inv.Entrypoint, 0, launcher.ExitCannotStart, startedAt, time.Now())
		result.Reason = err.Error()
		return result, fmt.Errorf("start %s: %w", inv.Entrypoint, err)
	}

	pid := cmd.Process.Pid
	stop := forwardSignals(cmd.Process, logger)
	waitErr := cmd.Wait()
	stop()
	completedAt := time.Now()

	result := report.NewResult(inv.Entrypoint, pid, exitStatus(cmd.ProcessState), startedAt, completedAt)

	var exitErr *exec.ExitError
	if waitErr != nil && !errors.As(waitErr, &exitErr) {
		result.Reason = waitErr.Error()
		return result, fmt.Errorf("wait for %s: %w", inv.Entrypoint, waitErr)
	}
	return result, nil
}

// exitStatus maps a finished process to a shell-style exit status.
func exitStatus(ps *os.ProcessState) int {
	if ps == nil {
		return launcher.ExitCannotStart
	}
	if ws, ok := ps.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return ps.ExitCode()
}

func forwardSignals(p *os.Process, logger zerolog.Logger) (stop func()) {
	sigs := make(chan os.Signal, 4)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case sig := <-sigs:
				if sig == os.Interrupt {
					// the terminal already delivered it to the child
					continue
				}
				logger.Debug().Str("signal", sig.String()).Int("pid", p.Pid).Msg("forwarding signal")
				if err := p.Signal(sig); err != nil && !errors.Is(err, os.ErrProcessDone) {
					logger.Warn().Err(err).Str("signal", sig.String()).Msg("forward signal")
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(sigs)
		close(done)
	}
}

func orFile(r io.Reader, def *os.File) io.Reader {
	if r == nil {
		return def
	}
	return r
}

func orWriter(w io.Writer, def *os.File) io.Writer {
	if w == nil {
		return def
	}
	return w
}
