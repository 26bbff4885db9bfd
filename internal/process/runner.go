// Package process runs external programs on behalf of devenv commands.
//
// Foreground runs stream the child's stdio to the terminal and are used for
// interactive or long-running commands (builds, log following, shells).
// Background runs capture stdout and are used for queries whose output is
// inspected by the caller.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

// interruptGrace is how long a cancelled foreground process may take to exit
// after the interrupt before it is killed
const interruptGrace = 5 * time.Second

// Result describes how an external process ended
type Result struct {
	// Success is true when the process exited with status zero
	Success bool
	// ExitCode is the exit status of the process (-1 if unknown)
	ExitCode int
	// Output is the captured stdout of a background run
	Output string
}

// Runner executes external processes.
// A non-zero exit status is reported through Result.Success; the error is
// reserved for processes that could not be started at all.
type Runner interface {
	RunForeground(ctx context.Context, args []string, env map[string]string) (*Result, error)
	RunForegroundShell(ctx context.Context, commandLine string, env map[string]string) (*Result, error)
	RunBackground(ctx context.Context, args []string, env map[string]string) (*Result, error)
}

// ExecRunner runs processes with os/exec
type ExecRunner struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	// Shell interprets command lines given to RunForegroundShell
	Shell string
	// DryRun prints foreground commands instead of running them
	DryRun bool
	Logger *slog.Logger
}

// NewExecRunner creates a runner attached to the process' own stdio
func NewExecRunner(logger *slog.Logger) *ExecRunner {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &ExecRunner{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Shell:  "/bin/sh",
		Logger: logger,
	}
}

// RunForeground runs args with stdio attached and waits for it to exit
func (r *ExecRunner) RunForeground(ctx context.Context, args []string, env map[string]string) (*Result, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command given")
	}
	if r.DryRun {
		return r.dryRun(shellquote.Join(args...), env)
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	r.attach(cmd, env)
	r.Logger.Debug("running foreground command", "command", shellquote.Join(args...))

	return r.waitForeground(ctx, cmd)
}

// RunForegroundShell runs commandLine through the shell with stdio attached
func (r *ExecRunner) RunForegroundShell(ctx context.Context, commandLine string, env map[string]string) (*Result, error) {
	if strings.TrimSpace(commandLine) == "" {
		return nil, fmt.Errorf("no command given")
	}
	if r.DryRun {
		return r.dryRun(commandLine, env)
	}

	cmd := exec.CommandContext(ctx, r.shell(), "-c", commandLine)
	r.attach(cmd, env)
	r.Logger.Debug("running shell command", "command", commandLine)

	return r.waitForeground(ctx, cmd)
}

// RunBackground runs args, capturing its stdout. Background runs also happen in dry-run mode
// because their output drives decisions rather than changing anything.
func (r *ExecRunner) RunBackground(ctx context.Context, args []string, env map[string]string) (*Result, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no command given")
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Env = mergeEnv(os.Environ(), env)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	r.Logger.Debug("running background command", "command", shellquote.Join(args...))

	result, err := r.wait(cmd, cmd.Run())
	if err != nil {
		return nil, err
	}
	result.Output = stdout.String()
	if !result.Success {
		r.Logger.Debug("background command failed", "exit_code", result.ExitCode, "stderr", strings.TrimSpace(stderr.String()))
	}
	return result, nil
}

func (r *ExecRunner) attach(cmd *exec.Cmd, env map[string]string) {
	cmd.Env = mergeEnv(os.Environ(), env)
	cmd.Stdin = r.Stdin
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
}

// waitForeground runs cmd until it exits. Cancelling ctx forwards an interrupt to the
// child, and a child that ends because of it is reported as a normal stop.
func (r *ExecRunner) waitForeground(ctx context.Context, cmd *exec.Cmd) (*Result, error) {
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = interruptGrace

	err := cmd.Run()
	if err != nil && ctx.Err() != nil && cmd.ProcessState != nil {
		r.Logger.Debug("foreground command interrupted", "command", cmd.String())
		return &Result{Success: true, ExitCode: 0}, nil
	}
	return r.wait(cmd, err)
}

func (r *ExecRunner) wait(cmd *exec.Cmd, err error) (*Result, error) {
	if err == nil {
		return &Result{Success: true, ExitCode: 0}, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &Result{Success: false, ExitCode: exitErr.ExitCode()}, nil
	}
	return nil, fmt.Errorf("failed to run %s: %w", cmd.Path, err)
}

func (r *ExecRunner) dryRun(commandLine string, env map[string]string) (*Result, error) {
	out := r.Stdout
	if out == nil {
		out = io.Discard
	}
	fmt.Fprintf(out, "%s%s\n", formatEnv(env), commandLine)
	return &Result{Success: true, ExitCode: 0}, nil
}

func (r *ExecRunner) shell() string {
	if r.Shell == "" {
		return "/bin/sh"
	}
	return r.Shell
}

// mergeEnv overlays extra on top of base, extra taking precedence
func mergeEnv(base []string, extra map[string]string) []string {
	merged := make([]string, 0, len(base)+len(extra))
	for _, kv := range base {
		key, _, _ := strings.Cut(kv, "=")
		if _, overridden := extra[key]; overridden {
			continue
		}
		merged = append(merged, kv)
	}
	for _, key := range sortedKeys(extra) {
		merged = append(merged, key+"="+extra[key])
	}
	return merged
}

// formatEnv renders env as shell assignments prefixing a command line
func formatEnv(env map[string]string) string {
	var b strings.Builder
	for _, key := range sortedKeys(env) {
		b.WriteString(key + "=" + shellquote.Join(env[key]) + " ")
	}
	return b.String()
}

func sortedKeys(env map[string]string) []string {
	keys := make([]string, 0, len(env))
	for key := range env {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
