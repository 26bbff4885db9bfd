// Package testutil provides test doubles shared by package tests.
package testutil

import (
	"context"
	"strings"

	"github.com/nauticalab/devenv-compose/internal/process"
)

// Call kinds recorded by FakeRunner
const (
	Foreground      = "foreground"
	ForegroundShell = "foreground-shell"
	Background      = "background"
)

// Call records one invocation of the runner
type Call struct {
	Kind        string
	Args        []string
	CommandLine string
	Env         map[string]string
}

// Line returns the command as a single string, whatever its kind
func (c Call) Line() string {
	if c.Kind == ForegroundShell {
		return c.CommandLine
	}
	return strings.Join(c.Args, " ")
}

// FakeRunner records every call and answers with Handler, or success when Handler is nil
type FakeRunner struct {
	Calls   []Call
	Handler func(call Call) (*process.Result, error)
}

var _ process.Runner = (*FakeRunner)(nil)

func (f *FakeRunner) RunForeground(ctx context.Context, args []string, env map[string]string) (*process.Result, error) {
	return f.record(Call{Kind: Foreground, Args: args, Env: env})
}

func (f *FakeRunner) RunForegroundShell(ctx context.Context, commandLine string, env map[string]string) (*process.Result, error) {
	return f.record(Call{Kind: ForegroundShell, CommandLine: commandLine, Env: env})
}

func (f *FakeRunner) RunBackground(ctx context.Context, args []string, env map[string]string) (*process.Result, error) {
	return f.record(Call{Kind: Background, Args: args, Env: env})
}

// Lines returns every recorded call as a string
func (f *FakeRunner) Lines() []string {
	lines := make([]string, 0, len(f.Calls))
	for _, call := range f.Calls {
		lines = append(lines, call.Line())
	}
	return lines
}

func (f *FakeRunner) record(call Call) (*process.Result, error) {
	f.Calls = append(f.Calls, call)
	if f.Handler != nil {
		return f.Handler(call)
	}
	return &process.Result{Success: true}, nil
}
