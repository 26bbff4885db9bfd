// Package mutagen drives Mutagen synchronization sessions between an
// environment's location and its synchronization container.
//
// Sessions are identified by the label name=<project>, where <project> is the
// COMPOSE_PROJECT_NAME of the environment. Session state is always queried
// from Mutagen and never cached.
package mutagen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nauticalab/devenv-compose/internal/compose"
	"github.com/nauticalab/devenv-compose/internal/process"
)

// Defaults used when the configuration leaves a field empty
const (
	DefaultBinary = "mutagen"
	DefaultOwner  = "id:1000"
	DefaultGroup  = "id:1000"
	DefaultTarget = "/var/www/html/"
)

// ContainerSuffix is appended to the project name to address the synchronization container
const ContainerSuffix = "_synchro"

// ErrMissingLabel is returned when the environment map carries no project name
var ErrMissingLabel = errors.New("missing " + compose.EnvComposeProjectName + " in environment")

// Options configures a SessionManager
type Options struct {
	Binary string
	Owner  string
	Group  string
	Target string
}

// SessionManager creates, resumes, pauses and monitors sessions
type SessionManager struct {
	runner process.Runner
	binary string
	owner  string
	group  string
	target string
}

// NewSessionManager creates a manager running Mutagen through runner
func NewSessionManager(runner process.Runner, opts Options) *SessionManager {
	m := &SessionManager{
		runner: runner,
		binary: opts.Binary,
		owner:  opts.Owner,
		group:  opts.Group,
		target: opts.Target,
	}
	if m.binary == "" {
		m.binary = DefaultBinary
	}
	if m.owner == "" {
		m.owner = DefaultOwner
	}
	if m.group == "" {
		m.group = DefaultGroup
	}
	if m.target == "" {
		m.target = DefaultTarget
	}
	return m
}

// Exists reports whether a session labelled with the project of env exists.
// A failing list command is treated as "no session".
func (m *SessionManager) Exists(ctx context.Context, env map[string]string) (bool, error) {
	label, err := labelOf(env)
	if err != nil {
		return false, err
	}

	result, err := m.runner.RunBackground(ctx, m.selectorArgs("list", label), env)
	if err != nil {
		return false, fmt.Errorf("failed to list synchronization sessions: %w", err)
	}
	if !result.Success {
		return false, nil
	}
	return strings.TrimSpace(result.Output) != "", nil
}

// Start resumes the session of env, or creates it when none exists.
// It returns whether the Mutagen command succeeded.
func (m *SessionManager) Start(ctx context.Context, env map[string]string) (bool, error) {
	exists, err := m.Exists(ctx, env)
	if err != nil {
		return false, err
	}

	label, _ := labelOf(env)
	args := m.selectorArgs("resume", label)
	if !exists {
		location := env[compose.EnvProjectLocation]
		if location == "" {
			return false, fmt.Errorf("missing %s in environment", compose.EnvProjectLocation)
		}
		args = m.createArgs(label, location)
	}

	result, err := m.runner.RunForeground(ctx, args, env)
	if err != nil {
		return false, fmt.Errorf("failed to start synchronization session: %w", err)
	}
	return result.Success, nil
}

// Stop pauses the session of env
func (m *SessionManager) Stop(ctx context.Context, env map[string]string) (bool, error) {
	return m.run(ctx, "pause", env)
}

// Monitor follows the session of env until interrupted
func (m *SessionManager) Monitor(ctx context.Context, env map[string]string) (bool, error) {
	return m.run(ctx, "monitor", env)
}

func (m *SessionManager) run(ctx context.Context, action string, env map[string]string) (bool, error) {
	label, err := labelOf(env)
	if err != nil {
		return false, err
	}
	result, err := m.runner.RunForeground(ctx, m.selectorArgs(action, label), env)
	if err != nil {
		return false, fmt.Errorf("failed to %s synchronization session: %w", action, err)
	}
	return result.Success, nil
}

func (m *SessionManager) selectorArgs(action, label string) []string {
	return []string{m.binary, "sync", action, "--label-selector=name=" + label}
}

func (m *SessionManager) createArgs(label, location string) []string {
	return []string{
		m.binary, "sync", "create",
		"--default-owner-beta=" + m.owner,
		"--default-group-beta=" + m.group,
		"--sync-mode=two-way-resolved",
		"--ignore-vcs",
		"--ignore=.idea",
		"--label=name=" + label,
		location,
		"docker://" + label + ContainerSuffix + m.target,
	}
}

func labelOf(env map[string]string) (string, error) {
	label := env[compose.EnvComposeProjectName]
	if label == "" {
		return "", ErrMissingLabel
	}
	return label, nil
}
