// Package compose translates environment operations into Docker Compose invocations.
//
// The builder never runs anything: it returns the argument vector (or, for
// the few operations that need piping or redirection, a shell command line)
// together with the environment variables the generated Compose files expect.
package compose

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/nauticalab/devenv-compose/internal/environment"
)

// Environment variables shared with the generated Compose and Mutagen configuration.
const (
	EnvComposeFile        = "COMPOSE_FILE"
	EnvComposeProjectName = "COMPOSE_PROJECT_NAME"
	EnvProjectLocation    = "PROJECT_LOCATION"
	EnvPHPImage           = "DOCKER_PHP_IMAGE"
)

// Services targeted by built-in operations
const (
	DatabaseService = "database"
	PHPService      = "php"
)

var (
	// ErrMissingServiceArgument indicates an operation needs exactly one service
	ErrMissingServiceArgument = errors.New("a service name must be given")

	// ErrMissingPathArgument indicates a database dump or restore without a file path
	ErrMissingPathArgument = errors.New("a file path must be given")

	// ErrUnknownOperation indicates an operation the builder does not know
	ErrUnknownOperation = errors.New("unknown operation")
)

// Operation is a lifecycle action on an environment
type Operation string

const (
	OpPull        Operation = "pull"
	OpBuild       Operation = "build"
	OpStart       Operation = "start"
	OpStop        Operation = "stop"
	OpRestart     Operation = "restart"
	OpStatus      Operation = "status"
	OpUninstall   Operation = "uninstall"
	OpLogs        Operation = "logs"
	OpTerminal    Operation = "terminal"
	OpResources   Operation = "resources"
	OpDump        Operation = "dump"
	OpRestore     Operation = "restore"
	OpFixSSHAgent Operation = "fix-ssh-agent"
)

// fixed maps operations without parameters to their Compose arguments
var fixed = map[Operation][]string{
	OpPull:        {"pull"},
	OpBuild:       {"build", "--pull", "--parallel"},
	OpStart:       {"up", "--build", "--detach", "--remove-orphans"},
	OpStop:        {"stop"},
	OpRestart:     {"restart"},
	OpStatus:      {"ps"},
	OpUninstall:   {"down", "--rmi", "local", "--volumes", "--remove-orphans"},
	OpFixSSHAgent: {"exec", "-T", PHPService, "bash", "-c", "chown www-data:www-data /run/host-services/ssh-auth.sock"},
}

// Options carries the parameters of parameterized operations
type Options struct {
	// Tail is the number of log lines to show per service; nil means none
	Tail *int
	// Service restricts logs to one service, or selects the terminal target
	Service string
	// User runs the terminal as this user when not empty
	User string
	// Path is the dump file written by OpDump or read by OpRestore
	Path string
}

// Command is a ready-to-run invocation.
// Exactly one of Args and Shell is set.
type Command struct {
	Args  []string
	Shell string
	Env   map[string]string
}

// IsShell reports whether the command must go through a shell
func (c *Command) IsShell() bool {
	return c.Shell != ""
}

// String renders the command for display
func (c *Command) String() string {
	if c.IsShell() {
		return c.Shell
	}
	return shellquote.Join(c.Args...)
}

// DefaultBinary invokes the Compose plugin of the Docker CLI
var DefaultBinary = []string{"docker", "compose"}

// Builder maps (record, operation) pairs to commands
type Builder struct {
	binary []string
}

// NewBuilder creates a builder invoking Compose through binary (DefaultBinary when empty)
func NewBuilder(binary ...string) *Builder {
	if len(binary) == 0 {
		binary = DefaultBinary
	}
	b := &Builder{binary: make([]string, len(binary))}
	copy(b.binary, binary)
	return b
}

// Environment returns the variables expected by the generated configuration of rec
func (b *Builder) Environment(rec environment.Record) map[string]string {
	return map[string]string{
		EnvComposeFile:        rec.ComposeFile(),
		EnvComposeProjectName: rec.ProjectName(),
		EnvProjectLocation:    rec.Location,
		EnvPHPImage:           rec.Type.ImageTag(rec.PHPVersion),
	}
}

// BaseArgs returns the Compose invocation shared by every operation on rec
func (b *Builder) BaseArgs(rec environment.Record) []string {
	args := make([]string, 0, len(b.binary)+3)
	args = append(args, b.binary...)
	return append(args,
		"--file="+rec.ComposeFile(),
		"--project-directory="+rec.Location,
		"--project-name="+rec.ProjectName(),
	)
}

// Build translates op on rec into a command
func (b *Builder) Build(rec environment.Record, op Operation, opts Options) (*Command, error) {
	cmd := &Command{Env: b.Environment(rec)}
	base := b.BaseArgs(rec)

	if suffix, ok := fixed[op]; ok {
		cmd.Args = append(base, suffix...)
		return cmd, nil
	}

	switch op {
	case OpLogs:
		cmd.Args = append(base, logsArgs(opts)...)

	case OpTerminal:
		// The caller must supply the service; the terminal always targets exactly one
		if strings.TrimSpace(opts.Service) == "" {
			return nil, ErrMissingServiceArgument
		}
		args := append(base, "exec")
		if opts.User != "" {
			args = append(args, "-u", opts.User)
		}
		cmd.Args = append(args, opts.Service, "sh", "-l")

	case OpResources:
		cmd.Shell = shellquote.Join(append(base, "ps", "--quiet")...) + " | xargs docker stats"

	case OpDump, OpRestore:
		line, err := databaseCommand(base, rec, op, opts.Path)
		if err != nil {
			return nil, err
		}
		cmd.Shell = line

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownOperation, op)
	}

	return cmd, nil
}

func logsArgs(opts Options) []string {
	tail := 0
	if opts.Tail != nil && *opts.Tail > 0 {
		tail = *opts.Tail
	}
	args := []string{"logs", "--follow", "--tail=" + strconv.Itoa(tail)}
	if opts.Service != "" {
		args = append(args, opts.Service)
	}
	return args
}
