// Package resolver selects the environment a command operates on.
//
// Several signals may point at an environment: the environment already
// flagged as active, a name given on the command line and the directory the
// command runs from. They are consulted in that order and the first match
// wins. The selected environment is then checked for a complete configuration
// before it is handed to the caller as a [Context].
package resolver

import (
	"fmt"
	"os"

	"github.com/nauticalab/devenv-compose/internal/environment"
	"github.com/nauticalab/devenv-compose/internal/validation"
)

// Source records which signal selected the environment
type Source string

const (
	SourceActive    Source = "active"
	SourceArgument  Source = "argument"
	SourceDirectory Source = "directory"
)

// Context is the environment selected for one invocation.
// It is passed explicitly to every operation of that invocation.
type Context struct {
	Record environment.Record
	Source Source
}

// ProjectName returns the composite project identifier of the selected environment
func (c *Context) ProjectName() string {
	return c.Record.ProjectName()
}

// Resolver applies the selection precedence over a registry
type Resolver struct {
	registry   *environment.Registry
	validator  *validation.FileValidator
	workingDir func() (string, error)
}

// Option customizes a Resolver
type Option func(*Resolver)

// WithWorkingDir replaces the source of the current working directory
func WithWorkingDir(fn func() (string, error)) Option {
	return func(r *Resolver) {
		r.workingDir = fn
	}
}

// New creates a resolver over registry, gating results with validator.
func New(registry *environment.Registry, validator *validation.FileValidator, opts ...Option) *Resolver {
	r := &Resolver{
		registry:   registry,
		validator:  validator,
		workingDir: os.Getwd,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Locate applies the precedence rules without checking the configuration:
//  1. the active environment;
//  2. the environment named by the caller, when name is not empty;
//  3. the environment located at the current working directory.
func (r *Resolver) Locate(name string) (*Context, error) {
	active, found, err := r.registry.ActiveRecord()
	if err != nil {
		return nil, err
	}
	if found {
		return &Context{Record: active, Source: SourceActive}, nil
	}

	if name != "" {
		rec, ok := r.registry.FindByName(name)
		if !ok {
			return nil, &environment.NotFoundError{Name: name}
		}
		return &Context{Record: rec, Source: SourceArgument}, nil
	}

	location, err := r.workingDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine the working directory: %w", err)
	}
	if rec, ok := r.registry.FindByLocation(location); ok {
		return &Context{Record: rec, Source: SourceDirectory}, nil
	}

	return nil, environment.ErrNoEnvironmentSelected
}

// Resolve locates the environment and checks that its configuration files exist.
// An environment with missing files is never returned.
func (r *Resolver) Resolve(name string) (*Context, error) {
	ctx, err := r.Locate(name)
	if err != nil {
		return nil, err
	}

	result := r.validator.Validate(ctx.Record)
	if !result.IsValid {
		return nil, &environment.ConfigurationError{
			Environment: ctx.Record.Name,
			Missing:     result.MissingFiles(),
		}
	}

	return ctx, nil
}
