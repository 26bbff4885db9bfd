// Package docker talks to the Docker daemon through the Docker SDK.
package docker

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/client"
)

// ProjectLabel is set by Docker Compose on every container of a project
const ProjectLabel = "com.docker.compose.project"

// ServerInfo describes the daemon devenv is connected to
type ServerInfo struct {
	Version    string
	APIVersion string
	OS         string
	Arch       string
}

// Client wraps the Docker SDK client.
type Client struct {
	inner *client.Client
}

// New creates a new Docker client using environment defaults.
// A non-empty host overrides DOCKER_HOST.
func New(host string) (*Client, error) {
	opts := []client.Opt{client.FromEnv, client.WithAPIVersionNegotiation()}
	if host != "" {
		opts = append(opts, client.WithHost(host))
	}
	inner, err := client.NewClientWithOpts(opts...)
	if err != nil {
		return nil, fmt.Errorf("create docker client: %w", err)
	}
	return &Client{inner: inner}, nil
}

// Ping validates connectivity to the Docker daemon and reports its version.
func (c *Client) Ping(ctx context.Context) (*ServerInfo, error) {
	if c == nil || c.inner == nil {
		return nil, fmt.Errorf("docker client not initialized")
	}
	var ping types.Ping
	ping, err := c.inner.Ping(ctx)
	if err != nil {
		return nil, fmt.Errorf("docker ping: %w", err)
	}
	if ping.APIVersion == "" {
		return nil, fmt.Errorf("docker ping returned empty API version")
	}

	version, err := c.inner.ServerVersion(ctx)
	if err != nil {
		return nil, fmt.Errorf("docker version: %w", err)
	}
	return &ServerInfo{
		Version:    version.Version,
		APIVersion: version.APIVersion,
		OS:         version.Os,
		Arch:       version.Arch,
	}, nil
}

// RunningProjects counts running containers per Compose project
func (c *Client) RunningProjects(ctx context.Context) (map[string]int, error) {
	if c == nil || c.inner == nil {
		return nil, fmt.Errorf("docker client not initialized")
	}
	containers, err := c.inner.ContainerList(ctx, container.ListOptions{
		Filters: filters.NewArgs(
			filters.Arg("label", ProjectLabel),
			filters.Arg("status", "running"),
		),
	})
	if err != nil {
		return nil, fmt.Errorf("docker list containers: %w", err)
	}

	projects := make(map[string]int)
	for _, ctr := range containers {
		if project := ctr.Labels[ProjectLabel]; project != "" {
			projects[project]++
		}
	}
	return projects, nil
}

// Close releases resources held by the Docker client.
func (c *Client) Close() error {
	if c == nil || c.inner == nil {
		return nil
	}
	return c.inner.Close()
}
