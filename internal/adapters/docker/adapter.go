package docker

import (
	"context"
	"fmt"
	"io"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"

	"github.com/valentinmaxime/docker-seedbox/internal/core/domain"
)

// Adapter implements ports.ContainerRuntime using the Docker SDK over the
// local control socket.
type Adapter struct {
	cli *client.Client
}

// NewAdapter creates a new Docker adapter instance.
func NewAdapter() (*Adapter, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, fmt.Errorf("failed to create docker client: %w", err)
	}
	return &Adapter{cli: cli}, nil
}

// Ping verifies the control socket is reachable.
func (a *Adapter) Ping(ctx context.Context) error {
	if _, err := a.cli.Ping(ctx); err != nil {
		return fmt.Errorf("docker daemon unreachable: %w", err)
	}
	return nil
}

// State returns the current lifecycle state and healthcheck result for a
// container by name.
func (a *Adapter) State(ctx context.Context, name string) (domain.ContainerState, error) {
	inspect, err := a.cli.ContainerInspect(ctx, name)
	if err != nil {
		return domain.ContainerState{}, a.wrap("inspect", name, err)
	}
	state := domain.ContainerState{}
	if inspect.State != nil {
		state.Status = inspect.State.Status
		if inspect.State.Health != nil {
			state.Health = inspect.State.Health.Status
		}
	}
	return state, nil
}

func (a *Adapter) Start(ctx context.Context, name string) error {
	if err := a.cli.ContainerStart(ctx, name, container.StartOptions{}); err != nil {
		return a.wrap("start", name, err)
	}
	return nil
}

func (a *Adapter) Stop(ctx context.Context, name string) error {
	if err := a.cli.ContainerStop(ctx, name, container.StopOptions{}); err != nil {
		return a.wrap("stop", name, err)
	}
	return nil
}

func (a *Adapter) Restart(ctx context.Context, name string) error {
	if err := a.cli.ContainerRestart(ctx, name, container.StopOptions{}); err != nil {
		return a.wrap("restart", name, err)
	}
	return nil
}

// Logs returns a stream of container logs, newest tail lines only.
func (a *Adapter) Logs(ctx context.Context, name string, tail string) (io.ReadCloser, error) {
	logs, err := a.cli.ContainerLogs(ctx, name, types.ContainerLogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Timestamps: true,
		Tail:       tail,
	})
	if err != nil {
		return nil, a.wrap("logs", name, err)
	}
	return logs, nil
}

// wrap maps SDK failures onto the domain error vocabulary: missing
// containers become ErrContainerNotFound, everything else keeps the
// engine's diagnostic inside a RuntimeError.
func (a *Adapter) wrap(op, name string, err error) error {
	if errdefs.IsNotFound(err) {
		return fmt.Errorf("%s %s: %w", op, name, domain.ErrContainerNotFound)
	}
	return &domain.RuntimeError{Op: op, Name: name, Err: err}
}
