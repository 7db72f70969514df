package ports

import (
	"context"
	"io"

	"github.com/valentinmaxime/docker-seedbox/internal/core/domain"
)

// ContainerRuntime is the narrow view of the container engine the core
// consumes: look up one container's current state and drive its lifecycle.
// This interface allows us to swap the Docker transport for a mock in tests
// without touching the business logic.
//
// State returns domain.ErrContainerNotFound when the engine has no
// container under that name; every other engine failure is reported as a
// *domain.RuntimeError.
type ContainerRuntime interface {
	Ping(ctx context.Context) error
	State(ctx context.Context, name string) (domain.ContainerState, error)
	Start(ctx context.Context, name string) error
	Stop(ctx context.Context, name string) error
	Restart(ctx context.Context, name string) error
	Logs(ctx context.Context, name string, tail string) (io.ReadCloser, error)
}
