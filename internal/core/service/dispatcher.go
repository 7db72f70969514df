package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/valentinmaxime/docker-seedbox/internal/core/domain"
	"github.com/valentinmaxime/docker-seedbox/internal/core/ports"
)

// defaultGrace is slept after a successful action so the engine's state
// transition starts propagating before the client re-polls /api/status.
// Best-effort only; callers that need confirmed convergence must poll.
const defaultGrace = 200 * time.Millisecond

// Dispatcher validates a control request and relays it to the runtime as a
// single shot. No retries.
type Dispatcher struct {
	reg     *Registry
	runtime ports.ContainerRuntime
	grace   time.Duration
	log     zerolog.Logger
}

func NewDispatcher(reg *Registry, runtime ports.ContainerRuntime, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{reg: reg, runtime: runtime, grace: defaultGrace, log: log}
}

// Perform runs one lifecycle action against one service. The first failing
// check wins: invalid action, then unknown key, then whitelist, then
// container existence, then the engine call itself.
func (d *Dispatcher) Perform(ctx context.Context, key, action string) *domain.ActionError {
	act, ok := domain.ParseAction(action)
	if !ok {
		return &domain.ActionError{
			Category: domain.InvalidAction,
			Message:  "Invalid action (allowed: start, stop, restart).",
		}
	}

	name, aerr := d.reg.Authorize(key)
	if aerr != nil {
		return aerr
	}

	if _, err := d.runtime.State(ctx, name); err != nil {
		return classifyRuntimeErr(err, string(act), name)
	}

	var err error
	switch act {
	case domain.ActionStart:
		err = d.runtime.Start(ctx, name)
	case domain.ActionStop:
		err = d.runtime.Stop(ctx, name)
	case domain.ActionRestart:
		err = d.runtime.Restart(ctx, name)
	}
	if err != nil {
		return classifyRuntimeErr(err, string(act), name)
	}

	d.log.Info().Str("container", name).Str("action", string(act)).Msg("action dispatched")
	time.Sleep(d.grace)
	return nil
}

// classifyRuntimeErr sorts a runtime adapter failure into the NotFound or
// RuntimeFailure bucket, carrying the engine diagnostic verbatim.
func classifyRuntimeErr(err error, action, name string) *domain.ActionError {
	if errors.Is(err, domain.ErrContainerNotFound) {
		return &domain.ActionError{
			Category: domain.NotFound,
			Message:  fmt.Sprintf("Container '%s' not found.", name),
		}
	}
	return &domain.ActionError{
		Category: domain.RuntimeFailure,
		Message:  fmt.Sprintf("Docker API error while '%s' on '%s': %s", action, name, err),
	}
}
