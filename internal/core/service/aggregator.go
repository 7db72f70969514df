package service

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"

	"github.com/valentinmaxime/docker-seedbox/internal/core/domain"
	"github.com/valentinmaxime/docker-seedbox/internal/core/ports"
)

// Aggregator assembles the per-service status document by querying the
// runtime for every whitelisted registry entry.
type Aggregator struct {
	reg     *Registry
	runtime ports.ContainerRuntime
	log     zerolog.Logger
}

func NewAggregator(reg *Registry, runtime ports.ContainerRuntime, log zerolog.Logger) *Aggregator {
	return &Aggregator{reg: reg, runtime: runtime, log: log}
}

// Statuses returns the status of every whitelisted service. Keys whose
// container is not whitelisted are skipped entirely. A container the
// runtime does not know about, or a failed query, is reported as "unknown"
// with no raw block; one bad entry never aborts the rest.
func (a *Aggregator) Statuses(ctx context.Context) map[string]domain.ServiceStatus {
	out := make(map[string]domain.ServiceStatus)
	for _, key := range a.reg.Keys() {
		name, _ := a.reg.Resolve(key)
		if !a.reg.Allowed(name) {
			continue
		}
		state, err := a.runtime.State(ctx, name)
		if err != nil {
			if !errors.Is(err, domain.ErrContainerNotFound) {
				a.log.Warn().Err(err).Str("container", name).Msg("status query failed")
			}
			out[key] = domain.ServiceStatus{State: domain.StatusUnknown}
			continue
		}
		out[key] = domain.NewServiceStatus(state)
	}
	return out
}

// Logs opens a log stream for a whitelisted service. tail limits the
// number of trailing lines ("all" for everything). The caller must close
// the returned stream.
func (a *Aggregator) Logs(ctx context.Context, key, tail string) (io.ReadCloser, *domain.ActionError) {
	name, aerr := a.reg.Authorize(key)
	if aerr != nil {
		return nil, aerr
	}
	logs, err := a.runtime.Logs(ctx, name, tail)
	if err != nil {
		return nil, classifyRuntimeErr(err, "logs", name)
	}
	return logs, nil
}
