package domain

// Status is the compact, UI-facing state vocabulary the API reports.
type Status string

const (
	StatusActive     Status = "active"
	StatusInactive   Status = "inactive"
	StatusActivating Status = "activating"
	StatusFailed     Status = "failed"
	StatusUnknown    Status = "unknown"
)

// stateTable maps Docker lifecycle states onto the compact vocabulary.
var stateTable = map[string]Status{
	"running":    StatusActive,
	"created":    StatusInactive,
	"restarting": StatusActivating,
	"removing":   StatusInactive,
	"paused":     StatusInactive,
	"exited":     StatusInactive,
	"dead":       StatusFailed,
}

// Normalize maps a Docker lifecycle state plus an optional healthcheck
// result into a Status. Health overrides the lifecycle baseline when it is
// terminal ("healthy"/"unhealthy"); any other health value, including the
// empty string for containers with no healthcheck, leaves the baseline
// untouched. Unrecognized lifecycle states map to StatusUnknown.
func Normalize(state, health string) Status {
	mapped, ok := stateTable[state]
	if !ok {
		mapped = StatusUnknown
	}
	switch health {
	case "healthy":
		return StatusActive
	case "unhealthy":
		return StatusFailed
	}
	return mapped
}
