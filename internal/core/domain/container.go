package domain

// ContainerState is the raw pair reported by the container runtime for a
// single container. Health is empty when the container has no healthcheck.
// Fetched fresh per request, never cached.
type ContainerState struct {
	Status string
	Health string
}

// RawStatus is the wire form of ContainerState on /api/status. Health is a
// pointer so that containers without a healthcheck serialize as null.
type RawStatus struct {
	Status string  `json:"status"`
	Health *string `json:"health"`
}

// ServiceStatus is one entry of the /api/status document. Raw is omitted
// when the container is absent from the runtime.
type ServiceStatus struct {
	State Status     `json:"state"`
	Raw   *RawStatus `json:"raw,omitempty"`
}

// NewServiceStatus builds the status entry for a container the runtime
// knows about.
func NewServiceStatus(cs ContainerState) ServiceStatus {
	raw := &RawStatus{Status: cs.Status}
	if cs.Health != "" {
		h := cs.Health
		raw.Health = &h
	}
	return ServiceStatus{State: Normalize(cs.Status, cs.Health), Raw: raw}
}
