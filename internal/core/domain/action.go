package domain

// Action is a lifecycle command that can be dispatched to a service.
type Action string

const (
	ActionStart   Action = "start"
	ActionStop    Action = "stop"
	ActionRestart Action = "restart"
)

// ParseAction validates the raw action segment of a control request.
// Downstream code switches exhaustively over the returned Action instead of
// re-checking strings.
func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionStart, ActionStop, ActionRestart:
		return Action(s), true
	}
	return "", false
}
