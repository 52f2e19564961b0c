package weather

import "errors"

// State is the lifecycle of one resolution as seen by a presenter.
type State string

const (
	StateIdle     State = "idle"
	StateInFlight State = "in_flight"
	StateSuccess  State = "success"
	StateFailed   State = "failed"
)

// Outcome is the tagged result of a resolution. Exactly one of View or
// Message is set once the state is terminal.
type Outcome struct {
	State   State  `json:"state"`
	Kind    Kind   `json:"kind,omitempty"`
	Message string `json:"message,omitempty"`
	View    *View  `json:"view,omitempty"`
}

// NewOutcome converts a Service result into an Outcome. Errors that are not a
// *Failure get a generic message.
func NewOutcome(view View, err error) Outcome {
	if err == nil {
		return Outcome{State: StateSuccess, View: &view}
	}

	var f *Failure
	if errors.As(err, &f) {
		return Outcome{State: StateFailed, Kind: f.Kind, Message: f.Message}
	}
	return Outcome{State: StateFailed, Kind: KindOf(err), Message: msgCityUnavailable}
}

// Terminal reports whether the outcome is Success or Failed.
func (o Outcome) Terminal() bool {
	return o.State == StateSuccess || o.State == StateFailed
}
