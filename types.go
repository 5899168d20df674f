package goAuthFlow

// Status is the phase of a screen's state machine.
type Status uint8

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusSubmitting:
		return "submitting"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// State is the render snapshot of a screen.
type State struct {
	Status     Status
	Submitting bool
	// CanSubmit reports whether the submit control is enabled.
	CanSubmit bool
	// Error is the inline error text. It is cleared when a submit starts.
	Error string
	// Message is an informational text: a message handed over by the
	// previous screen, or the backend's success message.
	Message string
	Email   string
	// Notice is the verify screen's resend notification, independent of Error.
	Notice string
}
