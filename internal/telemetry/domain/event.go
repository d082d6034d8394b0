package domain

import "time"

// Event types emitted by the console.
const (
	TypeAuthFlow  = "auth_flow"
	TypeAPIError  = "api_error"
	TypeSession   = "session"
	SourceConsole = "console"
)

// Event is a client-side telemetry event. Attributes never carry tokens, passwords or OTP codes.
type Event struct {
	Type       string
	Source     string
	Attributes map[string]string
	CreatedAt  time.Time
}

// NewEvent returns an Event of type typ from the console, stamped now.
func NewEvent(typ string, attrs map[string]string) *Event {
	return &Event{Type: typ, Source: SourceConsole, Attributes: attrs, CreatedAt: time.Now().UTC()}
}
