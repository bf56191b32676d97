package transport

import "time"

// EventType identifies the kind of event occurring during a dispatch call.
type EventType string

const (
	// EventAttemptStart fires before each physical attempt.
	EventAttemptStart EventType = "attempt_start"

	// EventAttemptFailed fires after a failed attempt.
	EventAttemptFailed EventType = "attempt_failed"

	// EventRetrying fires before sleeping between attempts.
	EventRetrying EventType = "retrying"

	// EventSuccess fires when an attempt succeeds.
	EventSuccess EventType = "success"

	// EventExhausted fires when the retry budget is spent.
	EventExhausted EventType = "exhausted"
)

// Event represents an observable occurrence during a dispatch call.
type Event struct {
	// Type identifies the kind of event.
	Type EventType

	// RequestID correlates all events of one dispatch call.
	RequestID string

	// Model is the descriptor's model name.
	Model string

	// Attempt is the current attempt number (1-indexed).
	Attempt int

	// MaxAttempts is the total number of attempts allowed.
	MaxAttempts int

	// StatusCode is the HTTP status of a failed attempt, 0 if none.
	StatusCode int

	// Err contains the typed error from a failed attempt.
	Err error

	// Delay is the duration before the next attempt (for EventRetrying).
	Delay time.Duration

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// emit sends an event with timestamp to the channel without blocking.
func (t *Transport) emit(event Event) {
	if t.events == nil {
		return
	}
	event.Timestamp = time.Now()
	select {
	case t.events <- event:
	default:
		// Channel full - don't block
	}
}
