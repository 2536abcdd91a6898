package email

import (
	"errors"
	"time"
)

// Kind constants for outbound mail records.
const (
	KindVerification = "verification"
)

// ErrEmptyRecipient is returned when a log entry has no destination.
var ErrEmptyRecipient = errors.New("email log entry needs a recipient")

// LogEntry records one outbound email accepted by the provider. The app
// keeps this audit trail so support can see what was sent and when.
type LogEntry struct {
	ID        string
	ToAddress string
	Subject   string
	Kind      string
	MessageID string // provider's message ID
	SentAt    time.Time
}

// Validate checks if the LogEntry has valid data.
// POST: Returns nil if valid, error otherwise
func (e *LogEntry) Validate() error {
	if e.ToAddress == "" {
		return ErrEmptyRecipient
	}
	return nil
}
