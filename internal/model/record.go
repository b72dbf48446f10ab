package model

import "time"

// LogRecord is one state transition of an input channel, as read from the uploaded log.
type LogRecord struct {
	EntryID   string    `json:"entry_id"`
	State     State     `json:"state"`
	Timestamp time.Time `json:"timestamp"`

	// Line is the 1-based line of the source file. Zero when unknown.
	Line int `json:"line,omitempty"`
}

// IsOn reports whether the record activates the channel.
func (r LogRecord) IsOn() bool { return r.State == StateOn }
