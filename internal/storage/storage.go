// Package storage keeps generated report artifacts addressable by ID.
package storage

import (
	"context"
	"errors"
	"time"

	"usage-report/internal/model"
	"usage-report/internal/usage"
)

var ErrNotFound = errors.New("artifact not found")

// Artifact is one generated report: its figures plus the rendered documents.
type Artifact struct {
	ID        string          `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	EntryID   string          `json:"entry_id"`
	Range     model.TimeRange `json:"range"`
	Hourly    usage.Hourly    `json:"hourly"`
	Summary   usage.Summary   `json:"summary"`
	Pairing   usage.Pairing   `json:"pairing"`
	Warnings  []string        `json:"warnings,omitempty"`

	PDF []byte `json:"-"`
	PNG []byte `json:"-"`
}

// Store persists artifacts. Implementations must be safe for concurrent use.
type Store interface {
	Save(ctx context.Context, a *Artifact) error
	Get(ctx context.Context, id string) (*Artifact, error)
	// Latest returns the most recently created artifact.
	Latest(ctx context.Context) (*Artifact, error)
	Close() error
}
