// Package session keeps each visitor's last inputs and access level apart
// from every other visitor's. Nothing here outlives the session TTL.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Simplici0/ledwall/internal/estimator"
)

// ErrNotFound is returned when a session does not exist or has expired.
var ErrNotFound = errors.New("session not found")

// Data is what a session remembers between recomputations.
type Data struct {
	Privileged bool              `json:"privileged"`
	Request    estimator.Request `json:"request"`
	ExtrasText string            `json:"extras_text"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// Store persists session data for a limited time.
type Store interface {
	Get(ctx context.Context, id string) (Data, error)
	Save(ctx context.Context, id string, data Data) error
	Delete(ctx context.Context, id string) error
}

// NewID returns a fresh random session id.
func NewID() string {
	return uuid.NewString()
}

// ValidID reports whether id looks like an id produced by NewID.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
