// Package idempotency makes retried stay writes safe: the first request
// under an Idempotency-Key runs, later ones replay its response.
package idempotency

import (
	"context"
	"time"
)

type State string

const (
	StatePending   State = "pending"
	StateCompleted State = "completed"
)

type Record struct {
	State       State  `json:"state"`
	Fingerprint string `json:"fingerprint"`
	Status      int    `json:"status,omitempty"`
	ContentType string `json:"content_type,omitempty"`
	Body        []byte `json:"body,omitempty"`
}

type Store interface {
	// Reserve claims key for a new request. When the key is already taken it
	// returns the stored record and false.
	Reserve(ctx context.Context, key, fingerprint string, ttl time.Duration) (*Record, bool, error)
	Complete(ctx context.Context, key string, rec Record, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}
