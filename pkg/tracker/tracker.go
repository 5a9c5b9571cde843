// Package tracker keeps the idempotency state for reruns: which reviews have
// already been processed and which period reports have already been sent.
// The original pipeline kept a "sent index" worksheet for this; here it is a
// set-membership interface with a Redis implementation for shared agents and
// an in-memory one for tests and single-shot runs.
package tracker

import (
	"context"
	"sync"
)

// Tracker answers "have I processed review X" and "have I delivered period P".
// Marking is additive; there is no expiry.
type Tracker interface {
	// SeenReview reports whether a review ID was marked processed.
	SeenReview(ctx context.Context, reviewID string) (bool, error)

	// MarkReviews marks review IDs as processed.
	MarkReviews(ctx context.Context, reviewIDs ...string) error

	// Delivered reports whether a period report was already sent.
	// kind distinguishes report flavours (e.g. "weekly"), key is the
	// period key (e.g. "2025-W14").
	Delivered(ctx context.Context, kind, key string) (bool, error)

	// MarkDelivered records that a period report went out.
	MarkDelivered(ctx context.Context, kind, key string) error

	Close() error
}

// MemoryTracker is an in-process Tracker. Safe for concurrent use.
type MemoryTracker struct {
	mu        sync.RWMutex
	seen      map[string]bool
	delivered map[string]bool
}

// NewMemory creates an empty in-memory tracker.
func NewMemory() *MemoryTracker {
	return &MemoryTracker{
		seen:      make(map[string]bool),
		delivered: make(map[string]bool),
	}
}

// SeenReview reports whether a review ID was marked processed.
func (m *MemoryTracker) SeenReview(_ context.Context, reviewID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.seen[reviewID], nil
}

// MarkReviews marks review IDs as processed.
func (m *MemoryTracker) MarkReviews(_ context.Context, reviewIDs ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range reviewIDs {
		m.seen[id] = true
	}
	return nil
}

// Delivered reports whether a period report was already sent.
func (m *MemoryTracker) Delivered(_ context.Context, kind, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.delivered[kind+":"+key], nil
}

// MarkDelivered records that a period report went out.
func (m *MemoryTracker) MarkDelivered(_ context.Context, kind, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delivered[kind+":"+key] = true
	return nil
}

// Close is a no-op for the in-memory tracker.
func (m *MemoryTracker) Close() error { return nil }

var _ Tracker = (*MemoryTracker)(nil)
