package model

import (
	"context"
	"time"
)

// ItemStore defines persistence operations for recall-list items.
//
// Every method is scoped by user ID and the normalized item key; the backing
// table addresses records by the (user_id, item) composite key, so one user's
// items are structurally unreachable from another user's operations.
type ItemStore interface {
	// Create stores a new item. Returns ErrConflict if an item with the
	// same normalized key already exists for the user. The existence check
	// and the write are a single conditional operation.
	Create(ctx context.Context, item Item) (Item, error)
	// Get returns the item with the given normalized key, or ErrNotFound.
	Get(ctx context.Context, userID, key string) (Item, error)
	// ListByUserID returns all items for the user, following store
	// pagination until the result set is complete.
	ListByUserID(ctx context.Context, userID string) ([]Item, error)
	// Resolve atomically marks the item RESOLVED and stamps resolvedAt.
	// Returns ErrNotFound if no item with the key exists.
	Resolve(ctx context.Context, userID, key string, resolvedAt time.Time) (Item, error)
	// Delete atomically removes the item. Returns ErrNotFound if no item
	// with the key exists.
	Delete(ctx context.Context, userID, key string) error
}

// Item represents a stored recall-list item.
type Item struct {
	UserID       string
	Key          string
	DisplayText  string
	Status       ItemStatus
	CreatedDate  time.Time
	ResolvedDate *time.Time
}

// ItemStatus enumerates item lifecycle states.
type ItemStatus string

const (
	// ItemStatusNew is the initial state of a created item.
	ItemStatusNew ItemStatus = "NEW"
	// ItemStatusResolved is the terminal state. There is no un-resolve.
	ItemStatusResolved ItemStatus = "RESOLVED"
)
