package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/recallist/recallist-server/internal/logger"
	"github.com/recallist/recallist-server/internal/model"
)

// NormalizeKey returns the canonical per-user identity of an item: its text
// trimmed of surrounding whitespace and lowercased. Lookups and storage use
// this form; the submitted text is kept separately for display and is never
// re-derived from it.
func NormalizeKey(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// Item enforces the recall-list record invariants while executing per-item
// operations scoped to one user. It holds no state between requests;
// correctness under concurrent requests for the same normalized key is
// delegated to the store's conditional operations.
type Item struct {
	store  model.ItemStore
	logger *logger.Logger
}

// NewItem creates an item service backed by the given store.
func NewItem(store model.ItemStore, logger *logger.Logger) *Item {
	return &Item{
		store:  store,
		logger: logger,
	}
}

// Create adds a new item for the user. The submitted text is preserved as
// display text; the normalized form becomes the item's key. Returns
// model.ErrEmptyItem when the trimmed text is empty and model.ErrConflict
// when an item with the same normalized key already exists.
func (s *Item) Create(ctx context.Context, userID, text string) (model.Item, error) {
	key := NormalizeKey(text)
	if key == "" {
		return model.Item{}, model.ErrEmptyItem
	}

	s.logger.WithContext(ctx).Info("creating item", "user_id", userID, "item", key)

	item := model.Item{
		UserID:      userID,
		Key:         key,
		DisplayText: text,
		Status:      model.ItemStatusNew,
		CreatedDate: time.Now().UTC(),
	}

	created, err := s.store.Create(ctx, item)
	if err != nil {
		if errors.Is(err, model.ErrConflict) {
			return model.Item{}, model.ErrConflict
		}
		return model.Item{}, fmt.Errorf("failed to create item: %w", err)
	}

	return created, nil
}

// Get returns the user's item matching the text, case-insensitively.
func (s *Item) Get(ctx context.Context, userID, text string) (model.Item, error) {
	s.logger.WithContext(ctx).Debug("getting item", "user_id", userID)

	item, err := s.store.Get(ctx, userID, NormalizeKey(text))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Item{}, model.ErrNotFound
		}
		return model.Item{}, fmt.Errorf("failed to get item: %w", err)
	}

	return item, nil
}

// List returns all of the user's items, both NEW and RESOLVED.
func (s *Item) List(ctx context.Context, userID string) ([]model.Item, error) {
	s.logger.WithContext(ctx).Debug("listing items", "user_id", userID)

	items, err := s.store.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	return items, nil
}

// Random picks one of the user's unresolved items uniformly at random.
// Every call is independent: prior picks are neither excluded nor
// remembered. Returns model.ErrNotFound when no unresolved items exist.
func (s *Item) Random(ctx context.Context, userID string) (model.Item, error) {
	items, err := s.store.ListByUserID(ctx, userID)
	if err != nil {
		return model.Item{}, fmt.Errorf("failed to list items: %w", err)
	}

	unresolved := make([]model.Item, 0, len(items))
	for _, item := range items {
		if item.Status != model.ItemStatusResolved {
			unresolved = append(unresolved, item)
		}
	}
	if len(unresolved) == 0 {
		return model.Item{}, model.ErrNotFound
	}

	return unresolved[rand.IntN(len(unresolved))], nil
}

// Resolve marks the item RESOLVED and stamps its resolution date. The
// transition is a single conditional update keyed on existence. Resolving
// an already-resolved item leaves the status RESOLVED but re-stamps the
// resolution date; that is inherited behavior, kept as observed.
func (s *Item) Resolve(ctx context.Context, userID, text string) (model.Item, error) {
	key := NormalizeKey(text)

	s.logger.WithContext(ctx).Info("resolving item", "user_id", userID, "item", key)

	item, err := s.store.Resolve(ctx, userID, key, time.Now().UTC())
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Item{}, model.ErrNotFound
		}
		return model.Item{}, fmt.Errorf("failed to resolve item: %w", err)
	}

	return item, nil
}

// Delete removes the item. Returns model.ErrNotFound when no item with the
// normalized key exists, so callers can tell absence from success.
func (s *Item) Delete(ctx context.Context, userID, text string) error {
	key := NormalizeKey(text)

	s.logger.WithContext(ctx).Info("deleting item", "user_id", userID, "item", key)

	if err := s.store.Delete(ctx, userID, key); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("failed to delete item: %w", err)
	}

	return nil
}
