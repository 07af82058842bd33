package notification

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"hostel/shared/cache"
)

// Store persists the notification feed between poller runs.
type Store interface {
	Load(ctx context.Context) ([]Notification, error)
	Save(ctx context.Context, notifications []Notification) error
	Clear(ctx context.Context) error
}

type MemoryStore struct {
	mu            sync.Mutex
	notifications []Notification
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load(context.Context) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.notifications), nil
}

func (s *MemoryStore) Save(_ context.Context, notifications []Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = slices.Clone(notifications)

	return nil
}

func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notifications = nil

	return nil
}

// RedisStore keeps the feed as one JSON value without expiry.
type RedisStore struct {
	cache cache.RedisCache
	key   string
}

func NewRedisStore(cache cache.RedisCache, key string) *RedisStore {
	return &RedisStore{cache: cache, key: key}
}

func (s *RedisStore) Load(ctx context.Context) ([]Notification, error) {
	var notifications []Notification

	err := s.cache.Get(ctx, s.key, &notifications)
	if errors.Is(err, cache.Nil) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to load notifications: %w", err)
	}

	return notifications, nil
}

func (s *RedisStore) Save(ctx context.Context, notifications []Notification) error {
	if err := s.cache.Save(ctx, s.key, notifications, 0); err != nil {
		return fmt.Errorf("failed to save notifications: %w", err)
	}

	return nil
}

func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.cache.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear notifications: %w", err)
	}

	return nil
}
