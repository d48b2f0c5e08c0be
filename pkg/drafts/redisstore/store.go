// Package redisstore keeps drafts in Redis as JSON documents.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/NamazuStudios/elements-formgen/pkg/drafts"
	"github.com/NamazuStudios/elements-formgen/pkg/metadata"
)

// DefaultPrefix is prepended to every draft key.
const DefaultPrefix = "elements:drafts:"

// Config holds connection settings for New.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
	// TTL expires drafts after the given duration; zero keeps them forever.
	TTL time.Duration
}

// Store is a drafts.Store backed by Redis.
type Store struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
	now    func() time.Time
}

var _ drafts.Store = (*Store)(nil)

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redisstore: ping %s: %w", cfg.Addr, err)
	}
	store := NewWithClient(client, cfg.Prefix)
	store.ttl = cfg.TTL
	return store, nil
}

// NewWithClient wraps an existing client. An empty prefix selects
// DefaultPrefix.
func NewWithClient(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{
		client: client,
		prefix: prefix,
		now:    time.Now,
	}
}

// WithTTL sets the expiry applied on Save.
func (s *Store) WithTTL(ttl time.Duration) *Store {
	s.ttl = ttl
	return s
}

// Save writes the draft, refreshing its expiry.
func (s *Store) Save(ctx context.Context, key drafts.Key, values metadata.ValueTree) error {
	if err := key.Validate(); err != nil {
		return err
	}
	payload, err := json.Marshal(drafts.Draft{
		Key:     key,
		Values:  values,
		SavedAt: s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("redisstore: encode draft %s: %w", key, err)
	}
	if err := s.client.Set(ctx, s.key(key), payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("redisstore: set %s: %w", key, err)
	}
	return nil
}

// Load reads the draft stored under key.
func (s *Store) Load(ctx context.Context, key drafts.Key) (drafts.Draft, error) {
	if err := key.Validate(); err != nil {
		return drafts.Draft{}, err
	}
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return drafts.Draft{}, fmt.Errorf("%w: %s", drafts.ErrNotFound, key)
	}
	if err != nil {
		return drafts.Draft{}, fmt.Errorf("redisstore: get %s: %w", key, err)
	}

	var draft drafts.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		return drafts.Draft{}, fmt.Errorf("redisstore: decode draft %s: %w", key, err)
	}
	return draft, nil
}

// Delete removes the draft stored under key.
func (s *Store) Delete(ctx context.Context, key drafts.Key) error {
	if err := key.Validate(); err != nil {
		return err
	}
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("redisstore: del %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying client.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *Store) key(key drafts.Key) string {
	return s.prefix + key.String()
}
