package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/phocus/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// farFuture is the index score used for profiles without expiration (2100-01-01).
const farFuture = 4102444800

// Store implements ports.RemappingStore using Redis.
// Each profile is a JSON array under prefix+"profile:"+name; a sorted set under
// prefix+"index" tracks profiles by expiration time. Profile keys live in their
// own namespace so no profile name can collide with the index.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

// Option configures the Store.
type Option func(*Store)

// WithTTL sets the expiration for profiles.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix for profiles.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "phocus:remap:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *Store) key(profile string) string {
	return s.prefix + "profile:" + profile
}

func (s *Store) indexKey() string {
	return s.prefix + "index"
}

// Save persists the profile to Redis.
func (s *Store) Save(ctx context.Context, profile string, remappings []domain.Remapping) error {
	if remappings == nil {
		remappings = []domain.Remapping{}
	}
	data, err := json.Marshal(remappings)
	if err != nil {
		return fmt.Errorf("failed to marshal remappings: %w", err)
	}

	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = farFuture
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(profile), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: profile,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves the profile from Redis.
func (s *Store) Load(ctx context.Context, profile string) ([]domain.Remapping, error) {
	val, err := s.client.Get(ctx, s.key(profile)).Result()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var remappings []domain.Remapping
	if err := json.Unmarshal([]byte(val), &remappings); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile %s: %w", profile, err)
	}
	return remappings, nil
}

// Delete removes the profile.
func (s *Store) Delete(ctx context.Context, profile string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(profile))
	pipe.ZRem(ctx, s.indexKey(), profile)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete from redis: %w", err)
	}
	return nil
}

// List returns live profiles, pruning expired ones from the index first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired profiles: %w", err)
	}

	profiles, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	return profiles, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
