// Package redis provides a Redis-backed snapshot store so that multiple
// engine instances can publish and read run status through shared storage.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/universalpress/cascade/runtime/execution"
	"github.com/universalpress/cascade/service/dao"
	"github.com/universalpress/cascade/service/dao/criteria"
	backend "github.com/redis/go-redis/v9"
)

// Service stores one JSON document per run keyed by prefix+runID, with an
// index set used by List.
type Service struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

var _ dao.Service[string, execution.Snapshot] = (*Service)(nil)

type Option func(*Service)

// WithTTL sets the expiration for stored snapshots; 0 keeps them forever.
func WithTTL(ttl time.Duration) Option {
	return func(s *Service) { s.ttl = ttl }
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Service) { s.prefix = prefix }
}

// New creates a Redis snapshot store connecting to the given address.
func New(address, password string, db int, opts ...Option) *Service {
	client := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(client, opts...)
}

// NewFromClient creates a Redis snapshot store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Service {
	s := &Service{
		client: client,
		prefix: "cascade:run:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) key(id string) string { return s.prefix + id }

func (s *Service) indexKey() string { return s.prefix + "index" }

// Save persists the snapshot and registers it in the index.
func (s *Service) Save(ctx context.Context, snap *execution.Snapshot) error {
	if snap == nil {
		return dao.ErrNilEntity
	}
	if snap.RunID == "" {
		return dao.ErrInvalidID
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.key(snap.RunID), data, s.ttl)
	pipe.SAdd(ctx, s.indexKey(), snap.RunID)
	if _, err = pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save snapshot to redis: %w", err)
	}
	return nil
}

// Load retrieves a run snapshot.
func (s *Service) Load(ctx context.Context, id string) (*execution.Snapshot, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, dao.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get snapshot from redis: %w", err)
	}

	var snap execution.Snapshot
	if err := json.Unmarshal([]byte(val), &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}

// Delete removes a run snapshot and its index entry.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	existing, err := s.client.Exists(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to check snapshot existence: %w", err)
	}
	if existing == 0 {
		return dao.ErrNotFound
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.key(id))
	pipe.SRem(ctx, s.indexKey(), id)
	_, err = pipe.Exec(ctx)
	return err
}

// List returns all indexed snapshots, optionally filtered by state. Index
// entries whose snapshot has expired are pruned lazily.
func (s *Service) List(ctx context.Context, parameters ...*dao.Parameter) ([]*execution.Snapshot, error) {
	ids, err := s.client.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshot index: %w", err)
	}

	var snapshots []*execution.Snapshot
	for _, id := range ids {
		snap, err := s.Load(ctx, id)
		if err != nil {
			if err == dao.ErrNotFound {
				s.client.SRem(ctx, s.indexKey(), id)
				continue
			}
			return nil, err
		}
		if !criteria.FilterByState(string(snap.State), parameters) {
			continue
		}
		snapshots = append(snapshots, snap)
	}
	return snapshots, nil
}

// Close closes the underlying client.
func (s *Service) Close() error {
	return s.client.Close()
}
