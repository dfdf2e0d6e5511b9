// Package memory provides the default in-process snapshot store. Retention is
// bounded: terminal snapshots expire after a TTL and the store never holds
// more than MaxEntries records, evicting the oldest finished runs first.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/universalpress/cascade/internal/clock"
	"github.com/universalpress/cascade/runtime/execution"
	"github.com/universalpress/cascade/service/dao"
	"github.com/universalpress/cascade/service/dao/criteria"
)

// Config bounds the store.
type Config struct {
	// MaxEntries caps the number of retained snapshots; 0 means unbounded.
	MaxEntries int
	// TerminalTTL expires finished runs; 0 disables time-based eviction.
	TerminalTTL time.Duration
}

// DefaultConfig retains up to 10000 snapshots, finished runs for an hour.
func DefaultConfig() Config {
	return Config{MaxEntries: 10000, TerminalTTL: time.Hour}
}

// Service implements an in-memory, thread-safe snapshot store. All API
// methods operate on immutable snapshots so no copies are needed.
type Service struct {
	config    Config
	snapshots map[string]*execution.Snapshot
	mux       sync.RWMutex
}

var _ dao.Service[string, execution.Snapshot] = (*Service)(nil)

// New creates a bounded in-memory store.
func New(config Config) *Service {
	return &Service{config: config, snapshots: map[string]*execution.Snapshot{}}
}

func (s *Service) Save(_ context.Context, snap *execution.Snapshot) error {
	if snap == nil {
		return dao.ErrNilEntity
	}
	if snap.RunID == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	s.snapshots[snap.RunID] = snap
	s.evict()
	return nil
}

func (s *Service) Load(_ context.Context, id string) (*execution.Snapshot, error) {
	if id == "" {
		return nil, dao.ErrInvalidID
	}

	s.mux.RLock()
	snap, ok := s.snapshots[id]
	s.mux.RUnlock()

	if !ok {
		return nil, dao.ErrNotFound
	}
	return snap, nil
}

func (s *Service) Delete(_ context.Context, id string) error {
	if id == "" {
		return dao.ErrInvalidID
	}

	s.mux.Lock()
	defer s.mux.Unlock()

	if _, ok := s.snapshots[id]; !ok {
		return dao.ErrNotFound
	}
	delete(s.snapshots, id)
	return nil
}

func (s *Service) List(_ context.Context, parameters ...*dao.Parameter) ([]*execution.Snapshot, error) {
	s.mux.RLock()
	defer s.mux.RUnlock()

	out := make([]*execution.Snapshot, 0, len(s.snapshots))
	for _, snap := range s.snapshots {
		if !criteria.FilterByState(string(snap.State), parameters) {
			continue
		}
		out = append(out, snap)
	}
	return out, nil
}

// Len returns the number of retained snapshots.
func (s *Service) Len() int {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return len(s.snapshots)
}

// evict drops expired terminal snapshots and, when still over the cap, the
// oldest finished runs. In-flight runs are never evicted by the size cap
// unless no finished run remains. Caller holds the write lock.
func (s *Service) evict() {
	now := clock.Now()

	if s.config.TerminalTTL > 0 {
		for id, snap := range s.snapshots {
			if snap.Terminal() && snap.FinishedAt != nil &&
				now.Sub(*snap.FinishedAt) > s.config.TerminalTTL {
				delete(s.snapshots, id)
			}
		}
	}

	if s.config.MaxEntries <= 0 || len(s.snapshots) <= s.config.MaxEntries {
		return
	}

	type aged struct {
		id       string
		terminal bool
		at       time.Time
	}
	candidates := make([]aged, 0, len(s.snapshots))
	for id, snap := range s.snapshots {
		at := snap.CreatedAt
		if snap.FinishedAt != nil {
			at = *snap.FinishedAt
		}
		candidates = append(candidates, aged{id: id, terminal: snap.Terminal(), at: at})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].terminal != candidates[j].terminal {
			return candidates[i].terminal
		}
		return candidates[i].at.Before(candidates[j].at)
	})
	for _, c := range candidates {
		if len(s.snapshots) <= s.config.MaxEntries {
			break
		}
		delete(s.snapshots, c.id)
	}
}
