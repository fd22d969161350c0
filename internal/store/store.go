// Package store persists the two documents Fuel Alert owns: the
// last-observed phase per city and the per-city subscriber registry.
// Both are small whole-document maps read and overwritten wholesale;
// the deployment guarantees a single writer at a time.
package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/ignite/fuel-alert/internal/config"
	"github.com/ignite/fuel-alert/internal/cycle"
)

// Backend loads and saves the persisted documents. Implementations
// return a nil document (and nil error) when nothing has been persisted
// yet; the stores above fill in defaults.
type Backend interface {
	LoadState(ctx context.Context) (cycle.StateRecord, error)
	SaveState(ctx context.Context, rec cycle.StateRecord) error
	LoadSubscribers(ctx context.Context) (Registry, error)
	SaveSubscribers(ctx context.Context, reg Registry) error
}

// NewBackend constructs the backend selected by cfg.Type.
func NewBackend(cfg config.StorageConfig) (Backend, error) {
	switch cfg.Type {
	case "file":
		return NewFileBackend(cfg.DataDir), nil
	case "redis":
		return NewRedisBackend(cfg.RedisAddr, cfg.RedisDB), nil
	case "postgres":
		return NewPostgresBackend(cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// StateStore persists the last observed phase per city.
type StateStore struct {
	backend Backend
	cities  []string
}

// NewStateStore creates a state store over the given backend.
func NewStateStore(backend Backend, cities []string) *StateStore {
	return &StateStore{backend: backend, cities: cities}
}

// Load returns the previous state record. Cities never persisted (or a
// missing document) default to PhaseUnknown; persisted cities outside
// the configured set are dropped.
func (s *StateStore) Load(ctx context.Context) (cycle.StateRecord, error) {
	stored, err := s.backend.LoadState(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading state: %w", err)
	}

	rec := cycle.NewStateRecord(s.cities)
	for _, city := range s.cities {
		if phase, ok := stored[city]; ok && phase.Valid() {
			rec[city] = phase
		}
	}
	return rec, nil
}

// Save overwrites the persisted state record wholesale.
func (s *StateStore) Save(ctx context.Context, rec cycle.StateRecord) error {
	if err := s.backend.SaveState(ctx, rec); err != nil {
		return fmt.Errorf("saving state: %w", err)
	}
	return nil
}

// AddStatus is the outcome of SubscriberStore.Add.
type AddStatus int

const (
	Added AddStatus = iota
	AlreadySubscribed
)

// RemoveStatus is the outcome of SubscriberStore.Remove.
type RemoveStatus int

const (
	Removed RemoveStatus = iota
	NotSubscribed
)

// SubscriberStore persists the per-city subscriber registry.
type SubscriberStore struct {
	backend Backend
	cities  []string
}

// NewSubscriberStore creates a subscriber store over the given backend.
func NewSubscriberStore(backend Backend, cities []string) *SubscriberStore {
	return &SubscriberStore{backend: backend, cities: cities}
}

// Load returns the registry, defaulting every configured city to an
// empty list when no document has been persisted.
func (s *SubscriberStore) Load(ctx context.Context) (Registry, error) {
	stored, err := s.backend.LoadSubscribers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading subscribers: %w", err)
	}

	reg := NewRegistry(s.cities)
	for _, city := range s.cities {
		if list, ok := stored[city]; ok {
			reg[city] = list
		}
	}
	return reg, nil
}

// Save overwrites the persisted registry wholesale.
func (s *SubscriberStore) Save(ctx context.Context, reg Registry) error {
	if err := s.backend.SaveSubscribers(ctx, reg); err != nil {
		return fmt.Errorf("saving subscribers: %w", err)
	}
	return nil
}

// Add subscribes email to city, persisting the change. Adding an
// existing member reports AlreadySubscribed without touching storage.
func (s *SubscriberStore) Add(ctx context.Context, city, email string) (AddStatus, error) {
	city, email, err := s.normalize(city, email)
	if err != nil {
		return 0, err
	}

	reg, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	if reg.Has(city, email) {
		return AlreadySubscribed, nil
	}

	reg.add(city, email)
	if err := s.Save(ctx, reg); err != nil {
		return 0, err
	}
	return Added, nil
}

// Remove unsubscribes email from city, persisting the change. Removing
// a non-member reports NotSubscribed; it is never an error.
func (s *SubscriberStore) Remove(ctx context.Context, city, email string) (RemoveStatus, error) {
	city, email, err := s.normalize(city, email)
	if err != nil {
		return 0, err
	}

	reg, err := s.Load(ctx)
	if err != nil {
		return 0, err
	}
	if !reg.Has(city, email) {
		return NotSubscribed, nil
	}

	reg.remove(city, email)
	if err := s.Save(ctx, reg); err != nil {
		return 0, err
	}
	return Removed, nil
}

func (s *SubscriberStore) normalize(city, email string) (string, string, error) {
	city = cycle.NormalizeCity(city)
	if !cycle.ValidCity(city, s.cities) {
		return "", "", fmt.Errorf("unknown city %q", city)
	}
	return city, strings.ToLower(strings.TrimSpace(email)), nil
}
