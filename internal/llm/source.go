package llm

import (
	"context"
	"sync"

	"github.com/abhisek/parley/internal/store"
)

// Source builds the configured Provider on first use and reuses it.
// Configuration is re-read on every call until a provider has been built,
// so a credential added to the environment after startup is picked up
// without a restart.
type Source struct {
	load   func() Config
	events store.EventRepo

	// Mock, when set, is the base provider used for the "mock" provider
	// name instead of an empty MockProvider.
	Mock Provider

	mu       sync.Mutex
	cfg      Config
	provider Provider
}

// NewSource returns a Source reading configuration through load.
// A nil load uses ConfigFromEnv.
func NewSource(load func() Config, events store.EventRepo) *Source {
	if load == nil {
		load = ConfigFromEnv
	}
	return &Source{load: load, events: events}
}

// Provider returns the cached provider, building it if needed.
// A missing credential is reported as *ErrMissingCredential.
func (s *Source) Provider(ctx context.Context) (Provider, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.provider != nil {
		return s.provider, nil
	}

	cfg := s.load()
	var (
		p   Provider
		err error
	)
	if cfg.Provider == "mock" && s.Mock != nil {
		p = Wrap(s.Mock, cfg, s.events)
	} else {
		p, err = NewProvider(ctx, cfg, s.events)
	}
	if err != nil {
		return nil, err
	}

	s.cfg = cfg
	s.provider = p
	return p, nil
}

// Describe reports the provider name and model that requests go to.
func (s *Source) Describe() (provider, model string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.cfg
	if s.provider == nil {
		cfg = s.load()
	}
	return cfg.Provider, cfg.Model()
}
