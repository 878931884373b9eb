package repositories

import (
	"fmt"
	"sync"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/cdlist/internal/domain/entities"
	domainRepos "github.com/rios0rios0/cdlist/internal/domain/repositories"
)

// BundleFactory is a constructor function that creates a BundleRepository from the settings.
type BundleFactory func(settings *entities.Settings) (domainRepos.BundleRepository, error)

// BundleRegistry manages all registered bundle store implementations. Stores are
// built on first use, after the settings have been loaded.
type BundleRegistry struct {
	settings  *entities.Settings
	factories map[string]BundleFactory
	order     []string

	mu        sync.Mutex
	instances map[string]domainRepos.BundleRepository
}

// NewBundleRegistry creates an empty bundle registry.
func NewBundleRegistry(settings *entities.Settings) *BundleRegistry {
	return &BundleRegistry{
		settings:  settings,
		factories: make(map[string]BundleFactory),
		instances: make(map[string]domainRepos.BundleRepository),
	}
}

// Register adds a bundle store factory under the given name (e.g. "github").
func (r *BundleRegistry) Register(name string, factory BundleFactory) {
	if _, exists := r.factories[name]; !exists {
		r.order = append(r.order, name)
	}
	r.factories[name] = factory
}

// Get returns the configured bundle store for the given name.
func (r *BundleRegistry) Get(name string) (domainRepos.BundleRepository, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if instance, ok := r.instances[name]; ok {
		return instance, nil
	}
	factory, ok := r.factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown bundle provider: %q", name)
	}
	instance, err := factory(r.settings)
	if err != nil {
		return nil, fmt.Errorf("failed to create %q bundle provider: %w", name, err)
	}
	r.instances[name] = instance
	return instance, nil
}

// Default returns the store selected by bundles.provider.
func (r *BundleRegistry) Default() (domainRepos.BundleRepository, error) {
	return r.Get(r.settings.Bundles.Provider)
}

// Match finds the store a URL points at and returns it with the bundle identifier.
// Stores that cannot be built with the current settings are skipped.
func (r *BundleRegistry) Match(rawURL string) (domainRepos.BundleRepository, string, bool, error) {
	for _, name := range r.order {
		store, err := r.Get(name)
		if err != nil {
			logger.Debugf("Skipping bundle provider %q: %v", name, err)
			continue
		}
		id, ok, parseErr := store.ParseReference(rawURL)
		if !ok {
			continue
		}
		return store, id, true, parseErr
	}
	return nil, "", false, nil
}

// Names returns the registered store names in registration order.
func (r *BundleRegistry) Names() []string {
	names := make([]string, len(r.order))
	copy(names, r.order)
	return names
}
