package registry

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/observable"
	"github.com/aretw0/eos/pkg/parameters"
	"github.com/aretw0/eos/pkg/rareb"
)

// Factory builds one observable bound to store p at kinematics k with options o.
type Factory func(p *parameters.Parameters, k domain.Kinematics, o domain.Options) (observable.Observable, error)

// Registry manages the available observables.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Default returns a registry holding every observable shipped with the module.
// Observables log through logger.
func Default(logger *slog.Logger) *Registry {
	r := NewRegistry()
	r.Register(rareb.BToXsGammaMinimalName, func(p *parameters.Parameters, k domain.Kinematics, o domain.Options) (observable.Observable, error) {
		return rareb.NewBToXsGammaMinimal(p, k, o, rareb.WithLogger(logger))
	})
	return r
}

// Register adds an observable to the registry.
// If an observable with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = fn
}

// Has reports whether a factory is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Make looks up an observable by name and builds it on store p.
// Names without a factory that denote a parameter of p yield a Stub.
func (r *Registry) Make(name string, p *parameters.Parameters, k domain.Kinematics, o domain.Options) (observable.Observable, error) {
	r.mu.RLock()
	fn, ok := r.factories[name]
	r.mu.RUnlock()

	if ok {
		obs, err := fn(p, k, o)
		if err != nil {
			return nil, fmt.Errorf("observable %s: %w", name, err)
		}
		return obs, nil
	}

	if p.Has(name) {
		return observable.NewStub(p, name)
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrUnknownObservable, name)
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
