package likelihood

import (
	"fmt"

	"github.com/aretw0/eos/pkg/observable"
	"github.com/aretw0/eos/pkg/parameters"
)

// ObservableCache holds the observables of one likelihood, deduplicated by
// name, kinematics and options, together with their last predictions.
// Blocks address observables by the id returned from Add.
type ObservableCache struct {
	store       *parameters.Parameters
	observables []observable.Observable
	keys        []string
	predictions []float64
	index       map[string]int
}

// NewObservableCache creates an empty cache bound to store p.
func NewObservableCache(p *parameters.Parameters) *ObservableCache {
	return &ObservableCache{
		store: p,
		index: make(map[string]int),
	}
}

// Parameters returns the store every cached observable is bound to.
func (c *ObservableCache) Parameters() *parameters.Parameters { return c.store }

// Len returns the number of distinct observables.
func (c *ObservableCache) Len() int { return len(c.observables) }

// Lookup returns the id of the observable with the given key.
func (c *ObservableCache) Lookup(key string) (int, bool) {
	id, ok := c.index[key]
	return id, ok
}

// Add inserts o unless an observable with the same key is already cached, and
// returns its id. Observables bound to another store are rebound to the cache's.
func (c *ObservableCache) Add(o observable.Observable) (int, error) {
	key := observable.Key(o)
	if id, ok := c.index[key]; ok {
		return id, nil
	}
	return c.insert(key, o)
}

func (c *ObservableCache) insert(key string, o observable.Observable) (int, error) {
	if o.Parameters() != c.store {
		rebound, err := o.CloneWith(c.store)
		if err != nil {
			return 0, fmt.Errorf("failed to rebind %s: %w", o.Name(), err)
		}
		o = rebound
	}

	id := len(c.observables)
	c.observables = append(c.observables, o)
	c.keys = append(c.keys, key)
	c.predictions = append(c.predictions, o.Evaluate())
	c.index[key] = id
	return id, nil
}

// Observable returns the observable with the given id.
func (c *ObservableCache) Observable(id int) observable.Observable { return c.observables[id] }

// Update re-evaluates every observable against the current parameter values.
func (c *ObservableCache) Update() {
	for i, o := range c.observables {
		c.predictions[i] = o.Evaluate()
	}
}

// Predicted returns the prediction of observable id as of the last Update.
func (c *ObservableCache) Predicted(id int) float64 { return c.predictions[id] }

// UsedParameterNames merges the footprints of all cached observables.
func (c *ObservableCache) UsedParameterNames() []string {
	var u parameters.Usage
	for _, o := range c.observables {
		u.Uses(o)
	}
	return u.UsedParameterNames()
}

// Clone rebinds every observable to p, keeping ids.
func (c *ObservableCache) Clone(p *parameters.Parameters) (*ObservableCache, error) {
	clone := &ObservableCache{
		store:       p,
		observables: make([]observable.Observable, len(c.observables)),
		keys:        append([]string(nil), c.keys...),
		predictions: append([]float64(nil), c.predictions...),
		index:       make(map[string]int, len(c.index)),
	}
	for i, o := range c.observables {
		rebound, err := o.CloneWith(p)
		if err != nil {
			return nil, fmt.Errorf("failed to clone %s: %w", c.keys[i], err)
		}
		clone.observables[i] = rebound
		clone.index[c.keys[i]] = i
	}
	return clone, nil
}

// mark returns a position rollback can later return to.
func (c *ObservableCache) mark() int { return len(c.observables) }

// rollback drops every observable added after mark.
func (c *ObservableCache) rollback(mark int) {
	for _, key := range c.keys[mark:] {
		delete(c.index, key)
	}
	clear(c.observables[mark:])
	c.observables = c.observables[:mark]
	c.keys = c.keys[:mark]
	c.predictions = c.predictions[:mark]
}
