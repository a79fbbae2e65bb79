package parameters

// User is implemented by anything that reads parameters: models, observables,
// constraints. The returned names are the object's cache-invalidation footprint.
type User interface {
	UsedParameterNames() []string
}

// Usage is an append-only set of parameter names, in first-use order.
// Embed it to implement User. The zero value is ready to use.
type Usage struct {
	names []string
	seen  map[string]struct{}
}

func (u *Usage) add(name string) {
	if u.seen == nil {
		u.seen = make(map[string]struct{})
	}
	if _, ok := u.seen[name]; ok {
		return
	}
	u.seen[name] = struct{}{}
	u.names = append(u.names, name)
}

// Uses merges the footprint of another user.
func (u *Usage) Uses(other User) {
	for _, name := range other.UsedParameterNames() {
		u.add(name)
	}
}

// UsesParameter records a single handle.
func (u *Usage) UsesParameter(p Parameter) {
	u.add(p.Name())
}

// Contains reports whether name is part of the footprint.
func (u *Usage) Contains(name string) bool {
	_, ok := u.seen[name]
	return ok
}

// UsedParameterNames returns a copy of the footprint.
func (u *Usage) UsedParameterNames() []string {
	return append([]string(nil), u.names...)
}

// UsedParameter is a Parameter handle that registered itself with a Usage on
// construction. Evaluate reads the live value; nothing is cached.
type UsedParameter struct {
	Parameter
}

// NewUsedParameter wraps p and records its name in u.
func NewUsedParameter(p Parameter, u *Usage) UsedParameter {
	u.UsesParameter(p)
	return UsedParameter{Parameter: p}
}

// Use resolves name in store and registers it with u.
func Use(store *Parameters, name string, u *Usage) (UsedParameter, error) {
	p, err := store.Get(name)
	if err != nil {
		return UsedParameter{}, err
	}
	return NewUsedParameter(p, u), nil
}

// Evaluate returns the current value.
func (up UsedParameter) Evaluate() float64 {
	return up.Value()
}
