package observable

import (
	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/parameters"
)

// Stub evaluates to the current value of one parameter. It carries no physics
// and serves as a test double and as the observable behind constraints placed
// directly on parameters.
type Stub struct {
	parameters.Usage

	store     *parameters.Parameters
	name      string
	parameter parameters.UsedParameter
}

// NewStub binds the parameter called name in store p.
func NewStub(p *parameters.Parameters, name string) (*Stub, error) {
	s := &Stub{store: p, name: name}

	up, err := parameters.Use(p, name, &s.Usage)
	if err != nil {
		return nil, err
	}
	s.parameter = up

	return s, nil
}

func (s *Stub) Name() string                       { return s.name }
func (s *Stub) Evaluate() float64                  { return s.parameter.Evaluate() }
func (s *Stub) Parameters() *parameters.Parameters { return s.store }
func (s *Stub) Kinematics() domain.Kinematics      { return domain.Kinematics{} }
func (s *Stub) Options() domain.Options            { return domain.Options{} }

// Clone binds a new stub to a fresh clone of the store.
func (s *Stub) Clone() Observable {
	clone, err := NewStub(s.store.Clone(), s.name)
	if err != nil {
		// A clone shares the layout of its origin, so the name always resolves.
		panic(err)
	}
	return clone
}

// CloneWith binds a new stub to p.
func (s *Stub) CloneWith(p *parameters.Parameters) (Observable, error) {
	return NewStub(p, s.name)
}
