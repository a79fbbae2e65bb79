// Package capi exposes an Analysis through integer handles and string errors,
// the shape a foreign runtime can call. cmd/libeos wraps it with cgo.
//
// Every call returns nil on success and an error message otherwise; no error
// value or panic crosses the boundary.
package capi

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/aretw0/eos"
	"github.com/aretw0/eos/pkg/domain"
)

// Handle identifies a live analysis. The zero handle is never issued.
type Handle uint64

type entry struct {
	mu       sync.Mutex
	analysis *eos.Analysis
}

var (
	handles sync.Map // Handle -> *entry
	next    atomic.Uint64
)

// New creates an analysis over the default parameters and catalog.
func New() Handle {
	h := Handle(next.Add(1))
	handles.Store(h, &entry{analysis: eos.New()})
	return h
}

// Delete releases the analysis behind h. Deleting an unknown handle is a no-op.
func Delete(h Handle) {
	handles.Delete(h)
}

// Len returns the number of live handles.
func Len() int {
	n := 0
	handles.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}

// AddConstraintByName adds the catalog constraint name with options given in
// "key=value,key=value" form.
func AddConstraintByName(h Handle, name, options string) *string {
	return with(h, func(a *eos.Analysis) error {
		o, err := domain.ParseOptions(options)
		if err != nil {
			return err
		}
		return a.AddConstraint(name, o)
	})
}

// AddGaussianConstraint adds an ad-hoc Gaussian constraint on obs. Kinematics
// and options use the "name=value,name=value" form.
func AddGaussianConstraint(h Handle, obs string, min, central, max float64, observations int, kinematics, options string) *string {
	return with(h, func(a *eos.Analysis) error {
		k, err := domain.ParseKinematics(kinematics)
		if err != nil {
			return err
		}
		o, err := domain.ParseOptions(options)
		if err != nil {
			return err
		}
		return a.AddGaussianConstraint(obs, min, central, max, observations, k, o)
	})
}

// SetParameter sets one parameter of the analysis store.
func SetParameter(h Handle, name string, value float64) *string {
	return with(h, func(a *eos.Analysis) error {
		return a.Set(name, value)
	})
}

// Evaluate returns the log likelihood at the current parameter values.
func Evaluate(h Handle) (float64, *string) {
	var value float64
	msg := with(h, func(a *eos.Analysis) error {
		value = a.Evaluate()
		return nil
	})
	return value, msg
}

func with(h Handle, fn func(a *eos.Analysis) error) (msg *string) {
	v, ok := handles.Load(h)
	if !ok {
		return message(fmt.Errorf("invalid handle %d", h))
	}
	e := v.(*entry)

	e.mu.Lock()
	defer e.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			msg = message(fmt.Errorf("internal error: %v", r))
		}
	}()
	if err := fn(e.analysis); err != nil {
		return message(err)
	}
	return nil
}

func message(err error) *string {
	s := err.Error()
	return &s
}
