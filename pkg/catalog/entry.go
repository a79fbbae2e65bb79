package catalog

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/likelihood"
)

// Entry types understood by the catalog.
const (
	TypeGaussian             = "gaussian"
	TypeStudentT             = "student-t"
	TypeMultivariateGaussian = "multivariate-gaussian"
)

// ObservableRef names an observable together with its kinematics and default options.
// In YAML it is either a plain name or a mapping.
type ObservableRef struct {
	Name       string             `mapstructure:"name" yaml:"name" validate:"required"`
	Kinematics map[string]float64 `mapstructure:"kinematics" yaml:"kinematics,omitempty"`
	Options    map[string]string  `mapstructure:"options" yaml:"options,omitempty"`
}

// resolve returns the observable's kinematics and its options overridden by o.
func (r ObservableRef) resolve(o domain.Options) (domain.Kinematics, domain.Options, error) {
	names := make([]string, 0, len(r.Kinematics))
	for name := range r.Kinematics {
		names = append(names, name)
	}
	sort.Strings(names)

	pairs := make([]any, 0, 2*len(names))
	for _, name := range names {
		pairs = append(pairs, name, r.Kinematics[name])
	}
	k, err := domain.NewKinematics(pairs...)
	if err != nil {
		return domain.Kinematics{}, domain.Options{}, err
	}

	return k, domain.OptionsFromMap(r.Options).Merge(o), nil
}

// stringToObservableRef lets an observable be written as its bare name.
func stringToObservableRef(from, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(ObservableRef{}) || from.Kind() != reflect.String {
		return data, nil
	}
	return map[string]any{"name": data}, nil
}

// blockSpec is the typed payload of one entry.
type blockSpec interface {
	build(b *likelihood.Builder, o domain.Options) (likelihood.Block, error)
	observables() []ObservableRef
}

// GaussianSpec is a (possibly asymmetric) Gaussian measurement of one observable.
type GaussianSpec struct {
	Observable   ObservableRef `mapstructure:"observable" validate:"required"`
	Min          float64       `mapstructure:"min"`
	Central      float64       `mapstructure:"central" validate:"gtfield=Min,ltfield=Max"`
	Max          float64       `mapstructure:"max"`
	Observations int           `mapstructure:"observations" validate:"oneof=0 1"`
}

func (s *GaussianSpec) build(b *likelihood.Builder, o domain.Options) (likelihood.Block, error) {
	k, opts, err := s.Observable.resolve(o)
	if err != nil {
		return nil, err
	}
	id, err := b.Observable(s.Observable.Name, k, opts)
	if err != nil {
		return nil, err
	}
	return b.Gaussian(id, s.Min, s.Central, s.Max, s.Observations)
}

func (s *GaussianSpec) observables() []ObservableRef { return []ObservableRef{s.Observable} }

// StudentTSpec is a Student's t measurement of one observable.
type StudentTSpec struct {
	Observable       ObservableRef `mapstructure:"observable" validate:"required"`
	Central          float64       `mapstructure:"central"`
	Sigma            float64       `mapstructure:"sigma" validate:"gt=0"`
	DegreesOfFreedom float64       `mapstructure:"dof" validate:"gt=0"`
	Observations     int           `mapstructure:"observations" validate:"oneof=0 1"`
}

func (s *StudentTSpec) build(b *likelihood.Builder, o domain.Options) (likelihood.Block, error) {
	k, opts, err := s.Observable.resolve(o)
	if err != nil {
		return nil, err
	}
	id, err := b.Observable(s.Observable.Name, k, opts)
	if err != nil {
		return nil, err
	}
	return b.StudentT(id, s.Central, s.Sigma, s.DegreesOfFreedom, s.Observations)
}

func (s *StudentTSpec) observables() []ObservableRef { return []ObservableRef{s.Observable} }

// MultivariateGaussianSpec is a correlated measurement of several observables.
type MultivariateGaussianSpec struct {
	Observables  []ObservableRef `mapstructure:"observables" validate:"required,min=2,dive"`
	Means        []float64       `mapstructure:"means" validate:"required"`
	Covariance   [][]float64     `mapstructure:"covariance" validate:"required"`
	Observations int             `mapstructure:"observations" validate:"gte=0"`
}

func (s *MultivariateGaussianSpec) build(b *likelihood.Builder, o domain.Options) (likelihood.Block, error) {
	ids := make([]int, len(s.Observables))
	for i, ref := range s.Observables {
		k, opts, err := ref.resolve(o)
		if err != nil {
			return nil, err
		}
		if ids[i], err = b.Observable(ref.Name, k, opts); err != nil {
			return nil, err
		}
	}
	return b.MultivariateGaussian(ids, s.Means, s.Covariance, s.Observations)
}

func (s *MultivariateGaussianSpec) observables() []ObservableRef { return s.Observables }

// Entry is one named constraint of a catalog.
type Entry struct {
	Name        string
	Type        string
	Description string
	// AllowedOptions restricts the values callers may pass for some option keys.
	AllowedOptions map[string][]string

	spec blockSpec
}

// Observables lists the observables the constraint is built from.
func (e *Entry) Observables() []ObservableRef { return e.spec.observables() }

// Make builds the constraint with the observables of b.
func (e *Entry) Make(name string, b *likelihood.Builder, o domain.Options) (*likelihood.Constraint, error) {
	block, err := e.spec.build(b, o)
	if err != nil {
		return nil, err
	}
	return likelihood.NewConstraint(name, block), nil
}

// checkOptions rejects option values outside the entry's allowed set.
func (e *Entry) checkOptions(o domain.Options) error {
	for key, allowed := range e.AllowedOptions {
		if !o.Has(key) {
			continue
		}
		value := o.Get(key, "")
		ok := false
		for _, a := range allowed {
			if a == value {
				ok = true
				break
			}
		}
		if !ok {
			return fmt.Errorf("%w: %s=%s not allowed for %s (allowed: %v)", domain.ErrInvalidOptions, key, value, e.Name, allowed)
		}
	}
	return nil
}
