// Package rareb holds observables of rare b-hadron decays.
package rareb

import (
	"log/slog"
	"math"
	"math/cmplx"

	"github.com/aretw0/eos/internal/logging"
	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/model"
	"github.com/aretw0/eos/pkg/observable"
	"github.com/aretw0/eos/pkg/parameters"
)

// BToXsGammaMinimalName is the registry name of the minimal inclusive B->X_s gamma branching ratio.
const BToXsGammaMinimalName = "B->X_sgamma::BR(Minimal)"

// Reference values of the minimal approximation.
const (
	bToXsGammaSM      = 3.15e-4
	bToXsGammaSMDelta = 0.23e-4
	c7SM              = -0.3
	mcPole            = 1.6
)

// Option configures a BToXsGammaMinimal.
type Option func(*BToXsGammaMinimal)

// WithLogger sets the logger receiving the unsupported-model warning.
func WithLogger(logger *slog.Logger) Option {
	return func(o *BToXsGammaMinimal) {
		o.logger = logger
	}
}

// BToXsGammaMinimal approximates BR(B->X_s gamma) around a fixed reference
// value. New physics enters only through the shift of C7 away from its
// reference value, and the nuisance parameter B->X_sgamma::uncertainty moves
// the central value within its reference band.
type BToXsGammaMinimal struct {
	parameters.Usage

	store      *parameters.Parameters
	kinematics domain.Kinematics
	options    domain.Options
	logger     *slog.Logger

	model model.Model

	mbMSbar     parameters.UsedParameter
	alphaE      parameters.UsedParameter
	brBcsl      parameters.UsedParameter
	uncertainty parameters.UsedParameter

	opts []Option
}

// NewBToXsGammaMinimal binds the observable to store p.
//
// Models other than the SM are accepted, but the approximation cannot
// represent helicity-flipped operators; a warning is logged on every
// construction and only the C7 shift of the model is taken into account.
func NewBToXsGammaMinimal(p *parameters.Parameters, k domain.Kinematics, o domain.Options, opts ...Option) (*BToXsGammaMinimal, error) {
	b := &BToXsGammaMinimal{
		store:      p,
		kinematics: k,
		options:    o,
		logger:     logging.NewNop(),
		opts:       opts,
	}
	for _, opt := range opts {
		opt(b)
	}

	m, err := model.New(p, o)
	if err != nil {
		return nil, err
	}
	b.model = m

	for _, bind := range []struct {
		name string
		dst  *parameters.UsedParameter
	}{
		{"mass::b(MSbar)", &b.mbMSbar},
		{"QED::alpha_e(m_b)", &b.alphaE},
		{"exp::BR(B->X_clnu)", &b.brBcsl},
		{"B->X_sgamma::uncertainty", &b.uncertainty},
	} {
		if *bind.dst, err = parameters.Use(p, bind.name, &b.Usage); err != nil {
			return nil, err
		}
	}

	if m.Variant() != model.VariantSM {
		b.logger.Warn("B->X_sgamma is not yet capable to handle models beyond SM, e.g. for helicity flipped operators; use it carefully",
			"observable", BToXsGammaMinimalName,
			"model", m.Variant().String(),
			"error", domain.ErrUnsupportedModelVariant)
	}

	b.Uses(m)

	return b, nil
}

func (b *BToXsGammaMinimal) Name() string                       { return BToXsGammaMinimalName }
func (b *BToXsGammaMinimal) Parameters() *parameters.Parameters { return b.store }
func (b *BToXsGammaMinimal) Kinematics() domain.Kinematics      { return b.kinematics }
func (b *BToXsGammaMinimal) Options() domain.Options            { return b.options }

// Evaluate returns the branching ratio, floored at zero.
func (b *BToXsGammaMinimal) Evaluate() float64 {
	mbPole := b.model.MbPole()
	mcHat := mcPole / mbPole
	z := mcHat * mcHat
	z2 := z * z
	z3 := z * z2
	z4 := z3 * z
	lnz := math.Log(z)

	// Phase-space factor of the semileptonic normalisation.
	g := 1.0 - 8.0*z + 8.0*z3 - z4 - 12.0*z2*lnz
	// NLO QCD correction to the semileptonic width.
	kappa := 1.0 - 2.0/3.0*b.model.AlphaS(mbPole)/math.Pi*(1.5+(math.Pi*math.Pi-31.0/4.0)*(1.0-mcHat)*(1.0-mcHat))

	ckm := norm(b.model.CKMtb() * cmplx.Conj(b.model.CKMts()) / b.model.CKMcb())
	c7np := b.model.WilsonCoefficientsBToS().C7() - c7SM

	result := (bToXsGammaSM + bToXsGammaSMDelta*b.uncertainty.Evaluate()) +
		6.0*b.alphaE.Evaluate()/math.Pi*b.brBcsl.Evaluate()*ckm/g/kappa*(norm(c7np)+2.0*real(c7np*c7SM))

	return math.Max(result, 0.0)
}

// Clone binds a new observable to a fresh clone of the store.
func (b *BToXsGammaMinimal) Clone() observable.Observable {
	clone, err := NewBToXsGammaMinimal(b.store.Clone(), b.kinematics, b.options, b.opts...)
	if err != nil {
		// The clone has the layout of a store this observable was built on.
		panic(err)
	}
	return clone
}

// CloneWith binds a new observable to p.
func (b *BToXsGammaMinimal) CloneWith(p *parameters.Parameters) (observable.Observable, error) {
	return NewBToXsGammaMinimal(p, b.kinematics, b.options, b.opts...)
}

// norm is the squared modulus.
func norm(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}
