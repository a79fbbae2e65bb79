// Package model provides the physics backends observables compute with.
//
// The set of models is closed: a Variant tag is parsed once from the "model"
// option and dispatched at construction time. Every method reads the bound
// parameter store at call time; nothing is cached between calls because a
// sampler may change the store between any two evaluations.
package model

import (
	"fmt"

	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/parameters"
)

// OptionKey is the option selecting the model variant.
const OptionKey = "model"

// DefaultVariantName is used when the options do not name a model.
const DefaultVariantName = "SM"

// Variant identifies one model implementation.
type Variant int

const (
	// VariantSM is the Standard Model.
	VariantSM Variant = iota
	// VariantCKMScan takes the CKM elements as free parameters (modulus and phase).
	VariantCKMScan
	// VariantWilsonScan takes the b->s Wilson coefficients as free parameters.
	VariantWilsonScan
)

var variantNames = map[Variant]string{
	VariantSM:         "SM",
	VariantCKMScan:    "CKMScan",
	VariantWilsonScan: "WilsonScan",
}

// String returns the option value naming the variant.
func (v Variant) String() string {
	if name, ok := variantNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant maps an option value to a variant.
func ParseVariant(s string) (Variant, error) {
	for v, name := range variantNames {
		if name == s {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: no such model %q", domain.ErrInvalidOptions, s)
}

// Variants lists the supported variants in tag order.
func Variants() []Variant {
	return []Variant{VariantSM, VariantCKMScan, VariantWilsonScan}
}

// Model exposes the derived quantities of one physics backend.
type Model interface {
	parameters.User

	Variant() Variant

	// MbMSbar is the MSbar b-quark mass m_b(m_b) in GeV.
	MbMSbar() float64
	// MbPole is the b-quark pole mass in GeV.
	MbPole() float64
	// AlphaS is the strong coupling at scale mu (GeV).
	AlphaS(mu float64) float64

	CKMub() complex128
	CKMcb() complex128
	CKMtb() complex128
	CKMts() complex128
	CKMtd() complex128

	// WilsonCoefficientsBToS returns the b->s coefficients at the b-quark scale.
	WilsonCoefficientsBToS() WilsonCoefficients
}

// New builds the model named by o.Get("model", "SM") on store p.
func New(p *parameters.Parameters, o domain.Options) (Model, error) {
	v, err := ParseVariant(o.Get(OptionKey, DefaultVariantName))
	if err != nil {
		return nil, err
	}
	return Make(v, p)
}

// Make builds a model of the given variant on store p.
func Make(v Variant, p *parameters.Parameters) (Model, error) {
	m := &model{variant: v}

	var err error
	if m.qcd, err = newQCD(p, &m.Usage); err != nil {
		return nil, fmt.Errorf("model %s: %w", v, err)
	}

	switch v {
	case VariantSM:
		m.ckm, err = newWolfenstein(p, &m.Usage)
		if err == nil {
			m.wilson = standardWilson{}
		}
	case VariantCKMScan:
		m.ckm, err = newCKMScan(p, &m.Usage)
		if err == nil {
			m.wilson = standardWilson{}
		}
	case VariantWilsonScan:
		m.ckm, err = newWolfenstein(p, &m.Usage)
		if err == nil {
			m.wilson, err = newWilsonScan(p, &m.Usage)
		}
	default:
		return nil, fmt.Errorf("%w: no such model %s", domain.ErrInvalidOptions, v)
	}
	if err != nil {
		return nil, fmt.Errorf("model %s: %w", v, err)
	}

	return m, nil
}

// ckmSector provides the CKM elements needed by b decays.
type ckmSector interface {
	ub() complex128
	cb() complex128
	tb() complex128
	ts() complex128
	td() complex128
}

// wilsonSector provides the b->s Wilson coefficients.
type wilsonSector interface {
	bToS() WilsonCoefficients
}

// model composes the QCD, CKM and Wilson sectors of one variant.
type model struct {
	parameters.Usage

	variant Variant
	qcd     qcd
	ckm     ckmSector
	wilson  wilsonSector
}

func (m *model) Variant() Variant { return m.variant }
func (m *model) MbMSbar() float64 { return m.qcd.mbMSbar.Evaluate() }
func (m *model) MbPole() float64 { return m.qcd.mbPole() }
func (m *model) AlphaS(mu float64) float64 { return m.qcd.alphaS(mu) }
func (m *model) CKMub() complex128 { return m.ckm.ub() }
func (m *model) CKMcb() complex128 { return m.ckm.cb() }
func (m *model) CKMtb() complex128 { return m.ckm.tb() }
func (m *model) CKMts() complex128 { return m.ckm.ts() }
func (m *model) CKMtd() complex128 { return m.ckm.td() }
func (m *model) WilsonCoefficientsBToS() WilsonCoefficients { return m.wilson.bToS() }
