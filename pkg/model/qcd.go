package model

import (
	"math"

	"github.com/aretw0/eos/pkg/parameters"
)

// Number of active flavours below the top threshold.
const nf = 5.0

// Leading coefficient of the QCD beta function for nf active flavours.
const beta0 = 11.0 - 2.0/3.0*nf

// qcd evaluates the strong coupling and the b-quark masses.
type qcd struct {
	mbMSbar  parameters.UsedParameter
	alphaSMZ parameters.UsedParameter
	mZ       parameters.UsedParameter
}

func newQCD(p *parameters.Parameters, u *parameters.Usage) (qcd, error) {
	var (
		q   qcd
		err error
	)
	if q.mbMSbar, err = parameters.Use(p, "mass::b(MSbar)", u); err != nil {
		return qcd{}, err
	}
	if q.alphaSMZ, err = parameters.Use(p, "QCD::alpha_s(MZ)", u); err != nil {
		return qcd{}, err
	}
	if q.mZ, err = parameters.Use(p, "mass::Z", u); err != nil {
		return qcd{}, err
	}
	return q, nil
}

// alphaS runs alpha_s from the Z pole to mu at one loop.
func (q qcd) alphaS(mu float64) float64 {
	a := q.alphaSMZ.Evaluate()
	mZ := q.mZ.Evaluate()
	return a / (1.0 + a*beta0/(4.0*math.Pi)*math.Log(mu*mu/(mZ*mZ)))
}

// mbPole converts the MSbar mass m_b(m_b) to the pole mass at one loop.
func (q qcd) mbPole() float64 {
	mb := q.mbMSbar.Evaluate()
	return mb * (1.0 + 4.0/3.0*q.alphaS(mb)/math.Pi)
}
