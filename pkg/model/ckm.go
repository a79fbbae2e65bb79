package model

import (
	"math/cmplx"

	"github.com/aretw0/eos/pkg/parameters"
)

// wolfenstein computes CKM elements from A, lambda, rhobar and etabar,
// expanded to O(lambda^4).
type wolfenstein struct {
	a, lambda, rhobar, etabar parameters.UsedParameter
}

func newWolfenstein(p *parameters.Parameters, u *parameters.Usage) (*wolfenstein, error) {
	w := &wolfenstein{}
	for _, e := range []struct {
		name string
		dst  *parameters.UsedParameter
	}{
		{"CKM::A", &w.a},
		{"CKM::lambda", &w.lambda},
		{"CKM::rhobar", &w.rhobar},
		{"CKM::etabar", &w.etabar},
	} {
		up, err := parameters.Use(p, e.name, u)
		if err != nil {
			return nil, err
		}
		*e.dst = up
	}
	return w, nil
}

// rhoEta undoes the rhobar/etabar rescaling.
func (w *wolfenstein) rhoEta() complex128 {
	l := w.lambda.Evaluate()
	scale := 1.0 - l*l/2.0
	return complex(w.rhobar.Evaluate()/scale, w.etabar.Evaluate()/scale)
}

func (w *wolfenstein) ub() complex128 {
	a, l := w.a.Evaluate(), w.lambda.Evaluate()
	return complex(a*l*l*l, 0) * cmplx.Conj(w.rhoEta())
}

func (w *wolfenstein) cb() complex128 {
	a, l := w.a.Evaluate(), w.lambda.Evaluate()
	return complex(a*l*l, 0)
}

func (w *wolfenstein) tb() complex128 {
	a, l := w.a.Evaluate(), w.lambda.Evaluate()
	return complex(1.0-a*a*l*l*l*l/2.0, 0)
}

func (w *wolfenstein) ts() complex128 {
	a, l := w.a.Evaluate(), w.lambda.Evaluate()
	l2 := l * l
	return complex(-a*l2, 0) + complex(a*l2*l2, 0)*(0.5-w.rhoEta())
}

func (w *wolfenstein) td() complex128 {
	a, l := w.a.Evaluate(), w.lambda.Evaluate()
	return complex(a*l*l*l, 0) * (1.0 - w.rhoEta())
}

// polar is one CKM element given as modulus and phase.
type polar struct {
	abs, arg parameters.UsedParameter
}

func (e polar) value() complex128 {
	return cmplx.Rect(e.abs.Evaluate(), e.arg.Evaluate())
}

// ckmScan takes each CKM element directly from the parameter store.
type ckmScan struct {
	vub, vcb, vtb, vts, vtd polar
}

func newCKMScan(p *parameters.Parameters, u *parameters.Usage) (*ckmScan, error) {
	s := &ckmScan{}
	for _, e := range []struct {
		element string
		dst     *polar
	}{
		{"V_ub", &s.vub},
		{"V_cb", &s.vcb},
		{"V_tb", &s.vtb},
		{"V_ts", &s.vts},
		{"V_td", &s.vtd},
	} {
		abs, err := parameters.Use(p, "CKM::abs("+e.element+")", u)
		if err != nil {
			return nil, err
		}
		arg, err := parameters.Use(p, "CKM::arg("+e.element+")", u)
		if err != nil {
			return nil, err
		}
		*e.dst = polar{abs: abs, arg: arg}
	}
	return s, nil
}

func (s *ckmScan) ub() complex128 { return s.vub.value() }
func (s *ckmScan) cb() complex128 { return s.vcb.value() }
func (s *ckmScan) tb() complex128 { return s.vtb.value() }
func (s *ckmScan) ts() complex128 { return s.vts.value() }
func (s *ckmScan) td() complex128 { return s.vtd.value() }
