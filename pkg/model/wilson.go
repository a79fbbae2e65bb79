package model

import (
	"fmt"

	"github.com/aretw0/eos/pkg/parameters"
)

// WilsonCoefficients bundles the b->s effective couplings C1..C10 and the
// chirality-flipped partners of C7, C9 and C10.
type WilsonCoefficients struct {
	// C holds C1..C10; C[i] is C_{i+1}.
	C [10]complex128

	C7Prime  complex128
	C9Prime  complex128
	C10Prime complex128
}

func (w WilsonCoefficients) C7() complex128  { return w.C[6] }
func (w WilsonCoefficients) C8() complex128  { return w.C[7] }
func (w WilsonCoefficients) C9() complex128  { return w.C[8] }
func (w WilsonCoefficients) C10() complex128 { return w.C[9] }

// StandardModelBToS holds the Standard Model reference coefficients at the
// b-quark scale.
var StandardModelBToS = WilsonCoefficients{
	C: [10]complex128{
		-0.2632, // C1
		+1.0111, // C2
		-0.0055, // C3
		-0.0806, // C4
		+0.0004, // C5
		+0.0009, // C6
		-0.3000, // C7
		-0.1670, // C8
		+4.2110, // C9
		-4.1030, // C10
	},
}

// standardWilson returns the reference coefficients.
type standardWilson struct{}

func (standardWilson) bToS() WilsonCoefficients { return StandardModelBToS }

// wilsonScan reads C7, C9, C10 and their primed partners from the store.
type wilsonScan struct {
	c7, c7p, c9, c9p, c10, c10p cartesian
}

// cartesian is one complex coefficient given by its real and imaginary parts.
type cartesian struct {
	re, im parameters.UsedParameter
}

func (c cartesian) value() complex128 {
	return complex(c.re.Evaluate(), c.im.Evaluate())
}

func newWilsonScan(p *parameters.Parameters, u *parameters.Usage) (*wilsonScan, error) {
	s := &wilsonScan{}
	for _, e := range []struct {
		coefficient string
		dst         *cartesian
	}{
		{"c7", &s.c7},
		{"c7'", &s.c7p},
		{"c9", &s.c9},
		{"c9'", &s.c9p},
		{"c10", &s.c10},
		{"c10'", &s.c10p},
	} {
		re, err := parameters.Use(p, fmt.Sprintf("b->s::Re{%s}", e.coefficient), u)
		if err != nil {
			return nil, err
		}
		im, err := parameters.Use(p, fmt.Sprintf("b->s::Im{%s}", e.coefficient), u)
		if err != nil {
			return nil, err
		}
		*e.dst = cartesian{re: re, im: im}
	}
	return s, nil
}

func (s *wilsonScan) bToS() WilsonCoefficients {
	wc := StandardModelBToS
	wc.C[6] = s.c7.value()
	wc.C[8] = s.c9.value()
	wc.C[9] = s.c10.value()
	wc.C7Prime = s.c7p.value()
	wc.C9Prime = s.c9p.value()
	wc.C10Prime = s.c10p.value()
	return wc
}
