package density

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Prior is a univariate log prior density.
type Prior interface {
	LogDensity(x float64) float64
	String() string
}

// Flat is uniform on [Min, Max] and zero outside.
type Flat struct {
	Min, Max float64
}

func (f Flat) LogDensity(x float64) float64 {
	return distuv.Uniform{Min: f.Min, Max: f.Max}.LogProb(x)
}

func (f Flat) String() string { return fmt.Sprintf("flat [%g, %g]", f.Min, f.Max) }

// Gaussian is a normal prior truncated to [Min, Max]. The truncation is not
// renormalised; only differences of log densities matter to samplers.
type Gaussian struct {
	Mu, Sigma float64
	Min, Max  float64
}

func (g Gaussian) LogDensity(x float64) float64 {
	if x < g.Min || x > g.Max {
		return math.Inf(-1)
	}
	return distuv.Normal{Mu: g.Mu, Sigma: g.Sigma}.LogProb(x)
}

func (g Gaussian) String() string {
	return fmt.Sprintf("gaussian %g +- %g on [%g, %g]", g.Mu, g.Sigma, g.Min, g.Max)
}
