/*
Package eos evaluates log likelihoods of flavor-physics observables against
experimental constraints.

An Analysis owns one parameter store. Observables, constraints and priors all
read their inputs from that store through lightweight handles, so changing a
parameter is immediately visible to every prediction that depends on it.

# Usage

	a := eos.New()
	if err := a.AddConstraint("B->X_sgamma::BR[1.8]@HFAG-2012", domain.NewOptions("model", "SM")); err != nil {
		log.Fatal(err)
	}
	fmt.Println(a.Evaluate())

	// Move a parameter and re-evaluate.
	_ = a.Set("mass::b(MSbar)", 4.2)
	fmt.Println(a.Evaluate())

Constraints come from a YAML catalog (see package catalog) or are built ad hoc
with AddGaussianConstraint. Sampling runs on clones of the store, one per
chain, so the analysis itself never moves.
*/
package eos
