package tests

import (
	"testing"

	"github.com/aretw0/eos/pkg/observable"
	"github.com/aretw0/eos/pkg/parameters"
)

// ObservableContractTest is a reusable suite every Observable implementation must pass.
//
// build constructs the observable under test on the given store. vary names a
// parameter of the observable's footprint, and values are two settings of it
// that produce different predictions.
func ObservableContractTest(t *testing.T, build func(p *parameters.Parameters) (observable.Observable, error), vary string, values [2]float64) {
	t.Helper()

	newObservable := func(t *testing.T) (observable.Observable, *parameters.Parameters) {
		t.Helper()
		p := parameters.Defaults()
		o, err := build(p)
		if err != nil {
			t.Fatalf("failed to build observable: %v", err)
		}
		if err := p.Set(vary, values[0]); err != nil {
			t.Fatalf("failed to set %s: %v", vary, err)
		}
		return o, p
	}

	t.Run("Footprint_NonEmpty_And_Contains_Varied", func(t *testing.T) {
		o, _ := newObservable(t)
		names := o.UsedParameterNames()
		if len(names) == 0 {
			t.Fatal("expected a non-empty parameter footprint")
		}
		found := false
		for _, n := range names {
			if n == vary {
				found = true
			}
		}
		if !found {
			t.Errorf("footprint %v does not contain %s", names, vary)
		}
	})

	t.Run("Footprint_Constant_Across_Evaluations", func(t *testing.T) {
		o, p := newObservable(t)
		before := o.UsedParameterNames()
		o.Evaluate()
		if err := p.Set(vary, values[1]); err != nil {
			t.Fatal(err)
		}
		o.Evaluate()
		after := o.UsedParameterNames()
		if len(before) != len(after) {
			t.Fatalf("footprint changed: %v -> %v", before, after)
		}
		for i := range before {
			if before[i] != after[i] {
				t.Fatalf("footprint changed: %v -> %v", before, after)
			}
		}
	})

	t.Run("Evaluate_Tracks_Live_Parameters", func(t *testing.T) {
		o, p := newObservable(t)
		a := o.Evaluate()
		if err := p.Set(vary, values[1]); err != nil {
			t.Fatal(err)
		}
		b := o.Evaluate()
		if a == b {
			t.Errorf("prediction did not change when %s moved from %g to %g", vary, values[0], values[1])
		}
	})

	t.Run("Clone_Is_Independent", func(t *testing.T) {
		o, p := newObservable(t)
		clone := o.Clone()

		if clone.Parameters() == p {
			t.Fatal("Clone must bind to a fresh store")
		}
		if got, want := clone.Evaluate(), o.Evaluate(); got != want {
			t.Fatalf("clone evaluates to %g, origin to %g", got, want)
		}
		if observable.Key(clone) != observable.Key(o) {
			t.Errorf("clone key %q differs from origin key %q", observable.Key(clone), observable.Key(o))
		}

		frozen := clone.Evaluate()
		if err := p.Set(vary, values[1]); err != nil {
			t.Fatal(err)
		}
		if clone.Evaluate() != frozen {
			t.Error("mutating the origin store changed the clone")
		}
	})

	t.Run("CloneWith_Same_Store_Shares_Parameters", func(t *testing.T) {
		o, p := newObservable(t)
		shared, err := o.CloneWith(p)
		if err != nil {
			t.Fatal(err)
		}
		if shared.Evaluate() != o.Evaluate() {
			t.Fatal("shared clone disagrees with origin")
		}
		if err := p.Set(vary, values[1]); err != nil {
			t.Fatal(err)
		}
		if shared.Evaluate() != o.Evaluate() {
			t.Error("shared clone did not follow the mutation")
		}
	})

	t.Run("CloneWith_Fresh_Store_Does_Not_Follow", func(t *testing.T) {
		o, p := newObservable(t)
		fresh := p.Clone()
		rebound, err := o.CloneWith(fresh)
		if err != nil {
			t.Fatal(err)
		}
		if rebound.Parameters() != fresh {
			t.Fatal("CloneWith must bind to the supplied store")
		}
		before := rebound.Evaluate()
		if err := p.Set(vary, values[1]); err != nil {
			t.Fatal(err)
		}
		if rebound.Evaluate() != before {
			t.Error("observable bound to a fresh store followed the origin")
		}
		if err := fresh.Set(vary, values[1]); err != nil {
			t.Fatal(err)
		}
		if rebound.Evaluate() != o.Evaluate() {
			t.Error("observables on stores with equal values disagree")
		}
	})
}
