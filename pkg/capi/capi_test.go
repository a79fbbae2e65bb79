package capi_test

import (
	"math"
	"sync"
	"testing"

	"github.com/aretw0/eos/pkg/capi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestHandleLifecycle(t *testing.T) {
	h := capi.New()
	assert.NotZero(t, h)

	v, msg := capi.Evaluate(h)
	assert.Nil(t, msg)
	assert.Zero(t, v, "an empty likelihood evaluates to zero")

	capi.Delete(h)
	_, msg = capi.Evaluate(h)
	require.NotNil(t, msg)
	assert.Contains(t, *msg, "invalid handle")

	capi.Delete(h)
}

func TestAddConstraintByName(t *testing.T) {
	h := capi.New()
	defer capi.Delete(h)

	assert.Nil(t, capi.AddConstraintByName(h, "B->X_sgamma::BR[1.8]@HFAG-2012", "model=SM"))

	v, msg := capi.Evaluate(h)
	require.Nil(t, msg)
	assert.InDelta(t, distuv.Normal{Mu: 3.43e-4, Sigma: 0.22e-4}.LogProb(3.15e-4), v, 1e-9)

	msg = capi.AddConstraintByName(h, "nope", "")
	require.NotNil(t, msg)
	assert.Contains(t, *msg, "unknown constraint")

	msg = capi.AddConstraintByName(h, "B->X_sgamma::BR[1.8]@HFAG-2012", "model=Nope")
	require.NotNil(t, msg)
	assert.Contains(t, *msg, "invalid options")

	after, _ := capi.Evaluate(h)
	assert.Equal(t, v, after, "failed additions leave the likelihood unchanged")
}

func TestAddGaussianConstraint(t *testing.T) {
	h := capi.New()
	defer capi.Delete(h)

	assert.Nil(t, capi.AddGaussianConstraint(h, "CKM::A", 0.814, 0.826, 0.838, 1, "", ""))
	v, msg := capi.Evaluate(h)
	require.Nil(t, msg)
	assert.InDelta(t, -math.Log(0.012)-0.5*math.Log(2*math.Pi), v, 1e-9)

	msg = capi.AddGaussianConstraint(h, "CKM::A", 1.0, 2.0, 1.5, 1, "", "")
	require.NotNil(t, msg)
	assert.Contains(t, *msg, "malformed constraint")

	msg = capi.AddGaussianConstraint(h, "CKM::A", 0.8, 0.826, 0.85, 1, "q2_min", "")
	require.NotNil(t, msg, "kinematics must be name=value pairs")
	assert.Contains(t, *msg, "malformed kinematics")

	assert.Nil(t, capi.SetParameter(h, "CKM::A", 0.838))
	v, _ = capi.Evaluate(h)
	assert.InDelta(t, -math.Log(0.012)-0.5*math.Log(2*math.Pi)-0.5, v, 1e-9)

	msg = capi.SetParameter(h, "CKM::Z", 1)
	require.NotNil(t, msg)
	assert.Contains(t, *msg, "unknown parameter")
}

func TestHandlesAreIndependent(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h := capi.New()
			defer capi.Delete(h)
			assert.Nil(t, capi.AddGaussianConstraint(h, "CKM::lambda", 0.2, 0.225, 0.25, 1, "", ""))
			for j := 0; j < 50; j++ {
				assert.Nil(t, capi.SetParameter(h, "CKM::lambda", 0.2+0.001*float64(j)))
				_, msg := capi.Evaluate(h)
				assert.Nil(t, msg)
			}
		}()
	}
	wg.Wait()
}
