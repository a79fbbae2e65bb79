package registry_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/aretw0/eos/internal/logging"
	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/observable"
	"github.com/aretw0/eos/pkg/parameters"
	"github.com/aretw0/eos/pkg/rareb"
	"github.com/aretw0/eos/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_Default(t *testing.T) {
	reg := registry.Default(logging.NewNop())
	assert.Equal(t, []string{rareb.BToXsGammaMinimalName}, reg.Names())
	assert.True(t, reg.Has(rareb.BToXsGammaMinimalName))

	obs, err := reg.Make(rareb.BToXsGammaMinimalName, parameters.Defaults(), domain.Kinematics{}, domain.Options{})
	require.NoError(t, err)
	assert.Equal(t, rareb.BToXsGammaMinimalName, obs.Name())
}

func TestRegistry_ParameterFallback(t *testing.T) {
	reg := registry.NewRegistry()
	p := parameters.Defaults()

	obs, err := reg.Make("CKM::lambda", p, domain.Kinematics{}, domain.Options{})
	require.NoError(t, err)
	assert.IsType(t, &observable.Stub{}, obs)
	assert.Equal(t, 0.225, obs.Evaluate())
}

func TestRegistry_Unknown(t *testing.T) {
	reg := registry.NewRegistry()
	_, err := reg.Make("B->K^*ll::A_FB", parameters.Defaults(), domain.Kinematics{}, domain.Options{})
	assert.ErrorIs(t, err, domain.ErrUnknownObservable)
}

func TestRegistry_FactoryErrorIsWrapped(t *testing.T) {
	reg := registry.Default(logging.NewNop())
	_, err := reg.Make(rareb.BToXsGammaMinimalName, parameters.Defaults(), domain.Kinematics{}, domain.NewOptions("model", "MSSM"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidOptions)
	assert.Contains(t, err.Error(), rareb.BToXsGammaMinimalName)
}

func TestRegistry_Overwrite(t *testing.T) {
	reg := registry.NewRegistry()
	boom := errors.New("boom")
	reg.Register("x", func(*parameters.Parameters, domain.Kinematics, domain.Options) (observable.Observable, error) {
		return nil, boom
	})
	reg.Register("x", func(p *parameters.Parameters, _ domain.Kinematics, _ domain.Options) (observable.Observable, error) {
		return observable.NewStub(p, "CKM::A")
	})

	obs, err := reg.Make("x", parameters.Defaults(), domain.Kinematics{}, domain.Options{})
	require.NoError(t, err)
	assert.Equal(t, 0.826, obs.Evaluate())
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	reg := registry.Default(logging.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			// Each worker owns its store.
			p := parameters.Defaults()
			_, err := reg.Make(rareb.BToXsGammaMinimalName, p, domain.Kinematics{}, domain.Options{})
			assert.NoError(t, err)
			reg.Names()
		}()
	}
	wg.Wait()
}
