package domain_test

import (
	"strconv"
	"testing"

	"github.com/aretw0/eos/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKinematics_Construction(t *testing.T) {
	k, err := domain.NewKinematics("q2_min", 1.1, "q2_max", 6)
	require.NoError(t, err)

	assert.Equal(t, []string{"q2_min", "q2_max"}, k.Names())
	v, err := k.Get("q2_max")
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	_, err = k.Get("E_min")
	assert.ErrorIs(t, err, domain.ErrUnknownKinematic)

	assert.Equal(t, "q2_min=1.1,q2_max=6", k.String())
}

func TestKinematics_InvalidArguments(t *testing.T) {
	_, err := domain.NewKinematics("q2")
	assert.ErrorIs(t, err, domain.ErrMalformedKinematics)

	_, err = domain.NewKinematics(1.0, 2.0)
	assert.ErrorIs(t, err, domain.ErrMalformedKinematics)

	_, err = domain.NewKinematics("q2", "high")
	assert.ErrorIs(t, err, domain.ErrMalformedKinematics)
	assert.Contains(t, err.Error(), "q2")
}

func TestKinematics_ParseRoundTrip(t *testing.T) {
	k, err := domain.ParseKinematics("q2_min=1, q2_max=6.25")
	require.NoError(t, err)

	again, err := domain.ParseKinematics(k.String())
	require.NoError(t, err)
	assert.True(t, k.Equal(again))

	_, err = domain.ParseKinematics("q2_min=abc")
	assert.ErrorIs(t, err, domain.ErrMalformedKinematics)
	assert.ErrorIs(t, err, strconv.ErrSyntax)

	_, err = domain.ParseKinematics("q2_min")
	assert.ErrorIs(t, err, domain.ErrMalformedKinematics)
}

func TestKinematics_ZeroValue(t *testing.T) {
	var k domain.Kinematics
	assert.Equal(t, 0, k.Len())
	assert.Equal(t, "", k.String())
	assert.True(t, k.Equal(domain.Kinematics{}))
}
