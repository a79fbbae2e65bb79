package domain_test

import (
	"testing"

	"github.com/aretw0/eos/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_GetFallsBackToDefault(t *testing.T) {
	o := domain.NewOptions("model", "WilsonScan")

	assert.Equal(t, "WilsonScan", o.Get("model", "SM"))
	assert.Equal(t, "cartesian", o.Get("scan-mode", "cartesian"))
	assert.True(t, o.Has("model"))
	assert.False(t, o.Has("scan-mode"))

	var empty domain.Options
	assert.Equal(t, "SM", empty.Get("model", "SM"))
}

func TestOptions_OrderIndependentIdentity(t *testing.T) {
	a := domain.NewOptions("model", "SM", "form-factors", "BSZ2015")
	b := domain.NewOptions("form-factors", "BSZ2015", "model", "SM")

	assert.True(t, a.Equal(b))
	assert.Equal(t, a.String(), b.String())
	assert.Equal(t, "form-factors=BSZ2015,model=SM", a.String())
	assert.False(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestOptions_WithIsImmutable(t *testing.T) {
	base := domain.NewOptions("model", "SM")
	changed := base.With("model", "CKMScan")

	assert.Equal(t, "SM", base.Get("model", ""))
	assert.Equal(t, "CKMScan", changed.Get("model", ""))
	assert.Equal(t, 1, changed.Len())
}

func TestOptions_MergeRightWins(t *testing.T) {
	entry := domain.NewOptions("model", "SM", "l", "mu")
	user := domain.NewOptions("model", "WilsonScan")

	merged := entry.Merge(user)
	assert.Equal(t, "WilsonScan", merged.Get("model", ""))
	assert.Equal(t, "mu", merged.Get("l", ""))
	assert.Equal(t, []string{"l", "model"}, merged.Keys())
}

func TestOptions_Less(t *testing.T) {
	a := domain.NewOptions("model", "CKMScan")
	b := domain.NewOptions("model", "SM")
	c := domain.NewOptions("model", "SM", "z", "1")

	assert.True(t, a.Less(b))
	assert.True(t, b.Less(c))
	assert.False(t, c.Less(a))
}

func TestParseOptions(t *testing.T) {
	o, err := domain.ParseOptions(" model = WilsonScan , l=e ")
	require.NoError(t, err)
	assert.Equal(t, "l=e,model=WilsonScan", o.String())

	empty, err := domain.ParseOptions("")
	require.NoError(t, err)
	assert.Equal(t, 0, empty.Len())

	_, err = domain.ParseOptions("model")
	assert.ErrorIs(t, err, domain.ErrInvalidOptions)

	_, err = domain.ParseOptions("=SM")
	assert.ErrorIs(t, err, domain.ErrInvalidOptions)
}

func TestOptionsFromMap(t *testing.T) {
	o := domain.OptionsFromMap(map[string]string{"b": "2", "a": "1"})
	assert.Equal(t, "a=1,b=2", o.String())
	assert.Equal(t, map[string]string{"a": "1", "b": "2"}, o.Map())
}
