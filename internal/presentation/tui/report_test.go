package tui_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/aretw0/eos/internal/presentation/tui"
	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/likelihood"
	"github.com/aretw0/eos/pkg/parameters"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	l := likelihood.New(parameters.Defaults())
	require.NoError(t, l.AddGaussianConstraint("mass::b(MSbar)", 4.15, 4.18, 4.21, 0, domain.Kinematics{}, domain.Options{}))
	require.NoError(t, l.AddGaussianConstraint("CKM::A", 0.8, 0.826, 0.85, 1, domain.Kinematics{}, domain.Options{}))

	md := tui.Report(l)
	assert.Contains(t, md, "# Likelihood report")
	assert.Contains(t, md, "* constraints: 2")
	assert.Contains(t, md, "* observations: 1")
	assert.Contains(t, md, "| `mass::b(MSbar)` |")
	assert.Contains(t, md, "4.18 GeV")
	assert.Contains(t, md, "+0.00")
}

func TestRenderer(t *testing.T) {
	render := tui.NewRenderer()
	out, err := render("# Title\n\nbody text")
	require.NoError(t, err)
	assert.Contains(t, out, "body text")
}

func TestPull(t *testing.T) {
	assert.Equal(t, "+0.50 σ", tui.PullWithProfile(termenv.Ascii, 0.5))
	assert.Equal(t, "-2.25 σ", tui.PullWithProfile(termenv.Ascii, -2.25))

	colored := tui.PullWithProfile(termenv.TrueColor, 3)
	assert.True(t, strings.Contains(colored, "\x1b["), "true color output carries escape codes")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	tui.PrintBanner(&buf)
	assert.Greater(t, strings.Count(buf.String(), "\n"), 6)
}
