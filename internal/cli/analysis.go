package cli

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/aretw0/eos"
	"github.com/aretw0/eos/pkg/catalog"
	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/parameters"
)

// CreateAnalysis builds an analysis with standard CLI conventions.
func CreateAnalysis(opts Options, logger *slog.Logger, extra ...eos.Option) (*eos.Analysis, error) {
	analysisOpts := []eos.Option{eos.WithLogger(logger)}

	// 1. Parameters
	if opts.ParametersFile != "" {
		p, err := parameters.LoadFile(opts.ParametersFile)
		if err != nil {
			return nil, err
		}
		analysisOpts = append(analysisOpts, eos.WithParameters(p))
	}

	// 2. Catalog: user entries override the embedded ones
	if opts.CatalogFile != "" {
		user, err := catalog.LoadFile(opts.CatalogFile)
		if err != nil {
			return nil, err
		}
		analysisOpts = append(analysisOpts, eos.WithCatalog(catalog.Default().Merge(user)))
	}

	a := eos.New(append(analysisOpts, extra...)...)

	// 3. Parameter assignments
	for _, set := range opts.Sets {
		name, value, err := parseAssignment(set)
		if err != nil {
			return nil, err
		}
		if err := a.Set(name, value); err != nil {
			return nil, err
		}
	}

	// 4. Constraints
	o, err := domain.ParseOptions(opts.ConstraintOptions)
	if err != nil {
		return nil, err
	}
	for _, name := range opts.Constraints {
		if err := a.AddConstraint(name, o); err != nil {
			return nil, err
		}
	}

	logger.Debug("analysis ready", "constraints", a.Likelihood().Len(), "parameters", a.Parameters().Len())
	return a, nil
}

func parseAssignment(s string) (string, float64, error) {
	name, raw, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return "", 0, fmt.Errorf("invalid assignment %q: expected name=value", s)
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid assignment %q: %w", s, err)
	}
	return name, value, nil
}
