package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/eos/pkg/likelihood"
	"github.com/aretw0/eos/pkg/parameters"
)

// Report builds a markdown report of a likelihood at its current point.
func Report(l *likelihood.LogLikelihood) string {
	var sb strings.Builder
	summary := l.Summary()

	var total float64
	for _, s := range summary {
		total += s.LogDensity
	}

	sb.WriteString("# Likelihood report\n\n")
	fmt.Fprintf(&sb, "* constraints: %d\n", len(summary))
	fmt.Fprintf(&sb, "* observations: %d\n", l.NumberOfObservations())
	fmt.Fprintf(&sb, "* observables: %d\n", l.Observables().Len())
	fmt.Fprintf(&sb, "* log likelihood: %.6g\n\n", total)

	sb.WriteString("## Constraints\n\n")
	sb.WriteString("| constraint | log density | pulls | n |\n")
	sb.WriteString("|---|---:|---|---:|\n")
	for _, s := range summary {
		pulls := make([]string, len(s.Significances))
		for i, p := range s.Significances {
			pulls[i] = fmt.Sprintf("%+.2f", p)
		}
		fmt.Fprintf(&sb, "| `%s` | %.6g | %s | %d |\n", s.Name, s.LogDensity, strings.Join(pulls, ", "), s.Observations)
	}

	sb.WriteString("\n## Parameters\n\n")
	sb.WriteString("| parameter | value | range |\n")
	sb.WriteString("|---|---:|---|\n")
	used := l.UsedParameterNames()
	store := l.Parameters()
	for _, name := range used {
		p, err := store.Get(name)
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "| `%s` | %.6g%s | [%g, %g] |\n", name, p.Value(), unit(p), p.Min(), p.Max())
	}

	return sb.String()
}

func unit(p parameters.Parameter) string {
	if p.Unit() == "" {
		return ""
	}
	return " " + p.Unit()
}
