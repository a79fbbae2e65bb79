package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/aretw0/eos"
	"github.com/aretw0/eos/internal/presentation/tui"
	"github.com/aretw0/eos/pkg/catalog"
)

// PrintEvaluation writes every constraint with its colored pulls, then the total.
func PrintEvaluation(w io.Writer, a *eos.Analysis) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	var total float64
	for _, s := range a.Summary() {
		pulls := make([]string, len(s.Significances))
		for i, sig := range s.Significances {
			pulls[i] = tui.Pull(sig)
		}
		fmt.Fprintf(tw, "%s\t%.6g\t%s\n", s.Name, s.LogDensity, strings.Join(pulls, " "))
		total += s.LogDensity
	}
	tw.Flush()

	fmt.Fprintf(w, "\nlog likelihood: %.6g (%d constraints, %d observations)\n",
		total, a.Likelihood().Len(), a.Likelihood().NumberOfObservations())
}

// PrintParameters lists the store. With used set, only the parameters the
// likelihood reads are shown.
func PrintParameters(w io.Writer, a *eos.Analysis, used bool) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tVALUE\tMIN\tMAX\tUNIT")

	show := func(string) bool { return true }
	if used {
		names := make(map[string]bool)
		for _, n := range a.Likelihood().UsedParameterNames() {
			names[n] = true
		}
		show = func(n string) bool { return names[n] }
	}

	for p := range a.Parameters().All() {
		if !show(p.Name()) {
			continue
		}
		name := p.Name()
		if p.Fixed() {
			name += " (fixed)"
		}
		fmt.Fprintf(tw, "%s\t%g\t%g\t%g\t%s\n", name, p.Value(), p.Min(), p.Max(), p.Unit())
	}
	tw.Flush()
}

// PrintConstraints lists the catalog entries.
func PrintConstraints(w io.Writer, c *catalog.Catalog) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTYPE\tDESCRIPTION")
	for _, name := range c.Names() {
		e, _ := c.Entry(name)
		fmt.Fprintf(tw, "%s\t%s\t%s\n", name, e.Type, e.Description)
	}
	tw.Flush()
}

// RenderReport writes the markdown report, rendered for the terminal unless raw is set.
func RenderReport(w io.Writer, a *eos.Analysis, raw bool) error {
	md := a.Report()
	if raw {
		_, err := io.WriteString(w, md)
		return err
	}

	out, err := tui.NewRenderer()(md)
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	_, err = io.WriteString(w, out)
	return err
}
