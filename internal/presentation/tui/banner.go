package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the EOS banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Blue to violet, one shade per line
	lines := []struct {
		text  string
		color string
	}{
		{"  ______ ____   _____", "#60a5fa"},
		{" |  ____/ __ \\ / ____|", "#818cf8"},
		{" | |__ | |  | | (___", "#a78bfa"},
		{" |  __|| |  | |\\___ \\", "#c084fc"},
		{" | |___| |__| |____) |", "#e879f9"},
		{" |______\\____/|_____/", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, p.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}

// Pull formats a significance, colored by size: green below one sigma, yellow
// below two, red beyond.
func Pull(sigma float64) string {
	return PullWithProfile(termenv.ColorProfile(), sigma)
}

// PullWithProfile is Pull for an explicit color profile.
func PullWithProfile(p termenv.Profile, sigma float64) string {
	s := p.String(fmt.Sprintf("%+.2f σ", sigma))
	abs := sigma
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs < 1:
		s = s.Foreground(p.Color("#22c55e"))
	case abs < 2:
		s = s.Foreground(p.Color("#eab308"))
	default:
		s = s.Foreground(p.Color("#ef4444"))
	}
	return s.String()
}
