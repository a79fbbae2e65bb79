package eos

import _ "embed"

// Version is the release of the eos module, read from the VERSION file.
//
//go:embed VERSION
var Version string
