package domain

import "time"

// Checkpoint captures the state of one sampler chain so a run can be resumed.
type Checkpoint struct {
	// ChainID identifies the chain the checkpoint belongs to.
	ChainID string `json:"chain_id"`

	// Step is the number of completed sampler steps.
	Step int `json:"step"`

	// Names are the varying parameters, in density order.
	Names []string `json:"names"`

	// Values is the current point, positionally aligned with Names.
	Values []float64 `json:"values"`

	// LogDensity is the log posterior at Values.
	LogDensity float64 `json:"log_density"`

	// Accepted counts accepted proposals so far.
	Accepted int `json:"accepted"`

	CreatedAt time.Time `json:"created_at"`
}

// Clone returns a deep copy of the checkpoint.
func (c *Checkpoint) Clone() *Checkpoint {
	cp := *c
	cp.Names = append([]string(nil), c.Names...)
	cp.Values = append([]float64(nil), c.Values...)
	return &cp
}
