// Package catalog loads named constraints from YAML documents.
//
// A document maps constraint names to entries:
//
//	constraints:
//	  "B->X_sgamma::BR[1.8]@HFAG-2012":
//	    type: gaussian
//	    observable: "B->X_sgamma::BR(Minimal)"
//	    min: 3.21e-4
//	    central: 3.43e-4
//	    max: 3.65e-4
//	    observations: 1
//
// Catalogs are immutable once loaded and may be shared by any number of likelihoods.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/aretw0/eos/pkg/domain"
	"github.com/aretw0/eos/pkg/likelihood"
	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

var validate = validator.New(validator.WithRequiredStructEnabled())

// header holds the fields shared by every entry type.
type header struct {
	Type           string              `mapstructure:"type" validate:"required,oneof=gaussian student-t multivariate-gaussian"`
	Description    string              `mapstructure:"description"`
	AllowedOptions map[string][]string `mapstructure:"allowed-options"`
}

// document is the on-disk layout.
type document struct {
	Constraints map[string]map[string]any `yaml:"constraints"`
}

// Catalog maps constraint names to entries.
type Catalog struct {
	entries map[string]*Entry
}

var _ likelihood.Catalog = (*Catalog)(nil)

// Load decodes a YAML catalog.
func Load(r io.Reader) (*Catalog, error) {
	var doc document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	c := &Catalog{entries: make(map[string]*Entry, len(doc.Constraints))}
	for name, raw := range doc.Constraints {
		e, err := decodeEntry(name, raw)
		if err != nil {
			return nil, err
		}
		c.entries[name] = e
	}
	return c, nil
}

// LoadFile reads a YAML catalog from disk.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Load(bytes.NewReader(data))
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := Load(bytes.NewReader(defaultYAML))
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid embedded default: %v", err))
	}
	return c
}

func decodeEntry(name string, raw map[string]any) (*Entry, error) {
	var h header
	if err := decode(raw, &h, false); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMalformedConstraint, name, err)
	}
	if err := validate.Struct(h); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMalformedConstraint, name, err)
	}

	var spec blockSpec
	switch h.Type {
	case TypeGaussian:
		spec = &GaussianSpec{}
	case TypeStudentT:
		spec = &StudentTSpec{}
	case TypeMultivariateGaussian:
		spec = &MultivariateGaussianSpec{}
	}

	payload := make(map[string]any, len(raw))
	for k, v := range raw {
		switch k {
		case "type", "description", "allowed-options":
		default:
			payload[k] = v
		}
	}
	if err := decode(payload, spec, true); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMalformedConstraint, name, err)
	}
	if err := validate.Struct(spec); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrMalformedConstraint, name, err)
	}

	return &Entry{
		Name:           name,
		Type:           h.Type,
		Description:    h.Description,
		AllowedOptions: h.AllowedOptions,
		spec:           spec,
	}, nil
}

func decode(input any, result any, strict bool) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  stringToObservableRef,
		ErrorUnused: strict,
		Result:      result,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// Lookup implements likelihood.Catalog.
func (c *Catalog) Lookup(name string, o domain.Options) (likelihood.ConstraintEntry, error) {
	e, ok := c.entries[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownConstraint, name)
	}
	if err := e.checkOptions(o); err != nil {
		return nil, err
	}
	return e, nil
}

// Entry returns the entry registered under name.
func (c *Catalog) Entry(name string) (*Entry, bool) {
	e, ok := c.entries[name]
	return e, ok
}

// Names returns the constraint names, sorted.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }

// Merge returns a catalog holding the entries of both; entries of other win.
func (c *Catalog) Merge(other *Catalog) *Catalog {
	merged := &Catalog{entries: make(map[string]*Entry, len(c.entries)+len(other.entries))}
	for name, e := range c.entries {
		merged.entries[name] = e
	}
	for name, e := range other.entries {
		merged.entries[name] = e
	}
	return merged
}
