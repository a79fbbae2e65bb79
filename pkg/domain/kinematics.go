package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// variable is one named kinematic coordinate.
type variable struct {
	Name  string
	Value float64
}

// Kinematics is an immutable, ordered point at which an observable is evaluated,
// e.g. the bounds of a dilepton-mass bin. Order equals construction order.
// The zero value is the empty point used by integrated observables.
type Kinematics struct {
	vars []variable
}

// NewKinematics builds a point from alternating name/value arguments.
// A repeated name keeps its first position and its last value.
func NewKinematics(pairs ...any) (Kinematics, error) {
	if len(pairs)%2 != 0 {
		return Kinematics{}, fmt.Errorf("%w: odd number of arguments (%d)", ErrMalformedKinematics, len(pairs))
	}

	var k Kinematics
	for i := 0; i < len(pairs); i += 2 {
		name, ok := pairs[i].(string)
		if !ok {
			return Kinematics{}, fmt.Errorf("%w: argument %d is %T, want string", ErrMalformedKinematics, i, pairs[i])
		}
		value, err := toFloat(pairs[i+1])
		if err != nil {
			return Kinematics{}, fmt.Errorf("%w: %s: %w", ErrMalformedKinematics, name, err)
		}
		k = k.with(name, value)
	}
	return k, nil
}

// ParseKinematics parses the canonical "name=value,name=value" form produced by String.
func ParseKinematics(s string) (Kinematics, error) {
	var k Kinematics
	s = strings.TrimSpace(s)
	if s == "" {
		return k, nil
	}

	for _, field := range strings.Split(s, ",") {
		name, raw, ok := strings.Cut(field, "=")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return Kinematics{}, fmt.Errorf("%w: variable %q", ErrMalformedKinematics, field)
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Kinematics{}, fmt.Errorf("%w: %s: %w", ErrMalformedKinematics, name, err)
		}
		k = k.with(name, value)
	}
	return k, nil
}

func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case float32:
		return float64(x), nil
	case int:
		return float64(x), nil
	case int64:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("value is %T, want a number", v)
	}
}

func (k Kinematics) with(name string, value float64) Kinematics {
	vars := make([]variable, len(k.vars), len(k.vars)+1)
	copy(vars, k.vars)
	for i := range vars {
		if vars[i].Name == name {
			vars[i].Value = value
			return Kinematics{vars: vars}
		}
	}
	return Kinematics{vars: append(vars, variable{Name: name, Value: value})}
}

// Get returns the value of a kinematic variable.
func (k Kinematics) Get(name string) (float64, error) {
	for _, v := range k.vars {
		if v.Name == name {
			return v.Value, nil
		}
	}
	return 0, fmt.Errorf("%w: %s", ErrUnknownKinematic, name)
}

// Names returns the variable names in order.
func (k Kinematics) Names() []string {
	names := make([]string, len(k.vars))
	for i, v := range k.vars {
		names[i] = v.Name
	}
	return names
}

// Len returns the number of variables.
func (k Kinematics) Len() int { return len(k.vars) }

// Equal reports whether both points carry the same variables in the same order.
func (k Kinematics) Equal(other Kinematics) bool {
	if len(k.vars) != len(other.vars) {
		return false
	}
	for i := range k.vars {
		if k.vars[i] != other.vars[i] {
			return false
		}
	}
	return true
}

// String returns the canonical "name=value,name=value" form.
func (k Kinematics) String() string {
	var sb strings.Builder
	for i, v := range k.vars {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(v.Name)
		sb.WriteByte('=')
		sb.WriteString(strconv.FormatFloat(v.Value, 'g', -1, 64))
	}
	return sb.String()
}
