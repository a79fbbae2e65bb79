package domain

import "errors"

// ErrUnknownParameter is returned when a name is not present in a parameter store.
var ErrUnknownParameter = errors.New("unknown parameter")

// ErrDuplicateParameter is returned when a parameter name is declared twice in one store.
var ErrDuplicateParameter = errors.New("duplicate parameter")

// ErrInvalidOptions is returned when an options bag holds an unsupported key or value.
var ErrInvalidOptions = errors.New("invalid options")

// ErrUnsupportedModelVariant marks a model variant an observable cannot represent.
// It is only ever logged; construction of the observable still succeeds.
var ErrUnsupportedModelVariant = errors.New("unsupported model variant")

// ErrMalformedConstraint is returned when a constraint violates min <= central <= max
// or carries a non-finite or degenerate uncertainty interval.
var ErrMalformedConstraint = errors.New("malformed constraint specification")

// ErrUnknownObservable is returned when no factory is registered for an observable name.
var ErrUnknownObservable = errors.New("unknown observable")

// ErrUnknownConstraint is returned when the catalog has no entry for a constraint name.
var ErrUnknownConstraint = errors.New("unknown constraint")

// ErrUnknownKinematic is returned when a kinematic variable is not part of a kinematics point.
var ErrUnknownKinematic = errors.New("unknown kinematic variable")

// ErrMalformedKinematics is returned when a kinematics point cannot be built or parsed.
var ErrMalformedKinematics = errors.New("malformed kinematics")

// ErrDimensionMismatch is returned when a point does not match the dimension of a density.
var ErrDimensionMismatch = errors.New("dimension mismatch")

// ErrCheckpointNotFound is returned when a chain has no persisted checkpoint.
var ErrCheckpointNotFound = errors.New("checkpoint not found")
