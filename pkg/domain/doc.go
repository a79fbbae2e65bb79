/*
Package domain contains the value types shared by every layer of eos.

It is kept pure and free of numerics, I/O and persistence: the types here are
configuration records and identifiers that can be shared read-only across
parameter-store clones and goroutines.

# Key Entities

  - Options: an immutable, ordered string→string bag selecting model variants and behavior.
  - Kinematics: an immutable, ordered point (name → value) at which an observable is evaluated.
  - Checkpoint: a persisted snapshot of one sampler chain.
  - Sentinel errors: the error taxonomy matched with errors.Is across the module.
*/
package domain
