/*
Package parameters owns the mutable numeric inputs of every observable.

A Parameters store keeps its values in one dense slice (the arena) next to a
shared, immutable definition table (names, bounds, units). Handles such as
Parameter and UsedParameter hold an index into the arena rather than a copy
of the value, so they always observe the current value and resolve in O(1).

# Cloning

Clone copies the value slice and shares the definition table. Clones never
share mutable cells: parallel fits and samplers give each worker its own clone
and need no locking. A single store is not safe for concurrent mutation.

# Dependency Tracking

Usage records which parameter names an object reads. It is append-only: a
component fills it during construction (through NewUsedParameter or Uses) and
it is treated as fixed afterwards, so external caches can ask which objects a
parameter change invalidates.
*/
package parameters
