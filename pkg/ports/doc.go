/*
Package ports defines the driven ports (interfaces) of the inference core.

These interfaces decouple samplers and front ends from external implementations,
allowing runs to persist their progress to various storage backends.

# Key Interfaces

  - CheckpointStore: Responsible for persisting and loading sampler chain checkpoints.
*/
package ports
