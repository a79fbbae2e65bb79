/*
Package observability provides Prometheus instrumentation for likelihood
evaluation, constraint construction and sampler chains.

Metrics are registered on a caller-supplied prometheus.Registerer so that tests
and embedded uses do not collide on the global registry.
*/
package observability
