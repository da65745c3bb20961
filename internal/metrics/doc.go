// Package metrics records resolution metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics
// collection needs no nil checks at call sites:
//
//	chain := resolver.NewResolverChain(logger).WithRecorder(metrics.NoopRecorder{})
//
// PrometheusRecorder registers its collectors on a caller-supplied registry.
// The CLI writes that registry to a node-exporter textfile after a run with
// WriteTextfile; there is no HTTP endpoint.
package metrics
