// Package metrics provides dispatch metrics for autobuilder.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics collection needs no nil checks at call sites:
//
//	d := build.NewDispatcher(settings, engine).
//	    WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// PrometheusRecorder registers its collectors on the supplied registry. A CLI
// run has no scrape endpoint, so the registry is written out with
// WriteTextfile for node_exporter's textfile collector.
package metrics
