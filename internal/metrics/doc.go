// Package metrics provides build observability for docsite.
//
// Components receive a Recorder through dependency injection. NoopRecorder is
// the default and costs nothing; PrometheusRecorder registers histograms and
// counters on a registry and can dump them to a textfile after a build
// (see the --metrics-file flag of the build command):
//
//	reg := prometheus.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	svc := build.NewService().WithRecorder(rec)
//	...
//	_ = rec.WriteTextfile("/var/lib/node_exporter/docsite.prom")
package metrics
