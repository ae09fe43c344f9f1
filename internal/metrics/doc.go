// Package metrics records build metrics for a site generation run.
//
// Components receive a Recorder through their options and default to
// NoopRecorder, so no call site needs a nil check:
//
//	asm := site.NewAssembler(engine, site.Options{Recorder: metrics.NoopRecorder{}})
//
// PrometheusRecorder backs the Recorder with a private registry. A one-shot
// CLI has nothing to scrape it, so the registry is written out in the node
// exporter textfile format after each build (see WriteTextfile), where a
// collector can pick it up.
package metrics
