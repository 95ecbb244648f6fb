// Package metrics exposes Prometheus metrics for the dispatch engine.
//
// DispatchMetrics implements notifications.Observer and prometheus.Collector,
// so one value is handed to the dispatcher and registered with a registry:
//
//	reg := prometheus.NewRegistry()
//	m, err := metrics.NewDispatchMetrics(reg)
//	d := notifications.NewDispatcher(events, contacts, store, notifications.WithObserver(m))
//	http.Handle("/metrics", metrics.Handler(reg))
package metrics
