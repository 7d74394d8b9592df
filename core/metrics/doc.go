// Package metrics exposes Prometheus metrics for the property API.
//
// Request counters and latency histograms are collected by a Fiber middleware;
// store operations are recorded by the property service through ObserveStore.
// The registry is served on its own listener so the API surface stays limited
// to property paths.
package metrics
