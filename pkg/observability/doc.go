/*
Package observability provides a Prometheus-backed hook set for the
engine: node visit counters, capability call durations, and run totals
by terminal status.
*/
package observability
