/*
Package observability turns engine lifecycle events into signals.

Metrics exposes Prometheus counters and gauges for context changes, keypress
lookups and remappings. LoggingHooks writes the same events to a slog.Logger.
Chain combines several hook sets so both can be installed at once.
*/
package observability
