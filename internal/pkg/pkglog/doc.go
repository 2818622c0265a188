// Package pkglog configures structured JSON logging (log/slog) for the whole
// application and propagates per-request correlation IDs through context so
// every log line of a request can be tied together.
package pkglog
