// Package logger provides structured logging for the application.
//
// It builds on the standard library log/slog package: JSON output with a
// configurable level, plus helpers for carrying a request-scoped logger
// (annotated with the request's trace id) through a context.Context.
package logger
