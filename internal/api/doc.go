// Package api handles incoming HTTP requests: it decodes and validates
// payloads, calls the application services and renders JSON responses.
// Every failure goes through HandleAPIError, which maps domain error kinds
// and store sentinels to status codes and the {error, message, traceId}
// envelope.
package api
