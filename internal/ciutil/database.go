package ciutil

import "log/slog"

// TestDatabaseURL returns the connection URL for integration tests, or an
// empty string when none is configured.
func TestDatabaseURL(logger *slog.Logger) string {
	return GetEnvWithFallbacks([]string{EnvTestDBURL, EnvDatabaseURL, EnvAppDBURL}, "", logger)
}
