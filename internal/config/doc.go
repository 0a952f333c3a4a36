// Package config defines the service configuration and loads it from a .env
// file, an optional config.yaml and CLASSIFIEDS_* environment variables.
// The result is validated once at startup so the rest of the service can
// trust every value.
package config
