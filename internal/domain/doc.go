// Package domain holds the marketplace entities (users, categories, listings
// and favorites), the rules that keep them valid, listing search filters with
// page metadata, and the error kinds every layer reports with.
package domain
