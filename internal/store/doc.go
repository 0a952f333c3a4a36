// Package store declares the persistence interfaces for users, categories,
// listings and favorites, the sentinel errors implementations return, and a
// transaction helper. Services depend on these interfaces only.
package store
