// Package service contains the marketplace use cases. It orchestrates the
// domain types and the store interfaces (internal/store) to register and
// authenticate users, search and manage listings, and maintain favorites.
//
// Services receive their dependencies through constructor injection and never
// depend on a concrete store implementation. Expected failures are returned as
// *domain.Error values (see errors.go) so that the API layer can map them to
// status codes in a single place; unexpected store failures are wrapped with
// context and surface as internal errors.
package service
