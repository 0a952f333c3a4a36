// Package postgres implements the internal/store interfaces on PostgreSQL
// through database/sql and the pgx driver. It also owns the embedded goose
// migrations and maps driver errors onto the store sentinels.
package postgres
