// Package pg wires PostgreSQL connectivity: pooled connections with
// startup retry, embedded-FS goose migrations, a ping healthcheck, and
// SQLSTATE error helpers shared by the storage layer.
package pg
