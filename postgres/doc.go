// Package postgres implements the subscription store on PostgreSQL.
//
// Writes go through single-statement upserts on the (email, list_name)
// unique constraint, so concurrent subscribe and unsubscribe requests for
// the same pair never race into duplicate rows. Schema migrations are
// embedded in the package and applied with goose via pg.Migrate.
package postgres
