// Package postgres implements the store interfaces on PostgreSQL.
//
// Every query runs inside a transaction opened by RunAsRole, which adopts the
// database role named by the caller's platform key. Row-level security policies
// on the tasks table therefore apply to restricted keys exactly as they would for
// a direct client of the database.
package postgres
