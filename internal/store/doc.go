// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data platform from the
// application's core logic, so validation and tenant rules remain
// independent of the database technology behind them.
package store
