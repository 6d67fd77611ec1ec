// Package database provides the connection pool for the optional PostgreSQL
// (or TimescaleDB) archive of fetched candles and computed annotations.
package database
