package db

import "context"

// Database keeps project definitions beyond the lifetime of the server.
type Database interface {
	Projects() ProjectsInterface

	// Ping tells whether the database is reachable.
	Ping(ctx context.Context) error

	Close() error
}
