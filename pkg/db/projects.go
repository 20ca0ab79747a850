package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrMissing = errors.New("missing")

// ProjectRecord is a project definition to be archived.
//
// Calculated results (rules, classification, cross-validation) are not
// archived; they are calculated again on demand.
type ProjectRecord struct {
	Id   uuid.UUID
	Name string

	// Metadata is the JSON array of attributes. nil when the project has no table.
	Metadata []byte

	// Objects is the JSON array of objects. nil when the project has no table.
	Objects []byte

	CreatedAt time.Time
	UpdatedAt time.Time
}

type ProjectsInterface interface {
	// Save inserts or updates a project record.
	//
	// CreatedAt of an existing record is kept.
	Save(ctx context.Context, record ProjectRecord) error

	// Remove deletes a project record.
	//
	// Returns ErrMissing when there is no such record.
	Remove(ctx context.Context, id uuid.UUID) error

	// List returns all project records, in the order of creation.
	List(ctx context.Context) ([]ProjectRecord, error)
}

// Null returns a Database keeping nothing.
func Null() Database {
	return nullDatabase{}
}

type nullDatabase struct{}

func (nullDatabase) Projects() ProjectsInterface    { return nullProjects{} }
func (nullDatabase) Ping(ctx context.Context) error { return nil }
func (nullDatabase) Close() error                   { return nil }

type nullProjects struct{}

func (nullProjects) Save(ctx context.Context, record ProjectRecord) error { return nil }
func (nullProjects) Remove(ctx context.Context, id uuid.UUID) error       { return nil }
func (nullProjects) List(ctx context.Context) ([]ProjectRecord, error)    { return []ProjectRecord{}, nil }
