package mocks

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	kdb "github.com/rulestudio/rulestudio/pkg/db"
)

type CallLog[T any] []T

type ProjectsInterface struct {
	Impl struct {
		Save   func(ctx context.Context, record kdb.ProjectRecord) error
		Remove func(ctx context.Context, id uuid.UUID) error
		List   func(ctx context.Context) ([]kdb.ProjectRecord, error)
	}

	Calls struct {
		Save   CallLog[kdb.ProjectRecord]
		Remove CallLog[uuid.UUID]
		List   int
	}

	mu sync.Mutex
}

func NewProjectsInterface() *ProjectsInterface {
	return &ProjectsInterface{}
}

var _ kdb.ProjectsInterface = &ProjectsInterface{}

func (m *ProjectsInterface) Save(ctx context.Context, record kdb.ProjectRecord) error {
	m.mu.Lock()
	m.Calls.Save = append(m.Calls.Save, record)
	m.mu.Unlock()
	if m.Impl.Save != nil {
		return m.Impl.Save(ctx, record)
	}

	panic(errors.New("it should not be called"))
}

func (m *ProjectsInterface) Remove(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	m.Calls.Remove = append(m.Calls.Remove, id)
	m.mu.Unlock()
	if m.Impl.Remove != nil {
		return m.Impl.Remove(ctx, id)
	}

	panic(errors.New("it should not be called"))
}

func (m *ProjectsInterface) List(ctx context.Context) ([]kdb.ProjectRecord, error) {
	m.mu.Lock()
	m.Calls.List += 1
	m.mu.Unlock()
	if m.Impl.List != nil {
		return m.Impl.List(ctx)
	}

	panic(errors.New("it should not be called"))
}

// Database is a mock of kdb.Database.
type Database struct {
	Projects_ *ProjectsInterface
	Impl      struct {
		Ping func(ctx context.Context) error
	}
	Closed bool
}

var _ kdb.Database = &Database{}

func NewDatabase() *Database {
	return &Database{Projects_: NewProjectsInterface()}
}

func (m *Database) Projects() kdb.ProjectsInterface {
	return m.Projects_
}

func (m *Database) Ping(ctx context.Context) error {
	if m.Impl.Ping != nil {
		return m.Impl.Ping(ctx)
	}
	return nil
}

func (m *Database) Close() error {
	m.Closed = true
	return nil
}
