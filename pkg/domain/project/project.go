// Package project holds RuleStudio projects in memory.
package project

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/rulestudio/rulestudio/pkg/classification"
	"github.com/rulestudio/rulestudio/pkg/crossvalidation"
	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
	"github.com/rulestudio/rulestudio/pkg/dominance"
	"github.com/rulestudio/rulestudio/pkg/infotable"
	"github.com/rulestudio/rulestudio/pkg/rules"
)

// Project is a workspace of one information table and results calculated
// on it.
//
// Callers should hold the lock while reading or writing fields other than Id.
type Project struct {
	sync.RWMutex

	Id   uuid.UUID
	Name string

	// Table is the information table. It is nil until metadata is given.
	Table *infotable.Table

	Unions          *dominance.Unions
	Cones           *dominance.Cones
	Rules           *rules.Rules
	Classification  *classification.Classification
	CrossValidation *crossvalidation.CrossValidation
}

// New creates a project with a fresh id.
func New(name string) *Project {
	return &Project{Id: uuid.New(), Name: name}
}

// ParseId reads a project id.
func ParseId(s string) (uuid.UUID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, kerr.WrongParameter("\"%s\" is not a valid project id", s)
	}
	return id, nil
}

// Projects is projects keyed by id. It is safe for concurrent use.
type Projects struct {
	mu    sync.RWMutex
	byId  map[uuid.UUID]*Project
	order []uuid.UUID
}

func NewProjects() *Projects {
	return &Projects{byId: map[uuid.UUID]*Project{}}
}

// Add puts a project. A project with the same id is replaced.
func (ps *Projects) Add(p *Project) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	if _, ok := ps.byId[p.Id]; !ok {
		ps.order = append(ps.order, p.Id)
	}
	ps.byId[p.Id] = p
}

func (ps *Projects) Get(id uuid.UUID) (*Project, error) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	p, ok := ps.byId[id]
	if !ok {
		return nil, kerr.Missing("Project with given id %s doesn't exist", id)
	}
	return p, nil
}

// Remove removes the project and returns it.
func (ps *Projects) Remove(id uuid.UUID) (*Project, error) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	p, ok := ps.byId[id]
	if !ok {
		return nil, kerr.Missing("Project with given id %s doesn't exist", id)
	}
	delete(ps.byId, id)
	ps.order = slices.DeleteFunc(ps.order, func(x uuid.UUID) bool { return x == id })
	return p, nil
}

// List returns projects in the order they are added.
func (ps *Projects) List() []*Project {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	list := make([]*Project, len(ps.order))
	for i, id := range ps.order {
		list[i] = ps.byId[id]
	}
	return list
}

func (ps *Projects) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	return len(ps.byId)
}

// Snapshot is fields of a project at a moment.
type Snapshot struct {
	Id   uuid.UUID
	Name string

	Table           *infotable.Table
	Unions          *dominance.Unions
	Cones           *dominance.Cones
	Rules           *rules.Rules
	Classification  *classification.Classification
	CrossValidation *crossvalidation.CrossValidation
}

func (p *Project) Snapshot() Snapshot {
	p.RLock()
	defer p.RUnlock()
	return Snapshot{
		Id:              p.Id,
		Name:            p.Name,
		Table:           p.Table,
		Unions:          p.Unions,
		Cones:           p.Cones,
		Rules:           p.Rules,
		Classification:  p.Classification,
		CrossValidation: p.CrossValidation,
	}
}
