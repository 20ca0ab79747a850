// Package studio operates RuleStudio projects.
//
// Studio keeps projects in memory, calculates their results with the
// rule-learning engine, and writes project definitions through to an archive.
package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/google/uuid"
	"github.com/labstack/gommon/log"
	"github.com/rulestudio/rulestudio/pkg/crossvalidation"
	kdb "github.com/rulestudio/rulestudio/pkg/db"
	"github.com/rulestudio/rulestudio/pkg/domain/project"
	xe "github.com/rulestudio/rulestudio/pkg/errors"
	"github.com/rulestudio/rulestudio/pkg/infotable"
	"github.com/rulestudio/rulestudio/pkg/rulelearn"
)

type Studio struct {
	projects   *project.Projects
	engine     rulelearn.Engine
	calculator *crossvalidation.Calculator
	archive    kdb.ProjectsInterface
	logger     *log.Logger
}

type Option func(*Studio)

// WithArchive sets the database where project definitions are archived.
func WithArchive(db kdb.Database) Option {
	return func(s *Studio) {
		s.archive = db.Projects()
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(s *Studio) {
		s.logger = logger
	}
}

// WithCalculator sets the cross-validation calculator.
//
// By default, a calculator on the engine with default options is used.
func WithCalculator(c *crossvalidation.Calculator) Option {
	return func(s *Studio) {
		s.calculator = c
	}
}

func New(engine rulelearn.Engine, options ...Option) *Studio {
	s := &Studio{
		projects: project.NewProjects(),
		engine:   engine,
		archive:  kdb.Null().Projects(),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.calculator == nil {
		s.calculator = crossvalidation.New(engine)
	}
	if s.logger == nil {
		s.logger = log.New("studio")
		s.logger.SetOutput(io.Discard)
	}
	return s
}

// NumberOfProjects returns how many projects are open.
func (s *Studio) NumberOfProjects() int {
	return s.projects.Len()
}

// Restore loads archived projects.
//
// Records which cannot be read are skipped with error logs.
func (s *Studio) Restore(ctx context.Context) error {
	records, err := s.archive.List(ctx)
	if err != nil {
		return xe.Wrap(err)
	}
	for _, rec := range records {
		p := &project.Project{Id: rec.Id, Name: rec.Name}
		if len(rec.Metadata) != 0 {
			table, err := infotable.Load(rec.Metadata, rec.Objects, infotable.JSON)
			if err != nil {
				s.logger.Errorf("archived project %s (%s) is broken: %s", rec.Id, rec.Name, err)
				continue
			}
			p.Table = table
		}
		s.projects.Add(p)
		s.logger.Debugf("restored project %s (%s)", rec.Id, rec.Name)
	}
	s.logger.Infof("restored %d projects", s.projects.Len())
	return nil
}

// update changes a project while holding its lock.
func (s *Studio) update(id uuid.UUID, f func(p *project.Project) error) (project.Snapshot, error) {
	p, err := s.projects.Get(id)
	if err != nil {
		return project.Snapshot{}, err
	}
	p.Lock()
	err = f(p)
	p.Unlock()
	if err != nil {
		return project.Snapshot{}, err
	}
	return p.Snapshot(), nil
}

func (s *Studio) snapshot(id uuid.UUID) (project.Snapshot, error) {
	p, err := s.projects.Get(id)
	if err != nil {
		return project.Snapshot{}, err
	}
	return p.Snapshot(), nil
}

// save writes a project definition to the archive.
//
// Failures are logged, and the project keeps living in memory.
func (s *Studio) save(ctx context.Context, snap project.Snapshot) {
	rec := kdb.ProjectRecord{Id: snap.Id, Name: snap.Name}
	if snap.Table != nil {
		metadata, err := json.Marshal(snap.Table.Attributes())
		if err != nil {
			s.logger.Errorf("archiving project %s: %s", snap.Id, err)
			return
		}
		buf := new(bytes.Buffer)
		if err := snap.Table.WriteJSON(buf); err != nil {
			s.logger.Errorf("archiving project %s: %s", snap.Id, err)
			return
		}
		rec.Metadata = metadata
		rec.Objects = buf.Bytes()
	}
	if err := s.archive.Save(ctx, rec); err != nil {
		s.logger.Errorf("archiving project %s: %s", snap.Id, err)
	}
}
