package studio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	kdb "github.com/rulestudio/rulestudio/pkg/db"
	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
	"github.com/rulestudio/rulestudio/pkg/domain/project"
	xe "github.com/rulestudio/rulestudio/pkg/errors"
	"github.com/rulestudio/rulestudio/pkg/infotable"
	"github.com/rulestudio/rulestudio/pkg/rules"
)

type CreateRequest struct {
	Name string

	// Metadata, Data and Rules are optional file contents.
	// Data and Rules need Metadata.
	Metadata []byte
	Data     []byte
	Rules    []byte

	// Format of Data.
	Format infotable.DataFormat
}

func (s *Studio) List() []project.Snapshot {
	ps := s.projects.List()
	snaps := make([]project.Snapshot, len(ps))
	for i, p := range ps {
		snaps[i] = p.Snapshot()
	}
	return snaps
}

// Create opens a new project.
func (s *Studio) Create(ctx context.Context, req CreateRequest) (project.Snapshot, error) {
	s.logger.Infof("Creating project: name = %s", req.Name)
	s.logger.Debugf(
		"metadata: %d bytes, data: %d bytes, rules: %d bytes, format: %+v",
		len(req.Metadata), len(req.Data), len(req.Rules), req.Format,
	)

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return project.Snapshot{}, kerr.WrongParameter("Project name should not be empty.")
	}
	if len(req.Metadata) == 0 && (len(req.Data) != 0 || len(req.Rules) != 0) {
		return project.Snapshot{}, kerr.WrongParameter(
			"There is no metadata. Data and rules can not be read without metadata.",
		)
	}

	p := project.New(name)
	if len(req.Metadata) != 0 {
		table, err := infotable.Load(req.Metadata, req.Data, req.Format)
		if err != nil {
			return project.Snapshot{}, err
		}
		p.Table = table
	}
	if len(req.Rules) != 0 {
		r, err := rules.Upload(ctx, s.engine, p.Table, req.Rules)
		if err != nil {
			return project.Snapshot{}, err
		}
		p.Rules = r
	}

	s.projects.Add(p)
	snap := p.Snapshot()
	s.save(ctx, snap)
	return snap, nil
}

func (s *Studio) Get(id uuid.UUID) (project.Snapshot, error) {
	return s.snapshot(id)
}

func (s *Studio) Rename(ctx context.Context, id uuid.UUID, name string) (project.Snapshot, error) {
	s.logger.Infof("Renaming project: id = %s, name = %s", id, name)
	name = strings.TrimSpace(name)
	if name == "" {
		return project.Snapshot{}, kerr.WrongParameter("Project name should not be empty.")
	}
	snap, err := s.update(id, func(p *project.Project) error {
		p.Name = name
		return nil
	})
	if err != nil {
		return project.Snapshot{}, err
	}
	s.save(ctx, snap)
	return snap, nil
}

func (s *Studio) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.Infof("Deleting project: id = %s", id)
	if _, err := s.projects.Remove(id); err != nil {
		return err
	}
	if err := s.archive.Remove(ctx, id); err != nil && !errors.Is(err, kdb.ErrMissing) {
		s.logger.Errorf("removing archived project %s: %s", id, err)
	}
	return nil
}

// Metadata returns attributes of the project. It is empty when the project
// has no information table.
func (s *Studio) Metadata(id uuid.UUID) ([]infotable.Attribute, error) {
	snap, err := s.snapshot(id)
	if err != nil {
		return nil, err
	}
	if snap.Table == nil {
		return []infotable.Attribute{}, nil
	}
	return snap.Table.Attributes(), nil
}

// PutMetadata replaces attributes of the project.
//
// Objects are kept. Their values are carried over by attribute name.
func (s *Studio) PutMetadata(ctx context.Context, id uuid.UUID, metadata []byte) (project.Snapshot, error) {
	s.logger.Infof("Putting metadata: id = %s", id)
	s.logger.Debugf("metadata: %d bytes", len(metadata))

	attrs, err := infotable.ParseMetadata(metadata)
	if err != nil {
		return project.Snapshot{}, err
	}
	snap, err := s.update(id, func(p *project.Project) error {
		var table *infotable.Table
		var err error
		if p.Table == nil {
			table, err = infotable.New(attrs, nil)
		} else {
			table, err = p.Table.Refit(attrs)
		}
		if err != nil {
			return err
		}
		p.Table = table
		return nil
	})
	if err != nil {
		return project.Snapshot{}, err
	}
	s.save(ctx, snap)
	return snap, nil
}

// DownloadMetadata renders attributes of the project as a file.
func (s *Studio) DownloadMetadata(id uuid.UUID) (filename string, content []byte, err error) {
	snap, err := s.snapshot(id)
	if err != nil {
		return "", nil, err
	}
	if snap.Table == nil {
		return "", nil, kerr.NoData("There is no metadata in project.")
	}
	content, err = json.Marshal(snap.Table.Attributes())
	if err != nil {
		return "", nil, xe.Wrap(err)
	}
	return metadataFilename(snap.Name), content, nil
}

// RenderMetadata renders metadata given by a client as a file named after
// the project.
func (s *Studio) RenderMetadata(id uuid.UUID, metadata []byte) (filename string, content []byte, err error) {
	snap, err := s.snapshot(id)
	if err != nil {
		return "", nil, err
	}
	attrs, err := infotable.ParseMetadata(metadata)
	if err != nil {
		return "", nil, err
	}
	content, err = json.Marshal(attrs)
	if err != nil {
		return "", nil, xe.Wrap(err)
	}
	return metadataFilename(snap.Name), content, nil
}

func metadataFilename(projectName string) string {
	return projectName + " metadata.json"
}

// Data returns the information table of the project.
func (s *Studio) Data(id uuid.UUID) (*infotable.Table, error) {
	snap, err := s.snapshot(id)
	if err != nil {
		return nil, err
	}
	if snap.Table == nil {
		return nil, kerr.NoData("There is no data in project.")
	}
	return snap.Table, nil
}

// DownloadData renders objects of the project in CSV.
func (s *Studio) DownloadData(id uuid.UUID, separator rune, header bool) (filename string, content []byte, err error) {
	snap, err := s.snapshot(id)
	if err != nil {
		return "", nil, err
	}
	if snap.Table == nil {
		return "", nil, kerr.NoData("There is no data in project.")
	}
	buf := new(bytes.Buffer)
	if err := snap.Table.WriteCSV(buf, separator, header); err != nil {
		return "", nil, xe.Wrap(err)
	}
	return snap.Name + " data.csv", buf.Bytes(), nil
}

// PutData replaces the information table of the project.
//
// When metadata is empty, attributes of the current table are used.
// Calculated results are kept, and they are no longer current.
func (s *Studio) PutData(ctx context.Context, id uuid.UUID, metadata []byte, data []byte, format infotable.DataFormat) (project.Snapshot, error) {
	s.logger.Infof("Putting data: id = %s", id)
	s.logger.Debugf("metadata: %d bytes, data: %d bytes, format: %+v", len(metadata), len(data), format)

	snap, err := s.update(id, func(p *project.Project) error {
		return replaceTable(p, metadata, data, format)
	})
	if err != nil {
		return project.Snapshot{}, err
	}
	s.save(ctx, snap)
	return snap, nil
}

// replaceTable builds a table and sets it to p. The lock of p should be held.
func replaceTable(p *project.Project, metadata []byte, data []byte, format infotable.DataFormat) error {
	if len(metadata) == 0 {
		if p.Table == nil {
			return kerr.WrongParameter("There is no metadata in project. Upload metadata with data.")
		}
		m, err := json.Marshal(p.Table.Attributes())
		if err != nil {
			return xe.Wrap(err)
		}
		metadata = m
	}
	table, err := infotable.Load(metadata, data, format)
	if err != nil {
		return err
	}
	p.Table = table
	return nil
}
