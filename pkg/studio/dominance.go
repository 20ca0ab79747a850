package studio

import (
	"context"

	"github.com/google/uuid"
	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
	"github.com/rulestudio/rulestudio/pkg/domain/project"
	"github.com/rulestudio/rulestudio/pkg/dominance"
	"github.com/rulestudio/rulestudio/pkg/rulelearn"
)

// Unions returns unions of the project, and whether they are calculated on
// the current data.
func (s *Studio) Unions(id uuid.UUID) (*dominance.Unions, bool, error) {
	snap, err := s.snapshot(id)
	if err != nil {
		return nil, false, err
	}
	if snap.Unions == nil {
		return nil, false, kerr.EmptyResponse("Unions haven't been calculated.")
	}
	return snap.Unions, snap.Unions.IsCurrentData(snap.Table), nil
}

// PutUnions calculates unions with single limiting decision on the data of
// the project.
func (s *Studio) PutUnions(ctx context.Context, id uuid.UUID, params rulelearn.UnionParameters) (*dominance.Unions, bool, error) {
	s.logger.Infof(
		"Calculating unions: id = %s, typeOfUnions = %s, consistencyThreshold = %v",
		id, params.TypeOfUnions, params.ConsistencyThreshold,
	)
	snap, err := s.snapshot(id)
	if err != nil {
		return nil, false, err
	}
	u, err := dominance.CalculateUnions(ctx, s.engine, snap.Table, params)
	if err != nil {
		return nil, false, err
	}
	s.logger.Debugf("calculated %d downward and %d upward unions", len(u.DownwardUnions), len(u.UpwardUnions))

	after, err := s.update(id, func(p *project.Project) error {
		p.Unions = u
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return u, u.IsCurrentData(after.Table), nil
}

func (s *Studio) Cones(id uuid.UUID) (*dominance.Cones, bool, error) {
	snap, err := s.snapshot(id)
	if err != nil {
		return nil, false, err
	}
	if snap.Cones == nil {
		return nil, false, kerr.EmptyResponse("Dominance cones haven't been calculated.")
	}
	return snap.Cones, snap.Cones.IsCurrentData(snap.Table), nil
}

// PutCones calculates dominance cones of objects of the project.
func (s *Studio) PutCones(ctx context.Context, id uuid.UUID) (*dominance.Cones, bool, error) {
	s.logger.Infof("Calculating dominance cones: id = %s", id)
	snap, err := s.snapshot(id)
	if err != nil {
		return nil, false, err
	}
	c, err := dominance.CalculateCones(ctx, s.engine, snap.Table)
	if err != nil {
		return nil, false, err
	}

	after, err := s.update(id, func(p *project.Project) error {
		p.Cones = c
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return c, c.IsCurrentData(after.Table), nil
}
