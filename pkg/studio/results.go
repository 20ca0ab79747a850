package studio

import (
	"context"

	"github.com/google/uuid"
	"github.com/rulestudio/rulestudio/pkg/classification"
	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
	"github.com/rulestudio/rulestudio/pkg/domain/project"
	"github.com/rulestudio/rulestudio/pkg/infotable"
	"github.com/rulestudio/rulestudio/pkg/rulelearn"
	"github.com/rulestudio/rulestudio/pkg/rules"
)

// Rules returns rules of the project, and whether they are made on the
// current data.
func (s *Studio) Rules(id uuid.UUID) (*rules.Rules, bool, error) {
	snap, err := s.snapshot(id)
	if err != nil {
		return nil, false, err
	}
	if snap.Rules == nil {
		return nil, false, kerr.EmptyResponse("Rules haven't been calculated.")
	}
	return snap.Rules, snap.Rules.IsCurrentData(snap.Table), nil
}

// PutRules induces rules from the data of the project.
func (s *Studio) PutRules(ctx context.Context, id uuid.UUID, params rulelearn.InductionParameters) (*rules.Rules, bool, error) {
	s.logger.Infof(
		"Calculating rules: id = %s, typeOfUnions = %s, consistencyThreshold = %v, typeOfRules = %s",
		id, params.TypeOfUnions, params.ConsistencyThreshold, params.TypeOfRules,
	)
	snap, err := s.snapshot(id)
	if err != nil {
		return nil, false, err
	}
	r, err := rules.Induce(ctx, s.engine, snap.Table, params)
	if err != nil {
		return nil, false, err
	}
	s.logger.Debugf("induced %d rules", r.RuleSet.Len())

	after, err := s.update(id, func(p *project.Project) error {
		p.Rules = r
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return r, r.IsCurrentData(after.Table), nil
}

// Classification returns the classification of the project, and whether it
// is made on the current data.
func (s *Studio) Classification(id uuid.UUID) (*classification.Classification, bool, error) {
	snap, err := s.snapshot(id)
	if err != nil {
		return nil, false, err
	}
	if snap.Classification == nil {
		return nil, false, kerr.EmptyResponse("Classification hasn't been calculated.")
	}
	return snap.Classification, snap.Classification.IsCurrentData(snap.Table), nil
}

// PutClassification classifies the data of the project with rules of the
// project.
func (s *Studio) PutClassification(ctx context.Context, id uuid.UUID, params rulelearn.ClassificationParameters) (*classification.Classification, bool, error) {
	s.logger.Infof(
		"Classifying: id = %s, typeOfClassifier = %s, defaultClassificationResult = %s",
		id, params.TypeOfClassifier, params.DefaultClassificationResult,
	)
	snap, err := s.snapshot(id)
	if err != nil {
		return nil, false, err
	}
	if snap.Rules == nil {
		return nil, false, kerr.EmptyResponse("Rules haven't been calculated.")
	}
	c, err := classification.Classify(
		ctx, s.engine, snap.Table, snap.Table, snap.Rules.RuleSet, params, nil,
	)
	if err != nil {
		return nil, false, err
	}

	after, err := s.update(id, func(p *project.Project) error {
		p.Classification = c
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return c, c.IsCurrentData(after.Table), nil
}

// ExternalData is a data file to be classified instead of the data of a
// project. Its objects are read with the metadata of the project.
type ExternalData struct {
	FileName string
	Content  []byte
	Format   infotable.DataFormat
}

// ClassifyExternal classifies objects in an external data file with rules of
// the project. The data of the project is the training data.
//
// The result replaces the classification of the project.
func (s *Studio) ClassifyExternal(ctx context.Context, id uuid.UUID, params rulelearn.ClassificationParameters, data ExternalData) (*classification.Classification, bool, error) {
	s.logger.Infof(
		"Classifying external data: id = %s, file = %s, typeOfClassifier = %s, defaultClassificationResult = %s",
		id, data.FileName, params.TypeOfClassifier, params.DefaultClassificationResult,
	)
	snap, err := s.snapshot(id)
	if err != nil {
		return nil, false, err
	}
	if snap.Table == nil {
		return nil, false, kerr.NoData("There is no data in project. Couldn't classify objects.")
	}
	if snap.Rules == nil {
		return nil, false, kerr.EmptyResponse("Rules haven't been calculated.")
	}

	target, err := infotable.LoadObjects(snap.Table.Attributes(), data.Content, data.Format)
	if err != nil {
		return nil, false, err
	}
	if target.NumberOfObjects() == 0 {
		return nil, false, kerr.InvalidFormat("There are no objects in %s.", data.FileName)
	}

	c, err := classification.Classify(
		ctx, s.engine, snap.Table, target, snap.Rules.RuleSet, params, nil,
	)
	if err != nil {
		return nil, false, err
	}
	c.ExternalData = true
	c.ExternalDataFileName = data.FileName

	after, err := s.update(id, func(p *project.Project) error {
		p.Classification = c
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return c, c.IsCurrentData(after.Table), nil
}
