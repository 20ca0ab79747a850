package studio

import (
	"context"

	"github.com/google/uuid"
	"github.com/rulestudio/rulestudio/pkg/classification"
	"github.com/rulestudio/rulestudio/pkg/crossvalidation"
	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
	"github.com/rulestudio/rulestudio/pkg/domain/project"
	"github.com/rulestudio/rulestudio/pkg/infotable"
)

func (s *Studio) crossValidation(id uuid.UUID) (*crossvalidation.CrossValidation, project.Snapshot, error) {
	snap, err := s.snapshot(id)
	if err != nil {
		return nil, project.Snapshot{}, err
	}
	if snap.CrossValidation == nil {
		return nil, project.Snapshot{}, kerr.EmptyResponse("Cross-validation hasn't been calculated.")
	}
	return snap.CrossValidation, snap, nil
}

// CrossValidation returns the cross-validation of the project, and whether
// it is made on the current data.
func (s *Studio) CrossValidation(id uuid.UUID) (*crossvalidation.CrossValidation, bool, error) {
	cv, snap, err := s.crossValidation(id)
	if err != nil {
		return nil, false, err
	}
	return cv, cv.IsCurrentData(snap.Table), nil
}

// PutCrossValidation cross-validates the data of the project.
func (s *Studio) PutCrossValidation(ctx context.Context, id uuid.UUID, params crossvalidation.Parameters) (*crossvalidation.CrossValidation, bool, error) {
	s.logParameters(id, params)
	snap, err := s.snapshot(id)
	if err != nil {
		return nil, false, err
	}
	return s.calculate(ctx, id, snap.Table, params)
}

// PostCrossValidation replaces the data of the project, and then
// cross-validates it.
//
// The data is kept even if the cross-validation fails.
func (s *Studio) PostCrossValidation(
	ctx context.Context,
	id uuid.UUID,
	params crossvalidation.Parameters,
	metadata []byte,
	data []byte,
	format infotable.DataFormat,
) (*crossvalidation.CrossValidation, bool, error) {
	s.logParameters(id, params)
	s.logger.Debugf("metadata: %d bytes, data: %d bytes", len(metadata), len(data))

	snap, err := s.update(id, func(p *project.Project) error {
		return replaceTable(p, metadata, data, format)
	})
	if err != nil {
		return nil, false, err
	}
	s.save(ctx, snap)
	return s.calculate(ctx, id, snap.Table, params)
}

func (s *Studio) logParameters(id uuid.UUID, params crossvalidation.Parameters) {
	s.logger.Infof(
		"Cross-validating: id = %s, typeOfUnions = %s, consistencyThreshold = %v, typeOfRules = %s, typeOfClassifier = %s, defaultClassificationResult = %s, numberOfFolds = %d, seed = %d",
		id,
		params.Induction.TypeOfUnions, params.Induction.ConsistencyThreshold, params.Induction.TypeOfRules,
		params.Classification.TypeOfClassifier, params.Classification.DefaultClassificationResult,
		params.NumberOfFolds, params.Seed,
	)
}

func (s *Studio) calculate(ctx context.Context, id uuid.UUID, table *infotable.Table, params crossvalidation.Parameters) (*crossvalidation.CrossValidation, bool, error) {
	cv, err := s.calculator.Calculate(ctx, table, params)
	if err != nil {
		return nil, false, err
	}
	after, err := s.update(id, func(p *project.Project) error {
		p.CrossValidation = cv
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return cv, cv.IsCurrentData(after.Table), nil
}

func (s *Studio) DescriptiveAttributes(id uuid.UUID) (*crossvalidation.DescriptiveAttributes, error) {
	cv, _, err := s.crossValidation(id)
	if err != nil {
		return nil, err
	}
	return cv.DescriptiveAttributes, nil
}

// SetDescriptiveAttribute chooses the attribute naming objects of the
// cross-validation. Empty name clears the choice.
func (s *Studio) SetDescriptiveAttribute(id uuid.UUID, name string) (*crossvalidation.DescriptiveAttributes, error) {
	s.logger.Infof("Setting descriptive attribute: id = %s, objectVisibleName = %s", id, name)
	cv, _, err := s.crossValidation(id)
	if err != nil {
		return nil, err
	}
	if err := cv.DescriptiveAttributes.SetCurrent(name); err != nil {
		return nil, err
	}
	return cv.DescriptiveAttributes, nil
}

func (s *Studio) ObjectNames(id uuid.UUID) ([]string, error) {
	cv, _, err := s.crossValidation(id)
	if err != nil {
		return nil, err
	}
	return cv.ObjectNames(), nil
}

// Fold returns a fold of the cross-validation with the cross-validation
// itself.
func (s *Studio) Fold(id uuid.UUID, foldIndex int) (*crossvalidation.Fold, *crossvalidation.CrossValidation, error) {
	cv, _, err := s.crossValidation(id)
	if err != nil {
		return nil, nil, err
	}
	f, err := cv.Fold(foldIndex)
	if err != nil {
		return nil, nil, err
	}
	return f, cv, nil
}

// FoldObject picks a classified object among validation objects of a fold.
func (s *Studio) FoldObject(id uuid.UUID, foldIndex int, objectIndex int, withAttributes bool) (classification.ChosenObject, error) {
	cv, _, err := s.crossValidation(id)
	if err != nil {
		return classification.ChosenObject{}, err
	}
	return cv.ChosenObject(foldIndex, objectIndex, withAttributes)
}
