package studio

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
	xe "github.com/rulestudio/rulestudio/pkg/errors"
	"github.com/rulestudio/rulestudio/pkg/validation"
)

type MatrixType string

const (
	ClassificationMatrix      MatrixType = "classification"
	CrossValidationMeanMatrix MatrixType = "crossValidationMean"
	CrossValidationSumMatrix  MatrixType = "crossValidationSum"
	CrossValidationFoldMatrix MatrixType = "crossValidationFold"
)

func ParseMatrixType(s string) (MatrixType, error) {
	switch t := MatrixType(s); t {
	case ClassificationMatrix, CrossValidationMeanMatrix, CrossValidationSumMatrix, CrossValidationFoldMatrix:
		return t, nil
	}
	return "", kerr.WrongParameter(
		`typeOfMatrix should be one of classification, crossValidationMean, crossValidationSum, crossValidationFold (got "%s")`, s,
	)
}

// Matrix returns a misclassification matrix of the project, and whether it
// is made on the current data.
//
// numberOfFold is the index of the fold. It is required for
// CrossValidationFoldMatrix, and ignored for others.
func (s *Studio) Matrix(id uuid.UUID, typ MatrixType, numberOfFold *int) (*validation.Matrix, bool, error) {
	switch typ {
	case ClassificationMatrix:
		c, current, err := s.Classification(id)
		if err != nil {
			return nil, false, err
		}
		return c.Matrix, current, nil
	case CrossValidationMeanMatrix, CrossValidationSumMatrix, CrossValidationFoldMatrix:
		if typ == CrossValidationFoldMatrix && numberOfFold == nil {
			return nil, false, kerr.WrongParameter("numberOfFold is required for typeOfMatrix crossValidationFold.")
		}
		cv, current, err := s.CrossValidation(id)
		if err != nil {
			return nil, false, err
		}
		switch typ {
		case CrossValidationMeanMatrix:
			return cv.Mean, current, nil
		case CrossValidationSumMatrix:
			return cv.Sum, current, nil
		}
		f, err := cv.Fold(*numberOfFold)
		if err != nil {
			return nil, false, err
		}
		return f.Classification.Matrix, current, nil
	}
	_, err := ParseMatrixType(string(typ))
	return nil, false, err
}

// MatrixText renders a misclassification matrix as a text file.
func (s *Studio) MatrixText(id uuid.UUID, typ MatrixType, numberOfFold *int) (filename string, content []byte, err error) {
	s.logger.Infof("Downloading misclassification matrix: id = %s, typeOfMatrix = %s", id, typ)
	m, _, err := s.Matrix(id, typ, numberOfFold)
	if err != nil {
		return "", nil, err
	}
	snap, err := s.snapshot(id)
	if err != nil {
		return "", nil, err
	}

	var title string
	switch typ {
	case ClassificationMatrix:
		title = "Misclassification matrix of classification"
	case CrossValidationMeanMatrix:
		title = "Mean misclassification matrix of cross-validation"
	case CrossValidationSumMatrix:
		title = "Sum of misclassification matrices of cross-validation"
	case CrossValidationFoldMatrix:
		title = fmt.Sprintf("Misclassification matrix of cross-validation fold %d", *numberOfFold)
	}

	buf := new(bytes.Buffer)
	if err := m.WriteText(buf, title); err != nil {
		return "", nil, xe.Wrap(err)
	}
	return snap.Name + " " + string(typ) + " matrix.txt", buf.Bytes(), nil
}
