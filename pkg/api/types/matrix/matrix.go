package matrix

import "github.com/rulestudio/rulestudio/pkg/validation"

// Matrix is an ordinal misclassification matrix.
//
// Value[i][j] is for objects whose original decision is DecisionsDomain[i]
// and suggested decision is DecisionsDomain[j]. The last column is for
// objects without suggestion.
type Matrix struct {
	DecisionsDomain []string    `json:"decisionsDomain"`
	Value           [][]float64 `json:"value"`

	NumberOfObjects                     float64 `json:"numberOfObjects"`
	NumberOfCorrectAssignments          float64 `json:"numberOfCorrectAssignments"`
	NumberOfIncorrectAssignments        float64 `json:"numberOfIncorrectAssignments"`
	NumberOfObjectsWithAssignedDecision float64 `json:"numberOfObjectsWithAssignedDecision"`

	Accuracy         float64   `json:"accuracy"`
	TruePositiveRate []float64 `json:"truePositiveRate"`
	Gmean            float64   `json:"gmean"`
	MAE              float64   `json:"mae"`
	RMSE             float64   `json:"rmse"`

	// deviations are present for matrices averaged over folds.
	DeviationOfAccuracy         *float64  `json:"deviationOfAccuracy,omitempty"`
	DeviationOfTruePositiveRate []float64 `json:"deviationOfTruePositiveRate,omitempty"`
	DeviationOfGmean            *float64  `json:"deviationOfGmean,omitempty"`
	DeviationOfMAE              *float64  `json:"deviationOfMAE,omitempty"`
	DeviationOfRMSE             *float64  `json:"deviationOfRMSE,omitempty"`
}

func Compose(m *validation.Matrix) *Matrix {
	if m == nil {
		return nil
	}
	out := &Matrix{
		DecisionsDomain:                     m.Decisions,
		Value:                               m.Values,
		NumberOfObjects:                     m.NumberOfObjects,
		NumberOfCorrectAssignments:          m.NumberOfCorrectAssignments,
		NumberOfIncorrectAssignments:        m.NumberOfIncorrectAssignments,
		NumberOfObjectsWithAssignedDecision: m.NumberOfObjectsWithAssignedDecision,
		Accuracy:                            m.Accuracy,
		TruePositiveRate:                    m.TruePositiveRate,
		Gmean:                               m.Gmean,
		MAE:                                 m.MAE,
		RMSE:                                m.RMSE,
	}
	if d := m.Deviation; d != nil {
		accuracy, gmean, mae, rmse := d.Accuracy, d.Gmean, d.MAE, d.RMSE
		out.DeviationOfAccuracy = &accuracy
		out.DeviationOfTruePositiveRate = d.TruePositiveRate
		out.DeviationOfGmean = &gmean
		out.DeviationOfMAE = &mae
		out.DeviationOfRMSE = &rmse
	}
	return out
}
