// Package validation measures how suggested decisions agree with original
// decisions, on the ordinal scale of decisions.
package validation

import (
	"math"

	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
)

// Matrix is an ordinal misclassification matrix.
//
// Rows are original decisions and columns are suggested decisions, both in
// the order of Decisions. The extra last column counts objects without a
// suggestion (or with a suggestion out of Decisions).
//
// Objects whose original decision is missing are not counted.
type Matrix struct {
	Decisions []string
	Values    [][]float64

	NumberOfObjects                     float64
	NumberOfCorrectAssignments          float64
	NumberOfIncorrectAssignments        float64
	NumberOfObjectsWithAssignedDecision float64

	Accuracy         float64
	TruePositiveRate []float64
	Gmean            float64
	MAE              float64
	RMSE             float64

	// Deviation is set on matrices averaged over folds.
	Deviation *Deviation
}

// Deviation holds population standard deviations of metrics over folds.
type Deviation struct {
	Accuracy         float64
	TruePositiveRate []float64
	Gmean            float64
	MAE              float64
	RMSE             float64
}

// New counts original against suggested decisions.
func New(decisions []string, original []string, suggested []string) (*Matrix, error) {
	if len(original) != len(suggested) {
		return nil, kerr.WrongParameter(
			"%d original decisions for %d suggested decisions", len(original), len(suggested),
		)
	}
	m := empty(decisions)
	pos := map[string]int{}
	for i, d := range decisions {
		pos[d] = i
	}
	unknown := len(decisions)
	for n := range original {
		o, ok := pos[original[n]]
		if !ok {
			continue
		}
		s, ok := pos[suggested[n]]
		if !ok {
			s = unknown
		}
		m.Values[o][s]++
	}
	m.measure()
	return m, nil
}

func empty(decisions []string) *Matrix {
	values := make([][]float64, len(decisions))
	for i := range values {
		values[i] = make([]float64, len(decisions)+1)
	}
	return &Matrix{
		Decisions:        append([]string{}, decisions...),
		Values:           values,
		TruePositiveRate: make([]float64, len(decisions)),
	}
}

// Sum adds up matrices of folds. Metrics are measured on the summed values.
func Sum(decisions []string, folds ...*Matrix) (*Matrix, error) {
	if err := compatible(decisions, folds); err != nil {
		return nil, err
	}
	m := empty(decisions)
	for _, f := range folds {
		for i := range f.Values {
			for j := range f.Values[i] {
				m.Values[i][j] += f.Values[i][j]
			}
		}
	}
	m.measure()
	return m, nil
}

// Mean averages matrices of folds: values and metrics are means over folds,
// and Deviation holds their standard deviations.
func Mean(decisions []string, folds ...*Matrix) (*Matrix, error) {
	if err := compatible(decisions, folds); err != nil {
		return nil, err
	}
	n := float64(len(folds))
	m := empty(decisions)
	for _, f := range folds {
		for i := range f.Values {
			for j := range f.Values[i] {
				m.Values[i][j] += f.Values[i][j] / n
			}
		}
	}

	over := func(metric func(*Matrix) float64) (mean float64, deviation float64) {
		for _, f := range folds {
			mean += metric(f)
		}
		mean /= n
		for _, f := range folds {
			d := metric(f) - mean
			deviation += d * d
		}
		return mean, math.Sqrt(deviation / n)
	}

	m.NumberOfObjects, _ = over(func(f *Matrix) float64 { return f.NumberOfObjects })
	m.NumberOfCorrectAssignments, _ = over(func(f *Matrix) float64 { return f.NumberOfCorrectAssignments })
	m.NumberOfIncorrectAssignments, _ = over(func(f *Matrix) float64 { return f.NumberOfIncorrectAssignments })
	m.NumberOfObjectsWithAssignedDecision, _ = over(func(f *Matrix) float64 { return f.NumberOfObjectsWithAssignedDecision })

	dev := &Deviation{TruePositiveRate: make([]float64, len(decisions))}
	m.Accuracy, dev.Accuracy = over(func(f *Matrix) float64 { return f.Accuracy })
	m.Gmean, dev.Gmean = over(func(f *Matrix) float64 { return f.Gmean })
	m.MAE, dev.MAE = over(func(f *Matrix) float64 { return f.MAE })
	m.RMSE, dev.RMSE = over(func(f *Matrix) float64 { return f.RMSE })
	for i := range decisions {
		m.TruePositiveRate[i], dev.TruePositiveRate[i] = over(func(f *Matrix) float64 { return f.TruePositiveRate[i] })
	}
	m.Deviation = dev
	return m, nil
}

func compatible(decisions []string, folds []*Matrix) error {
	if len(folds) == 0 {
		return kerr.WrongParameter("no matrices to be aggregated")
	}
	for n, f := range folds {
		if len(f.Decisions) != len(decisions) {
			return kerr.WrongParameter(
				"matrix %d has %d decisions, but %d are expected", n, len(f.Decisions), len(decisions),
			)
		}
		for i := range decisions {
			if f.Decisions[i] != decisions[i] {
				return kerr.WrongParameter("matrix %d has decisions in different order", n)
			}
		}
	}
	return nil
}

// measure derives metrics from Values.
func (m *Matrix) measure() {
	n := len(m.Decisions)
	m.NumberOfObjects = 0
	m.NumberOfCorrectAssignments = 0
	m.NumberOfObjectsWithAssignedDecision = 0

	var absErr, sqErr float64
	product, classes := 1.0, 0
	for i, row := range m.Values {
		rowSum := 0.0
		for j, v := range row {
			rowSum += v
			if j == n {
				continue
			}
			m.NumberOfObjectsWithAssignedDecision += v
			d := float64(i - j)
			absErr += v * math.Abs(d)
			sqErr += v * d * d
		}
		m.NumberOfObjects += rowSum
		m.NumberOfCorrectAssignments += row[i]

		m.TruePositiveRate[i] = 0
		if 0 < rowSum {
			m.TruePositiveRate[i] = row[i] / rowSum
			product *= m.TruePositiveRate[i]
			classes++
		}
	}
	m.NumberOfIncorrectAssignments = m.NumberOfObjects - m.NumberOfCorrectAssignments

	m.Accuracy, m.Gmean, m.MAE, m.RMSE = 0, 0, 0, 0
	if 0 < m.NumberOfObjects {
		m.Accuracy = m.NumberOfCorrectAssignments / m.NumberOfObjects
	}
	if 0 < classes {
		m.Gmean = math.Pow(product, 1/float64(classes))
	}
	if w := m.NumberOfObjectsWithAssignedDecision; 0 < w {
		m.MAE = absErr / w
		m.RMSE = math.Sqrt(sqErr / w)
	}
}
