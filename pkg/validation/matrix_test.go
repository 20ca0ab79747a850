package validation_test

import (
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"

	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
	"github.com/rulestudio/rulestudio/pkg/validation"
)

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !near(a[i], b[i]) {
			return false
		}
	}
	return true
}

func TestNew(t *testing.T) {
	type When struct {
		decisions []string
		original  []string
		suggested []string
	}
	type Then struct {
		values    [][]float64
		objects   float64
		correct   float64
		incorrect float64
		assigned  float64
		accuracy  float64
		tpr       []float64
		gmean     float64
		mae       float64
		rmse      float64
	}

	for name, testcase := range map[string]struct {
		when When
		then Then
	}{
		"when all objects are classified correctly, it should be diagonal": {
			when: When{
				decisions: []string{"bad", "medium", "good"},
				original:  []string{"bad", "good", "medium", "good"},
				suggested: []string{"bad", "good", "medium", "good"},
			},
			then: Then{
				values: [][]float64{
					{1, 0, 0, 0},
					{0, 1, 0, 0},
					{0, 0, 2, 0},
				},
				objects: 4, correct: 4, incorrect: 0, assigned: 4,
				accuracy: 1, tpr: []float64{1, 1, 1}, gmean: 1, mae: 0, rmse: 0,
			},
		},
		"when objects are misclassified, errors should be measured on ordinal positions": {
			when: When{
				decisions: []string{"bad", "medium", "good"},
				original:  []string{"bad", "bad", "good", "medium"},
				suggested: []string{"bad", "good", "medium", "medium"},
			},
			then: Then{
				values: [][]float64{
					{1, 0, 1, 0},
					{0, 1, 0, 0},
					{0, 1, 0, 0},
				},
				objects: 4, correct: 2, incorrect: 2, assigned: 4,
				accuracy: 0.5, tpr: []float64{0.5, 1, 0}, gmean: 0,
				mae:  (2.0 + 1.0) / 4,
				rmse: math.Sqrt((4.0 + 1.0) / 4),
			},
		},
		"when suggestions are unknown, they should be counted in the last column": {
			when: When{
				decisions: []string{"1", "2"},
				original:  []string{"1", "2", "2"},
				suggested: []string{"?", "2", "3"},
			},
			then: Then{
				values: [][]float64{
					{0, 0, 1},
					{0, 1, 1},
				},
				objects: 3, correct: 1, incorrect: 2, assigned: 1,
				accuracy: 1.0 / 3, tpr: []float64{0, 0.5}, gmean: 0, mae: 0, rmse: 0,
			},
		},
		"when original decisions are missing, they should be skipped": {
			when: When{
				decisions: []string{"1", "2"},
				original:  []string{"?", "2", "1"},
				suggested: []string{"1", "2", "1"},
			},
			then: Then{
				values: [][]float64{
					{1, 0, 0},
					{0, 1, 0},
				},
				objects: 2, correct: 2, incorrect: 0, assigned: 2,
				accuracy: 1, tpr: []float64{1, 1}, gmean: 1, mae: 0, rmse: 0,
			},
		},
		"when a decision has no objects, gmean should ignore it": {
			when: When{
				decisions: []string{"1", "2", "3"},
				original:  []string{"1", "1", "3"},
				suggested: []string{"1", "2", "3"},
			},
			then: Then{
				values: [][]float64{
					{1, 1, 0, 0},
					{0, 0, 0, 0},
					{0, 0, 1, 0},
				},
				objects: 3, correct: 2, incorrect: 1, assigned: 3,
				accuracy: 2.0 / 3, tpr: []float64{0.5, 0, 1}, gmean: math.Sqrt(0.5),
				mae: 1.0 / 3, rmse: math.Sqrt(1.0 / 3),
			},
		},
		"when there are no objects, metrics should be zero": {
			when: When{
				decisions: []string{"1", "2"},
				original:  []string{},
				suggested: []string{},
			},
			then: Then{
				values: [][]float64{{0, 0, 0}, {0, 0, 0}},
				tpr:    []float64{0, 0},
			},
		},
	} {
		t.Run(name, func(t *testing.T) {
			m, err := validation.New(testcase.when.decisions, testcase.when.original, testcase.when.suggested)
			if err != nil {
				t.Fatal(err)
			}
			then := testcase.then

			for i := range then.values {
				if !equalFloats(m.Values[i], then.values[i]) {
					t.Errorf("values[%d]: actual = %v, expected = %v", i, m.Values[i], then.values[i])
				}
			}
			for _, c := range []struct {
				name             string
				actual, expected float64
			}{
				{"number of objects", m.NumberOfObjects, then.objects},
				{"correct", m.NumberOfCorrectAssignments, then.correct},
				{"incorrect", m.NumberOfIncorrectAssignments, then.incorrect},
				{"assigned", m.NumberOfObjectsWithAssignedDecision, then.assigned},
				{"accuracy", m.Accuracy, then.accuracy},
				{"gmean", m.Gmean, then.gmean},
				{"MAE", m.MAE, then.mae},
				{"RMSE", m.RMSE, then.rmse},
			} {
				if !near(c.actual, c.expected) {
					t.Errorf("%s: actual = %v, expected = %v", c.name, c.actual, c.expected)
				}
			}
			if !equalFloats(m.TruePositiveRate, then.tpr) {
				t.Errorf("true positive rate: actual = %v, expected = %v", m.TruePositiveRate, then.tpr)
			}
			if m.Deviation != nil {
				t.Errorf("deviation should not be set: %+v", m.Deviation)
			}
		})
	}

	t.Run("when lengths are different, it should return wrong parameter error", func(t *testing.T) {
		_, err := validation.New([]string{"1"}, []string{"1", "1"}, []string{"1"})
		if !errors.Is(err, kerr.ErrWrongParameter) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestAggregation(t *testing.T) {
	decisions := []string{"1", "2"}
	fold1, err := validation.New(decisions, []string{"1", "2"}, []string{"1", "2"})
	if err != nil {
		t.Fatal(err)
	}
	fold2, err := validation.New(decisions, []string{"1", "2", "2", "2"}, []string{"2", "2", "?", "1"})
	if err != nil {
		t.Fatal(err)
	}

	t.Run("Sum should add values and measure them again", func(t *testing.T) {
		sum, err := validation.Sum(decisions, fold1, fold2)
		if err != nil {
			t.Fatal(err)
		}
		expected := [][]float64{
			{1, 1, 0},
			{1, 2, 1},
		}
		for i := range expected {
			if !equalFloats(sum.Values[i], expected[i]) {
				t.Errorf("values[%d]: actual = %v, expected = %v", i, sum.Values[i], expected[i])
			}
		}
		if !near(sum.NumberOfObjects, 6) {
			t.Errorf("number of objects: %v", sum.NumberOfObjects)
		}
		if !near(sum.Accuracy, 3.0/6) {
			t.Errorf("accuracy: %v", sum.Accuracy)
		}
		if !equalFloats(sum.TruePositiveRate, []float64{0.5, 0.5}) {
			t.Errorf("true positive rate: %v", sum.TruePositiveRate)
		}
		if sum.Deviation != nil {
			t.Errorf("deviation should not be set")
		}
	})

	t.Run("Mean should average values and metrics with deviations", func(t *testing.T) {
		mean, err := validation.Mean(decisions, fold1, fold2)
		if err != nil {
			t.Fatal(err)
		}
		expected := [][]float64{
			{0.5, 0.5, 0},
			{0.5, 1, 0.5},
		}
		for i := range expected {
			if !equalFloats(mean.Values[i], expected[i]) {
				t.Errorf("values[%d]: actual = %v, expected = %v", i, mean.Values[i], expected[i])
			}
		}
		// fold1: accuracy 1, fold2: accuracy 1/4
		if !near(mean.Accuracy, (1+0.25)/2) {
			t.Errorf("accuracy: %v", mean.Accuracy)
		}
		if mean.Deviation == nil {
			t.Fatal("deviation should be set")
		}
		if !near(mean.Deviation.Accuracy, 0.375) {
			t.Errorf("deviation of accuracy: %v", mean.Deviation.Accuracy)
		}
		// tpr: fold1 {1, 1}, fold2 {0, 1/3}
		if !equalFloats(mean.TruePositiveRate, []float64{0.5, 2.0 / 3}) {
			t.Errorf("true positive rate: %v", mean.TruePositiveRate)
		}
		if !equalFloats(mean.Deviation.TruePositiveRate, []float64{0.5, 1.0 / 3}) {
			t.Errorf("deviation of true positive rate: %v", mean.Deviation.TruePositiveRate)
		}
		if !near(mean.NumberOfObjects, 3) {
			t.Errorf("number of objects: %v", mean.NumberOfObjects)
		}
	})

	t.Run("aggregation without folds should be rejected", func(t *testing.T) {
		if _, err := validation.Mean(decisions); !errors.Is(err, kerr.ErrWrongParameter) {
			t.Errorf("Mean: unexpected error: %v", err)
		}
		if _, err := validation.Sum(decisions); !errors.Is(err, kerr.ErrWrongParameter) {
			t.Errorf("Sum: unexpected error: %v", err)
		}
	})

	t.Run("aggregation over different decisions should be rejected", func(t *testing.T) {
		other, err := validation.New([]string{"2", "1"}, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := validation.Sum(decisions, fold1, other); !errors.Is(err, kerr.ErrWrongParameter) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestWriteText(t *testing.T) {
	decisions := []string{"low", "high"}
	fold, err := validation.New(decisions, []string{"low", "high"}, []string{"low", "low"})
	if err != nil {
		t.Fatal(err)
	}
	mean, err := validation.Mean(decisions, fold, fold)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("plain matrix", func(t *testing.T) {
		buf := new(bytes.Buffer)
		if err := fold.WriteText(buf, "classification"); err != nil {
			t.Fatal(err)
		}
		lines := strings.Split(buf.String(), "\n")
		expectedHead := []string{
			"classification",
			"original \\ suggested\tlow\thigh\tunknown",
			"low\t1\t0\t0",
			"high\t1\t0\t0",
			"",
		}
		for i, l := range expectedHead {
			if lines[i] != l {
				t.Errorf("line %d: actual = %q, expected = %q", i, lines[i], l)
			}
		}
		if !strings.Contains(buf.String(), "accuracy\t0.5\n") {
			t.Errorf("accuracy is not written:\n%s", buf.String())
		}
		if strings.Contains(buf.String(), "+/-") {
			t.Errorf("deviation is written for a plain matrix:\n%s", buf.String())
		}
	})

	t.Run("mean matrix should carry deviations", func(t *testing.T) {
		buf := new(bytes.Buffer)
		if err := mean.WriteText(buf, ""); err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(buf.String(), "original \\ suggested") {
			t.Errorf("untitled text should start with the header:\n%s", buf.String())
		}
		if !strings.Contains(buf.String(), "accuracy\t0.5\t+/- 0\n") {
			t.Errorf("deviation is not written:\n%s", buf.String())
		}
	})
}
