package classification_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/rulestudio/rulestudio/pkg/classification"
	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
	"github.com/rulestudio/rulestudio/pkg/infotable"
	"github.com/rulestudio/rulestudio/pkg/rulelearn"
	"github.com/rulestudio/rulestudio/pkg/rulelearn/mock"
)

const metadata = `[
	{"name": "id", "identifierType": "text"},
	{"name": "a", "type": "condition", "valueType": "integer", "preferenceType": "gain"},
	{"name": "class", "type": "decision", "valueType": "enumeration", "preferenceType": "gain", "domain": ["low", "high"]}
]`

const data = `o1,1,low
o2,2,high
o3,3,high
o4,1,?
`

var params = rulelearn.ClassificationParameters{
	TypeOfClassifier:            rulelearn.SimpleRuleClassifier,
	DefaultClassificationResult: rulelearn.MajorityDecisionClass,
}

func load(t *testing.T) *infotable.Table {
	t.Helper()
	table, err := infotable.Load([]byte(metadata), []byte(data), infotable.CSV(',', false))
	if err != nil {
		t.Fatal(err)
	}
	return table
}

func TestClassify(t *testing.T) {
	ctx := context.Background()

	t.Run("it classifies objects and measures the result", func(t *testing.T) {
		table := load(t)
		engine := mock.New().Oracle()
		rules, err := engine.InduceRules(ctx, table, rulelearn.InductionParameters{})
		if err != nil {
			t.Fatal(err)
		}

		c, err := classification.Classify(ctx, engine, table, table, rules, params, nil)
		if err != nil {
			t.Fatal(err)
		}

		if len(engine.Calls.Classify) != 1 {
			t.Fatalf("engine.Classify is called %d times", len(engine.Calls.Classify))
		}
		call := engine.Calls.Classify[0]
		if !reflect.DeepEqual(call.OrderOfDecisions, []string{"low", "high"}) {
			t.Errorf("order of decisions: %v", call.OrderOfDecisions)
		}
		if call.Params != params {
			t.Errorf("parameters: %+v", call.Params)
		}

		if len(c.Results) != 4 {
			t.Fatalf("number of results: %d", len(c.Results))
		}
		if c.Matrix.NumberOfObjects != 3 || c.Matrix.Accuracy != 1 {
			t.Errorf("unexpected matrix: %+v", c.Matrix)
		}
		expectedCovering := [][]int{{0}, {1}, {1}, {}}
		if !reflect.DeepEqual(c.IndicesOfCoveringRules(), expectedCovering) {
			t.Errorf("covering rules: actual = %v, expected = %v", c.IndicesOfCoveringRules(), expectedCovering)
		}
		if c.DataHash != table.Hash() {
			t.Errorf("data hash is not of the training table")
		}
		if c.ExternalData {
			t.Errorf("classification should not be marked as external")
		}
	})

	t.Run("given explicit order of decisions, it is passed to the engine", func(t *testing.T) {
		table := load(t)
		engine := mock.New().Oracle()
		rules := &rulelearn.RuleSet{Rules: []rulelearn.Rule{}}
		order := []string{"low", "mid", "high"}
		c, err := classification.Classify(ctx, engine, table, table.Select([]int{0}), rules, params, order)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(engine.Calls.Classify[0].OrderOfDecisions, order) {
			t.Errorf("order of decisions: %v", engine.Calls.Classify[0].OrderOfDecisions)
		}
		if len(c.Matrix.Decisions) != 3 {
			t.Errorf("matrix decisions: %v", c.Matrix.Decisions)
		}
	})

	t.Run("without rules, it should return empty response error", func(t *testing.T) {
		table := load(t)
		_, err := classification.Classify(ctx, mock.New(), table, table, nil, params, nil)
		if !errors.Is(err, kerr.ErrEmptyResponse) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("with invalid parameters, it should not call the engine", func(t *testing.T) {
		table := load(t)
		engine := mock.New()
		_, err := classification.Classify(
			ctx, engine, table, table, &rulelearn.RuleSet{},
			rulelearn.ClassificationParameters{TypeOfClassifier: "Whatever"}, nil,
		)
		if !errors.Is(err, kerr.ErrWrongParameter) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("when the engine fails, the error is passed through", func(t *testing.T) {
		table := load(t)
		engine := mock.New()
		engine.Impl.Classify = func(
			context.Context, *infotable.Table, *infotable.Table,
			*rulelearn.RuleSet, rulelearn.ClassificationParameters, []string,
		) ([]rulelearn.ClassificationResult, error) {
			return nil, kerr.ErrEngineUnavailable
		}
		_, err := classification.Classify(ctx, engine, table, table, &rulelearn.RuleSet{}, params, nil)
		if !errors.Is(err, kerr.ErrEngineUnavailable) {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestChosen(t *testing.T) {
	ctx := context.Background()
	table := load(t)
	engine := mock.New().Oracle()
	rules, err := engine.InduceRules(ctx, table, rulelearn.InductionParameters{})
	if err != nil {
		t.Fatal(err)
	}
	c, err := classification.Classify(ctx, engine, table, table, rules, params, nil)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("without attributes", func(t *testing.T) {
		chosen, err := c.Chosen(1, false)
		if err != nil {
			t.Fatal(err)
		}
		if chosen.Index != 1 || chosen.Result.SuggestedDecision != "high" || chosen.Values != nil {
			t.Errorf("unexpected: %+v", chosen)
		}
	})

	t.Run("with attributes", func(t *testing.T) {
		chosen, err := c.Chosen(2, true)
		if err != nil {
			t.Fatal(err)
		}
		expected := map[string]string{"id": "o3", "a": "3", "class": "high"}
		if !reflect.DeepEqual(chosen.Values, expected) {
			t.Errorf("values: actual = %v, expected = %v", chosen.Values, expected)
		}
	})

	for _, index := range []int{-1, 4} {
		_, err := c.Chosen(index, false)
		if !errors.Is(err, kerr.ErrWrongParameter) {
			t.Errorf("index %d: unexpected error: %v", index, err)
		}
	}
}
