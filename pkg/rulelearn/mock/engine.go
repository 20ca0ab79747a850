package mock

import (
	"context"
	"errors"
	"sync"

	"github.com/rulestudio/rulestudio/pkg/infotable"
	"github.com/rulestudio/rulestudio/pkg/rulelearn"
)

type CallLog[T any] []T

// Engine is a mock of rulelearn.Engine.
//
// Set functions to Impl to use. Calling a method without Impl causes panic.
// Calls are recorded in Calls. It is safe for concurrent use.
type Engine struct {
	Impl struct {
		InduceRules func(ctx context.Context, table *infotable.Table, params rulelearn.InductionParameters) (*rulelearn.RuleSet, error)
		Classify    func(
			ctx context.Context,
			training *infotable.Table, target *infotable.Table,
			rules *rulelearn.RuleSet, params rulelearn.ClassificationParameters,
			orderOfDecisions []string,
		) ([]rulelearn.ClassificationResult, error)
		CalculateUnions func(ctx context.Context, table *infotable.Table, params rulelearn.UnionParameters) (*rulelearn.Unions, error)
		CalculateCones  func(ctx context.Context, table *infotable.Table) (*rulelearn.Cones, error)
		ParseRules      func(ctx context.Context, attributes []infotable.Attribute, document []byte) (*rulelearn.RuleSet, error)
		Ping            func(ctx context.Context) error
	}

	Calls struct {
		InduceRules CallLog[struct {
			Table  *infotable.Table
			Params rulelearn.InductionParameters
		}]
		Classify CallLog[struct {
			Training         *infotable.Table
			Target           *infotable.Table
			Rules            *rulelearn.RuleSet
			Params           rulelearn.ClassificationParameters
			OrderOfDecisions []string
		}]
		CalculateUnions CallLog[struct {
			Table  *infotable.Table
			Params rulelearn.UnionParameters
		}]
		CalculateCones CallLog[*infotable.Table]
		ParseRules     CallLog[struct {
			Attributes []infotable.Attribute
			Document   []byte
		}]
		Ping int
	}

	mu sync.Mutex
}

var _ rulelearn.Engine = &Engine{}

func New() *Engine {
	return &Engine{}
}

func (m *Engine) InduceRules(ctx context.Context, table *infotable.Table, params rulelearn.InductionParameters) (*rulelearn.RuleSet, error) {
	m.mu.Lock()
	m.Calls.InduceRules = append(m.Calls.InduceRules, struct {
		Table  *infotable.Table
		Params rulelearn.InductionParameters
	}{Table: table, Params: params})
	m.mu.Unlock()

	if m.Impl.InduceRules != nil {
		return m.Impl.InduceRules(ctx, table, params)
	}
	panic(errors.New("it should not be called"))
}

func (m *Engine) Classify(
	ctx context.Context,
	training *infotable.Table, target *infotable.Table,
	rules *rulelearn.RuleSet, params rulelearn.ClassificationParameters,
	orderOfDecisions []string,
) ([]rulelearn.ClassificationResult, error) {
	m.mu.Lock()
	m.Calls.Classify = append(m.Calls.Classify, struct {
		Training         *infotable.Table
		Target           *infotable.Table
		Rules            *rulelearn.RuleSet
		Params           rulelearn.ClassificationParameters
		OrderOfDecisions []string
	}{
		Training: training, Target: target, Rules: rules,
		Params: params, OrderOfDecisions: orderOfDecisions,
	})
	m.mu.Unlock()

	if m.Impl.Classify != nil {
		return m.Impl.Classify(ctx, training, target, rules, params, orderOfDecisions)
	}
	panic(errors.New("it should not be called"))
}

func (m *Engine) CalculateUnions(ctx context.Context, table *infotable.Table, params rulelearn.UnionParameters) (*rulelearn.Unions, error) {
	m.mu.Lock()
	m.Calls.CalculateUnions = append(m.Calls.CalculateUnions, struct {
		Table  *infotable.Table
		Params rulelearn.UnionParameters
	}{Table: table, Params: params})
	m.mu.Unlock()

	if m.Impl.CalculateUnions != nil {
		return m.Impl.CalculateUnions(ctx, table, params)
	}
	panic(errors.New("it should not be called"))
}

func (m *Engine) CalculateCones(ctx context.Context, table *infotable.Table) (*rulelearn.Cones, error) {
	m.mu.Lock()
	m.Calls.CalculateCones = append(m.Calls.CalculateCones, table)
	m.mu.Unlock()

	if m.Impl.CalculateCones != nil {
		return m.Impl.CalculateCones(ctx, table)
	}
	panic(errors.New("it should not be called"))
}

func (m *Engine) ParseRules(ctx context.Context, attributes []infotable.Attribute, document []byte) (*rulelearn.RuleSet, error) {
	m.mu.Lock()
	m.Calls.ParseRules = append(m.Calls.ParseRules, struct {
		Attributes []infotable.Attribute
		Document   []byte
	}{Attributes: attributes, Document: document})
	m.mu.Unlock()

	if m.Impl.ParseRules != nil {
		return m.Impl.ParseRules(ctx, attributes, document)
	}
	panic(errors.New("it should not be called"))
}

func (m *Engine) Ping(ctx context.Context) error {
	m.mu.Lock()
	m.Calls.Ping++
	m.mu.Unlock()

	if m.Impl.Ping != nil {
		return m.Impl.Ping(ctx)
	}
	panic(errors.New("it should not be called"))
}

// Oracle configures the engine to behave predictably for tests:
//
// - InduceRules returns one rule per distinct decision of the table,
// "=> (decision = d)", covering objects having the decision.
//
// - Classify suggests the decision of each target object ("perfect
// classifier"), and covering rules are rules with the same decision.
//
// - CalculateUnions makes unions of the ordered decisions of the table, all
// of them consistent: approximations are the unions themselves.
//
// - CalculateCones makes every cone of an object contain the object only.
//
// It returns the engine itself.
func (m *Engine) Oracle() *Engine {
	m.Impl.InduceRules = func(_ context.Context, table *infotable.Table, _ rulelearn.InductionParameters) (*rulelearn.RuleSet, error) {
		rs := &rulelearn.RuleSet{Rules: []rulelearn.Rule{}}
		for _, d := range table.OrderedDecisions() {
			r := rulelearn.Rule{
				Text:      "=> (decision = " + d + ")",
				Type:      string(rulelearn.CertainRules),
				Semantics: "equal",
				Decision:  []rulelearn.Condition{{Attribute: "decision", Relation: "=", Value: d}},
			}
			for i := 0; i < table.NumberOfObjects(); i++ {
				if table.Decision(i) == d {
					r.IndicesOfCoveredObjects = append(r.IndicesOfCoveredObjects, i)
				}
			}
			rs.Rules = append(rs.Rules, r)
		}
		return rs, nil
	}
	m.Impl.Classify = func(
		_ context.Context, _ *infotable.Table, target *infotable.Table,
		rules *rulelearn.RuleSet, _ rulelearn.ClassificationParameters, _ []string,
	) ([]rulelearn.ClassificationResult, error) {
		results := make([]rulelearn.ClassificationResult, target.NumberOfObjects())
		for i := range results {
			d := target.Decision(i)
			covering := []int{}
			for n, r := range rules.Rules {
				if len(r.Decision) != 0 && r.Decision[0].Value == d {
					covering = append(covering, n)
				}
			}
			results[i] = rulelearn.ClassificationResult{
				SuggestedDecision: d, Certainty: 1, IndicesOfCoveringRules: covering,
			}
		}
		return results, nil
	}
	m.Impl.CalculateUnions = func(_ context.Context, table *infotable.Table, _ rulelearn.UnionParameters) (*rulelearn.Unions, error) {
		decisions := table.OrderedDecisions()
		rank := map[string]int{}
		for i, d := range decisions {
			rank[d] = i
		}
		union := func(kind rulelearn.UnionKind, limit int) rulelearn.Union {
			objects := []int{}
			for i := 0; i < table.NumberOfObjects(); i++ {
				r, ok := rank[table.Decision(i)]
				if !ok {
					continue
				}
				if (kind == rulelearn.AtLeast && limit <= r) || (kind == rulelearn.AtMost && r <= limit) {
					objects = append(objects, i)
				}
			}
			return rulelearn.Union{
				UnionType:               kind,
				LimitingDecision:        decisions[limit],
				AccuracyOfApproximation: 1,
				QualityOfApproximation:  1,
				Objects:                 objects,
				LowerApproximation:      objects,
				UpperApproximation:      objects,
				Boundary:                []int{},
				PositiveRegion:          objects,
				NegativeRegion:          []int{},
				BoundaryRegion:          []int{},
			}
		}

		unions := &rulelearn.Unions{
			DownwardUnions:         []rulelearn.Union{},
			UpwardUnions:           []rulelearn.Union{},
			QualityOfApproximation: 1,
		}
		for limit := 0; limit+1 < len(decisions); limit++ {
			unions.DownwardUnions = append(unions.DownwardUnions, union(rulelearn.AtMost, limit))
		}
		for limit := len(decisions) - 1; 0 < limit; limit-- {
			unions.UpwardUnions = append(unions.UpwardUnions, union(rulelearn.AtLeast, limit))
		}
		return unions, nil
	}
	m.Impl.CalculateCones = func(_ context.Context, table *infotable.Table) (*rulelearn.Cones, error) {
		n := table.NumberOfObjects()
		itself := func() [][]int {
			cones := make([][]int, n)
			for i := range cones {
				cones[i] = []int{i}
			}
			return cones
		}
		return &rulelearn.Cones{
			NumberOfObjects:   n,
			PositiveDCones:    itself(),
			NegativeDCones:    itself(),
			PositiveInvDCones: itself(),
			NegativeInvDCones: itself(),
		}, nil
	}
	return m
}
