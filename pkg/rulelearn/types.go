package rulelearn

import (
	"fmt"
	"math"

	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
)

// Type of unions of decision classes the rules are induced from.
type UnionType string

const (
	MonotonicUnions UnionType = "monotonic"
	StandardUnions  UnionType = "standard"
)

func ParseUnionType(s string) (UnionType, error) {
	switch t := UnionType(s); t {
	case MonotonicUnions, StandardUnions:
		return t, nil
	}
	return "", kerr.WrongParameter(`typeOfUnions should be one of monotonic, standard (got "%s")`, s)
}

type RuleType string

const (
	CertainRules  RuleType = "certain"
	PossibleRules RuleType = "possible"
)

func ParseRuleType(s string) (RuleType, error) {
	switch t := RuleType(s); t {
	case CertainRules, PossibleRules:
		return t, nil
	}
	return "", kerr.WrongParameter(`typeOfRules should be one of certain, possible (got "%s")`, s)
}

type ClassifierType string

const (
	SimpleRuleClassifier                   ClassifierType = "SimpleRuleClassifier"
	SimpleOptimizingCountingRuleClassifier ClassifierType = "SimpleOptimizingCountingRuleClassifier"
	ScoringRuleClassifierScore             ClassifierType = "ScoringRuleClassifierScore"
	ScoringRuleClassifierHybrid            ClassifierType = "ScoringRuleClassifierHybrid"
)

func ParseClassifierType(s string) (ClassifierType, error) {
	switch t := ClassifierType(s); t {
	case SimpleRuleClassifier, SimpleOptimizingCountingRuleClassifier,
		ScoringRuleClassifierScore, ScoringRuleClassifierHybrid:
		return t, nil
	}
	return "", kerr.WrongParameter(`typeOfClassifier "%s" is unknown`, s)
}

type DefaultClassificationResultType string

const (
	MajorityDecisionClass DefaultClassificationResultType = "majorityDecisionClass"
	MedianDecisionClass   DefaultClassificationResultType = "medianDecisionClass"
)

func ParseDefaultClassificationResultType(s string) (DefaultClassificationResultType, error) {
	switch t := DefaultClassificationResultType(s); t {
	case MajorityDecisionClass, MedianDecisionClass:
		return t, nil
	}
	return "", kerr.WrongParameter(
		`defaultClassificationResult should be one of majorityDecisionClass, medianDecisionClass (got "%s")`, s,
	)
}

type InductionParameters struct {
	TypeOfUnions         UnionType `json:"typeOfUnions"`
	ConsistencyThreshold float64   `json:"consistencyThreshold"`
	TypeOfRules          RuleType  `json:"typeOfRules"`
}

// Validate checks the parameters before they reach the engine.
func (p InductionParameters) Validate() error {
	if _, err := ParseUnionType(string(p.TypeOfUnions)); err != nil {
		return err
	}
	if _, err := ParseRuleType(string(p.TypeOfRules)); err != nil {
		return err
	}
	return validateThreshold(p.ConsistencyThreshold)
}

func validateThreshold(threshold float64) error {
	if math.IsNaN(threshold) || threshold < 0 || 1 < threshold {
		return kerr.WrongParameter("consistencyThreshold should be in [0, 1] (got %v)", threshold)
	}
	return nil
}

type ClassificationParameters struct {
	TypeOfClassifier            ClassifierType                  `json:"typeOfClassifier"`
	DefaultClassificationResult DefaultClassificationResultType `json:"defaultClassificationResult"`
}

func (p ClassificationParameters) Validate() error {
	if _, err := ParseClassifierType(string(p.TypeOfClassifier)); err != nil {
		return err
	}
	if _, err := ParseDefaultClassificationResultType(string(p.DefaultClassificationResult)); err != nil {
		return err
	}
	return nil
}

// Condition is an elementary condition, like `price <= 3`.
type Condition struct {
	Attribute string `json:"attribute"`
	Relation  string `json:"relation"`
	Value     string `json:"value"`
}

type Rule struct {
	// human readable form, like "(price <= 3) & (quality >= 2) => (class >= good)"
	Text string `json:"text"`

	// certain or possible
	Type string `json:"type"`

	// atLeast, atMost or equal
	Semantics string `json:"semantics"`

	Conditions []Condition `json:"conditions"`
	Decision   []Condition `json:"decision"`

	// support, strength, confidence, coverage factor, ... keyed by name.
	Characteristics map[string]float64 `json:"characteristics,omitempty"`

	// indices of objects covered by the rule, in the table the rule set is induced from.
	IndicesOfCoveredObjects []int `json:"indicesOfCoveredObjects"`
}

type RuleSet struct {
	Rules []Rule `json:"rules"`
}

func (rs *RuleSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rules)
}

// Clone returns a deep copy of the rule set.
func (rs *RuleSet) Clone() *RuleSet {
	if rs == nil {
		return nil
	}
	out := &RuleSet{Rules: make([]Rule, len(rs.Rules))}
	for i, r := range rs.Rules {
		c := r
		c.Conditions = append([]Condition(nil), r.Conditions...)
		c.Decision = append([]Condition(nil), r.Decision...)
		if r.Characteristics != nil {
			c.Characteristics = make(map[string]float64, len(r.Characteristics))
			for k, v := range r.Characteristics {
				c.Characteristics[k] = v
			}
		}
		c.IndicesOfCoveredObjects = append([]int(nil), r.IndicesOfCoveredObjects...)
		out.Rules[i] = c
	}
	return out
}

// RemapCoveredObjects rewrites covered object indices through `to`:
// index i becomes to[i].
//
// It is used to move indices from a sub-table to the table it is selected from.
// An index out of `to` is a fault of the engine.
func (rs *RuleSet) RemapCoveredObjects(to []int) error {
	if rs == nil {
		return nil
	}
	for r := range rs.Rules {
		covered := rs.Rules[r].IndicesOfCoveredObjects
		for n, old := range covered {
			if old < 0 || len(to) <= old {
				return fmt.Errorf(
					"engine returned rule %d covering object %d, but there are %d objects", r, old, len(to),
				)
			}
			covered[n] = to[old]
		}
	}
	return nil
}

type ClassificationResult struct {
	// suggested decision, or "?" when nothing is suggested.
	SuggestedDecision string `json:"suggestedDecision"`

	Certainty float64 `json:"certainty"`

	// indices of rules in the rule set which cover the object.
	IndicesOfCoveringRules []int `json:"indicesOfCoveringRules"`
}
