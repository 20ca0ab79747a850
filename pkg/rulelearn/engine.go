// Package rulelearn is the boundary to the rule-learning engine.
//
// Dominance-based rough set computations (unions of decision classes, their
// approximations, rule induction and rule-based classification) are done by
// the engine. This package declares what RuleStudio asks of it.
package rulelearn

import (
	"context"

	"github.com/rulestudio/rulestudio/pkg/infotable"
)

type Engine interface {
	// InduceRules calculates unions with single limiting decision in table
	// and induces rules from them.
	//
	// Covered objects of rules are indices of table.
	InduceRules(ctx context.Context, table *infotable.Table, params InductionParameters) (*RuleSet, error)

	// Classify classifies each object of target with rules.
	//
	// Args
	//
	// - training: the table rules were induced from. Default classification
	// results (majority, median) are derived from it.
	//
	// - target: objects to be classified.
	//
	// - orderOfDecisions: decisions from the worst to the best.
	//
	// Returns
	//
	// - []ClassificationResult: one per object of target, in the order.
	Classify(
		ctx context.Context,
		training *infotable.Table,
		target *infotable.Table,
		rules *RuleSet,
		params ClassificationParameters,
		orderOfDecisions []string,
	) ([]ClassificationResult, error)

	// CalculateUnions calculates unions with single limiting decision in
	// table and their approximations.
	CalculateUnions(ctx context.Context, table *infotable.Table, params UnionParameters) (*Unions, error)

	// CalculateCones calculates dominance cones of each object of table.
	CalculateCones(ctx context.Context, table *infotable.Table) (*Cones, error)

	// ParseRules reads a rule set document (RuleML) on the attributes.
	ParseRules(ctx context.Context, attributes []infotable.Attribute, document []byte) (*RuleSet, error)

	// Ping tells whether the engine is ready.
	Ping(ctx context.Context) error
}
