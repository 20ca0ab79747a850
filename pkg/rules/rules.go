// Package rules holds decision rules of a project, induced by the engine or
// uploaded by users.
package rules

import (
	"context"

	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
	xe "github.com/rulestudio/rulestudio/pkg/errors"
	"github.com/rulestudio/rulestudio/pkg/infotable"
	"github.com/rulestudio/rulestudio/pkg/rulelearn"
)

type Rules struct {
	RuleSet *rulelearn.RuleSet

	// Parameters of induction. It is nil for external rules.
	Parameters *rulelearn.InductionParameters

	// External is true when rules are uploaded, not induced.
	External bool

	// DataHash is the hash of the table rules are induced from (or uploaded on).
	DataHash string
}

// IsCurrentData tells whether rules were made on table.
func (r *Rules) IsCurrentData(table *infotable.Table) bool {
	return table != nil && r.DataHash == table.Hash()
}

// Induce induces rules from table.
func Induce(
	ctx context.Context,
	engine rulelearn.Engine,
	table *infotable.Table,
	params rulelearn.InductionParameters,
) (*Rules, error) {
	if table == nil {
		return nil, kerr.NoData("There is no data in project. Couldn't calculate rules.")
	}
	if table.NumberOfObjects() == 0 {
		return nil, kerr.NoData("There are no objects in project. Couldn't calculate rules.")
	}
	if _, ok := table.DecisionAttribute(); !ok {
		return nil, kerr.WrongParameter(
			"There is no active decision attribute in project. Couldn't calculate rules.",
		)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	rs, err := engine.InduceRules(ctx, table, params)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return &Rules{
		RuleSet:    rs,
		Parameters: &params,
		DataHash:   table.Hash(),
	}, nil
}

// Upload reads a rule set document written on attributes of table.
func Upload(
	ctx context.Context,
	engine rulelearn.Engine,
	table *infotable.Table,
	document []byte,
) (*Rules, error) {
	if table == nil {
		return nil, kerr.NoData("There is no metadata in project. Couldn't read rules.")
	}
	if len(document) == 0 {
		return nil, kerr.InvalidFormat("rules file is empty")
	}
	rs, err := engine.ParseRules(ctx, table.Attributes(), document)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return &Rules{RuleSet: rs, External: true, DataHash: table.Hash()}, nil
}
