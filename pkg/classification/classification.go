// Package classification classifies objects of an information table with
// rules, and measures the result against the decisions of the objects.
package classification

import (
	"context"

	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
	xe "github.com/rulestudio/rulestudio/pkg/errors"
	"github.com/rulestudio/rulestudio/pkg/infotable"
	"github.com/rulestudio/rulestudio/pkg/rulelearn"
	"github.com/rulestudio/rulestudio/pkg/validation"
)

type Classification struct {
	Parameters rulelearn.ClassificationParameters

	// Results are classification results, one per object of Table.
	Results []rulelearn.ClassificationResult

	// Table is the classified objects.
	Table *infotable.Table

	// OrderOfDecisions is the decisions, from the worst to the best.
	OrderOfDecisions []string

	Matrix *validation.Matrix

	// ExternalData is true when Table is not the data of the project.
	ExternalData bool

	// ExternalDataFileName is the name of the file Table is read from.
	// It is empty unless ExternalData.
	ExternalDataFileName string

	// DataHash is the hash of the data of the project at classification.
	DataHash string
}

// Classify classifies objects in target with rules induced from training.
//
// When orderOfDecisions is nil, decisions of training are used.
func Classify(
	ctx context.Context,
	engine rulelearn.Engine,
	training *infotable.Table,
	target *infotable.Table,
	rules *rulelearn.RuleSet,
	params rulelearn.ClassificationParameters,
	orderOfDecisions []string,
) (*Classification, error) {
	if rules == nil {
		return nil, kerr.EmptyResponse("Rules haven't been calculated.")
	}
	if training == nil || target == nil {
		return nil, kerr.NoData("There is no data in project. Couldn't classify objects.")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if orderOfDecisions == nil {
		orderOfDecisions = training.OrderedDecisions()
	}

	results, err := engine.Classify(ctx, training, target, rules, params, orderOfDecisions)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	suggested := make([]string, len(results))
	for i, r := range results {
		suggested[i] = r.SuggestedDecision
	}
	matrix, err := validation.New(orderOfDecisions, target.Decisions(), suggested)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	return &Classification{
		Parameters:       params,
		Results:          results,
		Table:            target,
		OrderOfDecisions: append([]string{}, orderOfDecisions...),
		Matrix:           matrix,
		DataHash:         training.Hash(),
	}, nil
}

// IsCurrentData tells whether the classification was made with table as
// training data.
func (c *Classification) IsCurrentData(table *infotable.Table) bool {
	return table != nil && c.DataHash == table.Hash()
}

// IndicesOfCoveringRules returns covering rules of each object.
func (c *Classification) IndicesOfCoveringRules() [][]int {
	indices := make([][]int, len(c.Results))
	for i, r := range c.Results {
		indices[i] = r.IndicesOfCoveringRules
		if indices[i] == nil {
			indices[i] = []int{}
		}
	}
	return indices
}

// ChosenObject is a classified object picked by index.
type ChosenObject struct {
	Index  int
	Result rulelearn.ClassificationResult

	// Values of the object keyed by attribute name.
	// It is nil unless attributes are requested.
	Values map[string]string
}

// Chosen picks the objectIndex-th classified object.
func (c *Classification) Chosen(objectIndex int, withAttributes bool) (ChosenObject, error) {
	if objectIndex < 0 || len(c.Results) <= objectIndex {
		return ChosenObject{}, kerr.WrongParameter(
			"Given object's index \"%d\" is incorrect. You can choose object from %d to %d",
			objectIndex, 0, len(c.Results)-1,
		)
	}
	chosen := ChosenObject{Index: objectIndex, Result: c.Results[objectIndex]}
	if withAttributes {
		chosen.Values = c.Table.Object(objectIndex)
	}
	return chosen, nil
}
