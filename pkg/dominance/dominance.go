// Package dominance holds unions of decision classes and dominance cones of a
// project, as calculated by the engine.
package dominance

import (
	"context"

	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
	xe "github.com/rulestudio/rulestudio/pkg/errors"
	"github.com/rulestudio/rulestudio/pkg/infotable"
	"github.com/rulestudio/rulestudio/pkg/rulelearn"
)

type Unions struct {
	*rulelearn.Unions

	Parameters rulelearn.UnionParameters

	// DataHash is the hash of the table unions are calculated on.
	DataHash string
}

func (u *Unions) IsCurrentData(table *infotable.Table) bool {
	return table != nil && u.DataHash == table.Hash()
}

// CalculateUnions calculates unions with single limiting decision in table.
func CalculateUnions(
	ctx context.Context,
	engine rulelearn.Engine,
	table *infotable.Table,
	params rulelearn.UnionParameters,
) (*Unions, error) {
	if err := requireObjects(table, "unions"); err != nil {
		return nil, err
	}
	if _, ok := table.DecisionAttribute(); !ok {
		return nil, kerr.WrongParameter(
			"There is no active decision attribute in project. Couldn't calculate unions.",
		)
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}

	u, err := engine.CalculateUnions(ctx, table, params)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return &Unions{Unions: u, Parameters: params, DataHash: table.Hash()}, nil
}

type Cones struct {
	*rulelearn.Cones

	// DataHash is the hash of the table cones are calculated on.
	DataHash string
}

func (c *Cones) IsCurrentData(table *infotable.Table) bool {
	return table != nil && c.DataHash == table.Hash()
}

// CalculateCones calculates dominance cones of objects in table.
func CalculateCones(ctx context.Context, engine rulelearn.Engine, table *infotable.Table) (*Cones, error) {
	if err := requireObjects(table, "dominance cones"); err != nil {
		return nil, err
	}
	c, err := engine.CalculateCones(ctx, table)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	return &Cones{Cones: c, DataHash: table.Hash()}, nil
}

func requireObjects(table *infotable.Table, what string) error {
	if table == nil {
		return kerr.NoData("There is no data in project. Couldn't calculate %s.", what)
	}
	if table.NumberOfObjects() == 0 {
		return kerr.NoData("There are no objects in project. Couldn't calculate %s.", what)
	}
	return nil
}
