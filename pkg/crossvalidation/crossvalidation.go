// Package crossvalidation runs stratified k-fold cross-validation of rule
// induction and classification over an information table.
package crossvalidation

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/labstack/gommon/log"
	"github.com/rulestudio/rulestudio/pkg/classification"
	kerr "github.com/rulestudio/rulestudio/pkg/domain/errors"
	xe "github.com/rulestudio/rulestudio/pkg/errors"
	"github.com/rulestudio/rulestudio/pkg/infotable"
	"github.com/rulestudio/rulestudio/pkg/rulelearn"
	"github.com/rulestudio/rulestudio/pkg/sampling"
	"github.com/rulestudio/rulestudio/pkg/validation"
	"golang.org/x/sync/errgroup"
)

type Parameters struct {
	Induction      rulelearn.InductionParameters
	Classification rulelearn.ClassificationParameters
	NumberOfFolds  int
	Seed           int64
}

type Fold struct {
	// indices of objects in the cross-validated table.
	IndicesOfTrainingObjects   []int
	IndicesOfValidationObjects []int

	// RuleSet is rules induced from training objects.
	// Covered objects are indices of the cross-validated table.
	RuleSet *rulelearn.RuleSet

	// Classification is the classification of validation objects.
	Classification *classification.Classification
}

type CrossValidation struct {
	Parameters Parameters

	// Table is the cross-validated table.
	Table *infotable.Table

	Folds []Fold

	// OrderOfDecisions is decisions of Table, from the worst to the best.
	OrderOfDecisions []string

	// Mean and Sum are misclassification matrices aggregated over folds.
	Mean *validation.Matrix
	Sum  *validation.Matrix

	DataHash string

	DescriptiveAttributes *DescriptiveAttributes
}

// IsCurrentData tells whether the cross-validation was calculated on table.
func (cv *CrossValidation) IsCurrentData(table *infotable.Table) bool {
	return table != nil && cv.DataHash == table.Hash()
}

// Fold returns the foldIndex-th fold.
func (cv *CrossValidation) Fold(foldIndex int) (*Fold, error) {
	if foldIndex < 0 || len(cv.Folds) <= foldIndex {
		return nil, kerr.WrongParameter(
			"Given fold's index \"%d\" is incorrect. You can choose fold from %d to %d",
			foldIndex, 0, len(cv.Folds)-1,
		)
	}
	return &cv.Folds[foldIndex], nil
}

// ChosenObject picks a classified object from validation objects of a fold.
//
// objectIndex is the index in the validation objects of the fold.
func (cv *CrossValidation) ChosenObject(foldIndex int, objectIndex int, withAttributes bool) (classification.ChosenObject, error) {
	fold, err := cv.Fold(foldIndex)
	if err != nil {
		return classification.ChosenObject{}, err
	}
	return fold.Classification.Chosen(objectIndex, withAttributes)
}

// ObjectNames names objects of the cross-validated table by the current
// descriptive attribute.
//
// Objects without the value are named "Object N" (N starts from 1).
func (cv *CrossValidation) ObjectNames() []string {
	names := make([]string, cv.Table.NumberOfObjects())
	col := -1
	if name, ok := cv.DescriptiveAttributes.Current(); ok {
		if j, found := cv.Table.AttributeIndex(name); found {
			col = j
		}
	}
	for i := range names {
		if 0 <= col {
			if v := cv.Table.Value(i, col); v != infotable.MissingValue {
				names[i] = v
				continue
			}
		}
		names[i] = fmt.Sprintf("Object %d", i+1)
	}
	return names
}

type Calculator struct {
	engine      rulelearn.Engine
	parallelism int
	logger      *log.Logger
	metrics     *Metrics
}

type Option func(*Calculator)

// WithParallelism limits the number of folds calculated at once.
//
// n <= 0 means no limit.
func WithParallelism(n int) Option {
	return func(c *Calculator) {
		c.parallelism = n
	}
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Calculator) {
		c.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(c *Calculator) {
		c.metrics = m
	}
}

func New(engine rulelearn.Engine, options ...Option) *Calculator {
	c := &Calculator{engine: engine, parallelism: 1}
	for _, opt := range options {
		opt(c)
	}
	if c.logger == nil {
		c.logger = log.New("crossvalidation")
		c.logger.SetOutput(io.Discard)
	}
	return c
}

// Calculate cross-validates table.
//
// Folds are calculated concurrently. When one fold fails, the others are
// cancelled and the error is returned.
func (c *Calculator) Calculate(ctx context.Context, table *infotable.Table, params Parameters) (*CrossValidation, error) {
	if table == nil {
		return nil, kerr.NoData("There is no data in project. Couldn't calculate cross-validation.")
	}
	n := table.NumberOfObjects()
	if n == 0 {
		return nil, kerr.NoData("There are no objects in project. Couldn't calculate cross-validation.")
	}
	if params.NumberOfFolds < 2 {
		return nil, kerr.WrongParameter(
			"There must be at least 2 folds, %d is not enough. Couldn't calculate cross-validation.",
			params.NumberOfFolds,
		)
	}
	if n < params.NumberOfFolds {
		return nil, kerr.WrongParameter(
			"Number of folds shouldn't be greater than number of objects. %d folds is more than %d objects. Couldn't calculate cross-validation.",
			params.NumberOfFolds, n,
		)
	}
	if _, ok := table.DecisionAttribute(); !ok {
		return nil, kerr.WrongParameter(
			"There is no active decision attribute in project. Couldn't calculate cross-validation.",
		)
	}
	if err := params.Induction.Validate(); err != nil {
		return nil, err
	}
	if err := params.Classification.Validate(); err != nil {
		return nil, err
	}

	splits, err := sampling.StratifiedKFold(table.Decisions(), params.NumberOfFolds, params.Seed)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	order := table.OrderedDecisions()

	begin := time.Now()
	folds := make([]Fold, len(splits))
	eg, ectx := errgroup.WithContext(ctx)
	if 0 < c.parallelism {
		eg.SetLimit(c.parallelism)
	}
	for i := range splits {
		i := i
		eg.Go(func() error {
			c.logger.Infof("Creating fold: %d/%d", i+1, len(splits))
			f, err := c.fold(ectx, table, splits[i], params, order)
			c.metrics.observeFold(err)
			if err != nil {
				return err
			}
			folds[i] = *f
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	matrices := make([]*validation.Matrix, len(folds))
	for i := range folds {
		matrices[i] = folds[i].Classification.Matrix
	}
	mean, err := validation.Mean(order, matrices...)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	sum, err := validation.Sum(order, matrices...)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	c.metrics.observeCalculation(time.Since(begin))

	return &CrossValidation{
		Parameters:            params,
		Table:                 table,
		Folds:                 folds,
		OrderOfDecisions:      order,
		Mean:                  mean,
		Sum:                   sum,
		DataHash:              table.Hash(),
		DescriptiveAttributes: NewDescriptiveAttributes(table),
	}, nil
}

func (c *Calculator) fold(
	ctx context.Context,
	table *infotable.Table,
	split sampling.Fold,
	params Parameters,
	order []string,
) (*Fold, error) {
	// folds queued behind a failed one should not reach the engine.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	training := table.Select(split.Training)
	validating := table.Select(split.Validation)

	rules, err := c.engine.InduceRules(ctx, training, params.Induction)
	if err != nil {
		return nil, xe.Wrap(err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	classified, err := classification.Classify(
		ctx, c.engine, training, validating, rules, params.Classification, order,
	)
	if err != nil {
		return nil, xe.Wrap(err)
	}

	global := rules.Clone()
	if err := global.RemapCoveredObjects(split.Training); err != nil {
		return nil, xe.Wrap(err)
	}

	return &Fold{
		IndicesOfTrainingObjects:   split.Training,
		IndicesOfValidationObjects: split.Validation,
		RuleSet:                    global,
		Classification:             classified,
	}, nil
}
