package crossvalidation

import (
	apimatrix "github.com/rulestudio/rulestudio/pkg/api/types/matrix"
	"github.com/rulestudio/rulestudio/pkg/crossvalidation"
	"github.com/rulestudio/rulestudio/pkg/rulelearn"
)

// Main is the summary of a cross-validation.
type Main struct {
	TypeOfUnions                rulelearn.UnionType                       `json:"typeOfUnions"`
	ConsistencyThreshold        float64                                   `json:"consistencyThreshold"`
	TypeOfRules                 rulelearn.RuleType                        `json:"typeOfRules"`
	TypeOfClassifier            rulelearn.ClassifierType                  `json:"typeOfClassifier"`
	DefaultClassificationResult rulelearn.DefaultClassificationResultType `json:"defaultClassificationResult"`
	NumberOfFolds               int                                       `json:"numberOfFolds"`
	Seed                        int64                                     `json:"seed"`

	DecisionsDomain []string `json:"decisionsDomain"`

	MeanOrdinalMisclassificationMatrix *apimatrix.Matrix `json:"meanOrdinalMisclassificationMatrix"`
	SumOrdinalMisclassificationMatrix  *apimatrix.Matrix `json:"sumOrdinalMisclassificationMatrix"`

	IsCurrentData bool `json:"isCurrentData"`
}

func ComposeMain(cv *crossvalidation.CrossValidation, isCurrentData bool) Main {
	p := cv.Parameters
	return Main{
		TypeOfUnions:                       p.Induction.TypeOfUnions,
		ConsistencyThreshold:               p.Induction.ConsistencyThreshold,
		TypeOfRules:                        p.Induction.TypeOfRules,
		TypeOfClassifier:                   p.Classification.TypeOfClassifier,
		DefaultClassificationResult:        p.Classification.DefaultClassificationResult,
		NumberOfFolds:                      p.NumberOfFolds,
		Seed:                               p.Seed,
		DecisionsDomain:                    cv.OrderOfDecisions,
		MeanOrdinalMisclassificationMatrix: apimatrix.Compose(cv.Mean),
		SumOrdinalMisclassificationMatrix:  apimatrix.Compose(cv.Sum),
		IsCurrentData:                      isCurrentData,
	}
}

// Fold is one fold of a cross-validation.
//
// Indices of objects are of the cross-validated table.
type Fold struct {
	FoldIndex                  int   `json:"foldIndex"`
	IndicesOfTrainingObjects   []int `json:"indicesOfTrainingObjects"`
	IndicesOfValidationObjects []int `json:"indicesOfValidationObjects"`

	RuleSet []rulelearn.Rule `json:"ruleSet"`

	// classification of validation objects.
	ClassificationResults          []rulelearn.ClassificationResult `json:"classificationResults"`
	IndicesOfCoveringRules         [][]int                          `json:"indicesOfCoveringRules"`
	OrdinalMisclassificationMatrix *apimatrix.Matrix                `json:"ordinalMisclassificationMatrix"`
}

func ComposeFold(foldIndex int, f *crossvalidation.Fold) Fold {
	rs := []rulelearn.Rule{}
	if f.RuleSet != nil && f.RuleSet.Rules != nil {
		rs = f.RuleSet.Rules
	}
	return Fold{
		FoldIndex:                      foldIndex,
		IndicesOfTrainingObjects:       f.IndicesOfTrainingObjects,
		IndicesOfValidationObjects:     f.IndicesOfValidationObjects,
		RuleSet:                        rs,
		ClassificationResults:          f.Classification.Results,
		IndicesOfCoveringRules:         f.Classification.IndicesOfCoveringRules(),
		OrdinalMisclassificationMatrix: apimatrix.Compose(f.Classification.Matrix),
	}
}

type DescriptiveAttributes struct {
	Available []string `json:"available"`

	// Actual is the attribute naming objects now. null when none is chosen.
	Actual *string `json:"actual"`
}

func ComposeDescriptiveAttributes(d *crossvalidation.DescriptiveAttributes) DescriptiveAttributes {
	out := DescriptiveAttributes{Available: d.Available()}
	if name, ok := d.Current(); ok {
		out.Actual = &name
	}
	return out
}

// ObjectNames is names of objects of the cross-validated table.
type ObjectNames struct {
	Fields []string `json:"fields"`
}
