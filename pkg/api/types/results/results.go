// Package results is API types of rules and classification of a project.
package results

import (
	apimatrix "github.com/rulestudio/rulestudio/pkg/api/types/matrix"
	"github.com/rulestudio/rulestudio/pkg/classification"
	"github.com/rulestudio/rulestudio/pkg/infotable"
	"github.com/rulestudio/rulestudio/pkg/rulelearn"
	"github.com/rulestudio/rulestudio/pkg/rules"
)

type Rules struct {
	RuleSet []rulelearn.Rule `json:"ruleSet"`

	// parameters of induction. They are absent for external rules.
	TypeOfUnions         rulelearn.UnionType `json:"typeOfUnions,omitempty"`
	ConsistencyThreshold *float64            `json:"consistencyThreshold,omitempty"`
	TypeOfRules          rulelearn.RuleType  `json:"typeOfRules,omitempty"`

	ExternalRules bool `json:"externalRules"`
	IsCurrentData bool `json:"isCurrentData"`
}

func ComposeRules(r *rules.Rules, isCurrentData bool) Rules {
	out := Rules{
		RuleSet:       ruleSet(r.RuleSet),
		ExternalRules: r.External,
		IsCurrentData: isCurrentData,
	}
	if p := r.Parameters; p != nil {
		threshold := p.ConsistencyThreshold
		out.TypeOfUnions = p.TypeOfUnions
		out.ConsistencyThreshold = &threshold
		out.TypeOfRules = p.TypeOfRules
	}
	return out
}

func ruleSet(rs *rulelearn.RuleSet) []rulelearn.Rule {
	if rs == nil || rs.Rules == nil {
		return []rulelearn.Rule{}
	}
	return rs.Rules
}

type Classification struct {
	ClassificationResults          []rulelearn.ClassificationResult `json:"classificationResults"`
	InformationTable               *infotable.Table                 `json:"informationTable"`
	DecisionsDomain                []string                         `json:"decisionsDomain"`
	IndicesOfCoveringRules         [][]int                          `json:"indicesOfCoveringRules"`
	OrdinalMisclassificationMatrix *apimatrix.Matrix                `json:"ordinalMisclassificationMatrix"`

	TypeOfClassifier            rulelearn.ClassifierType                  `json:"typeOfClassifier"`
	DefaultClassificationResult rulelearn.DefaultClassificationResultType `json:"defaultClassificationResult"`

	ExternalData         bool   `json:"externalData"`
	ExternalDataFileName string `json:"externalDataFileName,omitempty"`
	IsCurrentData        bool   `json:"isCurrentData"`
}

func ComposeClassification(c *classification.Classification, isCurrentData bool) Classification {
	return Classification{
		ClassificationResults:          c.Results,
		InformationTable:               c.Table,
		DecisionsDomain:                c.OrderOfDecisions,
		IndicesOfCoveringRules:         c.IndicesOfCoveringRules(),
		OrdinalMisclassificationMatrix: apimatrix.Compose(c.Matrix),
		TypeOfClassifier:               c.Parameters.TypeOfClassifier,
		DefaultClassificationResult:    c.Parameters.DefaultClassificationResult,
		ExternalData:                   c.ExternalData,
		ExternalDataFileName:           c.ExternalDataFileName,
		IsCurrentData:                  isCurrentData,
	}
}

// ChosenObject is a classified object.
type ChosenObject struct {
	ObjectIndex            int                            `json:"objectIndex"`
	ClassificationResult   rulelearn.ClassificationResult `json:"classificationResult"`
	IndicesOfCoveringRules []int                          `json:"indicesOfCoveringRules"`

	// values of the object keyed by attribute name. present only when requested.
	Attributes map[string]string `json:"attributes,omitempty"`
}

func ComposeChosenObject(c classification.ChosenObject) ChosenObject {
	covering := c.Result.IndicesOfCoveringRules
	if covering == nil {
		covering = []int{}
	}
	return ChosenObject{
		ObjectIndex:            c.Index,
		ClassificationResult:   c.Result,
		IndicesOfCoveringRules: covering,
		Attributes:             c.Values,
	}
}
