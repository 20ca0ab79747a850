// Package dominance is API types of unions and dominance cones of a project.
package dominance

import (
	"github.com/rulestudio/rulestudio/pkg/dominance"
	"github.com/rulestudio/rulestudio/pkg/rulelearn"
)

type Unions struct {
	DownwardUnions         []rulelearn.Union `json:"downwardUnions"`
	UpwardUnions           []rulelearn.Union `json:"upwardUnions"`
	QualityOfApproximation float64           `json:"qualityOfApproximation"`

	TypeOfUnions         rulelearn.UnionType `json:"typeOfUnions"`
	ConsistencyThreshold float64             `json:"consistencyThreshold"`

	IsCurrentData bool `json:"isCurrentData"`
}

func ComposeUnions(u *dominance.Unions, isCurrentData bool) Unions {
	out := Unions{
		DownwardUnions:       []rulelearn.Union{},
		UpwardUnions:         []rulelearn.Union{},
		TypeOfUnions:         u.Parameters.TypeOfUnions,
		ConsistencyThreshold: u.Parameters.ConsistencyThreshold,
		IsCurrentData:        isCurrentData,
	}
	if u.Unions != nil {
		if u.DownwardUnions != nil {
			out.DownwardUnions = u.DownwardUnions
		}
		if u.UpwardUnions != nil {
			out.UpwardUnions = u.UpwardUnions
		}
		out.QualityOfApproximation = u.QualityOfApproximation
	}
	return out
}

type Cones struct {
	NumberOfObjects   int     `json:"numberOfObjects"`
	PositiveDCones    [][]int `json:"positiveDCones"`
	NegativeDCones    [][]int `json:"negativeDCones"`
	PositiveInvDCones [][]int `json:"positiveInvDCones"`
	NegativeInvDCones [][]int `json:"negativeInvDCones"`

	IsCurrentData bool `json:"isCurrentData"`
}

func ComposeCones(c *dominance.Cones, isCurrentData bool) Cones {
	out := Cones{IsCurrentData: isCurrentData}
	if c.Cones != nil {
		out.NumberOfObjects = c.NumberOfObjects
		out.PositiveDCones = c.PositiveDCones
		out.NegativeDCones = c.NegativeDCones
		out.PositiveInvDCones = c.PositiveInvDCones
		out.NegativeInvDCones = c.NegativeInvDCones
	}
	return out
}
