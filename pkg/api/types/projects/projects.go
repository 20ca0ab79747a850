package projects

import (
	apicv "github.com/rulestudio/rulestudio/pkg/api/types/crossvalidation"
	apidominance "github.com/rulestudio/rulestudio/pkg/api/types/dominance"
	"github.com/rulestudio/rulestudio/pkg/api/types/results"
	"github.com/rulestudio/rulestudio/pkg/domain/project"
	"github.com/rulestudio/rulestudio/pkg/infotable"
)

type Summary struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

func ComposeSummary(snap project.Snapshot) Summary {
	return Summary{Id: snap.Id.String(), Name: snap.Name}
}

// Detail is a project with everything calculated on it.
type Detail struct {
	Summary

	InformationTable *infotable.Table `json:"informationTable,omitempty"`

	Unions          *apidominance.Unions    `json:"unions,omitempty"`
	DominanceCones  *apidominance.Cones     `json:"dominanceCones,omitempty"`
	Rules           *results.Rules          `json:"rules,omitempty"`
	Classification  *results.Classification `json:"classification,omitempty"`
	CrossValidation *apicv.Main             `json:"crossValidation,omitempty"`
}

func ComposeDetail(snap project.Snapshot) Detail {
	d := Detail{
		Summary:          ComposeSummary(snap),
		InformationTable: snap.Table,
	}
	if u := snap.Unions; u != nil {
		composed := apidominance.ComposeUnions(u, u.IsCurrentData(snap.Table))
		d.Unions = &composed
	}
	if c := snap.Cones; c != nil {
		composed := apidominance.ComposeCones(c, c.IsCurrentData(snap.Table))
		d.DominanceCones = &composed
	}
	if r := snap.Rules; r != nil {
		composed := results.ComposeRules(r, r.IsCurrentData(snap.Table))
		d.Rules = &composed
	}
	if c := snap.Classification; c != nil {
		composed := results.ComposeClassification(c, c.IsCurrentData(snap.Table))
		d.Classification = &composed
	}
	if cv := snap.CrossValidation; cv != nil {
		composed := apicv.ComposeMain(cv, cv.IsCurrentData(snap.Table))
		d.CrossValidation = &composed
	}
	return d
}
