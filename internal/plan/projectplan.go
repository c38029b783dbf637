package plan

import (
	"simpledb/internal/query"
	"simpledb/internal/record"
)

// ProjectPlan restricts its child plan's schema to fieldlist.
type ProjectPlan struct {
	p      Plan
	schema *record.Schema
}

// NewProjectPlan builds the projected schema from p's schema.
func NewProjectPlan(p Plan, fieldlist []string) *ProjectPlan {
	sch := record.NewSchema()
	for _, fldname := range fieldlist {
		sch.Add(fldname, p.Schema())
	}
	return &ProjectPlan{p: p, schema: sch}
}

func (pp *ProjectPlan) Open() (query.Scan, error) {
	s, err := pp.p.Open()
	if err != nil {
		return nil, err
	}
	return query.NewProjectScan(s, pp.schema.Fields()), nil
}

func (pp *ProjectPlan) BlocksAccessed() int                 { return pp.p.BlocksAccessed() }
func (pp *ProjectPlan) RecordsOutput() int                  { return pp.p.RecordsOutput() }
func (pp *ProjectPlan) DistinctValues(fldname string) int   { return pp.p.DistinctValues(fldname) }
func (pp *ProjectPlan) Schema() *record.Schema              { return pp.schema }
