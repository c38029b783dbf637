package plan

import (
	"simpledb/internal/query"
	"simpledb/internal/record"
)

// ProductPlan is the cross product of two child plans.
type ProductPlan struct {
	p1, p2 Plan
	schema *record.Schema
}

// NewProductPlan builds the union schema of p1 and p2.
func NewProductPlan(p1, p2 Plan) *ProductPlan {
	sch := record.NewSchema()
	sch.AddAll(p1.Schema())
	sch.AddAll(p2.Schema())
	return &ProductPlan{p1: p1, p2: p2, schema: sch}
}

func (pp *ProductPlan) Open() (query.Scan, error) {
	s1, err := pp.p1.Open()
	if err != nil {
		return nil, err
	}
	s2, err := pp.p2.Open()
	if err != nil {
		return nil, err
	}
	return query.NewProductScan(s1, s2), nil
}

func (pp *ProductPlan) BlocksAccessed() int {
	return pp.p1.BlocksAccessed() + pp.p1.RecordsOutput()*pp.p2.BlocksAccessed()
}

func (pp *ProductPlan) RecordsOutput() int {
	return pp.p1.RecordsOutput() * pp.p2.RecordsOutput()
}

func (pp *ProductPlan) DistinctValues(fldname string) int {
	if pp.p1.Schema().HasField(fldname) {
		return pp.p1.DistinctValues(fldname)
	}
	return pp.p2.DistinctValues(fldname)
}

func (pp *ProductPlan) Schema() *record.Schema {
	return pp.schema
}
