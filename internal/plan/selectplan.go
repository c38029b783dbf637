package plan

import (
	"simpledb/internal/query"
	"simpledb/internal/record"
)

// SelectPlan filters its child plan's rows by pred.
type SelectPlan struct {
	p    Plan
	pred query.Predicate
}

// NewSelectPlan wraps p, exposing only rows matching pred.
func NewSelectPlan(p Plan, pred query.Predicate) *SelectPlan {
	return &SelectPlan{p: p, pred: pred}
}

func (sp *SelectPlan) Open() (query.Scan, error) {
	s, err := sp.p.Open()
	if err != nil {
		return nil, err
	}
	return query.NewSelectScan(s, sp.pred), nil
}

func (sp *SelectPlan) BlocksAccessed() int {
	return sp.p.BlocksAccessed()
}

func (sp *SelectPlan) RecordsOutput() int {
	rf := sp.pred.ReductionFactor(sp.p)
	if rf == 0 {
		return 0
	}
	return sp.p.RecordsOutput() / rf
}

func (sp *SelectPlan) DistinctValues(fldname string) int {
	if _, ok := sp.pred.EquatesWithConstant(fldname); ok {
		return 1
	}
	if fldname2, ok := sp.pred.EquatesWithField(fldname); ok {
		return min(sp.p.DistinctValues(fldname), sp.p.DistinctValues(fldname2))
	}
	return sp.p.DistinctValues(fldname)
}

func (sp *SelectPlan) Schema() *record.Schema {
	return sp.p.Schema()
}
