package plan

import (
	"simpledb/internal/metadata"
	"simpledb/internal/parse"
	"simpledb/internal/query"
)

// QueryPlanner turns a parsed SELECT into an access plan.
type QueryPlanner interface {
	CreatePlan(data parse.QueryData, tx query.Transactor) (Plan, error)
}

// tablePlans resolves every table or view named in data.Tables into a
// Plan, expanding views by re-parsing their stored definition.
func tablePlans(data parse.QueryData, tx query.Transactor, md *metadata.Mgr, self QueryPlanner) ([]Plan, error) {
	plans := make([]Plan, 0, len(data.Tables))
	for _, tblname := range data.Tables {
		viewdef, err := md.GetViewDef(tblname, tx)
		if err == nil {
			p, err := parse.NewParser(viewdef)
			if err != nil {
				return nil, err
			}
			viewdata, err := p.Query()
			if err != nil {
				return nil, err
			}
			viewplan, err := self.CreatePlan(viewdata, tx)
			if err != nil {
				return nil, err
			}
			plans = append(plans, viewplan)
			continue
		}
		tp, err := NewTablePlan(tx, tblname, md)
		if err != nil {
			return nil, err
		}
		plans = append(plans, tp)
	}
	return plans, nil
}

// BasicQueryPlanner builds a left-deep product of the table list in
// declared order.
type BasicQueryPlanner struct {
	mdm *metadata.Mgr
}

// NewBasicQueryPlanner returns a planner that never reorders joins.
func NewBasicQueryPlanner(mdm *metadata.Mgr) *BasicQueryPlanner {
	return &BasicQueryPlanner{mdm: mdm}
}

func (bp *BasicQueryPlanner) CreatePlan(data parse.QueryData, tx query.Transactor) (Plan, error) {
	plans, err := tablePlans(data, tx, bp.mdm, bp)
	if err != nil {
		return nil, err
	}
	p := plans[0]
	for _, next := range plans[1:] {
		p = NewProductPlan(p, next)
	}
	p = NewSelectPlan(p, data.Pred)
	return NewProjectPlan(p, data.Fields), nil
}

// BetterQueryPlanner builds the product incrementally, at each step
// choosing whichever join order costs fewer block accesses.
type BetterQueryPlanner struct {
	mdm *metadata.Mgr
}

// NewBetterQueryPlanner returns a cost-aware join-ordering planner.
func NewBetterQueryPlanner(mdm *metadata.Mgr) *BetterQueryPlanner {
	return &BetterQueryPlanner{mdm: mdm}
}

func (bp *BetterQueryPlanner) CreatePlan(data parse.QueryData, tx query.Transactor) (Plan, error) {
	plans, err := tablePlans(data, tx, bp.mdm, bp)
	if err != nil {
		return nil, err
	}
	p := plans[0]
	for _, next := range plans[1:] {
		p1 := NewProductPlan(next, p)
		p2 := NewProductPlan(p, next)
		if p1.BlocksAccessed() < p2.BlocksAccessed() {
			p = p1
		} else {
			p = p2
		}
	}
	p = NewSelectPlan(p, data.Pred)
	return NewProjectPlan(p, data.Fields), nil
}
