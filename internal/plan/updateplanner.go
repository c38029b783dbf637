package plan

import (
	"fmt"

	"simpledb/internal/metadata"
	"simpledb/internal/parse"
	"simpledb/internal/query"
)

// UpdatePlanner executes the non-SELECT commands: DML plus the three
// CREATE variants.
type UpdatePlanner interface {
	ExecuteInsert(data parse.InsertData, tx query.Transactor) (int, error)
	ExecuteDelete(data parse.DeleteData, tx query.Transactor) (int, error)
	ExecuteModify(data parse.ModifyData, tx query.Transactor) (int, error)
	ExecuteCreateTable(data parse.CreateTableData, tx query.Transactor) (int, error)
	ExecuteCreateView(data parse.CreateViewData, tx query.Transactor) (int, error)
	ExecuteCreateIndex(data parse.CreateIndexData, tx query.Transactor) (int, error)
}

// BasicUpdatePlanner executes DML directly against TablePlan/SelectPlan,
// with no index maintenance.
type BasicUpdatePlanner struct {
	mdm *metadata.Mgr
}

// NewBasicUpdatePlanner returns the planner the engine wires by default.
func NewBasicUpdatePlanner(mdm *metadata.Mgr) *BasicUpdatePlanner {
	return &BasicUpdatePlanner{mdm: mdm}
}

func (up *BasicUpdatePlanner) ExecuteInsert(data parse.InsertData, tx query.Transactor) (int, error) {
	p, err := NewTablePlan(tx, data.Tblname, up.mdm)
	if err != nil {
		return 0, err
	}
	s, err := p.Open()
	if err != nil {
		return 0, err
	}
	us, ok := s.(query.UpdateScan)
	if !ok {
		return 0, fmt.Errorf("plan: table scan is not updatable")
	}
	defer us.Close()
	if err := us.Insert(); err != nil {
		return 0, err
	}
	for i, fldname := range data.Flds {
		if err := us.SetVal(fldname, data.Vals[i]); err != nil {
			return 0, err
		}
	}
	return 1, nil
}

func (up *BasicUpdatePlanner) ExecuteDelete(data parse.DeleteData, tx query.Transactor) (int, error) {
	tp, err := NewTablePlan(tx, data.Tblname, up.mdm)
	if err != nil {
		return 0, err
	}
	sp := NewSelectPlan(tp, data.Pred)
	s, err := sp.Open()
	if err != nil {
		return 0, err
	}
	us, ok := s.(query.UpdateScan)
	if !ok {
		return 0, fmt.Errorf("plan: table scan is not updatable")
	}
	defer us.Close()
	count := 0
	for us.Next() {
		if err := us.Delete(); err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

func (up *BasicUpdatePlanner) ExecuteModify(data parse.ModifyData, tx query.Transactor) (int, error) {
	tp, err := NewTablePlan(tx, data.Tblname, up.mdm)
	if err != nil {
		return 0, err
	}
	sp := NewSelectPlan(tp, data.Pred)
	s, err := sp.Open()
	if err != nil {
		return 0, err
	}
	us, ok := s.(query.UpdateScan)
	if !ok {
		return 0, fmt.Errorf("plan: table scan is not updatable")
	}
	defer us.Close()
	count := 0
	for us.Next() {
		val, err := data.NewVal.Evaluate(us)
		if err != nil {
			return 0, err
		}
		if err := us.SetVal(data.Fldname, val); err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

func (up *BasicUpdatePlanner) ExecuteCreateTable(data parse.CreateTableData, tx query.Transactor) (int, error) {
	if err := up.mdm.CreateTable(data.Tblname, data.Sch, tx); err != nil {
		return 0, err
	}
	return 0, nil
}

func (up *BasicUpdatePlanner) ExecuteCreateView(data parse.CreateViewData, tx query.Transactor) (int, error) {
	if err := up.mdm.CreateView(data.Viewname, data.QryData.String(), tx); err != nil {
		return 0, err
	}
	return 0, nil
}

func (up *BasicUpdatePlanner) ExecuteCreateIndex(data parse.CreateIndexData, tx query.Transactor) (int, error) {
	if err := up.mdm.CreateIndex(data.Idxname, data.Tblname, data.Fldname, tx); err != nil {
		return 0, err
	}
	return 0, nil
}
