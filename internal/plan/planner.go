package plan

import (
	"fmt"

	"simpledb/internal/parse"
	"simpledb/internal/query"
)

// Planner is the SQL surface's single entry point: it parses a command
// and dispatches it to the query or update planner as appropriate.
type Planner struct {
	qplanner QueryPlanner
	uplanner UpdatePlanner
}

// NewPlanner binds one query planner and one update planner.
func NewPlanner(qplanner QueryPlanner, uplanner UpdatePlanner) *Planner {
	return &Planner{qplanner: qplanner, uplanner: uplanner}
}

// CreateQueryPlan parses cmd as a SELECT and builds its access plan.
func (pl *Planner) CreateQueryPlan(cmd string, tx query.Transactor) (Plan, error) {
	p, err := parse.NewParser(cmd)
	if err != nil {
		return nil, err
	}
	data, err := p.Query()
	if err != nil {
		return nil, err
	}
	return pl.qplanner.CreatePlan(data, tx)
}

// ExecuteUpdate parses cmd as any non-SELECT command and runs it,
// returning the number of affected rows (0 for DDL).
func (pl *Planner) ExecuteUpdate(cmd string, tx query.Transactor) (int, error) {
	p, err := parse.NewParser(cmd)
	if err != nil {
		return 0, err
	}
	obj, err := p.UpdateCmd()
	if err != nil {
		return 0, err
	}
	switch data := obj.(type) {
	case parse.InsertData:
		return pl.uplanner.ExecuteInsert(data, tx)
	case parse.DeleteData:
		return pl.uplanner.ExecuteDelete(data, tx)
	case parse.ModifyData:
		return pl.uplanner.ExecuteModify(data, tx)
	case parse.CreateTableData:
		return pl.uplanner.ExecuteCreateTable(data, tx)
	case parse.CreateViewData:
		return pl.uplanner.ExecuteCreateView(data, tx)
	case parse.CreateIndexData:
		return pl.uplanner.ExecuteCreateIndex(data, tx)
	default:
		return 0, fmt.Errorf("plan: unrecognized update command")
	}
}
