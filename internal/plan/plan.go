// Package plan implements the cost-estimating query plans and the
// planners that assemble them from a parsed command: TablePlan,
// SelectPlan, ProjectPlan, and ProductPlan, plus the basic and
// statistics-aware query planners and the update planner.
package plan

import (
	"simpledb/internal/query"
	"simpledb/internal/record"
)

// Plan is a node in a query's access plan: it can be opened into a Scan,
// and it estimates its own cost without opening anything.
type Plan interface {
	Open() (query.Scan, error)
	BlocksAccessed() int
	RecordsOutput() int
	DistinctValues(fldname string) int
	Schema() *record.Schema
}
