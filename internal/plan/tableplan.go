package plan

import (
	"simpledb/internal/metadata"
	"simpledb/internal/query"
	"simpledb/internal/record"
)

// TablePlan is a leaf plan over one catalog-registered table.
type TablePlan struct {
	tx      query.Transactor
	tblname string
	layout  *record.Layout
	si      metadata.StatInfo
}

// NewTablePlan looks up tblname's layout and statistics up front so
// every cost estimate below is a cheap lookup rather than a fresh scan.
func NewTablePlan(tx query.Transactor, tblname string, md *metadata.Mgr) (*TablePlan, error) {
	layout, err := md.GetLayout(tblname, tx)
	if err != nil {
		return nil, err
	}
	si, err := md.GetStatInfo(tblname, layout, tx)
	if err != nil {
		return nil, err
	}
	return &TablePlan{tx: tx, tblname: tblname, layout: layout, si: si}, nil
}

func (p *TablePlan) Open() (query.Scan, error) {
	return query.NewTableScan(p.tx, p.tblname, p.layout)
}

func (p *TablePlan) BlocksAccessed() int { return p.si.NumBlocks }
func (p *TablePlan) RecordsOutput() int  { return p.si.NumRecs }
func (p *TablePlan) DistinctValues(fldname string) int {
	return p.si.DistinctValues(fldname)
}
func (p *TablePlan) Schema() *record.Schema { return p.layout.Schema() }
