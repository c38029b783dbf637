package metadata

import (
	"simpledb/internal/query"
	"simpledb/internal/record"
)

// Mgr is the single entry point the rest of the engine uses to reach the
// table, view, statistics, and index catalogs.
type Mgr struct {
	tblMgr  *TableMgr
	viewMgr *ViewMgr
	statMgr *StatMgr
	idxMgr  *IndexMgr
}

// NewMgr bootstraps (on a new database) or opens (on an existing one)
// every catalog, in the dependency order each constructor requires.
// maxName and maxViewDef come from the engine's configuration. newTx
// lets StatMgr mint independent transactions for its concurrent
// per-table rescans instead of sharing tx across goroutines.
func NewMgr(isNew bool, maxName, maxViewDef int, tx query.Transactor, newTx query.TransactorFactory) (*Mgr, error) {
	tblMgr, err := NewTableMgr(isNew, maxName, tx)
	if err != nil {
		return nil, err
	}
	viewMgr, err := NewViewMgr(isNew, maxViewDef, tblMgr, tx)
	if err != nil {
		return nil, err
	}
	statMgr, err := NewStatMgr(tblMgr, tx, newTx)
	if err != nil {
		return nil, err
	}
	idxMgr, err := NewIndexMgr(isNew, tblMgr, statMgr, tx)
	if err != nil {
		return nil, err
	}
	return &Mgr{tblMgr: tblMgr, viewMgr: viewMgr, statMgr: statMgr, idxMgr: idxMgr}, nil
}

func (m *Mgr) CreateTable(tblname string, sch *record.Schema, tx query.Transactor) error {
	return m.tblMgr.CreateTable(tblname, sch, tx)
}

func (m *Mgr) GetLayout(tblname string, tx query.Transactor) (*record.Layout, error) {
	return m.tblMgr.GetLayout(tblname, tx)
}

// ListTables returns every registered table name, for the CLI's .tables
// command.
func (m *Mgr) ListTables(tx query.Transactor) ([]string, error) {
	return m.tblMgr.ListTables(tx)
}

func (m *Mgr) CreateView(viewname, viewdef string, tx query.Transactor) error {
	return m.viewMgr.CreateView(viewname, viewdef, tx)
}

func (m *Mgr) GetViewDef(viewname string, tx query.Transactor) (string, error) {
	return m.viewMgr.GetViewDef(viewname, tx)
}

func (m *Mgr) CreateIndex(idxname, tblname, fldname string, tx query.Transactor) error {
	return m.idxMgr.CreateIndex(idxname, tblname, fldname, tx)
}

func (m *Mgr) GetIndexInfo(tblname string, tx query.Transactor) (map[string]*IndexInfo, error) {
	return m.idxMgr.GetIndexInfo(tblname, tx)
}

func (m *Mgr) GetStatInfo(tblname string, layout *record.Layout, tx query.Transactor) (StatInfo, error) {
	return m.statMgr.GetStatInfo(tblname, layout, tx)
}
