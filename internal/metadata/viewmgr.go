package metadata

import (
	"fmt"

	"simpledb/internal/query"
	"simpledb/internal/record"
)

// DefaultMaxViewDef bounds the stored length of a view's textual
// definition, absent an overriding configuration.
const DefaultMaxViewDef = 100

// ViewMgr stores each view's defining query text in viewcat, an ordinary
// table managed through TableMgr.
type ViewMgr struct {
	tblMgr *TableMgr
}

// NewViewMgr bootstraps viewcat on a brand-new database. maxViewDef
// bounds how long a stored view definition may be.
func NewViewMgr(isNew bool, maxViewDef int, tblMgr *TableMgr, tx query.Transactor) (*ViewMgr, error) {
	vm := &ViewMgr{tblMgr: tblMgr}
	if isNew {
		sch := record.NewSchema()
		sch.AddStringField("viewname", tblMgr.MaxName())
		sch.AddStringField("viewdef", maxViewDef)
		if err := tblMgr.CreateTable("viewcat", sch, tx); err != nil {
			return nil, err
		}
	}
	return vm, nil
}

// CreateView records vname's definition vdef.
func (vm *ViewMgr) CreateView(vname, vdef string, tx query.Transactor) error {
	layout, err := vm.tblMgr.GetLayout("viewcat", tx)
	if err != nil {
		return err
	}
	ts, err := query.NewTableScan(tx, "viewcat", layout)
	if err != nil {
		return err
	}
	defer ts.Close()
	if err := ts.Insert(); err != nil {
		return err
	}
	if err := ts.SetString("viewname", vname); err != nil {
		return err
	}
	return ts.SetString("viewdef", vdef)
}

// GetViewDef returns vname's stored definition.
func (vm *ViewMgr) GetViewDef(vname string, tx query.Transactor) (string, error) {
	layout, err := vm.tblMgr.GetLayout("viewcat", tx)
	if err != nil {
		return "", err
	}
	ts, err := query.NewTableScan(tx, "viewcat", layout)
	if err != nil {
		return "", err
	}
	defer ts.Close()
	for ts.Next() {
		name, err := ts.GetString("viewname")
		if err != nil {
			return "", err
		}
		if name == vname {
			return ts.GetString("viewdef")
		}
	}
	return "", fmt.Errorf("metadata: no such view %q", vname)
}
