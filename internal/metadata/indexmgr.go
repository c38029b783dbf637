package metadata

import (
	"fmt"

	"simpledb/internal/index"
	"simpledb/internal/query"
	"simpledb/internal/record"
)

// IndexInfo carries enough about one index to cost-estimate plans through
// it without ever opening it; per this engine's scope no Plan ever calls
// Open.
type IndexInfo struct {
	idxname   string
	fldname   string
	tblSchema *record.Schema
	tx        query.Transactor
	idxLayout *record.Layout
	si        StatInfo
}

// NewIndexInfo builds the cost-estimation view of one index.
func NewIndexInfo(idxname, fldname string, tblSchema *record.Schema, tx query.Transactor, si StatInfo) *IndexInfo {
	ii := &IndexInfo{idxname: idxname, fldname: fldname, tblSchema: tblSchema, tx: tx, si: si}
	ii.idxLayout = ii.createIdxLayout()
	return ii
}

// Open returns a handle to the index's own storage. No Plan in this
// engine calls it; it mirrors the original design's stubbed-out
// IndexInfo.open rather than a working index-backed scan.
func (ii *IndexInfo) Open() (*index.StaticHashIndex, error) {
	return index.NewStaticHashIndex(ii.tx, ii.idxname, ii.idxLayout)
}

// RecordsOutput estimates how many index entries one probe returns.
func (ii *IndexInfo) RecordsOutput() int {
	return ii.si.NumRecs / ii.si.DistinctValues(ii.fldname)
}

// DistinctValues returns 1 for the indexed field itself (a lookup pins it
// exactly) and the table's own estimate for any other field.
func (ii *IndexInfo) DistinctValues(fname string) int {
	if ii.fldname == fname {
		return 1
	}
	return ii.si.DistinctValues(fname)
}

func (ii *IndexInfo) createIdxLayout() *record.Layout {
	sch := record.NewSchema()
	sch.AddIntField("block")
	sch.AddIntField("id")
	switch ii.tblSchema.Type(ii.fldname) {
	case record.Integer:
		sch.AddIntField("dataval")
	case record.Varchar:
		sch.AddStringField("dataval", ii.tblSchema.Length(ii.fldname))
	default:
		panic(fmt.Sprintf("metadata: unknown field type for %q", ii.fldname))
	}
	return record.LayoutFromSchema(sch)
}

// IndexMgr owns idxcat, the catalog of declared indexes.
type IndexMgr struct {
	layout  *record.Layout
	tblMgr  *TableMgr
	statMgr *StatMgr
}

// NewIndexMgr bootstraps idxcat on a brand-new database.
func NewIndexMgr(isNew bool, tblMgr *TableMgr, statMgr *StatMgr, tx query.Transactor) (*IndexMgr, error) {
	if isNew {
		sch := record.NewSchema()
		sch.AddStringField("indexname", tblMgr.MaxName())
		sch.AddStringField("tablename", tblMgr.MaxName())
		sch.AddStringField("fieldname", tblMgr.MaxName())
		if err := tblMgr.CreateTable("idxcat", sch, tx); err != nil {
			return nil, err
		}
	}
	layout, err := tblMgr.GetLayout("idxcat", tx)
	if err != nil {
		return nil, err
	}
	return &IndexMgr{layout: layout, tblMgr: tblMgr, statMgr: statMgr}, nil
}

// CreateIndex declares idxname over tblname.fldname.
func (im *IndexMgr) CreateIndex(idxname, tblname, fldname string, tx query.Transactor) error {
	ts, err := query.NewTableScan(tx, "idxcat", im.layout)
	if err != nil {
		return err
	}
	defer ts.Close()
	if err := ts.Insert(); err != nil {
		return err
	}
	if err := ts.SetString("indexname", idxname); err != nil {
		return err
	}
	if err := ts.SetString("tablename", tblname); err != nil {
		return err
	}
	return ts.SetString("fieldname", fldname)
}

// GetIndexInfo returns every declared index over tblname, keyed by
// indexed field name.
func (im *IndexMgr) GetIndexInfo(tblname string, tx query.Transactor) (map[string]*IndexInfo, error) {
	result := make(map[string]*IndexInfo)
	ts, err := query.NewTableScan(tx, "idxcat", im.layout)
	if err != nil {
		return nil, err
	}
	defer ts.Close()
	for ts.Next() {
		tbl, err := ts.GetString("tablename")
		if err != nil {
			return nil, err
		}
		if tbl != tblname {
			continue
		}
		idxname, err := ts.GetString("indexname")
		if err != nil {
			return nil, err
		}
		fldname, err := ts.GetString("fieldname")
		if err != nil {
			return nil, err
		}
		tblLayout, err := im.tblMgr.GetLayout(tblname, tx)
		if err != nil {
			return nil, err
		}
		tblsi, err := im.statMgr.GetStatInfo(tblname, tblLayout, tx)
		if err != nil {
			return nil, err
		}
		result[fldname] = NewIndexInfo(idxname, fldname, tblLayout.Schema(), tx, tblsi)
	}
	return result, nil
}
