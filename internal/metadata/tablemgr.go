// Package metadata implements the system catalogs (tblcat, fldcat,
// viewcat, idxcat) as ordinary tables, the statistics estimator built on
// top of them, and the MetadataMgr facade higher layers program against.
package metadata

import (
	"fmt"

	"simpledb/internal/query"
	"simpledb/internal/record"
)

// DefaultMaxName bounds the length of a table, field, view, or index
// name stored in any catalog, absent an overriding configuration.
const DefaultMaxName = 16

// TableMgr owns the tblcat and fldcat catalogs and translates between a
// record.Schema and its on-disk Layout.
type TableMgr struct {
	maxName    int
	tcatLayout *record.Layout
	fcatLayout *record.Layout
}

// NewTableMgr builds the catalog layouts and, on a brand-new database,
// bootstraps tblcat and fldcat by registering themselves. maxName bounds
// every name stored in tblcat/fldcat/viewcat/idxcat.
func NewTableMgr(isNew bool, maxName int, tx query.Transactor) (*TableMgr, error) {
	tcatSchema := record.NewSchema()
	tcatSchema.AddStringField("tblname", maxName)
	tcatSchema.AddIntField("slotsize")

	fcatSchema := record.NewSchema()
	fcatSchema.AddStringField("tblname", maxName)
	fcatSchema.AddStringField("fldname", maxName)
	fcatSchema.AddIntField("type")
	fcatSchema.AddIntField("length")
	fcatSchema.AddIntField("offset")

	tm := &TableMgr{
		maxName:    maxName,
		tcatLayout: record.LayoutFromSchema(tcatSchema),
		fcatLayout: record.LayoutFromSchema(fcatSchema),
	}
	if isNew {
		if err := tm.CreateTable("tblcat", tcatSchema, tx); err != nil {
			return nil, err
		}
		if err := tm.CreateTable("fldcat", fcatSchema, tx); err != nil {
			return nil, err
		}
	}
	return tm, nil
}

// MaxName returns the name-length bound this TableMgr was built with.
func (tm *TableMgr) MaxName() int {
	return tm.maxName
}

// CreateTable records tblname's layout by inserting one tblcat row and
// one fldcat row per field.
func (tm *TableMgr) CreateTable(tblname string, sch *record.Schema, tx query.Transactor) error {
	layout := record.LayoutFromSchema(sch)

	tcat, err := query.NewTableScan(tx, "tblcat", tm.tcatLayout)
	if err != nil {
		return err
	}
	defer tcat.Close()
	if err := tcat.Insert(); err != nil {
		return err
	}
	if err := tcat.SetString("tblname", tblname); err != nil {
		return err
	}
	if err := tcat.SetInt("slotsize", layout.SlotSize()); err != nil {
		return err
	}

	fcat, err := query.NewTableScan(tx, "fldcat", tm.fcatLayout)
	if err != nil {
		return err
	}
	defer fcat.Close()
	for _, fldname := range sch.Fields() {
		if err := fcat.Insert(); err != nil {
			return err
		}
		if err := fcat.SetString("tblname", tblname); err != nil {
			return err
		}
		if err := fcat.SetString("fldname", fldname); err != nil {
			return err
		}
		if err := fcat.SetInt("type", int(sch.Type(fldname))); err != nil {
			return err
		}
		if err := fcat.SetInt("length", sch.Length(fldname)); err != nil {
			return err
		}
		if err := fcat.SetInt("offset", layout.Offset(fldname)); err != nil {
			return err
		}
	}
	return nil
}

// ListTables returns every table name registered in tblcat, including the
// catalogs themselves.
func (tm *TableMgr) ListTables(tx query.Transactor) ([]string, error) {
	tcat, err := query.NewTableScan(tx, "tblcat", tm.tcatLayout)
	if err != nil {
		return nil, err
	}
	defer tcat.Close()
	var names []string
	for tcat.Next() {
		name, err := tcat.GetString("tblname")
		if err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// GetLayout reconstructs tblname's Layout by scanning tblcat and fldcat.
func (tm *TableMgr) GetLayout(tblname string, tx query.Transactor) (*record.Layout, error) {
	size := -1
	tcat, err := query.NewTableScan(tx, "tblcat", tm.tcatLayout)
	if err != nil {
		return nil, err
	}
	for tcat.Next() {
		name, err := tcat.GetString("tblname")
		if err != nil {
			tcat.Close()
			return nil, err
		}
		if name == tblname {
			size, err = tcat.GetInt("slotsize")
			if err != nil {
				tcat.Close()
				return nil, err
			}
			break
		}
	}
	tcat.Close()
	if size < 0 {
		return nil, fmt.Errorf("metadata: no such table %q", tblname)
	}

	sch := record.NewSchema()
	offsets := make(map[string]int)
	fcat, err := query.NewTableScan(tx, "fldcat", tm.fcatLayout)
	if err != nil {
		return nil, err
	}
	defer fcat.Close()
	for fcat.Next() {
		name, err := fcat.GetString("tblname")
		if err != nil {
			return nil, err
		}
		if name != tblname {
			continue
		}
		fldname, err := fcat.GetString("fldname")
		if err != nil {
			return nil, err
		}
		fldtype, err := fcat.GetInt("type")
		if err != nil {
			return nil, err
		}
		fldlen, err := fcat.GetInt("length")
		if err != nil {
			return nil, err
		}
		offset, err := fcat.GetInt("offset")
		if err != nil {
			return nil, err
		}
		offsets[fldname] = offset
		sch.AddField(fldname, record.Type(fldtype), fldlen)
	}
	return record.NewLayout(sch, offsets, size), nil
}
