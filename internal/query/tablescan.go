package query

import (
	"fmt"

	"simpledb/internal/file"
	"simpledb/internal/record"
)

// Transactor is the Transaction surface the query layer needs: enough to
// drive a record.Page and to size/append/unpin the files backing tables.
// *tx.Transaction satisfies it.
type Transactor interface {
	Pin(blk file.BlockId) error
	Unpin(blk file.BlockId)
	GetInt(blk file.BlockId, offset int) (int, error)
	GetString(blk file.BlockId, offset int) (string, error)
	SetInt(blk file.BlockId, offset, val int, okToLog bool) error
	SetString(blk file.BlockId, offset int, val string, okToLog bool) error
	BlockSize() int
	Size(filename string) (int, error)
	Append(filename string) (file.BlockId, error)
}

// FreshTransactor is a Transactor a caller owns outright and must close
// out with Commit or Rollback when done.
type FreshTransactor interface {
	Transactor
	Commit() error
	Rollback() error
}

// TransactorFactory starts a brand new FreshTransactor with its own
// buffer list and lock set, for callers that need to fan work out across
// goroutines: a Transactor is not safe for concurrent use, but two
// independent ones sharing the same underlying buffer pool and lock
// table are.
type TransactorFactory func() (FreshTransactor, error)

// TableScan is the UpdateScan over one table's file: a sequence of
// fixed-slot blocks read through record.Page.
type TableScan struct {
	tx          Transactor
	layout      *record.Layout
	rp          *record.Page
	filename    string
	currentslot int
}

// NewTableScan opens tblname.tbl (creating its first block if the file
// is empty) and positions before the first record.
func NewTableScan(tx Transactor, tblname string, layout *record.Layout) (*TableScan, error) {
	ts := &TableScan{
		tx:       tx,
		layout:   layout,
		filename: tblname + ".tbl",
	}
	n, err := tx.Size(ts.filename)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if err := ts.moveToNewBlock(); err != nil {
			return nil, err
		}
	} else {
		if err := ts.moveToBlock(0); err != nil {
			return nil, err
		}
	}
	return ts, nil
}

func (ts *TableScan) Close() {
	if ts.rp != nil {
		ts.tx.Unpin(ts.rp.Block())
	}
}

func (ts *TableScan) BeforeFirst() {
	_ = ts.moveToBlock(0)
}

func (ts *TableScan) Next() bool {
	slot, err := ts.rp.NextAfter(ts.currentslot)
	if err != nil {
		return false
	}
	ts.currentslot = slot
	for ts.currentslot < 0 {
		last, err := ts.atLastBlock()
		if err != nil {
			return false
		}
		if last {
			return false
		}
		if err := ts.moveToBlock(ts.rp.Block().Blknum + 1); err != nil {
			return false
		}
		slot, err = ts.rp.NextAfter(ts.currentslot)
		if err != nil {
			return false
		}
		ts.currentslot = slot
	}
	return true
}

func (ts *TableScan) GetInt(fldname string) (int, error) {
	return ts.rp.GetInt(ts.currentslot, fldname)
}

func (ts *TableScan) GetString(fldname string) (string, error) {
	return ts.rp.GetString(ts.currentslot, fldname)
}

func (ts *TableScan) GetVal(fldname string) (Constant, error) {
	switch ts.layout.Schema().Type(fldname) {
	case record.Integer:
		v, err := ts.GetInt(fldname)
		if err != nil {
			return Constant{}, err
		}
		return NewIntConstant(v), nil
	case record.Varchar:
		v, err := ts.GetString(fldname)
		if err != nil {
			return Constant{}, err
		}
		return NewStringConstant(v), nil
	default:
		return Constant{}, fmt.Errorf("query: unknown field type for %q", fldname)
	}
}

func (ts *TableScan) HasField(fldname string) bool {
	return ts.layout.Schema().HasField(fldname)
}

func (ts *TableScan) SetInt(fldname string, val int) error {
	return ts.rp.SetInt(ts.currentslot, fldname, val)
}

func (ts *TableScan) SetString(fldname string, val string) error {
	return ts.rp.SetString(ts.currentslot, fldname, val)
}

func (ts *TableScan) SetVal(fldname string, val Constant) error {
	switch ts.layout.Schema().Type(fldname) {
	case record.Integer:
		return ts.SetInt(fldname, val.AsInt())
	case record.Varchar:
		return ts.SetString(fldname, val.AsString())
	default:
		return fmt.Errorf("query: unknown field type for %q", fldname)
	}
}

func (ts *TableScan) Insert() error {
	slot, err := ts.rp.InsertAfter(ts.currentslot)
	if err != nil {
		return err
	}
	ts.currentslot = slot
	for ts.currentslot < 0 {
		last, err := ts.atLastBlock()
		if err != nil {
			return err
		}
		if last {
			if err := ts.moveToNewBlock(); err != nil {
				return err
			}
		} else {
			if err := ts.moveToBlock(ts.rp.Block().Blknum + 1); err != nil {
				return err
			}
		}
		slot, err = ts.rp.InsertAfter(ts.currentslot)
		if err != nil {
			return err
		}
		ts.currentslot = slot
	}
	return nil
}

func (ts *TableScan) Delete() error {
	return ts.rp.Delete(ts.currentslot)
}

func (ts *TableScan) MoveToRID(rid RID) error {
	ts.Close()
	blk := file.NewBlockId(ts.filename, rid.Blknum)
	rp, err := record.NewPage(ts.tx, blk, ts.layout)
	if err != nil {
		return err
	}
	ts.rp = rp
	ts.currentslot = rid.Slot
	return nil
}

func (ts *TableScan) GetRID() RID {
	return RID{Blknum: ts.rp.Block().Blknum, Slot: ts.currentslot}
}

func (ts *TableScan) moveToBlock(blknum int) error {
	ts.Close()
	blk := file.NewBlockId(ts.filename, blknum)
	rp, err := record.NewPage(ts.tx, blk, ts.layout)
	if err != nil {
		return err
	}
	ts.rp = rp
	ts.currentslot = -1
	return nil
}

func (ts *TableScan) moveToNewBlock() error {
	ts.Close()
	blk, err := ts.tx.Append(ts.filename)
	if err != nil {
		return err
	}
	rp, err := record.NewPage(ts.tx, blk, ts.layout)
	if err != nil {
		return err
	}
	ts.rp = rp
	if err := ts.rp.Format(); err != nil {
		return err
	}
	ts.currentslot = -1
	return nil
}

func (ts *TableScan) atLastBlock() (bool, error) {
	n, err := ts.tx.Size(ts.filename)
	if err != nil {
		return false, err
	}
	return ts.rp.Block().Blknum == n-1, nil
}
