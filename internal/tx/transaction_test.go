package tx

import (
	"testing"

	"simpledb/internal/buffer"
	"simpledb/internal/concurrency"
	"simpledb/internal/file"
	"simpledb/internal/wal"
)

func newTestStack(t *testing.T) (*file.Mgr, *wal.Mgr, *buffer.Mgr, *concurrency.Table, *Counter) {
	t.Helper()
	fm, err := file.NewMgr(t.TempDir(), 400)
	if err != nil {
		t.Fatal(err)
	}
	lm, err := wal.NewMgr(fm, "test.log")
	if err != nil {
		t.Fatal(err)
	}
	bm := buffer.NewMgr(fm, lm, 8)
	return fm, lm, bm, concurrency.NewTable(), NewCounter()
}

func TestCounterAssignsDistinctNumbers(t *testing.T) {
	c := NewCounter()
	a, b := c.Next(), c.Next()
	if a == b {
		t.Fatalf("expected distinct numbers, got %d twice", a)
	}
}

func TestSetGetIntRoundTrip(t *testing.T) {
	fm, lm, bm, locks, counter := newTestStack(t)
	txn, err := New(fm, lm, bm, locks, counter)
	if err != nil {
		t.Fatal(err)
	}
	blk, err := txn.Append("t.tbl")
	if err != nil {
		t.Fatal(err)
	}
	if err := txn.Pin(blk); err != nil {
		t.Fatal(err)
	}
	if err := txn.SetInt(blk, 4, 777, true); err != nil {
		t.Fatal(err)
	}
	got, err := txn.GetInt(blk, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got != 777 {
		t.Fatalf("GetInt() = %d, want 777", got)
	}
	if err := txn.Commit(); err != nil {
		t.Fatal(err)
	}
}

func TestSizeAndAppendGrowFile(t *testing.T) {
	fm, lm, bm, locks, counter := newTestStack(t)
	txn, err := New(fm, lm, bm, locks, counter)
	if err != nil {
		t.Fatal(err)
	}
	n0, err := txn.Size("new.tbl")
	if err != nil {
		t.Fatal(err)
	}
	if n0 != 0 {
		t.Fatalf("Size() on a nonexistent file = %d, want 0", n0)
	}
	if _, err := txn.Append("new.tbl"); err != nil {
		t.Fatal(err)
	}
	n1, err := txn.Size("new.tbl")
	if err != nil {
		t.Fatal(err)
	}
	if n1 != 1 {
		t.Fatalf("Size() after one Append = %d, want 1", n1)
	}
	txn.Commit()
}

func TestGetIntWithoutPinFails(t *testing.T) {
	fm, lm, bm, locks, counter := newTestStack(t)
	txn, err := New(fm, lm, bm, locks, counter)
	if err != nil {
		t.Fatal(err)
	}
	blk := file.NewBlockId("never-pinned.tbl", 0)
	if _, err := txn.GetInt(blk, 0); err == nil {
		t.Fatal("expected an error reading an unpinned block")
	}
	txn.Rollback()
}
