package buffer

import (
	"testing"

	"simpledb/internal/file"
	"simpledb/internal/wal"
)

func newTestMgr(t *testing.T, numBuffers int) (*file.Mgr, *Mgr) {
	t.Helper()
	fm, err := file.NewMgr(t.TempDir(), 64)
	if err != nil {
		t.Fatal(err)
	}
	lm, err := wal.NewMgr(fm, "test.log")
	if err != nil {
		t.Fatal(err)
	}
	return fm, NewMgr(fm, lm, numBuffers)
}

func TestPinReusesResidentBuffer(t *testing.T) {
	fm, bm := newTestMgr(t, 3)
	blk, err := fm.Append("t.tbl")
	if err != nil {
		t.Fatal(err)
	}

	b1, err := bm.Pin(blk)
	if err != nil {
		t.Fatal(err)
	}
	b2, err := bm.Pin(blk)
	if err != nil {
		t.Fatal(err)
	}
	if b1 != b2 {
		t.Fatal("expected pinning the same block twice to return the same buffer")
	}
}

func TestAvailableDecreasesOnPin(t *testing.T) {
	fm, bm := newTestMgr(t, 2)
	blk, err := fm.Append("t.tbl")
	if err != nil {
		t.Fatal(err)
	}
	before := bm.Available()
	if _, err := bm.Pin(blk); err != nil {
		t.Fatal(err)
	}
	if got := bm.Available(); got != before-1 {
		t.Fatalf("Available() = %d, want %d", got, before-1)
	}
}

func TestPinExhaustionTimesOut(t *testing.T) {
	orig := MaxTime
	MaxTime = 0
	defer func() { MaxTime = orig }()

	fm, bm := newTestMgr(t, 1)
	blk0, err := fm.Append("t.tbl")
	if err != nil {
		t.Fatal(err)
	}
	blk1, err := fm.Append("t.tbl")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := bm.Pin(blk0); err != nil {
		t.Fatal(err)
	}
	if _, err := bm.Pin(blk1); err != ErrBufferAbort {
		t.Fatalf("Pin() on exhausted pool = %v, want ErrBufferAbort", err)
	}
}

func TestUnpinRestoresAvailability(t *testing.T) {
	fm, bm := newTestMgr(t, 1)
	blk, err := fm.Append("t.tbl")
	if err != nil {
		t.Fatal(err)
	}
	buf, err := bm.Pin(blk)
	if err != nil {
		t.Fatal(err)
	}
	if bm.Available() != 0 {
		t.Fatalf("Available() = %d, want 0", bm.Available())
	}
	bm.Unpin(buf)
	if bm.Available() != 1 {
		t.Fatalf("Available() = %d, want 1", bm.Available())
	}
}

func TestFlushAllWritesDirtyBuffersForTxn(t *testing.T) {
	fm, bm := newTestMgr(t, 2)
	blk, err := fm.Append("t.tbl")
	if err != nil {
		t.Fatal(err)
	}
	buf, err := bm.Pin(blk)
	if err != nil {
		t.Fatal(err)
	}
	buf.Contents().SetInt(0, 42)
	buf.SetModified(7, -1)

	if err := bm.FlushAll(7); err != nil {
		t.Fatal(err)
	}

	p := file.NewPage(64)
	if err := fm.Read(blk, p); err != nil {
		t.Fatal(err)
	}
	if got := p.GetInt(0); got != 42 {
		t.Fatalf("read back %d, want 42", got)
	}
}
