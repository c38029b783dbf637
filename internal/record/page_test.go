package record

import (
	"testing"

	"simpledb/internal/buffer"
	"simpledb/internal/concurrency"
	"simpledb/internal/file"
	"simpledb/internal/tx"
	"simpledb/internal/wal"
)

func newTestTx(t *testing.T) *tx.Transaction {
	t.Helper()
	fm, err := file.NewMgr(t.TempDir(), 128)
	if err != nil {
		t.Fatal(err)
	}
	lm, err := wal.NewMgr(fm, "test.log")
	if err != nil {
		t.Fatal(err)
	}
	bm := buffer.NewMgr(fm, lm, 8)
	txn, err := tx.New(fm, lm, bm, concurrency.NewTable(), tx.NewCounter())
	if err != nil {
		t.Fatal(err)
	}
	return txn
}

func testLayout() *Layout {
	sch := NewSchema()
	sch.AddIntField("id")
	sch.AddStringField("name", 8)
	return LayoutFromSchema(sch)
}

func TestFormatInitializesEverySlotEmpty(t *testing.T) {
	txn := newTestTx(t)
	blk, err := txn.Append("t.tbl")
	if err != nil {
		t.Fatal(err)
	}
	layout := testLayout()
	rp, err := NewPage(txn, blk, layout)
	if err != nil {
		t.Fatal(err)
	}
	if err := rp.Format(); err != nil {
		t.Fatal(err)
	}
	if slot, err := rp.NextAfter(-1); err != nil || slot != -1 {
		t.Fatalf("NextAfter(-1) on a freshly formatted page = (%d, %v), want (-1, nil)", slot, err)
	}
}

func TestInsertAfterThenReadBack(t *testing.T) {
	txn := newTestTx(t)
	blk, err := txn.Append("t.tbl")
	if err != nil {
		t.Fatal(err)
	}
	layout := testLayout()
	rp, err := NewPage(txn, blk, layout)
	if err != nil {
		t.Fatal(err)
	}
	if err := rp.Format(); err != nil {
		t.Fatal(err)
	}

	slot, err := rp.InsertAfter(-1)
	if err != nil {
		t.Fatal(err)
	}
	if slot < 0 {
		t.Fatal("expected a free slot in a freshly formatted page")
	}
	if err := rp.SetInt(slot, "id", 42); err != nil {
		t.Fatal(err)
	}
	if err := rp.SetString(slot, "name", "alice"); err != nil {
		t.Fatal(err)
	}

	gotID, err := rp.GetInt(slot, "id")
	if err != nil {
		t.Fatal(err)
	}
	if gotID != 42 {
		t.Fatalf("GetInt(id) = %d, want 42", gotID)
	}
	gotName, err := rp.GetString(slot, "name")
	if err != nil {
		t.Fatal(err)
	}
	if gotName != "alice" {
		t.Fatalf("GetString(name) = %q, want %q", gotName, "alice")
	}

	if next, err := rp.NextAfter(slot); err != nil || next != -1 {
		t.Fatalf("NextAfter() past the only used slot = (%d, %v), want (-1, nil)", next, err)
	}
}

func TestDeleteMakesSlotReusable(t *testing.T) {
	txn := newTestTx(t)
	blk, err := txn.Append("t.tbl")
	if err != nil {
		t.Fatal(err)
	}
	layout := testLayout()
	rp, err := NewPage(txn, blk, layout)
	if err != nil {
		t.Fatal(err)
	}
	if err := rp.Format(); err != nil {
		t.Fatal(err)
	}
	slot, err := rp.InsertAfter(-1)
	if err != nil {
		t.Fatal(err)
	}
	if err := rp.Delete(slot); err != nil {
		t.Fatal(err)
	}
	if used, err := rp.NextAfter(-1); err != nil || used != -1 {
		t.Fatalf("NextAfter(-1) after delete = (%d, %v), want (-1, nil)", used, err)
	}
	if free, err := rp.InsertAfter(-1); err != nil || free != slot {
		t.Fatalf("InsertAfter(-1) after delete = (%d, %v), want (%d, nil)", free, err, slot)
	}
}
