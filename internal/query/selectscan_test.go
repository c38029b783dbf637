package query

import "testing"

func TestSelectScanFiltersRows(t *testing.T) {
	txn := newTestTx(t)
	layout := testStudentLayout()
	ts, err := NewTableScan(txn, "student", layout)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		if err := ts.Insert(); err != nil {
			t.Fatal(err)
		}
		if err := ts.SetInt("id", i); err != nil {
			t.Fatal(err)
		}
	}

	pred := NewPredicate(NewTerm(NewFieldExpression("id"), NewConstantExpression(NewIntConstant(3))))
	ss := NewSelectScan(ts, pred)
	defer ss.Close()

	ss.BeforeFirst()
	count := 0
	for ss.Next() {
		v, err := ss.GetInt("id")
		if err != nil {
			t.Fatal(err)
		}
		if v != 3 {
			t.Fatalf("GetInt(id) = %d, want 3", v)
		}
		count++
	}
	if count != 1 {
		t.Fatalf("matched %d rows, want 1", count)
	}
}

func TestSelectScanUpdatePassesThrough(t *testing.T) {
	txn := newTestTx(t)
	layout := testStudentLayout()
	ts, err := NewTableScan(txn, "student", layout)
	if err != nil {
		t.Fatal(err)
	}
	if err := ts.Insert(); err != nil {
		t.Fatal(err)
	}
	if err := ts.SetInt("id", 1); err != nil {
		t.Fatal(err)
	}

	pred := NewPredicate(NewTerm(NewFieldExpression("id"), NewConstantExpression(NewIntConstant(1))))
	ss := NewSelectScan(ts, pred)
	defer ss.Close()

	ss.BeforeFirst()
	if !ss.Next() {
		t.Fatal("expected the matching row")
	}
	if err := ss.SetInt("id", 99); err != nil {
		t.Fatal(err)
	}
	v, err := ss.GetInt("id")
	if err != nil {
		t.Fatal(err)
	}
	if v != 99 {
		t.Fatalf("GetInt(id) after SetInt = %d, want 99", v)
	}

	if err := ss.Delete(); err != nil {
		t.Fatal(err)
	}
	ss.BeforeFirst()
	if ss.Next() {
		t.Fatal("expected no rows to remain after delete")
	}
}
