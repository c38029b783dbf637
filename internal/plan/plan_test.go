package plan

import (
	"testing"

	"simpledb/internal/buffer"
	"simpledb/internal/concurrency"
	"simpledb/internal/file"
	"simpledb/internal/metadata"
	"simpledb/internal/parse"
	"simpledb/internal/query"
	"simpledb/internal/record"
	"simpledb/internal/tx"
	"simpledb/internal/wal"
)

// newTestTx returns a transaction plus a factory that mints further
// independent transactions against the same underlying file, log,
// buffer, and lock state.
func newTestTx(t *testing.T) (*tx.Transaction, query.TransactorFactory) {
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
	locks := concurrency.NewTable()
	counter := tx.NewCounter()
	txn, err := tx.New(fm, lm, bm, locks, counter)
	if err != nil {
		t.Fatal(err)
	}
	newTx := func() (query.FreshTransactor, error) {
		return tx.New(fm, lm, bm, locks, counter)
	}
	return txn, newTx
}

// newTestCatalog builds a metadata.Mgr with a "student" table holding n rows.
func newTestCatalog(t *testing.T, txn *tx.Transaction, newTx query.TransactorFactory, n int) *metadata.Mgr {
	t.Helper()
	mdm, err := metadata.NewMgr(true, metadata.DefaultMaxName, metadata.DefaultMaxViewDef, txn, newTx)
	if err != nil {
		t.Fatal(err)
	}
	sch := record.NewSchema()
	sch.AddIntField("id")
	sch.AddStringField("name", 10)
	if err := mdm.CreateTable("student", sch, txn); err != nil {
		t.Fatal(err)
	}
	layout, err := mdm.GetLayout("student", txn)
	if err != nil {
		t.Fatal(err)
	}
	ts, err := query.NewTableScan(txn, "student", layout)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < n; i++ {
		if err := ts.Insert(); err != nil {
			t.Fatal(err)
		}
		if err := ts.SetInt("id", i); err != nil {
			t.Fatal(err)
		}
	}
	ts.Close()
	return mdm
}

func TestTablePlanCostEstimates(t *testing.T) {
	txn, newTx := newTestTx(t)
	mdm := newTestCatalog(t, txn, newTx, 4)
	tp, err := NewTablePlan(txn, "student", mdm)
	if err != nil {
		t.Fatal(err)
	}
	if got := tp.RecordsOutput(); got != 4 {
		t.Fatalf("RecordsOutput() = %d, want 4", got)
	}
	if !tp.Schema().HasField("id") {
		t.Fatal("plan schema should expose id")
	}
}

func TestSelectPlanReducesRecordsOutput(t *testing.T) {
	txn, newTx := newTestTx(t)
	mdm := newTestCatalog(t, txn, newTx, 9)
	tp, err := NewTablePlan(txn, "student", mdm)
	if err != nil {
		t.Fatal(err)
	}
	pred := query.NewPredicate(query.NewTerm(
		query.NewFieldExpression("id"), query.NewConstantExpression(query.NewIntConstant(1)),
	))
	sp := NewSelectPlan(tp, pred)
	if got, want := sp.RecordsOutput(), tp.RecordsOutput()/tp.DistinctValues("id"); got != want {
		t.Fatalf("RecordsOutput() = %d, want %d", got, want)
	}
	if got := sp.DistinctValues("id"); got != 1 {
		t.Fatalf("DistinctValues(id) under an equality predicate = %d, want 1", got)
	}
}

func TestProjectPlanRestrictsSchema(t *testing.T) {
	txn, newTx := newTestTx(t)
	mdm := newTestCatalog(t, txn, newTx, 2)
	tp, err := NewTablePlan(txn, "student", mdm)
	if err != nil {
		t.Fatal(err)
	}
	pp := NewProjectPlan(tp, []string{"id"})
	if !pp.Schema().HasField("id") {
		t.Fatal("projected schema should include id")
	}
	if pp.Schema().HasField("name") {
		t.Fatal("projected schema should not include name")
	}
	s, err := pp.Open()
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	count := 0
	for s.Next() {
		count++
	}
	if count != 2 {
		t.Fatalf("scanned %d rows, want 2", count)
	}
}

func TestProductPlanMultipliesRecordsOutput(t *testing.T) {
	txn, newTx := newTestTx(t)
	mdm := newTestCatalog(t, txn, newTx, 3)

	sch2 := record.NewSchema()
	sch2.AddIntField("sid")
	if err := mdm.CreateTable("dept", sch2, txn); err != nil {
		t.Fatal(err)
	}
	layout, err := mdm.GetLayout("dept", txn)
	if err != nil {
		t.Fatal(err)
	}
	ts, err := query.NewTableScan(txn, "dept", layout)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if err := ts.Insert(); err != nil {
			t.Fatal(err)
		}
		if err := ts.SetInt("sid", i); err != nil {
			t.Fatal(err)
		}
	}
	ts.Close()

	p1, err := NewTablePlan(txn, "student", mdm)
	if err != nil {
		t.Fatal(err)
	}
	p2, err := NewTablePlan(txn, "dept", mdm)
	if err != nil {
		t.Fatal(err)
	}
	prod := NewProductPlan(p1, p2)
	if got, want := prod.RecordsOutput(), 3*2; got != want {
		t.Fatalf("RecordsOutput() = %d, want %d", got, want)
	}
	if !prod.Schema().HasField("id") || !prod.Schema().HasField("sid") {
		t.Fatal("product schema should union both sides")
	}
}

func TestBasicQueryPlannerSingleTableRecordsOutput(t *testing.T) {
	txn, newTx := newTestTx(t)
	mdm := newTestCatalog(t, txn, newTx, 3)
	bp := NewBasicQueryPlanner(mdm)
	data := parse.QueryData{Fields: []string{"id"}, Tables: []string{"student"}}
	p, err := bp.CreatePlan(data, txn)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.RecordsOutput(); got != 3 {
		t.Fatalf("RecordsOutput() = %d, want 3", got)
	}
}

func TestBasicUpdatePlannerExecuteInsertAndDelete(t *testing.T) {
	txn, newTx := newTestTx(t)
	mdm := newTestCatalog(t, txn, newTx, 0)
	up := NewBasicUpdatePlanner(mdm)

	insertData := parse.InsertData{
		Tblname: "student",
		Flds:    []string{"id", "name"},
		Vals:    []query.Constant{query.NewIntConstant(1), query.NewStringConstant("amy")},
	}
	n, err := up.ExecuteInsert(insertData, txn)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("ExecuteInsert() = %d, want 1", n)
	}

	deleteData := parse.DeleteData{
		Tblname: "student",
		Pred: query.NewPredicate(query.NewTerm(
			query.NewFieldExpression("id"), query.NewConstantExpression(query.NewIntConstant(1)),
		)),
	}
	n, err = up.ExecuteDelete(deleteData, txn)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("ExecuteDelete() = %d, want 1", n)
	}
}

func TestBetterQueryPlannerPicksCheaperJoinOrder(t *testing.T) {
	txn, newTx := newTestTx(t)
	mdm := newTestCatalog(t, txn, newTx, 100)

	sch2 := record.NewSchema()
	sch2.AddIntField("sid")
	if err := mdm.CreateTable("dept", sch2, txn); err != nil {
		t.Fatal(err)
	}
	layout, err := mdm.GetLayout("dept", txn)
	if err != nil {
		t.Fatal(err)
	}
	ts, err := query.NewTableScan(txn, "dept", layout)
	if err != nil {
		t.Fatal(err)
	}
	if err := ts.Insert(); err != nil {
		t.Fatal(err)
	}
	if err := ts.SetInt("sid", 1); err != nil {
		t.Fatal(err)
	}
	ts.Close()

	bp := NewBetterQueryPlanner(mdm)
	data := parse.QueryData{Fields: []string{"id", "sid"}, Tables: []string{"student", "dept"}}
	p, err := bp.CreatePlan(data, txn)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := p.RecordsOutput(), 100*1; got != want {
		t.Fatalf("RecordsOutput() = %d, want %d", got, want)
	}

	studentPlan, err := NewTablePlan(txn, "student", mdm)
	if err != nil {
		t.Fatal(err)
	}
	deptPlan, err := NewTablePlan(txn, "dept", mdm)
	if err != nil {
		t.Fatal(err)
	}
	cheaper := NewProductPlan(deptPlan, studentPlan).BlocksAccessed()
	if alt := NewProductPlan(studentPlan, deptPlan).BlocksAccessed(); alt < cheaper {
		cheaper = alt
	}
	if got := p.BlocksAccessed(); got != cheaper {
		t.Fatalf("BlocksAccessed() = %d, want the cheaper join order's %d", got, cheaper)
	}
}

func TestBasicUpdatePlannerExecuteCreateTable(t *testing.T) {
	txn, newTx := newTestTx(t)
	mdm := newTestCatalog(t, txn, newTx, 0)
	up := NewBasicUpdatePlanner(mdm)

	sch := record.NewSchema()
	sch.AddIntField("x")
	if _, err := up.ExecuteCreateTable(parse.CreateTableData{Tblname: "extra", Sch: sch}, txn); err != nil {
		t.Fatal(err)
	}
	if _, err := mdm.GetLayout("extra", txn); err != nil {
		t.Fatalf("GetLayout(extra) failed after ExecuteCreateTable: %v", err)
	}
}
