package engine

import (
	"os"
	"path/filepath"
	"testing"

	"simpledb/internal/config"
)

func TestOpenCreatesCatalogsOnFreshDirectory(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir, config.Default())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := os.Stat(filepath.Join(dir, metaFileName)); err != nil {
		t.Fatalf("expected a bootstrap marker file: %v", err)
	}

	txn, err := db.NewTx()
	if err != nil {
		t.Fatal(err)
	}
	names, err := db.MetadataMgr().ListTables(txn)
	if err != nil {
		t.Fatal(err)
	}
	if err := txn.Commit(); err != nil {
		t.Fatal(err)
	}

	want := map[string]bool{"tblcat": false, "fldcat": false, "viewcat": false, "idxcat": false}
	for _, n := range names {
		if _, ok := want[n]; ok {
			want[n] = true
		}
	}
	for n, found := range want {
		if !found {
			t.Fatalf("ListTables() missing catalog %q, got %v", n, names)
		}
	}
}

func TestOpenReopenPreservesData(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()

	db1, err := Open(dir, cfg)
	if err != nil {
		t.Fatal(err)
	}
	txn1, err := db1.NewTx()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := db1.ExecuteUpdate("create table t (a int)", txn1); err != nil {
		t.Fatal(err)
	}
	if _, err := db1.ExecuteUpdate("insert into t (a) values (1)", txn1); err != nil {
		t.Fatal(err)
	}
	if err := txn1.Commit(); err != nil {
		t.Fatal(err)
	}
	if err := db1.Close(); err != nil {
		t.Fatal(err)
	}

	db2, err := Open(dir, cfg)
	if err != nil {
		t.Fatal(err)
	}
	txn2, err := db2.NewTx()
	if err != nil {
		t.Fatal(err)
	}
	scan, _, err := db2.ExecuteQuery("select a from t", txn2)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for scan.Next() {
		v, err := scan.GetInt("a")
		if err != nil {
			t.Fatal(err)
		}
		if v != 1 {
			t.Fatalf("GetInt(a) = %d, want 1", v)
		}
		count++
	}
	scan.Close()
	if count != 1 {
		t.Fatalf("scanned %d rows after reopen, want 1", count)
	}
	if err := txn2.Commit(); err != nil {
		t.Fatal(err)
	}
}

func TestStatsReportsExpectedKeys(t *testing.T) {
	dir := t.TempDir()
	db, err := Open(dir, config.Default())
	if err != nil {
		t.Fatal(err)
	}
	stats := db.Stats()
	for _, key := range []string{"available_buffers", "buffer_pool_size", "block_size"} {
		if _, ok := stats[key]; !ok {
			t.Fatalf("Stats() missing key %q: %v", key, stats)
		}
	}
}

func TestOpenHonorsLockAndBufferWaitOverrides(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.LockWait = 25
	cfg.BufferWait = 30

	if _, err := Open(dir, cfg); err != nil {
		t.Fatal(err)
	}
}
