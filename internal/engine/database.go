// Package engine wires the file, log, buffer, lock, and metadata layers
// into one running database and exposes the facade a CLI or test drives:
// open or create a directory, start transactions, plan and run statements.
package engine

import (
	"bytes"
	"fmt"
	"time"

	atomicfile "github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"simpledb/internal/buffer"
	"simpledb/internal/concurrency"
	"simpledb/internal/config"
	"simpledb/internal/file"
	"simpledb/internal/metadata"
	"simpledb/internal/plan"
	"simpledb/internal/query"
	"simpledb/internal/record"
	"simpledb/internal/tx"
	"simpledb/internal/wal"
)

const metaFileName = "simpledb.meta"

// marker is the informational record written once into a new database's
// directory. It plays no part in deciding whether the directory is new --
// that is still "did the directory already exist" (file.Mgr.IsNew) -- it
// only preserves the settings the database was created with, for a human
// or the CLI's .stat command to read back later.
type marker struct {
	BlockSize  int       `yaml:"block_size"`
	BufferSize int       `yaml:"buffer_size"`
	CreatedAt  time.Time `yaml:"created_at"`
}

// Database is one running engine instance: the storage stack plus the
// catalog and planner built on top of it.
type Database struct {
	cfg     config.Config
	fm      *file.Mgr
	lm      *wal.Mgr
	bm      *buffer.Mgr
	locks   *concurrency.Table
	counter *tx.Counter
	mdm     *metadata.Mgr
	planner *plan.Planner
}

// Open creates dirname if it does not already exist (printing "creating
// new database") or opens it and replays recovery (printing "recovering
// existing database"), matching the original engine's startup banner.
func Open(dirname string, cfg config.Config) (*Database, error) {
	fm, err := file.NewMgr(dirname, cfg.BlockSize)
	if err != nil {
		return nil, fmt.Errorf("engine: open file manager: %w", err)
	}
	if cfg.LockWait > 0 {
		concurrency.MaxTime = cfg.LockWait
	}
	if cfg.BufferWait > 0 {
		buffer.MaxTime = cfg.BufferWait
	}

	lm, err := wal.NewMgr(fm, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("engine: open log manager: %w", err)
	}
	bm := buffer.NewMgr(fm, lm, cfg.BufferSize)
	locks := concurrency.NewTable()
	counter := tx.NewCounter()

	bootTx, err := tx.New(fm, lm, bm, locks, counter)
	if err != nil {
		return nil, fmt.Errorf("engine: start bootstrap transaction: %w", err)
	}

	isNew := fm.IsNew()
	if isNew {
		fmt.Println("creating new database")
	} else {
		fmt.Println("recovering existing database")
		if err := bootTx.Recover(); err != nil {
			return nil, fmt.Errorf("engine: recover: %w", err)
		}
	}

	newTx := func() (query.FreshTransactor, error) {
		return tx.New(fm, lm, bm, locks, counter)
	}
	mdm, err := metadata.NewMgr(isNew, cfg.TableMgr.MaxName, cfg.ViewMgr.MaxViewDef, bootTx, newTx)
	if err != nil {
		return nil, fmt.Errorf("engine: bootstrap catalogs: %w", err)
	}
	if err := bootTx.Commit(); err != nil {
		return nil, fmt.Errorf("engine: commit bootstrap transaction: %w", err)
	}

	if isNew {
		if err := writeMarker(dirname, cfg); err != nil {
			return nil, err
		}
	}

	qplanner := plan.NewBetterQueryPlanner(mdm)
	uplanner := plan.NewBasicUpdatePlanner(mdm)

	return &Database{
		cfg:     cfg,
		fm:      fm,
		lm:      lm,
		bm:      bm,
		locks:   locks,
		counter: counter,
		mdm:     mdm,
		planner: plan.NewPlanner(qplanner, uplanner),
	}, nil
}

func writeMarker(dirname string, cfg config.Config) error {
	m := marker{BlockSize: cfg.BlockSize, BufferSize: cfg.BufferSize, CreatedAt: time.Now()}
	b, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("engine: encode bootstrap marker: %w", err)
	}
	path := dirname + "/" + metaFileName
	if err := atomicfile.WriteFile(path, bytes.NewReader(b)); err != nil {
		return fmt.Errorf("engine: write bootstrap marker: %w", err)
	}
	return nil
}

// NewTx starts a fresh transaction bound to this database's shared file,
// log, buffer, and lock state.
func (db *Database) NewTx() (*tx.Transaction, error) {
	return tx.New(db.fm, db.lm, db.bm, db.locks, db.counter)
}

// ExecuteQuery plans and opens cmd (a SELECT statement) under t, returning
// the resulting scan positioned before its first record and the schema it
// produces.
func (db *Database) ExecuteQuery(cmd string, t *tx.Transaction) (query.Scan, *record.Schema, error) {
	p, err := db.planner.CreateQueryPlan(cmd, t)
	if err != nil {
		return nil, nil, err
	}
	s, err := p.Open()
	if err != nil {
		return nil, nil, err
	}
	return s, p.Schema(), nil
}

// ExecuteUpdate plans and runs cmd (an INSERT/DELETE/UPDATE/CREATE
// statement) under t, returning the number of affected records (0 for
// DDL).
func (db *Database) ExecuteUpdate(cmd string, t *tx.Transaction) (int, error) {
	return db.planner.ExecuteUpdate(cmd, t)
}

// MetadataMgr exposes the catalog facade, e.g. for a CLI's .tables and
// .schema commands.
func (db *Database) MetadataMgr() *metadata.Mgr {
	return db.mdm
}

// Stats reports a snapshot of buffer pool occupancy for the CLI's .stat
// command.
func (db *Database) Stats() map[string]any {
	return map[string]any{
		"available_buffers": db.bm.Available(),
		"buffer_pool_size":  db.cfg.BufferSize,
		"block_size":        db.cfg.BlockSize,
	}
}

// Close releases every open file handle. Nothing in normal operation
// requires this -- FileMgr happily keeps files open for the process
// lifetime -- but it lets tests and a clean CLI exit tear down fully.
func (db *Database) Close() error {
	return db.fm.Close()
}
