// Package recovery implements undo-only, no-redo crash recovery: six log
// record kinds and the manager that writes and replays them.
package recovery

import (
	"fmt"

	"simpledb/internal/file"
)

// LogType identifies which of the six record kinds a log record is.
type LogType int

const (
	Checkpoint LogType = iota
	Start
	Commit
	Rollback
	SetInt
	SetString
)

// Transactor is the subset of Transaction behavior a LogRecord's Undo
// needs. Declaring it here (rather than importing the tx package) breaks
// the cycle between recovery and tx: RecoveryMgr is owned by a
// Transaction, and Undo needs to call back into that same Transaction.
type Transactor interface {
	Pin(blk file.BlockId) error
	Unpin(blk file.BlockId)
	SetInt(blk file.BlockId, offset, val int, okToLog bool) error
	SetString(blk file.BlockId, offset int, val string, okToLog bool) error
}

// LogRecord is any of the six variants recoverable from a raw log entry.
type LogRecord interface {
	Op() LogType
	TxNumber() int
	Undo(tx Transactor) error
}

// CreateLogRecord decodes the opcode-prefixed payload b into its concrete
// LogRecord variant.
func CreateLogRecord(b []byte) (LogRecord, error) {
	p := file.NewPageFromBytes(b)
	switch LogType(p.GetInt(0)) {
	case Checkpoint:
		return CheckpointRecord{}, nil
	case Start:
		return StartRecord{txnum: p.GetInt(4)}, nil
	case Commit:
		return CommitRecord{txnum: p.GetInt(4)}, nil
	case Rollback:
		return RollbackRecord{txnum: p.GetInt(4)}, nil
	case SetInt:
		return decodeSetInt(p), nil
	case SetString:
		return decodeSetString(p), nil
	default:
		return nil, fmt.Errorf("recovery: unknown log record opcode %d", p.GetInt(0))
	}
}

// CheckpointRecord marks a point before which recover() need not look.
type CheckpointRecord struct{}

func (CheckpointRecord) Op() LogType        { return Checkpoint }
func (CheckpointRecord) TxNumber() int      { return -1 }
func (CheckpointRecord) Undo(Transactor) error { return nil }
func (CheckpointRecord) String() string     { return "<CHECKPOINT>" }

// WriteCheckpointToLog appends a CHECKPOINT record.
func WriteCheckpointToLog(lm logAppender) (int, error) {
	p := file.NewPage(4)
	p.SetInt(0, int(Checkpoint))
	return lm.Append(p.Contents())
}

// StartRecord marks the beginning of a transaction's log entries.
type StartRecord struct{ txnum int }

func (r StartRecord) Op() LogType          { return Start }
func (r StartRecord) TxNumber() int        { return r.txnum }
func (StartRecord) Undo(Transactor) error  { return nil }
func (r StartRecord) String() string       { return fmt.Sprintf("<START %d>", r.txnum) }

// WriteStartToLog appends a START(txnum) record.
func WriteStartToLog(lm logAppender, txnum int) (int, error) {
	p := file.NewPage(8)
	p.SetInt(0, int(Start))
	p.SetInt(4, txnum)
	return lm.Append(p.Contents())
}

// CommitRecord marks a transaction as durably committed.
type CommitRecord struct{ txnum int }

func (r CommitRecord) Op() LogType         { return Commit }
func (r CommitRecord) TxNumber() int       { return r.txnum }
func (CommitRecord) Undo(Transactor) error { return nil }
func (r CommitRecord) String() string      { return fmt.Sprintf("<COMMIT %d>", r.txnum) }

// WriteCommitToLog appends a COMMIT(txnum) record.
func WriteCommitToLog(lm logAppender, txnum int) (int, error) {
	p := file.NewPage(8)
	p.SetInt(0, int(Commit))
	p.SetInt(4, txnum)
	return lm.Append(p.Contents())
}

// RollbackRecord marks a transaction as fully undone.
type RollbackRecord struct{ txnum int }

func (r RollbackRecord) Op() LogType         { return Rollback }
func (r RollbackRecord) TxNumber() int       { return r.txnum }
func (RollbackRecord) Undo(Transactor) error { return nil }
func (r RollbackRecord) String() string      { return fmt.Sprintf("<ROLLBACK %d>", r.txnum) }

// WriteRollbackToLog appends a ROLLBACK(txnum) record.
func WriteRollbackToLog(lm logAppender, txnum int) (int, error) {
	p := file.NewPage(8)
	p.SetInt(0, int(Rollback))
	p.SetInt(4, txnum)
	return lm.Append(p.Contents())
}

// logAppender is the one LogMgr method every WriteXToLog helper needs;
// declared locally so this package does not have to import wal just to
// name its Append method in a signature.
type logAppender interface {
	Append([]byte) (int, error)
}
