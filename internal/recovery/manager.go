package recovery

import (
	"fmt"

	"simpledb/internal/buffer"
	"simpledb/internal/wal"
)

// flusher is the one BufferMgr method RecoveryMgr needs.
type flusher interface {
	FlushAll(txnum int) error
}

// Mgr is one transaction's recovery manager: it writes pre-image log
// records before every logged mutation and can undo them (rollback) or
// replay undo across a crash (recover).
type Mgr struct {
	lm     *wal.Mgr
	bm     flusher
	tx     Transactor
	txnum  int
}

// NewMgr constructs a RecoveryMgr for txnum and immediately writes its
// START record, as the original design requires every transaction's log
// entries to be bracketed by START...COMMIT|ROLLBACK.
func NewMgr(tx Transactor, txnum int, lm *wal.Mgr, bm flusher) (*Mgr, error) {
	m := &Mgr{lm: lm, bm: bm, tx: tx, txnum: txnum}
	if _, err := WriteStartToLog(lm, txnum); err != nil {
		return nil, fmt.Errorf("recovery: cannot write START: %w", err)
	}
	return m, nil
}

// Commit flushes every buffer this transaction dirtied, writes COMMIT, and
// forces the log through that record.
func (m *Mgr) Commit() error {
	if err := m.bm.FlushAll(m.txnum); err != nil {
		return err
	}
	lsn, err := WriteCommitToLog(m.lm, m.txnum)
	if err != nil {
		return fmt.Errorf("recovery: cannot write COMMIT: %w", err)
	}
	return m.lm.Flush(lsn)
}

// Rollback undoes every SETINT/SETSTRING this transaction wrote, then
// flushes its buffers and writes ROLLBACK.
func (m *Mgr) Rollback() error {
	if err := m.doRollback(); err != nil {
		return err
	}
	if err := m.bm.FlushAll(m.txnum); err != nil {
		return err
	}
	lsn, err := WriteRollbackToLog(m.lm, m.txnum)
	if err != nil {
		return fmt.Errorf("recovery: cannot write ROLLBACK: %w", err)
	}
	return m.lm.Flush(lsn)
}

// Recover is run once at startup on a fresh bootstrap transaction: walking
// the log backward as far as the most recent checkpoint, it undoes every
// write of a transaction with no COMMIT or ROLLBACK record, then writes a
// fresh CHECKPOINT.
func (m *Mgr) Recover() error {
	if err := m.doRecover(); err != nil {
		return err
	}
	if err := m.bm.FlushAll(m.txnum); err != nil {
		return err
	}
	lsn, err := WriteCheckpointToLog(m.lm)
	if err != nil {
		return fmt.Errorf("recovery: cannot write CHECKPOINT: %w", err)
	}
	return m.lm.Flush(lsn)
}

// SetInt logs the pre-image of an int write and returns the lsn that
// justifies the mutation the caller is about to make.
func (m *Mgr) SetInt(buf *buffer.Buffer, offset int) (int, error) {
	oldval := buf.Contents().GetInt(offset)
	return WriteSetIntToLog(m.lm, m.txnum, buf.Block(), offset, oldval)
}

// SetString logs the pre-image of a string write.
func (m *Mgr) SetString(buf *buffer.Buffer, offset int) (int, error) {
	oldval := buf.Contents().GetString(offset)
	return WriteSetStringToLog(m.lm, m.txnum, buf.Block(), offset, oldval)
}

func (m *Mgr) doRollback() error {
	it, err := m.lm.Iterator()
	if err != nil {
		return fmt.Errorf("recovery: cannot rollback: %w", err)
	}
	for it.HasNext() {
		b, err := it.Next()
		if err != nil {
			return err
		}
		rec, err := CreateLogRecord(b)
		if err != nil {
			return err
		}
		if rec.TxNumber() == m.txnum {
			if rec.Op() == Start {
				return nil
			}
			if err := rec.Undo(m.tx); err != nil {
				return fmt.Errorf("recovery: undo failed during rollback: %w", err)
			}
		}
	}
	return nil
}

func (m *Mgr) doRecover() error {
	it, err := m.lm.Iterator()
	if err != nil {
		return fmt.Errorf("recovery: cannot recover: %w", err)
	}
	finished := make(map[int]bool)
	for it.HasNext() {
		b, err := it.Next()
		if err != nil {
			return err
		}
		rec, err := CreateLogRecord(b)
		if err != nil {
			return err
		}
		switch rec.Op() {
		case Checkpoint:
			return nil
		case Commit, Rollback:
			finished[rec.TxNumber()] = true
		default:
			if !finished[rec.TxNumber()] {
				if err := rec.Undo(m.tx); err != nil {
					return fmt.Errorf("recovery: undo failed during recover: %w", err)
				}
			}
		}
	}
	return nil
}
