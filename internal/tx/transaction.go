package tx

import (
	"fmt"
	"sync/atomic"

	"simpledb/internal/buffer"
	"simpledb/internal/concurrency"
	"simpledb/internal/file"
	"simpledb/internal/recovery"
	"simpledb/internal/wal"
)

// Counter hands out strictly increasing transaction numbers. The engine
// owns exactly one and shares a pointer with every new Transaction,
// keeping the process-wide counter out of a package-level global.
type Counter struct {
	next atomic.Int64
}

// NewCounter returns a counter whose first Next() call yields 1.
func NewCounter() *Counter {
	return &Counter{}
}

// Next returns the next transaction number.
func (c *Counter) Next() int {
	return int(c.next.Add(1))
}

// Transaction binds one transaction's buffers, locks, and recovery log
// together. It is not safe for concurrent use by more than one goroutine.
type Transaction struct {
	fm        *file.Mgr
	bm        *buffer.Mgr
	recovery  *recovery.Mgr
	concur    *concurrency.Mgr
	buffers   *bufferList
	txnum     int
}

// New starts a new transaction: it is assigned the next number from
// counter, writes its START record, and is ready to pin/read/write.
func New(fm *file.Mgr, lm *wal.Mgr, bm *buffer.Mgr, locks *concurrency.Table, counter *Counter) (*Transaction, error) {
	t := &Transaction{
		fm:      fm,
		bm:      bm,
		concur:  concurrency.NewMgr(locks),
		buffers: newBufferList(bm),
		txnum:   counter.Next(),
	}
	rm, err := recovery.NewMgr(t, t.txnum, lm, bm)
	if err != nil {
		return nil, err
	}
	t.recovery = rm
	return t, nil
}

// TxNumber returns this transaction's unique number.
func (t *Transaction) TxNumber() int {
	return t.txnum
}

// Pin pins blk for the lifetime of this transaction (or until a matching
// Unpin).
func (t *Transaction) Pin(blk file.BlockId) error {
	if err := t.buffers.pin(blk); err != nil {
		return fmt.Errorf("tx %d: pin %s: %w", t.txnum, blk, err)
	}
	return nil
}

// Unpin releases one pin on blk acquired by this transaction.
func (t *Transaction) Unpin(blk file.BlockId) {
	t.buffers.unpin(blk)
}

// GetInt takes a shared lock on blk and reads a 32-bit int at offset.
func (t *Transaction) GetInt(blk file.BlockId, offset int) (int, error) {
	if err := t.concur.SLock(blk); err != nil {
		return 0, fmt.Errorf("tx %d: %w", t.txnum, err)
	}
	buf, err := t.buffers.getBuffer(blk)
	if err != nil {
		return 0, err
	}
	return buf.Contents().GetInt(offset), nil
}

// GetString takes a shared lock on blk and reads a string at offset.
func (t *Transaction) GetString(blk file.BlockId, offset int) (string, error) {
	if err := t.concur.SLock(blk); err != nil {
		return "", fmt.Errorf("tx %d: %w", t.txnum, err)
	}
	buf, err := t.buffers.getBuffer(blk)
	if err != nil {
		return "", err
	}
	return buf.Contents().GetString(offset), nil
}

// SetInt takes an exclusive lock on blk, optionally logs the pre-image,
// then writes val at offset.
func (t *Transaction) SetInt(blk file.BlockId, offset, val int, okToLog bool) error {
	if err := t.concur.XLock(blk); err != nil {
		return fmt.Errorf("tx %d: %w", t.txnum, err)
	}
	buf, err := t.buffers.getBuffer(blk)
	if err != nil {
		return err
	}
	lsn := -1
	if okToLog {
		lsn, err = t.recovery.SetInt(buf, offset)
		if err != nil {
			return err
		}
	}
	buf.Contents().SetInt(offset, val)
	buf.SetModified(t.txnum, lsn)
	return nil
}

// SetString takes an exclusive lock on blk, optionally logs the
// pre-image, then writes val at offset.
func (t *Transaction) SetString(blk file.BlockId, offset int, val string, okToLog bool) error {
	if err := t.concur.XLock(blk); err != nil {
		return fmt.Errorf("tx %d: %w", t.txnum, err)
	}
	buf, err := t.buffers.getBuffer(blk)
	if err != nil {
		return err
	}
	lsn := -1
	if okToLog {
		lsn, err = t.recovery.SetString(buf, offset)
		if err != nil {
			return err
		}
	}
	buf.Contents().SetString(offset, val)
	buf.SetModified(t.txnum, lsn)
	return nil
}

// Size takes a shared lock on the EOF pseudo-block and returns the number
// of blocks in filename, serializing against concurrent Append calls.
func (t *Transaction) Size(filename string) (int, error) {
	dummy := file.NewBlockId(filename, file.EndOfFile)
	if err := t.concur.SLock(dummy); err != nil {
		return 0, fmt.Errorf("tx %d: %w", t.txnum, err)
	}
	n, err := t.fm.Length(filename)
	if err != nil {
		return 0, err
	}
	return n, nil
}

// Append takes an exclusive lock on the EOF pseudo-block and grows
// filename by one block.
func (t *Transaction) Append(filename string) (file.BlockId, error) {
	dummy := file.NewBlockId(filename, file.EndOfFile)
	if err := t.concur.XLock(dummy); err != nil {
		return file.BlockId{}, fmt.Errorf("tx %d: %w", t.txnum, err)
	}
	return t.fm.Append(filename)
}

// BlockSize returns the database's fixed block size.
func (t *Transaction) BlockSize() int {
	return t.fm.BlockSize()
}

// AvailableBuffers returns the number of currently unpinned buffers in the
// shared pool.
func (t *Transaction) AvailableBuffers() int {
	return t.bm.Available()
}

// Commit durably commits this transaction: flush its buffers, write
// COMMIT, release its locks, unpin its buffers.
func (t *Transaction) Commit() error {
	if err := t.recovery.Commit(); err != nil {
		return fmt.Errorf("tx %d: commit: %w", t.txnum, err)
	}
	t.concur.Release()
	t.buffers.unpinAll()
	fmt.Printf("transaction %d committed\n", t.txnum)
	return nil
}

// Rollback undoes this transaction's writes, releases its locks, and
// unpins its buffers.
func (t *Transaction) Rollback() error {
	if err := t.recovery.Rollback(); err != nil {
		return fmt.Errorf("tx %d: rollback: %w", t.txnum, err)
	}
	t.concur.Release()
	t.buffers.unpinAll()
	fmt.Printf("transaction %d rolled back\n", t.txnum)
	return nil
}

// Recover replays undo-only recovery. It is meant to be called once, on a
// dedicated bootstrap transaction, before any user transaction starts.
func (t *Transaction) Recover() error {
	if err := t.bm.FlushAll(t.txnum); err != nil {
		return err
	}
	return t.recovery.Recover()
}
