// Package buffer implements the pinned, dirty-tracked page cache that sits
// between transactions and the file layer.
package buffer

import (
	"simpledb/internal/file"
	"simpledb/internal/wal"
)

// InvalidTxNum marks a buffer as clean (not modified by any transaction).
const InvalidTxNum = -1

// Buffer pairs one resident Page with the BlockId it currently holds.
type Buffer struct {
	fm  *file.Mgr
	lm  *wal.Mgr
	contents *file.Page
	blk      file.BlockId
	pins     int
	txnum    int
	lsn      int
}

func newBuffer(fm *file.Mgr, lm *wal.Mgr) *Buffer {
	return &Buffer{
		fm:       fm,
		lm:       lm,
		contents: file.NewPage(fm.BlockSize()),
		txnum:    InvalidTxNum,
		lsn:      -1,
	}
}

// Contents returns the page this buffer wraps.
func (b *Buffer) Contents() *file.Page {
	return b.contents
}

// Block returns the block this buffer currently holds.
func (b *Buffer) Block() file.BlockId {
	return b.blk
}

// SetModified records that txnum dirtied this buffer, justified by the log
// record at lsn (-1 if the write was not logged).
func (b *Buffer) SetModified(txnum, lsn int) {
	b.txnum = txnum
	if lsn >= 0 {
		b.lsn = lsn
	}
}

// IsPinned reports whether any transaction currently holds this buffer.
func (b *Buffer) IsPinned() bool {
	return b.pins > 0
}

// ModifyingTx returns the txnum that last dirtied this buffer, or
// InvalidTxNum if it is clean.
func (b *Buffer) ModifyingTx() int {
	return b.txnum
}

// flush writes the buffer's page to disk if it is dirty, first forcing the
// log up to the buffer's justifying LSN (write-ahead logging), then marks
// the buffer clean.
func (b *Buffer) flush() error {
	if b.txnum < 0 {
		return nil
	}
	if err := b.lm.Flush(b.lsn); err != nil {
		return err
	}
	if err := b.fm.Write(b.blk, b.contents); err != nil {
		return err
	}
	b.txnum = InvalidTxNum
	return nil
}

func (b *Buffer) pin() {
	b.pins++
}

func (b *Buffer) unpin() {
	b.pins--
}

func (b *Buffer) assignToBlock(blk file.BlockId) error {
	if err := b.flush(); err != nil {
		return err
	}
	b.blk = blk
	if err := b.fm.Read(blk, b.contents); err != nil {
		return err
	}
	b.pins = 0
	return nil
}
