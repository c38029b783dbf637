// Package wal implements the append-only, right-to-left packed log that
// backs undo-only recovery.
package wal

import (
	"fmt"
	"sync"

	"simpledb/internal/file"
)

// Mgr is the log manager: one append-only file, written one block at a
// time, most-recent-record-first within each block.
type Mgr struct {
	mu           sync.Mutex
	fm           *file.Mgr
	logfile      string
	logpage      *file.Page
	currentBlk   file.BlockId
	latestLSN    int
	lastSavedLSN int
}

// NewMgr opens (or creates) logfile inside fm's directory.
func NewMgr(fm *file.Mgr, logfile string) (*Mgr, error) {
	m := &Mgr{
		fm:      fm,
		logfile: logfile,
		logpage: file.NewPage(fm.BlockSize()),
	}

	size, err := fm.Length(logfile)
	if err != nil {
		return nil, fmt.Errorf("wal: cannot open %s: %w", logfile, err)
	}
	if size == 0 {
		blk, err := m.appendNewBlock()
		if err != nil {
			return nil, err
		}
		m.currentBlk = blk
	} else {
		m.currentBlk = file.NewBlockId(logfile, size-1)
		if err := fm.Read(m.currentBlk, m.logpage); err != nil {
			return nil, fmt.Errorf("wal: cannot read last log block: %w", err)
		}
	}
	return m, nil
}

// Append places logrec at the high end of the current log page, flushing
// and rolling to a new block first if it does not fit. It returns the LSN
// assigned to the record; LSNs are strictly increasing from 1.
func (m *Mgr) Append(logrec []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	boundary := m.logpage.GetInt(0)
	bytesNeeded := len(logrec) + 4
	if boundary-bytesNeeded < 4 {
		if err := m.flushLocked(); err != nil {
			return 0, err
		}
		blk, err := m.appendNewBlock()
		if err != nil {
			return 0, err
		}
		m.currentBlk = blk
		boundary = m.logpage.GetInt(0)
	}
	recpos := boundary - bytesNeeded
	m.logpage.SetBytes(recpos, logrec)
	m.logpage.SetInt(0, recpos)
	m.latestLSN++
	return m.latestLSN, nil
}

// Flush forces the current log page to disk if lsn has not already been
// saved.
func (m *Mgr) Flush(lsn int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if lsn > m.lastSavedLSN {
		return m.flushLocked()
	}
	return nil
}

func (m *Mgr) flushLocked() error {
	if err := m.fm.Write(m.currentBlk, m.logpage); err != nil {
		return fmt.Errorf("wal: cannot flush log: %w", err)
	}
	m.lastSavedLSN = m.latestLSN
	return nil
}

func (m *Mgr) appendNewBlock() (file.BlockId, error) {
	blk, err := m.fm.Append(m.logfile)
	if err != nil {
		return file.BlockId{}, fmt.Errorf("wal: cannot extend log: %w", err)
	}
	m.logpage.SetInt(0, m.fm.BlockSize())
	if err := m.fm.Write(blk, m.logpage); err != nil {
		return file.BlockId{}, fmt.Errorf("wal: cannot extend log: %w", err)
	}
	return blk, nil
}

// Iterator returns a backward iterator over every record ever appended,
// most-recent-first. It flushes the in-memory page before iterating; the
// resulting Iterator is single-pass and not restartable.
func (m *Mgr) Iterator() (*Iterator, error) {
	m.mu.Lock()
	if err := m.flushLocked(); err != nil {
		m.mu.Unlock()
		return nil, err
	}
	blk := m.currentBlk
	m.mu.Unlock()
	return newIterator(m.fm, blk)
}

// Iterator walks log records from the most recently appended backward to
// the first record of block 0.
type Iterator struct {
	fm         *file.Mgr
	blk        file.BlockId
	page       *file.Page
	currentPos int
	boundary   int
}

func newIterator(fm *file.Mgr, blk file.BlockId) (*Iterator, error) {
	it := &Iterator{
		fm:   fm,
		page: file.NewPage(fm.BlockSize()),
	}
	if err := it.moveToBlock(blk); err != nil {
		return nil, err
	}
	return it, nil
}

func (it *Iterator) moveToBlock(blk file.BlockId) error {
	if err := it.fm.Read(blk, it.page); err != nil {
		return fmt.Errorf("wal: cannot read log block %s: %w", blk, err)
	}
	it.blk = blk
	it.boundary = it.page.GetInt(0)
	it.currentPos = it.boundary
	return nil
}

// HasNext reports whether another record remains.
func (it *Iterator) HasNext() bool {
	return it.currentPos < it.fm.BlockSize() || it.blk.Blknum > 0
}

// Next returns the next record, moving backward through blocks as needed.
func (it *Iterator) Next() ([]byte, error) {
	if !it.HasNext() {
		return nil, fmt.Errorf("wal: iterator exhausted")
	}
	if it.currentPos == it.fm.BlockSize() {
		if err := it.moveToBlock(file.NewBlockId(it.blk.Filename, it.blk.Blknum-1)); err != nil {
			return nil, err
		}
	}
	rec := it.page.GetBytes(it.currentPos)
	it.currentPos += len(rec) + 4
	return rec, nil
}
