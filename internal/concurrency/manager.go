package concurrency

import "simpledb/internal/file"

type lockType int

const (
	sLock lockType = iota
	xLock
)

// Mgr tracks the locks one transaction holds and mediates its requests
// through the shared Table. Locks acquired through a Mgr are only ever
// released together, at transaction end (strict 2PL).
type Mgr struct {
	table *Table
	locks map[file.BlockId]lockType
}

// NewMgr returns a ConcurrencyMgr for one transaction, backed by the given
// process-wide lock Table.
func NewMgr(table *Table) *Mgr {
	return &Mgr{
		table: table,
		locks: make(map[file.BlockId]lockType),
	}
}

// SLock acquires a shared lock on blk if this transaction does not already
// hold one.
func (m *Mgr) SLock(blk file.BlockId) error {
	if _, held := m.locks[blk]; held {
		return nil
	}
	if err := m.table.SLock(blk); err != nil {
		return err
	}
	m.locks[blk] = sLock
	return nil
}

// XLock acquires an exclusive lock on blk, first acquiring the required
// shared lock if this transaction does not already hold an exclusive one.
func (m *Mgr) XLock(blk file.BlockId) error {
	if m.hasXLock(blk) {
		return nil
	}
	if err := m.SLock(blk); err != nil {
		return err
	}
	if err := m.table.XLock(blk); err != nil {
		return err
	}
	m.locks[blk] = xLock
	return nil
}

func (m *Mgr) hasXLock(blk file.BlockId) bool {
	return m.locks[blk] == xLock
}

// Release unlocks every block this transaction holds and forgets them.
// Blocks are collected before any call to Table.Unlock so iterating this
// manager's own map is never interleaved with mutation of the shared
// table's map.
func (m *Mgr) Release() {
	blocks := make([]file.BlockId, 0, len(m.locks))
	for blk := range m.locks {
		blocks = append(blocks, blk)
	}
	for _, blk := range blocks {
		m.table.Unlock(blk)
	}
	m.locks = make(map[file.BlockId]lockType)
}
