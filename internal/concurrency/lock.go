// Package concurrency implements block-level shared/exclusive locking with
// timeout-based deadlock avoidance, enforcing strict two-phase locking at
// the granularity of a single BlockId.
package concurrency

import (
	"errors"
	"sync"
	"time"

	"simpledb/internal/file"
)

// MaxTime is the maximum real time slock/xlock wait for a conflicting
// holder to release before failing with ErrLockAbort. The engine facade
// overrides it at startup from its configuration's lock_wait setting.
var MaxTime = 10 * time.Second

// ErrLockAbort is returned when a lock request could not be satisfied
// within MaxTime.
var ErrLockAbort = errors.New("concurrency: lock request timed out")

// Table is the process-wide lock table: BlockId -> lock value, where a
// positive value counts shared holders and -1 denotes one exclusive
// holder. It is shared by every transaction's ConcurrencyMgr.
type Table struct {
	mu    sync.Mutex
	cond  *sync.Cond
	locks map[file.BlockId]int
}

// NewTable constructs an empty, process-wide lock table. The engine
// constructs exactly one and hands every ConcurrencyMgr a pointer to it.
func NewTable() *Table {
	t := &Table{locks: make(map[file.BlockId]int)}
	t.cond = sync.NewCond(&t.mu)
	return t
}

func (t *Table) valueLocked(blk file.BlockId) int {
	return t.locks[blk]
}

// SLock acquires a shared lock on blk, waiting while an exclusive holder is
// present.
func (t *Table) SLock(blk file.BlockId) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	deadline := time.Now().Add(MaxTime)
	for t.valueLocked(blk) < 0 {
		if remaining := time.Until(deadline); remaining > 0 {
			waitOnCond(t.cond, remaining)
			continue
		}
		// Deadline reached: re-check the predicate one last time before
		// giving up, in case the holder released between wakeup and here.
		if t.valueLocked(blk) < 0 {
			return ErrLockAbort
		}
		break
	}
	t.locks[blk] = t.valueLocked(blk) + 1
	return nil
}

// XLock acquires an exclusive lock on blk. The caller must already hold an
// S-lock on blk (ConcurrencyMgr enforces the upgrade path); it waits while
// any other transaction also holds a shared lock.
func (t *Table) XLock(blk file.BlockId) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	deadline := time.Now().Add(MaxTime)
	for t.hasOtherSLocksLocked(blk) {
		if remaining := time.Until(deadline); remaining > 0 {
			waitOnCond(t.cond, remaining)
			continue
		}
		if t.hasOtherSLocksLocked(blk) {
			return ErrLockAbort
		}
		break
	}
	t.locks[blk] = -1
	return nil
}

func (t *Table) hasOtherSLocksLocked(blk file.BlockId) bool {
	return t.valueLocked(blk) > 1
}

// Unlock releases one holder's lock on blk. If other shared holders remain
// the count is decremented; otherwise the entry is removed and every
// waiter is woken.
func (t *Table) Unlock(blk file.BlockId) {
	t.mu.Lock()
	defer t.mu.Unlock()

	val := t.valueLocked(blk)
	if val > 1 {
		t.locks[blk] = val - 1
	} else {
		delete(t.locks, blk)
		t.cond.Broadcast()
	}
}

func waitOnCond(cond *sync.Cond, timeout time.Duration) {
	timer := time.AfterFunc(timeout, func() {
		cond.L.Lock()
		cond.Broadcast()
		cond.L.Unlock()
	})
	defer timer.Stop()
	cond.Wait()
}
