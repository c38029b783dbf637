package buffer

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"simpledb/internal/file"
	"simpledb/internal/wal"
)

// MaxTime is the maximum real time a Pin call waits for a buffer to become
// available before failing with ErrBufferAbort. The engine facade overrides
// it at startup from its configuration's buffer_wait setting.
var MaxTime = 10 * time.Second

// ErrBufferAbort is returned when no buffer became available within
// MaxTime of the first attempt.
var ErrBufferAbort = errors.New("buffer: could not pin block in time")

// Mgr is a fixed-size pool of Buffers shared by every transaction.
type Mgr struct {
	mu        sync.Mutex
	cond      *sync.Cond
	fm        *file.Mgr
	lm        *wal.Mgr
	bufferPool []*Buffer
	numAvailable int
}

// NewMgr allocates a pool of numBuffers Buffers.
func NewMgr(fm *file.Mgr, lm *wal.Mgr, numBuffers int) *Mgr {
	m := &Mgr{
		fm:           fm,
		lm:           lm,
		bufferPool:   make([]*Buffer, numBuffers),
		numAvailable: numBuffers,
	}
	m.cond = sync.NewCond(&m.mu)
	for i := range m.bufferPool {
		m.bufferPool[i] = newBuffer(fm, lm)
	}
	return m
}

// Available returns the number of currently unpinned buffers.
func (m *Mgr) Available() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.numAvailable
}

// FlushAll flushes every buffer modified by txnum.
func (m *Mgr) FlushAll(txnum int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, buf := range m.bufferPool {
		if buf.ModifyingTx() == txnum {
			if err := buf.flush(); err != nil {
				return fmt.Errorf("buffer: flush_all failed: %w", err)
			}
		}
	}
	return nil
}

// Unpin releases one pin on buf. When its pin count reaches zero, any
// goroutine waiting in Pin is woken.
func (m *Mgr) Unpin(buf *Buffer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf.unpin()
	if !buf.IsPinned() {
		m.numAvailable++
		m.cond.Broadcast()
	}
}

// Pin returns a pinned Buffer holding blk, reusing a resident copy if
// present, else reassigning the first unpinned buffer found by a naive
// linear scan (an implementer may substitute LRU without breaking the
// pin/WAL contract; this scan never was a correctness requirement). If the
// pool stays fully pinned for MaxTime from the first attempt, it fails with
// ErrBufferAbort.
func (m *Mgr) Pin(blk file.BlockId) (*Buffer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	deadline := time.Now().Add(MaxTime)
	buf, err := m.tryToPin(blk)
	if err != nil {
		return nil, err
	}
	for buf == nil {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, ErrBufferAbort
		}
		waitOnCond(m.cond, remaining)
		buf, err = m.tryToPin(blk)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

func (m *Mgr) tryToPin(blk file.BlockId) (*Buffer, error) {
	buf := m.findExistingBuffer(blk)
	if buf == nil {
		buf = m.chooseUnpinnedBuffer()
		if buf == nil {
			return nil, nil
		}
		if err := buf.assignToBlock(blk); err != nil {
			return nil, fmt.Errorf("buffer: cannot pin %s: %w", blk, err)
		}
	}
	if !buf.IsPinned() {
		m.numAvailable--
	}
	buf.pin()
	return buf, nil
}

func (m *Mgr) findExistingBuffer(blk file.BlockId) *Buffer {
	for _, buf := range m.bufferPool {
		if buf.Block() == blk {
			return buf
		}
	}
	return nil
}

// chooseUnpinnedBuffer performs a naive first-fit scan for an unpinned
// buffer. TODO: replace with LRU or clock replacement if contention on a
// hot working set ever shows up in practice.
func (m *Mgr) chooseUnpinnedBuffer() *Buffer {
	for _, buf := range m.bufferPool {
		if !buf.IsPinned() {
			return buf
		}
	}
	return nil
}

// waitOnCond waits on cond for up to timeout, unblocking whichever comes
// first (a Broadcast or the timeout fires and broadcasts itself). cond.L
// must already be held by the caller; it is released while waiting and
// reacquired before returning.
func waitOnCond(cond *sync.Cond, timeout time.Duration) {
	timer := time.AfterFunc(timeout, func() {
		cond.L.Lock()
		cond.Broadcast()
		cond.L.Unlock()
	})
	defer timer.Stop()
	cond.Wait()
}
