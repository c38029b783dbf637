// Package tx binds the file, log, buffer, concurrency, and recovery layers
// into the Transaction abstraction every higher layer programs against.
package tx

import (
	"fmt"

	"simpledb/internal/buffer"
	"simpledb/internal/file"
)

// bufferList is the set of buffers one transaction currently has pinned,
// with a pin multiset so a block pinned twice requires two unpins before
// it drops out of the list.
type bufferList struct {
	bm      *buffer.Mgr
	buffers map[file.BlockId]*buffer.Buffer
	pins    []file.BlockId
}

func newBufferList(bm *buffer.Mgr) *bufferList {
	return &bufferList{
		bm:      bm,
		buffers: make(map[file.BlockId]*buffer.Buffer),
	}
}

func (l *bufferList) getBuffer(blk file.BlockId) (*buffer.Buffer, error) {
	buf, ok := l.buffers[blk]
	if !ok {
		return nil, fmt.Errorf("tx: block %s is not pinned by this transaction", blk)
	}
	return buf, nil
}

func (l *bufferList) pin(blk file.BlockId) error {
	buf, err := l.bm.Pin(blk)
	if err != nil {
		return err
	}
	l.buffers[blk] = buf
	l.pins = append(l.pins, blk)
	return nil
}

func (l *bufferList) unpin(blk file.BlockId) {
	buf, ok := l.buffers[blk]
	if !ok {
		return
	}
	l.bm.Unpin(buf)

	stillHeld := false
	for i, b := range l.pins {
		if b == blk {
			l.pins = append(l.pins[:i], l.pins[i+1:]...)
			break
		}
	}
	for _, b := range l.pins {
		if b == blk {
			stillHeld = true
			break
		}
	}
	if !stillHeld {
		delete(l.buffers, blk)
	}
}

func (l *bufferList) unpinAll() {
	for _, blk := range l.pins {
		if buf, ok := l.buffers[blk]; ok {
			l.bm.Unpin(buf)
		}
	}
	l.buffers = make(map[file.BlockId]*buffer.Buffer)
	l.pins = nil
}
