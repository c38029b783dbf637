// Package file implements the lowest layer of the engine: fixed-size
// blocks addressed by (filename, block number) and read/written through
// a directory-scoped FileMgr.
package file

import "fmt"

// BlockId identifies the blknum-th block of filename. It is a value type:
// two BlockIds are equal iff both fields are equal.
type BlockId struct {
	Filename string
	Blknum   int
}

// NewBlockId returns the BlockId for the given file and block number.
func NewBlockId(filename string, blknum int) BlockId {
	return BlockId{Filename: filename, Blknum: blknum}
}

func (b BlockId) String() string {
	return fmt.Sprintf("[file %s, block %d]", b.Filename, b.Blknum)
}

// EndOfFile is the synthetic block number Transaction uses to guard
// size()/append() with the EOF pseudo-lock.
const EndOfFile = -1
