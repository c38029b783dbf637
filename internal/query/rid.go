package query

import "fmt"

// RID identifies a record by the block that holds it and its slot within
// that block.
type RID struct {
	Blknum int
	Slot   int
}

func (r RID) String() string {
	return fmt.Sprintf("[%d, %d]", r.Blknum, r.Slot)
}
