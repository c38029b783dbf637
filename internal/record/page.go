package record

import "simpledb/internal/file"

// slotFlag marks whether a slot currently holds a live record.
type slotFlag int

const (
	Empty slotFlag = iota
	Used
)

// transactor is the subset of Transaction a RecordPage needs to read and
// write fields through the buffer/lock/log stack.
type transactor interface {
	Pin(blk file.BlockId) error
	Unpin(blk file.BlockId)
	GetInt(blk file.BlockId, offset int) (int, error)
	GetString(blk file.BlockId, offset int) (string, error)
	SetInt(blk file.BlockId, offset, val int, okToLog bool) error
	SetString(blk file.BlockId, offset int, val string, okToLog bool) error
	BlockSize() int
}

// Page manages the fixed-length slots of one block according to layout,
// pinning the block for its own lifetime.
type Page struct {
	tx     transactor
	blk    file.BlockId
	layout *Layout
}

// NewPage pins blk and returns a Page ready to read and write its slots.
func NewPage(tx transactor, blk file.BlockId, layout *Layout) (*Page, error) {
	if err := tx.Pin(blk); err != nil {
		return nil, err
	}
	return &Page{tx: tx, blk: blk, layout: layout}, nil
}

// Block returns the block this page manages.
func (p *Page) Block() file.BlockId {
	return p.blk
}

// GetInt returns the value of fldname in slot.
func (p *Page) GetInt(slot int, fldname string) (int, error) {
	return p.tx.GetInt(p.blk, p.fieldPos(slot, fldname))
}

// GetString returns the value of fldname in slot.
func (p *Page) GetString(slot int, fldname string) (string, error) {
	return p.tx.GetString(p.blk, p.fieldPos(slot, fldname))
}

// SetInt sets fldname in slot to val.
func (p *Page) SetInt(slot int, fldname string, val int) error {
	return p.tx.SetInt(p.blk, p.fieldPos(slot, fldname), val, true)
}

// SetString sets fldname in slot to val.
func (p *Page) SetString(slot int, fldname string, val string) error {
	return p.tx.SetString(p.blk, p.fieldPos(slot, fldname), val, true)
}

// Delete marks slot as empty.
func (p *Page) Delete(slot int) error {
	return p.setFlag(slot, Empty)
}

// Format initializes every slot in the block to Empty with zero-valued
// fields, preparing a freshly appended block for use. It writes directly
// without logging, matching the bootstrap nature of a brand-new block.
func (p *Page) Format() error {
	slot := 0
	for p.isValidSlot(slot) {
		if err := p.tx.SetInt(p.blk, p.slotOffset(slot), int(Empty), false); err != nil {
			return err
		}
		sch := p.layout.Schema()
		for _, fldname := range sch.Fields() {
			fldpos := p.fieldPos(slot, fldname)
			switch sch.Type(fldname) {
			case Integer:
				if err := p.tx.SetInt(p.blk, fldpos, 0, false); err != nil {
					return err
				}
			case Varchar:
				if err := p.tx.SetString(p.blk, fldpos, "", false); err != nil {
					return err
				}
			}
		}
		slot++
	}
	return nil
}

// NextAfter returns the first used slot strictly after slot, or -1 if
// none remains in the block.
func (p *Page) NextAfter(slot int) (int, error) {
	return p.searchAfter(slot, Used)
}

// InsertAfter finds the first empty slot strictly after slot, marks it
// Used, and returns it, or -1 if the block is full.
func (p *Page) InsertAfter(slot int) (int, error) {
	newslot, err := p.searchAfter(slot, Empty)
	if err != nil {
		return -1, err
	}
	if newslot >= 0 {
		if err := p.setFlag(newslot, Used); err != nil {
			return -1, err
		}
	}
	return newslot, nil
}

func (p *Page) setFlag(slot int, flag slotFlag) error {
	return p.tx.SetInt(p.blk, p.slotOffset(slot), int(flag), true)
}

func (p *Page) searchAfter(slot int, flag slotFlag) (int, error) {
	slot++
	for p.isValidSlot(slot) {
		val, err := p.tx.GetInt(p.blk, p.slotOffset(slot))
		if err != nil {
			return -1, err
		}
		if val == int(flag) {
			return slot, nil
		}
		slot++
	}
	return -1, nil
}

func (p *Page) isValidSlot(slot int) bool {
	return p.slotOffset(slot+1) <= p.tx.BlockSize()
}

func (p *Page) slotOffset(slot int) int {
	return slot * p.layout.SlotSize()
}

func (p *Page) fieldPos(slot int, fldname string) int {
	return p.slotOffset(slot) + p.layout.Offset(fldname)
}
