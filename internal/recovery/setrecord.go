package recovery

import (
	"fmt"

	"simpledb/internal/file"
)

// SetIntRecord undoes one Transaction.SetInt call by restoring oldval.
type SetIntRecord struct {
	txnum  int
	blk    file.BlockId
	offset int
	oldval int
}

func decodeSetInt(p *file.Page) SetIntRecord {
	txnum := p.GetInt(4)
	filename := p.GetString(8)
	bpos := 8 + file.MaxLength(len(filename))
	blknum := p.GetInt(bpos)
	opos := bpos + 4
	offset := p.GetInt(opos)
	vpos := opos + 4
	val := p.GetInt(vpos)
	return SetIntRecord{
		txnum:  txnum,
		blk:    file.NewBlockId(filename, blknum),
		offset: offset,
		oldval: val,
	}
}

func (r SetIntRecord) Op() LogType   { return SetInt }
func (r SetIntRecord) TxNumber() int { return r.txnum }

func (r SetIntRecord) Undo(tx Transactor) error {
	if err := tx.Pin(r.blk); err != nil {
		return err
	}
	defer tx.Unpin(r.blk)
	return tx.SetInt(r.blk, r.offset, r.oldval, false)
}

func (r SetIntRecord) String() string {
	return fmt.Sprintf("<SETINT %d %s %d %d>", r.txnum, r.blk, r.offset, r.oldval)
}

// WriteSetIntToLog appends a SETINT record capturing the pre-image oldval
// at (blk, offset) for txnum.
func WriteSetIntToLog(lm logAppender, txnum int, blk file.BlockId, offset, oldval int) (int, error) {
	fpos := 8
	bpos := fpos + file.MaxLength(len(blk.Filename))
	opos := bpos + 4
	vpos := opos + 4
	p := file.NewPage(vpos + 4)
	p.SetInt(0, int(SetInt))
	p.SetInt(4, txnum)
	p.SetString(fpos, blk.Filename)
	p.SetInt(bpos, blk.Blknum)
	p.SetInt(opos, offset)
	p.SetInt(vpos, oldval)
	return lm.Append(p.Contents())
}

// SetStringRecord undoes one Transaction.SetString call by restoring
// oldval.
type SetStringRecord struct {
	txnum  int
	blk    file.BlockId
	offset int
	oldval string
}

func decodeSetString(p *file.Page) SetStringRecord {
	txnum := p.GetInt(4)
	filename := p.GetString(8)
	bpos := 8 + file.MaxLength(len(filename))
	blknum := p.GetInt(bpos)
	opos := bpos + 4
	offset := p.GetInt(opos)
	vpos := opos + 4
	val := p.GetString(vpos)
	return SetStringRecord{
		txnum:  txnum,
		blk:    file.NewBlockId(filename, blknum),
		offset: offset,
		oldval: val,
	}
}

func (r SetStringRecord) Op() LogType   { return SetString }
func (r SetStringRecord) TxNumber() int { return r.txnum }

func (r SetStringRecord) Undo(tx Transactor) error {
	if err := tx.Pin(r.blk); err != nil {
		return err
	}
	defer tx.Unpin(r.blk)
	return tx.SetString(r.blk, r.offset, r.oldval, false)
}

func (r SetStringRecord) String() string {
	return fmt.Sprintf("<SETSTRING %d %s %d %q>", r.txnum, r.blk, r.offset, r.oldval)
}

// WriteSetStringToLog appends a SETSTRING record capturing the pre-image
// oldval at (blk, offset) for txnum.
func WriteSetStringToLog(lm logAppender, txnum int, blk file.BlockId, offset int, oldval string) (int, error) {
	fpos := 8
	bpos := fpos + file.MaxLength(len(blk.Filename))
	opos := bpos + 4
	vpos := opos + 4
	p := file.NewPage(vpos + file.MaxLength(len(oldval)))
	p.SetInt(0, int(SetString))
	p.SetInt(4, txnum)
	p.SetString(fpos, blk.Filename)
	p.SetInt(bpos, blk.Blknum)
	p.SetInt(opos, offset)
	p.SetString(vpos, oldval)
	return lm.Append(p.Contents())
}
