package file

import (
	"encoding/binary"
	"fmt"
)

// Page is a mutable in-memory buffer of exactly blockSize bytes. It is the
// unit of transfer between FileMgr and a Buffer, and the address space that
// RecordPage and the log manager carve into fields.
type Page struct {
	buf []byte
}

// NewPage allocates a zero-filled page of the given size.
func NewPage(blockSize int) *Page {
	return &Page{buf: make([]byte, blockSize)}
}

// NewPageFromBytes wraps an existing byte slice (e.g. a just-read block) as
// a Page without copying.
func NewPageFromBytes(b []byte) *Page {
	return &Page{buf: b}
}

func (p *Page) checkBounds(offset, n int) error {
	if offset < 0 || n < 0 || offset+n > len(p.buf) {
		return fmt.Errorf("file: offset %d length %d out of bounds for page of size %d", offset, n, len(p.buf))
	}
	return nil
}

// GetInt reads a little-endian signed 32-bit integer at offset.
func (p *Page) GetInt(offset int) int {
	if err := p.checkBounds(offset, 4); err != nil {
		panic(err)
	}
	return int(int32(binary.LittleEndian.Uint32(p.buf[offset : offset+4])))
}

// SetInt writes a little-endian signed 32-bit integer at offset.
func (p *Page) SetInt(offset, n int) {
	if err := p.checkBounds(offset, 4); err != nil {
		panic(err)
	}
	binary.LittleEndian.PutUint32(p.buf[offset:offset+4], uint32(int32(n)))
}

// GetBytes reads a length-prefixed byte string: a 4-byte unsigned LE length
// followed by that many raw bytes.
func (p *Page) GetBytes(offset int) []byte {
	length := int(binary.LittleEndian.Uint32(p.buf[offset : offset+4]))
	start := offset + 4
	if err := p.checkBounds(start, length); err != nil {
		panic(err)
	}
	out := make([]byte, length)
	copy(out, p.buf[start:start+length])
	return out
}

// SetBytes writes b as a 4-byte unsigned LE length prefix followed by the
// raw bytes.
func (p *Page) SetBytes(offset int, b []byte) {
	if err := p.checkBounds(offset, 4+len(b)); err != nil {
		panic(err)
	}
	binary.LittleEndian.PutUint32(p.buf[offset:offset+4], uint32(len(b)))
	copy(p.buf[offset+4:offset+4+len(b)], b)
}

// GetString reads a UTF-8 string encoded through GetBytes.
func (p *Page) GetString(offset int) string {
	return string(p.GetBytes(offset))
}

// SetString writes s as UTF-8 bytes through SetBytes.
func (p *Page) SetString(offset int, s string) {
	p.SetBytes(offset, []byte(s))
}

// MaxLength returns the worst-case number of bytes SetString needs to
// encode a string of strlen UTF-8 code units (4 bytes per unit, plus the
// 4-byte length prefix).
func MaxLength(strlen int) int {
	return 4 + 4*strlen
}

// Contents returns the page's raw backing buffer.
func (p *Page) Contents() []byte {
	return p.buf
}

// Len returns the page size in bytes.
func (p *Page) Len() int {
	return len(p.buf)
}
