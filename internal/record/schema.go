// Package record implements fixed-length slotted pages: the schema,
// layout, and page-format logic that sits between raw blocks and the
// table-scan abstraction above it.
package record

import "simpledb/internal/file"

// Type identifies a field's storage kind.
type Type int

const (
	Integer Type = iota
	Varchar
)

// FieldInfo describes one field's type and, for Varchar, its maximum
// character length.
type FieldInfo struct {
	Type   Type
	Length int
}

// Schema is an ordered set of field names together with their types,
// shared by a table and any of its derived views.
type Schema struct {
	fields []string
	info   map[string]FieldInfo
}

// NewSchema returns an empty schema.
func NewSchema() *Schema {
	return &Schema{info: make(map[string]FieldInfo)}
}

// AddField adds fldname with the given type and length (length is
// meaningful only for Varchar).
func (s *Schema) AddField(fldname string, t Type, length int) {
	s.fields = append(s.fields, fldname)
	s.info[fldname] = FieldInfo{Type: t, Length: length}
}

// AddIntField adds an Integer field.
func (s *Schema) AddIntField(fldname string) {
	s.AddField(fldname, Integer, 0)
}

// AddStringField adds a Varchar field able to hold up to length
// characters.
func (s *Schema) AddStringField(fldname string, length int) {
	s.AddField(fldname, Varchar, length)
}

// Add copies fldname's type and length from sch into s.
func (s *Schema) Add(fldname string, sch *Schema) {
	s.AddField(fldname, sch.Type(fldname), sch.Length(fldname))
}

// AddAll copies every field of sch into s.
func (s *Schema) AddAll(sch *Schema) {
	for _, fldname := range sch.Fields() {
		s.Add(fldname, sch)
	}
}

// Fields returns the schema's fields in declaration order.
func (s *Schema) Fields() []string {
	return s.fields
}

// HasField reports whether fldname is part of the schema.
func (s *Schema) HasField(fldname string) bool {
	_, ok := s.info[fldname]
	return ok
}

// Type returns fldname's storage type. fldname must be in the schema.
func (s *Schema) Type(fldname string) Type {
	return s.info[fldname].Type
}

// Length returns fldname's maximum character length. fldname must be in
// the schema.
func (s *Schema) Length(fldname string) int {
	return s.info[fldname].Length
}

// Layout describes the physical placement of a schema's fields within a
// record slot: each field's byte offset and the resulting fixed slot
// size.
type Layout struct {
	schema   *Schema
	offsets  map[string]int
	slotsize int
}

// NewLayout builds a Layout directly from a precomputed offset table,
// used when the layout is read back out of a catalog rather than derived
// fresh from a Schema.
func NewLayout(schema *Schema, offsets map[string]int, slotsize int) *Layout {
	return &Layout{schema: schema, offsets: offsets, slotsize: slotsize}
}

// LayoutFromSchema computes a Layout by packing schema's fields
// back-to-back after a leading 4-byte empty/used flag.
func LayoutFromSchema(schema *Schema) *Layout {
	offsets := make(map[string]int)
	pos := 4
	for _, fldname := range schema.Fields() {
		offsets[fldname] = pos
		pos += lengthInBytes(fldname, schema)
	}
	return &Layout{schema: schema, offsets: offsets, slotsize: pos}
}

// Schema returns the layout's underlying schema.
func (l *Layout) Schema() *Schema {
	return l.schema
}

// Offset returns fldname's byte offset within a slot.
func (l *Layout) Offset(fldname string) int {
	return l.offsets[fldname]
}

// SlotSize returns the fixed number of bytes one record occupies.
func (l *Layout) SlotSize() int {
	return l.slotsize
}

func lengthInBytes(fldname string, schema *Schema) int {
	switch schema.Type(fldname) {
	case Integer:
		return 4
	case Varchar:
		return file.MaxLength(schema.Length(fldname))
	default:
		panic("record: unknown field type")
	}
}
