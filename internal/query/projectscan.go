package query

import "fmt"

// ProjectScan restricts an underlying scan to a fixed list of fields.
type ProjectScan struct {
	s         Scan
	fieldlist []string
}

// NewProjectScan wraps s, exposing only fieldlist.
func NewProjectScan(s Scan, fieldlist []string) *ProjectScan {
	return &ProjectScan{s: s, fieldlist: fieldlist}
}

func (ps *ProjectScan) BeforeFirst() { ps.s.BeforeFirst() }
func (ps *ProjectScan) Next() bool   { return ps.s.Next() }
func (ps *ProjectScan) Close()       { ps.s.Close() }

func (ps *ProjectScan) GetInt(fldname string) (int, error) {
	if !ps.HasField(fldname) {
		return 0, fmt.Errorf("query: field %q not found", fldname)
	}
	return ps.s.GetInt(fldname)
}

func (ps *ProjectScan) GetString(fldname string) (string, error) {
	if !ps.HasField(fldname) {
		return "", fmt.Errorf("query: field %q not found", fldname)
	}
	return ps.s.GetString(fldname)
}

func (ps *ProjectScan) GetVal(fldname string) (Constant, error) {
	if !ps.HasField(fldname) {
		return Constant{}, fmt.Errorf("query: field %q not found", fldname)
	}
	return ps.s.GetVal(fldname)
}

func (ps *ProjectScan) HasField(fldname string) bool {
	for _, f := range ps.fieldlist {
		if f == fldname {
			return true
		}
	}
	return false
}
