package query

import "fmt"

// ProductScan is the cross product of two scans: for every row of s1, all
// rows of s2.
type ProductScan struct {
	s1, s2 Scan
}

// NewProductScan wraps s1 and s2, advancing s1 once so the first row
// pair is ready.
func NewProductScan(s1, s2 Scan) *ProductScan {
	ps := &ProductScan{s1: s1, s2: s2}
	ps.s1.Next()
	return ps
}

func (ps *ProductScan) BeforeFirst() {
	ps.s1.BeforeFirst()
	ps.s1.Next()
	ps.s2.BeforeFirst()
}

func (ps *ProductScan) Next() bool {
	if ps.s2.Next() {
		return true
	}
	ps.s2.BeforeFirst()
	return ps.s2.Next() && ps.s1.Next()
}

func (ps *ProductScan) GetInt(fldname string) (int, error) {
	if ps.s1.HasField(fldname) {
		return ps.s1.GetInt(fldname)
	}
	if ps.s2.HasField(fldname) {
		return ps.s2.GetInt(fldname)
	}
	return 0, fmt.Errorf("query: field %q not found", fldname)
}

func (ps *ProductScan) GetString(fldname string) (string, error) {
	if ps.s1.HasField(fldname) {
		return ps.s1.GetString(fldname)
	}
	if ps.s2.HasField(fldname) {
		return ps.s2.GetString(fldname)
	}
	return "", fmt.Errorf("query: field %q not found", fldname)
}

func (ps *ProductScan) GetVal(fldname string) (Constant, error) {
	if ps.s1.HasField(fldname) {
		return ps.s1.GetVal(fldname)
	}
	if ps.s2.HasField(fldname) {
		return ps.s2.GetVal(fldname)
	}
	return Constant{}, fmt.Errorf("query: field %q not found", fldname)
}

func (ps *ProductScan) HasField(fldname string) bool {
	return ps.s1.HasField(fldname) || ps.s2.HasField(fldname)
}

func (ps *ProductScan) Close() {
	ps.s1.Close()
	ps.s2.Close()
}
