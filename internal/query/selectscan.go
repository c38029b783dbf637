package query

import "fmt"

// SelectScan filters an underlying scan's rows by a Predicate. Writes and
// positional operations pass through to the underlying scan, which must
// itself be an UpdateScan.
type SelectScan struct {
	s    Scan
	pred Predicate
}

// NewSelectScan wraps s, exposing only the rows that satisfy pred.
func NewSelectScan(s Scan, pred Predicate) *SelectScan {
	return &SelectScan{s: s, pred: pred}
}

func (ss *SelectScan) BeforeFirst() {
	ss.s.BeforeFirst()
}

func (ss *SelectScan) Next() bool {
	for ss.s.Next() {
		ok, err := ss.pred.IsSatisfied(ss.s)
		if err != nil {
			return false
		}
		if ok {
			return true
		}
	}
	return false
}

func (ss *SelectScan) GetInt(fldname string) (int, error)    { return ss.s.GetInt(fldname) }
func (ss *SelectScan) GetString(fldname string) (string, error) { return ss.s.GetString(fldname) }
func (ss *SelectScan) GetVal(fldname string) (Constant, error) { return ss.s.GetVal(fldname) }
func (ss *SelectScan) HasField(fldname string) bool            { return ss.s.HasField(fldname) }
func (ss *SelectScan) Close()                                  { ss.s.Close() }

func (ss *SelectScan) asUpdate() (UpdateScan, error) {
	us, ok := ss.s.(UpdateScan)
	if !ok {
		return nil, fmt.Errorf("query: underlying scan is not updatable")
	}
	return us, nil
}

func (ss *SelectScan) SetInt(fldname string, val int) error {
	us, err := ss.asUpdate()
	if err != nil {
		return err
	}
	return us.SetInt(fldname, val)
}

func (ss *SelectScan) SetString(fldname string, val string) error {
	us, err := ss.asUpdate()
	if err != nil {
		return err
	}
	return us.SetString(fldname, val)
}

func (ss *SelectScan) SetVal(fldname string, val Constant) error {
	us, err := ss.asUpdate()
	if err != nil {
		return err
	}
	return us.SetVal(fldname, val)
}

func (ss *SelectScan) Delete() error {
	us, err := ss.asUpdate()
	if err != nil {
		return err
	}
	return us.Delete()
}

func (ss *SelectScan) Insert() error {
	us, err := ss.asUpdate()
	if err != nil {
		return err
	}
	return us.Insert()
}

func (ss *SelectScan) GetRID() RID {
	us, err := ss.asUpdate()
	if err != nil {
		panic(err)
	}
	return us.GetRID()
}

func (ss *SelectScan) MoveToRID(rid RID) error {
	us, err := ss.asUpdate()
	if err != nil {
		return err
	}
	return us.MoveToRID(rid)
}
