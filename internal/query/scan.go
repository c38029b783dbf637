package query

// Scan is a relational operator's output: row-at-a-time iteration over a
// (possibly derived) table, plus field access on the current row.
type Scan interface {
	BeforeFirst()
	Next() bool
	GetInt(fldname string) (int, error)
	GetString(fldname string) (string, error)
	GetVal(fldname string) (Constant, error)
	HasField(fldname string) bool
	Close()
}

// UpdateScan is a Scan that additionally supports positional writes;
// implemented only by scans ultimately backed by a single table.
type UpdateScan interface {
	Scan
	SetVal(fldname string, val Constant) error
	SetInt(fldname string, val int) error
	SetString(fldname string, val string) error
	Insert() error
	Delete() error
	GetRID() RID
	MoveToRID(rid RID) error
}
