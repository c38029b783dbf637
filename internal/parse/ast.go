package parse

import (
	"strings"

	"simpledb/internal/query"
	"simpledb/internal/record"
)

// QueryData is a parsed SELECT: the projected fields, the source table
// list, and the WHERE predicate (empty if there was none).
type QueryData struct {
	Fields []string
	Tables []string
	Pred   query.Predicate
}

func (q QueryData) String() string {
	result := "select " + strings.Join(q.Fields, ", ") + " from " + strings.Join(q.Tables, ", ")
	if s := q.Pred.String(); s != "" {
		result += " where " + s
	}
	return result
}

// InsertData is a parsed INSERT INTO.
type InsertData struct {
	Tblname string
	Flds    []string
	Vals    []query.Constant
}

// DeleteData is a parsed DELETE FROM.
type DeleteData struct {
	Tblname string
	Pred    query.Predicate
}

// ModifyData is a parsed UPDATE ... SET.
type ModifyData struct {
	Tblname string
	Fldname string
	NewVal  query.Expression
	Pred    query.Predicate
}

// CreateTableData is a parsed CREATE TABLE.
type CreateTableData struct {
	Tblname string
	Sch     *record.Schema
}

// CreateViewData is a parsed CREATE VIEW.
type CreateViewData struct {
	Viewname string
	QryData  QueryData
}

// CreateIndexData is a parsed CREATE INDEX.
type CreateIndexData struct {
	Idxname string
	Tblname string
	Fldname string
}
