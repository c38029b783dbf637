package parse

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParserQuerySimple(t *testing.T) {
	p, err := NewParser("select id, name from student where id = 1")
	if err != nil {
		t.Fatal(err)
	}
	data, err := p.Query()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"id", "name"}, data.Fields); diff != "" {
		t.Fatalf("Fields mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"student"}, data.Tables); diff != "" {
		t.Fatalf("Tables mismatch (-want +got):\n%s", diff)
	}
	if got := data.Pred.String(); got != "id=1" {
		t.Fatalf("Pred.String() = %q, want %q", got, "id=1")
	}
}

func TestParserQueryWithConjunction(t *testing.T) {
	p, err := NewParser("select id from student where id = 1 and name = 'joe'")
	if err != nil {
		t.Fatal(err)
	}
	data, err := p.Query()
	if err != nil {
		t.Fatal(err)
	}
	if got := data.Pred.String(); got != "id=1 and name=joe" {
		t.Fatalf("Pred.String() = %q, want %q", got, "id=1 and name=joe")
	}
}

func TestParserUpdateCmdInsert(t *testing.T) {
	p, err := NewParser("insert into student (id, name) values (1, 'joe')")
	if err != nil {
		t.Fatal(err)
	}
	cmd, err := p.UpdateCmd()
	if err != nil {
		t.Fatal(err)
	}
	data, ok := cmd.(InsertData)
	if !ok {
		t.Fatalf("UpdateCmd() returned %T, want InsertData", cmd)
	}
	if data.Tblname != "student" {
		t.Fatalf("Tblname = %q, want %q", data.Tblname, "student")
	}
	if len(data.Flds) != 2 || len(data.Vals) != 2 {
		t.Fatalf("Flds/Vals = %v/%v, want 2 each", data.Flds, data.Vals)
	}
}

func TestParserUpdateCmdDelete(t *testing.T) {
	p, err := NewParser("delete from student where id = 1")
	if err != nil {
		t.Fatal(err)
	}
	cmd, err := p.UpdateCmd()
	if err != nil {
		t.Fatal(err)
	}
	data, ok := cmd.(DeleteData)
	if !ok {
		t.Fatalf("UpdateCmd() returned %T, want DeleteData", cmd)
	}
	if data.Tblname != "student" {
		t.Fatalf("Tblname = %q, want %q", data.Tblname, "student")
	}
}

func TestParserUpdateCmdUpdate(t *testing.T) {
	p, err := NewParser("update student set name = 'amy' where id = 1")
	if err != nil {
		t.Fatal(err)
	}
	cmd, err := p.UpdateCmd()
	if err != nil {
		t.Fatal(err)
	}
	data, ok := cmd.(ModifyData)
	if !ok {
		t.Fatalf("UpdateCmd() returned %T, want ModifyData", cmd)
	}
	if data.Fldname != "name" {
		t.Fatalf("Fldname = %q, want %q", data.Fldname, "name")
	}
}

func TestParserCreateTable(t *testing.T) {
	p, err := NewParser("create table student (id int, name varchar(9))")
	if err != nil {
		t.Fatal(err)
	}
	cmd, err := p.UpdateCmd()
	if err != nil {
		t.Fatal(err)
	}
	data, ok := cmd.(CreateTableData)
	if !ok {
		t.Fatalf("UpdateCmd() returned %T, want CreateTableData", cmd)
	}
	if !data.Sch.HasField("id") || !data.Sch.HasField("name") {
		t.Fatal("parsed schema is missing a field")
	}
	if data.Sch.Length("name") != 9 {
		t.Fatalf("name length = %d, want 9", data.Sch.Length("name"))
	}
}

func TestParserCreateView(t *testing.T) {
	p, err := NewParser("create view sv as select id from student")
	if err != nil {
		t.Fatal(err)
	}
	cmd, err := p.UpdateCmd()
	if err != nil {
		t.Fatal(err)
	}
	data, ok := cmd.(CreateViewData)
	if !ok {
		t.Fatalf("UpdateCmd() returned %T, want CreateViewData", cmd)
	}
	if data.Viewname != "sv" {
		t.Fatalf("Viewname = %q, want %q", data.Viewname, "sv")
	}
	if len(data.QryData.Tables) != 1 || data.QryData.Tables[0] != "student" {
		t.Fatalf("QryData.Tables = %v", data.QryData.Tables)
	}
}

func TestParserCreateIndex(t *testing.T) {
	p, err := NewParser("create index idx1 on student (id)")
	if err != nil {
		t.Fatal(err)
	}
	cmd, err := p.UpdateCmd()
	if err != nil {
		t.Fatal(err)
	}
	data, ok := cmd.(CreateIndexData)
	if !ok {
		t.Fatalf("UpdateCmd() returned %T, want CreateIndexData", cmd)
	}
	if data.Idxname != "idx1" || data.Tblname != "student" || data.Fldname != "id" {
		t.Fatalf("CreateIndexData = %+v", data)
	}
}

func TestParserUpdateCmdUnknownKeywordIsBadSyntax(t *testing.T) {
	p, err := NewParser("select id from student")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.UpdateCmd(); err == nil {
		t.Fatal("expected UpdateCmd to reject a SELECT")
	}
}
