package parse

import (
	"simpledb/internal/query"
	"simpledb/internal/record"
)

// Parser recursive-descends a single SQL command into its AST node.
type Parser struct {
	lex *Lexer
}

// NewParser lexes s and returns a Parser ready to parse it.
func NewParser(s string) (*Parser, error) {
	lex, err := NewLexer(s)
	if err != nil {
		return nil, err
	}
	return &Parser{lex: lex}, nil
}

func (p *Parser) field() (string, error) {
	return p.lex.EatID()
}

func (p *Parser) constant() (query.Constant, error) {
	if p.lex.MatchStringConstant() {
		s, err := p.lex.EatStringConstant()
		if err != nil {
			return query.Constant{}, err
		}
		return query.NewStringConstant(s), nil
	}
	if p.lex.MatchIntConstant() {
		i, err := p.lex.EatIntConstant()
		if err != nil {
			return query.Constant{}, err
		}
		return query.NewIntConstant(i), nil
	}
	return query.Constant{}, badSyntax("expected a constant")
}

func (p *Parser) expression() (query.Expression, error) {
	if p.lex.MatchID() {
		f, err := p.field()
		if err != nil {
			return query.Expression{}, err
		}
		return query.NewFieldExpression(f), nil
	}
	c, err := p.constant()
	if err != nil {
		return query.Expression{}, err
	}
	return query.NewConstantExpression(c), nil
}

func (p *Parser) term() (query.Term, error) {
	lhs, err := p.expression()
	if err != nil {
		return query.Term{}, err
	}
	if err := p.lex.EatDelim('='); err != nil {
		return query.Term{}, err
	}
	rhs, err := p.expression()
	if err != nil {
		return query.Term{}, err
	}
	return query.NewTerm(lhs, rhs), nil
}

func (p *Parser) predicate() (query.Predicate, error) {
	t, err := p.term()
	if err != nil {
		return query.Predicate{}, err
	}
	pred := query.NewPredicate(t)
	if p.lex.MatchKeyword("and") {
		if err := p.lex.EatKeyword("and"); err != nil {
			return query.Predicate{}, err
		}
		rest, err := p.predicate()
		if err != nil {
			return query.Predicate{}, err
		}
		pred.ConjoinWith(rest)
	}
	return pred, nil
}

// Query parses a SELECT statement.
func (p *Parser) Query() (QueryData, error) {
	if err := p.lex.EatKeyword("select"); err != nil {
		return QueryData{}, err
	}
	fields, err := p.selectList()
	if err != nil {
		return QueryData{}, err
	}
	if err := p.lex.EatKeyword("from"); err != nil {
		return QueryData{}, err
	}
	tables, err := p.tableList()
	if err != nil {
		return QueryData{}, err
	}
	pred := query.NewPredicate()
	if p.lex.MatchKeyword("where") {
		if err := p.lex.EatKeyword("where"); err != nil {
			return QueryData{}, err
		}
		pred, err = p.predicate()
		if err != nil {
			return QueryData{}, err
		}
	}
	return QueryData{Fields: fields, Tables: tables, Pred: pred}, nil
}

func (p *Parser) selectList() ([]string, error) {
	f, err := p.field()
	if err != nil {
		return nil, err
	}
	list := []string{f}
	if p.lex.MatchDelim(',') {
		if err := p.lex.EatDelim(','); err != nil {
			return nil, err
		}
		rest, err := p.selectList()
		if err != nil {
			return nil, err
		}
		list = append(list, rest...)
	}
	return list, nil
}

func (p *Parser) tableList() ([]string, error) {
	t, err := p.lex.EatID()
	if err != nil {
		return nil, err
	}
	list := []string{t}
	if p.lex.MatchDelim(',') {
		if err := p.lex.EatDelim(','); err != nil {
			return nil, err
		}
		rest, err := p.tableList()
		if err != nil {
			return nil, err
		}
		list = append(list, rest...)
	}
	return list, nil
}

// UpdateCmd parses any non-SELECT command: INSERT, DELETE, UPDATE, or a
// CREATE TABLE/VIEW/INDEX variant. The concrete return type is one of
// InsertData, DeleteData, ModifyData, CreateTableData, CreateViewData, or
// CreateIndexData.
func (p *Parser) UpdateCmd() (any, error) {
	switch {
	case p.lex.MatchKeyword("insert"):
		return p.insert()
	case p.lex.MatchKeyword("delete"):
		return p.delete()
	case p.lex.MatchKeyword("update"):
		return p.modify()
	case p.lex.MatchKeyword("create"):
		return p.create()
	default:
		return nil, badSyntax("expected insert, delete, update, or create")
	}
}

func (p *Parser) create() (any, error) {
	if err := p.lex.EatKeyword("create"); err != nil {
		return nil, err
	}
	switch {
	case p.lex.MatchKeyword("table"):
		return p.createTable()
	case p.lex.MatchKeyword("view"):
		return p.createView()
	case p.lex.MatchKeyword("index"):
		return p.createIndex()
	default:
		return nil, badSyntax("expected table, view, or index")
	}
}

func (p *Parser) delete() (DeleteData, error) {
	if err := p.lex.EatKeyword("delete"); err != nil {
		return DeleteData{}, err
	}
	if err := p.lex.EatKeyword("from"); err != nil {
		return DeleteData{}, err
	}
	tblname, err := p.lex.EatID()
	if err != nil {
		return DeleteData{}, err
	}
	pred := query.NewPredicate()
	if p.lex.MatchKeyword("where") {
		if err := p.lex.EatKeyword("where"); err != nil {
			return DeleteData{}, err
		}
		pred, err = p.predicate()
		if err != nil {
			return DeleteData{}, err
		}
	}
	return DeleteData{Tblname: tblname, Pred: pred}, nil
}

func (p *Parser) insert() (InsertData, error) {
	if err := p.lex.EatKeyword("insert"); err != nil {
		return InsertData{}, err
	}
	if err := p.lex.EatKeyword("into"); err != nil {
		return InsertData{}, err
	}
	tblname, err := p.lex.EatID()
	if err != nil {
		return InsertData{}, err
	}
	if err := p.lex.EatDelim('('); err != nil {
		return InsertData{}, err
	}
	flds, err := p.fieldList()
	if err != nil {
		return InsertData{}, err
	}
	if err := p.lex.EatDelim(')'); err != nil {
		return InsertData{}, err
	}
	if err := p.lex.EatKeyword("values"); err != nil {
		return InsertData{}, err
	}
	if err := p.lex.EatDelim('('); err != nil {
		return InsertData{}, err
	}
	vals, err := p.constList()
	if err != nil {
		return InsertData{}, err
	}
	if err := p.lex.EatDelim(')'); err != nil {
		return InsertData{}, err
	}
	return InsertData{Tblname: tblname, Flds: flds, Vals: vals}, nil
}

func (p *Parser) fieldList() ([]string, error) {
	f, err := p.field()
	if err != nil {
		return nil, err
	}
	list := []string{f}
	if p.lex.MatchDelim(',') {
		if err := p.lex.EatDelim(','); err != nil {
			return nil, err
		}
		rest, err := p.fieldList()
		if err != nil {
			return nil, err
		}
		list = append(list, rest...)
	}
	return list, nil
}

func (p *Parser) constList() ([]query.Constant, error) {
	c, err := p.constant()
	if err != nil {
		return nil, err
	}
	list := []query.Constant{c}
	if p.lex.MatchDelim(',') {
		if err := p.lex.EatDelim(','); err != nil {
			return nil, err
		}
		rest, err := p.constList()
		if err != nil {
			return nil, err
		}
		list = append(list, rest...)
	}
	return list, nil
}

func (p *Parser) modify() (ModifyData, error) {
	if err := p.lex.EatKeyword("update"); err != nil {
		return ModifyData{}, err
	}
	tblname, err := p.lex.EatID()
	if err != nil {
		return ModifyData{}, err
	}
	if err := p.lex.EatKeyword("set"); err != nil {
		return ModifyData{}, err
	}
	fldname, err := p.field()
	if err != nil {
		return ModifyData{}, err
	}
	if err := p.lex.EatDelim('='); err != nil {
		return ModifyData{}, err
	}
	newval, err := p.expression()
	if err != nil {
		return ModifyData{}, err
	}
	pred := query.NewPredicate()
	if p.lex.MatchKeyword("where") {
		if err := p.lex.EatKeyword("where"); err != nil {
			return ModifyData{}, err
		}
		pred, err = p.predicate()
		if err != nil {
			return ModifyData{}, err
		}
	}
	return ModifyData{Tblname: tblname, Fldname: fldname, NewVal: newval, Pred: pred}, nil
}

func (p *Parser) createTable() (CreateTableData, error) {
	if err := p.lex.EatKeyword("table"); err != nil {
		return CreateTableData{}, err
	}
	tblname, err := p.lex.EatID()
	if err != nil {
		return CreateTableData{}, err
	}
	if err := p.lex.EatDelim('('); err != nil {
		return CreateTableData{}, err
	}
	sch, err := p.fieldDefs()
	if err != nil {
		return CreateTableData{}, err
	}
	if err := p.lex.EatDelim(')'); err != nil {
		return CreateTableData{}, err
	}
	return CreateTableData{Tblname: tblname, Sch: sch}, nil
}

func (p *Parser) fieldDefs() (*record.Schema, error) {
	sch, err := p.fieldDef()
	if err != nil {
		return nil, err
	}
	if p.lex.MatchDelim(',') {
		if err := p.lex.EatDelim(','); err != nil {
			return nil, err
		}
		rest, err := p.fieldDefs()
		if err != nil {
			return nil, err
		}
		sch.AddAll(rest)
	}
	return sch, nil
}

func (p *Parser) fieldDef() (*record.Schema, error) {
	fldname, err := p.field()
	if err != nil {
		return nil, err
	}
	return p.fieldType(fldname)
}

func (p *Parser) fieldType(fldname string) (*record.Schema, error) {
	sch := record.NewSchema()
	switch {
	case p.lex.MatchKeyword("int"):
		if err := p.lex.EatKeyword("int"); err != nil {
			return nil, err
		}
		sch.AddIntField(fldname)
	case p.lex.MatchKeyword("varchar"):
		if err := p.lex.EatKeyword("varchar"); err != nil {
			return nil, err
		}
		if err := p.lex.EatDelim('('); err != nil {
			return nil, err
		}
		strlen, err := p.lex.EatIntConstant()
		if err != nil {
			return nil, err
		}
		if err := p.lex.EatDelim(')'); err != nil {
			return nil, err
		}
		sch.AddStringField(fldname, strlen)
	default:
		return nil, badSyntax("expected int or varchar")
	}
	return sch, nil
}

func (p *Parser) createView() (CreateViewData, error) {
	if err := p.lex.EatKeyword("view"); err != nil {
		return CreateViewData{}, err
	}
	viewname, err := p.lex.EatID()
	if err != nil {
		return CreateViewData{}, err
	}
	if err := p.lex.EatKeyword("as"); err != nil {
		return CreateViewData{}, err
	}
	qd, err := p.Query()
	if err != nil {
		return CreateViewData{}, err
	}
	return CreateViewData{Viewname: viewname, QryData: qd}, nil
}

func (p *Parser) createIndex() (CreateIndexData, error) {
	if err := p.lex.EatKeyword("index"); err != nil {
		return CreateIndexData{}, err
	}
	idxname, err := p.lex.EatID()
	if err != nil {
		return CreateIndexData{}, err
	}
	if err := p.lex.EatKeyword("on"); err != nil {
		return CreateIndexData{}, err
	}
	tblname, err := p.lex.EatID()
	if err != nil {
		return CreateIndexData{}, err
	}
	if err := p.lex.EatDelim('('); err != nil {
		return CreateIndexData{}, err
	}
	fldname, err := p.field()
	if err != nil {
		return CreateIndexData{}, err
	}
	if err := p.lex.EatDelim(')'); err != nil {
		return CreateIndexData{}, err
	}
	return CreateIndexData{Idxname: idxname, Tblname: tblname, Fldname: fldname}, nil
}
