package query

import "fmt"

// Expression is either a literal Constant or a field-name reference,
// evaluated against a Scan's current row.
type Expression struct {
	val     *Constant
	fldname string
}

// NewConstantExpression wraps a literal.
func NewConstantExpression(val Constant) Expression {
	return Expression{val: &val}
}

// NewFieldExpression wraps a field-name reference.
func NewFieldExpression(fldname string) Expression {
	return Expression{fldname: fldname}
}

// IsFieldName reports whether the expression names a field rather than a
// literal.
func (e Expression) IsFieldName() bool {
	return e.val == nil
}

// Evaluate returns the expression's value against s's current row.
func (e Expression) Evaluate(s Scan) (Constant, error) {
	if e.val != nil {
		return *e.val, nil
	}
	return s.GetVal(e.fldname)
}

// AppliesTo reports whether every field the expression references
// (nothing, for a literal) exists in sch.
func (e Expression) AppliesTo(sch fieldHaver) bool {
	if e.val != nil {
		return true
	}
	return sch.HasField(e.fldname)
}

// FieldName returns the referenced field name. Only meaningful when
// IsFieldName is true.
func (e Expression) FieldName() string {
	return e.fldname
}

func (e Expression) String() string {
	if e.val != nil {
		return e.val.String()
	}
	return e.fldname
}

// fieldHaver is satisfied by record.Schema without importing it here,
// keeping Expression/Term/Predicate free of a dependency on the record
// package's concrete type.
type fieldHaver interface {
	HasField(fldname string) bool
}

// DistinctValuer is the one Plan capability Term.ReductionFactor needs.
// Declaring it in this package (rather than importing plan) breaks the
// cycle: Plan implementations live above query and call into it, but
// query's own Term/Predicate logic must stay pluggable with any Plan.
type DistinctValuer interface {
	DistinctValues(fldname string) int
}

// Term is an equality comparison between two expressions, the building
// block of every Predicate.
type Term struct {
	lhs, rhs Expression
}

// NewTerm builds lhs=rhs.
func NewTerm(lhs, rhs Expression) Term {
	return Term{lhs: lhs, rhs: rhs}
}

// IsSatisfied reports whether both sides evaluate equal against s's
// current row.
func (t Term) IsSatisfied(s Scan) (bool, error) {
	lv, err := t.lhs.Evaluate(s)
	if err != nil {
		return false, err
	}
	rv, err := t.rhs.Evaluate(s)
	if err != nil {
		return false, err
	}
	return lv.Equal(rv), nil
}

// AppliesTo reports whether every field either side references exists in
// sch.
func (t Term) AppliesTo(sch fieldHaver) bool {
	return t.lhs.AppliesTo(sch) && t.rhs.AppliesTo(sch)
}

// ReductionFactor estimates how much this term narrows its plan's output:
// the larger of the two sides' distinct-value counts when both are
// fields, the single side's count when only one is a field, or 1 (equal
// constants) / maxReduction (unequal constants) when neither is.
const maxReduction = 1<<31 - 1

func (t Term) ReductionFactor(p DistinctValuer) int {
	lField, rField := t.lhs.IsFieldName(), t.rhs.IsFieldName()
	switch {
	case lField && rField:
		return max(p.DistinctValues(t.lhs.FieldName()), p.DistinctValues(t.rhs.FieldName()))
	case lField && !rField:
		return p.DistinctValues(t.lhs.FieldName())
	case !lField && rField:
		return p.DistinctValues(t.rhs.FieldName())
	default:
		if t.lhs.val.Equal(*t.rhs.val) {
			return 1
		}
		return maxReduction
	}
}

// EquatesWithConstant reports whether this term is fldname=<constant>
// (in either order) and returns that constant.
func (t Term) EquatesWithConstant(fldname string) (Constant, bool) {
	switch {
	case t.lhs.IsFieldName() && t.lhs.FieldName() == fldname && !t.rhs.IsFieldName():
		return *t.rhs.val, true
	case t.rhs.IsFieldName() && t.rhs.FieldName() == fldname && !t.lhs.IsFieldName():
		return *t.lhs.val, true
	default:
		return Constant{}, false
	}
}

// EquatesWithField reports whether this term is fldname=<other field>
// (in either order) and returns that other field's name.
func (t Term) EquatesWithField(fldname string) (string, bool) {
	switch {
	case t.lhs.IsFieldName() && t.lhs.FieldName() == fldname && t.rhs.IsFieldName():
		return t.rhs.FieldName(), true
	case t.rhs.IsFieldName() && t.rhs.FieldName() == fldname && t.lhs.IsFieldName():
		return t.lhs.FieldName(), true
	default:
		return "", false
	}
}

func (t Term) String() string {
	return fmt.Sprintf("%s=%s", t.lhs, t.rhs)
}
