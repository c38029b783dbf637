package query

import "strings"

// Predicate is a conjunction of Terms.
type Predicate struct {
	terms []Term
}

// NewPredicate builds a predicate from zero or more terms, conjoined.
func NewPredicate(terms ...Term) Predicate {
	return Predicate{terms: terms}
}

// ConjoinWith appends pred's terms to this predicate's conjunction.
func (p *Predicate) ConjoinWith(pred Predicate) {
	p.terms = append(p.terms, pred.terms...)
}

// IsSatisfied reports whether every term holds against s's current row.
func (p Predicate) IsSatisfied(s Scan) (bool, error) {
	for _, t := range p.terms {
		ok, err := t.IsSatisfied(s)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// ReductionFactor multiplies every term's own reduction factor.
func (p Predicate) ReductionFactor(plan DistinctValuer) int {
	factor := 1
	for _, t := range p.terms {
		factor *= t.ReductionFactor(plan)
	}
	return factor
}

// SelectSubPred returns the conjunction of terms that apply entirely
// within sch, or ok=false if none do.
func (p Predicate) SelectSubPred(sch fieldHaver) (Predicate, bool) {
	var newterms []Term
	for _, t := range p.terms {
		if t.AppliesTo(sch) {
			newterms = append(newterms, t)
		}
	}
	if len(newterms) == 0 {
		return Predicate{}, false
	}
	return Predicate{terms: newterms}, true
}

// schemaUnion adapts two fieldHavers into one for JoinSubPred without
// this package needing to construct a record.Schema itself.
type schemaUnion struct{ a, b fieldHaver }

func (u schemaUnion) HasField(fldname string) bool {
	return u.a.HasField(fldname) || u.b.HasField(fldname)
}

// JoinSubPred returns the conjunction of terms that apply to the union of
// sch1 and sch2 but to neither alone — the terms a join plan introduces
// that a select on either side couldn't already have consumed.
func (p Predicate) JoinSubPred(sch1, sch2 fieldHaver) (Predicate, bool) {
	union := schemaUnion{a: sch1, b: sch2}
	var newterms []Term
	for _, t := range p.terms {
		if !t.AppliesTo(sch1) && !t.AppliesTo(sch2) && t.AppliesTo(union) {
			newterms = append(newterms, t)
		}
	}
	if len(newterms) == 0 {
		return Predicate{}, false
	}
	return Predicate{terms: newterms}, true
}

// EquatesWithConstant returns the constant fldname is equated with by
// some term, if any.
func (p Predicate) EquatesWithConstant(fldname string) (Constant, bool) {
	for _, t := range p.terms {
		if c, ok := t.EquatesWithConstant(fldname); ok {
			return c, true
		}
	}
	return Constant{}, false
}

// EquatesWithField returns the other field fldname is equated with by
// some term, if any.
func (p Predicate) EquatesWithField(fldname string) (string, bool) {
	for _, t := range p.terms {
		if f, ok := t.EquatesWithField(fldname); ok {
			return f, true
		}
	}
	return "", false
}

func (p Predicate) String() string {
	parts := make([]string, len(p.terms))
	for i, t := range p.terms {
		parts[i] = t.String()
	}
	return strings.Join(parts, " and ")
}
