package eval

import (
	"github.com/conduit-lang/datalog/internal/datalog/ast"
	"github.com/conduit-lang/datalog/internal/datalog/database"
	"github.com/conduit-lang/datalog/internal/datalog/relation"
)

// EvaluateRule applies one rule against db once: it joins the rule's body
// predicates (each evaluated via Query), projects and renames the join
// result onto the head's attribute list, and unions the result into the
// head's relation. It returns whether the head relation grew.
func EvaluateRule(r *ast.Rule, db *database.Database) (bool, error) {
	joined, err := joinBody(r.Body, db)
	if err != nil {
		return false, err
	}
	if joined.Len() == 0 {
		return false, nil
	}

	projected, present := relation.ProjectByName(joined, r.Head.Attributes)
	if !present {
		return false, nil
	}
	renamed := relation.Rename(projected, db.Relation(r.Head.Name).Header)

	head := db.Relation(r.Head.Name)
	grew := false
	for _, row := range renamed.Rows() {
		if head.Insert(row) {
			grew = true
		}
	}
	return grew, nil
}

// joinBody evaluates each body predicate and combines the results by
// left-associative natural join. When two adjacent relations share no
// column names, Join degenerates to a cartesian product, per the relation
// engine's contract.
func joinBody(body []*ast.Predicate, db *database.Database) (*relation.Relation, error) {
	acc, err := Query(body[0], db)
	if err != nil {
		return nil, err
	}
	for _, pred := range body[1:] {
		next, err := Query(pred, db)
		if err != nil {
			return nil, err
		}
		acc = relation.Join(acc, next)
	}
	return acc, nil
}

// EvaluateRules runs the fixed-point loop over rules against db until a
// full pass adds no new tuples to any head relation, and returns the
// number of passes performed (including the final, non-productive one).
// A pass applies every rule in rules exactly once, writing results to db
// between rules so a later rule in the same pass may observe an earlier
// rule's output within that pass - semi-naive evaluation, which affects
// only the pass count, never the final fixed point.
func EvaluateRules(rules []*ast.Rule, db *database.Database) (int, error) {
	passes := 0
	changed := true
	for changed {
		changed = false
		for _, r := range rules {
			grew, err := EvaluateRule(r, db)
			if err != nil {
				return passes, err
			}
			changed = changed || grew
		}
		passes++
	}
	return passes, nil
}
