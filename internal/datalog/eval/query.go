// Package eval implements the query evaluator (a single predicate against a
// database) and the fixed-point evaluator (a set of rules iterated to a
// stable database), the two evaluation layers built on the relation engine.
package eval

import (
	"fmt"

	"github.com/conduit-lang/datalog/internal/datalog/ast"
	"github.com/conduit-lang/datalog/internal/datalog/database"
	"github.com/conduit-lang/datalog/internal/datalog/relation"
)

// ErrUnsupportedExpression is returned when a predicate carries an
// Expression parameter; expressions are syntactically legal but cannot be
// relationally evaluated.
type ErrUnsupportedExpression struct {
	Predicate string
}

func (e *ErrUnsupportedExpression) Error() string {
	return fmt.Sprintf("predicate %q contains an unevaluated expression", e.Predicate)
}

// Query evaluates predicate against db and returns a relation whose header
// is the distinct variable names appearing in the predicate, in order of
// first appearance, and whose body is the set of tuples making it true.
//
// This is the six-step algorithm: start from the named relation, select
// every constant-equality and repeated-variable constraint, project down
// to one column per distinct variable (first occurrence), rename to the
// variable names, then collapse any columns that still share a name.
func Query(pred *ast.Predicate, db *database.Database) (*relation.Relation, error) {
	for _, p := range pred.Parameters {
		if p.Kind == ast.ParamExpr {
			return nil, &ErrUnsupportedExpression{Predicate: pred.Name}
		}
	}

	if !db.Has(pred.Name) {
		return relation.New(pred.Name, variableHeader(pred)), nil
	}
	r := db.Relation(pred.Name)

	for i, p := range pred.Parameters {
		if p.Kind == ast.ParamString {
			r = relation.Select(r, i, p.Value)
		}
	}

	firstOccurrence := make(map[string]int)
	for i, p := range pred.Parameters {
		if p.Kind != ast.ParamID {
			continue
		}
		if j, ok := firstOccurrence[p.Name]; ok {
			r = relation.SelectEqualCols(r, j, i)
		} else {
			firstOccurrence[p.Name] = i
		}
	}

	var positions []int
	var names []string
	seen := make(map[string]bool)
	for i, p := range pred.Parameters {
		if p.Kind != ast.ParamID || seen[p.Name] {
			continue
		}
		seen[p.Name] = true
		positions = append(positions, i)
		names = append(names, p.Name)
	}

	r = relation.Project(r, positions)
	r = relation.Rename(r, names)
	r = relation.CollapseDuplicateColumns(r)
	return r, nil
}

// variableHeader returns the distinct variable names of pred, in order of
// first appearance, used to shape an empty result for a predicate with no
// backing relation at all.
func variableHeader(pred *ast.Predicate) []string {
	var names []string
	seen := make(map[string]bool)
	for _, p := range pred.Parameters {
		if p.Kind == ast.ParamID && !seen[p.Name] {
			seen[p.Name] = true
			names = append(names, p.Name)
		}
	}
	return names
}
