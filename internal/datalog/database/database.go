// Package database builds and holds the extensional/intensional database:
// a name-to-relation mapping, initialized from a parsed program's schemes
// and facts, then mutated in place as rules fire.
package database

import (
	"github.com/conduit-lang/datalog/internal/datalog/ast"
	"github.com/conduit-lang/datalog/internal/datalog/relation"
)

// Database maps a predicate name to its relation. It is built once from the
// declared schemes and ground facts (the EDB), then extended in place by
// the fixed-point evaluator into the IDB.
type Database struct {
	relations map[string]*relation.Relation
}

// New builds a Database from a parsed program: one relation per declared
// scheme, pre-populated with that scheme's facts. Facts are assumed to
// already have been arity-checked by the parser.
func New(prog *ast.Program) *Database {
	db := &Database{relations: make(map[string]*relation.Relation, len(prog.Schemes))}
	for _, s := range prog.Schemes {
		db.relations[s.Name] = relation.New(s.Name, s.Attributes)
	}
	for _, f := range prog.Facts {
		r, ok := db.relations[f.Name]
		if !ok {
			continue
		}
		r.Insert(relation.Row(f.Values))
	}
	return db
}

// Relation returns the relation named name. If no scheme declared that
// name, it returns a fresh, permanently empty relation with no header -
// matching the contract that operations on an absent predicate yield an
// empty relation rather than an error.
func (db *Database) Relation(name string) *relation.Relation {
	if r, ok := db.relations[name]; ok {
		return r
	}
	return relation.New(name, nil)
}

// Has reports whether a relation is registered under name (i.e. a scheme of
// that name was declared), independent of whether it currently has rows.
func (db *Database) Has(name string) bool {
	_, ok := db.relations[name]
	return ok
}

// Len returns the current row count of the relation named name, or 0 if
// the name is not registered.
func (db *Database) Len(name string) int {
	if r, ok := db.relations[name]; ok {
		return r.Len()
	}
	return 0
}
