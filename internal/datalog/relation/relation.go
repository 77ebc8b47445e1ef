// Package relation implements the relational algebra primitives the
// evaluator composes: select, project, rename, natural join, and
// duplicate-column collapse, over named-column, set-valued tables.
package relation

import (
	"sort"
	"strconv"
	"strings"
)

// Row is a single tuple of STRING-domain values, positional within a
// Relation's header.
type Row []string

// key returns a collision-safe string key for deduplicating rows: each
// value is length-prefixed so that e.g. ("ab","c") and ("a","bc") never
// collide on their naive concatenation.
func (r Row) key() string {
	var b strings.Builder
	for _, v := range r {
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}

// Relation is a named, ordered-header, set-valued table. The zero value is
// not useful; construct with New.
type Relation struct {
	Name   string
	Header []string
	body   map[string]Row // keyed by Row.key() for O(1) dedup membership
	rows   []Row          // insertion order, for deterministic iteration
}

// New creates an empty relation with the given name and header.
func New(name string, header []string) *Relation {
	return &Relation{
		Name:   name,
		Header: append([]string(nil), header...),
		body:   make(map[string]Row),
	}
}

// Arity returns the number of columns in the header.
func (r *Relation) Arity() int { return len(r.Header) }

// Len returns the number of distinct rows in the body.
func (r *Relation) Len() int { return len(r.rows) }

// Rows returns the relation's rows in insertion order. The caller must not
// mutate the returned slice or its elements.
func (r *Relation) Rows() []Row { return r.rows }

// Insert adds row to the body if not already present (by componentwise
// equality), returning whether the relation grew. Insert panics if the
// row's arity does not match the header's, protecting the invariant that
// every stored row matches its relation's arity.
func (r *Relation) Insert(row Row) bool {
	if len(row) != len(r.Header) {
		panic("relation: row arity does not match header arity")
	}
	k := row.key()
	if _, exists := r.body[k]; exists {
		return false
	}
	cp := append(Row(nil), row...)
	r.body[k] = cp
	r.rows = append(r.rows, cp)
	return true
}

// ColumnIndex returns the position of the first column named name, or -1.
func (r *Relation) ColumnIndex(name string) int {
	for i, h := range r.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Select keeps only rows where column i equals the constant c. This is the
// "column index i must equal constant c" form of σ.
func Select(r *Relation, i int, c string) *Relation {
	out := New(r.Name, r.Header)
	for _, row := range r.Rows() {
		if row[i] == c {
			out.Insert(row)
		}
	}
	return out
}

// SelectEqualCols keeps only rows where columns i and j hold equal values.
// This is the "columns at positions i and j must be equal" form of σ, used
// to enforce a repeated variable appearing at two argument positions.
func SelectEqualCols(r *Relation, i, j int) *Relation {
	out := New(r.Name, r.Header)
	for _, row := range r.Rows() {
		if row[i] == row[j] {
			out.Insert(row)
		}
	}
	return out
}

// Project keeps only the columns at the given positions, in the given
// order, deduplicating the resulting rows. The output relation has no
// name of its own significance; callers rename it as needed.
func Project(r *Relation, positions []int) *Relation {
	header := make([]string, len(positions))
	for k, i := range positions {
		header[k] = r.Header[i]
	}
	out := New(r.Name, header)
	for _, row := range r.Rows() {
		nr := make(Row, len(positions))
		for k, i := range positions {
			nr[k] = row[i]
		}
		out.Insert(nr)
	}
	return out
}

// Rename replaces the entire header with names, which must have the same
// length as the current header. Rename is the only operation that changes
// column names, and always replaces every column at once to avoid
// transient name collisions from renaming one column at a time.
func Rename(r *Relation, names []string) *Relation {
	if len(names) != len(r.Header) {
		panic("relation: rename name count does not match header arity")
	}
	out := New(r.Name, names)
	for _, row := range r.Rows() {
		out.Insert(row)
	}
	return out
}

// Join computes the natural join of a and b: rows that agree on every
// column name common to both headers, concatenated as a's row followed by
// b's columns not present in a's header. The output header follows a's
// order first. When no column names are shared, the join degenerates to a
// cartesian product.
func Join(a, b *Relation) *Relation {
	common := make([]int2, 0) // pairs (indexInA, indexInB) of shared columns
	bOnly := make([]int, 0)   // positions in b not shared with a
	seen := make(map[string]bool, len(a.Header))
	for _, h := range a.Header {
		seen[h] = true
	}
	for j, h := range b.Header {
		if i := a.ColumnIndex(h); i >= 0 {
			common = append(common, int2{i, j})
		} else if !seen[h] {
			bOnly = append(bOnly, j)
			seen[h] = true
		}
	}

	header := append([]string(nil), a.Header...)
	for _, j := range bOnly {
		header = append(header, b.Header[j])
	}
	out := New("", header)

	if len(common) == 0 {
		for _, ra := range a.Rows() {
			for _, rb := range b.Rows() {
				out.Insert(concatRow(ra, rb, bOnly))
			}
		}
		return out
	}

	// Hash-index a by the values of its common-join columns, then probe with
	// b's rows, so the join runs in time proportional to |a|+|b| rather than
	// |a|*|b|.
	index := make(map[string][]Row)
	for _, ra := range a.Rows() {
		k := joinKey(ra, common, true)
		index[k] = append(index[k], ra)
	}
	for _, rb := range b.Rows() {
		k := joinKey(rb, common, false)
		for _, ra := range index[k] {
			out.Insert(concatRow(ra, rb, bOnly))
		}
	}
	return out
}

type int2 struct{ a, b int }

func joinKey(row Row, common []int2, fromA bool) string {
	var b strings.Builder
	for _, c := range common {
		idx := c.b
		if fromA {
			idx = c.a
		}
		b.WriteString(strconv.Itoa(len(row[idx])))
		b.WriteByte(':')
		b.WriteString(row[idx])
	}
	return b.String()
}

func concatRow(a, b Row, bOnly []int) Row {
	row := make(Row, 0, len(a)+len(bOnly))
	row = append(row, a...)
	for _, j := range bOnly {
		row = append(row, b[j])
	}
	return row
}

// CollapseDuplicateColumns enforces equality across same-named columns and
// then keeps only the first occurrence of each name. This is the mechanism
// by which repeated variables in a renamed head/query enforce equality:
// after renaming a row's columns into variable names, a row survives only
// if every group of same-named columns agrees, and the header is reduced
// to one column per distinct name, in order of first occurrence.
func CollapseDuplicateColumns(r *Relation) *Relation {
	firstOf := make(map[string]int)
	groups := make(map[string][]int)
	var order []string
	for i, h := range r.Header {
		if _, ok := firstOf[h]; !ok {
			firstOf[h] = i
			order = append(order, h)
		}
		groups[h] = append(groups[h], i)
	}
	header := make([]string, len(order))
	keep := make([]int, len(order))
	for k, h := range order {
		header[k] = h
		keep[k] = firstOf[h]
	}
	out := New(r.Name, header)
	for _, row := range r.Rows() {
		ok := true
		for _, idxs := range groups {
			for _, idx := range idxs[1:] {
				if row[idx] != row[idxs[0]] {
					ok = false
					break
				}
			}
			if !ok {
				break
			}
		}
		if !ok {
			continue
		}
		nr := make(Row, len(keep))
		for k, idx := range keep {
			nr[k] = row[idx]
		}
		out.Insert(nr)
	}
	return out
}

// ProjectByName keeps the columns named in names, in that order. If any name
// is absent from the header, it returns an empty relation with no header
// and false. This is used when projecting a join result onto a rule head's
// attribute list: a head variable that never appears in the join's header
// yields no growth for that rule application, mirrored by the caller
// checking the returned bool.
func ProjectByName(r *Relation, names []string) (out *Relation, allPresent bool) {
	positions := make([]int, 0, len(names))
	allPresent = true
	for _, n := range names {
		i := r.ColumnIndex(n)
		if i < 0 {
			allPresent = false
			continue
		}
		positions = append(positions, i)
	}
	if !allPresent {
		return New(r.Name, nil), false
	}
	return Project(r, positions), true
}

// SortedRows returns the relation's rows sorted lexicographically by value,
// left to right. Used when formatting query output, which must list
// tuples sorted by the free variables in their order of first appearance
// (i.e. header order).
func SortedRows(r *Relation) []Row {
	rows := append([]Row(nil), r.Rows()...)
	sort.Slice(rows, func(i, j int) bool {
		for k := range rows[i] {
			if rows[i][k] != rows[j][k] {
				return rows[i][k] < rows[j][k]
			}
		}
		return false
	})
	return rows
}
