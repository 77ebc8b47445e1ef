package relation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(rs ...Row) []Row { return rs }

func TestInsertDeduplicates(t *testing.T) {
	r := New("s", []string{"A", "B"})
	assert.True(t, r.Insert(Row{"a", "b"}))
	assert.False(t, r.Insert(Row{"a", "b"}))
	assert.Equal(t, 1, r.Len())
}

func TestInsertPanicsOnArityMismatch(t *testing.T) {
	r := New("s", []string{"A", "B"})
	assert.Panics(t, func() { r.Insert(Row{"a"}) })
}

func TestSelectConstant(t *testing.T) {
	r := New("s", []string{"A", "B"})
	r.Insert(Row{"a", "b"})
	r.Insert(Row{"a", "c"})
	r.Insert(Row{"d", "b"})

	out := Select(r, 1, "b")
	require.Equal(t, 2, out.Len())
	for _, row := range out.Rows() {
		assert.Equal(t, "b", row[1])
	}
}

func TestSelectEqualCols(t *testing.T) {
	r := New("s", []string{"A", "B"})
	r.Insert(Row{"a", "a"})
	r.Insert(Row{"a", "b"})

	out := SelectEqualCols(r, 0, 1)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, Row{"a", "a"}, out.Rows()[0])
}

func TestSelectComposability(t *testing.T) {
	// Select(c1) then Select(c2) must equal Select(c2) then Select(c1):
	// conjunction of equality constraints is order-independent.
	r := New("s", []string{"A", "B", "C"})
	r.Insert(Row{"a", "b", "c"})
	r.Insert(Row{"a", "x", "c"})
	r.Insert(Row{"z", "b", "c"})

	ab := Select(Select(r, 0, "a"), 2, "c")
	ba := Select(Select(r, 2, "c"), 0, "a")
	assert.ElementsMatch(t, ab.Rows(), ba.Rows())
}

func TestProjectDeduplicatesAndPreservesOrder(t *testing.T) {
	r := New("s", []string{"A", "B", "C"})
	r.Insert(Row{"1", "2", "3"})
	r.Insert(Row{"9", "2", "8"})

	out := Project(r, []int{1, 0})
	assert.Equal(t, []string{"B", "A"}, out.Header)
	require.Equal(t, 2, out.Len())
	assert.ElementsMatch(t, rows(Row{"2", "1"}, Row{"2", "9"}), out.Rows())
}

func TestRename(t *testing.T) {
	r := New("s", []string{"A", "B"})
	r.Insert(Row{"1", "2"})
	out := Rename(r, []string{"X", "Y"})
	assert.Equal(t, []string{"X", "Y"}, out.Header)
	assert.Equal(t, r.Rows(), out.Rows())
}

func TestRenamePanicsOnArityMismatch(t *testing.T) {
	r := New("s", []string{"A", "B"})
	assert.Panics(t, func() { Rename(r, []string{"X"}) })
}

func TestJoinOnSharedColumn(t *testing.T) {
	a := New("edge", []string{"A", "B"})
	a.Insert(Row{"1", "2"})
	a.Insert(Row{"2", "3"})

	b := New("path", []string{"B", "C"})
	b.Insert(Row{"2", "3"})
	b.Insert(Row{"3", "4"})

	out := Join(a, b)
	assert.Equal(t, []string{"A", "B", "C"}, out.Header)
	require.Equal(t, 2, out.Len())
	assert.ElementsMatch(t, rows(Row{"1", "2", "3"}, Row{"2", "3", "4"}), out.Rows())
}

func TestJoinCartesianWhenNoSharedColumns(t *testing.T) {
	a := New("a", []string{"X"})
	a.Insert(Row{"1"})
	a.Insert(Row{"2"})

	b := New("b", []string{"Y"})
	b.Insert(Row{"p"})
	b.Insert(Row{"q"})

	out := Join(a, b)
	assert.Equal(t, []string{"X", "Y"}, out.Header)
	assert.Equal(t, 4, out.Len())
}

func TestJoinCommutativeAtTupleLevel(t *testing.T) {
	a := New("a", []string{"A", "B"})
	a.Insert(Row{"1", "2"})
	a.Insert(Row{"2", "3"})

	b := New("b", []string{"B", "C"})
	b.Insert(Row{"2", "x"})
	b.Insert(Row{"3", "y"})

	ab := Join(a, b)
	ba := Join(b, a)

	keyed := func(r *Relation) map[string]map[string]string {
		out := make(map[string]map[string]string)
		for _, row := range r.Rows() {
			m := make(map[string]string, len(r.Header))
			for i, h := range r.Header {
				m[h] = row[i]
			}
			key := m["A"] + "," + m["B"] + "," + m["C"]
			out[key] = m
		}
		return out
	}
	assert.Equal(t, keyed(ab), keyed(ba))
}

func TestCollapseDuplicateColumnsEnforcesEquality(t *testing.T) {
	// p(X,X) renamed from a two-column source: only rows with equal values
	// survive, and the header collapses to one "X" column.
	r := New("s", []string{"X", "X"})
	r.Insert(Row{"a", "a"})
	r.Insert(Row{"a", "b"})

	out := CollapseDuplicateColumns(r)
	assert.Equal(t, []string{"X"}, out.Header)
	require.Equal(t, 1, out.Len())
	assert.Equal(t, Row{"a"}, out.Rows()[0])
}

func TestProjectByNameReportsMissingColumn(t *testing.T) {
	r := New("s", []string{"A"})
	r.Insert(Row{"1"})
	_, ok := ProjectByName(r, []string{"A", "B"})
	assert.False(t, ok)
}

func TestSortedRowsOrdersLexicographically(t *testing.T) {
	r := New("s", []string{"X"})
	r.Insert(Row{"b"})
	r.Insert(Row{"a"})
	r.Insert(Row{"c"})

	sorted := SortedRows(r)
	require.Len(t, sorted, 3)
	assert.Equal(t, []Row{{"a"}, {"b"}, {"c"}}, sorted)
}
