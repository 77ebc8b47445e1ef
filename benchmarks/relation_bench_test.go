package benchmarks

import (
	"fmt"
	"testing"

	"github.com/conduit-lang/datalog/internal/datalog/relation"
)

func buildRelation(name string, header []string, n int, valuePrefix string) *relation.Relation {
	r := relation.New(name, header)
	for i := 0; i < n; i++ {
		r.Insert(relation.Row{fmt.Sprintf("%s%d", valuePrefix, i), fmt.Sprintf("%s%d", valuePrefix, i+1)})
	}
	return r
}

// BenchmarkJoinSharedColumn measures the hash-indexed natural join path
// where both operands share one column, the common shape of a rule body's
// two-predicate join (e.g. edge(A,B), path(B,C)).
func BenchmarkJoinSharedColumn(b *testing.B) {
	left := buildRelation("edge", []string{"A", "B"}, 1000, "n")
	right := relation.Rename(buildRelation("path", []string{"A", "B"}, 1000, "n"), []string{"B", "C"})

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		relation.Join(left, right)
	}
}

// BenchmarkJoinCartesian measures the cartesian-product path taken when two
// relations share no column names.
func BenchmarkJoinCartesian(b *testing.B) {
	left := buildRelation("a", []string{"X", "Y"}, 200, "a")
	right := buildRelation("b", []string{"P", "Q"}, 200, "b")

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		relation.Join(left, right)
	}
}

// BenchmarkSelectAndProject measures the σ/π path the query evaluator runs
// for every body predicate before a join.
func BenchmarkSelectAndProject(b *testing.B) {
	r := buildRelation("s", []string{"A", "B"}, 5000, "v")

	b.ResetTimer()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		filtered := relation.Select(r, 0, "v2500")
		relation.Project(filtered, []int{1})
	}
}
