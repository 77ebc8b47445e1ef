package program

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/datalog/internal/datalog/parser"
)

func runSource(t *testing.T, src string) string {
	t.Helper()
	res, err := Run(src, nil)
	require.NoError(t, err)
	var b strings.Builder
	WriteSuccess(&b, res)
	return b.String()
}

// TestGroundQueryPresent is scenario S1 from the interpreter's external
// output contract.
func TestGroundQueryPresent(t *testing.T) {
	src := `Schemes: s(A,B)
Facts: s('a','b').
Rules:
Queries: s('a','b')?
`
	out := runSource(t, src)
	assert.Contains(t, out, "s('a','b')? Yes(1)\n")
}

// TestGroundQueryAbsent is scenario S2.
func TestGroundQueryAbsent(t *testing.T) {
	src := `Schemes: s(A,B)
Facts: s('a','b').
Rules:
Queries: s('a','c')?
`
	out := runSource(t, src)
	assert.Contains(t, out, "s('a','c')? No\n")
}

// TestProjectionAndRename is scenario S3: results sorted by the free
// variable's value.
func TestProjectionAndRename(t *testing.T) {
	src := `Schemes: s(A,B)
Facts: s('a','b'). s('a','c'). s('d','b').
Rules:
Queries: s(X,'b')?
`
	out := runSource(t, src)
	assert.Contains(t, out, "s(X,'b')? Yes(2)\n  X=a\n  X=d\n")
}

// TestRecursionViaSCC is scenario S4: transitive closure over a chain,
// driven through the full SCC-aware evaluator.
func TestRecursionViaSCC(t *testing.T) {
	src := `Schemes: edge(A,B) path(A,B)
Facts: edge('1','2'). edge('2','3'). edge('3','4').
Rules: path(A,B) :- edge(A,B).
       path(A,C) :- edge(A,B), path(B,C).
Queries: path('1',X)?
`
	out := runSource(t, src)
	assert.Contains(t, out, "path('1',X)? Yes(3)\n  X=2\n  X=3\n  X=4\n")
}

// TestRepeatedVariable is scenario S5.
func TestRepeatedVariable(t *testing.T) {
	src := `Schemes: s(A,B)
Facts: s('a','a'). s('a','b').
Rules:
Queries: s(X,X)?
`
	out := runSource(t, src)
	assert.Contains(t, out, "s(X,X)? Yes(1)\n  X=a\n")
}

// TestDependencyGraphForNonRecursiveSingleRule is scenario S6.
func TestDependencyGraphForNonRecursiveSingleRule(t *testing.T) {
	src := `Schemes: e(A,B) r(A,B)
Facts: e('1','2').
Rules: r(X,Y) :- e(X,Y).
Queries: r(X,Y)?
`
	out := runSource(t, src)
	assert.Contains(t, out, "Dependency Graph\nR0:\n")
	assert.Contains(t, out, "Rule Evaluation\n1 passes: R0\n")
}

// TestRuleHeadUndeclaredSchemeFailsCleanly guards against a panic in the
// fixed-point evaluator's Rename call: a rule head naming a scheme that was
// never declared (or declared with a different arity) must surface as the
// same Failure! contract as any other grammar violation, not an unhandled
// panic with no §6/§7 output.
func TestRuleHeadUndeclaredSchemeFailsCleanly(t *testing.T) {
	src := `Schemes: s(A,B)
Facts: s('a','b').
Rules: r(X,Y) :- s(X,Y).
Queries: r(X,Y)?
`
	_, err := Run(src, nil)
	require.Error(t, err)
	var tokErr *parser.TokenError
	require.ErrorAs(t, err, &tokErr)
}

func TestParseFailureReturnsTokenError(t *testing.T) {
	src := `Schemes:
Facts:
Rules:
Queries:
`
	_, err := Run(src, nil)
	require.Error(t, err)
	var tokErr *parser.TokenError
	require.ErrorAs(t, err, &tokErr)

	var b strings.Builder
	WriteFailure(&b, tokErr)
	assert.True(t, strings.HasPrefix(b.String(), "Failure!\n"))
}

func TestQueryEvaluationIsDeterministic(t *testing.T) {
	src := `Schemes: s(A,B)
Facts: s('a','b'). s('c','d').
Rules:
Queries: s(X,Y)?
`
	out1 := runSource(t, src)
	out2 := runSource(t, src)
	assert.Equal(t, out1, out2)
}
