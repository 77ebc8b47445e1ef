package program

import (
	"fmt"
	"io"
	"strings"

	"github.com/conduit-lang/datalog/internal/datalog/ast"
	"github.com/conduit-lang/datalog/internal/datalog/parser"
	"github.com/conduit-lang/datalog/internal/datalog/relation"
)

// WriteSuccess writes the full successful-run output: the dependency
// graph, the per-SCC pass counts, then the per-query results, in exactly
// the order and format §6 of the interpreter's external interface
// describes.
func WriteSuccess(w io.Writer, res *Result) {
	fmt.Fprintln(w, "Dependency Graph")
	for i := range res.Program.Rules {
		fmt.Fprintf(w, "R%d:%s\n", i, formatDependencies(res.Graph.Dependencies(i)))
	}

	fmt.Fprintln(w, "Rule Evaluation")
	for _, scc := range res.SCCs {
		fmt.Fprintf(w, "%d passes: %s\n", scc.Passes, formatRuleList(scc.Rules))
	}

	fmt.Fprintln(w, "Query Evaluation")
	for _, qr := range res.QueryResults {
		writeQueryResult(w, qr)
	}
}

// WriteFailure writes the Failure! output for a parse error: a banner line
// followed by one line naming the offending token.
func WriteFailure(w io.Writer, err *parser.TokenError) {
	fmt.Fprintln(w, "Failure!")
	fmt.Fprintf(w, "  %s\n", err.Token.String())
}

func formatDependencies(deps []int) string {
	parts := make([]string, len(deps))
	for i, d := range deps {
		parts[i] = fmt.Sprintf("R%d", d)
	}
	return strings.Join(parts, ",")
}

func formatRuleList(rules []int) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = fmt.Sprintf("R%d", r)
	}
	return strings.Join(parts, ",")
}

// writeQueryResult writes one query's "<query>? <response>" line(s): No
// for no matches, Yes(1) for a ground query with one match, or Yes(N)
// followed by N indented "var=value, ..." lines for a query with free
// variables, sorted lexicographically by those variables' values in
// order of first appearance.
func writeQueryResult(w io.Writer, qr QueryResult) {
	header := renderPredicate(qr.Query.Predicate)
	r := qr.Result

	if r.Len() == 0 {
		fmt.Fprintf(w, "%s? No\n", header)
		return
	}

	if r.Arity() == 0 {
		fmt.Fprintf(w, "%s? Yes(1)\n", header)
		return
	}

	rows := relation.SortedRows(r)
	fmt.Fprintf(w, "%s? Yes(%d)\n", header, len(rows))
	for _, row := range rows {
		pairs := make([]string, len(r.Header))
		for i, col := range r.Header {
			pairs[i] = fmt.Sprintf("%s=%s", col, row[i])
		}
		fmt.Fprintf(w, "  %s\n", strings.Join(pairs, ", "))
	}
}

// renderPredicate renders a predicate back to source-like text, e.g.
// `s(X,'b')`, used as the left-hand side of a query's output line.
func renderPredicate(pred *ast.Predicate) string {
	parts := make([]string, len(pred.Parameters))
	for i, p := range pred.Parameters {
		parts[i] = renderParameter(p)
	}
	return fmt.Sprintf("%s(%s)", pred.Name, strings.Join(parts, ","))
}

func renderParameter(p *ast.Parameter) string {
	switch p.Kind {
	case ast.ParamString:
		return "'" + strings.ReplaceAll(p.Value, "'", "''") + "'"
	case ast.ParamID:
		return p.Name
	default:
		return renderExpression(p.Expr)
	}
}

func renderExpression(e *ast.Expression) string {
	return fmt.Sprintf("(%s%s%s)", renderParameter(e.Left), e.Op, renderParameter(e.Right))
}
