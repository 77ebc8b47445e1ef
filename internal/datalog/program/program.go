// Package program implements the top-level driver: parse, build the EDB,
// analyze rule dependencies, evaluate SCC by SCC, evaluate queries, and
// format the result - the orchestration layer sitting above every other
// datalog package.
package program

import (
	"github.com/conduit-lang/datalog/internal/datalog/ast"
	"github.com/conduit-lang/datalog/internal/datalog/database"
	"github.com/conduit-lang/datalog/internal/datalog/depgraph"
	"github.com/conduit-lang/datalog/internal/datalog/eval"
	"github.com/conduit-lang/datalog/internal/datalog/lexer"
	"github.com/conduit-lang/datalog/internal/datalog/parser"
	"github.com/conduit-lang/datalog/internal/datalog/relation"
	"github.com/conduit-lang/datalog/internal/datalog/token"
)

// SCCResult records one strongly connected component's evaluation: the
// rule indices it contains (ascending) and the number of passes it took.
type SCCResult struct {
	Rules  []int
	Passes int
}

// QueryResult pairs a query with its evaluated relation, preserving source
// order for output.
type QueryResult struct {
	Query  *ast.Query
	Result *relation.Relation
}

// Result is everything §6 needs to print: the dependency graph, the
// per-SCC pass counts, and the per-query relations, all in the orders the
// output contract requires.
type Result struct {
	Program     *ast.Program
	Graph       *depgraph.Graph
	SCCs        []SCCResult
	QueryResults []QueryResult
}

// ParseError reports a tokenization/grammar failure; WriteFailure renders
// it in the Failure! output format.
type ParseError = parser.TokenError

// Tracer receives progress notifications during Run, used to drive
// structured logging without coupling this package to a logging library.
type Tracer interface {
	RuleEvaluated(sccIndex int, ruleIndex int, pass int, grew bool)
	SCCStarted(sccIndex int, rules []int)
	SCCFinished(sccIndex int, passes int)
}

// NopTracer implements Tracer with no-ops, used when the caller does not
// want progress notifications.
type NopTracer struct{}

func (NopTracer) RuleEvaluated(int, int, int, bool) {}
func (NopTracer) SCCStarted(int, []int)             {}
func (NopTracer) SCCFinished(int, int)              {}

// Run parses source, builds the database, evaluates all rules SCC by SCC
// in reverse topological order, evaluates every query, and returns the
// assembled Result. A non-nil error is always a *parser.TokenError: there
// is no partial evaluation on failure, so a Failure! is reported, not a
// partially populated Result.
func Run(source string, tracer Tracer) (*Result, error) {
	if tracer == nil {
		tracer = NopTracer{}
	}

	tokens := filterInsignificant(lexer.New(source).ScanTokens())
	prog, err := parser.New(tokens).Parse()
	if err != nil {
		return nil, err
	}

	db := database.New(prog)
	graph := depgraph.Build(prog.Rules)
	sccs := graph.SCCs()

	results := make([]SCCResult, 0, len(sccs))
	for sccIdx, scc := range sccs {
		tracer.SCCStarted(sccIdx, scc.Rules)
		passes, err := evaluateSCC(scc, graph, prog.Rules, db, tracer, sccIdx)
		if err != nil {
			return nil, err
		}
		tracer.SCCFinished(sccIdx, passes)
		results = append(results, SCCResult{Rules: scc.Rules, Passes: passes})
	}

	queryResults := make([]QueryResult, 0, len(prog.Queries))
	for _, q := range prog.Queries {
		r, err := eval.Query(q.Predicate, db)
		if err != nil {
			return nil, err
		}
		queryResults = append(queryResults, QueryResult{Query: q, Result: r})
	}

	return &Result{
		Program:      prog,
		Graph:        graph,
		SCCs:         results,
		QueryResults: queryResults,
	}, nil
}

// evaluateSCC runs one strongly connected component to completion: a
// singleton, non-self-looping rule is evaluated exactly once (one pass);
// anything else - a self-looping singleton or a true cycle - is run as a
// fixed-point loop restricted to that component's rules.
func evaluateSCC(scc depgraph.SCC, graph *depgraph.Graph, allRules []*ast.Rule, db *database.Database, tracer Tracer, sccIdx int) (int, error) {
	rules := make([]*ast.Rule, len(scc.Rules))
	for i, idx := range scc.Rules {
		rules[i] = allRules[idx]
	}

	if len(scc.Rules) == 1 && !graph.HasSelfLoop(scc.Rules[0]) {
		grew, err := eval.EvaluateRule(rules[0], db)
		if err != nil {
			return 0, err
		}
		tracer.RuleEvaluated(sccIdx, scc.Rules[0], 0, grew)
		return 1, nil
	}

	passes := 0
	changed := true
	for changed {
		changed = false
		for i, r := range rules {
			grew, err := eval.EvaluateRule(r, db)
			if err != nil {
				return passes, err
			}
			tracer.RuleEvaluated(sccIdx, scc.Rules[i], passes, grew)
			changed = changed || grew
		}
		passes++
	}
	return passes, nil
}

// filterInsignificant drops WHITESPACE and COMMENT tokens, which the
// lexer produces but the grammar never consumes.
func filterInsignificant(tokens []token.Token) []token.Token {
	out := make([]token.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind == token.WHITESPACE || t.Kind == token.COMMENT {
			continue
		}
		out = append(out, t)
	}
	return out
}
