package main

import (
	"go.uber.org/zap"

	"github.com/conduit-lang/datalog/internal/datalog/program"
)

// zapTracer implements program.Tracer by emitting structured debug log
// lines to stderr, the Go equivalent of the original Python implementation's
// logger.debug calls scattered through its relational database and rule
// evaluator. These lines never touch stdout, so they cannot perturb the
// byte-exact §6 output contract.
type zapTracer struct {
	log *zap.Logger
}

func newZapTracer(log *zap.Logger) *zapTracer {
	return &zapTracer{log: log}
}

func (t *zapTracer) SCCStarted(sccIndex int, rules []int) {
	t.log.Debug("scc started", zap.Int("scc", sccIndex), zap.Ints("rules", rules))
}

func (t *zapTracer) RuleEvaluated(sccIndex, ruleIndex, pass int, grew bool) {
	t.log.Debug("rule evaluated",
		zap.Int("scc", sccIndex),
		zap.Int("rule", ruleIndex),
		zap.Int("pass", pass),
		zap.Bool("grew", grew),
	)
}

func (t *zapTracer) SCCFinished(sccIndex, passes int) {
	t.log.Debug("scc finished", zap.Int("scc", sccIndex), zap.Int("passes", passes))
}

var _ program.Tracer = (*zapTracer)(nil)
