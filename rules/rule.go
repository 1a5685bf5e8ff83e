package rules

import (
	"github.com/expr-lang/expr/vm"

	"github.com/nstehr/lwg-ai/model"
)

// ActionFunc appends orders to the tick's batch when a rule's condition is true.
type ActionFunc func(env RuleEnv, out *model.OrderBatch) error

// Rule is the atomic unit of production behavior: a condition → action pair.
// Every rule whose condition holds fires; the build-site guard is what keeps
// construction rules from stacking builders.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	Category     string      // grouping for diagnostics
	ConditionSrc string      // expr source
	program      *vm.Program // compiled bytecode
	Action       ActionFunc
}
