package rules

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/nstehr/lwg-ai/combat"
	"github.com/nstehr/lwg-ai/economy"
	"github.com/nstehr/lwg-ai/model"
	"github.com/nstehr/lwg-ai/placement"
	"github.com/nstehr/lwg-ai/tuning"
)

// Engine runs the whole decision pass for one tick: builder guard, production
// rules, worker allocation, then combat.
type Engine struct {
	mu    sync.RWMutex
	rules []*Rule
	tune  tuning.Tuning

	diagMu   sync.Mutex
	lastDiag map[int]int // player id → tick of the last diagnostics line
}

// NewEngine compiles the production schedule for t into expr bytecode and
// sorts it by priority.
func NewEngine(t tuning.Tuning) (*Engine, error) {
	compiled, err := compileRules(CompileSchedule(t))
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled, tune: t, lastDiag: make(map[int]int)}, nil
}

// Evaluate decides every order for snapshot s. The snapshot is never
// modified; a tick that decides nothing returns an empty batch.
func (e *Engine) Evaluate(s *model.Snapshot) (*model.OrderBatch, error) {
	if s == nil {
		return nil, fmt.Errorf("evaluate: nil snapshot")
	}
	// Owner filters treat 0 as "anyone", so a missing player would claim
	// every entity on the map.
	if s.Player <= 0 {
		return nil, fmt.Errorf("evaluate tick %d: invalid player %d", s.Tick, s.Player)
	}
	e.mu.RLock()
	rules, t := e.rules, e.tune
	e.mu.RUnlock()

	out := &model.OrderBatch{Tick: s.Tick}
	env := RuleEnv{Snap: s, Tuning: t, Planner: placement.New(s, t, out)}
	e.logDiagnostics(env)

	for _, r := range rules {
		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Warn("rule condition error", "rule", r.Name, "error", err)
			continue
		}
		match, ok := result.(bool)
		if !ok || !match {
			continue
		}
		slog.Debug("rule fired", "rule", r.Name, "priority", r.Priority, "category", r.Category)
		if err := r.Action(env, out); err != nil {
			slog.Error("rule action error", "rule", r.Name, "error", err)
		}
	}

	economy.Allocate(s, t, out)
	combat.Control(s, t, out)
	return out, nil
}

// Swap replaces the tuning and recompiles the schedule. If compilation fails
// the old rules remain active.
func (e *Engine) Swap(t tuning.Tuning) error {
	compiled, err := compileRules(CompileSchedule(t))
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.rules, e.tune = compiled, t
	e.mu.Unlock()
	slog.Info("production schedule swapped", "count", len(compiled))
	return nil
}

// Tuning returns the parameters currently in effect.
func (e *Engine) Tuning() tuning.Tuning {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.tune
}

// Rules returns the rule names in evaluation order.
func (e *Engine) Rules() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, len(e.rules))
	for i, r := range e.rules {
		names[i] = r.Name
	}
	return names
}

// logDiagnostics helps debug "why isn't the AI expanding?". Throttled to
// every 100 ticks per player, since sessions share the engine. Reports
// whether a line was written.
func (e *Engine) logDiagnostics(env RuleEnv) bool {
	if !e.diagDue(env.Snap.Player, env.Snap.Tick) {
		return false
	}

	slog.Info("economy diagnostics",
		"tick", env.Snap.Tick,
		"gold", env.Gold(),
		"supply", env.Supply(),
		"maxSupply", env.MaxSupply(),
		"workers", env.Count(model.Worker),
		"castles", env.Count(model.Castle),
		"barracks", env.Count(model.Barracks),
		"builders", env.Planner.Guard().InFlight(),
	)
	return true
}

func (e *Engine) diagDue(player, tick int) bool {
	e.diagMu.Lock()
	defer e.diagMu.Unlock()
	last, seen := e.lastDiag[player]
	if seen && tick >= last && tick-last < 100 {
		return false
	}
	e.lastDiag[player] = tick
	return true
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(RuleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		r.program = prog
	}
	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority > rules[j].Priority
	})
	return rules, nil
}
