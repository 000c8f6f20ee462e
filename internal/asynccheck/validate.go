package asynccheck

import (
	"sort"

	"github.com/clarity-lang/clarity/internal/core"
	"github.com/clarity-lang/clarity/internal/diagnostic"
	"github.com/clarity-lang/clarity/internal/position"
)

// Check builds the schedule for one function body and validates it.
func Check(fn *core.Func) []diagnostic.Diagnostic {
	schedule := BuildSchedule(fn.Body)
	return schedule.Validate(fn.NameOrigin)
}

// Validate applies the pairing, ordering, and branch-coverage rules to
// every task in the schedule. fallback is the span used when an event
// carries only a placeholder position.
func (s *Schedule) Validate(fallback position.Span) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	for _, task := range s.taskNames() {
		starts := s.Starts[task]
		waits := s.Waits[task]

		switch {
		case len(waits) == 0:
			for _, start := range starts {
				diags = append(diags, diagnostic.Errorf(diagnostic.CodeAsyncStartNotWaited,
					position.FirstReal(start.Span, fallback),
					"task %q is started but never waited", task))
			}
			continue
		case len(starts) == 0:
			for _, wait := range waits {
				diags = append(diags, diagnostic.Errorf(diagnostic.CodeAsyncWaitNotStarted,
					position.FirstReal(wait.Span, fallback),
					"task %q is waited but never started", task))
			}
			continue
		}

		diags = append(diags, s.checkWaitOrder(task, starts, waits, fallback)...)
		diags = append(diags, s.checkDuplicateStarts(task, starts, fallback)...)
		diags = append(diags, s.checkDuplicateWaits(task, waits, fallback)...)
	}

	return diags
}

// checkWaitOrder verifies every Wait is preceded by a Start that can
// run in the same execution. Preference goes to a compatible Start at
// block depth no greater than the Wait's. Failing that, deeper Starts
// may jointly satisfy the Wait if they cover every label of every
// branch group they themselves depend on. Coverage is not evaluated
// against branch groups between those Starts and the Wait; that is the
// documented behavior and downstream tooling relies on it.
func (s *Schedule) checkWaitOrder(task string, starts, waits []Event, fallback position.Span) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	for _, wait := range waits {
		var compatible []Event
		for _, start := range starts {
			if start.Index < wait.Index && start.path.compatible(wait.path) {
				compatible = append(compatible, start)
			}
		}

		satisfied := false
		allDeeper := len(compatible) > 0
		for _, start := range compatible {
			if start.Depth <= wait.Depth {
				satisfied = true
				allDeeper = false
				break
			}
		}

		if !satisfied && allDeeper {
			satisfied = s.jointlyCover(compatible)
		}

		if !satisfied {
			diags = append(diags, diagnostic.Errorf(diagnostic.CodeAsyncWaitBeforeStart,
				position.FirstReal(wait.Span, fallback),
				"task %q may be waited before it is started", task))
		}
	}

	return diags
}

// jointlyCover reports whether a set of deeper starts covers every
// label of every branch group appearing in their paths.
func (s *Schedule) jointlyCover(starts []Event) bool {
	covered := make(map[int]map[int]bool)
	for _, start := range starts {
		for _, c := range start.path {
			if covered[c.group] == nil {
				covered[c.group] = make(map[int]bool)
			}
			covered[c.group][c.label] = true
		}
	}

	for group, labels := range covered {
		if len(labels) < s.groupSize[group] {
			return false
		}
	}
	return true
}

// checkDuplicateStarts flags two starts of one task that could both
// execute in a single run.
func (s *Schedule) checkDuplicateStarts(task string, starts []Event, fallback position.Span) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	for i := 0; i < len(starts); i++ {
		for j := i + 1; j < len(starts); j++ {
			if starts[i].path.compatible(starts[j].path) {
				diags = append(diags, diagnostic.Errorf(diagnostic.CodeAsyncDuplicateStart,
					position.FirstReal(starts[j].Span, fallback),
					"task %q is started twice on the same execution path", task))
			}
		}
	}

	return diags
}

// checkDuplicateWaits warns on waits beyond the first that repeat a
// wait already satisfiable on the same path.
func (s *Schedule) checkDuplicateWaits(task string, waits []Event, fallback position.Span) []diagnostic.Diagnostic {
	var diags []diagnostic.Diagnostic

	for i := 1; i < len(waits); i++ {
		for j := 0; j < i; j++ {
			if waits[i].path.compatible(waits[j].path) {
				diags = append(diags, diagnostic.Warnf(diagnostic.CodeAsyncDuplicateWait,
					position.FirstReal(waits[i].Span, fallback),
					"task %q is already waited on this path", task))
				break
			}
		}
	}

	return diags
}

// taskNames returns every task mentioned by a Start or Wait, sorted so
// diagnostic order is deterministic.
func (s *Schedule) taskNames() []string {
	set := make(map[string]bool, len(s.Starts)+len(s.Waits))
	for name := range s.Starts {
		set[name] = true
	}
	for name := range s.Waits {
		set[name] = true
	}

	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
