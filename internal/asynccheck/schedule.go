// Package asynccheck validates structured concurrency discipline: every
// started task is waited exactly once per feasible execution path, and
// no wait precedes every start that could satisfy it. The analysis is
// path sensitive without a general dataflow framework: one depth-first
// walk assigns each Start and Wait an index, a block depth, and a
// conditional path describing the branch choices enclosing it.
package asynccheck

import (
	"github.com/clarity-lang/clarity/internal/core"
	"github.com/clarity-lang/clarity/internal/position"
)

// choice is one branch decision: which label of which branch group.
type choice struct {
	group int
	label int
}

// condPath is the sequence of branch choices enclosing a statement.
// Two statements can co-occur in one execution iff their paths agree on
// every branch group they share.
type condPath []choice

// compatible reports whether two paths can hold in the same run.
func (p condPath) compatible(q condPath) bool {
	for _, a := range p {
		for _, b := range q {
			if a.group == b.group && a.label != b.label {
				return false
			}
		}
	}
	return true
}

// labelOf returns this path's label for a branch group, if it depends
// on the group at all.
func (p condPath) labelOf(group int) (int, bool) {
	for _, c := range p {
		if c.group == group {
			return c.label, true
		}
	}
	return 0, false
}

// Event is one Start or Wait occurrence in the schedule.
type Event struct {
	Task  string
	Index int
	Depth int
	Span  position.Span
	path  condPath
}

// Schedule is the linear Start/Wait schedule of one function body.
type Schedule struct {
	Starts map[string][]Event
	Waits  map[string][]Event

	// labels per branch group, so branch coverage can be checked later.
	groupSize map[int]int

	nextIndex int
	nextGroup int
}

// Collect builds the flat task-name maps without path information. It
// is the cheap first pass; BuildSchedule subsumes it but the flat view
// answers the dangling-task questions directly.
func Collect(body []core.Stmt) (starts, waits map[string][]position.Span) {
	starts = make(map[string][]position.Span)
	waits = make(map[string][]position.Span)

	var walk func(stmts []core.Stmt)
	walk = func(stmts []core.Stmt) {
		for _, s := range stmts {
			switch ss := s.(type) {
			case *core.Start:
				starts[ss.Name] = append(starts[ss.Name], ss.Span)
			case *core.Wait:
				for _, name := range ss.Names {
					waits[name] = append(waits[name], ss.Span)
				}
			case *core.If:
				walk(ss.ThenBlock)
				walk(ss.ElseBlock)
			case *core.Match:
				for _, c := range ss.Cases {
					walk(c.Block)
				}
			case *core.Scope:
				walk(ss.Statements)
			case *core.Workflow:
				walk(ss.Steps)
			}
		}
	}
	walk(body)
	return starts, waits
}

// BuildSchedule performs the depth-first walk over a function body.
func BuildSchedule(body []core.Stmt) *Schedule {
	s := &Schedule{
		Starts:    make(map[string][]Event),
		Waits:     make(map[string][]Event),
		groupSize: make(map[int]int),
	}
	s.walk(body, 0, nil)
	return s
}

func (s *Schedule) walk(stmts []core.Stmt, depth int, path condPath) {
	for _, stmt := range stmts {
		index := s.nextIndex
		s.nextIndex++

		switch ss := stmt.(type) {
		case *core.Start:
			s.Starts[ss.Name] = append(s.Starts[ss.Name], Event{
				Task: ss.Name, Index: index, Depth: depth, Span: ss.Span, path: path,
			})
		case *core.Wait:
			for _, name := range ss.Names {
				s.Waits[name] = append(s.Waits[name], Event{
					Task: name, Index: index, Depth: depth, Span: ss.Span, path: path,
				})
			}
		case *core.If:
			// An If is a two-label group even without an Else: the
			// fall-through path is a feasible execution too.
			group := s.nextGroup
			s.nextGroup++
			s.groupSize[group] = 2

			s.walk(ss.ThenBlock, depth+1, extend(path, choice{group, 0}))
			if ss.ElseBlock != nil {
				s.walk(ss.ElseBlock, depth+1, extend(path, choice{group, 1}))
			}
		case *core.Match:
			group := s.nextGroup
			s.nextGroup++
			s.groupSize[group] = len(ss.Cases)

			for label, c := range ss.Cases {
				s.walk(c.Block, depth+1, extend(path, choice{group, label}))
			}
		case *core.Scope:
			s.walk(ss.Statements, depth+1, path)
		case *core.Workflow:
			s.walk(ss.Steps, depth+1, path)
		}
	}
}

// extend copies the path before appending so sibling branches never
// share backing storage.
func extend(path condPath, c choice) condPath {
	out := make(condPath, len(path), len(path)+1)
	copy(out, path)
	return append(out, c)
}
