// internal/assessment/navigation/navigator.go
package navigation

import "assessment-workers/internal/models"

// Navigator holds the immutable section layout and policy flags. Transition
// methods take and return State values; nothing here mutates shared memory,
// so a single Navigator is safe across goroutines.
type Navigator struct {
	sections     []string
	enforceOrder bool
	autoAdvance  bool
	disabled     bool
}

// State is the position of one respondent inside the section flow.
type State struct {
	Current   string   `json:"current"`
	Completed []string `json:"completed"`
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithEnforcedOrder requires every earlier section to be completed before a
// later one becomes reachable.
func WithEnforcedOrder() Option {
	return func(n *Navigator) { n.enforceOrder = true }
}

// WithAutoAdvance moves the current pointer to the next open section when the
// current one completes.
func WithAutoAdvance() Option {
	return func(n *Navigator) { n.autoAdvance = true }
}

// Disabled blocks all navigation. Progress tracking still works.
func Disabled() Option {
	return func(n *Navigator) { n.disabled = true }
}

// New builds a Navigator over sections sorted by their position field.
func New(sections []models.Section, opts ...Option) Navigator {
	ordered := make([]models.Section, len(sections))
	copy(ordered, sections)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j].Position < ordered[j-1].Position; j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	n := Navigator{sections: make([]string, len(ordered))}
	for i, s := range ordered {
		n.sections[i] = s.ID
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

// Start returns the initial state pointing at the first section.
func (n Navigator) Start() State {
	if len(n.sections) == 0 {
		return State{}
	}
	return State{Current: n.sections[0]}
}

// CanNavigateTo reports whether target is reachable from the given state.
// The current section is always reachable; with order enforcement every
// section before the target must already be completed, otherwise any known
// section qualifies.
func (n Navigator) CanNavigateTo(state State, target string) bool {
	if n.disabled {
		return false
	}
	idx := n.indexOf(target)
	if idx < 0 {
		return false
	}
	if target == state.Current {
		return true
	}
	if !n.enforceOrder {
		return true
	}

	done := completedSet(state.Completed)
	for _, id := range n.sections[:idx] {
		if !done[id] {
			return false
		}
	}
	return true
}

// GoTo moves to target when reachable; otherwise the state is returned
// unchanged. Unreachable targets never produce an error, matching a UI where
// locked tabs simply do not react.
func (n Navigator) GoTo(state State, target string) State {
	if !n.CanNavigateTo(state, target) {
		return state
	}
	state.Current = target
	return state
}

// MarkProgress records section completion when every question is answered.
// Completing the current section auto-advances when that policy is enabled.
// Marking an already completed section is a no-op.
func (n Navigator) MarkProgress(state State, sectionID string, progress models.SectionProgress) State {
	if n.indexOf(sectionID) < 0 || !progress.Complete() {
		return state
	}

	done := completedSet(state.Completed)
	if !done[sectionID] {
		completed := make([]string, len(state.Completed), len(state.Completed)+1)
		copy(completed, state.Completed)
		state.Completed = append(completed, sectionID)
		done[sectionID] = true
	}

	if n.autoAdvance && !n.disabled && sectionID == state.Current {
		if next, ok := n.nextOpen(state.Current, done); ok {
			state.Current = next
		}
	}
	return state
}

// Reachable lists every section the respondent may navigate to right now.
func (n Navigator) Reachable(state State) []string {
	out := make([]string, 0, len(n.sections))
	for _, id := range n.sections {
		if n.CanNavigateTo(state, id) {
			out = append(out, id)
		}
	}
	return out
}

// AllComplete reports whether every section has been completed.
func (n Navigator) AllComplete(state State) bool {
	if len(n.sections) == 0 {
		return false
	}
	done := completedSet(state.Completed)
	for _, id := range n.sections {
		if !done[id] {
			return false
		}
	}
	return true
}

// nextOpen finds the first section after the given one that is not yet
// completed, wrapping to earlier sections before giving up.
func (n Navigator) nextOpen(after string, done map[string]bool) (string, bool) {
	start := n.indexOf(after)
	if start < 0 {
		return "", false
	}
	for offset := 1; offset < len(n.sections); offset++ {
		id := n.sections[(start+offset)%len(n.sections)]
		if !done[id] {
			return id, true
		}
	}
	return "", false
}

func (n Navigator) indexOf(sectionID string) int {
	for i, id := range n.sections {
		if id == sectionID {
			return i
		}
	}
	return -1
}

func completedSet(completed []string) map[string]bool {
	done := make(map[string]bool, len(completed))
	for _, id := range completed {
		done[id] = true
	}
	return done
}
