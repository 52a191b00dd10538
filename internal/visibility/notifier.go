// Package visibility reveals elements once they scroll into view.
//
// The host supplies intersection measurements; the Notifier only decides
// when an observed target crosses the threshold and marks it exactly once.
package visibility

// Threshold is the visible fraction at which a target is revealed.
const Threshold = 0.2

// Target is an element that can be marked visible.
type Target interface {
	MarkVisible()
}

// Notifier tracks observed targets in observation order.
type Notifier struct {
	order   []Target
	pending map[Target]bool
}

// New creates an empty Notifier.
func New() *Notifier {
	return &Notifier{pending: make(map[Target]bool)}
}

// Observe registers interest in t. Observing a pending target again is a no-op.
func (n *Notifier) Observe(t Target) {
	if n.pending[t] {
		return
	}
	n.pending[t] = true
	n.order = append(n.order, t)
}

// Observed reports whether t is waiting to be revealed.
func (n *Notifier) Observed(t Target) bool {
	return n.pending[t]
}

// Pending returns the number of targets not yet revealed.
func (n *Notifier) Pending() int {
	return len(n.pending)
}

// Intersect records that ratio of t is visible. A pending target at or above
// Threshold is marked visible and stops being observed. It reports whether t
// was revealed by this call.
func (n *Notifier) Intersect(t Target, ratio float64) bool {
	if ratio < Threshold || !n.pending[t] {
		return false
	}
	t.MarkVisible()
	n.unobserve(t)
	return true
}

// RevealAll reveals every pending target in observation order and returns
// how many were revealed.
func (n *Notifier) RevealAll() int {
	targets := append([]Target(nil), n.order...)
	var revealed int
	for _, t := range targets {
		if n.Intersect(t, 1) {
			revealed++
		}
	}
	return revealed
}

func (n *Notifier) unobserve(t Target) {
	delete(n.pending, t)
	for i, o := range n.order {
		if o == t {
			n.order = append(n.order[:i], n.order[i+1:]...)
			break
		}
	}
}
