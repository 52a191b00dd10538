// Package accordion keeps at most one timeline entry expanded at a time.
//
// Exclusivity is global across every item wired into a Controller, not
// scoped to a section of the page.
package accordion

import "strings"

// Region is the collapsible part of an entry.
type Region interface {
	IsOpen() bool
	SetOpen(open bool)
}

// Item is a wired entry. Expand returns nil when the entry has no
// collapsible region.
type Item interface {
	Expand() Region
}

// ignoredTargets are clicked elements that keep their native behaviour.
var ignoredTargets = map[string]bool{
	"a":        true,
	"button":   true,
	"input":    true,
	"textarea": true,
}

// Controller is the registry of wired items.
type Controller struct {
	items []Item
	wired map[Item]bool
}

// New creates an empty Controller.
func New() *Controller {
	return &Controller{wired: make(map[Item]bool)}
}

// Wire adds items that are not wired yet and returns how many were added.
// Items already wired keep their current state.
func (c *Controller) Wire(items ...Item) int {
	var added int
	for _, it := range items {
		if it == nil || c.wired[it] {
			continue
		}
		c.wired[it] = true
		c.items = append(c.items, it)
		added++
	}
	return added
}

// Wired reports whether it has been wired.
func (c *Controller) Wired(it Item) bool {
	return c.wired[it]
}

// Len returns the number of wired items.
func (c *Controller) Len() int {
	return len(c.items)
}

// Items returns the wired items in wiring order.
func (c *Controller) Items() []Item {
	return append([]Item(nil), c.items...)
}

// Open returns the wired items whose region is open.
func (c *Controller) Open() []Item {
	var open []Item
	for _, it := range c.items {
		if r := it.Expand(); r != nil && r.IsOpen() {
			open = append(open, it)
		}
	}
	return open
}

// IgnoresTarget reports whether a click on an element with the given tag
// name is left alone.
func IgnoresTarget(tag string) bool {
	return ignoredTargets[strings.ToLower(tag)]
}

// Click handles a click on it whose innermost target has the given tag
// name. Clicking a closed entry closes every other entry and opens it;
// clicking an open entry closes it. It reports whether the click changed
// or confirmed state; ignored clicks return false.
func (c *Controller) Click(it Item, targetTag string) bool {
	if !c.wired[it] || IgnoresTarget(targetTag) {
		return false
	}
	expand := it.Expand()
	if expand == nil {
		return false
	}
	wasOpen := expand.IsOpen()

	for _, other := range c.items {
		r := other.Expand()
		if r == nil || r == expand {
			continue
		}
		if r.IsOpen() {
			r.SetOpen(false)
		}
	}

	expand.SetOpen(!wasOpen)
	return true
}
