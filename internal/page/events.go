package page

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// addClickListener appends l to the click listeners of n.
func (p *Page) addClickListener(n *html.Node, l listener) {
	p.clickListeners[n] = append(p.clickListeners[n], l)
}

// Click delivers a click on the first node of sel. The event bubbles from
// the target through its ancestors; at each node the added listeners run in
// order, followed by the node's onclick handler.
func (p *Page) Click(ctx context.Context, sel *goquery.Selection) {
	if sel.Length() == 0 {
		return
	}
	target := sel.Nodes[0]

	p.mu.Lock()
	defer p.mu.Unlock()

	for n := target; n != nil; n = n.Parent {
		for _, l := range p.clickListeners[n] {
			l(ctx, target)
		}
		if h, ok := p.onclick[n]; ok {
			h(ctx, target)
		}
	}
}

// Submit delivers a submit event to the first node of sel, bubbling to the
// enclosing form's onsubmit handler.
func (p *Page) Submit(ctx context.Context, sel *goquery.Selection) {
	if sel.Length() == 0 {
		return
	}
	target := sel.Nodes[0]

	p.mu.Lock()
	defer p.mu.Unlock()

	for n := target; n != nil; n = n.Parent {
		if h, ok := p.onsubmit[n]; ok {
			h(ctx, target)
		}
	}
}
