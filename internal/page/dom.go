package page

import (
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/gpmaia/homepage/internal/accordion"
	"github.com/gpmaia/homepage/internal/render"
)

// Selectors for the elements the page controller works with.
const (
	SelPublicationList = "#pub-list"
	SelTimelineItem    = "." + render.ClassTimelineItem
	SelTimelineExpand  = "." + render.ClassExpand
	SelExperimentItem  = ".experiment-item"
	SelExpandButton    = ".expand-button"
	SelDetails         = ".details"
	SelVCardLink       = "#downloadVcard"
	SelCopyEmailButton = "#copyEmailBtn"
	SelEmailValue      = "#emailValue"
	SelContactForm     = "#contactForm"
	SelSubject         = "#subject"
	SelMessage         = "#message"
)

// Presentation markers.
const (
	ClassOpen    = "open"
	ClassVisible = "visible"
)

// selectionOf wraps a single node in a selection.
func selectionOf(n *html.Node) *goquery.Selection {
	return goquery.NewDocumentFromNode(n).Selection
}

// tagName returns the lowercase element name of n, or "" for non-elements.
func tagName(n *html.Node) string {
	if n == nil || n.Type != html.ElementNode {
		return ""
	}
	return n.Data
}

// element adapts a node to visibility.Target.
type element struct {
	node *html.Node
}

func (e element) MarkVisible() {
	selectionOf(e.node).AddClass(ClassVisible)
}

// region adapts an expand node to accordion.Region. Values for the same node
// compare equal.
type region struct {
	node *html.Node
}

func (r region) IsOpen() bool {
	return selectionOf(r.node).HasClass(ClassOpen)
}

func (r region) SetOpen(open bool) {
	if open {
		selectionOf(r.node).AddClass(ClassOpen)
	} else {
		selectionOf(r.node).RemoveClass(ClassOpen)
	}
}

// entry is the stable accordion handle of one timeline item.
type entry struct {
	node *html.Node
}

// Expand returns the first expand region inside the item, or nil.
func (e *entry) Expand() accordion.Region {
	exp := selectionOf(e.node).Find(SelTimelineExpand).First()
	if exp.Length() == 0 {
		return nil
	}
	return region{node: exp.Nodes[0]}
}

// fieldValue reads the current value of a form control.
func fieldValue(sel *goquery.Selection) string {
	if sel.Length() == 0 {
		return ""
	}
	if goquery.NodeName(sel) == "textarea" {
		return sel.Text()
	}
	v, _ := sel.Attr("value")
	return v
}
