// Package page drives the interactive behaviour of the site against an HTML
// document held in memory.
//
// A Page plays the role of the browser script: it wires timeline accordions,
// loads the publication list once from a bibliography source, reveals
// entries as they become visible and sets up the vCard link, copy-email
// button, experiment toggles and contact form. Events are delivered with
// Click, Submit and Intersect.
//
// Every failure degrades to the affected feature doing nothing. Transport
// and clipboard failures are logged as warnings; missing elements and
// missing bibliography fields are not logged at all.
package page

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/gpmaia/homepage/internal/accordion"
	"github.com/gpmaia/homepage/internal/bibtex"
	"github.com/gpmaia/homepage/internal/clipboard"
	"github.com/gpmaia/homepage/internal/config"
	"github.com/gpmaia/homepage/internal/fetch"
	"github.com/gpmaia/homepage/internal/render"
	"github.com/gpmaia/homepage/internal/vcard"
	"github.com/gpmaia/homepage/internal/visibility"
)

// ErrNoSource is logged when publications are requested without a source.
var ErrNoSource = errors.New("no bibliography source configured")

// Navigator performs full-page navigation. Navigate is called while the
// Page is locked and must not call back into it.
type Navigator interface {
	Navigate(url string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(url string)

// Navigate calls f(url).
func (f NavigatorFunc) Navigate(url string) { f(url) }

// listener handles an event whose innermost target is target.
type listener func(ctx context.Context, target *html.Node)

// Page is the controller for one loaded document. DOM mutation is
// serialized by mu; the bibliography fetch and clipboard writes run
// outside it.
type Page struct {
	mu      sync.Mutex
	doc     *goquery.Document
	pending sync.WaitGroup // background clipboard writes

	logger    *zap.Logger
	source    fetch.Source
	clipboard clipboard.Writer
	navigator Navigator
	card      vcard.Card
	recipient string

	accordion *accordion.Controller
	notifier  *visibility.Notifier
	entries   map[*html.Node]*entry

	clickListeners   map[*html.Node][]listener
	onclick          map[*html.Node]listener
	onsubmit         map[*html.Node]listener
	experimentsWired map[*html.Node]bool

	initialized        bool
	publicationsLoaded bool
	location           string
}

// Option configures a Page.
type Option func(*Page)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(p *Page) {
		p.logger = l
	}
}

// WithSource sets where the bibliography is fetched from.
func WithSource(src fetch.Source) Option {
	return func(p *Page) {
		p.source = src
	}
}

// WithClipboard sets the clipboard used by the copy-email button.
func WithClipboard(w clipboard.Writer) Option {
	return func(p *Page) {
		p.clipboard = w
	}
}

// WithNavigator sets the target of contact form navigation.
func WithNavigator(n Navigator) Option {
	return func(p *Page) {
		p.navigator = n
	}
}

// WithConfig takes the vCard fields and contact recipient from cfg.
func WithConfig(cfg *config.Config) Option {
	return func(p *Page) {
		p.card = vcard.Card{
			FormattedName: cfg.OwnerName,
			Email:         cfg.Email,
			URL:           cfg.IdentifierURL,
		}
		p.recipient = cfg.ContactRecipient
	}
}

// New creates a controller for doc. Nothing is wired until Initialize.
func New(doc *goquery.Document, opts ...Option) *Page {
	p := &Page{
		doc:              doc,
		logger:           zap.NewNop(),
		accordion:        accordion.New(),
		notifier:         visibility.New(),
		entries:          make(map[*html.Node]*entry),
		clickListeners:   make(map[*html.Node][]listener),
		onclick:          make(map[*html.Node]listener),
		onsubmit:         make(map[*html.Node]listener),
		experimentsWired: make(map[*html.Node]bool),
	}
	WithConfig(config.Default())(p)
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Load parses an HTML document from r and creates a controller for it.
func Load(r io.Reader, opts ...Option) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing page: %w", err)
	}
	return New(doc, opts...), nil
}

// Document returns the underlying document.
func (p *Page) Document() *goquery.Document {
	return p.doc
}

// Initialize wires the page once the document is ready. Later calls do
// nothing. Publications are loaded last, and only when the page has a
// publication list.
func (p *Page) Initialize(ctx context.Context) {
	p.mu.Lock()
	if p.initialized {
		p.mu.Unlock()
		return
	}
	p.initialized = true

	p.doc.Find(SelTimelineItem).Each(func(_ int, s *goquery.Selection) {
		p.notifier.Observe(element{node: s.Nodes[0]})
	})
	p.wireTimelineItems()

	hasPublications := p.doc.Find(SelPublicationList).Length() > 0

	p.setupVCard()
	p.setupCopyEmail()
	p.setupExperiments()
	p.setupContactForm()
	p.mu.Unlock()

	if hasPublications {
		p.LoadPublications(ctx)
	}
}

// LoadPublications fetches the bibliography, renders one timeline entry per
// publication into the publication list and wires the new entries. It runs
// at most once per Page; later calls return 0 without fetching. It returns
// the number of entries rendered.
func (p *Page) LoadPublications(ctx context.Context) int {
	p.mu.Lock()
	if p.publicationsLoaded {
		p.mu.Unlock()
		return 0
	}
	p.publicationsLoaded = true
	src := p.source
	p.mu.Unlock()

	if src == nil {
		p.logger.Warn("publications.bib not loaded", zap.Error(ErrNoSource))
		return 0
	}

	text, err := src.Fetch(ctx)
	if err != nil {
		p.logger.Warn("publications.bib not loaded",
			zap.String("source", fetch.Describe(src)),
			zap.Error(err))
		return 0
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	container := p.doc.Find(SelPublicationList).First()
	if container.Length() == 0 {
		return 0
	}

	var rendered int
	for pub := range bibtex.Parse(text) {
		container.AppendHtml(render.PublicationHTML(pub))
		item := container.Children().Last()
		if item.Length() == 0 {
			continue
		}
		p.notifier.Observe(element{node: item.Nodes[0]})
		rendered++
	}
	p.wireTimelineItems()

	p.logger.Debug("publications rendered",
		zap.String("source", fetch.Describe(src)),
		zap.Int("count", rendered))
	return rendered
}

// PublicationsLoaded reports whether LoadPublications has run.
func (p *Page) PublicationsLoaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.publicationsLoaded
}

// wireTimelineItems attaches the accordion to every timeline item not yet
// wired. Callers hold mu.
func (p *Page) wireTimelineItems() {
	p.doc.Find(SelTimelineItem).Each(func(_ int, s *goquery.Selection) {
		node := s.Nodes[0]
		e, ok := p.entries[node]
		if !ok {
			e = &entry{node: node}
			p.entries[node] = e
		}
		if p.accordion.Wire(e) == 0 {
			return
		}
		p.addClickListener(node, func(_ context.Context, target *html.Node) {
			p.accordion.Click(e, tagName(target))
		})
	})
}

// TimelineItems returns every timeline item in document order.
func (p *Page) TimelineItems() *goquery.Selection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Find(SelTimelineItem)
}

// OpenCount returns how many wired timeline entries are expanded.
func (p *Page) OpenCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.accordion.Open())
}

// Intersect reports that ratio of the first node in sel is visible.
func (p *Page) Intersect(sel *goquery.Selection, ratio float64) bool {
	if sel.Length() == 0 {
		return false
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notifier.Intersect(element{node: sel.Nodes[0]}, ratio)
}

// RevealAll marks every observed element visible, as if the whole page had
// been scrolled through.
func (p *Page) RevealAll() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.notifier.RevealAll()
}

// Location returns the last URL navigated to, or "".
func (p *Page) Location() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.location
}

// HTML serializes the current document.
func (p *Page) HTML() (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Html()
}
