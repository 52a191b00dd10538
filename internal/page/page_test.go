package page

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gpmaia/homepage/internal/fetch"
	"github.com/gpmaia/homepage/internal/vcard"
)

const testPageHTML = `<!DOCTYPE html>
<html><head><title>Test</title></head><body>
<section id="bio">
  <div class="timeline-item" id="t1">
    <div class="timeline-card"><p id="t1p">Bio one <a id="t1link" href="#x">link</a> <button id="t1btn">b</button></p></div>
    <div class="timeline-expand" id="t1x"><p>more</p></div>
  </div>
  <div class="timeline-item" id="t2">
    <div class="timeline-card"><strong id="t2s">Two</strong><input id="t2in"/></div>
    <div class="timeline-expand" id="t2x"></div>
  </div>
  <div class="timeline-item" id="t3"><div class="timeline-card" id="t3c">No expand</div></div>
</section>
<div id="pub-list"></div>
<div class="experiment-item" id="e1">
  <button class="expand-button" id="e1b">More</button>
  <div class="details" id="e1d"></div>
</div>
<div class="experiment-item" id="e2"><button class="expand-button">No details</button></div>
<a id="downloadVcard" href="#">vCard</a>
<button id="copyEmailBtn">Copy</button><span id="emailValue"> gustavo(at)example.org </span>
<form id="contactForm">
  <input id="subject" value="Hi there"/>
  <textarea id="message">Body &amp; soul</textarea>
  <button id="send" type="submit">Send</button>
</form>
</body></html>`

const testBib = `% Publications
@article{one,
  title = {First <paper>},
  author = {Maia, G. P.},
  year = {2021},
  doi = {10.1000/one},
  abstract = {About spiders.}
}
@misc{skipped, author = {No Title}}
@article{two, title = "Second paper"}
`

type fakeClipboard struct {
	texts []string
	err   error
}

func (f *fakeClipboard) WriteText(_ context.Context, text string) error {
	f.texts = append(f.texts, text)
	return f.err
}

// blockingClipboard holds every write until release is closed.
type blockingClipboard struct {
	started chan struct{}
	release chan struct{}
	text    string
}

func (b *blockingClipboard) WriteText(_ context.Context, text string) error {
	close(b.started)
	<-b.release
	b.text = text
	return nil
}

type failingSource struct{ err error }

func (f failingSource) Fetch(context.Context) (string, error) { return "", f.err }

func newTestPage(t *testing.T, doc string, opts ...Option) *Page {
	t.Helper()
	p, err := Load(strings.NewReader(doc), opts...)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return p
}

func find(p *Page, sel string) *goquery.Selection {
	return p.Document().Find(sel)
}

func openIDs(p *Page) []string {
	var ids []string
	find(p, ".timeline-expand.open").Each(func(_ int, s *goquery.Selection) {
		id, ok := s.Attr("id")
		if !ok {
			id = strings.TrimSpace(s.Parent().Find("strong").First().Text())
		}
		ids = append(ids, id)
	})
	return ids
}

func TestInitialize_RendersPublications(t *testing.T) {
	src := &fetch.Counting{Source: fetch.StringSource(testBib)}
	p := newTestPage(t, testPageHTML, WithSource(src))

	p.Initialize(context.Background())

	if src.Calls() != 1 {
		t.Errorf("fetches = %d, want 1", src.Calls())
	}
	if !p.PublicationsLoaded() {
		t.Error("PublicationsLoaded() = false")
	}

	var titles []string
	find(p, "#pub-list > .timeline-item.publication .timeline-card strong").Each(func(_ int, s *goquery.Selection) {
		titles = append(titles, s.Text())
	})
	if diff := cmp.Diff([]string{"First <paper>", "Second paper"}, titles); diff != "" {
		t.Errorf("rendered titles mismatch (-want +got):\n%s", diff)
	}

	if got := p.TimelineItems().Length(); got != 5 {
		t.Errorf("timeline items = %d, want 5", got)
	}
	if got := p.notifier.Pending(); got != 5 {
		t.Errorf("observed elements = %d, want 5", got)
	}
	if got := p.accordion.Len(); got != 5 {
		t.Errorf("wired entries = %d, want 5", got)
	}
}

func TestInitialize_OnlyOnce(t *testing.T) {
	src := &fetch.Counting{Source: fetch.StringSource(testBib)}
	p := newTestPage(t, testPageHTML, WithSource(src))

	p.Initialize(context.Background())
	p.Initialize(context.Background())
	if n := p.LoadPublications(context.Background()); n != 0 {
		t.Errorf("second LoadPublications() rendered %d entries", n)
	}

	if src.Calls() != 1 {
		t.Errorf("fetches = %d, want 1", src.Calls())
	}
	if got := find(p, "#pub-list > .timeline-item").Length(); got != 2 {
		t.Errorf("publication entries = %d, want 2", got)
	}
}

func TestLoadPublications_TwiceFetchesOnce(t *testing.T) {
	src := &fetch.Counting{Source: fetch.StringSource(testBib)}
	p := newTestPage(t, testPageHTML, WithSource(src))

	if n := p.LoadPublications(context.Background()); n != 2 {
		t.Errorf("LoadPublications() = %d, want 2", n)
	}
	p.LoadPublications(context.Background())
	if src.Calls() != 1 {
		t.Errorf("fetches = %d, want 1", src.Calls())
	}
}

func TestInitialize_NoPublicationList(t *testing.T) {
	src := &fetch.Counting{Source: fetch.StringSource(testBib)}
	doc := strings.Replace(testPageHTML, `<div id="pub-list"></div>`, "", 1)
	p := newTestPage(t, doc, WithSource(src))

	p.Initialize(context.Background())

	if src.Calls() != 0 {
		t.Errorf("fetches = %d, want 0", src.Calls())
	}
	if p.PublicationsLoaded() {
		t.Error("PublicationsLoaded() = true without a publication list")
	}
}

func TestLoadPublications_FetchFailure(t *testing.T) {
	tests := []struct {
		name string
		src  fetch.Source
	}{
		{"status error", failingSource{err: &fetch.StatusError{URL: "publications.bib", StatusCode: 404, Status: "404 Not Found"}}},
		{"transport error", failingSource{err: fetch.ErrTransport}},
		{"no source", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			opts := []Option{WithLogger(zap.New(core))}
			if tt.src != nil {
				opts = append(opts, WithSource(tt.src))
			}
			p := newTestPage(t, testPageHTML, opts...)

			p.Initialize(context.Background())

			if got := find(p, "#pub-list > *").Length(); got != 0 {
				t.Errorf("rendered %d entries after failure", got)
			}
			if got := logs.FilterMessage("publications.bib not loaded").Len(); got != 1 {
				t.Errorf("warnings = %d, want 1", got)
			}
			// The rest of the page still works.
			p.Click(context.Background(), find(p, "#t2s"))
			if diff := cmp.Diff([]string{"t2x"}, openIDs(p)); diff != "" {
				t.Errorf("open mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestClick_AccordionExclusive(t *testing.T) {
	p := newTestPage(t, testPageHTML, WithSource(fetch.StringSource(testBib)))
	p.Initialize(context.Background())
	ctx := context.Background()

	p.Click(ctx, find(p, "#t1p"))
	p.Click(ctx, find(p, "#t2s"))
	if diff := cmp.Diff([]string{"t2x"}, openIDs(p)); diff != "" {
		t.Errorf("after i then j (-want +got):\n%s", diff)
	}

	p.Click(ctx, find(p, "#t2s"))
	if ids := openIDs(p); len(ids) != 0 {
		t.Errorf("after clicking the open entry, open = %v", ids)
	}
	if p.OpenCount() != 0 {
		t.Errorf("OpenCount() = %d, want 0", p.OpenCount())
	}
}

func TestClick_GlobalAcrossSections(t *testing.T) {
	p := newTestPage(t, testPageHTML, WithSource(fetch.StringSource(testBib)))
	p.Initialize(context.Background())
	ctx := context.Background()

	p.Click(ctx, find(p, "#t1p"))
	p.Click(ctx, find(p, "#pub-list .timeline-card").Last())

	if diff := cmp.Diff([]string{"Second paper"}, openIDs(p)); diff != "" {
		t.Errorf("open mismatch (-want +got):\n%s", diff)
	}
}

func TestClick_InteractiveTargetsIgnored(t *testing.T) {
	p := newTestPage(t, testPageHTML)
	p.Initialize(context.Background())
	ctx := context.Background()

	p.Click(ctx, find(p, "#t2s"))
	for _, sel := range []string{"#t1link", "#t1btn", "#t2in"} {
		p.Click(ctx, find(p, sel))
	}
	if diff := cmp.Diff([]string{"t2x"}, openIDs(p)); diff != "" {
		t.Errorf("open mismatch (-want +got):\n%s", diff)
	}
}

func TestClick_EntryWithoutExpand(t *testing.T) {
	p := newTestPage(t, testPageHTML)
	p.Initialize(context.Background())
	ctx := context.Background()

	p.Click(ctx, find(p, "#t1p"))
	p.Click(ctx, find(p, "#t3c"))
	if diff := cmp.Diff([]string{"t1x"}, openIDs(p)); diff != "" {
		t.Errorf("open mismatch (-want +got):\n%s", diff)
	}
}

func TestRewire_KeepsState(t *testing.T) {
	p := newTestPage(t, testPageHTML, WithSource(fetch.StringSource(testBib)))
	ctx := context.Background()

	// Wire the static entries first, open one, then load publications.
	p.WireTimelineItems()
	p.Click(ctx, find(p, "#t1p"))
	p.LoadPublications(ctx)

	if diff := cmp.Diff([]string{"t1x"}, openIDs(p)); diff != "" {
		t.Errorf("open mismatch after re-wiring (-want +got):\n%s", diff)
	}
	// A second listener on t1 would toggle twice and leave it open.
	p.Click(ctx, find(p, "#t1p"))
	if ids := openIDs(p); len(ids) != 0 {
		t.Errorf("open = %v, want none", ids)
	}
}

func TestIntersect_RevealsOnce(t *testing.T) {
	p := newTestPage(t, testPageHTML, WithSource(fetch.StringSource(testBib)))
	p.Initialize(context.Background())

	pub := find(p, "#pub-list > .timeline-item").First()
	if p.Intersect(pub, 0.1) {
		t.Error("revealed below threshold")
	}
	if !p.Intersect(pub, 0.25) {
		t.Error("not revealed at 25%")
	}
	if !pub.HasClass(ClassVisible) {
		t.Error("publication entry missing visible class")
	}
	if p.Intersect(pub, 1) {
		t.Error("revealed twice")
	}
	if got := p.RevealAll(); got != 4 {
		t.Errorf("RevealAll() = %d, want 4", got)
	}
	if got := find(p, ".timeline-item.visible").Length(); got != 5 {
		t.Errorf("visible entries = %d, want 5", got)
	}
}

func TestExperiments_Toggle(t *testing.T) {
	p := newTestPage(t, testPageHTML)
	p.Initialize(context.Background())
	ctx := context.Background()

	p.Click(ctx, find(p, "#e1b"))
	if !find(p, "#e1d").HasClass(ClassOpen) {
		t.Error("details not opened")
	}
	if p.OpenCount() != 0 {
		t.Error("experiment toggle changed timeline state")
	}

	// Wiring again must not add a second listener.
	p.SetupExperiments()
	p.Click(ctx, find(p, "#e1b"))
	if find(p, "#e1d").HasClass(ClassOpen) {
		t.Error("details not closed on second click")
	}
}

func TestVCardLink(t *testing.T) {
	p := newTestPage(t, testPageHTML)
	p.Initialize(context.Background())

	href, _ := find(p, "#downloadVcard").Attr("href")
	if !strings.HasPrefix(href, vcard.DataURIPrefix+"BEGIN%3AVCARD%0D%0AVERSION%3A3.0") {
		t.Errorf("href = %q", href)
	}
}

func TestCopyEmail(t *testing.T) {
	cb := &fakeClipboard{}
	p := newTestPage(t, testPageHTML, WithClipboard(cb))
	p.Initialize(context.Background())

	p.Click(context.Background(), find(p, "#copyEmailBtn"))
	p.Wait()
	if diff := cmp.Diff([]string{"gustavo@example.org"}, cb.texts); diff != "" {
		t.Errorf("clipboard mismatch (-want +got):\n%s", diff)
	}
}

func TestCopyEmail_FailureLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	cb := &fakeClipboard{err: errors.New("denied")}
	p := newTestPage(t, testPageHTML, WithClipboard(cb), WithLogger(zap.New(core)))
	p.Initialize(context.Background())

	p.Click(context.Background(), find(p, "#copyEmailBtn"))
	p.Wait()
	if got := logs.FilterMessage("Clipboard write failed").Len(); got != 1 {
		t.Errorf("warnings = %d, want 1", got)
	}
}

func TestCopyEmail_PendingWriteDoesNotBlockPage(t *testing.T) {
	cb := &blockingClipboard{started: make(chan struct{}), release: make(chan struct{})}
	p := newTestPage(t, testPageHTML, WithClipboard(cb))
	p.Initialize(context.Background())
	ctx := context.Background()

	p.Click(ctx, find(p, "#copyEmailBtn"))
	select {
	case <-cb.started:
	case <-time.After(2 * time.Second):
		t.Fatal("clipboard write never started")
	}

	done := make(chan struct{})
	go func() {
		p.Click(ctx, find(p, "#t2s"))
		p.Submit(ctx, find(p, "#send"))
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		close(cb.release)
		t.Fatal("page events blocked behind a pending clipboard write")
	}
	if diff := cmp.Diff([]string{"t2x"}, openIDs(p)); diff != "" {
		t.Errorf("open mismatch (-want +got):\n%s", diff)
	}

	close(cb.release)
	p.Wait()
	if cb.text != "gustavo@example.org" {
		t.Errorf("clipboard text = %q", cb.text)
	}
}

func TestContactForm(t *testing.T) {
	var navigated []string
	p := newTestPage(t, testPageHTML, WithNavigator(NavigatorFunc(func(url string) {
		navigated = append(navigated, url)
	})))
	p.Initialize(context.Background())

	p.Submit(context.Background(), find(p, "#send"))

	want := "mailto:gustavopinhomaia@gmail.com?subject=Hi%20there&body=Body%20%26%20soul"
	if diff := cmp.Diff([]string{want}, navigated); diff != "" {
		t.Errorf("navigation mismatch (-want +got):\n%s", diff)
	}
	if p.Location() != want {
		t.Errorf("Location() = %q", p.Location())
	}
}

func TestInitialize_MissingFeatures(t *testing.T) {
	cb := &fakeClipboard{}
	p := newTestPage(t, `<html><body><p id="x">nothing here</p></body></html>`, WithClipboard(cb))
	p.Initialize(context.Background())

	p.Click(context.Background(), find(p, "#x"))
	p.Submit(context.Background(), find(p, "#x"))
	p.Click(context.Background(), find(p, "#missing"))
	p.Wait()

	if p.Location() != "" || len(cb.texts) != 0 || p.OpenCount() != 0 {
		t.Error("page without features reacted to events")
	}
}

func TestCopyEmail_MissingValue(t *testing.T) {
	cb := &fakeClipboard{}
	doc := strings.Replace(testPageHTML, `<span id="emailValue"> gustavo(at)example.org </span>`, "", 1)
	p := newTestPage(t, doc, WithClipboard(cb))
	p.Initialize(context.Background())

	p.Click(context.Background(), find(p, "#copyEmailBtn"))
	p.Wait()
	if len(cb.texts) != 0 {
		t.Errorf("clipboard written without an email value: %v", cb.texts)
	}
}

func TestHTML_ContainsRenderedEntries(t *testing.T) {
	p := newTestPage(t, testPageHTML, WithSource(fetch.StringSource(testBib)))
	p.Initialize(context.Background())

	out, err := p.HTML()
	if err != nil {
		t.Fatalf("HTML() error = %v", err)
	}
	for _, want := range []string{
		"First &lt;paper&gt;",
		`href="https://doi.org/10.1000%2Fone"`,
		"doi.org/10.1000/one",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML() missing %q", want)
		}
	}
}
