package page

import (
	"context"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/gpmaia/homepage/internal/clipboard"
	"github.com/gpmaia/homepage/internal/contact"
)

// The setup functions below are called with mu held. Each does nothing when
// its element is missing.

// setupVCard points the download link at a data URI of the card.
func (p *Page) setupVCard() {
	link := p.doc.Find(SelVCardLink).First()
	if link.Length() == 0 {
		return
	}
	link.SetAttr("href", p.card.DataURI())
}

// setupCopyEmail makes the copy button write the de-obfuscated address to
// the clipboard.
func (p *Page) setupCopyEmail() {
	btn := p.doc.Find(SelCopyEmailButton).First()
	if btn.Length() == 0 {
		return
	}
	p.onclick[btn.Nodes[0]] = func(ctx context.Context, _ *html.Node) {
		value := p.doc.Find(SelEmailValue).First()
		if value.Length() == 0 {
			return
		}
		text := contact.Deobfuscate(value.Text())

		w := p.clipboard
		if w == nil {
			p.logger.Warn("Clipboard write failed", zap.Error(clipboard.ErrClipboardUnavailable))
			return
		}
		p.writeClipboard(context.WithoutCancel(ctx), w, text)
	}
}

// writeClipboard starts a background clipboard write. The click that
// triggered it returns immediately and the page stays usable while the
// write is pending; failures are only logged.
func (p *Page) writeClipboard(ctx context.Context, w clipboard.Writer, text string) {
	p.pending.Add(1)
	go func() {
		defer p.pending.Done()
		if err := w.WriteText(ctx, text); err != nil {
			p.logger.Warn("Clipboard write failed", zap.Error(err))
		}
	}()
}

// Wait blocks until every clipboard write started by the page has finished.
func (p *Page) Wait() {
	p.pending.Wait()
}

// setupExperiments wires the expand button of each experiment to toggle its
// details. Items are wired at most once.
func (p *Page) setupExperiments() {
	p.doc.Find(SelExperimentItem).Each(func(_ int, item *goquery.Selection) {
		node := item.Nodes[0]
		if p.experimentsWired[node] {
			return
		}
		p.experimentsWired[node] = true

		button := item.Find(SelExpandButton).First()
		details := item.Find(SelDetails).First()
		if button.Length() == 0 || details.Length() == 0 {
			return
		}
		detailsNode := details.Nodes[0]
		p.addClickListener(button.Nodes[0], func(context.Context, *html.Node) {
			selectionOf(detailsNode).ToggleClass(ClassOpen)
		})
	})
}

// setupContactForm makes the form navigate to a mailto URI built from the
// subject and message fields instead of submitting.
func (p *Page) setupContactForm() {
	form := p.doc.Find(SelContactForm).First()
	if form.Length() == 0 {
		return
	}
	p.onsubmit[form.Nodes[0]] = func(context.Context, *html.Node) {
		subject := fieldValue(p.doc.Find(SelSubject).First())
		message := fieldValue(p.doc.Find(SelMessage).First())
		p.navigate(contact.Mailto(p.recipient, subject, message))
	}
}

// navigate records url as the current location and hands it to the
// navigator.
func (p *Page) navigate(url string) {
	p.location = url
	if p.navigator != nil {
		p.navigator.Navigate(url)
	}
}

// SetupExperiments wires experiment items added since Initialize.
func (p *Page) SetupExperiments() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.setupExperiments()
}

// WireTimelineItems wires timeline items added since Initialize.
func (p *Page) WireTimelineItems() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.wireTimelineItems()
}
