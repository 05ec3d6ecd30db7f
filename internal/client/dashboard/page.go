// Package dashboard holds the merchant dashboard's page model and the
// controller that drives it from the auth client and the canister.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// Element IDs of the dashboard page.
const (
	LoginButton        = "login-button"
	LogoutButton       = "logout-button"
	PrincipalID        = "principal-id"
	MerchantInfo       = "merchant-info"
	MerchantDetails    = "merchant-details"
	TransactionMonitor = "transaction-monitor"
	TransactionList    = "transaction-list"
	PaymentProcessor   = "payment-processor"
	UpdateMerchant     = "update-merchant"
	GenerateQR         = "generate-qr"
	QRCode             = "qr-code"
	PaymentAmount      = "payment-amount"
)

var (
	ErrElementNotFound = errors.New("element not found")
	ErrElementHidden   = errors.New("element is not visible")
	ErrNoHandler       = errors.New("no click handler bound")
)

// ClickHandler reacts to a click on an element.
type ClickHandler func(ctx context.Context) error

// Element is a snapshot of one page element.
type Element struct {
	ID         string
	Parent     string
	Visible    bool
	Text       string
	Paragraphs []string
	Value      string
}

// layout lists the page elements in render order with their parent panel.
var layout = []struct {
	id, parent string
	visible    bool
}{
	{PrincipalID, "", true},
	{LoginButton, "", true},
	{LogoutButton, "", false},
	{MerchantInfo, "", false},
	{MerchantDetails, MerchantInfo, true},
	{UpdateMerchant, MerchantInfo, true},
	{TransactionMonitor, "", false},
	{TransactionList, TransactionMonitor, true},
	{PaymentProcessor, "", false},
	{PaymentAmount, PaymentProcessor, true},
	{GenerateQR, PaymentProcessor, true},
	{QRCode, PaymentProcessor, true},
}

// Page is the in-memory dashboard page. It is safe for concurrent use.
type Page struct {
	mu       sync.RWMutex
	order    []string
	elements map[string]*Element
	handlers map[string]ClickHandler
	onChange func(id string)
}

// NewDashboardPage returns the page in its initial, logged-out state.
func NewDashboardPage() *Page {
	p := &Page{
		elements: make(map[string]*Element, len(layout)),
		handlers: make(map[string]ClickHandler),
	}
	for _, l := range layout {
		p.order = append(p.order, l.id)
		p.elements[l.id] = &Element{ID: l.id, Parent: l.parent, Visible: l.visible}
	}
	return p
}

// OnChange registers fn to be called after every content or visibility
// change. fn runs outside the page lock.
func (p *Page) OnChange(fn func(id string)) {
	p.mu.Lock()
	p.onChange = fn
	p.mu.Unlock()
}

func (p *Page) update(id string, fn func(e *Element)) error {
	p.mu.Lock()
	e, ok := p.elements[id]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	fn(e)
	notify := p.onChange
	p.mu.Unlock()

	if notify != nil {
		notify(id)
	}
	return nil
}

func (p *Page) SetText(id, text string) error {
	return p.update(id, func(e *Element) { e.Text = text })
}

// SetParagraphs replaces the element's content with one paragraph per entry.
func (p *Page) SetParagraphs(id string, paragraphs []string) error {
	cp := make([]string, len(paragraphs))
	copy(cp, paragraphs)
	return p.update(id, func(e *Element) { e.Paragraphs = cp })
}

// Clear empties the element's text and paragraphs.
func (p *Page) Clear(id string) error {
	return p.update(id, func(e *Element) {
		e.Text = ""
		e.Paragraphs = nil
	})
}

func (p *Page) SetVisible(id string, visible bool) error {
	return p.update(id, func(e *Element) { e.Visible = visible })
}

func (p *Page) SetValue(id, value string) error {
	return p.update(id, func(e *Element) { e.Value = value })
}

func (p *Page) Value(id string) (string, error) {
	e, err := p.Element(id)
	if err != nil {
		return "", err
	}
	return e.Value, nil
}

// IsVisible reports whether the element and all of its ancestors are visible.
func (p *Page) IsVisible(id string) (bool, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	e, ok := p.elements[id]
	if !ok {
		return false, fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	for e != nil {
		if !e.Visible {
			return false, nil
		}
		e = p.elements[e.Parent]
	}
	return true, nil
}

// Element returns a copy of one element.
func (p *Page) Element(id string) (Element, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	e, ok := p.elements[id]
	if !ok {
		return Element{}, fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	return copyElement(e), nil
}

// Snapshot returns copies of all elements in render order.
func (p *Page) Snapshot() []Element {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]Element, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, copyElement(p.elements[id]))
	}
	return out
}

func copyElement(e *Element) Element {
	c := *e
	if e.Paragraphs != nil {
		c.Paragraphs = append([]string(nil), e.Paragraphs...)
	}
	return c
}

// OnClick binds h to the element, replacing any previous binding.
func (p *Page) OnClick(id string, h ClickHandler) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.elements[id]; !ok {
		return fmt.Errorf("%w: %s", ErrElementNotFound, id)
	}
	p.handlers[id] = h
	return nil
}

// Click runs the element's handler. Hidden elements cannot be clicked.
func (p *Page) Click(ctx context.Context, id string) error {
	visible, err := p.IsVisible(id)
	if err != nil {
		return err
	}
	if !visible {
		return fmt.Errorf("%w: %s", ErrElementHidden, id)
	}

	p.mu.RLock()
	h := p.handlers[id]
	p.mu.RUnlock()

	if h == nil {
		return fmt.Errorf("%w: %s", ErrNoHandler, id)
	}
	return h(ctx)
}
