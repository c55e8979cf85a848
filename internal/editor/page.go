// Package editor turns user notifications into catalog mutations and describes
// the page that results from the current catalog state.
//
// A Page is the server-side counterpart of one loaded editor page: it owns the
// catalog store plus the values of the two input fields and the two inline
// message regions. Nothing in this package knows about HTTP or HTML.
package editor

import (
	"math"
	"strconv"
	"strings"

	"katalog/internal/messages"
	"katalog/internal/models"

	"github.com/go-playground/validator/v10"
)

// Actions a list item button can carry.
const (
	ActionToggleStock = "toggle-stock"
	ActionDelete      = "delete"
)

// Catalog is the store a Page reads from and mutates.
type Catalog interface {
	Add(name string, price float64) (models.Product, error)
	ToggleStock(id int) (bool, error)
	Remove(id int) (bool, error)
	List() ([]models.Product, error)
}

// SubmitEvent carries the raw text of the form fields at submission time.
type SubmitEvent struct {
	Name  string
	Price string
}

// ClickEvent describes a click inside the rendered list.
type ClickEvent struct {
	// InItem is false when the click landed outside any list item.
	InItem bool
	// ProductID is the raw identifier stored on the item, possibly empty.
	ProductID string
	Action    string
}

// Page holds the state of one editor page.
type Page struct {
	catalog  Catalog
	msgs     messages.Set
	validate *validator.Validate

	nameValue  string
	priceValue string
	nameError  string
	priceError string
}

// NewPage creates a Page over the given catalog.
func NewPage(catalog Catalog, msgs messages.Set) *Page {
	return &Page{
		catalog:  catalog,
		msgs:     msgs,
		validate: validator.New(),
	}
}

// Messages returns the strings the page renders with.
func (p *Page) Messages() messages.Set {
	return p.msgs
}

// Submit handles one form submission. It reports whether a product was added.
//
// Validation stops at the first failure, writes that field's message and keeps
// both fields as typed. Message regions are never cleared here.
func (p *Page) Submit(ev SubmitEvent) (bool, error) {
	p.nameValue = ev.Name
	p.priceValue = ev.Price

	name := strings.TrimSpace(ev.Name)
	priceText := strings.TrimSpace(ev.Price)

	if err := p.validate.Var(name, "required"); err != nil {
		p.nameError = p.msgs.NameRequired
		return false, nil
	}

	price, ok := parsePrice(priceText)
	if !ok {
		p.priceError = p.msgs.PriceInvalid
		return false, nil
	}
	if err := p.validate.Var(price, "gt=0"); err != nil {
		p.priceError = p.msgs.PricePositive
		return false, nil
	}

	if _, err := p.catalog.Add(name, price); err != nil {
		return false, err
	}

	p.nameValue = ""
	p.priceValue = ""
	return true, nil
}

// Click handles one click inside the list. It reports whether the catalog changed.
func (p *Page) Click(ev ClickEvent) (bool, error) {
	if !ev.InItem {
		return false, nil
	}
	id := parseProductID(ev.ProductID)

	switch ev.Action {
	case ActionToggleStock:
		return p.catalog.ToggleStock(id)
	case ActionDelete:
		return p.catalog.Remove(id)
	default:
		return false, nil
	}
}

// parsePrice accepts finite decimal numbers only.
func parsePrice(text string) (float64, bool) {
	if text == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, false
	}
	return price, true
}

// parseProductID falls back to 0, which never matches a product.
func parseProductID(raw string) int {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0
	}
	return id
}
