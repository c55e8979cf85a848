package editor

import (
	"fmt"

	"katalog/internal/messages"
	"katalog/internal/models"

	"github.com/shopspring/decimal"
)

// View describes everything the page shows. It is rebuilt from scratch on every render.
type View struct {
	NameValue  string
	PriceValue string
	NameError  string
	PriceError string

	EmptyNoticeVisible bool
	Items              []ItemView
}

// ItemView describes one list item.
type ItemView struct {
	ID         int
	OutOfStock bool
	Name       string
	Price      string
	StockLabel string
	StockClass string // "in" or "out"
	Toggle     ActionView
	Delete     ActionView
}

// ActionView describes one button of a list item.
type ActionView struct {
	Action string
	Label  string
	Class  string
}

// Render rebuilds the view from the current catalog state.
func (p *Page) Render() (View, error) {
	products, err := p.catalog.List()
	if err != nil {
		return View{}, fmt.Errorf("failed to render page: %w", err)
	}

	view := View{
		NameValue:          p.nameValue,
		PriceValue:         p.priceValue,
		NameError:          p.nameError,
		PriceError:         p.priceError,
		EmptyNoticeVisible: len(products) == 0,
		Items:              make([]ItemView, 0, len(products)),
	}
	for _, product := range products {
		view.Items = append(view.Items, NewItemView(product, p.msgs))
	}
	return view, nil
}

// NewItemView maps a product to its list item description.
func NewItemView(product models.Product, msgs messages.Set) ItemView {
	item := ItemView{
		ID:         product.ID,
		OutOfStock: !product.InStock,
		Name:       product.Name,
		Price:      FormatPrice(product.Price),
		Delete: ActionView{
			Action: ActionDelete,
			Label:  msgs.Delete,
			Class:  "product-options_delete",
		},
	}
	if product.InStock {
		item.StockLabel = msgs.InStock
		item.StockClass = "in"
		item.Toggle = ActionView{
			Action: ActionToggleStock,
			Label:  msgs.MarkOutOfStock,
			Class:  "product-options_toggle-stock in-stock",
		}
	} else {
		item.StockLabel = msgs.OutOfStock
		item.StockClass = "out"
		item.Toggle = ActionView{
			Action: ActionToggleStock,
			Label:  msgs.MarkInStock,
			Class:  "product-options_toggle-stock",
		}
	}
	return item
}

// FormatPrice renders a price with exactly two decimals.
func FormatPrice(price float64) string {
	return decimal.NewFromFloat(price).StringFixed(2)
}
