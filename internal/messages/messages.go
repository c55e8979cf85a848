// Package messages holds the fixed user-facing strings of the editor.
package messages

import "fmt"

// Set is one language's complete set of editor strings.
type Set struct {
	Language string

	Title       string
	NameLabel   string
	PriceLabel  string
	SubmitLabel string
	EmptyList   string
	Expired     string
	ReloadLabel string

	NameRequired  string
	PriceInvalid  string
	PricePositive string

	InStock        string
	OutOfStock     string
	MarkOutOfStock string
	MarkInStock    string
	Delete         string
}

var English = Set{
	Language: "en",

	Title:       "Products",
	NameLabel:   "Product name",
	PriceLabel:  "Price",
	SubmitLabel: "Add product",
	EmptyList:   "The product list is empty.",
	Expired:     "This page has expired.",
	ReloadLabel: "Start over",

	NameRequired:  "product name must not be empty",
	PriceInvalid:  "price must be a valid number",
	PricePositive: "price must be greater than zero",

	InStock:        "in stock",
	OutOfStock:     "out of stock",
	MarkOutOfStock: "mark out of stock",
	MarkInStock:    "mark in stock",
	Delete:         "delete",
}

var Swedish = Set{
	Language: "sv",

	Title:       "Produkter",
	NameLabel:   "Produktnamn",
	PriceLabel:  "Pris",
	SubmitLabel: "Lägg till produkt",
	EmptyList:   "Produktlistan är tom.",
	Expired:     "Sidan har gått ut.",
	ReloadLabel: "Börja om",

	NameRequired:  "Produktnamn får inte vara tomt",
	PriceInvalid:  "Pris måste vara ett giltigt nummer",
	PricePositive: "Pris måste vara större än noll",

	InStock:        "I lager",
	OutOfStock:     "Slut i lager",
	MarkOutOfStock: "Markera slut",
	MarkInStock:    "Markera i lager",
	Delete:         "Ta bort",
}

// For returns the Set of the given language code.
func For(language string) (Set, error) {
	switch language {
	case English.Language:
		return English, nil
	case Swedish.Language:
		return Swedish, nil
	default:
		return Set{}, fmt.Errorf("unsupported language %q", language)
	}
}

// Languages lists the supported language codes.
func Languages() []string {
	return []string{English.Language, Swedish.Language}
}
