// Package views holds the embedded HTML templates of the editor and the data
// they render.
package views

import (
	"embed"
	"io/fs"
	"net/http"

	"katalog/internal/editor"
	"katalog/internal/messages"

	"github.com/gofiber/template/html/v2"
)

// Template names understood by the engine.
const (
	Layout  = "layouts/main"
	Index   = "index"
	Expired = "expired"
)

//go:embed templates
var templates embed.FS

// NewEngine returns a Fiber view engine over the embedded templates.
func NewEngine() (*html.Engine, error) {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		return nil, err
	}
	return html.NewFileSystem(http.FS(sub), ".html"), nil
}

// Page is the data of the editor page.
type Page struct {
	Token    string
	Messages messages.Set
	View     editor.View
}

// Item is one list item together with the token its buttons post back.
type Item struct {
	editor.ItemView
	Token string
}

// Items pairs every list item with the page token.
func (p Page) Items() []Item {
	items := make([]Item, 0, len(p.View.Items))
	for _, item := range p.View.Items {
		items = append(items, Item{ItemView: item, Token: p.Token})
	}
	return items
}

// ExpiredPage is the data of the page shown for unknown or expired sessions.
type ExpiredPage struct {
	Messages messages.Set
}
