// Package views holds the HTML templates of the product pages.
package views

import (
	"embed"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed layouts products partials errors
var files embed.FS

// NewEngine returns a template engine over the embedded templates. Template
// names are paths without the .html extension, e.g. "products/index".
func NewEngine() *html.Engine {
	return html.NewFileSystem(http.FS(files), ".html")
}
