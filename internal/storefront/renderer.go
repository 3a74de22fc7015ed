package storefront

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"

	"github.com/realbeans/storeprobe/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

// Theme toggles which affordances the storefront renders
type Theme struct {
	Menu        bool
	Collections bool
	Products    bool
	Cart        bool
	Search      bool
}

// FullTheme renders every affordance
func FullTheme() Theme {
	return Theme{Menu: true, Collections: true, Products: true, Cart: true, Search: true}
}

// ThemeFromConfig hides the features disabled in cfg
func ThemeFromConfig(cfg config.FixtureConfig) Theme {
	return Theme{
		Menu:        !cfg.IsDisabled("menu"),
		Collections: !cfg.IsDisabled("collections"),
		Products:    !cfg.IsDisabled("products"),
		Cart:        !cfg.IsDisabled("cart"),
		Search:      !cfg.IsDisabled("search"),
	}
}

// PageData is passed to every template
type PageData struct {
	StoreName  string
	Title      string
	Template   string
	Theme      Theme
	Catalog    Catalog
	CartCount  int
	Collection Collection
	Product    Product
	Products   []Product
	Items      []Product
	Query      string
	Error      string
}

// Renderer executes the embedded theme templates
type Renderer struct {
	templates *template.Template
	storeName string
	theme     Theme
	catalog   Catalog
}

// NewRenderer parses the embedded templates
func NewRenderer(storeName string, theme Theme, catalog Catalog) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{
		templates: tmpl,
		storeName: storeName,
		theme:     theme,
		catalog:   catalog,
	}, nil
}

// Page fills in the store-wide fields of PageData
func (r *Renderer) Page(name, title string) PageData {
	return PageData{
		StoreName: r.storeName,
		Title:     title,
		Template:  name,
		Theme:     r.theme,
		Catalog:   r.catalog,
	}
}

// Render writes the named template with status. Nothing is written until the
// template has executed successfully.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data PageData) {
	var buf bytes.Buffer
	if err := r.templates.ExecuteTemplate(&buf, name, data); err != nil {
		log.Printf("Error rendering template %s: %v", name, err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}
