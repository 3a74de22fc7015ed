// Package storefront serves a local imitation of a hosted storefront's default
// theme: an optional password gate plus home, collection, product, cart and
// search pages whose affordances can be switched off one by one.
package storefront

import (
	"fmt"
	"net/http"
)

// Options configure a fixture storefront
type Options struct {
	StoreName string
	Password  string
	Theme     Theme
	Catalog   Catalog
}

// New builds the storefront's routes
func New(opts Options) (http.Handler, error) {
	if opts.StoreName == "" {
		opts.StoreName = "Real Beans"
	}
	if len(opts.Catalog.Products) == 0 {
		opts.Catalog = DefaultCatalog()
	}

	renderer, err := NewRenderer(opts.StoreName, opts.Theme, opts.Catalog)
	if err != nil {
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	password := NewPasswordHandler(renderer, opts.Password)
	cart := NewCartHandler(renderer, opts.Catalog)

	mux := http.NewServeMux()
	mux.Handle("/password", password)
	mux.Handle("GET /{$}", NewHomeHandler(renderer))
	mux.Handle("GET /collections/{handle}", NewCollectionHandler(renderer, opts.Catalog))
	mux.Handle("GET /products/{handle}", NewProductHandler(renderer, opts.Catalog))
	mux.Handle("GET /cart", cart)
	mux.HandleFunc("POST /cart/add", cart.Add)
	mux.Handle("GET /search", NewSearchHandler(renderer, opts.Catalog))
	mux.HandleFunc("GET /assets/", serveAsset)

	return password.Protect(mux), nil
}

// serveAsset returns a placeholder image for any asset path
func serveAsset(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write([]byte(`<svg xmlns="http://www.w3.org/2000/svg" width="400" height="400"><rect width="100%" height="100%" fill="#c8a27a"/></svg>`))
}
