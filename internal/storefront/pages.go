package storefront

import (
	"net/http"
	"net/url"
	"strings"
)

const cartCookie = "cart"

// HomeHandler handles the storefront index
type HomeHandler struct {
	renderer *Renderer
}

// NewHomeHandler creates a new HomeHandler
func NewHomeHandler(renderer *Renderer) *HomeHandler {
	return &HomeHandler{renderer: renderer}
}

// ServeHTTP handles the GET / request
func (h *HomeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	data := h.renderer.Page("home", "Home")
	data.CartCount = len(cartHandles(r))
	h.renderer.Render(w, http.StatusOK, "home", data)
}

// CollectionHandler renders /collections/{handle}
type CollectionHandler struct {
	renderer *Renderer
	catalog  Catalog
}

// NewCollectionHandler creates a new CollectionHandler
func NewCollectionHandler(renderer *Renderer, catalog Catalog) *CollectionHandler {
	return &CollectionHandler{renderer: renderer, catalog: catalog}
}

// ServeHTTP handles the GET /collections/{handle} request
func (h *CollectionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	collection, products, ok := h.catalog.Collection(r.PathValue("handle"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	data := h.renderer.Page("collection", collection.Title)
	data.Collection = collection
	data.Products = products
	data.CartCount = len(cartHandles(r))
	h.renderer.Render(w, http.StatusOK, "collection", data)
}

// ProductHandler renders /products/{handle}
type ProductHandler struct {
	renderer *Renderer
	catalog  Catalog
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(renderer *Renderer, catalog Catalog) *ProductHandler {
	return &ProductHandler{renderer: renderer, catalog: catalog}
}

// ServeHTTP handles the GET /products/{handle} request
func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	product, ok := h.catalog.Product(r.PathValue("handle"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	data := h.renderer.Page("product", product.Name)
	data.Product = product
	data.CartCount = len(cartHandles(r))
	h.renderer.Render(w, http.StatusOK, "product", data)
}

// CartHandler shows the cart and accepts additions
type CartHandler struct {
	renderer *Renderer
	catalog  Catalog
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(renderer *Renderer, catalog Catalog) *CartHandler {
	return &CartHandler{renderer: renderer, catalog: catalog}
}

// ServeHTTP handles the GET /cart request
func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var items []Product
	for _, handle := range cartHandles(r) {
		if p, ok := h.catalog.Product(handle); ok {
			items = append(items, p)
		}
	}

	data := h.renderer.Page("cart", "Your cart")
	data.Items = items
	data.CartCount = len(items)
	h.renderer.Render(w, http.StatusOK, "cart", data)
}

// Add handles the POST /cart/add request
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	handle := r.PostForm.Get("id")
	if _, ok := h.catalog.Product(handle); !ok {
		http.Error(w, "Unknown product", http.StatusUnprocessableEntity)
		return
	}

	handles := append(cartHandles(r), handle)
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookie,
		Value:    url.QueryEscape(strings.Join(handles, ",")),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// SearchHandler renders /search
type SearchHandler struct {
	renderer *Renderer
	catalog  Catalog
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(renderer *Renderer, catalog Catalog) *SearchHandler {
	return &SearchHandler{renderer: renderer, catalog: catalog}
}

// ServeHTTP handles the GET /search request
func (h *SearchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	data := h.renderer.Page("search", "Search")
	data.Query = query
	data.Products = h.catalog.Search(query)
	data.CartCount = len(cartHandles(r))
	h.renderer.Render(w, http.StatusOK, "search", data)
}

// cartHandles reads the product handles stored in the cart cookie
func cartHandles(r *http.Request) []string {
	c, err := r.Cookie(cartCookie)
	if err != nil || c.Value == "" {
		return nil
	}
	raw, err := url.QueryUnescape(c.Value)
	if err != nil {
		return nil
	}
	var handles []string
	for _, h := range strings.Split(raw, ",") {
		if h != "" {
			handles = append(handles, h)
		}
	}
	return handles
}
