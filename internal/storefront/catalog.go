package storefront

import "strings"

// Product represents a product item
type Product struct {
	Handle      string
	Name        string
	Description string
	Price       string
	ImageURL    string
}

// Collection groups products under a handle
type Collection struct {
	Handle   string
	Title    string
	Products []string
}

// Catalog is the fixture store's inventory
type Catalog struct {
	Collections []Collection
	Products    []Product
}

// DefaultCatalog returns a small coffee shop inventory
func DefaultCatalog() Catalog {
	return Catalog{
		Collections: []Collection{
			{Handle: "coffee", Title: "Coffee", Products: []string{"house-blend", "single-origin-ethiopia", "decaf"}},
			{Handle: "gear", Title: "Brewing Gear", Products: []string{"pour-over-kit"}},
		},
		Products: []Product{
			{
				Handle:      "house-blend",
				Name:        "House Blend",
				Description: "A balanced medium roast with notes of cocoa and toasted almond.",
				Price:       "$14.00",
				ImageURL:    "/assets/house-blend.svg",
			},
			{
				Handle:      "single-origin-ethiopia",
				Name:        "Single Origin Ethiopia",
				Description: "Bright and floral, washed Yirgacheffe beans.",
				Price:       "$18.00",
				ImageURL:    "/assets/ethiopia.svg",
			},
			{
				Handle:      "decaf",
				Name:        "Swiss Water Decaf",
				Description: "All of the flavor, none of the jitters.",
				Price:       "$15.00",
				ImageURL:    "/assets/decaf.svg",
			},
			{
				Handle:      "pour-over-kit",
				Name:        "Pour Over Kit",
				Description: "Ceramic dripper, filters and a gooseneck kettle.",
				Price:       "$45.00",
				ImageURL:    "/assets/pour-over.svg",
			},
		},
	}
}

// Product looks up a product by handle
func (c Catalog) Product(handle string) (Product, bool) {
	for _, p := range c.Products {
		if p.Handle == handle {
			return p, true
		}
	}
	return Product{}, false
}

// Collection looks up a collection by handle. The "all" handle always exists
// and contains every product.
func (c Catalog) Collection(handle string) (Collection, []Product, bool) {
	if handle == "all" {
		return Collection{Handle: "all", Title: "Products"}, c.Products, true
	}
	for _, col := range c.Collections {
		if col.Handle != handle {
			continue
		}
		products := make([]Product, 0, len(col.Products))
		for _, h := range col.Products {
			if p, ok := c.Product(h); ok {
				products = append(products, p)
			}
		}
		return col, products, true
	}
	return Collection{}, nil, false
}

// Search returns products whose name or description contains query
func (c Catalog) Search(query string) []Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	var found []Product
	for _, p := range c.Products {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(strings.ToLower(p.Description), query) {
			found = append(found, p)
		}
	}
	return found
}
