package domain

// Product is a single storefront item. Immutable once loaded; the whole
// catalog is replaced on refresh, never patched in place.
type Product struct {
	ID          int            `json:"id"`
	Name        string         `json:"name"`
	Weights     []string       `json:"weights"`
	Prices      map[string]int `json:"prices"` // weight label -> minor units
	Composition string         `json:"composition"`
	ImageURL    string         `json:"image_url"`
}

// Price returns the minor-unit price for a weight label, or 0 when the
// label is unknown.
func (p *Product) Price(weight string) int {
	return p.Prices[weight]
}

// Category is an ordered list of products under one storefront tab.
type Category struct {
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

// Catalog keeps categories in storefront order so menus render stably.
type Catalog struct {
	Categories []Category `json:"categories"`
}

// Lookup scans all categories for a product id.
func (c *Catalog) Lookup(id int) (*Product, bool) {
	if c == nil {
		return nil, false
	}
	for ci := range c.Categories {
		for pi := range c.Categories[ci].Products {
			if c.Categories[ci].Products[pi].ID == id {
				return &c.Categories[ci].Products[pi], true
			}
		}
	}
	return nil, false
}

// ByCategory returns the products of a named category, or nil.
func (c *Catalog) ByCategory(name string) []Product {
	if c == nil {
		return nil
	}
	for _, cat := range c.Categories {
		if cat.Name == name {
			return cat.Products
		}
	}
	return nil
}

// CategoryOf returns the name of the category containing a product id.
func (c *Catalog) CategoryOf(id int) (string, bool) {
	if c == nil {
		return "", false
	}
	for _, cat := range c.Categories {
		for _, p := range cat.Products {
			if p.ID == id {
				return cat.Name, true
			}
		}
	}
	return "", false
}

// Empty reports whether the catalog has no products at all.
func (c *Catalog) Empty() bool {
	if c == nil {
		return true
	}
	for _, cat := range c.Categories {
		if len(cat.Products) > 0 {
			return false
		}
	}
	return true
}
