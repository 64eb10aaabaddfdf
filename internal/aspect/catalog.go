package aspect

import (
	"fmt"
	"sort"

	"review_insights/internal/domain"
)

// Catalog resolves the vocabulary for a product through its category.
type Catalog struct {
	categories      map[string]*Vocabulary
	products        map[string]string
	defaultCategory string
}

func NewCatalog(categories map[string][]string, products map[string]string, defaultCategory string) (*Catalog, error) {
	if len(categories) == 0 {
		return nil, fmt.Errorf("%w: no aspect categories configured", domain.ErrConfiguration)
	}
	c := &Catalog{
		categories:      make(map[string]*Vocabulary, len(categories)),
		products:        make(map[string]string, len(products)),
		defaultCategory: defaultCategory,
	}
	for name, terms := range categories {
		v, err := NewVocabulary(terms)
		if err != nil {
			return nil, fmt.Errorf("category %q: %w", name, err)
		}
		c.categories[name] = v
	}
	if _, ok := c.categories[defaultCategory]; !ok {
		return nil, fmt.Errorf("%w: default category %q is not defined", domain.ErrConfiguration, defaultCategory)
	}
	for product, category := range products {
		if _, ok := c.categories[category]; !ok {
			return nil, fmt.Errorf("%w: product %q maps to unknown category %q", domain.ErrConfiguration, product, category)
		}
		c.products[product] = category
	}
	return c, nil
}

// Category returns the product's category, or the default one.
func (c *Catalog) Category(productID string) string {
	if cat, ok := c.products[productID]; ok {
		return cat
	}
	return c.defaultCategory
}

func (c *Catalog) For(productID string) *Vocabulary {
	return c.categories[c.Category(productID)]
}

func (c *Catalog) Categories() []string {
	out := make([]string, 0, len(c.categories))
	for name := range c.categories {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
