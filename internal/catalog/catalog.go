package catalog

import (
	"fmt"

	"kassenbon/internal/model"
)

// Catalog is an immutable set of purchasable items. It is built once at
// startup and shared read-only between all receipt generations, so no
// locking is needed.
type Catalog struct {
	items []model.CatalogItem
}

// New creates a catalogue from the given items after validating them.
// An empty item list is a configuration error, not something synthesis
// recovers from later.
func New(items []model.CatalogItem) (Catalog, error) {
	if len(items) == 0 {
		return Catalog{}, model.ErrEmptyCatalog
	}

	hasPositivePrice := false
	for i, item := range items {
		if item.Name == "" {
			return Catalog{}, fmt.Errorf("item %d: %w", i, model.ErrInvalidItem)
		}
		if item.Price < 0 {
			return Catalog{}, fmt.Errorf("item %q: negative price: %w", item.Name, model.ErrInvalidItem)
		}
		if item.TaxRate != model.ReducedTaxRate && item.TaxRate != model.StandardTaxRate {
			return Catalog{}, fmt.Errorf("item %q: unsupported tax rate %d: %w", item.Name, item.TaxRate, model.ErrInvalidItem)
		}
		if item.Price > 0 {
			hasPositivePrice = true
		}
	}

	if !hasPositivePrice {
		return Catalog{}, fmt.Errorf("catalogue has no item with a positive price: %w", model.ErrInvalidItem)
	}

	// Copy so that later mutation of the caller's slice cannot reach us.
	owned := make([]model.CatalogItem, len(items))
	copy(owned, items)

	return Catalog{items: owned}, nil
}

// Items returns a copy of the catalogue items. Callers may mutate the
// returned slice freely.
func (c Catalog) Items() []model.CatalogItem {
	items := make([]model.CatalogItem, len(c.items))
	copy(items, c.items)
	return items
}

// Len returns the number of items in the catalogue.
func (c Catalog) Len() int {
	return len(c.items)
}

// Default returns the built-in grocery catalogue used when no catalogue
// file is configured.
func Default() Catalog {
	cat, err := New([]model.CatalogItem{
		{Name: "GURKE", Price: 0.79, TaxRate: 7},
		{Name: "BANANEN", Price: 1.29, TaxRate: 7},
		{Name: "REWE Bio Apfel", Price: 2.49, TaxRate: 7},
		{Name: "Milch 1,5%", Price: 1.19, TaxRate: 7},
		{Name: "Butter", Price: 2.29, TaxRate: 7},
		{Name: "Brot", Price: 2.00, TaxRate: 7},
		{Name: "Joghurt", Price: 0.59, TaxRate: 7},
		{Name: "Vollkornbrot", Price: 1.89, TaxRate: 19},
		{Name: "Salami", Price: 1.99, TaxRate: 19},
		{Name: "Käse", Price: 2.99, TaxRate: 19},
		{Name: "Energy Drink", Price: 1.49, TaxRate: 19},
		{Name: "Kaffee Crema", Price: 0.99, TaxRate: 7},
		{Name: "Wasser", Price: 5.99, TaxRate: 19},
	})
	if err != nil {
		// The built-in list is fixed and valid; reaching this is a bug.
		panic(fmt.Sprintf("built-in catalogue invalid: %v", err))
	}
	return cat
}
