package catalog

import (
	"testing"

	"kassenbon/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		items       []model.CatalogItem
		expectError bool
		errorMsg    string
	}{
		{
			name: "Success with valid items",
			items: []model.CatalogItem{
				{Name: "GURKE", Price: 0.79, TaxRate: 7},
				{Name: "Salami", Price: 1.99, TaxRate: 19},
			},
			expectError: false,
		},
		{
			name:        "Error - empty item list",
			items:       nil,
			expectError: true,
			errorMsg:    "at least one item",
		},
		{
			name: "Error - item without name",
			items: []model.CatalogItem{
				{Name: "", Price: 1.00, TaxRate: 7},
			},
			expectError: true,
			errorMsg:    "item 0",
		},
		{
			name: "Error - negative price",
			items: []model.CatalogItem{
				{Name: "Brot", Price: -2.00, TaxRate: 7},
			},
			expectError: true,
			errorMsg:    "negative price",
		},
		{
			name: "Error - unsupported tax rate",
			items: []model.CatalogItem{
				{Name: "Brot", Price: 2.00, TaxRate: 9},
			},
			expectError: true,
			errorMsg:    "unsupported tax rate 9",
		},
		{
			name: "Error - no item with positive price",
			items: []model.CatalogItem{
				{Name: "Gratisprobe", Price: 0, TaxRate: 7},
			},
			expectError: true,
			errorMsg:    "no item with a positive price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, err := New(tt.items)

			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, len(tt.items), cat.Len())
		})
	}
}

func TestCatalog_ItemsReturnsCopy(t *testing.T) {
	cat, err := New([]model.CatalogItem{
		{Name: "GURKE", Price: 0.79, TaxRate: 7},
	})
	require.NoError(t, err)

	items := cat.Items()
	items[0].Price = 99.99
	items[0].Name = "mutated"

	fresh := cat.Items()
	assert.Equal(t, "GURKE", fresh[0].Name)
	assert.Equal(t, 0.79, fresh[0].Price)
}

func TestCatalog_NewCopiesInput(t *testing.T) {
	input := []model.CatalogItem{
		{Name: "Brot", Price: 2.00, TaxRate: 7},
	}

	cat, err := New(input)
	require.NoError(t, err)

	input[0].Price = 50.00

	assert.Equal(t, 2.00, cat.Items()[0].Price)
}

func TestDefault(t *testing.T) {
	cat := Default()

	assert.Equal(t, 13, cat.Len())

	for _, item := range cat.Items() {
		assert.NotEmpty(t, item.Name)
		assert.Greater(t, item.Price, 0.0)
		assert.Contains(t, []int{model.ReducedTaxRate, model.StandardTaxRate}, item.TaxRate)
	}
}
