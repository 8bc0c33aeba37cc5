package feasibility

import "fmt"

// Product identifies one of the outlet's sellable product lines.
type Product string

const (
	ProductPMG  Product = "pmg"  // petrol
	ProductHSD  Product = "hsd"  // diesel
	ProductHOBC Product = "hobc" // high-octane blending component
	ProductLube Product = "lube" // lubricants
)

// Products returns all product lines in display order.
func Products() []Product {
	return []Product{ProductPMG, ProductHSD, ProductHOBC, ProductLube}
}

// ParseProduct converts a stored product name into a Product.
func ParseProduct(name string) (Product, error) {
	switch Product(name) {
	case ProductPMG, ProductHSD, ProductHOBC, ProductLube:
		return Product(name), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownProduct, name)
}

// String returns the product name.
func (p Product) String() string { return string(p) }

// ProductDefaults carries the fallback assumptions for one product line,
// used when a scenario supplies no schedule for it.
type ProductDefaults struct {
	GrowthRate float64 `yaml:"growth_rate" json:"growth_rate"`
	Margin     float64 `yaml:"margin" json:"margin"`
}

// Defaults maps each product to its fallback growth rate and margin.
type Defaults map[Product]ProductDefaults

// BuiltinDefaults returns the stock assumption table. Margins are currency
// units per liter; growth rates are annual decimals.
func BuiltinDefaults() Defaults {
	return Defaults{
		ProductPMG:  {GrowthRate: 0.05, Margin: 5.0},
		ProductHSD:  {GrowthRate: 0.05, Margin: 4.0},
		ProductHOBC: {GrowthRate: 0.06, Margin: 6.0},
		ProductLube: {GrowthRate: 0.01, Margin: 100.0},
	}
}

// For returns the defaults for a product, falling back to the builtin table
// when the receiver has no entry.
func (d Defaults) For(product Product) ProductDefaults {
	if d != nil {
		if def, ok := d[product]; ok {
			return def
		}
	}
	return BuiltinDefaults()[product]
}
