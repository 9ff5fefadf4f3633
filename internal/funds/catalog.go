// Package funds holds the suggested scheme catalogue and the cached NAV lookups.
package funds

import (
	"github.com/rgehrsitz/sipgo/internal/config"
	"github.com/rgehrsitz/sipgo/internal/domain"
)

// Catalog groups the suggested funds of a risk model by asset class
type Catalog struct {
	byClass map[domain.AssetClass][]domain.Fund
	order   []domain.AssetClass
}

// NewCatalog indexes the funds of m; nil uses the default model
func NewCatalog(m *config.RiskModel) *Catalog {
	if m == nil {
		m = config.MustDefaultRiskModel()
	}
	c := &Catalog{byClass: make(map[domain.AssetClass][]domain.Fund)}
	for _, f := range m.Funds {
		if _, ok := c.byClass[f.AssetClass]; !ok {
			c.order = append(c.order, f.AssetClass)
		}
		c.byClass[f.AssetClass] = append(c.byClass[f.AssetClass], f)
	}
	return c
}

// AssetClasses lists the classes in catalogue order
func (c *Catalog) AssetClasses() []domain.AssetClass {
	return append([]domain.AssetClass(nil), c.order...)
}

// ByAssetClass returns a copy of the funds suggested for one class
func (c *Catalog) ByAssetClass(class domain.AssetClass) []domain.Fund {
	return append([]domain.Fund(nil), c.byClass[class]...)
}

// Find returns the fund with the given scheme code
func (c *Catalog) Find(schemeCode string) (domain.Fund, bool) {
	for _, class := range c.order {
		for _, f := range c.byClass[class] {
			if f.SchemeCode == schemeCode {
				return f, true
			}
		}
	}
	return domain.Fund{}, false
}

// Suggestion pairs an allocation row with the funds that can fill it
type Suggestion struct {
	AssetClass domain.AssetClass `json:"asset_class"`
	Percentage int               `json:"percentage"`
	Funds      []domain.Fund     `json:"funds"`
}

// ForProfile returns suggestions for every allocation row with a non-zero weight,
// in allocation order
func (c *Catalog) ForProfile(allocations []domain.Allocation) []Suggestion {
	out := make([]Suggestion, 0, len(allocations))
	for _, a := range allocations {
		if a.Percentage <= 0 {
			continue
		}
		out = append(out, Suggestion{
			AssetClass: a.AssetClass,
			Percentage: a.Percentage,
			Funds:      c.ByAssetClass(a.AssetClass),
		})
	}
	return out
}

// All returns every asset class with its funds and no weight
func (c *Catalog) All() []Suggestion {
	out := make([]Suggestion, 0, len(c.order))
	for _, class := range c.order {
		out = append(out, Suggestion{AssetClass: class, Funds: c.ByAssetClass(class)})
	}
	return out
}
