package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Fund is a mutual fund scheme suggested for an asset class
type Fund struct {
	Name       string     `yaml:"name" json:"name"`
	Category   string     `yaml:"category" json:"category"`
	SchemeCode string     `yaml:"scheme_code" json:"scheme_code"`
	AMC        string     `yaml:"amc" json:"amc"`
	AssetClass AssetClass `yaml:"asset_class" json:"asset_class"`
}

// NAV is the latest published net asset value of a scheme
type NAV struct {
	SchemeCode string          `json:"scheme_code"`
	SchemeName string          `json:"scheme_name"`
	Value      decimal.Decimal `json:"nav"`
	Date       time.Time       `json:"date"`
}
