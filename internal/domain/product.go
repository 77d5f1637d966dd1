package domain

import "time"

// Product is a commodity tracked by the system. Products are created lazily on
// first reference and never deleted.
type Product struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	Name         string        `json:"name" gorm:"uniqueIndex;not null"`
	Analyses     []Analysis    `json:"-" gorm:"foreignKey:ProductID"`
	PriceRecords []PriceRecord `json:"-" gorm:"foreignKey:ProductID"`
}

// PriceRecord is a single observed price for a product, in currency per kg.
// Records are append-only and ordered by timestamp.
type PriceRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProductID uint      `json:"product_id" gorm:"index;not null"`
	Timestamp time.Time `json:"timestamp" gorm:"index"`
	Price     float64   `json:"price"`
}

// Analysis is a write-once record of one image classification event.
type Analysis struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	ProductID  uint      `json:"product_id" gorm:"index;not null"`
	Timestamp  time.Time `json:"timestamp"`
	Quality    string    `json:"quality"`
	Disease    string    `json:"disease"`
	Confidence float64   `json:"confidence"`
	ImagePath  string    `json:"image_path,omitempty"`
}

// ProductConfig describes the synthetic price behavior of one catalog commodity.
type ProductConfig struct {
	BasePrice     float64 // currency per kg
	SeasonalShift int     // days; where in the year the price cycle peaks
	Volatility    float64 // noise coefficient
}

// Catalog is the fixed set of eight commodities the system recognizes, with
// the base price, seasonal phase-shift and volatility used to seed history.
var Catalog = map[string]ProductConfig{
	"Rice":     {BasePrice: 2.50, SeasonalShift: 90, Volatility: 0.10},
	"Wheat":    {BasePrice: 1.80, SeasonalShift: 60, Volatility: 0.12},
	"Corn":     {BasePrice: 1.50, SeasonalShift: 30, Volatility: 0.15},
	"Soybeans": {BasePrice: 2.20, SeasonalShift: 45, Volatility: 0.13},
	"Tomatoes": {BasePrice: 3.50, SeasonalShift: 0, Volatility: 0.20},
	"Potatoes": {BasePrice: 1.20, SeasonalShift: 120, Volatility: 0.15},
	"Apples":   {BasePrice: 2.80, SeasonalShift: 180, Volatility: 0.18},
	"Oranges":  {BasePrice: 2.60, SeasonalShift: 150, Volatility: 0.16},
}

// CatalogNames lists the catalog in a fixed order. The deterministic fallback
// classification indexes into this slice, so the order must not change.
var CatalogNames = []string{
	"Tomatoes", "Potatoes", "Wheat", "Corn",
	"Soybeans", "Rice", "Apples", "Oranges",
}

// Qualities are the freshness grades, ordered best to worst.
var Qualities = []string{"Excellent", "Good", "Fair", "Poor"}

// Diseases are the plant health labels. "Healthy" means no disease detected.
var Diseases = []string{"Healthy", "Leaf Spot", "Blight", "Rust"}
