package domain

// TextureFeatures summarizes the texture of an image's grayscale reduction.
type TextureFeatures struct {
	MeanGradient float64 `json:"mean_gradient"`
	StdGradient  float64 `json:"std_gradient"`
	Entropy      float64 `json:"entropy"`    // Shannon entropy, base 2, over 32 bins
	Smoothness   float64 `json:"smoothness"` // 1 - 1/(1 + std^2)
	Uniformity   float64 `json:"uniformity"` // sum of squared normalized histogram bins
}

// FeatureBundle is the numeric descriptor extracted from one image. It is
// produced once per image, consumed once by the classifier, then discarded.
type FeatureBundle struct {
	MeanColor     [3]float64      `json:"mean_color"` // R, G, B channel means
	StdColor      [3]float64      `json:"std_color"`
	Brightness    float64         `json:"brightness"`
	Contrast      float64         `json:"contrast"`
	ColorRatios   [3]float64      `json:"color_ratios"` // fractions summing to ~1
	Histograms    [3][32]float64  `json:"histograms"`   // normalized per channel
	Texture       TextureFeatures `json:"texture"`
	ColorVariance float64         `json:"color_variance"` // variance across channel means
	ColorStd      float64         `json:"color_std"`
}

// HistogramPeak returns the index of the largest bin of the given channel.
func (f *FeatureBundle) HistogramPeak(channel int) int {
	peak := 0
	for i, v := range f.Histograms[channel] {
		if v > f.Histograms[channel][peak] {
			peak = i
		}
	}
	return peak
}

// ClassificationResult is the classifier output consumed by the presentation layer.
type ClassificationResult struct {
	Product    string  `json:"product"`
	Quality    string  `json:"quality"`
	Disease    string  `json:"disease"`
	Confidence float64 `json:"confidence"` // 0..1
}

// PriceStatistics summarizes the recent price window of a product.
// All values are 0.0 when the product has no price history.
type PriceStatistics struct {
	CurrentPrice float64 `json:"current_price"`
	AveragePrice float64 `json:"average_price"`
	PriceChange  float64 `json:"price_change"` // percent, day over day
	MinPrice     float64 `json:"min_price"`
	MaxPrice     float64 `json:"max_price"`
}

// PricePoint is one (date, price) observation in a history or forecast series.
type PricePoint struct {
	Date  string  `json:"date"` // ISO date, YYYY-MM-DD
	Price float64 `json:"price"`
}

// ForecastResult is the multi-day price prediction for a product.
type ForecastResult struct {
	Forecast   []PricePoint `json:"forecast"`
	Confidence float64      `json:"confidence"` // trend model fit quality (R²)
	Trend      string       `json:"trend"`      // "up", "down" or "stable"
}

// RealTimeQuote is the simulated live price of a product.
type RealTimeQuote struct {
	CurrentPrice       float64 `json:"current_price"`
	NextHourPrediction float64 `json:"next_hour_prediction"`
	UpdateTime         string  `json:"update_time"` // HH:MM:SS
}
