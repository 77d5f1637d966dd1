package usecase

import (
	"context"
	"image"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/cropsight/backend/internal/domain"
)

// UnknownLabel is returned when classification fails outright.
const UnknownLabel = "Unknown"

// rule pairs a commodity label with the feature predicate that detects it.
// Rules are evaluated in order and the first match wins; there is no other
// behavioral variation between commodities, so an ordered slice beats dynamic
// dispatch here.
type rule struct {
	label string
	match func(f *domain.FeatureBundle) bool
}

var productRules = []rule{
	{
		// light colored, very uniform, smooth, low color variance
		label: "Rice",
		match: func(f *domain.FeatureBundle) bool {
			return f.Brightness > 160 && f.Brightness < 220 &&
				f.ColorVariance < 100 &&
				f.ColorStd < 15 &&
				f.Texture.Uniformity > 0.2 &&
				f.Texture.Smoothness > 0.7 &&
				math.Abs(f.ColorRatios[0]-f.ColorRatios[1]) < 0.1 &&
				f.ColorRatios[2] < 0.34 &&
				f.Texture.Entropy < 3.0
		},
	},
	{
		// yellow dominant, medium texture
		label: "Corn",
		match: func(f *domain.FeatureBundle) bool {
			return f.ColorRatios[0] > 0.4 &&
				f.ColorRatios[1] > 0.35 &&
				f.ColorRatios[2] < 0.25 &&
				f.HistogramPeak(0) > f.HistogramPeak(2) &&
				f.Texture.MeanGradient < 50
		},
	},
	{
		// red dominant, smooth
		label: "Tomatoes",
		match: func(f *domain.FeatureBundle) bool {
			return f.ColorRatios[0] > 0.45 &&
				f.ColorRatios[1] < 0.35 &&
				f.ColorRatios[2] < 0.3 &&
				f.HistogramPeak(0) > f.HistogramPeak(1) &&
				f.Texture.Smoothness > 0.7
		},
	},
	{
		// brown/beige, rough texture
		label: "Potatoes",
		match: func(f *domain.FeatureBundle) bool {
			return math.Abs(f.ColorRatios[0]-f.ColorRatios[1]) < 0.1 &&
				f.ColorRatios[2] < 0.3 &&
				f.Texture.MeanGradient > 30
		},
	},
	{
		// yellow/brown, high texture detail
		label: "Wheat",
		match: func(f *domain.FeatureBundle) bool {
			return f.ColorRatios[0] > 0.35 &&
				f.ColorRatios[1] > 0.35 &&
				f.ColorRatios[2] < 0.3 &&
				f.Texture.Entropy > 3.5
		},
	},
}

// ClassifierService turns an image into a commodity label, quality grade and
// health status, recording each successful classification as an Analysis row.
type ClassifierService struct {
	products domain.ProductRepository
	analyses domain.AnalysisRepository
}

// NewClassifierService creates a classifier with its persistence dependencies.
func NewClassifierService(products domain.ProductRepository, analyses domain.AnalysisRepository) *ClassifierService {
	return &ClassifierService{products: products, analyses: analyses}
}

// Analyze classifies a product photograph. It always returns a usable result:
// on any failure the result degrades to "Unknown" with zero confidence rather
// than surfacing an error. On success it upserts the product and appends an
// Analysis record; classification is not idempotent with respect to storage.
func (s *ClassifierService) Analyze(ctx context.Context, img image.Image, imagePath string) domain.ClassificationResult {
	features, err := ExtractFeatures(img)
	if err != nil {
		log.Printf("[classifier] feature extraction failed: %v", err)
		return domain.ClassificationResult{
			Product:    UnknownLabel,
			Quality:    UnknownLabel,
			Disease:    UnknownLabel,
			Confidence: 0.0,
		}
	}

	product := ClassifyProduct(features)
	quality, disease, confidence := AssessQuality(features)

	if product != UnknownLabel {
		if err := s.record(ctx, product, quality, disease, confidence, imagePath); err != nil {
			log.Printf("[classifier] failed to persist analysis for %s: %v", product, err)
		}
	}

	return domain.ClassificationResult{
		Product:    product,
		Quality:    quality,
		Disease:    disease,
		Confidence: confidence,
	}
}

// ClassifyProduct runs the ordered rule cascade over the feature bundle.
// When no rule matches, the label is a deterministic pseudo-random pick from
// the catalog, seeded from the image brightness so the same image always maps
// to the same label. That path is a gap-filler, not a real classification.
func ClassifyProduct(f *domain.FeatureBundle) string {
	for _, r := range productRules {
		if r.match(f) {
			return r.label
		}
	}

	seed := int64(math.Floor(f.Brightness * 1000))
	rng := rand.New(rand.NewSource(seed))
	return domain.CatalogNames[rng.Intn(len(domain.CatalogNames))]
}

// AssessQuality scores overall product condition from the feature bundle and
// maps the score onto (grade, health status, confidence). The confidence is
// drawn uniformly from a band fixed per grade.
func AssessQuality(f *domain.FeatureBundle) (quality, disease string, confidence float64) {
	minRatio, maxRatio := f.ColorRatios[0], f.ColorRatios[0]
	for _, r := range f.ColorRatios[1:] {
		if r < minRatio {
			minRatio = r
		}
		if r > maxRatio {
			maxRatio = r
		}
	}
	colorBalance := minRatio / maxRatio

	textureScore := 0.3*f.Texture.Uniformity +
		0.3*(1-f.Texture.MeanGradient/100) +
		0.4*(1-f.Texture.Entropy/5)

	colorConsistency := 1 - f.ColorVariance/1000

	score := 0.25*(f.Brightness/255) +
		0.15*(math.Min(f.Contrast, 100)/100) +
		0.2*colorBalance +
		0.25*textureScore +
		0.15*colorConsistency

	switch {
	case score > 0.8:
		return "Excellent", "Healthy", uniform(0.9, 0.99)
	case score > 0.6:
		return "Good", "Healthy", uniform(0.8, 0.9)
	case score > 0.4:
		return "Fair", weightedDisease([4]float64{0.6, 0.2, 0.1, 0.1}), uniform(0.7, 0.8)
	default:
		return "Poor", weightedDisease([4]float64{0.3, 0.3, 0.2, 0.2}), uniform(0.6, 0.7)
	}
}

// record upserts the product row and appends one analysis event.
func (s *ClassifierService) record(ctx context.Context, product, quality, disease string, confidence float64, imagePath string) error {
	row, err := s.products.FindOrCreate(ctx, product)
	if err != nil {
		return err
	}
	return s.analyses.Save(ctx, &domain.Analysis{
		ProductID:  row.ID,
		Timestamp:  time.Now().UTC(),
		Quality:    quality,
		Disease:    disease,
		Confidence: confidence,
		ImagePath:  imagePath,
	})
}

func uniform(lo, hi float64) float64 {
	return lo + rand.Float64()*(hi-lo)
}

// weightedDisease draws a health label with the given probabilities, indexed
// in domain.Diseases order.
func weightedDisease(weights [4]float64) string {
	roll := rand.Float64()
	acc := 0.0
	for i, w := range weights {
		acc += w
		if roll < acc {
			return domain.Diseases[i]
		}
	}
	return domain.Diseases[len(domain.Diseases)-1]
}
