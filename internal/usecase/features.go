package usecase

import (
	"image"
	"math"

	"github.com/cropsight/backend/internal/domain"
)

const histogramBins = 32

// ExtractFeatures converts a decoded RGB image into the numeric descriptor
// bundle consumed by the classifier. It is purely functional: the same image
// always yields the same bundle.
func ExtractFeatures(img image.Image) (*domain.FeatureBundle, error) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width == 0 || height == 0 {
		return nil, domain.ErrEmptyImage
	}

	pixels := float64(width * height)
	var sum, sumSq [3]float64
	var hist [3][histogramBins]float64
	gray := make([][]float64, height)

	for y := 0; y < height; y++ {
		gray[y] = make([]float64, width)
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			channels := [3]float64{
				float64(r >> 8),
				float64(g >> 8),
				float64(b >> 8),
			}
			for c, v := range channels {
				sum[c] += v
				sumSq[c] += v * v
				// full-range histogram: 256 values over 32 bins
				bin := int(v) / 8
				if bin > histogramBins-1 {
					bin = histogramBins - 1
				}
				hist[c][bin]++
			}
			gray[y][x] = (channels[0] + channels[1] + channels[2]) / 3
		}
	}

	bundle := &domain.FeatureBundle{}
	for c := 0; c < 3; c++ {
		mean := sum[c] / pixels
		variance := sumSq[c]/pixels - mean*mean
		if variance < 0 {
			variance = 0
		}
		bundle.MeanColor[c] = mean
		bundle.StdColor[c] = math.Sqrt(variance)
		for i := range hist[c] {
			bundle.Histograms[c][i] = hist[c][i] / pixels
		}
	}

	bundle.Brightness = (bundle.MeanColor[0] + bundle.MeanColor[1] + bundle.MeanColor[2]) / 3
	bundle.Contrast = (bundle.StdColor[0] + bundle.StdColor[1] + bundle.StdColor[2]) / 3

	// epsilon keeps an all-black image from dividing by zero
	total := bundle.MeanColor[0] + bundle.MeanColor[1] + bundle.MeanColor[2] + 1e-6
	for c := 0; c < 3; c++ {
		bundle.ColorRatios[c] = bundle.MeanColor[c] / total
	}

	// cross-channel color balance, distinct from per-pixel variance
	channelMean := bundle.Brightness
	var channelVar float64
	for c := 0; c < 3; c++ {
		d := bundle.MeanColor[c] - channelMean
		channelVar += d * d
	}
	bundle.ColorVariance = channelVar / 3
	bundle.ColorStd = math.Sqrt(bundle.ColorVariance)

	bundle.Texture = textureFeatures(gray)
	return bundle, nil
}

// textureFeatures derives gradient, entropy and uniformity descriptors from
// the grayscale reduction of the image.
func textureFeatures(gray [][]float64) domain.TextureFeatures {
	height := len(gray)
	width := len(gray[0])
	pixels := float64(width * height)

	gradX := gradientRows(gray)
	gradY := gradientCols(gray)

	var magSum, magSumSq float64
	var graySum, graySumSq float64
	minGray, maxGray := gray[0][0], gray[0][0]
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			mag := math.Hypot(gradX[y][x], gradY[y][x])
			magSum += mag
			magSumSq += mag * mag

			v := gray[y][x]
			graySum += v
			graySumSq += v * v
			if v < minGray {
				minGray = v
			}
			if v > maxGray {
				maxGray = v
			}
		}
	}

	meanMag := magSum / pixels
	varMag := magSumSq/pixels - meanMag*meanMag
	if varMag < 0 {
		varMag = 0
	}

	meanGray := graySum / pixels
	varGray := graySumSq/pixels - meanGray*meanGray
	if varGray < 0 {
		varGray = 0
	}

	// grayscale histogram spans the observed value range, not the full 0-255
	var grayHist [histogramBins]float64
	span := maxGray - minGray
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			bin := 0
			if span > 0 {
				bin = int((gray[y][x] - minGray) / span * histogramBins)
				if bin > histogramBins-1 {
					bin = histogramBins - 1
				}
			}
			grayHist[bin]++
		}
	}

	var entropy, uniformity float64
	for _, count := range grayHist {
		p := count / pixels
		uniformity += p * p
		if p > 0 {
			entropy -= p * math.Log2(p)
		}
	}

	return domain.TextureFeatures{
		MeanGradient: meanMag,
		StdGradient:  math.Sqrt(varMag),
		Entropy:      entropy,
		Smoothness:   1 - 1/(1+varGray),
		Uniformity:   uniformity,
	}
}

// gradientRows computes the horizontal discrete gradient: central differences
// in the interior, one-sided differences at the edges.
func gradientRows(m [][]float64) [][]float64 {
	height := len(m)
	width := len(m[0])
	out := make([][]float64, height)
	for y := 0; y < height; y++ {
		out[y] = make([]float64, width)
		if width < 2 {
			continue
		}
		out[y][0] = m[y][1] - m[y][0]
		out[y][width-1] = m[y][width-1] - m[y][width-2]
		for x := 1; x < width-1; x++ {
			out[y][x] = (m[y][x+1] - m[y][x-1]) / 2
		}
	}
	return out
}

// gradientCols computes the vertical discrete gradient with the same scheme.
func gradientCols(m [][]float64) [][]float64 {
	height := len(m)
	width := len(m[0])
	out := make([][]float64, height)
	for y := 0; y < height; y++ {
		out[y] = make([]float64, width)
	}
	if height < 2 {
		return out
	}
	for x := 0; x < width; x++ {
		out[0][x] = m[1][x] - m[0][x]
		out[height-1][x] = m[height-1][x] - m[height-2][x]
		for y := 1; y < height-1; y++ {
			out[y][x] = (m[y+1][x] - m[y-1][x]) / 2
		}
	}
	return out
}
