package guardrail

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// maxSampleSide bounds the image we compute statistics over.
const maxSampleSide = 256

// HeuristicClassifier scores colour statistics of the photo: overall channel
// variance and the presence of typical food colours.
type HeuristicClassifier struct{}

var _ Classifier = HeuristicClassifier{}

func NewHeuristicClassifier() HeuristicClassifier {
	return HeuristicClassifier{}
}

func (HeuristicClassifier) Classify(_ context.Context, raw []byte) Verdict {
	img, err := decode(raw)
	if err != nil {
		return Verdict{IsFoodLikely: false, Confidence: 0, Method: MethodDecodeError}
	}

	r, g, b := channelMeans(downsample(img))

	mean := (r + g + b) / 3
	variance := ((r-mean)*(r-mean) + (g-mean)*(g-mean) + (b-mean)*(b-mean)) / 3

	var hits int
	if g > 80 { // greens
		hits++
	}
	if r > 100 { // reds
		hits++
	}
	if r > 120 && g > 120 && b < 100 { // yellows
		hits++
	}
	if r > 80 && g > 60 && b < 80 { // browns
		hits++
	}
	colorScore := float64(hits) / 4

	return Verdict{
		IsFoodLikely: variance > 500 && colorScore > 0.25,
		Confidence:   math.Min(0.7, colorScore+variance/2000),
		Method:       MethodHeuristic,
		Labels:       []string{fmt.Sprintf("color_analysis: %.2f", colorScore)},
	}
}

// decode recovers from decoder panics; some codecs panic on truncated input.
func decode(raw []byte) (img image.Image, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode panic: %v", r)
		}
	}()
	if len(raw) == 0 {
		return nil, fmt.Errorf("empty image")
	}
	img, _, err = image.Decode(bytes.NewReader(raw))
	return img, err
}

func downsample(img image.Image) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxSampleSide && h <= maxSampleSide {
		return img
	}
	scale := math.Min(float64(maxSampleSide)/float64(w), float64(maxSampleSide)/float64(h))
	dstW := max(1, int(float64(w)*scale))
	dstH := max(1, int(float64(h)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, bounds, draw.Src, nil)
	return dst
}

// channelMeans returns mean R, G, B on a 0..255 scale.
func channelMeans(img image.Image) (float64, float64, float64) {
	bounds := img.Bounds()
	var sumR, sumG, sumB float64
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			sumR += float64(r >> 8)
			sumG += float64(g >> 8)
			sumB += float64(b >> 8)
		}
	}
	n := float64(bounds.Dx() * bounds.Dy())
	if n == 0 {
		return 0, 0, 0
	}
	return sumR / n, sumG / n, sumB / n
}
