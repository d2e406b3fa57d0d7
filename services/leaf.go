package services

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// Fixed HSV band for healthy green foliage and the fraction of in-band
// pixels above which a leaf counts as healthy. Placeholder heuristic, not a
// tuned model.
const (
	hueMin          = 70.0
	hueMax          = 170.0
	satMin          = 0.16
	valMin          = 0.16
	healthyFraction = 0.30
)

// Classifier verdicts as shown on the dashboard.
const (
	StatusHealthy   = "Sehat"
	StatusUnhealthy = "Sakit"
)

// LeafResult is the classifier output: verdict, green-pixel fraction and
// the frame annotated with both.
type LeafResult struct {
	Status string
	Score  float64
	Image  image.Image
}

// ClassifyLeaf decodes the frame, measures the fraction of pixels inside
// the green HSV band and annotates the verdict onto the image. It has no
// side effects; persisting the annotated frame is the caller's business.
func ClassifyLeaf(frame []byte) (LeafResult, error) {
	img, _, err := image.Decode(bytes.NewReader(frame))
	if err != nil {
		return LeafResult{}, fmt.Errorf("decode frame: %w", err)
	}

	bounds := img.Bounds()
	total := bounds.Dx() * bounds.Dy()
	if total == 0 {
		return LeafResult{}, fmt.Errorf("decode frame: empty image")
	}

	green := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			h, s, v := rgbToHSV(img.At(x, y).RGBA())
			if h >= hueMin && h <= hueMax && s >= satMin && v >= valMin {
				green++
			}
		}
	}

	score := float64(green) / float64(total)
	status := StatusUnhealthy
	if score > healthyFraction {
		status = StatusHealthy
	}

	return LeafResult{
		Status: status,
		Score:  score,
		Image:  annotate(img, fmt.Sprintf("%s (%.1f%%)", status, score*100)),
	}, nil
}

// annotate draws the verdict label in a banner across the top of the frame.
func annotate(img image.Image, label string) image.Image {
	dc := gg.NewContextForImage(img)
	dc.SetRGBA(0, 0, 0, 0.6)
	dc.DrawRectangle(0, 0, float64(img.Bounds().Dx()), 22)
	dc.Fill()
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(label, 6, 15)
	return dc.Image()
}

// SaveJPEG writes the image to path, creating parent directories as needed.
func SaveJPEG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return jpeg.Encode(f, img, &jpeg.Options{Quality: 90})
}

// rgbToHSV converts 16-bit premultiplied RGBA channels to HSV with hue in
// degrees and saturation/value in [0, 1].
func rgbToHSV(r16, g16, b16, _ uint32) (h, s, v float64) {
	r := float64(r16) / 65535.0
	g := float64(g16) / 65535.0
	b := float64(b16) / 65535.0

	max := r
	if g > max {
		max = g
	}
	if b > max {
		max = b
	}
	min := r
	if g < min {
		min = g
	}
	if b < min {
		min = b
	}

	v = max
	delta := max - min
	if max > 0 {
		s = delta / max
	}
	if delta == 0 {
		return 0, s, v
	}

	switch max {
	case r:
		h = 60 * ((g - b) / delta)
	case g:
		h = 60 * ((b-r)/delta + 2)
	default:
		h = 60 * ((r-g)/delta + 4)
	}
	if h < 0 {
		h += 360
	}
	return h, s, v
}
