// Package overlay composites tapping-point guidance onto captured video
// frames: the pulsing marker, its label, the tip banner, the countdown and
// the safe-framing rectangle.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/seojin/tapguide/internal/eft"
)

// Drawing constants. The pulse amplitude and safe-frame inset match the
// guidance UI's tuning.
const (
	BaseMarkerRadius = 18
	PulseAmplitude   = 0.3
	SafeFrameInset   = 0.10

	labelFontScale = 0.7
	tipFontScale   = 0.55
	countdownScale = 2.0
	textThickness  = 2
	platePadding   = 8
	tipBannerY     = 40
)

var (
	markerColor    = color.RGBA{R: 255, G: 107, B: 107, A: 255}
	ringColor      = color.RGBA{R: 255, G: 107, B: 107, A: 90}
	highlightColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	completedColor = color.RGBA{R: 120, G: 80, B: 80, A: 255}
	textColor      = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	plateColor     = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	frameColor     = color.RGBA{R: 255, G: 255, B: 255, A: 130}
)

// Frame carries everything the renderer needs for one pass. Point is the
// smoothed normalized coordinate of the active step's tapping point; nil
// means the point is not currently tappable and only the chrome is drawn.
type Frame struct {
	Point        *eft.XY
	Label        string
	Tip          string
	CountdownSec int
	PulsePhase   float64
	Completed    []eft.XY
	SafeFrame    bool
}

// Renderer draws guidance onto frames. With Mirror set, the composited frame
// is flipped horizontally once at the end (selfie convention) and readable
// text is applied after the flip, so marker geometry and video mirroring can
// never disagree.
type Renderer struct {
	Mirror bool
}

// NewRenderer creates a renderer. mirror selects the selfie-view convention.
func NewRenderer(mirror bool) *Renderer {
	return &Renderer{Mirror: mirror}
}

// Render composites one guidance frame onto img in place. img must be a
// non-empty BGR frame at the camera's native resolution.
func (r *Renderer) Render(img *gocv.Mat, f Frame) {
	if img == nil || img.Empty() {
		return
	}

	w := img.Cols()
	h := img.Rows()

	// Geometry pass, in unmirrored frame space.
	if f.SafeFrame {
		drawSafeFrame(img, w, h)
	}

	for _, p := range f.Completed {
		pt := toPixel(p, w, h)
		gocv.Circle(img, pt, BaseMarkerRadius/2, completedColor, -1)
	}

	if f.Point != nil {
		drawMarker(img, toPixel(*f.Point, w, h), f.PulsePhase)
	}

	// Selfie flip happens once for the whole composited frame.
	if r.Mirror {
		gocv.Flip(*img, img, 1)
	}

	// Text pass, after the flip so it stays readable. Label anchors track
	// the (possibly mirrored) marker position.
	if f.Point != nil && f.Label != "" {
		anchor := *f.Point
		if r.Mirror {
			anchor.X = MirrorX(anchor.X)
		}
		drawLabel(img, toPixel(anchor, w, h), f.Label)
	}

	if f.Tip != "" {
		drawTip(img, f.Tip, w)
	}

	if f.CountdownSec > 0 {
		drawCountdown(img, f.CountdownSec, w, h)
	}
}

// MirrorX flips a normalized x coordinate across the vertical center line.
func MirrorX(x float64) float64 {
	return 1 - x
}

// PulseRadius returns the marker radius for a pulse phase in [0,1): the base
// radius modulated sinusoidally by the pulse amplitude.
func PulseRadius(base int, phase float64) int {
	scale := 1 + PulseAmplitude*math.Sin(2*math.Pi*phase)
	return int(math.Round(float64(base) * scale))
}

func toPixel(p eft.XY, w, h int) image.Point {
	return image.Pt(int(math.Round(p.X*float64(w))), int(math.Round(p.Y*float64(h))))
}

func drawMarker(img *gocv.Mat, pt image.Point, phase float64) {
	// Expanding ring pulse around the marker.
	gocv.Circle(img, pt, PulseRadius(BaseMarkerRadius, phase), ringColor, 3)

	// Main filled marker with an inner highlight.
	gocv.Circle(img, pt, BaseMarkerRadius, markerColor, -1)
	gocv.Circle(img, pt, BaseMarkerRadius*3/10, highlightColor, -1)
}

func drawLabel(img *gocv.Mat, pt image.Point, text string) {
	size := gocv.GetTextSize(text, gocv.FontHersheySimplex, labelFontScale, textThickness)
	org := image.Pt(pt.X-size.X/2, pt.Y-BaseMarkerRadius-14)

	plate := PlateRect(org, size)
	gocv.Rectangle(img, plate, plateColor, -1)
	gocv.PutText(img, text, org, gocv.FontHersheySimplex, labelFontScale, textColor, textThickness)
}

func drawTip(img *gocv.Mat, tip string, w int) {
	size := gocv.GetTextSize(tip, gocv.FontHersheySimplex, tipFontScale, textThickness)
	org := image.Pt(w/2-size.X/2, tipBannerY)

	plate := PlateRect(org, size)
	gocv.Rectangle(img, plate, plateColor, -1)
	gocv.PutText(img, tip, org, gocv.FontHersheySimplex, tipFontScale, textColor, textThickness)
}

func drawCountdown(img *gocv.Mat, count, w, h int) {
	center := image.Pt(w/2, h/2)
	gocv.Circle(img, center, 80, plateColor, -1)

	text := fmt.Sprintf("%d", count)
	size := gocv.GetTextSize(text, gocv.FontHersheySimplex, countdownScale, 4)
	org := image.Pt(center.X-size.X/2, center.Y+size.Y/2)
	gocv.PutText(img, text, org, gocv.FontHersheySimplex, countdownScale, textColor, 4)
}

// drawSafeFrame draws a dashed rectangle at the safe-frame inset as a framing
// aid, independent of detection state.
func drawSafeFrame(img *gocv.Mat, w, h int) {
	padX := int(float64(w) * SafeFrameInset)
	padY := int(float64(h) * SafeFrameInset)
	rect := image.Rect(padX, padY, w-padX, h-padY)

	const dash = 12
	for x := rect.Min.X; x < rect.Max.X; x += dash * 2 {
		end := min(x+dash, rect.Max.X)
		gocv.Line(img, image.Pt(x, rect.Min.Y), image.Pt(end, rect.Min.Y), frameColor, 2)
		gocv.Line(img, image.Pt(x, rect.Max.Y), image.Pt(end, rect.Max.Y), frameColor, 2)
	}
	for y := rect.Min.Y; y < rect.Max.Y; y += dash * 2 {
		end := min(y+dash, rect.Max.Y)
		gocv.Line(img, image.Pt(rect.Min.X, y), image.Pt(rect.Min.X, end), frameColor, 2)
		gocv.Line(img, image.Pt(rect.Max.X, y), image.Pt(rect.Max.X, end), frameColor, 2)
	}
}

// PlateRect computes the translucent background plate behind text drawn at
// org with the given measured size.
func PlateRect(org image.Point, size image.Point) image.Rectangle {
	return image.Rect(
		org.X-platePadding/2,
		org.Y-size.Y-platePadding/2,
		org.X+size.X+platePadding/2,
		org.Y+platePadding/2,
	)
}
