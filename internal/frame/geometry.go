package frame

import (
	"errors"
	"fmt"
	"image/color"
)

// Button describes a side button by its offset from the phone body's top
// edge and its height.
type Button struct {
	Name   string
	Y      int
	Height int
}

// Geometry holds every drawing constant of the device frame.
type Geometry struct {
	Bezel       int
	OuterRadius int
	InnerRadius int
	FrameColor  color.NRGBA

	ButtonProtrusion int
	ButtonThickness  int
	ButtonColor      color.NRGBA

	LeftButtons  []Button
	RightButtons []Button
}

// DefaultGeometry returns the iPhone-style frame the tool ships with
func DefaultGeometry() Geometry {
	return Geometry{
		Bezel:       44,
		OuterRadius: 140,
		InnerRadius: 105,
		FrameColor:  color.NRGBA{R: 28, G: 28, B: 30, A: 255}, // #1C1C1E

		ButtonProtrusion: 10,
		ButtonThickness:  10,
		ButtonColor:      color.NRGBA{R: 22, G: 22, B: 24, A: 255},

		LeftButtons: []Button{
			{Name: "action", Y: 460, Height: 70},
			{Name: "volume_up", Y: 600, Height: 170},
			{Name: "volume_down", Y: 790, Height: 170},
		},
		RightButtons: []Button{
			{Name: "power", Y: 640, Height: 220},
		},
	}
}

// ButtonRadius is half the button thickness, which gives the stadium shape.
func (g Geometry) ButtonRadius() int {
	return g.ButtonThickness / 2
}

// BodySize returns the phone body size for a screenshot of w x h pixels.
func (g Geometry) BodySize(w, h int) (int, int) {
	return w + g.Bezel*2, h + g.Bezel*2
}

// CanvasSize returns the output image size for a screenshot of w x h pixels.
// The canvas is wider than the body so buttons can overhang both edges.
func (g Geometry) CanvasSize(w, h int) (int, int) {
	bw, bh := g.BodySize(w, h)
	return bw + g.ButtonProtrusion*2, bh
}

// Validate checks the geometry for values that cannot be drawn.
func (g Geometry) Validate() error {
	var errs []error

	nonNegative := map[string]int{
		"bezel":             g.Bezel,
		"outer radius":      g.OuterRadius,
		"inner radius":      g.InnerRadius,
		"button protrusion": g.ButtonProtrusion,
		"button thickness":  g.ButtonThickness,
	}
	for name, v := range nonNegative {
		if v < 0 {
			errs = append(errs, fmt.Errorf("%s must not be negative, got %d", name, v))
		}
	}

	for _, b := range append(append([]Button{}, g.LeftButtons...), g.RightButtons...) {
		if b.Height <= 0 {
			errs = append(errs, fmt.Errorf("button %q: height must be positive, got %d", b.Name, b.Height))
		}
		if b.Y < 0 {
			errs = append(errs, fmt.Errorf("button %q: y offset must not be negative, got %d", b.Name, b.Y))
		}
	}

	return errors.Join(errs...)
}
