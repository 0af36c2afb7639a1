package frame

import "image"

// Region is a box with inclusive corner coordinates, the convention used by
// the rounded-rectangle drawing calls.
type Region struct {
	X1, Y1, X2, Y2 int
}

// NewRegion creates a new region
func NewRegion(x1, y1, x2, y2 int) Region {
	return Region{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width returns the number of pixel columns the region covers
func (r Region) Width() int {
	return r.X2 - r.X1 + 1
}

// Height returns the number of pixel rows the region covers
func (r Region) Height() int {
	return r.Y2 - r.Y1 + 1
}

// Contains checks if a pixel is within the region
func (r Region) Contains(p image.Point) bool {
	return p.X >= r.X1 && p.X <= r.X2 && p.Y >= r.Y1 && p.Y <= r.Y2
}

// Rect converts the region to the half-open image.Rectangle it covers.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X1, r.Y1, r.X2+1, r.Y2+1)
}

// Layout is the position of every shape on the canvas for one screenshot.
type Layout struct {
	Canvas  image.Rectangle
	Body    Region
	Screen  Region
	Buttons []Region
}

// Layout computes where each shape lands for a screenshot of w x h pixels.
func (g Geometry) Layout(w, h int) Layout {
	bw, bh := g.BodySize(w, h)
	cw, ch := g.CanvasSize(w, h)
	bodyX := g.ButtonProtrusion

	l := Layout{
		Canvas: image.Rect(0, 0, cw, ch),
		Body:   NewRegion(bodyX, 0, bodyX+bw-1, bh-1),
		Screen: NewRegion(bodyX+g.Bezel, g.Bezel, bodyX+g.Bezel+w-1, g.Bezel+h-1),
	}

	span := g.ButtonThickness + g.ButtonProtrusion
	for _, b := range g.LeftButtons {
		x := bodyX - g.ButtonProtrusion
		l.Buttons = append(l.Buttons, NewRegion(x, b.Y, x+span, b.Y+b.Height))
	}
	for _, b := range g.RightButtons {
		x := bodyX + bw - g.ButtonProtrusion
		l.Buttons = append(l.Buttons, NewRegion(x, b.Y, x+span, b.Y+b.Height))
	}

	return l
}
