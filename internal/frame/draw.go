package frame

import (
	"image"
	"image/color"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
)

// fillRoundedRect draws a filled rounded rectangle covering region r onto dst,
// compositing over what is already there. Pixels outside dst are clipped.
func fillRoundedRect(dst draw.Image, r Region, radius int, c color.Color) {
	b := dst.Bounds()
	scanner := rasterx.NewScannerGV(b.Dx(), b.Dy(), dst, b)
	filler := rasterx.NewFiller(b.Dx(), b.Dy(), scanner)
	filler.SetColor(c)

	// Inclusive pixel box to continuous coordinates
	minX, minY := float64(r.X1), float64(r.Y1)
	maxX, maxY := float64(r.X2+1), float64(r.Y2+1)

	rad := float64(clampRadius(r, radius))
	if rad <= 0 {
		rasterx.AddRect(minX, minY, maxX, maxY, 0, filler)
	} else {
		rasterx.AddRoundRect(minX, minY, maxX, maxY, rad, rad, 0, rasterx.RoundGap, filler)
	}
	filler.Draw()
}

// clampRadius keeps a corner radius within half of the region's shorter side.
func clampRadius(r Region, radius int) int {
	limit := min(r.Width(), r.Height()) / 2
	if radius > limit {
		radius = limit
	}
	if radius < 0 {
		radius = 0
	}
	return radius
}

// pasteMasked copies src into dst at r, weighting each channel by the mask:
// out = src*m + dst*(1-m). Full coverage copies the source pixel as is and
// zero coverage leaves dst untouched.
func pasteMasked(dst *image.NRGBA, r image.Rectangle, src *image.NRGBA, mask *image.Alpha) {
	sb, mb := src.Bounds(), mask.Bounds()
	for y := 0; y < r.Dy(); y++ {
		for x := 0; x < r.Dx(); x++ {
			m := mask.AlphaAt(mb.Min.X+x, mb.Min.Y+y).A
			if m == 0 {
				continue
			}

			s := src.NRGBAAt(sb.Min.X+x, sb.Min.Y+y)
			if m == 255 {
				dst.SetNRGBA(r.Min.X+x, r.Min.Y+y, s)
				continue
			}

			d := dst.NRGBAAt(r.Min.X+x, r.Min.Y+y)
			dst.SetNRGBA(r.Min.X+x, r.Min.Y+y, color.NRGBA{
				R: blend(s.R, d.R, m),
				G: blend(s.G, d.G, m),
				B: blend(s.B, d.B, m),
				A: blend(s.A, d.A, m),
			})
		}
	}
}

func blend(s, d, m uint8) uint8 {
	return uint8((uint32(s)*uint32(m) + uint32(d)*(255-uint32(m)) + 127) / 255)
}
