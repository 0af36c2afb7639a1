package frame

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"

	"jordanella.com/device-framer/internal/logging"
)

// Result describes one framed screenshot
type Result struct {
	Source      string
	Destination string
	Width       int
	Height      int
}

// Compositor draws the device frame around screenshots. It keeps no state
// between calls; every call allocates its own canvas and mask.
type Compositor struct {
	geometry Geometry
	logger   *logging.Logger
	status   io.Writer
}

// NewCompositor creates a compositor using DefaultGeometry unless overridden
func NewCompositor(opts ...Option) *Compositor {
	c := &Compositor{
		geometry: DefaultGeometry(),
		logger:   logging.NewLogger("Compositor"),
		status:   os.Stdout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Geometry returns the geometry the compositor draws with
func (c *Compositor) Geometry() Geometry {
	return c.geometry
}

// Compose returns a new canvas with src inset into the device frame.
func (c *Compositor) Compose(src image.Image) *image.NRGBA {
	g := c.geometry

	screen := imaging.Clone(src)
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	layout := g.Layout(sw, sh)

	canvas := imaging.New(layout.Canvas.Dx(), layout.Canvas.Dy(), color.NRGBA{})

	// Buttons first so the body covers their inner half
	for _, b := range layout.Buttons {
		fillRoundedRect(canvas, b, g.ButtonRadius(), g.ButtonColor)
	}
	fillRoundedRect(canvas, layout.Body, g.OuterRadius, g.FrameColor)

	mask := screenMask(sw, sh, g.InnerRadius)
	pasteMasked(canvas, layout.Screen.Rect(), screen, mask)

	return canvas
}

// screenMask builds the rounded alpha mask the screenshot is pasted through.
func screenMask(w, h, radius int) *image.Alpha {
	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	fillRoundedRect(mask, NewRegion(0, 0, w-1, h-1), radius, color.Alpha{A: 255})
	return mask
}

// FrameScreenshot frames the image at input and writes it as PNG to output.
func (c *Compositor) FrameScreenshot(input, output string) (Result, error) {
	src, err := imaging.Open(input)
	if err != nil {
		return Result{}, decodeError(input, err)
	}
	if src.Bounds().Empty() {
		return Result{}, decodeError(input, errors.New("image has no pixels"))
	}

	canvas := c.Compose(src)

	if err := savePNG(canvas, output); err != nil {
		return Result{}, writeError(output, err)
	}

	res := Result{
		Source:      input,
		Destination: output,
		Width:       canvas.Bounds().Dx(),
		Height:      canvas.Bounds().Dy(),
	}

	fmt.Fprintf(c.status, "Framed %s -> %s (%dx%d)\n",
		filepath.Base(input), filepath.Base(output), res.Width, res.Height)

	c.logger.DebugWithContext("Screenshot framed", map[string]interface{}{
		"source":      input,
		"destination": output,
		"width":       res.Width,
		"height":      res.Height,
	})

	return res, nil
}

func savePNG(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := imaging.Encode(f, img, imaging.PNG); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("failed to encode PNG: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}
