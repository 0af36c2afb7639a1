package frame

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testGeometry is a scaled-down frame so tests can use small images.
func testGeometry() Geometry {
	return Geometry{
		Bezel:            6,
		OuterRadius:      12,
		InnerRadius:      8,
		FrameColor:       color.NRGBA{R: 28, G: 28, B: 30, A: 255},
		ButtonProtrusion: 3,
		ButtonThickness:  3,
		ButtonColor:      color.NRGBA{R: 22, G: 22, B: 24, A: 255},
		LeftButtons: []Button{
			{Name: "action", Y: 10, Height: 4},
			{Name: "volume_up", Y: 20, Height: 6},
		},
		RightButtons: []Button{
			{Name: "power", Y: 15, Height: 8},
		},
	}
}

// patternImage returns an opaque image where every pixel differs from the
// frame and button colors.
func patternImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8(100 + x%100),
				G: uint8(100 + y%100),
				B: uint8(200 + (x+y)%50),
				A: 255,
			})
		}
	}
	return img
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode %s: %v", path, err)
	}
}

func TestCanvasSize(t *testing.T) {
	tests := []struct {
		name         string
		geometry     Geometry
		w, h         int
		wantW, wantH int
	}{
		{"iPhone screenshot", DefaultGeometry(), 1170, 2532, 1278, 2620},
		{"tiny screenshot", DefaultGeometry(), 1, 1, 109, 89},
		{"test geometry", testGeometry(), 40, 60, 58, 72},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := tt.geometry.CanvasSize(tt.w, tt.h)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Expected canvas %dx%d, got %dx%d", tt.wantW, tt.wantH, w, h)
			}

			g := tt.geometry
			wantW := tt.w + 2*g.Bezel + 2*g.ButtonProtrusion
			wantH := tt.h + 2*g.Bezel
			if w != wantW || h != wantH {
				t.Errorf("Canvas %dx%d does not follow the additive formula (%dx%d)", w, h, wantW, wantH)
			}
		})
	}
}

func TestComposeDimensions(t *testing.T) {
	c := NewCompositor(WithGeometry(testGeometry()), WithStatusOutput(&bytes.Buffer{}))

	for _, size := range []image.Point{{40, 60}, {25, 25}, {90, 31}} {
		canvas := c.Compose(patternImage(size.X, size.Y))
		wantW, wantH := testGeometry().CanvasSize(size.X, size.Y)
		if canvas.Bounds().Dx() != wantW || canvas.Bounds().Dy() != wantH {
			t.Errorf("Screenshot %v: expected canvas %dx%d, got %dx%d",
				size, wantW, wantH, canvas.Bounds().Dx(), canvas.Bounds().Dy())
		}
	}
}

func TestComposeScreenPixels(t *testing.T) {
	g := testGeometry()
	src := patternImage(40, 60)
	canvas := NewCompositor(WithGeometry(g)).Compose(src)
	mask := screenMask(40, 60, g.InnerRadius)
	screen := g.Layout(40, 60).Screen

	opaque, clear, partial := 0, 0, 0
	for y := 0; y < 60; y++ {
		for x := 0; x < 40; x++ {
			got := canvas.NRGBAAt(screen.X1+x, screen.Y1+y)
			switch m := mask.AlphaAt(x, y).A; m {
			case 255:
				opaque++
				if want := src.NRGBAAt(x, y); got != want {
					t.Fatalf("Pixel (%d,%d) inside mask: expected %v, got %v", x, y, want, got)
				}
			case 0:
				clear++
				if got != g.FrameColor {
					t.Fatalf("Pixel (%d,%d) outside mask: expected frame color %v, got %v", x, y, g.FrameColor, got)
				}
			default:
				partial++
				if got.A != 255 {
					t.Fatalf("Pixel (%d,%d) on mask edge (m=%d): opaque screenshot over opaque bezel should stay opaque, got alpha %d", x, y, m, got.A)
				}
				s := src.NRGBAAt(x, y)
				want := color.NRGBA{
					R: uint8((int(s.R)*int(m) + int(g.FrameColor.R)*(255-int(m)) + 127) / 255),
					G: uint8((int(s.G)*int(m) + int(g.FrameColor.G)*(255-int(m)) + 127) / 255),
					B: uint8((int(s.B)*int(m) + int(g.FrameColor.B)*(255-int(m)) + 127) / 255),
					A: 255,
				}
				if got != want {
					t.Fatalf("Pixel (%d,%d) on mask edge (m=%d): expected blend %v, got %v", x, y, m, want, got)
				}
			}
		}
	}

	if opaque == 0 || clear == 0 || partial == 0 {
		t.Fatalf("Mask should have opaque, clear and edge pixels, got opaque=%d clear=%d partial=%d", opaque, clear, partial)
	}
	if mask.AlphaAt(0, 0).A != 0 {
		t.Errorf("Mask corner should be clear, got alpha %d", mask.AlphaAt(0, 0).A)
	}
	if mask.AlphaAt(20, 30).A != 255 {
		t.Errorf("Mask center should be opaque, got alpha %d", mask.AlphaAt(20, 30).A)
	}
}

func TestComposeFrameShapes(t *testing.T) {
	g := testGeometry()
	canvas := NewCompositor(WithGeometry(g)).Compose(patternImage(40, 60))

	t.Run("LeftButtonProtrudes", func(t *testing.T) {
		if got := canvas.NRGBAAt(1, 12); got != g.ButtonColor {
			t.Errorf("Expected button color at (1,12), got %v", got)
		}
	})

	t.Run("RightButtonProtrudes", func(t *testing.T) {
		if got := canvas.NRGBAAt(56, 18); got != g.ButtonColor {
			t.Errorf("Expected button color at (56,18), got %v", got)
		}
	})

	t.Run("BodyCoversButtons", func(t *testing.T) {
		if got := canvas.NRGBAAt(5, 12); got != g.FrameColor {
			t.Errorf("Expected frame color over the button at (5,12), got %v", got)
		}
	})

	t.Run("TransparentOutsideFrame", func(t *testing.T) {
		for _, p := range []image.Point{{1, 3}, {3, 0}, {57, 71}, {1, 40}} {
			if a := canvas.NRGBAAt(p.X, p.Y).A; a != 0 {
				t.Errorf("Expected transparent pixel at %v, got alpha %d", p, a)
			}
		}
	})

	t.Run("BezelIsFrameColor", func(t *testing.T) {
		if got := canvas.NRGBAAt(20, 2); got != g.FrameColor {
			t.Errorf("Expected frame color in the top bezel, got %v", got)
		}
	})
}

func TestFrameScreenshot(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "blip-1.png")
	output := filepath.Join(dir, "blip-1-framed.png")
	writePNG(t, input, patternImage(40, 60))

	var status bytes.Buffer
	c := NewCompositor(WithGeometry(testGeometry()), WithStatusOutput(&status))

	res, err := c.FrameScreenshot(input, output)
	if err != nil {
		t.Fatalf("Failed to frame screenshot: %v", err)
	}

	if res.Width != 58 || res.Height != 72 {
		t.Errorf("Expected result 58x72, got %dx%d", res.Width, res.Height)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatalf("Output was not written: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("Output is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 58 || img.Bounds().Dy() != 72 {
		t.Errorf("Expected written image 58x72, got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}

	want := "Framed blip-1.png -> blip-1-framed.png (58x72)\n"
	if status.String() != want {
		t.Errorf("Expected status line %q, got %q", want, status.String())
	}
}

func TestFrameScreenshotErrors(t *testing.T) {
	dir := t.TempDir()
	c := NewCompositor(WithGeometry(testGeometry()), WithStatusOutput(&bytes.Buffer{}))

	t.Run("CorruptInput", func(t *testing.T) {
		input := filepath.Join(dir, "blip-bad.png")
		if err := os.WriteFile(input, []byte("not a png"), 0644); err != nil {
			t.Fatalf("Failed to write corrupt file: %v", err)
		}

		_, err := c.FrameScreenshot(input, filepath.Join(dir, "blip-bad-framed.png"))
		if !errors.Is(err, ErrDecode) {
			t.Fatalf("Expected decode error, got %v", err)
		}
		if !strings.Contains(err.Error(), "blip-bad.png") {
			t.Errorf("Error should name the file, got %q", err.Error())
		}
		if _, statErr := os.Stat(filepath.Join(dir, "blip-bad-framed.png")); !os.IsNotExist(statErr) {
			t.Error("No output should be written for a corrupt input")
		}
	})

	t.Run("MissingInput", func(t *testing.T) {
		_, err := c.FrameScreenshot(filepath.Join(dir, "missing.png"), filepath.Join(dir, "out.png"))
		if !errors.Is(err, ErrDecode) {
			t.Fatalf("Expected decode error, got %v", err)
		}
	})

	t.Run("UnwritableOutput", func(t *testing.T) {
		input := filepath.Join(dir, "blip-ok.png")
		writePNG(t, input, patternImage(20, 20))

		_, err := c.FrameScreenshot(input, filepath.Join(dir, "no-such-dir", "out.png"))
		if !errors.Is(err, ErrWrite) {
			t.Fatalf("Expected write error, got %v", err)
		}

		var frameErr *FrameError
		if !errors.As(err, &frameErr) || frameErr.Kind != ErrorKindWrite {
			t.Errorf("Expected *FrameError of kind write, got %#v", err)
		}
	})
}

func TestLayout(t *testing.T) {
	l := DefaultGeometry().Layout(1170, 2532)

	if l.Canvas != image.Rect(0, 0, 1278, 2620) {
		t.Errorf("Unexpected canvas %v", l.Canvas)
	}
	if l.Body != NewRegion(10, 0, 1267, 2619) {
		t.Errorf("Unexpected body region %+v", l.Body)
	}
	if l.Screen.X1 != 54 || l.Screen.Y1 != 44 || l.Screen.Width() != 1170 || l.Screen.Height() != 2532 {
		t.Errorf("Unexpected screen region %+v", l.Screen)
	}
	if len(l.Buttons) != 4 {
		t.Fatalf("Expected 4 buttons, got %d", len(l.Buttons))
	}

	// Left buttons start at the canvas edge, the power button at the body's right edge
	if l.Buttons[0] != NewRegion(0, 460, 20, 530) {
		t.Errorf("Unexpected action button region %+v", l.Buttons[0])
	}
	if l.Buttons[3] != NewRegion(1258, 640, 1278, 860) {
		t.Errorf("Unexpected power button region %+v", l.Buttons[3])
	}
}

func TestGeometryValidate(t *testing.T) {
	if err := DefaultGeometry().Validate(); err != nil {
		t.Fatalf("Default geometry should be valid: %v", err)
	}

	g := DefaultGeometry()
	g.Bezel = -1
	g.RightButtons = []Button{{Name: "power", Y: 640, Height: 0}}

	err := g.Validate()
	if err == nil {
		t.Fatal("Expected validation error")
	}
	for _, want := range []string{"bezel", "power"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validation error should mention %q, got %q", want, err.Error())
		}
	}
}

func TestClampRadius(t *testing.T) {
	if r := clampRadius(NewRegion(0, 0, 9, 99), 105); r != 5 {
		t.Errorf("Expected radius clamped to 5, got %d", r)
	}
	if r := clampRadius(NewRegion(0, 0, 99, 99), 20); r != 20 {
		t.Errorf("Expected radius 20 unchanged, got %d", r)
	}
}

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#1C1C1E")
	if err != nil {
		t.Fatalf("Failed to parse color: %v", err)
	}
	if c != DefaultGeometry().FrameColor {
		t.Errorf("Expected %v, got %v", DefaultGeometry().FrameColor, c)
	}
	if HexColor(c) != "#1C1C1E" {
		t.Errorf("Expected #1C1C1E, got %s", HexColor(c))
	}

	c, err = ParseHexColor("16161880")
	if err != nil {
		t.Fatalf("Failed to parse color with alpha: %v", err)
	}
	if c != (color.NRGBA{R: 0x16, G: 0x16, B: 0x18, A: 0x80}) {
		t.Errorf("Unexpected color %v", c)
	}

	for _, bad := range []string{"", "#123", "#GGGGGG"} {
		if _, err := ParseHexColor(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}

func TestPasteMasked(t *testing.T) {
	bezel := color.NRGBA{R: 28, G: 28, B: 30, A: 255}
	dst := image.NewNRGBA(image.Rect(0, 0, 5, 1))
	for x := 0; x < 5; x++ {
		dst.SetNRGBA(x, 0, bezel)
	}

	src := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 128})
	src.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
	src.SetNRGBA(2, 0, color.NRGBA{R: 200, G: 100, B: 50, A: 255})

	mask := image.NewAlpha(image.Rect(0, 0, 3, 1))
	mask.SetAlpha(0, 0, color.Alpha{A: 255})
	mask.SetAlpha(1, 0, color.Alpha{A: 0})
	mask.SetAlpha(2, 0, color.Alpha{A: 102})

	pasteMasked(dst, image.Rect(1, 0, 4, 1), src, mask)

	tests := []struct {
		name string
		x    int
		want color.NRGBA
	}{
		{"FullCoverageCopiesTranslucentSource", 1, color.NRGBA{R: 200, G: 100, B: 50, A: 128}},
		{"ZeroCoverageKeepsBezel", 2, bezel},
		{"PartialCoverageBlends", 3, color.NRGBA{R: 97, G: 57, B: 38, A: 255}},
		{"OutsideRectUntouched", 0, bezel},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := dst.NRGBAAt(tt.x, 0); got != tt.want {
				t.Errorf("Expected %v at x=%d, got %v", tt.want, tt.x, got)
			}
		})
	}
}
