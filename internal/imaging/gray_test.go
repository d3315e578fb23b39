package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestParseLuminance(t *testing.T) {
	tests := []struct {
		in      string
		want    Luminance
		wantErr bool
	}{
		{"", LuminanceLuma, false},
		{"luma", LuminanceLuma, false},
		{"bt601", LuminanceBT601, false},
		{"lightness", LuminanceLightness, false},
		{"red", LuminanceRed, false},
		{"green", "", true},
	}
	for _, tt := range tests {
		got, err := ParseLuminance(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseLuminance(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseLuminance(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToGrayscale_Modes(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{200, 100, 50, 255})
	img.SetRGBA(1, 0, color.RGBA{255, 255, 255, 255})

	tests := []struct {
		mode Luminance
		want float64
		tol  float64
	}{
		{LuminanceRed, 200, 0},
		{LuminanceBT601, 0.299*200 + 0.587*100 + 0.114*50, 1},
		{LuminanceLuma, 0.3*200 + 0.6*100 + 0.1*50, 1},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			g, err := ToGrayscale(img, tt.mode)
			if err != nil {
				t.Fatalf("ToGrayscale failed: %v", err)
			}
			if g.Width() != 2 || g.Height() != 1 {
				t.Fatalf("size: got %dx%d", g.Width(), g.Height())
			}
			if math.Abs(g.At(0, 0)-tt.want) > tt.tol {
				t.Errorf("pixel: got %v, want %v", g.At(0, 0), tt.want)
			}
			if math.Abs(g.At(1, 0)-255) > 1 {
				t.Errorf("white: got %v, want 255", g.At(1, 0))
			}
		})
	}
}

func TestToGrayscale_Lightness(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 1))
	img.SetRGBA(0, 0, color.RGBA{0, 0, 0, 255})
	img.SetRGBA(1, 0, color.RGBA{128, 128, 128, 255})
	img.SetRGBA(2, 0, color.RGBA{255, 255, 255, 255})

	g, err := ToGrayscale(img, LuminanceLightness)
	if err != nil {
		t.Fatalf("ToGrayscale failed: %v", err)
	}
	if g.At(0, 0) != 0 {
		t.Errorf("black: got %v, want 0", g.At(0, 0))
	}
	if math.Abs(g.At(2, 0)-255) > 0.5 {
		t.Errorf("white: got %v, want 255", g.At(2, 0))
	}
	// Mid gray sits near L* = 54, well above its linear share.
	if mid := g.At(1, 0); mid < 0.5*255 || mid > 0.6*255 {
		t.Errorf("mid gray: got %v, want L* ~0.54 of 255", mid)
	}
}

func TestToGrayscale_GraySource(t *testing.T) {
	src := image.NewGray(image.Rect(5, 5, 9, 7))
	src.SetGray(5, 5, color.Gray{Y: 42})
	src.SetGray(8, 6, color.Gray{Y: 17})

	for _, mode := range []Luminance{LuminanceLuma, LuminanceRed} {
		g, err := ToGrayscale(src, mode)
		if err != nil {
			t.Fatalf("ToGrayscale failed: %v", err)
		}
		if g.At(0, 0) != 42 || g.At(3, 1) != 17 {
			t.Errorf("%s: got %v, %v, want 42, 17", mode, g.At(0, 0), g.At(3, 1))
		}
	}
}

func TestToGrayscale_Offset(t *testing.T) {
	// Sub-images keep their parent's coordinates.
	src := createPatternImage(20, 20).SubImage(image.Rect(8, 8, 12, 12))

	g, err := ToGrayscale(src, LuminanceRed)
	if err != nil {
		t.Fatalf("ToGrayscale failed: %v", err)
	}
	if g.Width() != 4 || g.Height() != 4 {
		t.Fatalf("size: got %dx%d, want 4x4", g.Width(), g.Height())
	}
	// (0,0) maps to image (8,8): red quadrant. (2,0) maps to (10,8): green.
	if g.At(0, 0) != 255 || g.At(2, 0) != 0 {
		t.Errorf("got %v, %v, want 255, 0", g.At(0, 0), g.At(2, 0))
	}
}

func TestToGrayscale_Invalid(t *testing.T) {
	if _, err := ToGrayscale(image.NewRGBA(image.Rect(0, 0, 0, 0)), LuminanceLuma); err == nil {
		t.Error("expected error for empty image")
	}
	if _, err := ToGrayscale(image.NewRGBA(image.Rect(0, 0, 2, 2)), "green"); err == nil {
		t.Error("expected error for unknown mode")
	}
}
