package imaging

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/effect"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/edge-mtf-mcp/internal/sfr"
)

// Luminance selects how a color image is reduced to the single intensity
// channel the MTF measurement works on. All modes produce values in [0, 255].
type Luminance string

const (
	// LuminanceLuma uses the weights 0.3, 0.6, 0.1 (default).
	LuminanceLuma Luminance = "luma"
	// LuminanceBT601 uses the ITU-R BT.601 weights 0.299, 0.587, 0.114.
	LuminanceBT601 Luminance = "bt601"
	// LuminanceLightness uses CIE L*, scaled from [0, 1] to [0, 255].
	LuminanceLightness Luminance = "lightness"
	// LuminanceRed takes the raw red channel.
	LuminanceRed Luminance = "red"
)

// ParseLuminance validates a luminance mode name. Empty means LuminanceLuma.
func ParseLuminance(s string) (Luminance, error) {
	switch l := Luminance(s); l {
	case "":
		return LuminanceLuma, nil
	case LuminanceLuma, LuminanceBT601, LuminanceLightness, LuminanceRed:
		return l, nil
	}
	return "", fmt.Errorf("unknown luminance mode: %q", s)
}

// ToGrayscale converts img into the intensity buffer consumed by sfr.Calculate.
// Grayscale sources are read directly whatever the mode.
func ToGrayscale(img image.Image, mode Luminance) (*sfr.GrayscaleImage, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("image is empty")
	}

	var at func(x, y int) float64
	switch src := img.(type) {
	case *image.Gray:
		at = func(x, y int) float64 { return float64(src.GrayAt(x+b.Min.X, y+b.Min.Y).Y) }
	case *image.Gray16:
		at = func(x, y int) float64 { return float64(src.Gray16At(x+b.Min.X, y+b.Min.Y).Y >> 8) }
	default:
		var err error
		at, err = luminanceFunc(img, mode)
		if err != nil {
			return nil, err
		}
	}

	return sfr.NewGrayscaleImageFunc(b.Dx(), b.Dy(), at)
}

func luminanceFunc(img image.Image, mode Luminance) (func(x, y int) float64, error) {
	b := img.Bounds()

	switch mode {
	case LuminanceLuma, "":
		var gray image.Image = effect.Grayscale(img)
		gb := gray.Bounds()
		return func(x, y int) float64 {
			return float64(color.GrayModel.Convert(gray.At(x+gb.Min.X, y+gb.Min.Y)).(color.Gray).Y)
		}, nil

	case LuminanceBT601:
		gray := imaging.Grayscale(img)
		return func(x, y int) float64 {
			return float64(gray.NRGBAAt(x, y).R)
		}, nil

	case LuminanceLightness:
		return func(x, y int) float64 {
			c, ok := colorful.MakeColor(img.At(x+b.Min.X, y+b.Min.Y))
			if !ok {
				// Fully transparent pixel.
				return 0
			}
			l, _, _ := c.Lab()
			return clampUnit(l) * 255
		}, nil

	case LuminanceRed:
		return func(x, y int) float64 {
			r, _, _, _ := img.At(x+b.Min.X, y+b.Min.Y).RGBA()
			return float64(r >> 8)
		}, nil
	}
	return nil, fmt.Errorf("unknown luminance mode: %q", mode)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
