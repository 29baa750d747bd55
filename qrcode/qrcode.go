// Package qrcode renders text as a QR code PNG.
package qrcode

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strconv"
	"strings"

	"github.com/boombuler/barcode/qr"

	"toolstation/toolerr"
)

const (
	DefaultSize   = 2048
	MaxSize       = 4096
	DefaultMargin = 2
	MaxMargin     = 16
)

type Options struct {
	// Size is the width and height of the image in pixels.
	Size int `json:"size"`
	// Margin is the quiet zone width in modules.
	Margin     *int   `json:"margin,omitempty"`
	Foreground string `json:"foreground"`
	Background string `json:"background"`
}

func (o Options) withDefaults() Options {
	if o.Size == 0 {
		o.Size = DefaultSize
	}
	if o.Margin == nil {
		m := DefaultMargin
		o.Margin = &m
	}
	if o.Foreground == "" {
		o.Foreground = "#000000"
	}
	if o.Background == "" {
		o.Background = "#ffffff"
	}
	return o
}

// Render encodes content at error correction level M and draws it with a
// quiet zone. Every pixel maps to exactly one module, so modules may differ
// in width by one pixel when Size is not a multiple of the module count.
func Render(content string, o Options) (*image.Paletted, error) {
	if content == "" {
		return nil, toolerr.ErrEmptyInput
	}
	o = o.withDefaults()
	if o.Size < 1 || o.Size > MaxSize {
		return nil, fmt.Errorf("%w: size must be 1-%d", toolerr.ErrInvalidOption, MaxSize)
	}
	margin := *o.Margin
	if margin < 0 || margin > MaxMargin {
		return nil, fmt.Errorf("%w: margin must be 0-%d", toolerr.ErrInvalidOption, MaxMargin)
	}
	fg, err := ParseColor(o.Foreground)
	if err != nil {
		return nil, err
	}
	bg, err := ParseColor(o.Background)
	if err != nil {
		return nil, err
	}

	code, err := qr.Encode(content, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", toolerr.ErrInvalidOption, err)
	}
	modules := code.Bounds().Dx()
	total := modules + 2*margin
	if o.Size < total {
		return nil, fmt.Errorf("%w: size %d is smaller than %d modules", toolerr.ErrInvalidOption, o.Size, total)
	}

	img := image.NewPaletted(image.Rect(0, 0, o.Size, o.Size), color.Palette{bg, fg})
	origin := code.Bounds().Min
	for y := 0; y < o.Size; y++ {
		my := y*total/o.Size - margin
		for x := 0; x < o.Size; x++ {
			mx := x*total/o.Size - margin
			if mx < 0 || my < 0 || mx >= modules || my >= modules {
				continue
			}
			if dark(code.At(origin.X+mx, origin.Y+my)) {
				img.SetColorIndex(x, y, 1)
			}
		}
	}
	return img, nil
}

// PNG renders content and encodes it as PNG.
func PNG(content string, o Options) ([]byte, error) {
	img, err := Render(content, o)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func dark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r+g+b < 3*0x8000
}

// ParseColor accepts #rrggbb or #rgb.
func ParseColor(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if ok && len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if !ok || len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("%w: color %q", toolerr.ErrInvalidOption, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: color %q", toolerr.ErrInvalidOption, s)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
}
