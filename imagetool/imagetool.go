// Package imagetool converts and recompresses raster images.
package imagetool

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"math"
	"strings"

	"toolstation/toolerr"
)

type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	GIF  Format = "gif"
)

// DefaultJPEGQuality matches what a canvas export uses when no quality is given.
const DefaultJPEGQuality = 92

const (
	MinQuality     = 0.1
	MaxQuality     = 1.0
	DefaultQuality = 0.8
)

// MaxPixels bounds width*height of accepted images. Decoders allocate from
// the declared dimensions, so the check runs on the header alone.
const MaxPixels = 50_000_000

var ErrUnsupportedFormat = fmt.Errorf("%w: unsupported image format", toolerr.ErrInvalidOption)

// ErrUndecodable is returned for input that is not a PNG, JPEG or GIF image.
var ErrUndecodable = errors.New("cannot decode image")

// ParseFormat accepts a format name or a MIME type.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, "image/")) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "gif":
		return GIF, nil
	}
	return "", fmt.Errorf("%w %q", ErrUnsupportedFormat, s)
}

// MIME returns the content type for f.
func (f Format) MIME() string { return "image/" + string(f) }

// Result is an encoded image plus the size change from the input.
type Result struct {
	Data         []byte
	Format       Format
	OriginalSize int
	Size         int
}

// Saved is the number of bytes the result saves. It is negative when the
// output grew.
func (r Result) Saved() int64 { return int64(r.OriginalSize) - int64(r.Size) }

// Convert decodes data and re-encodes it as target.
func Convert(data []byte, target Format) (Result, error) {
	img, _, err := decode(data)
	if err != nil {
		return Result{}, err
	}
	out, err := encode(img, target, DefaultJPEGQuality)
	if err != nil {
		return Result{}, err
	}
	return Result{Data: out, Format: target, OriginalSize: len(data), Size: len(out)}, nil
}

// Compress re-encodes data in its own format. quality in [MinQuality,
// MaxQuality] applies to JPEG only; PNG is written at best compression.
func Compress(data []byte, quality float64) (Result, error) {
	if math.IsNaN(quality) || quality < MinQuality || quality > MaxQuality {
		return Result{}, fmt.Errorf("%w: quality must be %.1f-%.1f", toolerr.ErrInvalidOption, MinQuality, MaxQuality)
	}
	img, f, err := decode(data)
	if err != nil {
		return Result{}, err
	}
	out, err := encode(img, f, int(math.Round(quality*100)))
	if err != nil {
		return Result{}, err
	}
	return Result{Data: out, Format: f, OriginalSize: len(data), Size: len(out)}, nil
}

func decode(data []byte) (image.Image, Format, error) {
	if len(data) == 0 {
		return nil, "", toolerr.ErrEmptyInput
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUndecodable, &toolerr.ParseError{Msg: err.Error()})
	}
	if px := int64(cfg.Width) * int64(cfg.Height); px > MaxPixels {
		return nil, "", fmt.Errorf("%w: image is %dx%d, limit is %d pixels",
			toolerr.ErrInvalidOption, cfg.Width, cfg.Height, MaxPixels)
	}
	img, name, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUndecodable, &toolerr.ParseError{Msg: err.Error()})
	}
	f, err := ParseFormat(name)
	if err != nil {
		return nil, "", err
	}
	return img, f, nil
}

func encode(img image.Image, f Format, jpegQuality int) ([]byte, error) {
	var buf bytes.Buffer
	var err error
	switch f {
	case PNG:
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		err = enc.Encode(&buf, img)
	case JPEG:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: max(1, min(jpegQuality, 100))})
	case GIF:
		err = gif.Encode(&buf, img, nil)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, f)
	}
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", f, err)
	}
	return buf.Bytes(), nil
}
