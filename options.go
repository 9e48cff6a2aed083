package img2irc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/wbrown/img2irc/imageutil"
)

// ErrInvalidOptions is returned when an Options value is out of range.
var ErrInvalidOptions = errors.New("invalid options")

// DefaultWidth is the output width in pixels when none is given.
const DefaultWidth = 50

// ResizeOptions controls how the source image is scaled.
type ResizeOptions struct {
	// Width is the target width in pixels, which is also the number of
	// half-block cells per line.
	Width         int                     `json:"width"`
	Interpolation imageutil.Interpolation `json:"interpolation"`
}

// RenderOptions controls glyph selection and the output protocol.
type RenderOptions struct {
	Mode          ColorMode `json:"mode"`
	Quadrant      bool      `json:"quadrant,omitempty"`
	GrayscaleBias bool      `json:"grayscale_bias,omitempty"`
}

// Renderer returns a Renderer configured from o.
func (o RenderOptions) Renderer() *Renderer {
	return NewRenderer(
		WithMode(o.Mode),
		WithQuadrant(o.Quadrant),
		WithGrayscaleBias(o.GrayscaleBias),
	)
}

// Options is the full conversion configuration, grouped by pipeline
// stage. It can be loaded from a JSON preset with LoadOptions.
type Options struct {
	Resize  ResizeOptions         `json:"resize"`
	Adjust  imageutil.Adjustments `json:"adjust"`
	Stylize imageutil.Stylize     `json:"stylize"`
	Render  RenderOptions         `json:"render"`
}

// DefaultOptions returns IRC half-block output at DefaultWidth with no
// effects.
func DefaultOptions() Options {
	return Options{
		Resize: ResizeOptions{
			Width:         DefaultWidth,
			Interpolation: imageutil.InterpolationCatmullRom,
		},
		Render: RenderOptions{Mode: ModeIRC},
	}
}

// Validate reports the first out-of-range field, wrapped in
// ErrInvalidOptions.
func (o Options) Validate() error {
	bad := func(format string, args ...any) error {
		return fmt.Errorf("%w: %s", ErrInvalidOptions, fmt.Sprintf(format, args...))
	}
	inRange := func(v, lo, hi float64) bool { return v >= lo && v <= hi }

	if o.Resize.Width <= 0 {
		return bad("width must be positive, got %d", o.Resize.Width)
	}
	a := o.Adjust
	if !inRange(a.Brightness, -255, 255) {
		return bad("brightness %v out of range [-255, 255]", a.Brightness)
	}
	if !inRange(a.Contrast, -255, 255) {
		return bad("contrast %v out of range [-255, 255]", a.Contrast)
	}
	if !inRange(a.Saturation, -255, 255) {
		return bad("saturation %v out of range [-255, 255]", a.Saturation)
	}
	if !inRange(a.Hue, 0, 360) {
		return bad("hue %v out of range [0, 360]", a.Hue)
	}
	if !inRange(a.Gamma, 0, 255) {
		return bad("gamma %v out of range [0, 255]", a.Gamma)
	}
	s := o.Stylize
	if s.Dither < 0 || s.Dither > 8 {
		return bad("dither %d out of range [0, 8]", s.Dither)
	}
	if s.GaussianBlur < 0 {
		return bad("gaussian blur radius %d is negative", s.GaussianBlur)
	}
	if s.Pixelize < 0 {
		return bad("pixelize size %d is negative", s.Pixelize)
	}
	if s.Oil != nil && (s.Oil.Radius < 0 || s.Oil.Intensity < 0) {
		return bad("oil radius %d and intensity %v must not be negative", s.Oil.Radius, s.Oil.Intensity)
	}
	switch o.Render.Mode {
	case ModeIRC, ModeANSI256, ModeTrueColor:
	default:
		return bad("unknown render mode %v", o.Render.Mode)
	}
	return nil
}

// LoadOptions reads a JSON preset. Fields missing from the file keep
// their DefaultOptions values.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("failed to read preset: %w", err)
	}
	if err := json.Unmarshal(data, &opts); err != nil {
		return opts, fmt.Errorf("failed to parse preset %s: %w", path, err)
	}
	if err := opts.Validate(); err != nil {
		return opts, fmt.Errorf("preset %s: %w", path, err)
	}
	return opts, nil
}

// Prepare runs the image stages of the pipeline (resize and effects)
// and builds the canvas. Quantization stops early if ctx is done.
func Prepare(ctx context.Context, img image.Image, opts Options) (*Canvas, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, ErrEmptyImage
	}
	start := time.Now()
	src := imageutil.RGBAImageFromImage(img)
	prepared := imageutil.Prepare(src, opts.Resize.Width, opts.Resize.Interpolation, opts.Adjust, opts.Stylize)
	Logger().Debug("image prepared",
		"src_w", b.Dx(),
		"src_h", b.Dy(),
		"w", prepared.Width(),
		"h", prepared.Height(),
		"elapsed", time.Since(start))
	return NewCanvasContext(ctx, prepared.Pix, prepared.Width())
}

// ConvertBlocks runs the pipeline up to glyph selection.
func ConvertBlocks(img image.Image, opts Options) ([][]BlockRune, error) {
	c, err := Prepare(context.Background(), img, opts)
	if err != nil {
		return nil, err
	}
	return opts.Render.Renderer().Blocks(c), nil
}

// Convert runs the whole pipeline: resize, effects, quantization and
// rendering. The result has no trailing newline.
func Convert(img image.Image, opts Options) (string, error) {
	c, err := Prepare(context.Background(), img, opts)
	if err != nil {
		return "", err
	}
	return opts.Render.Renderer().Render(c), nil
}
