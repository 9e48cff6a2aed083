// Command img2irc renders an image as colored block characters for IRC
// clients or ANSI terminals.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/wbrown/img2irc"
	"github.com/wbrown/img2irc/imageutil"
	"github.com/wbrown/img2irc/termview"
)

// config holds the flags that are not part of img2irc.Options.
type config struct {
	irc, ansi, ansi24 bool
	preset            string
	output            string
	fontPath          string
	scale             int
	view              bool
	verbose           bool
	timeout           time.Duration
	interp            string
}

// oilValue parses "<radius>,<intensity>".
type oilValue struct {
	dst **imageutil.Oil
}

func (v oilValue) String() string {
	if v.dst == nil || *v.dst == nil {
		return ""
	}
	return fmt.Sprintf("%d,%g", (*v.dst).Radius, (*v.dst).Intensity)
}

func (v oilValue) Set(s string) error {
	r, i, ok := strings.Cut(s, ",")
	if !ok {
		return errors.New(`expected "<radius>,<intensity>"`)
	}
	radius, err := strconv.Atoi(strings.TrimSpace(r))
	if err != nil {
		return fmt.Errorf("bad oil radius: %w", err)
	}
	intensity, err := strconv.ParseFloat(strings.TrimSpace(i), 64)
	if err != nil {
		return fmt.Errorf("bad oil intensity: %w", err)
	}
	*v.dst = &imageutil.Oil{Radius: radius, Intensity: intensity}
	return nil
}

// newFlagSet binds every flag to opts and cfg. The current values of
// opts become the flag defaults, so a preset loaded into opts is only
// overridden by flags given explicitly.
func newFlagSet(opts *img2irc.Options, cfg *config, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("img2irc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: img2irc [flags] <image path or url>")
		fs.PrintDefaults()
	}

	fs.BoolVar(&cfg.irc, "irc", false, "mIRC color codes (default)")
	fs.BoolVar(&cfg.ansi, "ansi", false, "xterm 256-color escape sequences")
	fs.BoolVar(&cfg.ansi24, "ansi24", false, "24-bit color escape sequences")
	fs.BoolVar(&opts.Render.Quadrant, "qb", opts.Render.Quadrant, "quadrant blocks: twice the horizontal resolution")
	fs.BoolVar(&opts.Render.GrayscaleBias, "nograyscale", opts.Render.GrayscaleBias, "leave the gray ramp out of the IRC and 256-color palettes")

	width := &opts.Resize.Width
	fs.IntVar(width, "width", *width, "image width in pixels, 0 fits the terminal")
	fs.IntVar(width, "w", *width, "shorthand for -width")
	fs.StringVar(&cfg.interp, "interpolation", opts.Resize.Interpolation.String(), "resize filter: catmullrom, linear or nearest")

	adj := &opts.Adjust
	fs.Float64Var(&adj.Brightness, "brightness", adj.Brightness, "brightness (-255 to 255)")
	fs.Float64Var(&adj.Brightness, "b", adj.Brightness, "shorthand for -brightness")
	fs.Float64Var(&adj.Contrast, "contrast", adj.Contrast, "contrast (-255 to 255)")
	fs.Float64Var(&adj.Contrast, "c", adj.Contrast, "shorthand for -contrast")
	fs.Float64Var(&adj.Saturation, "saturation", adj.Saturation, "saturation (-255 to 255)")
	fs.Float64Var(&adj.Saturation, "s", adj.Saturation, "shorthand for -saturation")
	fs.Float64Var(&adj.Hue, "hue", adj.Hue, "hue rotation in degrees (0 to 360)")
	fs.Float64Var(&adj.Hue, "H", adj.Hue, "shorthand for -hue")
	fs.Float64Var(&adj.Gamma, "gamma", adj.Gamma, "gamma (0 to 255)")
	fs.Float64Var(&adj.Gamma, "g", adj.Gamma, "shorthand for -gamma")

	st := &opts.Stylize
	fs.IntVar(&st.Dither, "dither", st.Dither, "dither to 2^n levels per channel (1 to 8)")
	fs.IntVar(&st.GaussianBlur, "gaussian-blur", st.GaussianBlur, "gaussian blur radius")
	fs.IntVar(&st.Pixelize, "pixelize", st.Pixelize, "pixelize block size")
	fs.BoolVar(&st.Invert, "invert", st.Invert, "invert colors")
	fs.BoolVar(&st.Sepia, "sepia", st.Sepia, "sepia tone")
	fs.BoolVar(&st.Solarize, "solarize", st.Solarize, "solarize")
	fs.BoolVar(&st.Normalize, "normalize", st.Normalize, "stretch each channel to the full range")
	fs.BoolVar(&st.Noise, "noise", st.Noise, "add random noise")
	fs.Uint64Var(&st.NoiseSeed, "noise-seed", st.NoiseSeed, "seed for -noise")
	fs.BoolVar(&st.Sharpen, "sharpen", st.Sharpen, "sharpen")
	fs.BoolVar(&st.EdgeDetection, "edge-detection", st.EdgeDetection, "edge detection")
	fs.BoolVar(&st.Emboss, "emboss", st.Emboss, "emboss")
	fs.BoolVar(&st.BoxBlur, "box-blur", st.BoxBlur, "3x3 box blur")
	fs.BoolVar(&st.Grayscale, "grayscale", st.Grayscale, "convert to grayscale")
	fs.BoolVar(&st.Laplace, "laplace", st.Laplace, "laplace filter")
	fs.Var(oilValue{&st.Oil}, "oil", `oil painting "<radius>,<intensity>"`)

	fs.StringVar(&cfg.preset, "preset", cfg.preset, "JSON options preset")
	fs.StringVar(&cfg.output, "o", "", "write to a file instead of stdout (.png preview, .zst compressed)")
	fs.StringVar(&cfg.fontPath, "font", "", "TTF font for .png previews (default: geometric blocks)")
	fs.IntVar(&cfg.scale, "scale", 2, "cell scale for .png previews")
	fs.BoolVar(&cfg.view, "view", false, "show the result in a full-screen viewer")
	fs.BoolVar(&cfg.verbose, "v", false, "debug logging")
	fs.DurationVar(&cfg.timeout, "timeout", 30*time.Second, "timeout for loading and converting an image")
	return fs
}

// parseInterleaved parses args allowing flags after positional
// arguments, and returns the positional arguments.
func parseInterleaved(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

// resolveMode applies the mode flags. When several are given irc wins
// over ansi, and ansi over ansi24.
func resolveMode(cfg *config, current img2irc.ColorMode) img2irc.ColorMode {
	switch {
	case cfg.irc:
		return img2irc.ModeIRC
	case cfg.ansi:
		return img2irc.ModeANSI256
	case cfg.ansi24:
		return img2irc.ModeTrueColor
	}
	return current
}

// terminalWidth returns the pixel width that fills the terminal, or
// img2irc.DefaultWidth when stdout is not a terminal.
func terminalWidth(quadrant bool) int {
	cols, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || cols <= 0 {
		return img2irc.DefaultWidth
	}
	if quadrant {
		return cols * 2
	}
	return cols
}

func run(args []string, stdout, stderr io.Writer) error {
	// The first pass only finds -preset so its values can become the
	// defaults of the real pass.
	var probe config
	probeOpts := img2irc.DefaultOptions()
	pfs := newFlagSet(&probeOpts, &probe, io.Discard)
	if _, err := parseInterleaved(pfs, args); err != nil {
		// Reported by the real pass below.
		probe.preset = ""
	}

	opts := img2irc.DefaultOptions()
	if probe.preset != "" {
		var err error
		if opts, err = img2irc.LoadOptions(probe.preset); err != nil {
			return err
		}
	}

	cfg := config{preset: probe.preset}
	fs := newFlagSet(&opts, &cfg, stderr)
	positional, err := parseInterleaved(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		fs.Usage()
		return errors.New("expected exactly one image path or url")
	}

	level := slog.LevelWarn
	if cfg.verbose {
		level = slog.LevelDebug
	}
	img2irc.SetLogger(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))

	opts.Render.Mode = resolveMode(&cfg, opts.Render.Mode)
	if opts.Resize.Interpolation, err = imageutil.ParseInterpolation(cfg.interp); err != nil {
		return err
	}
	if opts.Resize.Width == 0 {
		opts.Resize.Width = terminalWidth(opts.Render.Quadrant)
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
	defer cancel()
	img, err := imageutil.Open(ctx, positional[0])
	if err != nil {
		return err
	}

	canvas, err := img2irc.Prepare(ctx, img, opts)
	if err != nil {
		return err
	}
	renderer := opts.Render.Renderer()

	switch {
	case cfg.view:
		return termview.Show(renderer.Blocks(canvas))
	case strings.EqualFold(filepath.Ext(cfg.output), ".png"):
		preview := img2irc.PreviewOptions{Scale: cfg.scale}
		if cfg.fontPath != "" {
			if preview.Font, err = img2irc.LoadFontBitmaps(cfg.fontPath); err != nil {
				return err
			}
		}
		return img2irc.SaveBlocksToPNG(renderer.Blocks(canvas), cfg.output, preview)
	case cfg.output != "":
		return img2irc.WriteText(cfg.output, renderer.Render(canvas))
	}

	if err := renderer.RenderTo(stdout, canvas); err != nil {
		return err
	}
	_, err = io.WriteString(stdout, "\n")
	return err
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
