package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wbrown/img2ascii"
	"github.com/wbrown/img2ascii/imageutil"
	"github.com/wbrown/img2ascii/internal/config"
	"github.com/wbrown/img2ascii/preview"
)

type options struct {
	configPath    string
	maxSize       int
	palette       string
	thresholds    []int
	interpolation string
	lineEnding    string
	previewPath   string
	fontPath      string
	fontSize      float64
	verbose       bool
}

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		verbose, _ := cmd.Flags().GetBool("verbose")
		reportError(os.Stderr, err, verbose)
		os.Exit(1)
	}
}

// reportError prints the root cause type and the message. In verbose mode
// every wrapped layer follows, outermost first.
func reportError(w io.Writer, err error, verbose bool) {
	fmt.Fprintf(w, "%T: %v\n", rootCause(err), err)
	if !verbose {
		return
	}
	for depth := 0; err != nil; depth++ {
		fmt.Fprintf(w, "  #%d %T: %v\n", depth, err, err)
		err = errors.Unwrap(err)
	}
}

// rootCause returns the innermost wrapped error.
func rootCause(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ascify INPUT [OUTPUT]",
		Short: "Convert an image to ASCII art",
		Long: "Convert an image to ASCII art using the glyphs '#', '+' and ' '.\n" +
			"The image is shrunk so its larger side is about --max-size pixels,\n" +
			"then every two pixel rows become one line of text. Without OUTPUT,\n" +
			"or with OUTPUT set to -, the text is written to stdout.\n\n" +
			"View the result in a monospace font such as Courier at 8pt.",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := "-"
			if len(args) == 2 {
				output = args[1]
			}
			return run(cmd, opts, args[0], output)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "",
		"JSON config file; explicitly set flags take precedence")
	f.IntVar(&opts.maxSize, "max-size", img2ascii.DefaultMaxSize,
		"Bound for the larger image dimension before rendering")
	f.StringVar(&opts.palette, "palette", img2ascii.DefaultPalette().String(),
		"Three glyphs for dark, mid and light areas")
	f.IntSliceVar(&opts.thresholds, "thresholds", []int{85, 170},
		"Brightness cutoffs low,high on the 0-255 scale")
	f.StringVar(&opts.interpolation, "interpolation", "cubic",
		"Resampling filter: cubic, linear or area")
	f.StringVar(&opts.lineEnding, "line-ending", "native",
		"Line terminator: lf, crlf or native")
	f.StringVar(&opts.previewPath, "preview", "",
		"Also draw the text into this PNG file")
	f.StringVar(&opts.fontPath, "font", "",
		"TrueType font for --preview (default: built-in 7x13)")
	f.Float64Var(&opts.fontSize, "font-size", 8,
		"Font size in points for --font")
	f.BoolVarP(&opts.verbose, "verbose", "v", false,
		"Log dimensions and timings to stderr")

	return cmd
}

// converterOptions layers config file values under explicitly set flags.
func converterOptions(cmd *cobra.Command, opts *options) ([]img2ascii.Option, error) {
	var out []img2ascii.Option

	if opts.configPath != "" {
		file, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		fileOpts, err := file.Options()
		if err != nil {
			return nil, fmt.Errorf("config %s: %w", opts.configPath, err)
		}
		out = append(out, fileOpts...)
	}

	flags := cmd.Flags()
	if flags.Changed("max-size") {
		out = append(out, img2ascii.WithMaxSize(opts.maxSize))
	}
	if flags.Changed("palette") {
		p, err := img2ascii.ParsePalette(opts.palette)
		if err != nil {
			return nil, err
		}
		out = append(out, img2ascii.WithPalette(p))
	}
	if flags.Changed("thresholds") {
		if len(opts.thresholds) != 2 {
			return nil, fmt.Errorf("--thresholds wants two values, got %d", len(opts.thresholds))
		}
		out = append(out, img2ascii.WithThresholds(img2ascii.Thresholds{
			Low:  opts.thresholds[0],
			High: opts.thresholds[1],
		}))
	}
	if flags.Changed("interpolation") {
		interp, err := imageutil.ParseInterpolation(strings.ToLower(opts.interpolation))
		if err != nil {
			return nil, err
		}
		out = append(out, img2ascii.WithInterpolation(interp))
	}
	if flags.Changed("line-ending") {
		le, err := config.ParseLineEnding(strings.ToLower(opts.lineEnding))
		if err != nil {
			return nil, err
		}
		out = append(out, img2ascii.WithLineEnding(le))
	}
	return out, nil
}

func run(cmd *cobra.Command, opts *options, input, output string) error {
	level := slog.LevelWarn
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	convOpts, err := converterOptions(cmd, opts)
	if err != nil {
		return err
	}
	conv, err := img2ascii.NewConverter(convOpts...)
	if err != nil {
		return err
	}

	start := time.Now()
	img, format, err := decodeFile(input)
	if err != nil {
		return err
	}
	width, height := img.Width(), img.Height()
	divisor := conv.Divisor(width, height)
	logger.Debug("decoded image",
		"path", input, "format", format, "width", width, "height", height,
		"divisor", divisor, "elapsed", time.Since(start))

	start = time.Now()
	art, err := conv.Convert(img)
	if err != nil {
		return err
	}
	logger.Debug("converted",
		"lines", strings.Count(art, conv.LineEnding()),
		"interpolation", conv.Interpolation(),
		"elapsed", time.Since(start))

	if output == "-" {
		if _, err := io.WriteString(cmd.OutOrStdout(), art); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else {
		if err := os.WriteFile(output, []byte(art), 0o644); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Output written to %s\n", output)
	}

	if opts.previewPath != "" {
		if err := writePreview(opts, art); err != nil {
			return err
		}
		if output != "-" {
			fmt.Fprintf(cmd.OutOrStdout(), "PNG preview written to %s\n", opts.previewPath)
		}
		logger.Debug("wrote preview", "path", opts.previewPath)
	}
	return nil
}

func decodeFile(path string) (*imageutil.RGBAImage, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	return imageutil.DecodeImage(f)
}

func writePreview(opts *options, art string) error {
	var previewOpts []preview.Option
	if opts.fontPath != "" {
		previewOpts = append(previewOpts,
			preview.WithFontFile(opts.fontPath),
			preview.WithFontSize(opts.fontSize))
	}
	r, err := preview.NewRenderer(previewOpts...)
	if err != nil {
		return err
	}
	return imageutil.SavePNG(r.Render(art).RGBA, opts.previewPath)
}
