// Package main provides the showheat command line tool.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/showheat/showheat"
	"github.com/showheat/showheat/dataset"
	"github.com/showheat/showheat/internal/server"
)

var (
	renderOutput     string
	renderTheme      string
	renderShape      string
	renderColormap   string
	renderAnnotate   bool
	renderCellSize   int
	renderOversample int
	renderRotateX    float64
	renderColorbar   bool
	renderFormat     string
	renderHeader     bool
	renderRowLabels  bool
	renderMaskZero   bool
	renderSheet      string

	serveAddr     string
	serveFontDirs []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "showheat",
		Short: "Render season-by-episode ratings heatmaps",
		Long: `showheat turns TV show episode ratings into heatmap figures:
one colored shape per episode, seasons as rows, episodes as columns.
Inputs may be CSV/TSV grids, JSON or YAML show documents, or xlsx
workbooks.`,
		SilenceUsage: true,
	}

	renderCmd := &cobra.Command{
		Use:   "render [input...]",
		Short: "Render ratings files to image or SVG figures",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRender,
	}
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file, or directory for multiple inputs (default: next to input)")
	renderCmd.Flags().StringVar(&renderTheme, "theme", "", "YAML theme file applied before flag overrides")
	renderCmd.Flags().StringVar(&renderShape, "shape", "rectangle", "Cell shape: rectangle or ellipse")
	renderCmd.Flags().StringVar(&renderColormap, "colormap", "Blues", "Colormap name; append _r to reverse")
	renderCmd.Flags().BoolVar(&renderAnnotate, "annotate", true, "Draw the rating value inside each cell")
	renderCmd.Flags().IntVar(&renderCellSize, "cell-size", 96, "Cell edge length in pixels")
	renderCmd.Flags().IntVar(&renderOversample, "oversample", 1, "Supersampling factor for smoother shape edges")
	renderCmd.Flags().Float64Var(&renderRotateX, "rotate-x", 0, "Column label rotation in degrees")
	renderCmd.Flags().BoolVar(&renderColorbar, "colorbar", false, "Draw a colorbar legend")
	renderCmd.Flags().StringVar(&renderFormat, "format", "png", "Output format for derived file names (png, svg, jpg, ...)")
	renderCmd.Flags().BoolVar(&renderHeader, "header", false, "Treat the first grid row as column labels")
	renderCmd.Flags().BoolVar(&renderRowLabels, "row-labels", false, "Treat the first grid column as row labels")
	renderCmd.Flags().BoolVar(&renderMaskZero, "mask-zero", false, "Treat zero ratings as missing")
	renderCmd.Flags().StringVar(&renderSheet, "sheet", "", "Workbook sheet name (default: first sheet)")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the heatmap preview server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: $SHOWHEAT_ADDR or "+server.DefaultAddr+")")
	serveCmd.Flags().StringArrayVar(&serveFontDirs, "font-dir", nil, "Extra font directory to scan (repeatable)")

	colormapsCmd := &cobra.Command{
		Use:   "colormaps",
		Short: "List registered colormap names",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range showheat.ColormapNames() {
				fmt.Println(name)
			}
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the showheat version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("showheat %s\n", showheat.Version)
		},
	}

	rootCmd.AddCommand(renderCmd, serveCmd, colormapsCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	opts, err := baseOptions()
	if err != nil {
		return err
	}
	if err := applyRenderFlags(cmd, opts); err != nil {
		return err
	}
	opts.FontCache = showheat.NewFontCache(opts.FontDirs...)

	if len(args) > 1 && renderOutput != "" {
		fi, err := os.Stat(renderOutput)
		if err != nil || !fi.IsDir() {
			return fmt.Errorf("with multiple inputs, --output must be an existing directory")
		}
	}

	loadOpts := dataset.LoadOptions{
		Header:    renderHeader,
		RowLabels: renderRowLabels,
		MaskZero:  renderMaskZero,
		Sheet:     renderSheet,
	}

	jobs := make([]showheat.RenderJob, 0, len(args))
	for _, input := range args {
		tbl, err := dataset.Load(input, loadOpts)
		if err != nil {
			return err
		}
		m, err := tbl.Matrix()
		if err != nil {
			return fmt.Errorf("%s: %w", input, err)
		}
		jobOpts := *opts
		jobs = append(jobs, showheat.RenderJob{
			Matrix:  m,
			Path:    outputPath(input, renderOutput, renderFormat),
			Options: tbl.Options(&jobOpts),
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := showheat.RenderBatch(ctx, jobs); err != nil {
		return err
	}

	for _, job := range jobs {
		fmt.Println(job.Path)
	}
	return nil
}

func baseOptions() (*showheat.Options, error) {
	if renderTheme == "" {
		return showheat.DefaultOptions(), nil
	}
	opts, err := showheat.LoadOptions(renderTheme)
	if err != nil {
		return nil, fmt.Errorf("theme %s: %w", renderTheme, err)
	}
	return opts, nil
}

// applyRenderFlags lays explicitly set flags over the base options,
// so a theme file keeps its settings unless the command line says
// otherwise.
func applyRenderFlags(cmd *cobra.Command, opts *showheat.Options) error {
	flags := cmd.Flags()
	if flags.Changed("shape") {
		kind, err := showheat.ParseShapeKind(renderShape)
		if err != nil {
			return err
		}
		opts.Shape = kind
	}
	if flags.Changed("colormap") {
		opts.Colormap = renderColormap
	}
	if flags.Changed("annotate") {
		opts.Annotate = renderAnnotate
	}
	if flags.Changed("cell-size") {
		opts.CellSize = renderCellSize
	}
	if flags.Changed("oversample") {
		opts.Oversample = renderOversample
	}
	if flags.Changed("rotate-x") {
		opts.XLabelRotation = renderRotateX
	}
	if flags.Changed("colorbar") {
		opts.ShowColorbar = renderColorbar
	}
	return opts.Validate()
}

// outputPath derives where one rendered figure lands. An explicit
// file path wins; a directory, or no output at all, names the file
// after the input with the format's extension.
func outputPath(input, out, format string) string {
	name := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + "." + format
	if out == "" {
		return filepath.Join(filepath.Dir(input), name)
	}
	if fi, err := os.Stat(out); err == nil && fi.IsDir() {
		return filepath.Join(out, name)
	}
	return out
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err == nil {
		log.Println("[INFO] loaded environment from .env")
	}

	addr := serveAddr
	if addr == "" {
		addr = os.Getenv("SHOWHEAT_ADDR")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(addr, serveFontDirs...).Run(ctx)
}
