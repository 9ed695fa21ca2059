package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/voxanim/internal/animator"
	"github.com/san-kum/voxanim/internal/config"
	"github.com/san-kum/voxanim/internal/export"
	"github.com/san-kum/voxanim/internal/logging"
	"github.com/san-kum/voxanim/internal/manifest"
	"github.com/san-kum/voxanim/internal/markers"
	"github.com/san-kum/voxanim/internal/slicer"
	"github.com/san-kum/voxanim/internal/viz"
	"github.com/san-kum/voxanim/internal/volume"
)

var (
	dataDir     string
	verbose     bool
	veryVerbose bool
	quiet       bool
	logFile     string
	closeLog    func() error

	output     string
	display    bool
	title      string
	scale      float64
	sliceSpec  string
	fps        float64
	axis       int
	marks      []string
	marksFile  string
	markSize   float64
	markAlpha  float64
	imod       bool
	showAxes   bool
	minVal     float64
	maxVal     float64
	loop       bool
	interp     string
	theme      string
	configFile string
	preset     string
	// raw input
	shape string
	dtype string

	phantomShape string
	bins         int
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "voxanim",
		Short:        "animate slices through 3d volumes",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			closeLog = logging.Setup(logging.Config{
				Level:   logging.LevelFromFlags(veryVerbose, verbose, quiet),
				File:    logFile,
				MaxSize: 10,
				MaxAge:  28,
			})
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if closeLog != nil {
				return closeLog()
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", manifest.DefaultDir, "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log info messages")
	rootCmd.PersistentFlags().BoolVar(&veryVerbose, "vv", false, "log debug messages")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log errors only")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write a rotating json log to this file")

	renderCmd := &cobra.Command{
		Use:   "render [volume]",
		Short: "render a slice animation to a file",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
	addOptionFlags(renderCmd)
	renderCmd.Flags().BoolVar(&display, "display", false, "also play the animation in the terminal")

	viewCmd := &cobra.Command{
		Use:   "view [volume]",
		Short: "play a slice animation in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			display = true
			return runRender(cmd, args)
		},
	}
	addOptionFlags(viewCmd)

	infoCmd := &cobra.Command{
		Use:   "info [volume]",
		Short: "show volume shape, range and histogram",
		Args:  cobra.ExactArgs(1),
		RunE:  volumeInfo,
	}
	infoCmd.Flags().StringVar(&shape, "shape", "", "raw volume shape, e.g. 64x128x128")
	infoCmd.Flags().StringVar(&dtype, "dtype", "f4", "raw volume dtype")
	infoCmd.Flags().IntVar(&bins, "bins", 40, "histogram bins")

	phantomCmd := &cobra.Command{
		Use:   "phantom",
		Short: "write a synthetic test volume",
		Args:  cobra.NoArgs,
		RunE:  writePhantom,
	}
	phantomCmd.Flags().StringVarP(&output, "output", "o", "phantom.npy", "output .npy file")
	phantomCmd.Flags().StringVar(&phantomShape, "shape", "64x64x64", "volume shape")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list exported runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	marksCmd := &cobra.Command{
		Use:   "marks [run_id]",
		Short: "show the markers bound in a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showMarks,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(renderCmd, viewCmd, infoCmd, phantomCmd, runsCmd, marksCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addOptionFlags(cmd *cobra.Command) {
	def := config.DefaultConfig()
	f := cmd.Flags()
	f.StringVarP(&output, "output", "o", "", "output file (.gif, .png sequence or .svg contact sheet)")
	f.StringVar(&title, "title", "", "figure title")
	f.Float64Var(&scale, "scale", def.Scale, "figure scale factor")
	f.StringVar(&sliceSpec, "slices", def.Slices.String(), "slice count, index list (3,3,5) or range (10:20:2)")
	f.Float64Var(&fps, "fps", def.FPS, "frames per second")
	f.IntVar(&axis, "axis", def.Axis, "slice axis")
	f.StringArrayVar(&marks, "mark", nil, "marker position a,b,c (repeatable)")
	f.StringVar(&marksFile, "marks-file", "", "csv file of marker positions")
	f.Float64Var(&markSize, "marksize", def.MarkSize, "marker area in points^2")
	f.Float64Var(&markAlpha, "markalpha", def.MarkAlpha, "marker opacity")
	f.BoolVar(&imod, "imod", false, "label axes z/y/x")
	f.BoolVar(&showAxes, "showaxes", def.ShowAxes, "draw the axes frame and labels")
	f.Float64Var(&minVal, "min", 0, "intensity mapped to black (default data minimum)")
	f.Float64Var(&maxVal, "max", 0, "intensity mapped to white (default data maximum)")
	f.BoolVar(&loop, "loop", def.Loop, "loop the gif forever")
	f.StringVar(&interp, "interp", def.Interpolation, "scaling interpolation: nearest, bilinear, catmullrom")
	f.StringVar(&theme, "theme", def.Theme, "viewer theme: "+strings.Join(viz.ThemeNames(), ", "))
	f.StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.StringVar(&shape, "shape", "", "raw volume shape, e.g. 64x128x128")
	f.StringVar(&dtype, "dtype", "f4", "raw volume dtype")
}

// loadConfig layers the preset, the config file and the changed flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = output
	}
	if flags.Changed("title") {
		cfg.Title = title
	}
	if flags.Changed("scale") {
		cfg.Scale = scale
	}
	if flags.Changed("slices") {
		spec, err := slicer.ParseSpec(sliceSpec)
		if err != nil {
			return nil, fmt.Errorf("--slices: %w", err)
		}
		cfg.Slices = config.SliceSpec{Spec: spec}
	}
	if flags.Changed("fps") {
		cfg.FPS = fps
	}
	if flags.Changed("axis") {
		cfg.Axis = axis
	}
	if flags.Changed("marksize") {
		cfg.MarkSize = markSize
	}
	if flags.Changed("markalpha") {
		cfg.MarkAlpha = markAlpha
	}
	if flags.Changed("imod") {
		cfg.IMOD = imod
	}
	if flags.Changed("showaxes") {
		cfg.ShowAxes = showAxes
	}
	if flags.Changed("min") {
		v := minVal
		cfg.Min = &v
	}
	if flags.Changed("max") {
		v := maxVal
		cfg.Max = &v
	}
	if flags.Changed("loop") {
		cfg.Loop = loop
	}
	if flags.Changed("interp") {
		cfg.Interpolation = interp
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}

	if marksFile != "" {
		ms, err := markers.LoadFile(marksFile)
		if err != nil {
			return nil, err
		}
		for _, m := range ms {
			cfg.Marks = append(cfg.Marks, [3]float64(m))
		}
	}
	for _, s := range marks {
		m, err := markers.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("--mark: %w", err)
		}
		cfg.Marks = append(cfg.Marks, [3]float64(m))
	}
	return cfg, nil
}

func loadVolume(path string) (*volume.Volume, error) {
	if shape == "" {
		return volume.Open(path)
	}
	shp, err := volume.ParseShape(shape)
	if err != nil {
		return nil, err
	}
	dt, err := volume.ParseDType(dtype)
	if err != nil {
		return nil, err
	}
	return volume.OpenRaw(path, shp, dt)
}

// printProgress draws a progress bar on stderr, one line per pass.
func printProgress(rendered, total int) {
	if quiet || total == 0 {
		return
	}
	fmt.Fprintf(os.Stderr, "\rrendering %s %d/%d", viz.ProgressBar(float64(rendered)/float64(total), 30), rendered, total)
	if rendered == total {
		fmt.Fprintln(os.Stderr)
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	source := args[0]

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts, err := cfg.Options()
	if err != nil {
		return err
	}

	vol, err := loadVolume(source)
	if err != nil {
		return err
	}
	slog.Info("volume loaded", "path", source, "shape", vol.Shape, "size", humanize.Bytes(uint64(vol.Len()*8)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rec := &manifest.Recorder{Next: export.Writer{Logger: slog.Default()}}
	host := animator.Host{
		CanDisplay: display,
		Exporter:   rec,
		Progress:   printProgress,
		Logger:     slog.Default(),
	}
	if display {
		host.Display = viz.Viewer{Profile: viz.DetectProfile(), Theme: cfg.Theme}
	}

	start := time.Now()
	_, visErr := animator.Visualize(ctx, vol, opts, host)

	if rec.Exported() {
		if err := saveRun(rec, source, vol, opts); err != nil {
			slog.Warn("run not recorded", "err", err)
		}
		fmt.Printf("completed in %v\n", time.Since(start).Round(time.Millisecond))
	}
	return visErr
}

func saveRun(rec *manifest.Recorder, source string, vol *volume.Volume, opts animator.Options) error {
	st := manifest.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	run, binding, err := rec.Record(source, vol.Shape, opts)
	if err != nil {
		return err
	}
	runID, err := st.Save(run, binding)
	if err != nil {
		return err
	}

	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d (slices %s)\n", run.Frames, formatSlices(run.Slices))
	for _, f := range run.Files {
		fmt.Printf("wrote %s\n", f)
	}
	fmt.Printf("size: %s\n", run.Size())
	return nil
}

func formatSlices(sel []int) string {
	const maxShown = 12
	parts := make([]string, 0, maxShown+1)
	for i, s := range sel {
		if i == maxShown {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, fmt.Sprint(s))
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func volumeInfo(cmd *cobra.Command, args []string) error {
	vol, err := loadVolume(args[0])
	if err != nil {
		return err
	}

	lo, hi := vol.Range()
	fmt.Printf("volume: %s\n", args[0])
	fmt.Printf("shape: %d x %d x %d\n", vol.Shape[0], vol.Shape[1], vol.Shape[2])
	fmt.Printf("voxels: %s (%s in memory)\n", humanize.Comma(int64(vol.Len())), humanize.Bytes(uint64(vol.Len()*8)))
	fmt.Printf("range: [%g, %g]\n\n", lo, hi)

	if vol.Len() == 0 {
		return nil
	}
	hist := volume.Histogram(vol.Data, bins, lo, hi)
	graph := asciigraph.Plot(hist,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("intensity histogram (%d bins)", len(hist))),
	)
	fmt.Println(graph)
	return nil
}

func writePhantom(cmd *cobra.Command, args []string) error {
	shp, err := volume.ParseShape(phantomShape)
	if err != nil {
		return err
	}
	vol := volume.Phantom(shp[0], shp[1], shp[2])
	if err := volume.Save(output, vol); err != nil {
		return err
	}
	fi, err := os.Stat(output)
	if err != nil {
		return err
	}
	fmt.Printf("wrote %s (%s)\n", output, humanize.Bytes(uint64(fi.Size())))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := manifest.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tOUTPUT\tAXIS\tFRAMES\tFPS\tMARKS\tSIZE\tWHEN")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%g\t%d\t%s\t%s\n",
			run.ID,
			run.Source,
			run.Output,
			run.Axis,
			run.Frames,
			run.FPS,
			run.Marks,
			run.Size(),
			run.Age(),
		)
	}

	return w.Flush()
}

func showMarks(cmd *cobra.Command, args []string) error {
	st := manifest.New(dataDir)
	run, err := st.Load(args[0])
	if err != nil {
		return err
	}
	binding, err := st.LoadMarks(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", run.ID)
	fmt.Printf("axis: %d\n", run.Axis)
	if binding.Count() == 0 {
		fmt.Println("no markers")
		return nil
	}

	slices := make([]int, 0, len(binding))
	for s := range binding {
		slices = append(slices, s)
	}
	sort.Ints(slices)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SLICE\tROW\tCOL")
	for _, s := range slices {
		for _, p := range binding.On(s) {
			fmt.Fprintf(w, "%d\t%g\t%g\n", s, p.Row, p.Col)
		}
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSCALE\tSLICES\tFPS\tAXES\tLABELS\tINTERP\tTHEME")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		labels := "default"
		if p.IMOD {
			labels = "imod"
		}
		fmt.Fprintf(w, "%s\t%g\t%s\t%g\t%v\t%s\t%s\t%s\n",
			name, p.Scale, p.Slices.String(), p.FPS, p.ShowAxes, labels, p.Interpolation, p.Theme)
	}
	return w.Flush()
}
