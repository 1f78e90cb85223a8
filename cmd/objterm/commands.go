package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"fortio.org/log"
	"github.com/spf13/cobra"

	"github.com/taigrr/objterm/pkg/config"
	"github.com/taigrr/objterm/pkg/math3d"
	"github.com/taigrr/objterm/pkg/models"
	"github.com/taigrr/objterm/pkg/render"
	"github.com/taigrr/objterm/pkg/viewer"
)

func runView(ctx context.Context, path string, cfg config.Config) error {
	mesh, err := loadMesh(path, false)
	if err != nil {
		return err
	}
	box, _ := mesh.Bounds()
	ramp, err := cfg.Ramp()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	term, err := viewer.OpenTerminal()
	if err != nil {
		return err
	}
	width, height := term.Size()

	state := viewer.NewRenderState(mesh, cfg.Camera(), ramp, width, height)
	state.DiagonalFOV = cfg.FOVRadians()
	state.CellAspect = cfg.CellAspect
	state.Options = cfg.RenderOptions()
	state.Resize(width, height)

	distance := viewer.FitDistance(state.Camera, box, cfg.DistanceFactor)
	if reach := distance + box.LongestDistanceFromPoint(box.Center()); reach > cfg.Far {
		log.Warnf("Far plane %.1f is closer than the back of the model (%.1f)", cfg.Far, reach)
	}
	orbit := viewer.NewOrbit(box.Center(), distance, cfg.FPS)
	orbit.Sensitivity = cfg.Sensitivity

	// The terminal owns the screen until the loop returns.
	prev := log.SetLogLevel(log.Warning)
	defer log.SetLogLevel(prev)

	if err := viewer.NewLoop(cfg.FPS).Run(ctx, term, state, orbit); err != nil {
		return fmt.Errorf("main loop: %w", err)
	}
	return nil
}

func infoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info <model.obj>",
		Short: "Display model information",
		Long:  "Display vertex, triangle and edge counts and the bounding box of a model.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, args[0])
		},
	}
}

func runInfo(cmd *cobra.Command, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}
	mesh, err := loadMesh(path, true)
	if err != nil {
		return err
	}
	box, _ := mesh.Bounds()
	size := box.Size()
	center := box.Center()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "File:       %s\n", filepath.Base(path))
	fmt.Fprintf(out, "Size:       %.2f KB\n", float64(info.Size())/1024)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Vertices:   %d\n", mesh.VertexCount())
	fmt.Fprintf(out, "Triangles:  %d\n", mesh.TriangleCount())
	fmt.Fprintf(out, "Edges:      %d\n", len(mesh.Edges()))
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Bounds min: (%.3f, %.3f, %.3f)\n", box.Min.X, box.Min.Y, box.Min.Z)
	fmt.Fprintf(out, "Bounds max: (%.3f, %.3f, %.3f)\n", box.Max.X, box.Max.Y, box.Max.Z)
	fmt.Fprintf(out, "Dimensions: %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Fprintf(out, "Center:     (%.3f, %.3f, %.3f)\n", center.X, center.Y, center.Z)
	return nil
}

type snapshotFlags struct {
	output     string
	width      int
	height     int
	yaw, pitch float64 // degrees
	text       bool
}

func snapshotCommand(s *settings) *cobra.Command {
	var f snapshotFlags
	cmd := &cobra.Command{
		Use:   "snapshot <model.obj>",
		Short: "Render one frame to a PNG or text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.load(cmd)
			if err != nil {
				return err
			}
			return runSnapshot(cmd, args[0], cfg, f)
		},
	}
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "Output file (text goes to stdout when empty)")
	cmd.Flags().IntVar(&f.width, "width", 160, "Frame width in pixels or cells")
	cmd.Flags().IntVar(&f.height, "height", 90, "Frame height in pixels or cells")
	cmd.Flags().Float64Var(&f.yaw, "yaw", 30, "Camera yaw in degrees")
	cmd.Flags().Float64Var(&f.pitch, "pitch", 20, "Camera pitch in degrees")
	cmd.Flags().BoolVar(&f.text, "text", false, "Write glyphs instead of a grayscale PNG")
	return cmd
}

func runSnapshot(cmd *cobra.Command, path string, cfg config.Config, f snapshotFlags) error {
	if f.width <= 0 || f.height <= 0 {
		return fmt.Errorf("invalid frame size %dx%d", f.width, f.height)
	}
	if !f.text && f.output == "" {
		return errors.New("a PNG snapshot needs --output")
	}
	mesh, err := loadMesh(path, false)
	if err != nil {
		return err
	}
	box, _ := mesh.Bounds()

	// PNG pixels are square; terminal cells are not.
	aspect := 1.0
	if f.text {
		aspect = cfg.CellAspect
	}
	cam := cfg.Camera()
	cam.FitFOV(cfg.FOVRadians(), f.width, f.height, aspect)
	distance := viewer.FitDistance(cam, box, cfg.DistanceFactor)
	cam.Orbit(box.Center(), distance, f.pitch*math.Pi/180, f.yaw*math.Pi/180)

	r := render.NewRenderer(f.width, f.height)
	r.BeginFrame()
	r.DrawMesh(cam, mesh, math3d.Identity(), cfg.RenderOptions())
	log.S(log.Info, "Rendered snapshot",
		log.Attr("drawn", r.Stats.Drawn),
		log.Attr("culled", r.Stats.Culled()))

	if !f.text {
		return render.SavePNG(r.Luminance(), f.output)
	}

	ramp, err := cfg.Ramp()
	if err != nil {
		return err
	}
	grid := render.NewGlyphGrid(f.width, f.height)
	grid.FromLuminance(r.Luminance(), ramp)
	text := grid.String()
	if f.output == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), text)
		return err
	}
	return os.WriteFile(f.output, []byte(text), 0o644)
}

func exportCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <model.obj>",
		Short: "Convert a model to binary glTF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(args[0], output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output .glb file (defaults to the input name)")
	return cmd
}

func runExport(path, output string) error {
	mesh, err := loadMesh(path, true)
	if err != nil {
		return err
	}
	if output == "" {
		output = path[:len(path)-len(filepath.Ext(path))] + ".glb"
	}
	if err := models.ExportGLB(mesh, output); err != nil {
		return err
	}
	if err := verifyExport(mesh, output); err != nil {
		return err
	}
	log.Infof("Wrote %s", output)
	return nil
}

// verifyExport reads the written file back and checks that the triangle
// and point counts survived the round trip.
func verifyExport(mesh *models.Mesh, path string) error {
	back, err := models.LoadGLB(path)
	if err != nil {
		return fmt.Errorf("verify %s: %w", path, err)
	}
	if back.TriangleCount() != mesh.TriangleCount() || back.VertexCount() != mesh.VertexCount() {
		return fmt.Errorf("verify %s: read back %d triangles and %d vertices, wrote %d and %d",
			path, back.TriangleCount(), back.VertexCount(), mesh.TriangleCount(), mesh.VertexCount())
	}
	return nil
}
