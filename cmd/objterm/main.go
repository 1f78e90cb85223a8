// objterm - Terminal OBJ Viewer
// Render Wavefront OBJ meshes as shaded characters in your terminal.
//
// Controls:
//
//	Mouse drag  - Orbit the model (left or middle button)
//	Scroll      - Zoom in/out
//	C           - Toggle drag key mode (rotate without holding a button)
//	W/S         - Move the view point forward/back
//	A/D         - Move the view point left/right
//	R/F         - Move the view point up/down
//	Arrows      - Spin
//	Space       - Random spin
//	0           - Reset view
//	X           - Toggle wireframe
//	B           - Toggle bounding box
//	P           - Toggle backface culling
//	?/H         - Toggle status line
//	+/-         - Adjust zoom
//	Q/Esc       - Quit
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"fortio.org/log"
	"github.com/charmbracelet/fang"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/taigrr/objterm/pkg/config"
	"github.com/taigrr/objterm/pkg/models"
)

// settings are the persistent flags shared by every command.
type settings struct {
	configPath string
	logLevel   string
	fps        int
	fov        float64
	glyphs     string
	noCull     bool
}

func main() {
	var s settings

	root := &cobra.Command{
		Use:   "objterm <model.obj>",
		Short: "Terminal OBJ Viewer",
		Long: `objterm - Terminal OBJ Viewer

Render Wavefront OBJ meshes as shaded characters in your terminal.

Controls:
  Mouse drag  - Orbit the model
  Scroll      - Zoom in/out
  C           - Toggle drag key mode
  W/S/A/D/R/F - Move the view point
  Arrows      - Spin
  Space       - Random spin
  0           - Reset view
  X           - Toggle wireframe
  B           - Toggle bounding box
  P           - Toggle backface culling
  ?           - Toggle status line
  Q/Esc       - Quit`,
		Args: cobra.ExactArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := log.SetLogLevelStr(s.logLevel); err != nil {
				return fmt.Errorf("log level %q: %w", s.logLevel, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := s.load(cmd)
			if err != nil {
				return err
			}
			return runView(cmd.Context(), args[0], cfg)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&s.configPath, "config", "", "YAML settings file")
	pf.StringVar(&s.logLevel, "log-level", "info", "Log level (debug, verbose, info, warning, error)")
	pf.IntVar(&s.fps, "fps", 60, "Target FPS")
	pf.Float64Var(&s.fov, "fov", 80, "Diagonal field of view in degrees")
	pf.StringVar(&s.glyphs, "glyphs", "", "Glyph ramp from dark to bright")
	pf.BoolVar(&s.noCull, "no-cull", false, "Disable backface culling")

	root.AddCommand(infoCommand(), snapshotCommand(&s), exportCommand())

	if err := fang.Execute(context.Background(), root); err != nil {
		os.Exit(1)
	}
}

// load reads the config file, if any, and applies flags the user set.
func (s *settings) load(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	if s.configPath != "" {
		var err error
		if cfg, err = config.Load(s.configPath); err != nil {
			return config.Config{}, err
		}
		log.Debugf("Loaded settings from %s", s.configPath)
	}

	flags := cmd.Flags()
	if flags.Changed("fps") {
		cfg.FPS = s.fps
	}
	if flags.Changed("fov") {
		cfg.FOV = s.fov
	}
	if flags.Changed("glyphs") {
		cfg.Glyphs = s.glyphs
	}
	if s.noCull {
		cfg.Culling = false
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// loadMesh reads an OBJ file. With progress set, a byte progress bar is
// shown on stderr while it is parsed.
func loadMesh(path string, progress bool) (*models.Mesh, error) {
	mesh, err := parseOBJ(path, progress)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	log.S(log.Info, "Loaded mesh",
		log.Str("file", mesh.Name),
		log.Attr("vertices", mesh.VertexCount()),
		log.Attr("triangles", mesh.TriangleCount()))
	return mesh, nil
}

func parseOBJ(path string, progress bool) (*models.Mesh, error) {
	if err := models.CheckExtension(path); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if progress {
		size := int64(-1)
		if info, err := f.Stat(); err == nil {
			size = info.Size()
		}
		bar := progressbar.DefaultBytes(size, "parsing "+filepath.Base(path))
		defer bar.Finish()
		r = io.TeeReader(f, bar)
	}
	return models.NewOBJLoader().Load(r, filepath.Base(path))
}
