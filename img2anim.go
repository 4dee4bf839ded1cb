// Command img2anim animates a still image with one of several effects.  The
// animation can be watched in the terminal or exported as an animated GIF,
// APNG or WebP file.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bmatsuo/img2anim/config"
	"github.com/bmatsuo/img2anim/export"
	"github.com/bmatsuo/img2anim/fx"
)

// Exit codes by error class.
const (
	exitFailure = 1
	exitInput   = 2
	exitDecode  = 3
	exitExport  = 4
)

// errUsage marks bad command line arguments.
var errUsage = errors.New("usage")

type app struct {
	configPath string
	logLevel   string
	frameRate  int

	cfg    *config.Config
	logger *log.Logger
}

func main() {
	a := &app{cfg: config.Default(), logger: newLogger(log.InfoLevel)}
	err := a.rootCmd().ExecuteContext(context.Background())
	if err != nil {
		a.logger.Error(describe(err))
		os.Exit(exitCode(err))
	}
}

func newLogger(level log.Level) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Level:           level,
	})
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "img2anim",
		Short: "Animate an image with rotate, stamp, shake, glow and wave effects",
		Long: `img2anim renders looping animations of a still image.  Effects are
previewed in the terminal and exported as animated GIF, APNG or WebP files.

Effect parameters are set with --set key=value or a YAML file given with
--settings.  Run "img2anim timeline --effect <name>" to list the parameters of
an effect and their defaults.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	flags := cmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.IntVar(&a.frameRate, "frame-rate", 0, "frames per second (default from config, 30)")

	cmd.AddCommand(a.exportCmd(), a.previewCmd(), a.timelineCmd(), a.inspectCmd())
	return cmd
}

// setup loads the configuration and builds the logger once flags are parsed.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.configPath != "" {
		cfg, err := config.Load(a.configPath)
		if err != nil {
			return fmt.Errorf("%w: %v", errUsage, err)
		}
		a.cfg = cfg
	}
	if a.frameRate != 0 {
		a.cfg.FrameRate = a.frameRate
	}
	level := a.cfg.LogLevel
	if a.logLevel != "" {
		level = a.logLevel
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	a.logger = newLogger(lvl)
	a.logger.Debug("configured", "config", a.configPath, "effect", a.cfg.Effect, "frame_rate", a.cfg.FrameRate)
	return nil
}

// effectFlags select an effect and patch its settings.
type effectFlags struct {
	effect   string
	set      []string
	settings string
}

func (f *effectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.effect, "effect", "e", "", "effect: rotate, stamp, shake, glow or wave (default from config, rotate)")
	cmd.Flags().StringArrayVar(&f.set, "set", nil, "set an effect parameter, key=value (repeatable)")
	cmd.Flags().StringVar(&f.settings, "settings", "", "YAML file of effect parameters")
}

// resolve returns the settings selected by the flags.  A kind other than the
// configured one starts from its defaults.  The settings file is applied
// before --set assignments.
func (a *app) resolve(f *effectFlags) (fx.Settings, error) {
	kind := a.cfg.Effect
	if f.effect != "" {
		k, err := fx.ParseKind(f.effect)
		if err != nil {
			return nil, err
		}
		kind = k
	}
	s, err := a.cfg.Settings(kind)
	if err != nil {
		return nil, err
	}

	var file *yaml.Node
	if f.settings != "" {
		file, err = config.LoadPatch(f.settings)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", fx.ErrInvalidSettings, err)
		}
	}
	sets, err := config.ParseAssignments(f.set)
	if err != nil {
		return nil, err
	}
	patch, err := config.Merge(file, sets)
	if err != nil {
		return nil, err
	}
	return config.ApplyPatch(s, patch)
}

func (a *app) loadImage(path string) (*fx.Image, error) {
	img, err := fx.Load(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("loaded image", "path", path, "format", img.Format(), "width", img.Width(), "height", img.Height())
	return img, nil
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, errUsage), export.IsInputError(err):
		return exitInput
	case errors.Is(err, fx.ErrImageLoad):
		return exitDecode
	case errors.Is(err, export.ErrExportUnavailable), errors.Is(err, export.ErrEncoding):
		return exitExport
	}
	return exitFailure
}

// describe prefixes err with a message for its class.
func describe(err error) string {
	switch exitCode(err) {
	case exitInput:
		return "invalid input: " + err.Error()
	case exitDecode:
		return "cannot read image: " + err.Error()
	case exitExport:
		return "export failed: " + err.Error()
	}
	return err.Error()
}
