package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/bmatsuo/img2anim/export"
)

func (a *app) exportCmd() *cobra.Command {
	var (
		ef       effectFlags
		format   string
		dir      string
		maxSize  int
		square   bool
		quality  int
		lossless bool
	)
	def := a.cfg.Export
	cmd := &cobra.Command{
		Use:   "export <image>",
		Short: "Render one loop of an effect to an animated image file",
		Long: `Export renders every frame of one loop of the effect and encodes them as
an endlessly looping animation named animation-<effect>-<unixmillis>.<ext>.
The path of the written file is printed on standard output.

Transparent GIF exports use pure green (#00ff00) as the transparent color.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Export
			flags := cmd.Flags()
			if flags.Changed("format") {
				cfg.Format = format
			}
			if flags.Changed("dir") {
				cfg.Dir = dir
			}
			if flags.Changed("max-size") {
				cfg.MaxSize = maxSize
			}
			if flags.Changed("square") {
				cfg.Square = square
			}
			if flags.Changed("quality") {
				cfg.Quality = quality
			}
			if flags.Changed("lossless") {
				cfg.Lossless = lossless
			}

			f, err := export.ParseFormat(cfg.Format)
			if err != nil {
				return err
			}
			s, err := a.resolve(&ef)
			if err != nil {
				return err
			}
			src, err := a.loadImage(args[0])
			if err != nil {
				return err
			}

			bar := newProgressLine(os.Stderr, fmt.Sprintf("exporting %s %s", s.Kind(), f))
			anim, err := export.Export(src, s, export.Options{
				Format:    f,
				FrameRate: a.cfg.FrameRate,
				MaxSize:   cfg.MaxSize,
				Square:    cfg.Square,
				Quality:   cfg.Quality,
				Lossless:  cfg.Lossless,
				Progress:  bar.Update,
				Logger:    a.logger,
			})
			bar.Done(err == nil)
			if err != nil {
				return err
			}

			path, err := anim.WriteFile(cfg.Dir, time.Now())
			if err != nil {
				return err
			}
			a.logger.Info("exported", "path", path, "type", anim.Format.MIMEType(), "frames", anim.Timeline.Frames, "bytes", len(anim.Data))
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	ef.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", def.Format, "output format: "+formatChoices())
	cmd.Flags().StringVarP(&dir, "dir", "o", def.Dir, "output directory")
	cmd.Flags().IntVar(&maxSize, "max-size", def.MaxSize, "maximum width and height of the animation")
	cmd.Flags().BoolVar(&square, "square", def.Square, "export a square canvas of max-size pixels")
	cmd.Flags().IntVar(&quality, "quality", def.Quality, "WebP quality, 0-100")
	cmd.Flags().BoolVar(&lossless, "lossless", def.Lossless, "lossless WebP")
	return cmd
}

// formatChoices lists the export formats, as in "gif, apng or webp".
func formatChoices() string {
	var names []string
	for _, f := range export.Formats() {
		names = append(names, string(f))
	}
	if len(names) < 2 {
		return strings.Join(names, "")
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

// progressLine redraws a percentage on one terminal line.  It draws nothing
// when w is not a terminal.
type progressLine struct {
	w       io.Writer
	label   string
	enabled bool
	pct     int
}

func newProgressLine(f *os.File, label string) *progressLine {
	return &progressLine{
		w:       f,
		label:   label,
		enabled: isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()),
		pct:     -1,
	}
}

func (p *progressLine) Update(v float64) {
	pct := int(v * 100)
	if !p.enabled || pct == p.pct {
		return
	}
	p.pct = pct
	fmt.Fprintf(p.w, "\r%s %s", p.label, color.CyanString("%3d%%", pct))
}

func (p *progressLine) Done(ok bool) {
	if !p.enabled || p.pct < 0 {
		return
	}
	if ok {
		fmt.Fprintf(p.w, "\r%s %s\n", p.label, color.GreenString("done"))
	} else {
		fmt.Fprintf(p.w, "\r%s %s\n", p.label, color.RedString("failed"))
	}
}
