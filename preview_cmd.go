package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/bmatsuo/img2anim/fx"
	"github.com/bmatsuo/img2anim/preview"
)

func (a *app) previewCmd() *cobra.Command {
	var (
		ef         effectFlags
		palette    string
		fontAspect float64
		pad        bool
		maxSize    int
		square     bool
	)
	def := a.cfg.Preview
	cmd := &cobra.Command{
		Use:   "preview <image>",
		Short: "Play an effect in the terminal",
		Long: `Preview plays the effect in the terminal until it is stopped.

Keys:
  space   pause or resume
  e       switch to the next effect, with its default settings
  q       quit (also Ctrl-C)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.Preview
			flags := cmd.Flags()
			if flags.Changed("palette") {
				cfg.Palette = palette
			}
			if flags.Changed("font-aspect") {
				cfg.FontAspect = fontAspect
			}
			if flags.Changed("max-size") {
				cfg.MaxSize = maxSize
			}
			if flags.Changed("square") {
				cfg.Square = square
			}

			p, err := preview.LookupPalette(cfg.Palette)
			if err != nil {
				return fmt.Errorf("%w: %v", errUsage, err)
			}
			s, err := a.resolve(&ef)
			if err != nil {
				return err
			}
			src, err := a.loadImage(args[0])
			if err != nil {
				return err
			}

			term := preview.NewTerminal(os.Stdout,
				preview.WithPalette(p),
				preview.WithFontAspect(cfg.FontAspect),
				preview.WithPadding(pad))
			player := preview.NewPlayer(term,
				preview.WithFrameRate(a.cfg.FrameRate),
				preview.WithMaxSize(cfg.MaxSize),
				preview.WithSquare(cfg.Square),
				preview.WithLogger(a.logger))
			if err := player.SetScene(src, s); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			if isatty.IsTerminal(os.Stdin.Fd()) {
				restore, err := preview.RawMode(os.Stdin)
				if err != nil {
					return err
				}
				defer restore()
				go readKeys(ctx, os.Stdin, player, stop, a.logger)
			}

			if err := term.Start(); err != nil {
				return err
			}
			defer term.Close()
			return player.Run(ctx)
		},
	}
	ef.register(cmd)
	cmd.Flags().StringVarP(&palette, "palette", "p", def.Palette, fmt.Sprintf("color palette %q", preview.Palettes()))
	cmd.Flags().Float64Var(&fontAspect, "font-aspect", def.FontAspect, "width/height ratio of a terminal cell")
	cmd.Flags().BoolVar(&pad, "pad", false, "pad output on the left with whitespace")
	cmd.Flags().IntVar(&maxSize, "max-size", def.MaxSize, "maximum width and height of the rendered frames")
	cmd.Flags().BoolVar(&square, "square", def.Square, "render a square canvas of max-size pixels")
	return cmd
}

// readKeys handles key presses until quit is pressed or ctx is done.
func readKeys(ctx context.Context, r io.Reader, player *preview.Player, quit func(), logger *log.Logger) {
	buf := make([]byte, 1)
	for ctx.Err() == nil {
		n, err := r.Read(buf)
		if err != nil {
			quit()
			return
		}
		if n == 0 {
			continue
		}
		switch buf[0] {
		case ' ':
			player.Toggle()
		case 'e', 'E':
			next := fx.KindRotate
			if s := player.Settings(); s != nil {
				next = s.Kind().Next()
			}
			if err := player.SetKind(next); err != nil {
				logger.Warn("switching effect", "effect", next, "err", err)
			}
		case 'q', 'Q', 3:
			quit()
			return
		}
	}
}
