package main

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/gif"
	"io"
	"os"
	"strings"
	"time"

	"github.com/deepteams/webp/animation"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/bmatsuo/img2anim/export"
	"github.com/bmatsuo/img2anim/fx"
)

func (a *app) inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Describe an animated GIF or WebP file",
		Long: `Inspect decodes an animation and prints its size, frame count, delays and
loop count.  GIF files are replayed frame by frame to measure the share of
transparent pixels a viewer shows.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("%w: %v", fx.ErrImageLoad, err)
			}
			defer f.Close()
			r := bufio.NewReader(f)
			head, _ := r.Peek(12)

			var sum *summary
			switch {
			case bytes.HasPrefix(head, []byte("GIF8")):
				sum, err = inspectGIF(r)
			case len(head) == 12 && string(head[:4]) == "RIFF" && string(head[8:]) == "WEBP":
				sum, err = inspectWebP(r)
			default:
				return fmt.Errorf("%w: %s is not an animated GIF or WebP file", fx.ErrUnsupportedFormat, args[0])
			}
			if err != nil {
				return err
			}
			a.logger.Debug("inspected", "path", args[0], "format", sum.format, "frames", sum.frames)
			sum.print(cmd.OutOrStdout())
			return nil
		},
	}
}

type summary struct {
	format      string
	width       int
	height      int
	frames      int
	loopCount   int
	delays      []time.Duration
	transparent float64 // -1 if unknown
}

func inspectGIF(r io.Reader) (*summary, error) {
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fx.ErrImageLoad, err)
	}
	sum := &summary{
		format:    "gif",
		width:     g.Config.Width,
		height:    g.Config.Height,
		frames:    len(g.Image),
		loopCount: g.LoopCount,
	}
	for _, d := range g.Delay {
		sum.delays = append(sum.delays, time.Duration(d)*10*time.Millisecond)
	}
	sum.transparent = transparentShare(export.Replay(g))
	return sum, nil
}

func inspectWebP(r io.Reader) (*summary, error) {
	anim, err := animation.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", fx.ErrImageLoad, err)
	}
	sum := &summary{
		format:      "webp",
		width:       anim.CanvasWidth,
		height:      anim.CanvasHeight,
		frames:      len(anim.Frames),
		loopCount:   anim.LoopCount,
		transparent: -1,
	}
	for _, f := range anim.Frames {
		sum.delays = append(sum.delays, f.Duration)
	}
	return sum, nil
}

// transparentShare returns the fraction of fully transparent pixels over all
// frames.
func transparentShare(frames []*image.RGBA) float64 {
	var n, total int
	for _, m := range frames {
		for i := 3; i < len(m.Pix); i += 4 {
			if m.Pix[i] == 0 {
				n++
			}
			total++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total)
}

// delayRuns collapses consecutive equal delays, as in "30ms×12, 1s".
func delayRuns(delays []time.Duration) string {
	var runs []string
	for i := 0; i < len(delays); {
		j := i
		for j < len(delays) && delays[j] == delays[i] {
			j++
		}
		if n := j - i; n > 1 {
			runs = append(runs, fmt.Sprintf("%v×%d", delays[i], n))
		} else {
			runs = append(runs, delays[i].String())
		}
		i = j
	}
	return strings.Join(runs, ", ")
}

func (s *summary) print(w io.Writer) {
	label := color.New(color.Bold).SprintFunc()
	value := color.New(color.FgCyan).SprintFunc()

	var total time.Duration
	for _, d := range s.delays {
		total += d
	}
	loop := "forever"
	if s.loopCount > 0 {
		loop = fmt.Sprintf("repeat %d", s.loopCount)
	} else if s.loopCount < 0 {
		loop = "once"
	}

	fmt.Fprintf(w, "%s %s\n", label("format:     "), value(s.format))
	fmt.Fprintf(w, "%s %s\n", label("size:       "), value(fmt.Sprintf("%dx%d", s.width, s.height)))
	fmt.Fprintf(w, "%s %s\n", label("frames:     "), value(s.frames))
	fmt.Fprintf(w, "%s %s\n", label("delays:     "), value(delayRuns(s.delays)))
	fmt.Fprintf(w, "%s %s\n", label("duration:   "), value(total))
	fmt.Fprintf(w, "%s %s\n", label("loop:       "), value(loop))
	if s.transparent >= 0 {
		fmt.Fprintf(w, "%s %s\n", label("transparent:"), value(fmt.Sprintf("%.1f%%", 100*s.transparent)))
	}
}
