package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bmatsuo/img2anim/config"
	"github.com/bmatsuo/img2anim/fx"
)

func (a *app) timelineCmd() *cobra.Command {
	var ef effectFlags
	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Show the frame count, delay and settings of an effect",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.resolve(&ef)
			if err != nil {
				return err
			}
			tl, err := fx.DeriveTimeline(s, a.cfg.FrameRate)
			if err != nil {
				return err
			}
			return printTimeline(cmd.OutOrStdout(), s, tl, a.cfg.FrameRate)
		},
	}
	ef.register(cmd)
	return cmd
}

func printTimeline(w io.Writer, s fx.Settings, tl fx.Timeline, rate int) error {
	label := color.New(color.Bold).SprintFunc()
	value := color.New(color.FgCyan).SprintFunc()

	fmt.Fprintf(w, "%s %s\n", label("effect:  "), value(s.Kind()))
	fmt.Fprintf(w, "%s %s\n", label("frames:  "), value(tl.Frames))
	fmt.Fprintf(w, "%s %s\n", label("delay:   "), value(tl.Delay()))
	fmt.Fprintf(w, "%s %s\n", label("duration:"), value(tl.Duration()))
	if stamp, ok := s.(fx.StampSettings); ok {
		ph := fx.PhasesOf(stamp, rate)
		fmt.Fprintf(w, "%s empty %s, descent %s, bounce %s, hold %s\n", label("phases:  "),
			value(ph.Empty), value(ph.Descent), value(ph.Bounce), value(ph.Hold))
	}

	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%s %s\n", label("settings:"), color.New(color.Faint).Sprint(strings.Join(config.Keys(s), ", ")))
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		fmt.Fprintf(w, "  %s\n", line)
	}
	return nil
}
