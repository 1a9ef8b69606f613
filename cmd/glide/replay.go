package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/agiangrant/glide"
	"github.com/agiangrant/glide/internal/trace"
)

// maxSettleFrames bounds --settle so a misconfigured fling cannot spin forever.
const maxSettleFrames = 100000

func newReplayCmd(a *app) *cobra.Command {
	var (
		settle  bool
		frameMs int64
	)
	cmd := &cobra.Command{
		Use:   "replay <trace.toml>",
		Short: "Replay a trace synchronously and print the offset after each step",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := trace.Load(args[0])
			if err != nil {
				return err
			}
			return a.replay(cmd.OutOrStdout(), f, settle, frameMs)
		},
	}
	cmd.Flags().BoolVar(&settle, "settle", false, "keep ticking after the last step until the fling ends")
	cmd.Flags().Int64Var(&frameMs, "frame-ms", 16, "tick interval used by --settle")
	return cmd
}

func (a *app) replay(w io.Writer, f *trace.File, settle bool, frameMs int64) error {
	c := glide.NewController(a.cfg)

	var lastTime int64
	var werr error
	trace.Replay(c, f, func(i int, s trace.Step, offset float32) {
		lastTime = s.TimeMs
		if werr == nil {
			_, werr = fmt.Fprintf(w, "%4d %-12s t=%-6d offset=%.2f\n", i, s.Kind, s.TimeMs, offset)
		}
	})
	if werr != nil {
		return werr
	}

	if settle {
		if frameMs <= 0 {
			return fmt.Errorf("frame-ms must be positive, got %d", frameMs)
		}
		frames := 0
		for c.Animating() && frames < maxSettleFrames {
			lastTime += frameMs
			c.OnFrameTick(lastTime)
			frames++
		}
		a.log.Debug("settled", zap.Int("frames", frames), zap.Bool("animating", c.Animating()))
	}

	r := c.Range()
	_, err := fmt.Fprintf(w, "final offset=%.2f range=[%.2f, %.2f]\n", c.Offset(), r.Min, r.Max)
	return err
}
