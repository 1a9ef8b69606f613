package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/agiangrant/glide"
	"github.com/agiangrant/glide/internal/trace"
)

// settlePoll is how often play checks whether the last fling has ended.
const settlePoll = 20 * time.Millisecond

func newPlayCmd(a *app) *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "play <trace.toml>",
		Short: "Feed a trace in real time through a frame loop and print rendered frames",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := trace.Load(args[0])
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
			defer cancel()
			return a.play(ctx, cmd.OutOrStdout(), f)
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "give up after this long")
	return cmd
}

func (a *app) play(ctx context.Context, w io.Writer, f *trace.File) error {
	var base int64
	if len(f.Steps) > 0 {
		base = f.Steps[0].TimeMs
	}
	start := time.Now()
	now := func() int64 { return base + time.Since(start).Milliseconds() }

	lc := glide.DefaultLoopConfig()
	lc.Scroll = a.cfg
	lc.Now = now
	loop := glide.NewLoop(lc)
	loop.OnFrame(func(offset float32) {
		fmt.Fprintf(w, "frame t=%-6d offset=%.2f\n", now(), offset)
	})
	loop.SetExtents(f.Content, f.Viewport)

	g, gctx := errgroup.WithContext(ctx)
	loopCtx, stopLoop := context.WithCancel(gctx)
	defer stopLoop()

	g.Go(func() error {
		return loop.Run(loopCtx)
	})
	var final float32
	g.Go(func() error {
		defer stopLoop()
		if err := feed(gctx, loop, f, start, base); err != nil {
			return err
		}
		offset, err := waitIdle(gctx, loop)
		final = offset
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	stats := loop.Stats()
	a.log.Info("play finished", zap.Uint64("frames", stats.FrameCount), zap.Uint64("flings", stats.Flings))
	_, err := fmt.Fprintf(w, "final offset=%.2f\n", final)
	return err
}

// feed posts each step when its timestamp comes due.
func feed(ctx context.Context, loop *glide.Loop, f *trace.File, start time.Time, base int64) error {
	for _, s := range f.Steps {
		due := start.Add(time.Duration(s.TimeMs-base) * time.Millisecond)
		if d := time.Until(due); d > 0 {
			t := time.NewTimer(d)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}

		switch s.Kind {
		case trace.KindFrame:
			// The loop produces its own frames.
		case trace.KindFling:
			loop.Fling(s.Value)
		case trace.KindContent, trace.KindViewport:
			if err := loop.Do(ctx, func(c *glide.Controller) { trace.Apply(c, s) }); err != nil {
				return err
			}
		default:
			if ev, ok := s.Event(); ok {
				loop.Post(ev)
			}
		}
	}
	return nil
}

// waitIdle returns the offset once the loop has no fling in flight.
func waitIdle(ctx context.Context, loop *glide.Loop) (float32, error) {
	t := time.NewTicker(settlePoll)
	defer t.Stop()
	for {
		var (
			animating bool
			offset    float32
		)
		err := loop.Do(ctx, func(c *glide.Controller) {
			animating = c.Animating()
			offset = c.Offset()
		})
		if err != nil {
			return 0, err
		}
		if !animating {
			return offset, nil
		}
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-t.C:
		}
	}
}
