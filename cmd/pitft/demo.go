package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/BeatGlow/pitft"
)

func init() {
	rootCmd.AddCommand(demoCmd)
	demoCmd.Flags().IntVarP(&framesFlag, `frames`, `n`, 0, `number of frames to draw (default: until interrupted)`)
	demoCmd.Flags().DurationVar(&intervalFlag, `interval`, 50*time.Millisecond, `time between frames`)
}

var (
	framesFlag   int
	intervalFlag time.Duration
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "animate a test pattern",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()
			return withScreen(func(s *pitft.Screen) error {
				return demo(ctx, s)
			})
		})
	},
}

func demo(ctx context.Context, s *pitft.Screen) error {
	if err := s.Show(true); err != nil {
		return err
	}

	var (
		w, h   = s.Size()
		fw, fh = float64(w), float64(h)
		ticker = time.NewTicker(intervalFlag)
	)
	defer ticker.Stop()

	// Slot 0 holds the background gradient, slot 1 a translucent overlay.
	if _, err := s.SetSolidPattern(1, 1, 1, 1, 0.25); err != nil {
		return err
	}

	fmt.Fprintln(os.Stderr, "hit control-c to stop...")
	for frame := 0; framesFlag <= 0 || frame < framesFlag; frame++ {
		phase := float64(frame) / 40

		// Draw gradient background
		if _, err := s.SetLinearPattern(0, 0, 0, fw, fh); err != nil {
			return err
		}
		for i, c := range [][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} {
			offset := math.Mod(float64(i)/3+phase, 1)
			if err := s.AddColorStop(0, offset, c[0], c[1], c[2], 1); err != nil {
				return err
			}
		}
		s.SelectPattern(0)
		if err := s.Fill(); err != nil {
			return err
		}

		// Draw box around edge
		s.SetColor(1, 1, 1)
		if err := s.Rect(1, 1, fw-2, fh-2, pitft.Outline(2)); err != nil {
			return err
		}

		// Orbiting circle
		r := math.Min(fw, fh) / 4
		cx := fw/2 + r*math.Cos(phase*2*math.Pi)
		cy := fh/2 + r*math.Sin(phase*2*math.Pi)
		s.SelectPattern(1)
		if err := s.Circle(cx, cy, r/2, pitft.Filled); err != nil {
			return err
		}

		s.SetColor(0, 0, 0)
		s.SetFont("", fh/8, true)
		if err := s.Text(fw/2, fh/2, time.Now().Format(time.TimeOnly), pitft.TextOptions{
			Align: pitft.AlignCenter,
		}); err != nil {
			return err
		}

		if err := s.Blit(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}
