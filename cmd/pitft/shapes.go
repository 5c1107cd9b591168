package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BeatGlow/pitft"
)

func init() {
	rootCmd.AddCommand(infoCmd, clearCmd, fillCmd, rectCmd, circleCmd, lineCmd, snapshotCmd)
	rectCmd.Flags().Float64Var(&outlineFlag, `outline`, 0, `stroke the outline with this width instead of filling`)
	circleCmd.Flags().Float64Var(&outlineFlag, `outline`, 0, `stroke the outline with this width instead of filling`)
	lineCmd.Flags().Float64VarP(&widthFlag, `width`, `w`, 1, `line width`)
}

var (
	outlineFlag float64
	widthFlag   float64
)

func style() pitft.Style {
	if outlineFlag > 0 {
		return pitft.Outline(outlineFlag)
	}
	return pitft.Filled
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "print the display geometry",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func() (err error) {
			s, err := openScreen()
			if err != nil {
				return err
			}
			defer closeScreen(s, &err)

			g := s.Framebuffer().Geometry()
			fmt.Printf("device:   %s\n", deviceFlag)
			fmt.Printf("id:       %s\n", g.ID)
			fmt.Printf("size:     %dx%d\n", g.Width, g.Height)
			fmt.Printf("depth:    %d bits per pixel\n", g.BitsPerPixel)
			fmt.Printf("stride:   %d bytes\n", g.Stride)
			fmt.Printf("memory:   %d bytes\n", g.Size)
			fmt.Printf("buffered: %t\n", s.Framebuffer().Buffered())
			return nil
		})
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "paint the display black",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error {
			return withScreen(func(s *pitft.Screen) error {
				return s.Clear()
			})
		})
	},
}

var fillCmd = &cobra.Command{
	Use:   "fill",
	Short: "paint the display with the color",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error {
			return withScreen(func(s *pitft.Screen) error {
				return s.Fill()
			})
		})
	},
}

var rectCmd = &cobra.Command{
	Use:   "rect <x> <y> <w> <h>",
	Short: "draw a rectangle",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}
			return withScreen(func(s *pitft.Screen) error {
				return s.Rect(v[0], v[1], v[2], v[3], style())
			})
		})
	},
}

var circleCmd = &cobra.Command{
	Use:   "circle <x> <y> <radius>",
	Short: "draw a circle",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}
			return withScreen(func(s *pitft.Screen) error {
				return s.Circle(v[0], v[1], v[2], style())
			})
		})
	},
}

var lineCmd = &cobra.Command{
	Use:   "line <x0> <y0> <x1> <y1>",
	Short: "draw a line",
	Args:  cobra.ExactArgs(4),
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error {
			v, err := parseFloats(args)
			if err != nil {
				return err
			}
			return withScreen(func(s *pitft.Screen) error {
				return s.Line(v[0], v[1], v[2], v[3], widthFlag)
			})
		})
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot <file.png>",
	Short: "save the display memory as PNG",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		outputFlag = args[0]
		run(func() error {
			return withScreen(func(*pitft.Screen) error { return nil })
		})
	},
}
