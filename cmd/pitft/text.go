package main

import (
	"github.com/spf13/cobra"

	"github.com/BeatGlow/pitft"
)

func init() {
	rootCmd.AddCommand(textCmd, imageCmd)
	flags := textCmd.Flags()
	flags.StringVarP(&fontFlag, `font`, `f`, ``, `font family (default: Go)`)
	flags.Float64VarP(&fontSizeFlag, `font-size`, `s`, pitft.DefaultFontSize, `font size in pixels`)
	flags.BoolVarP(&boldFlag, `bold`, `b`, false, `bold font`)
	flags.BoolVar(&centerFlag, `center`, false, `center the text on the position`)
	flags.BoolVar(&rightFlag, `right`, false, `right align the text on the position`)
	flags.Float64VarP(&rotateFlag, `rotate`, `r`, 0, `rotation in degrees, clockwise`)
}

var (
	fontFlag     string
	fontSizeFlag float64
	boldFlag     bool
	centerFlag   bool
	rightFlag    bool
	rotateFlag   float64
)

var textCmd = &cobra.Command{
	Use:   "text <x> <y> <text>",
	Short: "draw text",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error {
			v, err := parseFloats(args[:2])
			if err != nil {
				return err
			}
			return withScreen(func(s *pitft.Screen) error {
				s.SetFont(fontFlag, fontSizeFlag, boldFlag)
				return s.Text(v[0], v[1], args[2], pitft.TextOptions{
					Align:    pitft.AlignFromFlags(centerFlag, rightFlag),
					Rotation: rotateFlag,
				})
			})
		})
	},
}

var imageCmd = &cobra.Command{
	Use:   "image <x> <y> <file.png>",
	Short: "draw a PNG image",
	Args:  cobra.ExactArgs(3),
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error {
			v, err := parseFloats(args[:2])
			if err != nil {
				return err
			}
			return withScreen(func(s *pitft.Screen) error {
				return s.Image(v[0], v[1], args[2])
			})
		})
	},
}
