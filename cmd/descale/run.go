package main

import (
	"context"
	"errors"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/descale/internal/filter"
)

func runCmd() *cli.Command {
	var (
		inputPath  string
		outputPath string
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "input",
			Aliases:     []string{"i"},
			Usage:       "input image (PNG, TIFF, BMP, JPEG)",
			Destination: &inputPath,
		},
		&cli.StringFlag{
			Name:        "output",
			Aliases:     []string{"o"},
			Usage:       "output image (16-bit PNG)",
			Destination: &outputPath,
		},
	}
	flags = append(flags, commonFilterFlags()...)
	flags = append(flags, commonLogFlags()...)

	return &cli.Command{
		Name:  "run",
		Usage: "Descale (or scale) an image file",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyFilterConfig(cmd, loadConfig())
			log := newLogger()

			if inputPath == "" || outputPath == "" {
				return errors.New("input and output paths are required")
			}
			if dstWidth < 1 || dstHeight < 1 {
				return errors.New("width and height are required")
			}

			src, err := decodeImage(inputPath)
			if err != nil {
				return err
			}

			mode, err := filter.KernelByName(kernelName)
			if err != nil {
				return err
			}
			params, err := filterParams()
			if err != nil {
				return err
			}

			f, err := filter.New(mode, src.Width(), src.Height(), 0, 0, params)
			if err != nil {
				return err
			}
			if f.NoOp() {
				log.Warn("nothing to do; writing input unchanged",
					"width", src.Width(), "height", src.Height())
			}

			start := time.Now()
			dst, err := f.Process(src)
			if err != nil {
				return err
			}
			log.Info("processed image",
				"kernel", kernelName,
				"in", inputPath,
				"out", outputPath,
				"src", [2]int{src.Width(), src.Height()},
				"dst", [2]int{dst.Width(), dst.Height()},
				"elapsed", time.Since(start))

			return encodePNG(outputPath, dst)
		},
	}
}
