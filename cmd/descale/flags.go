package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/descale/internal/filter"
	"github.com/samcharles93/descale/internal/logger"
)

var (
	kernelName string
	dstWidth   int64
	dstHeight  int64
	bParam     float64
	cParam     float64
	tapsParam  int64
	blurParam  float64
	borderName string
	optName    string
	srcLeft    float64
	srcTop     float64
	srcWidth   float64
	srcHeight  float64
	postConv   string
	upscale    bool
	force      bool
	forceH     bool
	forceV     bool
	logLevel   string
	logFormat  string
)

func commonFilterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "kernel",
			Aliases:     []string{"k"},
			Usage:       "resampling kernel (bilinear, bicubic, lanczos, spline16, spline36, spline64)",
			Value:       "bilinear",
			Destination: &kernelName,
		},
		&cli.Int64Flag{
			Name:        "width",
			Aliases:     []string{"w"},
			Usage:       "output width",
			Destination: &dstWidth,
		},
		&cli.Int64Flag{
			Name:        "height",
			Aliases:     []string{"H"},
			Usage:       "output height",
			Destination: &dstHeight,
		},
		&cli.Float64Flag{
			Name:        "b",
			Usage:       "bicubic b parameter",
			Value:       0.0,
			Destination: &bParam,
		},
		&cli.Float64Flag{
			Name:        "c",
			Usage:       "bicubic c parameter",
			Value:       0.5,
			Destination: &cParam,
		},
		&cli.Int64Flag{
			Name:        "taps",
			Usage:       "lanczos tap count",
			Value:       3,
			Destination: &tapsParam,
		},
		&cli.Float64Flag{
			Name:        "blur",
			Usage:       "kernel width dilation factor",
			Value:       1.0,
			Destination: &blurParam,
		},
		&cli.StringFlag{
			Name:        "border",
			Usage:       "border handling (mirror, zero, repeat)",
			Value:       "mirror",
			Destination: &borderName,
		},
		&cli.Float64Flag{
			Name:        "src-left",
			Usage:       "sub-pixel shift of the sampled region",
			Destination: &srcLeft,
		},
		&cli.Float64Flag{
			Name:        "src-top",
			Usage:       "sub-pixel vertical shift of the sampled region",
			Destination: &srcTop,
		},
		&cli.Float64Flag{
			Name:        "src-width",
			Usage:       "fractional width of the sampled region",
			Destination: &srcWidth,
		},
		&cli.Float64Flag{
			Name:        "src-height",
			Usage:       "fractional height of the sampled region",
			Destination: &srcHeight,
		},
		&cli.StringFlag{
			Name:        "post-conv",
			Usage:       "comma separated odd-length convolution applied after the solve",
			Destination: &postConv,
		},
		&cli.BoolFlag{
			Name:        "upscale",
			Usage:       "apply the forward operator instead of inverting it",
			Destination: &upscale,
		},
		&cli.BoolFlag{
			Name:        "force",
			Usage:       "process both axes even when they look like no-ops",
			Destination: &force,
		},
		&cli.BoolFlag{
			Name:        "force-h",
			Usage:       "process the horizontal axis even when it looks like a no-op",
			Destination: &forceH,
		},
		&cli.BoolFlag{
			Name:        "force-v",
			Usage:       "process the vertical axis even when it looks like a no-op",
			Destination: &forceV,
		},
		&cli.StringFlag{
			Name:        "opt",
			Usage:       "solver selection (auto, none, avx2)",
			Value:       "auto",
			Destination: &optName,
		},
	}
}

func commonLogFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, text, json)",
			Value:       "pretty",
			Destination: &logFormat,
		},
	}
}

func newLogger() logger.Logger {
	level := logger.ParseLevel(logLevel)
	switch logFormat {
	case "json":
		return logger.JSON(os.Stderr, level)
	case "text":
		return logger.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	default:
		return logger.Pretty(os.Stderr, level)
	}
}

func parsePostConv(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	conv := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return nil, fmt.Errorf("post-conv: %q is not a number", part)
		}
		conv = append(conv, v)
	}
	return conv, nil
}

func filterParams() (filter.Params, error) {
	border, err := filter.BorderByName(borderName)
	if err != nil {
		return filter.Params{}, err
	}
	opt, err := filter.OptByName(optName)
	if err != nil {
		return filter.Params{}, err
	}
	conv, err := parsePostConv(postConv)
	if err != nil {
		return filter.Params{}, err
	}

	return filter.Params{
		Width:     int(dstWidth),
		Height:    int(dstHeight),
		B:         bParam,
		C:         cParam,
		Taps:      int(tapsParam),
		SrcLeft:   srcLeft,
		SrcTop:    srcTop,
		SrcWidth:  srcWidth,
		SrcHeight: srcHeight,
		Blur:      blurParam,
		Border:    border,
		PostConv:  conv,
		Force:     force,
		ForceH:    forceH,
		ForceV:    forceV,
		Opt:       opt,
		Upscale:   upscale,
	}, nil
}
