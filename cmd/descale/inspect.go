package main

import (
	"context"
	"fmt"
	"math"

	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/descale/internal/descale"
	"github.com/samcharles93/descale/internal/filter"
	"github.com/samcharles93/descale/internal/kernel"
)

type coreReport struct {
	SrcDim         int     `json:"src_dim"`
	DstDim         int     `json:"dst_dim"`
	Kernel         string  `json:"kernel"`
	Support        int     `json:"support"`
	Bandwidth      int     `json:"bandwidth"`
	Upscale        bool    `json:"upscale"`
	WeightsColumns int     `json:"weights_columns"`
	MaxRowSpan     int     `json:"max_row_span"`
	DiagonalMin    float64 `json:"diagonal_min,omitempty"`
	DiagonalMax    float64 `json:"diagonal_max,omitempty"`
}

func inspectCmd() *cli.Command {
	var (
		srcDim int64
		dstDim int64
	)

	flags := []cli.Flag{
		&cli.Int64Flag{
			Name:        "src-dim",
			Usage:       "input dimension of the axis",
			Destination: &srcDim,
		},
		&cli.Int64Flag{
			Name:        "dst-dim",
			Usage:       "output dimension of the axis",
			Destination: &dstDim,
		},
	}
	flags = append(flags, commonFilterFlags()...)

	return &cli.Command{
		Name:  "inspect",
		Usage: "Build a single-axis core and print its packed layout",
		Flags: flags,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			applyFilterConfig(cmd, loadConfig())

			mode, err := filter.KernelByName(kernelName)
			if err != nil {
				return err
			}
			border, err := filter.BorderByName(borderName)
			if err != nil {
				return err
			}
			conv, err := parsePostConv(postConv)
			if err != nil {
				return err
			}

			spec := kernel.Spec{Mode: mode, Taps: int(tapsParam), B: bParam, C: cParam}
			core, err := descale.CreateCore(int(srcDim), int(dstDim), descale.Params{
				Kernel:    spec,
				Shift:     srcLeft,
				ActiveDim: srcWidth,
				Blur:      blurParam,
				Border:    border,
				PostConv:  conv,
				Upscale:   upscale,
			})
			if err != nil {
				return err
			}

			report := coreReport{
				SrcDim:         core.SrcDim,
				DstDim:         core.DstDim,
				Kernel:         mode.String(),
				Support:        spec.Support(),
				Bandwidth:      core.Bandwidth,
				Upscale:        core.Upscale(),
				WeightsColumns: core.WeightsColumns(),
			}
			for i, l := range core.LeftIdx() {
				if span := core.RightIdx()[i] - l; span > report.MaxRowSpan {
					report.MaxRowSpan = span
				}
			}
			if diag := core.Diagonal(); len(diag) > 0 {
				lo, hi := math.Inf(1), math.Inf(-1)
				for _, d := range diag {
					lo = math.Min(lo, float64(d))
					hi = math.Max(hi, float64(d))
				}
				report.DiagonalMin = lo
				report.DiagonalMax = hi
			}

			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		},
	}
}
