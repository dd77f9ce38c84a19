package descale

import (
	"fmt"

	"github.com/samcharles93/descale/internal/kernel"
)

// Dir selects the axis a solve runs along.
type Dir int

const (
	DirHorizontal Dir = iota
	DirVertical
)

// Params carries everything needed to build a core besides the dimensions.
//
// ActiveDim is the fractional source extent covered by the resample being
// inverted; 0 selects the default (the low-res dimension when descaling, the
// input dimension when upscaling). Blur dilates the kernel width; 0 selects
// 1. PostConv, when non-empty, is an odd-length convolution applied to each
// solved vector.
type Params struct {
	Kernel    kernel.Spec
	Shift     float64
	ActiveDim float64
	Blur      float64
	Border    Border
	PostConv  []float64
	Upscale   bool
}

// Core is the immutable per-axis solver state. A core is built once per
// parameter tuple and may be shared by any number of concurrent solves; see
// ProcessVectors.
type Core struct {
	SrcDim    int
	DstDim    int
	Bandwidth int

	// Row-packed A' for descale cores, row-packed A for upscale cores.
	weights        []float32
	weightsColumns int
	leftIdx        []int
	rightIdx       []int

	// Packed LDL' factors; nil for upscale cores.
	lower    []float32
	upper    []float32
	diagonal []float32

	postConv []float32
	upscale  bool
}

// ValidateParams checks the parameter set against the dimensions without
// building anything. It returns the kernel support and the effective blur on
// success.
func ValidateParams(srcDim, dstDim int, p Params) (support int, blur float64, err error) {
	if dstDim < 1 {
		return 0, 0, NewShapeError("output dimension must be greater than 0")
	}
	if srcDim < 1 {
		return 0, 0, NewShapeError("input dimension must be greater than 0")
	}
	if !p.Upscale && dstDim > srcDim {
		return 0, 0, NewShapeError(fmt.Sprintf("output dimension %d exceeds input dimension %d", dstDim, srcDim))
	}
	if p.Upscale && dstDim < srcDim {
		return 0, 0, NewShapeError(fmt.Sprintf("output dimension %d is below input dimension %d", dstDim, srcDim))
	}

	switch p.Kernel.Mode {
	case kernel.ModeBilinear, kernel.ModeBicubic, kernel.ModeSpline16, kernel.ModeSpline36, kernel.ModeSpline64:
	case kernel.ModeLanczos:
		if p.Kernel.Taps < 1 {
			return 0, 0, NewParameterError("taps must be greater than 0")
		}
	case kernel.ModeCustom:
		if p.Kernel.Custom == nil {
			return 0, 0, NewKernelError("custom kernel function is nil")
		}
		if p.Kernel.Taps < 1 {
			return 0, 0, NewParameterError("taps must be greater than 0")
		}
	default:
		return 0, 0, NewKernelError(fmt.Sprintf("unknown kernel mode %d", int(p.Kernel.Mode)))
	}
	support = p.Kernel.Support()

	blur = p.Blur
	if blur == 0 {
		blur = 1.0
	}
	minDim := srcDim
	if dstDim < minDim {
		minDim = dstDim
	}
	if blur <= 0 || blur >= float64(minDim) || blur < 1.0/float64(support) {
		return 0, 0, NewParameterError(fmt.Sprintf("blur %v is out of bounds", blur))
	}

	if len(p.PostConv) > 0 {
		if len(p.PostConv)%2 != 1 {
			return 0, 0, NewParameterError("post-convolution kernel must have odd length")
		}
		if len(p.PostConv) > 2*dstDim+1 {
			return 0, 0, NewParameterError("post-convolution kernel exceeds output dimension")
		}
	}

	return support, blur, nil
}

// CreateCore builds the solver state for one axis. srcDim is the dimension of
// the input vectors and dstDim the dimension of the output vectors, so
// dstDim <= srcDim when descaling and srcDim <= dstDim when upscaling.
func CreateCore(srcDim, dstDim int, p Params) (*Core, error) {
	support, blur, err := ValidateParams(srcDim, dstDim, p)
	if err != nil {
		return nil, err
	}

	// The forward resample runs low -> high regardless of which direction
	// this core solves.
	low, high := dstDim, srcDim
	if p.Upscale {
		low, high = srcDim, dstDim
	}
	active := p.ActiveDim
	if active == 0 {
		active = float64(low)
	}

	ev := kernel.NewEvaluator(p.Kernel)
	forward := scalingWeights(ev, support, low, high, p.Shift, active, blur, p.Border)
	if ev.NonNumeric() {
		return nil, NewKernelError("custom kernel returned a non-numeric value")
	}

	core := &Core{
		SrcDim:    srcDim,
		DstDim:    dstDim,
		Bandwidth: support*4 - 1,
		upscale:   p.Upscale,
	}
	for _, v := range p.PostConv {
		core.postConv = append(core.postConv, float32(v))
	}

	if p.Upscale {
		// Forward application needs no factorisation; the rows of A are the
		// solver weights directly.
		core.leftIdx, core.rightIdx = rowExtents(high, low, forward)
		core.weights, core.weightsColumns = compressRows(high, core.leftIdx, core.rightIdx, forward)
		return core, nil
	}

	n := dstDim
	c := (core.Bandwidth + 1) / 2

	transposed := transposeMatrix(high, forward)
	core.leftIdx, core.rightIdx = rowExtents(n, high, transposed)

	normal := multiplySparse(n, c, core.leftIdx, core.rightIdx, transposed, forward)

	packed := compressSymmetricBanded(n, core.Bandwidth, normal)
	bandedLDL(n, core.Bandwidth, packed)
	upper := uncompressSymmetricBanded(n, core.Bandwidth, packed)
	lower := transposeMatrix(n, upper)
	bandedTimesDiagonal(n, core.Bandwidth, lower)

	core.lower, core.upper, core.diagonal = extractBands(n, core.Bandwidth, lower, upper)
	core.weights, core.weightsColumns = compressRows(n, core.leftIdx, core.rightIdx, transposed)

	return core, nil
}

// Upscale reports whether the core applies the forward operator instead of
// solving the normal equations.
func (c *Core) Upscale() bool { return c.upscale }

// LeftIdx returns the per-row start of the packed weight spans.
func (c *Core) LeftIdx() []int { return c.leftIdx }

// RightIdx returns the per-row end of the packed weight spans.
func (c *Core) RightIdx() []int { return c.rightIdx }

// Diagonal returns the guarded inverse diagonal of the factorisation, or nil
// for upscale cores.
func (c *Core) Diagonal() []float32 { return c.diagonal }

// WeightsColumns returns the uniform packed row width of the solver weights.
func (c *Core) WeightsColumns() int { return c.weightsColumns }
