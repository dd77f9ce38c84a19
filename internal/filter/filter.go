package filter

import (
	"fmt"
	"sync"

	"github.com/samcharles93/descale/internal/descale"
	"github.com/samcharles93/descale/internal/kernel"
	"github.com/samcharles93/descale/internal/plane"
)

// Params is the shared parameter set of every named filter. Width and Height
// are the output dimensions. SrcLeft/SrcTop are sub-pixel shifts of the
// region that was resampled; SrcWidth/SrcHeight its fractional extent
// (0 selects the default for the scale direction). B, C, Taps and
// CustomKernel parameterise the kernel where applicable.
type Params struct {
	Width, Height int

	B, C         float64
	Taps         int
	CustomKernel kernel.Func

	SrcLeft, SrcTop      float64
	SrcWidth, SrcHeight  float64
	Blur                 float64
	Border               descale.Border
	PostConv             []float64
	Force, ForceH, ForceV bool
	Opt                  descale.Opt
	Upscale              bool
}

// Filter inverts (or applies) a separable resample on whole frames. Cores are
// built lazily on first use and shared by all subsequent and concurrent
// Process calls.
type Filter struct {
	mode       kernel.Mode
	params     Params
	srcW, srcH int
	subW, subH int

	processH, processV bool
	api                descale.API

	mu    sync.Mutex
	built bool
	// Index 0 holds the full-resolution core, index 1 the subsampled one.
	coreH [2]*descale.Core
	coreV [2]*descale.Core
}

// New validates the parameter set against the input geometry and returns a
// filter. srcW and srcH are the input frame dimensions; subW and subH the
// log2 chroma subsampling of frames that will be processed.
func New(mode kernel.Mode, srcW, srcH, subW, subH int, p Params) (*Filter, error) {
	if p.Width < 1 || p.Height < 1 {
		return nil, descale.NewShapeError("output dimensions must be greater than 0")
	}
	if p.Width%(1<<subW) != 0 {
		return nil, descale.NewShapeError("output width and subsampling are not compatible")
	}
	if p.Height%(1<<subH) != 0 {
		return nil, descale.NewShapeError("output height and subsampling are not compatible")
	}
	if !p.Upscale && (p.Width > srcW || p.Height > srcH) {
		return nil, descale.NewShapeError("output dimension must be less than or equal to input dimension")
	}
	if p.Upscale && (p.Width < srcW || p.Height < srcH) {
		return nil, descale.NewShapeError("output dimension must be greater than or equal to input dimension")
	}

	switch mode {
	case kernel.ModeLanczos, kernel.ModeCustom:
		if p.Taps < 1 {
			return nil, descale.NewParameterError("taps must be greater than 0")
		}
	case kernel.ModeBilinear, kernel.ModeBicubic, kernel.ModeSpline16, kernel.ModeSpline36, kernel.ModeSpline64:
	default:
		return nil, descale.NewKernelError(fmt.Sprintf("unknown kernel %q", mode))
	}
	if mode == kernel.ModeCustom && p.CustomKernel == nil {
		return nil, descale.NewKernelError("custom kernel function is required")
	}

	f := &Filter{
		mode:   mode,
		params: p,
		srcW:   srcW,
		srcH:   srcH,
		subW:   subW,
		subH:   subH,
		api:    descale.NewAPI(p.Opt),
	}

	activeW, activeH := p.SrcWidth, p.SrcHeight
	if activeW == 0 {
		if p.Upscale {
			activeW = float64(srcW)
		} else {
			activeW = float64(p.Width)
		}
	}
	if activeH == 0 {
		if p.Upscale {
			activeH = float64(srcH)
		} else {
			activeH = float64(p.Height)
		}
	}

	f.processH = p.Width != srcW || p.SrcLeft != 0 || activeW != float64(p.Width) || p.Force || p.ForceH
	f.processV = p.Height != srcH || p.SrcTop != 0 || activeH != float64(p.Height) || p.Force || p.ForceV

	// Validate the core parameters for both axes eagerly so construction-time
	// errors are reported here, not on the first frame.
	if _, _, err := descale.ValidateParams(srcW, p.Width, f.coreParams(p.SrcLeft, p.SrcWidth)); err != nil {
		return nil, err
	}
	if _, _, err := descale.ValidateParams(srcH, p.Height, f.coreParams(p.SrcTop, p.SrcHeight)); err != nil {
		return nil, err
	}

	return f, nil
}

// NoOp reports whether the filter would pass frames through unchanged.
func (f *Filter) NoOp() bool { return !f.processH && !f.processV }

func (f *Filter) kernelSpec() kernel.Spec {
	return kernel.Spec{
		Mode:   f.mode,
		Taps:   f.params.Taps,
		B:      f.params.B,
		C:      f.params.C,
		Custom: f.params.CustomKernel,
	}
}

func (f *Filter) coreParams(shift, active float64) descale.Params {
	return descale.Params{
		Kernel:    f.kernelSpec(),
		Shift:     shift,
		ActiveDim: active,
		Blur:      f.params.Blur,
		Border:    f.params.Border,
		PostConv:  f.params.PostConv,
		Upscale:   f.params.Upscale,
	}
}

// buildCore constructs the core for one axis at a subsampling level. Shifts
// and active extents scale with the subsampling factor.
func (f *Filter) buildCore(dir descale.Dir, sub int) (*descale.Core, error) {
	var srcDim, dstDim int
	var shift, active float64

	if dir == descale.DirHorizontal {
		srcDim, dstDim = f.srcW>>sub, f.params.Width>>sub
		shift = f.params.SrcLeft
		active = f.params.SrcWidth
	} else {
		srcDim, dstDim = f.srcH>>sub, f.params.Height>>sub
		shift = f.params.SrcTop
		active = f.params.SrcHeight
	}
	if active != 0 {
		active /= float64(int(1) << sub)
	}
	shift /= float64(int(1) << sub)

	return f.api.CreateCore(srcDim, dstDim, f.coreParams(shift, active))
}

// build constructs and publishes all cores once. The first caller does the
// work under the lock; late arrivals wait and read the published cores.
func (f *Filter) build() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.built {
		return nil
	}

	subs := []int{0}
	if f.subW > 0 || f.subH > 0 {
		subs = append(subs, 1)
	}
	for _, s := range subs {
		hs, vs := 0, 0
		if s == 1 {
			hs, vs = f.subW, f.subH
		}
		if f.processH {
			core, err := f.buildCore(descale.DirHorizontal, hs)
			if err != nil {
				return err
			}
			f.coreH[s] = core
		}
		if f.processV {
			core, err := f.buildCore(descale.DirVertical, vs)
			if err != nil {
				return err
			}
			f.coreV[s] = core
		}
	}

	f.built = true
	return nil
}

// Process resamples one frame. The input frame is read-only; the returned
// frame is freshly allocated. If the filter is a no-op the input frame is
// returned as is.
func (f *Filter) Process(src *plane.Frame) (*plane.Frame, error) {
	if f.NoOp() {
		return src, nil
	}
	if src.Width() != f.srcW || src.Height() != f.srcH {
		return nil, descale.NewShapeError(fmt.Sprintf("frame is %dx%d, filter expects %dx%d", src.Width(), src.Height(), f.srcW, f.srcH))
	}
	if err := f.build(); err != nil {
		return nil, err
	}

	dst := plane.NewFrame(f.params.Width, f.params.Height, len(src.Planes), f.subW, f.subH)

	for i := range src.Planes {
		sp := &src.Planes[i]
		dp := &dst.Planes[i]
		sub := 0
		if i > 0 && (f.subW > 0 || f.subH > 0) {
			sub = 1
		}

		switch {
		case f.processH && f.processV:
			inter := plane.New(dp.W, sp.H)
			f.api.ProcessVectors(f.coreH[sub], descale.DirHorizontal, sp.H, sp.Stride, inter.Stride, sp.Pix, inter.Pix)
			f.api.ProcessVectors(f.coreV[sub], descale.DirVertical, dp.W, inter.Stride, dp.Stride, inter.Pix, dp.Pix)
		case f.processH:
			f.api.ProcessVectors(f.coreH[sub], descale.DirHorizontal, sp.H, sp.Stride, dp.Stride, sp.Pix, dp.Pix)
		case f.processV:
			f.api.ProcessVectors(f.coreV[sub], descale.DirVertical, sp.W, sp.Stride, dp.Stride, sp.Pix, dp.Pix)
		}
	}

	return dst, nil
}
