package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samcharles93/descale/internal/descale"
	"github.com/samcharles93/descale/internal/kernel"
)

type registration struct {
	mode    kernel.Mode
	upscale bool
}

// Every kernel is exposed under a descale name and an upscale twin.
var registry = map[string]registration{
	"debilinear":  {kernel.ModeBilinear, false},
	"bilinear":    {kernel.ModeBilinear, true},
	"debicubic":   {kernel.ModeBicubic, false},
	"bicubic":     {kernel.ModeBicubic, true},
	"delanczos":   {kernel.ModeLanczos, false},
	"lanczos":     {kernel.ModeLanczos, true},
	"despline16":  {kernel.ModeSpline16, false},
	"spline16":    {kernel.ModeSpline16, true},
	"despline36":  {kernel.ModeSpline36, false},
	"spline36":    {kernel.ModeSpline36, true},
	"despline64":  {kernel.ModeSpline64, false},
	"spline64":    {kernel.ModeSpline64, true},
	"decustom":    {kernel.ModeCustom, false},
	"scalecustom": {kernel.ModeCustom, true},
}

// Lookup resolves a filter name to its kernel mode and scale direction.
func Lookup(name string) (kernel.Mode, bool, error) {
	r, ok := registry[strings.ToLower(name)]
	if !ok {
		return 0, false, descale.NewKernelError(fmt.Sprintf("unknown filter %q", name))
	}
	return r.mode, r.upscale, nil
}

// Names lists the registered filter names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// KernelByName resolves a bare kernel name (no scale direction) to its mode.
func KernelByName(name string) (kernel.Mode, error) {
	switch strings.ToLower(name) {
	case "bilinear":
		return kernel.ModeBilinear, nil
	case "bicubic":
		return kernel.ModeBicubic, nil
	case "lanczos":
		return kernel.ModeLanczos, nil
	case "spline16":
		return kernel.ModeSpline16, nil
	case "spline36":
		return kernel.ModeSpline36, nil
	case "spline64":
		return kernel.ModeSpline64, nil
	case "custom":
		return kernel.ModeCustom, nil
	}
	return 0, descale.NewKernelError(fmt.Sprintf("unknown kernel %q", name))
}

// BorderByName resolves a border handling name or the plugin's numeric codes.
func BorderByName(name string) (descale.Border, error) {
	switch strings.ToLower(name) {
	case "", "mirror", "0":
		return descale.BorderMirror, nil
	case "zero", "1":
		return descale.BorderZero, nil
	case "repeat", "2":
		return descale.BorderRepeat, nil
	}
	return 0, descale.NewParameterError(fmt.Sprintf("unknown border handling %q", name))
}

// OptByName resolves an optimisation selector.
func OptByName(name string) (descale.Opt, error) {
	switch strings.ToLower(name) {
	case "", "auto", "0":
		return descale.OptAuto, nil
	case "none", "1":
		return descale.OptNone, nil
	case "avx2", "2":
		return descale.OptAVX2, nil
	}
	return 0, descale.NewParameterError(fmt.Sprintf("unknown opt %q", name))
}
