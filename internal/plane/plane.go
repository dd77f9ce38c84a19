package plane

// Plane is a single channel of float32 samples in row-major layout.
//
// Stride is the number of samples between the starts of two consecutive rows
// and is at least W. Plane performs no bounds checking beyond Go's slice
// semantics.
type Plane struct {
	W, H   int
	Stride int
	Pix    []float32
}

// New allocates a zero-initialised plane with stride equal to the width.
func New(w, h int) Plane {
	if w < 0 || h < 0 {
		panic("negative plane dimension")
	}
	return Plane{
		W:      w,
		H:      h,
		Stride: w,
		Pix:    make([]float32, w*h),
	}
}

// FromData wraps existing samples as a plane. It checks that the data length
// matches w*h.
func FromData(w, h int, pix []float32) Plane {
	if w*h != len(pix) {
		panic("pixel data length mismatch")
	}
	return Plane{
		W:      w,
		H:      h,
		Stride: w,
		Pix:    pix,
	}
}

// Row returns the samples of row y, aliasing the plane's storage.
func (p Plane) Row(y int) []float32 {
	return p.Pix[y*p.Stride : y*p.Stride+p.W]
}

// At returns the sample at (x, y).
func (p Plane) At(x, y int) float32 {
	return p.Pix[y*p.Stride+x]
}

// Set writes the sample at (x, y).
func (p *Plane) Set(x, y int, v float32) {
	p.Pix[y*p.Stride+x] = v
}
