package descale

// ProcessVectors applies the core to count parallel vectors using the
// reference scalar path. For DirHorizontal each vector is a contiguous row;
// for DirVertical each vector is a column and strides give the distance
// between rows. Strides are in samples. The core is read-only here, so any
// number of goroutines may process vectors on the same core concurrently as
// long as their destination buffers are disjoint.
func ProcessVectors(core *Core, dir Dir, count, srcStride, dstStride int, srcp, dstp []float32) {
	var scratch []float32
	if len(core.postConv) > 0 {
		scratch = make([]float32, core.DstDim)
	}

	if dir == DirHorizontal {
		for v := 0; v < count; v++ {
			core.applyVector(srcp[v*srcStride:], 1, dstp[v*dstStride:], 1, scratch)
		}
		return
	}
	for v := 0; v < count; v++ {
		core.applyVector(srcp[v:], srcStride, dstp[v:], dstStride, scratch)
	}
}

func (c *Core) applyVector(src []float32, sstep int, dst []float32, dstep int, scratch []float32) {
	if c.upscale {
		c.scaleVector(src, sstep, dst, dstep)
	} else {
		c.solveVector(src, sstep, dst, dstep)
	}
	if len(c.postConv) > 0 {
		c.postConvolve(dst, dstep, scratch)
	}
}

// solveVector solves A'A x = A'b for one vector. The destination doubles as
// the working buffer; temporaries are stack scalars only.
func (c *Core) solveVector(src []float32, sstep int, dst []float32, dstep int) {
	n := c.DstDim
	cc := (c.Bandwidth + 1) / 2
	wc := c.weightsColumns

	// Solve L D y = A' b.
	for j := 0; j < n; j++ {
		left := c.leftIdx[j]
		var sum float32
		for k := left; k < c.rightIdx[j]; k++ {
			sum += c.weights[j*wc+k-left] * src[k*sstep]
		}

		start := j - cc + 1
		if start < 0 {
			start = 0
		}
		var lsum float32
		for k := start; k < j; k++ {
			lsum += c.lower[j*(cc-1)+k-start] * dst[k*dstep]
		}

		dst[j*dstep] = (sum - lsum) * c.diagonal[j]
	}

	// Solve L' x = y.
	for j := n - 2; j >= 0; j-- {
		start := j + cc - 1
		if start > n-1 {
			start = n - 1
		}
		var sum float32
		for k := start; k > j; k-- {
			sum += c.upper[j*(cc-1)+k-start+cc-2] * dst[k*dstep]
		}
		dst[j*dstep] -= sum
	}
}

// scaleVector applies the forward operator A to one vector.
func (c *Core) scaleVector(src []float32, sstep int, dst []float32, dstep int) {
	wc := c.weightsColumns
	for j := 0; j < c.DstDim; j++ {
		left := c.leftIdx[j]
		var sum float32
		for k := left; k < c.rightIdx[j]; k++ {
			sum += c.weights[j*wc+k-left] * src[k*sstep]
		}
		dst[j*dstep] = sum
	}
}

// postConvolve convolves the solved vector with the post-convolution kernel,
// centred, folding out-of-range taps with the same half-sample mirror the
// weight builder uses.
func (c *Core) postConvolve(dst []float32, step int, scratch []float32) {
	n := c.DstDim
	half := len(c.postConv) / 2

	for i := 0; i < n; i++ {
		scratch[i] = dst[i*step]
	}
	for i := 0; i < n; i++ {
		var sum float32
		for t, w := range c.postConv {
			k := i + t - half
			if k < 0 {
				k = -k - 1
			}
			if k > n-1 {
				k = 2*n - 1 - k
			}
			if k < 0 {
				k = 0
			} else if k > n-1 {
				k = n - 1
			}
			sum += w * scratch[k]
		}
		dst[i*step] = sum
	}
}

// processVectorsBlocked is the optimised path selected by the AVX2 capable
// dispatch. Vertical solves run four columns per pass so the banded loops
// walk each cache line once; per-column arithmetic order is identical to the
// reference path.
func processVectorsBlocked(core *Core, dir Dir, count, srcStride, dstStride int, srcp, dstp []float32) {
	if dir == DirHorizontal || core.upscale {
		ProcessVectors(core, dir, count, srcStride, dstStride, srcp, dstp)
		return
	}

	var scratch []float32
	if len(core.postConv) > 0 {
		scratch = make([]float32, core.DstDim)
	}

	v := 0
	for ; v+4 <= count; v += 4 {
		core.solveVectors4(srcp[v:], srcStride, dstp[v:], dstStride)
		if len(core.postConv) > 0 {
			for lane := 0; lane < 4; lane++ {
				core.postConvolve(dstp[v+lane:], dstStride, scratch)
			}
		}
	}
	for ; v < count; v++ {
		core.applyVector(srcp[v:], srcStride, dstp[v:], dstStride, scratch)
	}
}

// solveVectors4 solves four adjacent columns in lockstep.
func (c *Core) solveVectors4(src []float32, sstep int, dst []float32, dstep int) {
	n := c.DstDim
	cc := (c.Bandwidth + 1) / 2
	wc := c.weightsColumns

	for j := 0; j < n; j++ {
		left := c.leftIdx[j]
		var s0, s1, s2, s3 float32
		for k := left; k < c.rightIdx[j]; k++ {
			w := c.weights[j*wc+k-left]
			o := k * sstep
			s0 += w * src[o]
			s1 += w * src[o+1]
			s2 += w * src[o+2]
			s3 += w * src[o+3]
		}

		start := j - cc + 1
		if start < 0 {
			start = 0
		}
		var l0, l1, l2, l3 float32
		for k := start; k < j; k++ {
			w := c.lower[j*(cc-1)+k-start]
			o := k * dstep
			l0 += w * dst[o]
			l1 += w * dst[o+1]
			l2 += w * dst[o+2]
			l3 += w * dst[o+3]
		}

		d := c.diagonal[j]
		o := j * dstep
		dst[o] = (s0 - l0) * d
		dst[o+1] = (s1 - l1) * d
		dst[o+2] = (s2 - l2) * d
		dst[o+3] = (s3 - l3) * d
	}

	for j := n - 2; j >= 0; j-- {
		start := j + cc - 1
		if start > n-1 {
			start = n - 1
		}
		var s0, s1, s2, s3 float32
		for k := start; k > j; k-- {
			w := c.upper[j*(cc-1)+k-start+cc-2]
			o := k * dstep
			s0 += w * dst[o]
			s1 += w * dst[o+1]
			s2 += w * dst[o+2]
			s3 += w * dst[o+3]
		}
		o := j * dstep
		dst[o] -= s0
		dst[o+1] -= s1
		dst[o+2] -= s2
		dst[o+3] -= s3
	}
}
