package descale

import (
	"math"

	"github.com/samcharles93/descale/internal/kernel"
)

// Border selects how sampling positions outside the image are remapped.
type Border int

const (
	BorderMirror Border = iota
	BorderZero
	BorderRepeat
)

func (b Border) String() string {
	switch b {
	case BorderZero:
		return "zero"
	case BorderRepeat:
		return "repeat"
	}
	return "mirror"
}

// roundHalfup rounds |x| to the nearest integer, halves away from zero, and
// reapplies the sign. The pixel-grid invariant round(x-1) == round(x)-1 holds
// for every x except 0.5, where -0.5 rounds to -1 and 0.5 rounds to 1.
func roundHalfup(x float64) float64 {
	if math.Signbit(x) {
		return -math.Round(-x)
	}
	return math.Round(x)
}

// scalingWeights builds the dense forward resampling operator in double
// precision. Naming follows the forward direction: srcDim is the line being
// sampled, dstDim the line it produces, so for a descale build srcDim is the
// low-res dimension. The returned matrix has dstDim rows of srcDim columns.
//
// Each row is normalised to unit sum before border folding. activeDim is the
// fractional extent of the source actually covered by the resample; blur
// dilates the kernel width.
func scalingWeights(ev *kernel.Evaluator, support, srcDim, dstDim int, shift, activeDim, blur float64, border Border) []float64 {
	weights := make([]float64, dstDim*srcDim)
	width := float64(support) * blur
	taps := 2 * int(math.Ceil(width))

	for i := 0; i < dstDim; i++ {
		pos := (float64(i)+0.5)*activeDim/float64(dstDim) + shift
		beginPos := roundHalfup(pos-width) + 0.5

		total := 0.0
		for j := 0; j < taps; j++ {
			xpos := beginPos + float64(j)
			total += ev.Weight((xpos - pos) / blur)
		}

		for j := 0; j < taps; j++ {
			xpos := beginPos + float64(j)

			var realPos float64
			switch border {
			case BorderZero:
				if xpos < 0 || xpos >= float64(srcDim) {
					continue
				}
				realPos = xpos
			case BorderRepeat:
				realPos = math.Min(math.Max(xpos, 0), float64(srcDim)-0.5)
			default:
				if xpos < 0 {
					realPos = -xpos
				} else if xpos >= float64(srcDim) {
					realPos = math.Min(2*float64(srcDim)-xpos, float64(srcDim)-0.5)
				} else {
					realPos = xpos
				}
			}

			idx := int(math.Floor(realPos))
			if idx < 0 {
				idx = 0
			} else if idx >= srcDim {
				idx = srcDim - 1
			}
			weights[i*srcDim+idx] += ev.Weight((xpos-pos)/blur) / total
		}
	}

	return weights
}

// rowExtents records, per row, the first non-zero column and one past the
// last. Rows that are entirely zero get left == right == 0.
func rowExtents(rows, columns int, m []float64) (left, right []int) {
	left = make([]int, rows)
	right = make([]int, rows)
	for i := 0; i < rows; i++ {
		row := m[i*columns : (i+1)*columns]
		for j := 0; j < columns; j++ {
			if row[j] != 0.0 {
				left[i] = j
				break
			}
		}
		for j := columns - 1; j >= 0; j-- {
			if row[j] != 0.0 {
				right[i] = j + 1
				break
			}
		}
	}
	return left, right
}
