package descale

// dblEpsilon guards the LDL' divisions against zero pivots, which can arise
// under non-trivial shift.
const dblEpsilon = 0x1p-52

// transposeMatrix transposes a rows x columns row-major matrix.
func transposeMatrix(rows int, m []float64) []float64 {
	columns := len(m) / rows
	t := make([]float64, len(m))
	for i := 0; i < rows; i++ {
		for j := 0; j < columns; j++ {
			t[j*rows+i] = m[i*columns+j]
		}
	}
	return t
}

// multiplySparse computes lm * rm where lm is rows x columns with per-row
// non-zero spans [lidx, ridx) and rm is columns x rows. The product is
// symmetric banded with half-bandwidth c, so only entries within the band are
// accumulated.
func multiplySparse(rows, c int, lidx, ridx []int, lm, rm []float64) []float64 {
	columns := len(lm) / rows
	product := make([]float64, rows*rows)

	for i := 0; i < rows; i++ {
		jEnd := i + c
		if jEnd > rows {
			jEnd = rows
		}
		jBegin := i - c + 1
		if jBegin < 0 {
			jBegin = 0
		}
		for j := jBegin; j < jEnd; j++ {
			sum := 0.0
			for k := lidx[i]; k < ridx[i]; k++ {
				sum += lm[i*columns+k] * rm[k*rows+j]
			}
			product[i*rows+j] = sum
		}
	}

	return product
}

// compressSymmetricBanded packs the upper band of a symmetric banded
// rows x rows matrix into rows x c form with packed[i*c+t] = m[i][i+t].
func compressSymmetricBanded(rows, bandwidth int, m []float64) []float64 {
	c := (bandwidth + 1) / 2
	packed := make([]float64, rows*c)
	for i := 0; i < rows; i++ {
		end := i + c
		if end > rows {
			end = rows
		}
		for j := i; j < end; j++ {
			packed[i*c+(j-i)] = m[i*rows+j]
		}
	}
	return packed
}

// uncompressSymmetricBanded expands a packed rows x c upper band back into a
// full rows x rows matrix.
func uncompressSymmetricBanded(rows, bandwidth int, packed []float64) []float64 {
	c := (bandwidth + 1) / 2
	m := make([]float64, rows*rows)
	for i := 0; i < rows; i++ {
		for j := 0; j < c; j++ {
			if i+j < rows {
				m[i*rows+i+j] = packed[i*c+j]
			}
		}
	}
	return m
}

// bandedLDL factorises a symmetric banded matrix in packed upper-band form,
// in place. Afterwards packed[k*c] holds D[k][k] and packed[k*c+j] for j >= 1
// holds L'[k][k+j].
func bandedLDL(rows, bandwidth int, packed []float64) {
	c := (bandwidth + 1) / 2

	for k := 0; k < rows; k++ {
		last := c - 1
		if rows-1-k < last {
			last = rows - 1 - k
		}

		for j := 1; j <= last; j++ {
			d := packed[k*c+j] / (packed[k*c] + dblEpsilon)
			for l := 0; l <= last-j; l++ {
				packed[(k+j)*c+l] -= d * packed[k*c+j+l]
			}
		}

		e := 1.0 / (packed[k*c] + dblEpsilon)
		for j := 1; j < c; j++ {
			packed[k*c+j] *= e
		}
	}
}

// bandedTimesDiagonal scales every strict lower-band entry of a banded lower
// triangular matrix by the diagonal entry of its column, reinstating D into L
// for the solver.
func bandedTimesDiagonal(rows, bandwidth int, m []float64) {
	c := (bandwidth + 1) / 2
	for i := 1; i < rows; i++ {
		start := i - (c - 1)
		if start < 0 {
			start = 0
		}
		for j := start; j < i; j++ {
			m[i*rows+j] *= m[j*rows+j]
		}
	}
}

// extractBands packs the strict lower band of lower, the strict upper band of
// upper, and the guarded inverse diagonal into the solver's float32 layout.
func extractBands(rows, bandwidth int, lower, upper []float64) (lo, up, diag []float32) {
	c := (bandwidth + 1) / 2
	lo = make([]float32, rows*(c-1))
	up = make([]float32, rows*(c-1))
	diag = make([]float32, rows)

	for i := 0; i < rows; i++ {
		start := i - c + 1
		if start < 0 {
			start = 0
		}
		for j := start; j < start+c-1 && j < rows; j++ {
			lo[i*(c-1)+j-start] = float32(lower[i*rows+j])
		}
	}

	for i := 0; i < rows; i++ {
		start := i + c - 1
		if start > rows-1 {
			start = rows - 1
		}
		for j := start; j > i; j-- {
			up[i*(c-1)+c-2+j-start] = float32(upper[i*rows+j])
		}
	}

	for i := 0; i < rows; i++ {
		diag[i] = float32(1.0 / (lower[i*rows+i] + dblEpsilon))
	}

	return lo, up, diag
}

// compressRows packs each row's [lidx, ridx) span of a rows x columns matrix
// into float32 rows of uniform width max(ridx-lidx).
func compressRows(rows int, lidx, ridx []int, m []float64) ([]float32, int) {
	columns := len(m) / rows
	width := 0
	for i := range lidx {
		if w := ridx[i] - lidx[i]; w > width {
			width = w
		}
	}

	packed := make([]float32, rows*width)
	for i := 0; i < rows; i++ {
		for j := 0; j < ridx[i]-lidx[i]; j++ {
			packed[i*width+j] = float32(m[i*columns+lidx[i]+j])
		}
	}
	return packed, width
}
