// Package channel implements the rate-1/2 (2,1) convolutional channel code
// used by the TETRAPOL downlink (PAS 0001-2 §6.1.2 / §6.2.2). The frame
// decoder in internal/decoder calls Decode twice per frame: once over the
// first 52 coded bits (res_len 26) and once over the remaining 100 coded
// bits (res_len 50), per §4.2 step 4.
package channel

// Decode runs the dual-solution (2,1) decoder over a 2*resLen-bit coded
// stream, indexed modulo 2*resLen as specified. res is the primary decode
// (solution A); err[i] is 1 wherever the redundant solution (solution B)
// disagrees with it. errs is the sum of err, a soft quality indicator only
// -- the reference keeps no mechanism to actually correct on disagreement.
func Decode(coded []uint8, resLen int) (res []uint8, errBits []uint8, errs int) {
	n := 2 * resLen
	get := func(idx int) uint8 {
		return coded[((idx%n)+n)%n]
	}

	res = make([]uint8, resLen)
	errBits = make([]uint8, resLen)
	for i := 0; i < resLen; i++ {
		res[i] = get(2*i+2) ^ get(2*i+3)
		alt := get(2*i+5) ^ get(2*i+6) ^ get(2*i+7)
		e := alt ^ res[i]
		errBits[i] = e
		errs += int(e)
	}
	return res, errBits, errs
}

// Encode is the inverse of Decode with errs guaranteed to be zero: it
// solves, once per resLen via Gaussian elimination over GF(2), the linear
// system that makes both the primary and redundant decode equations agree
// with the given logical bits. The reference implementation is
// receive-only; Encode exists so this package's round-trip property
// (encode then decode reproduces the input with zero errors, PAS 0001-2
// testable property) has an encoder to pair with Decode.
func Encode(res []uint8) []uint8 {
	resLen := len(res)
	solver := solverFor(resLen)
	return solver.solve(res)
}

// gf2Solver solves a fixed 2*resLen x 2*resLen linear system over GF(2) by
// Gaussian elimination, caching the row-reduced form so repeated calls with
// different res vectors do not repeat the elimination.
type gf2Solver struct {
	resLen int
	n      int
	// Each reduced row of the eliminated system solves for one unknown
	// x[col]; its right-hand side is the XOR of a set of logical bit
	// positions i (every original "A" and "B" equation has right-hand side
	// res[i] for its own i).
	pivotCol []int   // pivotCol[row] = the unknown column that row solves for
	rowRHS   [][]int // rowRHS[row] is the list of logical-bit indices XORed for the RHS
}

var solverCache = map[int]*gf2Solver{}

func solverFor(resLen int) *gf2Solver {
	if s, ok := solverCache[resLen]; ok {
		return s
	}
	s := newGF2Solver(resLen)
	solverCache[resLen] = s
	return s
}

func newGF2Solver(resLen int) *gf2Solver {
	n := 2 * resLen
	// Build the augmented system: rows are equations, columns are the n
	// unknowns x[0..n-1] plus a symbolic RHS expressed as a set of logical
	// bit indices (each equation's RHS is exactly {i} for one i).
	type row struct {
		mask []uint8 // length n, 0/1 per unknown
		rhs  map[int]bool
	}
	get := func(idx int) int { return ((idx % n) + n) % n }

	rows := make([]row, 0, n)
	for i := 0; i < resLen; i++ {
		m := make([]uint8, n)
		m[get(2*i+2)] ^= 1
		m[get(2*i+3)] ^= 1
		rows = append(rows, row{mask: m, rhs: map[int]bool{i: true}})
	}
	for i := 0; i < resLen; i++ {
		m := make([]uint8, n)
		m[get(2*i+5)] ^= 1
		m[get(2*i+6)] ^= 1
		m[get(2*i+7)] ^= 1
		rows = append(rows, row{mask: m, rhs: map[int]bool{i: true}})
	}

	// Gaussian elimination over GF(2), tracking the symbolic RHS set
	// alongside each row.
	pivotCol := make([]int, 0, n)
	rank := 0
	for col := 0; col < n && rank < len(rows); col++ {
		pivot := -1
		for r := rank; r < len(rows); r++ {
			if rows[r].mask[col] == 1 {
				pivot = r
				break
			}
		}
		if pivot == -1 {
			continue
		}
		rows[rank], rows[pivot] = rows[pivot], rows[rank]
		for r := 0; r < len(rows); r++ {
			if r != rank && rows[r].mask[col] == 1 {
				for c := 0; c < n; c++ {
					rows[r].mask[c] ^= rows[rank].mask[c]
				}
				for k := range rows[rank].rhs {
					if rows[r].rhs[k] {
						delete(rows[r].rhs, k)
					} else {
						rows[r].rhs[k] = true
					}
				}
			}
		}
		pivotCol = append(pivotCol, col)
		rank++
	}

	s := &gf2Solver{resLen: resLen, n: n}
	s.pivotCol = pivotCol
	s.rowRHS = make([][]int, rank)
	for r := 0; r < rank; r++ {
		idxs := make([]int, 0, len(rows[r].rhs))
		for k := range rows[r].rhs {
			idxs = append(idxs, k)
		}
		s.rowRHS[r] = idxs
	}
	return s
}

func (s *gf2Solver) solve(res []uint8) []uint8 {
	x := make([]uint8, s.n)
	for row, col := range s.pivotCol {
		var v uint8
		for _, i := range s.rowRHS[row] {
			v ^= res[i]
		}
		x[col] = v
	}
	return x
}
