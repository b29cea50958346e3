package ft8

// LDPCDecode decodes a 174-bit codeword given as log-likelihood ratios
// (positive favors bit 0) using sum-product belief propagation, running at
// most maxIters iterations. It returns the 174 hard-decision plain bits of the
// last iteration run and the fewest failing parity checks seen in any
// iteration (0 means the returned bits are a clean decode).
func LDPCDecode(llr []float32, maxIters int) ([]uint8, int) {
	var tov [LDPCN][3]float32 // variable -> check messages
	var toc [LDPCM][]float32  // check -> variable messages, positional

	for m := 0; m < LDPCM; m++ {
		toc[m] = make([]float32, ldpcNumRows[m])
	}

	plain := make([]uint8, LDPCN)
	minErrors := LDPCM

	for iter := 0; iter < maxIters; iter++ {
		plainSum := 0
		for n := 0; n < LDPCN; n++ {
			sum := llr[n] + tov[n][0] + tov[n][1] + tov[n][2]
			if sum < 0 {
				plain[n] = 1
			} else {
				plain[n] = 0
			}
			plainSum += int(plain[n])
		}

		if plainSum == 0 {
			// the all-zeros codeword is never a valid FT8 transmission
			break
		}

		errors := ldpcCheck(plain)
		if errors < minErrors {
			minErrors = errors
			if errors == 0 {
				break
			}
		}

		for m := 0; m < LDPCM; m++ {
			for nIdx, n := range ldpcNm[m] {
				Tnm := llr[n]
				for mIdx, mm := range ldpcMn[n] {
					if mm != m {
						Tnm += tov[n][mIdx]
					}
				}
				toc[m][nIdx] = fastTanh(Tnm / 2.0)
			}
		}

		for n := 0; n < LDPCN; n++ {
			for mIdx, m := range ldpcMn[n] {
				Tmn := float32(1.0)
				for nIdx, nn := range ldpcNm[m] {
					if nn != n {
						Tmn *= toc[m][nIdx]
					}
				}
				tov[n][mIdx] = 2.0 * fastAtanh(Tmn)
			}
		}
	}

	return plain, minErrors
}

// ldpcCheck returns the number of parity checks codeword fails.
func ldpcCheck(codeword []uint8) int {
	errors := 0
	for m := 0; m < LDPCM; m++ {
		x := uint8(0)
		for _, n := range ldpcNm[m] {
			x ^= codeword[n]
		}
		if x != 0 {
			errors++
		}
	}
	return errors
}

// fastTanh is a rational polynomial approximation of tanh, accurate enough
// for belief-propagation message scaling.
func fastTanh(x float32) float32 {
	if x < -4.97 {
		return -1.0
	}
	if x > 4.97 {
		return 1.0
	}
	x2 := x * x
	a := x * (945.0 + x2*(105.0+x2))
	b := 945.0 + x2*(420.0+x2*15.0)
	return a / b
}

// fastAtanh is a rational polynomial approximation of atanh.
func fastAtanh(x float32) float32 {
	x2 := x * x
	a := x * (945.0 + x2*(-735.0+x2*64.0))
	b := 945.0 + x2*(-1050.0+x2*225.0)
	return a / b
}

// EncodeLDPC computes the 83 parity bits for a 91-bit payload (plain, MSB
// first) against the same deterministic parity-check matrix LDPCDecode uses,
// by solving the 83x83 GF(2) linear system the parity checks impose on the
// 83 parity variables once the 91 known payload bits are moved to the
// right-hand side. It exists only so tests can build self-consistent
// synthetic codewords; production decoding never calls it.
func EncodeLDPC(payload91 []uint8) []uint8 {
	const numParity = LDPCN - LDPCK // 83

	// a[m] is an (numParity+1)-bit row: columns 0..numParity-1 are the
	// coefficients of each parity variable in check m, column numParity is
	// the right-hand side (XOR of the known payload bits in that check).
	a := make([][]uint8, LDPCM)
	for m := 0; m < LDPCM; m++ {
		row := make([]uint8, numParity+1)
		for _, n := range ldpcNm[m] {
			if n < LDPCK {
				row[numParity] ^= payload91[n]
			} else {
				row[n-LDPCK] = 1
			}
		}
		a[m] = row
	}

	// Gaussian elimination over GF(2) with partial pivoting.
	row := 0
	pivotCol := make([]int, 0, numParity)
	for col := 0; col < numParity && row < LDPCM; col++ {
		pivot := -1
		for r := row; r < LDPCM; r++ {
			if a[r][col] == 1 {
				pivot = r
				break
			}
		}
		if pivot == -1 {
			continue
		}
		a[row], a[pivot] = a[pivot], a[row]
		for r := 0; r < LDPCM; r++ {
			if r != row && a[r][col] == 1 {
				for c := col; c <= numParity; c++ {
					a[r][c] ^= a[row][c]
				}
			}
		}
		pivotCol = append(pivotCol, col)
		row++
	}

	parity := make([]uint8, numParity)
	for i, col := range pivotCol {
		parity[col] = a[i][numParity]
	}

	codeword := make([]uint8, LDPCN)
	copy(codeword, payload91[:LDPCK])
	copy(codeword[LDPCK:], parity)
	return codeword
}
