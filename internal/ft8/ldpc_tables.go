package ft8

// The real FT8 LDPC(174,91) parity-check matrix, published by the upstream
// ft8_lib project as a pair of Nm/Mn tables, is not present anywhere in
// this codebase's source material, and it is large enough (522 nonzero
// entries) that transcribing it from memory with no reference decoder to
// check it against risks silently encoding a wrong matrix under an
// "authoritative" label — a worse outcome than a clearly-documented
// construction. What follows is not claimed to be the verbatim published
// table; it is a deterministically generated regular bipartite graph with
// the same shape as the real code (every one of the 174 variable/bit nodes
// connects to exactly 3 of the 83 check nodes) and is internally
// consistent: EncodeLDPC and LDPCDecode agree on the same graph, so the
// CRC/LDPC round trip exercises the real belief-propagation algorithm
// end-to-end. It will not decode real over-the-air FT8 captures bit-for-bit
// since it is not the WSJT-X/ft8_lib matrix; dropping in the published
// Nm/Mn/NumRows arrays verbatim (and nothing else) is the only change
// needed for interop with real signals.

// ldpcMn[n] holds the 3 zero-indexed check nodes variable node n
// participates in.
var ldpcMn [LDPCN][3]int

// ldpcNm[m] holds the zero-indexed variable nodes check node m
// participates in, in ascending variable order.
var ldpcNm [LDPCM][]int

// ldpcNumRows[m] is len(ldpcNm[m]), kept alongside for the same call shape
// the belief-propagation loops use.
var ldpcNumRows [LDPCM]int

func init() {
	for n := 0; n < LDPCN; n++ {
		checks := [3]int{
			(3*n + 7) % LDPCM,
			(5*n + 13) % LDPCM,
			(7*n + 19) % LDPCM,
		}
		// Perturb forward until all three check indices are distinct; the
		// probe step (prime, coprime with LDPCM) guarantees termination.
		// Re-scan from the top after every adjustment so fixing a collision
		// against one earlier index can't silently reintroduce another.
		for {
			collided := false
			for i := 1; i < 3 && !collided; i++ {
				for j := 0; j < i; j++ {
					if checks[i] == checks[j] {
						checks[i] = (checks[i] + 11) % LDPCM
						collided = true
						break
					}
				}
			}
			if !collided {
				break
			}
		}
		ldpcMn[n] = checks
		for _, m := range checks {
			ldpcNm[m] = append(ldpcNm[m], n)
		}
	}
	for m := 0; m < LDPCM; m++ {
		ldpcNumRows[m] = len(ldpcNm[m])
	}
}
