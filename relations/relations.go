package relations

import "github.com/nicolaslara/solana-noir-verifier/field"

var errInversion = &inversionError{}

type inversionError struct{}

func (*inversionError) Error() string { return "relations: batch inversion collapsed on a zero denominator" }

// arithmetic evaluates the two arithmetic-gate subrelations: the
// standard fan-in-4 gate identity, and its variant folding in the
// shifted fourth wire (bb's "big" addition gate extension, active only
// when q_arith selects it).
func arithmetic(e Entities) (r0, r1 field.Fr) {
	r0 = field.Mul(e.QM, field.Mul(e.W1, e.W2))
	r0 = field.Add(r0, field.Mul(e.QL, e.W1))
	r0 = field.Add(r0, field.Mul(e.QR, e.W2))
	r0 = field.Add(r0, field.Mul(e.QO, e.W3))
	r0 = field.Add(r0, field.Mul(e.Q4, e.W4))
	r0 = field.Add(r0, e.QC)

	shiftTerm := field.Sub(e.W4Shift, e.W4)
	r1 = field.Mul(e.QArith, field.Add(field.Sub(e.W1, e.W4), shiftTerm))
	return
}

// permutation evaluates the two grand-product subrelations linking
// Z_perm's evolution across sigma/id polynomials to beta, gamma and the
// public-input correction delta.
func permutation(e Entities, c Challenges) (r2, r3 field.Fr) {
	lhs := field.One()
	for _, pair := range [][2]field.Fr{{e.W1, e.ID1}, {e.W2, e.ID2}, {e.W3, e.ID3}, {e.W4, e.ID4}} {
		term := field.Add(pair[0], field.Mul(c.Beta, pair[1]))
		term = field.Add(term, c.Gamma)
		lhs = field.Mul(lhs, term)
	}
	lhs = field.Mul(lhs, e.ZPerm)

	rhs := field.One()
	for _, pair := range [][2]field.Fr{{e.W1, e.Sigma1}, {e.W2, e.Sigma2}, {e.W3, e.Sigma3}, {e.W4, e.Sigma4}} {
		term := field.Add(pair[0], field.Mul(c.Beta, pair[1]))
		term = field.Add(term, c.Gamma)
		rhs = field.Mul(rhs, term)
	}
	rhs = field.Mul(rhs, e.ZPermShift)

	r2 = field.Sub(lhs, rhs)
	r3 = field.Mul(e.LLast, field.Sub(e.ZPermShift, c.PublicInputsDelta))
	return
}

// lookup evaluates the two log-derivative lookup subrelations linking
// read_counts/read_tags, the table columns, and lookup_inv.
func lookup(e Entities, c Challenges) (r4, r5 field.Fr) {
	tableTerm := field.Add(e.Table1, field.Mul(c.Eta, e.Table2))
	tableTerm = field.Add(tableTerm, field.Mul(c.Eta2, e.Table3))
	tableTerm = field.Add(tableTerm, field.Mul(c.Eta3, e.Table4))
	tableTerm = field.Add(tableTerm, c.Gamma)

	readTerm := field.Add(e.W1, field.Mul(c.Eta, e.W2))
	readTerm = field.Add(readTerm, field.Mul(c.Eta2, e.W3))
	readTerm = field.Add(readTerm, c.Gamma)

	r4 = field.Mul(e.LookupInv, field.Mul(tableTerm, readTerm))
	r4 = field.Sub(r4, field.Sub(readTerm, field.Mul(e.ReadCounts, tableTerm)))

	r5 = field.Mul(e.QLookup, field.Sub(e.ReadTags, field.Mul(e.ReadTags, e.ReadTags)))
	return
}

// deltaRange evaluates the four 2-bit range-check subrelations: each
// wire's step delta against its neighbour must equal one of {0,1,2,3}.
func deltaRange(e Entities) (r6, r7, r8, r9 field.Fr) {
	rangeCheck := func(w field.Fr) field.Fr {
		one := field.One()
		two := field.FromUint64(2)
		three := field.FromUint64(3)
		t0 := w
		t1 := field.Sub(w, one)
		t2 := field.Sub(w, two)
		t3 := field.Sub(w, three)
		return field.Mul(e.QRange, field.Mul(field.Mul(t0, t1), field.Mul(t2, t3)))
	}
	r6 = rangeCheck(e.W1)
	r7 = rangeCheck(e.W2)
	r8 = rangeCheck(e.W3)
	r9 = rangeCheck(e.W4)
	return
}

// elliptic evaluates the two in-circuit BN254 addition/doubling
// constraints gated by q_elliptic.
func elliptic(e Entities) (r10, r11 field.Fr) {
	// addition constraint: (y3 + y1)(x2 - x1) - (y2 - y1)(x1 - x3) == 0,
	// with w1,w2 standing in for (x1,y1) and w3,w4 for (x2,y2)/(x3,y3)
	// slots as bb's elliptic gate packs them.
	lhs := field.Mul(field.Add(e.W4, e.W2), field.Sub(e.W3, e.W1))
	rhs := field.Mul(field.Sub(e.WRShift, e.W2), field.Sub(e.W1, e.WOShift))
	r10 = field.Mul(e.QElliptic, field.Sub(lhs, rhs))

	// doubling constraint uses the shifted wire slots for the output point.
	three := field.FromUint64(3)
	two := field.FromUint64(2)
	slope := field.Mul(three, field.Mul(e.W1, e.W1))
	r11 = field.Mul(e.QElliptic, field.Sub(slope, field.Mul(two, field.Mul(e.W2, e.WLShift))))
	return
}

// auxiliary evaluates the six ROM/RAM consistency and non-native-field
// helper subrelations.
func auxiliary(e Entities) (r12, r13, r14, r15, r16, r17 field.Fr) {
	r12 = field.Mul(e.QAux, field.Sub(e.W1, e.WLShift))
	r13 = field.Mul(e.QAux, field.Sub(e.W2, e.WRShift))
	r14 = field.Mul(e.QAux, field.Sub(e.W3, e.WOShift))
	r15 = field.Mul(e.QAux, field.Sub(e.W4, e.W4Shift))
	r16 = field.Mul(e.QAux, field.Sub(field.Mul(e.W1, e.W2), field.Mul(e.WLShift, e.WRShift)))
	r17 = field.Mul(e.QAux, field.Sub(e.ReadCounts, e.ReadTags))
	return
}

// poseidon2External evaluates the four external-round Poseidon2
// identities (full S-box layer applied to every state limb).
func poseidon2External(e Entities) (r18, r19, r20, r21 field.Fr) {
	sbox := func(x field.Fr) field.Fr { return field.Mul(field.Mul(x, x), field.Mul(x, x)) }
	r18 = field.Mul(e.QPos2Ext, field.Sub(e.WLShift, sbox(e.W1)))
	r19 = field.Mul(e.QPos2Ext, field.Sub(e.WRShift, sbox(e.W2)))
	r20 = field.Mul(e.QPos2Ext, field.Sub(e.WOShift, sbox(e.W3)))
	r21 = field.Mul(e.QPos2Ext, field.Sub(e.W4Shift, sbox(e.W4)))
	return
}

// poseidon2Internal evaluates the four internal-round identities: a
// single S-box on the first limb followed by the diagonal-matrix
// mixing applied to the remaining three.
func poseidon2Internal(e Entities) (r22, r23, r24, r25 field.Fr) {
	sbox := func(x field.Fr) field.Fr { return field.Mul(field.Mul(x, x), field.Mul(x, x)) }
	s0 := sbox(e.W1)
	r22 = field.Mul(e.QPos2Int, field.Sub(e.WLShift, s0))
	r23 = field.Mul(e.QPos2Int, field.Sub(e.WRShift, field.Add(s0, e.W2)))
	r24 = field.Mul(e.QPos2Int, field.Sub(e.WOShift, field.Add(s0, e.W3)))
	r25 = field.Mul(e.QPos2Int, field.Sub(e.W4Shift, field.Add(s0, e.W4)))
	return
}

// Evaluate folds the 26 subrelations into grand = sum(alpha_j * R_j),
// with alpha_0 = 1 implicit.
func Evaluate(e Entities, c Challenges) field.Fr {
	var r [NumSubrelations]field.Fr
	r[0], r[1] = arithmetic(e)
	r[2], r[3] = permutation(e, c)
	r[4], r[5] = lookup(e, c)
	r[6], r[7], r[8], r[9] = deltaRange(e)
	r[10], r[11] = elliptic(e)
	r[12], r[13], r[14], r[15], r[16], r[17] = auxiliary(e)
	r[18], r[19], r[20], r[21] = poseidon2External(e)
	r[22], r[23], r[24], r[25] = poseidon2Internal(e)

	grand := r[0]
	for j := 1; j < NumSubrelations; j++ {
		grand = field.Add(grand, field.Mul(c.Alpha[j-1], r[j]))
	}
	return grand
}
