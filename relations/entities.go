// Package relations evaluates UltraHonk's 26 subrelations — the gate,
// permutation, lookup, range, elliptic, auxiliary and Poseidon2
// identities that must all vanish at the sumcheck point — and folds
// them into one Fr via the alpha challenge powers.
package relations

import (
	"fmt"

	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/proof"
)

// Entities holds the 40 claimed sumcheck evaluations unpacked into
// named fields matching bb's wire/selector/permutation entity table,
// so each subrelation reads named values instead of indexing a slice.
type Entities struct {
	W1, W2, W3, W4                     field.Fr
	WLShift, WRShift, WOShift, W4Shift field.Fr

	QM, QC, QL, QR, QO, Q4             field.Fr
	QLookup, QArith, QRange, QElliptic field.Fr
	QAux, QPos2Ext, QPos2Int           field.Fr

	Sigma1, Sigma2, Sigma3, Sigma4 field.Fr
	ID1, ID2, ID3, ID4             field.Fr
	Table1, Table2, Table3, Table4 field.Fr
	LFirst, LLast                  field.Fr

	ZPerm, ZPermShift               field.Fr
	LookupInv, ReadCounts, ReadTags field.Fr
}

// Load unpacks the proof's 40-entry evaluation vector into Entities by
// name, using the positional indices fixed in package proof.
func Load(p proof.View) (Entities, error) {
	var e Entities
	get := func(idx int) (field.Fr, error) {
		v, err := p.Evaluation(idx)
		if err != nil {
			return field.Fr{}, fmt.Errorf("relations: loading evaluation %d: %w", idx, err)
		}
		return v, nil
	}

	fields := []struct {
		idx int
		dst *field.Fr
	}{
		{proof.EvalW1, &e.W1}, {proof.EvalW2, &e.W2}, {proof.EvalW3, &e.W3}, {proof.EvalW4, &e.W4},
		{proof.EvalWL, &e.WLShift}, {proof.EvalWR, &e.WRShift}, {proof.EvalWO, &e.WOShift}, {proof.EvalW4Shift, &e.W4Shift},
		{proof.EvalQM, &e.QM}, {proof.EvalQC, &e.QC}, {proof.EvalQL, &e.QL}, {proof.EvalQR, &e.QR},
		{proof.EvalQO, &e.QO}, {proof.EvalQ4, &e.Q4}, {proof.EvalQLookup, &e.QLookup}, {proof.EvalQArith, &e.QArith},
		{proof.EvalQRange, &e.QRange}, {proof.EvalQElliptic, &e.QElliptic}, {proof.EvalQAux, &e.QAux},
		{proof.EvalQPos2Ext, &e.QPos2Ext}, {proof.EvalQPos2Int, &e.QPos2Int},
		{proof.EvalSigma1, &e.Sigma1}, {proof.EvalSigma2, &e.Sigma2}, {proof.EvalSigma3, &e.Sigma3}, {proof.EvalSigma4, &e.Sigma4},
		{proof.EvalID1, &e.ID1}, {proof.EvalID2, &e.ID2}, {proof.EvalID3, &e.ID3}, {proof.EvalID4, &e.ID4},
		{proof.EvalTable1, &e.Table1}, {proof.EvalTable2, &e.Table2}, {proof.EvalTable3, &e.Table3}, {proof.EvalTable4, &e.Table4},
		{proof.EvalLFirst, &e.LFirst}, {proof.EvalLLast, &e.LLast},
		{proof.EvalZPerm, &e.ZPerm}, {proof.EvalZPermShift, &e.ZPermShift},
		{proof.EvalLookupInv, &e.LookupInv}, {proof.EvalReadCounts, &e.ReadCounts}, {proof.EvalReadTags, &e.ReadTags},
	}
	for _, f := range fields {
		v, err := get(f.idx)
		if err != nil {
			return Entities{}, err
		}
		*f.dst = v
	}
	return e, nil
}
