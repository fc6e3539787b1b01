// Package sumcheck drives the round-by-round sumcheck reduction that
// turns the claim "every subrelation vanishes on the boolean
// hypercube" into a single evaluation point. Each round consumes one
// degree-<=8 univariate from the proof, checks it against the running
// target, squeezes a challenge from the transcript, and folds the
// univariate down via barycentric interpolation.
package sumcheck

import (
	"fmt"

	"github.com/nicolaslara/solana-noir-verifier/field"
	"github.com/nicolaslara/solana-noir-verifier/proof"
	"github.com/nicolaslara/solana-noir-verifier/transcript"
)

// MaxRounds is the maximum circuit depth this verifier accepts
// (log_n <= 28, matching the largest VK the account model can hold).
const MaxRounds = 28

// NumCoeffs is the number of value-form evaluations carried per round:
// the degree-<=8 univariate U_r evaluated at points 0..8.
const NumCoeffs = 9

// domain holds the 9 evaluation points 0..8 as field elements, computed
// once at package init rather than re-derived per round.
var domain [NumCoeffs]field.Fr

func init() {
	for i := 0; i < NumCoeffs; i++ {
		domain[i] = field.FromUint64(uint64(i))
	}
}

// bary9Weights holds the barycentric weights w_i = 1 / Π_{j != i} (i - j)
// for the fixed domain {0..8}. These depend only on the domain, never on
// the evaluated point, so they are computed once at init instead of per
// round.
var bary9Weights [NumCoeffs]field.Fr

func init() {
	for i := 0; i < NumCoeffs; i++ {
		acc := field.One()
		for j := 0; j < NumCoeffs; j++ {
			if i == j {
				continue
			}
			diff := field.Sub(domain[i], domain[j])
			acc = field.Mul(acc, diff)
		}
		inv, ok := field.Inv(acc)
		if !ok {
			panic("sumcheck: degenerate barycentric domain")
		}
		bary9Weights[i] = inv
	}
}

// Round holds one round's outcome. The phased driver does not keep
// Round values; it persists each round's challenge in verifier.State.U.
type Round struct {
	Challenge field.Fr
}

// Engine carries the rolling sumcheck state across Phase2Rounds calls.
// It holds no reference to the proof or transcript; those are passed
// into Step explicitly so the phased driver controls their lifetime.
type Engine struct {
	LogN         uint64
	GateChal     [MaxRounds]field.Fr
	Target       field.Fr
	PowPartial   field.Fr
	U            [MaxRounds]field.Fr
	LibraContrib [MaxRounds]field.Fr // ZK round-by-round libra adjustment; zero when not in ZK mode
}

// NewEngine seeds the rolling state for a fresh verification: target is
// the initial claimed sum (zero for a well-formed honest-prover proof
// absent ZK masking, adjusted by the libra sum when present), and
// pow_partial starts at one.
func NewEngine(logN uint64, gateChal [MaxRounds]field.Fr, initialTarget field.Fr) *Engine {
	e := &Engine{
		LogN:       logN,
		GateChal:   gateChal,
		Target:     initialTarget,
		PowPartial: field.One(),
	}
	return e
}

// evalAt evaluates the round univariate (given in value form at 0..8)
// at an arbitrary field point x via Lagrange interpolation over the
// fixed 9-point domain, reusing the precomputed bary9Weights and a
// single batch inversion over the 9 point-to-x denominators.
func evalAt(values [NumCoeffs]field.Fr, x field.Fr) (field.Fr, error) {
	// If x lands exactly on a domain point, its value is the answer
	// directly; the general formula would divide by zero there.
	for i := 0; i < NumCoeffs; i++ {
		if x.Equal(domain[i]) {
			return values[i], nil
		}
	}

	denoms := make([]field.Fr, NumCoeffs)
	for i := 0; i < NumCoeffs; i++ {
		denoms[i] = field.Sub(x, domain[i])
	}
	invDenoms, ok := field.BatchInv(denoms)
	if !ok {
		return field.Fr{}, fmt.Errorf("sumcheck: batch inversion collapsed evaluating at point")
	}

	// numerator(x) = Π (x - domain[i]); compute once, divide out per term.
	numAll := field.One()
	for i := 0; i < NumCoeffs; i++ {
		numAll = field.Mul(numAll, denoms[i])
	}

	acc := field.Zero()
	for i := 0; i < NumCoeffs; i++ {
		// term_i = values[i] * weight_i * numAll / denoms[i]
		//        = values[i] * weight_i * numAll * invDenoms[i]
		term := field.Mul(values[i], bary9Weights[i])
		term = field.Mul(term, numAll)
		term = field.Mul(term, invDenoms[i])
		acc = field.Add(acc, term)
	}
	return acc, nil
}

// Step runs one sumcheck round: reads round r's univariate from the
// proof, checks it against the running target (or, past log_n, checks
// it is identically zero padding), squeezes the round challenge,
// updates target via barycentric folding, and updates pow_partial.
func (e *Engine) Step(r int, p proof.View, tr *transcript.Transcript) error {
	if r < 0 || r >= MaxRounds {
		return fmt.Errorf("sumcheck: round %d out of range", r)
	}

	var values [NumCoeffs]field.Fr
	for j := 0; j < NumCoeffs; j++ {
		v, err := p.SumcheckRoundCoeff(r, j)
		if err != nil {
			return fmt.Errorf("sumcheck: round %d: %w", r, err)
		}
		values[j] = v
	}

	active := uint64(r) < e.LogN

	if active {
		sum := field.Add(values[0], values[1])
		sum = field.Add(sum, e.LibraContrib[r])
		if !sum.Equal(e.Target) {
			return fmt.Errorf("sumcheck: round %d consistency check failed", r)
		}
	} else {
		for j := 0; j < NumCoeffs; j++ {
			if !values[j].IsZero() {
				return fmt.Errorf("sumcheck: round %d expected zero padding", r)
			}
		}
	}

	for j := 0; j < NumCoeffs; j++ {
		tr.AppendFr(values[j])
	}
	u, _ := tr.SplitChallenge()
	e.U[r] = u

	if active {
		next, err := evalAt(values, u)
		if err != nil {
			return fmt.Errorf("sumcheck: round %d: %w", r, err)
		}
		e.Target = next

		// pow_partial folds in the current gate challenge the same way
		// every round: pow_partial *= (1 - u) + u * gate_challenge[r].
		oneMinusU := field.Sub(field.One(), u)
		term := field.Mul(u, e.GateChal[r])
		factor := field.Add(oneMinusU, term)
		e.PowPartial = field.Mul(e.PowPartial, factor)
	}

	return nil
}
