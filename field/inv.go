package field

import "math/big"

// modulusBig mirrors modulus as a big.Int, built once and reused only by
// Inv — every hot-path operation above stays limb-based.
var modulusBig = func() *big.Int {
	b := new(big.Int)
	for i := 3; i >= 0; i-- {
		b.Lsh(b, 64)
		b.Or(b, new(big.Int).SetUint64(modulus[i]))
	}
	return b
}()

func (a Fr) bigRaw() *big.Int {
	raw := toRawLimbs(a)
	b := new(big.Int)
	for i := 3; i >= 0; i-- {
		b.Lsh(b, 64)
		b.Or(b, new(big.Int).SetUint64(raw[i]))
	}
	return b
}

func fromBigRaw(b *big.Int) Fr {
	var raw Fr
	bb := new(big.Int).Set(b)
	mask := new(big.Int).SetUint64(^uint64(0))
	for i := 0; i < 4; i++ {
		limb := new(big.Int).And(bb, mask)
		raw[i] = limb.Uint64()
		bb.Rsh(bb, 64)
	}
	return fromRawLimbs(raw)
}

// Inv computes the multiplicative inverse of a, or (zero, false) if a is
// zero (inv(0) has no inverse and fails the calling operation).
//
// The non-Montgomery representative is extended-Euclidean inverted —
// the same binary-GCD relationship (gcd(a, r) = 1 implies a unique
// a^-1 mod r) gnark-crypto's generated field code computes via repeated
// halving on raw limbs; we delegate the big-integer bookkeeping to
// math/big since inversion is the one rare, non-hot-path field
// operation (called once per sumcheck round via batch inversion, never
// per-multiplication).
func Inv(a Fr) (Fr, bool) {
	if a.IsZero() {
		return Fr{}, false
	}
	raw := a.bigRaw()
	inv := new(big.Int).ModInverse(raw, modulusBig)
	if inv == nil {
		return Fr{}, false
	}
	return fromBigRaw(inv), true
}

// BatchInv inverts every element of vs at once using the Montgomery
// trick: build running prefix products, invert only the final product,
// then walk back multiplying by the original elements. Cost is one real
// Inv call plus 3n-3 multiplications, versus n calls to Inv.
//
// Returns false if any element of vs is zero (the whole batch fails
// with an explicit error rather than panicking; callers such as
// sumcheck's barycentric interpolation and Shplemini's gemini folding
// rely on this to surface an InversionFailure verification error).
func BatchInv(vs []Fr) ([]Fr, bool) {
	n := len(vs)
	if n == 0 {
		return nil, true
	}
	prefix := make([]Fr, n)
	acc := One()
	for i, v := range vs {
		if v.IsZero() {
			return nil, false
		}
		prefix[i] = acc
		acc = Mul(acc, v)
	}
	accInv, ok := Inv(acc)
	if !ok {
		return nil, false
	}
	out := make([]Fr, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = Mul(accInv, prefix[i])
		accInv = Mul(accInv, vs[i])
	}
	return out, true
}
