// Package field implements BN254 scalar-field (Fr) arithmetic in
// Montgomery form, the primitive every other verifier component builds
// on (sumcheck, relations, transcript challenges, Shplemini scalars).
//
// Every exported Fr value is canonical (< r) and held as four 64-bit
// limbs in Montgomery representation (a·R mod r, R = 2^256). Keeping
// values Montgomery-resident end to end avoids a byte<->limb round trip
// on every one of the thousands of multiplications a single proof
// verification performs.
package field

import "math/bits"

// Fr is an element of the BN254 scalar field, little-endian limbs,
// Montgomery form.
type Fr [4]uint64

// modulus r, little-endian limbs.
var modulus = Fr{
	0x43e1f593f0000001,
	0x2833e84879b97091,
	0xb85045b68181585d,
	0x30644e72e131a029,
}

// nInv = -r^{-1} mod 2^64, the Montgomery reduction constant.
const nInv uint64 = 0xc2e1f593efffffff

// rSquared = R^2 mod r, used to convert raw values into Montgomery form.
var rSquared = Fr{
	0x1bb8e645ae216da7,
	0x53fe3ab1e35c59e3,
	0x8c49833d53bb8085,
	0x216d0b17f4e44a5,
}

// one is the Montgomery representation of 1 (i.e. R mod r).
var one = Fr{
	0xac96341c4ffffffb,
	0x36fc76959f60cd29,
	0x666ea36f7879462e,
	0xe0a77c19a07df2f,
}

// Zero returns the additive identity.
func Zero() Fr { return Fr{} }

// One returns the multiplicative identity, in Montgomery form.
func One() Fr { return one }

// IsZero reports whether a is the additive identity.
func (a Fr) IsZero() bool {
	return a[0] == 0 && a[1] == 0 && a[2] == 0 && a[3] == 0
}

// Equal reports whether a and b are the same canonical element.
func (a Fr) Equal(b Fr) bool {
	return a[0] == b[0] && a[1] == b[1] && a[2] == b[2] && a[3] == b[3]
}

// geModulus reports whether a >= modulus, limbs compared most-significant first.
func geModulus(a Fr) bool {
	for i := 3; i >= 0; i-- {
		if a[i] > modulus[i] {
			return true
		}
		if a[i] < modulus[i] {
			return false
		}
	}
	return true
}

func subModulus(a Fr) Fr {
	var out Fr
	var borrow uint64
	out[0], borrow = bits.Sub64(a[0], modulus[0], 0)
	out[1], borrow = bits.Sub64(a[1], modulus[1], borrow)
	out[2], borrow = bits.Sub64(a[2], modulus[2], borrow)
	out[3], _ = bits.Sub64(a[3], modulus[3], borrow)
	return out
}

// Add computes a+b mod r.
func Add(a, b Fr) Fr {
	var out Fr
	var carry uint64
	out[0], carry = bits.Add64(a[0], b[0], 0)
	out[1], carry = bits.Add64(a[1], b[1], carry)
	out[2], carry = bits.Add64(a[2], b[2], carry)
	out[3], carry = bits.Add64(a[3], b[3], carry)
	if carry != 0 || geModulus(out) {
		out = subModulus(out)
	}
	return out
}

// Sub computes a-b mod r.
func Sub(a, b Fr) Fr {
	var out Fr
	var borrow uint64
	out[0], borrow = bits.Sub64(a[0], b[0], 0)
	out[1], borrow = bits.Sub64(a[1], b[1], borrow)
	out[2], borrow = bits.Sub64(a[2], b[2], borrow)
	out[3], borrow = bits.Sub64(a[3], b[3], borrow)
	if borrow != 0 {
		var carry uint64
		out[0], carry = bits.Add64(out[0], modulus[0], 0)
		out[1], carry = bits.Add64(out[1], modulus[1], carry)
		out[2], carry = bits.Add64(out[2], modulus[2], carry)
		out[3], _ = bits.Add64(out[3], modulus[3], carry)
	}
	return out
}

// Neg computes -a mod r.
func Neg(a Fr) Fr {
	if a.IsZero() {
		return a
	}
	return Sub(modulus, a)
}

// montMul performs Coarsely Integrated Operand Scanning (CIOS) Montgomery
// multiplication: returns a*b*R^{-1} mod r.
//
// This is the textbook CIOS reduction (Koc, Acar, Kaliski) that
// gnark-crypto's field-code generator emits per curve; reproduced here
// by hand because the verifier requires this exact API shape (raw limb
// access, explicit batch inversion) rather than an opaque fr.Element.
func montMul(a, b Fr) Fr {
	var t [5]uint64
	for i := 0; i < 4; i++ {
		// t += a[i] * b
		var carry uint64
		for j := 0; j < 4; j++ {
			hi, lo := bits.Mul64(a[i], b[j])
			var c uint64
			t[j], c = bits.Add64(t[j], lo, 0)
			hi += c
			t[j], c = bits.Add64(t[j], carry, 0)
			carry = hi + c
		}
		var c uint64
		t[4], c = bits.Add64(t[4], carry, 0)
		extra := c

		// m = t[0] * nInv mod 2^64
		m := t[0] * nInv

		// t += m * modulus
		var carry2 uint64
		hi, lo := bits.Mul64(m, modulus[0])
		var cc uint64
		_, cc = bits.Add64(t[0], lo, 0)
		carry2 = hi + cc
		for j := 1; j < 4; j++ {
			hi, lo = bits.Mul64(m, modulus[j])
			var c2 uint64
			t[j], c2 = bits.Add64(t[j], lo, 0)
			hi += c2
			t[j], c2 = bits.Add64(t[j], carry2, 0)
			carry2 = hi + c2
		}
		var c3 uint64
		t[4], c3 = bits.Add64(t[4], carry2, 0)
		extra += c3

		// shift t right by one limb, carry the extra word in
		t[0] = t[1]
		t[1] = t[2]
		t[2] = t[3]
		t[3] = t[4]
		t[4] = extra
	}

	out := Fr{t[0], t[1], t[2], t[3]}
	if t[4] != 0 || geModulus(out) {
		out = subModulus(out)
	}
	return out
}

// Mul computes a*b mod r (both operands and the result in Montgomery form).
func Mul(a, b Fr) Fr { return montMul(a, b) }

// Square computes a^2 mod r.
//
// The CIOS loop above is already symmetric in a and b; squaring reuses
// it directly. Curves with larger limb counts benefit from a dedicated
// symmetric-column squaring routine that halves the partial-product
// count, but at 4 limbs the saving does not justify a second code path.
func Square(a Fr) Fr { return montMul(a, a) }

// fromRawLimbs converts a non-Montgomery value into Montgomery form:
// mont_mul(raw, R^2).
func fromRawLimbs(raw Fr) Fr { return montMul(raw, rSquared) }

// toRawLimbs converts a Montgomery value back to its plain representative:
// mont_mul(x, 1).
func toRawLimbs(x Fr) Fr { return montMul(x, Fr{1, 0, 0, 0}) }

// FromRawBytes decodes 32 big-endian bytes (a canonical, non-Montgomery
// scalar) into a Montgomery-form Fr. Returns false if the value is not
// reduced (>= r).
func FromRawBytes(b []byte) (Fr, bool) {
	if len(b) != 32 {
		return Fr{}, false
	}
	var raw Fr
	for i := 0; i < 4; i++ {
		off := 24 - 8*i
		raw[i] = beUint64(b[off : off+8])
	}
	if geModulus(raw) {
		return Fr{}, false
	}
	return fromRawLimbs(raw), true
}

// ToRawBytes encodes a as 32 big-endian bytes of its canonical
// non-Montgomery representative.
func (a Fr) ToRawBytes() [32]byte {
	raw := toRawLimbs(a)
	var out [32]byte
	for i := 0; i < 4; i++ {
		off := 24 - 8*i
		putBE64(out[off:off+8], raw[i])
	}
	return out
}

// FromMontgomeryBytes decodes 32 big-endian bytes that already hold the
// Montgomery-form limbs directly (the in-memory state encoding carried
// across transactions), with no R-multiplication.
func FromMontgomeryBytes(b []byte) (Fr, bool) {
	if len(b) != 32 {
		return Fr{}, false
	}
	var out Fr
	for i := 0; i < 4; i++ {
		off := 24 - 8*i
		out[i] = beUint64(b[off : off+8])
	}
	if geModulus(out) {
		return Fr{}, false
	}
	return out, true
}

// ToMontgomeryBytes encodes the Montgomery-form limbs directly as 32
// big-endian bytes, with no R^{-1}-multiplication.
func (a Fr) ToMontgomeryBytes() [32]byte {
	var out [32]byte
	for i := 0; i < 4; i++ {
		off := 24 - 8*i
		putBE64(out[off:off+8], a[i])
	}
	return out
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

func putBE64(b []byte, v uint64) {
	for i := 7; i >= 0; i-- {
		b[i] = byte(v)
		v >>= 8
	}
}
