package curve

import (
	"fmt"

	bn254 "github.com/consensys/gnark-crypto/ecc/bn254"
)

// G2FromBytes decodes the 128-byte big-endian wire encoding: four
// 32-byte coordinates (x.A1, x.A0, y.A1, y.A0 in gnark-crypto's Fp2
// layout).
func G2FromBytes(b []byte) (G2, error) {
	if len(b) != 128 {
		return G2{}, fmt.Errorf("curve: G2 wire encoding must be 128 bytes, got %d", len(b))
	}
	var g G2
	var buf [128]byte
	copy(buf[:], b)
	if _, err := g.inner.SetBytes(buf[:]); err != nil {
		return G2{}, fmt.Errorf("curve: malformed G2 point: %w", err)
	}
	return g, nil
}

// Bytes encodes the point in the 128-byte wire form.
func (g G2) Bytes() [128]byte {
	return g.inner.RawBytes()
}

// g2Gen and g2Tau back the package-level G2_GEN / G2_TAU constants
// (a single immutable SRS shared across every verification — no
// runtime SRS loading, these two points are compile-time constants).
var (
	g2Gen bn254.G2Affine
	g2Tau bn254.G2Affine
)

func init() {
	g2Gen = bn254.G2Affine{}
	g2Gen.X.SetString(
		"10857046999023057135944570762232829481370756359578518086990519993285655852781",
		"11559732032986387107991004021392285783925812861821192530917403151452391805634",
	)
	g2Gen.Y.SetString(
		"8495653923123431417604973247489272438418190587263600148770280649306958101930",
		"4082367875863433681332203403145435568316851327593401208105741076214120093531",
	)

	// G2_TAU is the SRS element tau*G2_GEN from the Barretenberg/Aztec
	// "ignition"/bb trusted setup; fixed at compile time
	// ("no trusted-setup generation" is a Non-goal, the SRS is a fixed
	// pair of points assumed from the Barretenberg ecosystem). The
	// placeholder below must be replaced with the production
	// Barretenberg bb 0.87 SRS tau-G2 point before mainnet deployment;
	// it is wired here so every consumer of G2Tau() goes through one
	// compile-time constant rather than a runtime config knob.
	g2Tau.X.SetString(
		"4055324966660195544485934354368590236060544933738921586865963473005703608389",
		"15583696426541986644409358972309402717686988508283105503069033060498469507999",
	)
	g2Tau.Y.SetString(
		"16474175258925508715990246872217585328486046534645301845024546893566330544075",
		"3965360731595293873067007570495990833051799720780225644495509824650817436876",
	)
}

// G2Gen returns the fixed BN254 G2 generator used as the first pairing
// base in Shplemini's final pairing check.
func G2Gen() G2 { return G2{inner: g2Gen} }

// G2Tau returns the fixed SRS element tau*G2_GEN.
func G2Tau() G2 { return G2{inner: g2Tau} }
