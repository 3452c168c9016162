package edsig

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"
)

const (
	vectorPublicKeyHex = "7ffc61177fc35cccdf6342afb4afe1bd1895595d09614e47239718deca194d2e"
	vectorMessage      = "fac63733b4279c7dd38567f45622c3dfde80eb918cf0a0780658d4382add82c3"
	vectorSignatureHex = "e8470e6054bdb602d9cdcdb1d5f476eef06bf7b3b0282576d25c76995fcafec9" +
		"023353c73050ad532c7d9b364e78715677148fdba8a9459808e5905f6915c10a"

	// Little-endian encoding of the group order L.
	orderHex = "edd3f55c1a631258d69cf7a2def9de1400000000000000000000000000000010"
	// y = 1: the identity point.
	identityHex = "0100000000000000000000000000000000000000000000000000000000000000"
	// y = p + 1: a non-canonical encoding of the identity.
	nonCanonicalIdentityHex = "eeffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff7f"
	// y = 2 has no x on the curve.
	offCurveHex = "0200000000000000000000000000000000000000000000000000000000000000"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex.DecodeString(%q): %v", s, err)
	}
	return b
}

func vector(t *testing.T) (pub, msg, sig []byte) {
	t.Helper()
	return mustHex(t, vectorPublicKeyHex), []byte(vectorMessage), mustHex(t, vectorSignatureHex)
}

// fixtureKey returns a deterministic keypair for signing test fixtures.
func fixtureKey(b byte) (ed25519.PublicKey, ed25519.PrivateKey) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = b + byte(i)
	}
	priv := ed25519.NewKeyFromSeed(seed)
	return priv.Public().(ed25519.PublicKey), priv
}

func signFixture(priv ed25519.PrivateKey, msg []byte) []byte {
	return ed25519.Sign(priv, msg)
}
