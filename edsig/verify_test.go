package edsig

import (
	"bytes"
	"testing"

	"xdao.co/edsig/compliance"
)

func TestVerify_EmbeddedVector(t *testing.T) {
	pub, msg, sig := vector(t)
	if len(msg) != 64 {
		t.Fatalf("vector message length: got %d want 64", len(msg))
	}
	ok, err := Verify(pub, msg, sig)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected embedded vector to verify")
	}
	if err := Check(pub, msg, sig, Options{}); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestVerify_EmbeddedVectorRelaxed(t *testing.T) {
	pub, msg, sig := vector(t)
	ok, err := VerifyWithOptions(pub, msg, sig, Options{Mode: compliance.Relaxed})
	if err != nil {
		t.Fatalf("VerifyWithOptions: %v", err)
	}
	if !ok {
		t.Fatalf("expected embedded vector to verify under relaxed mode")
	}
}

func TestVerify_Deterministic(t *testing.T) {
	pub, msg, sig := vector(t)
	for i := 0; i < 16; i++ {
		ok, err := Verify(pub, msg, sig)
		if err != nil || !ok {
			t.Fatalf("iteration %d: got (%v, %v)", i, ok, err)
		}
	}
	msg[0] ^= 1
	for i := 0; i < 16; i++ {
		ok, err := Verify(pub, msg, sig)
		if err != nil || ok {
			t.Fatalf("tampered iteration %d: got (%v, %v)", i, ok, err)
		}
	}
}

func TestVerify_CorruptedSignatureByte(t *testing.T) {
	pub, msg, sig := vector(t)
	for i := range sig {
		for _, mask := range []byte{0x01, 0x80} {
			bad := bytes.Clone(sig)
			bad[i] ^= mask
			if Valid(pub, msg, bad) {
				t.Fatalf("signature with byte %d ^ %#x verified", i, mask)
			}
		}
	}
}

func TestVerify_TamperedMessage(t *testing.T) {
	pub, msg, sig := vector(t)
	for i := range msg {
		bad := bytes.Clone(msg)
		bad[i] ^= 0x20
		ok, err := Verify(pub, bad, sig)
		if err != nil {
			t.Fatalf("Verify: %v", err)
		}
		if ok {
			t.Fatalf("message with byte %d altered verified", i)
		}
	}
	if ok, _ := Verify(pub, msg[:63], sig); ok {
		t.Fatalf("truncated message verified")
	}
}

func TestVerify_MismatchIsNotAnError(t *testing.T) {
	pub, msg, sig := vector(t)
	msg[10] ^= 1
	ok, err := Verify(pub, msg, sig)
	if ok || err != nil {
		t.Fatalf("got (%v, %v), want (false, nil)", ok, err)
	}
	cerr := Check(pub, msg, sig, Options{})
	if !IsKind(cerr, KindMismatch) {
		t.Fatalf("Check: expected KindMismatch, got %v", cerr)
	}
	if RuleID(cerr) != "EDSIG-VER-002" {
		t.Fatalf("Check: expected EDSIG-VER-002, got %q", RuleID(cerr))
	}
}

func TestVerify_FixtureKeys(t *testing.T) {
	for b := byte(0); b < 8; b++ {
		pub, priv := fixtureKey(b * 17)
		msg := []byte("fixture message")
		msg = append(msg, b)
		sig := signFixture(priv, msg)

		ok, err := Verify(pub, msg, sig)
		if err != nil || !ok {
			t.Fatalf("key %d: got (%v, %v)", b, ok, err)
		}
		other, _ := fixtureKey(b*17 + 1)
		if Valid(other, msg, sig) {
			t.Fatalf("key %d: signature verified under a different key", b)
		}
	}
}

func TestVerify_ParsedTypes(t *testing.T) {
	pub, msg, sig := vector(t)
	pk, err := ParsePublicKey(pub)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	s, err := ParseSignature(sig)
	if err != nil {
		t.Fatalf("ParseSignature: %v", err)
	}
	if !bytes.Equal(pk.Bytes(), pub) {
		t.Fatalf("PublicKey.Bytes mismatch")
	}
	if !bytes.Equal(s.Bytes(), sig) {
		t.Fatalf("Signature.Bytes mismatch")
	}
	if !pk.Verify(Message(msg), s) {
		t.Fatalf("PublicKey.Verify: expected true")
	}
}

func TestVerify_ZeroValuesNeverVerify(t *testing.T) {
	pub, msg, sig := vector(t)
	pk, err := ParsePublicKey(pub)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	s, err := ParseSignature(sig)
	if err != nil {
		t.Fatalf("ParseSignature: %v", err)
	}
	if (PublicKey{}).Verify(msg, s) {
		t.Fatalf("zero PublicKey verified")
	}
	if pk.Verify(msg, Signature{}) {
		t.Fatalf("zero Signature verified")
	}
}

func TestVerify_ModeMismatch(t *testing.T) {
	pub, msg, sig := vector(t)
	pk, err := ParsePublicKey(pub)
	if err != nil {
		t.Fatalf("ParsePublicKey: %v", err)
	}
	s, err := ParseSignatureWithOptions(sig, Options{Mode: compliance.Relaxed})
	if err != nil {
		t.Fatalf("ParseSignatureWithOptions: %v", err)
	}
	if pk.Verify(msg, s) {
		t.Fatalf("expected mode mismatch to fail verification")
	}
}

// The all-identity signature (A = R = identity, S = 0) satisfies the equation
// for every message. ZIP-215 accepts it; strict verification does not.
func TestVerify_StrictAndRelaxedDisagreeOnSmallOrder(t *testing.T) {
	pub := mustHex(t, identityHex)
	sig := append(mustHex(t, identityHex), make([]byte, 32)...)
	msg := []byte("any message")

	ok, err := VerifyWithOptions(pub, msg, sig, Options{Mode: compliance.Relaxed})
	if err != nil {
		t.Fatalf("relaxed: %v", err)
	}
	if !ok {
		t.Fatalf("relaxed: expected small-order signature to verify")
	}

	ok, err = Verify(pub, msg, sig)
	if ok {
		t.Fatalf("strict: small-order signature verified")
	}
	if !IsKind(err, KindPublicKey) || RuleID(err) != "EDSIG-KEY-004" {
		t.Fatalf("strict: expected EDSIG-KEY-004, got %v (%s)", err, RuleID(err))
	}
}
