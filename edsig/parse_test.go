package edsig

import (
	"errors"
	"testing"

	"xdao.co/edsig/compliance"
)

func TestParsePublicKey_RejectsWrongLength(t *testing.T) {
	for n := 0; n <= 96; n++ {
		if n == PublicKeySize {
			continue
		}
		_, err := ParsePublicKey(make([]byte, n))
		if !IsKind(err, KindPublicKey) {
			t.Fatalf("len %d: expected KindPublicKey, got %v", n, err)
		}
		if RuleID(err) != "EDSIG-KEY-001" {
			t.Fatalf("len %d: expected EDSIG-KEY-001, got %q", n, RuleID(err))
		}
	}
}

func TestParsePublicKey_RejectsOffCurve(t *testing.T) {
	for _, mode := range []compliance.Mode{compliance.Strict, compliance.Relaxed} {
		_, err := ParsePublicKeyWithOptions(mustHex(t, offCurveHex), Options{Mode: mode})
		if !IsKind(err, KindPublicKey) || RuleID(err) != "EDSIG-KEY-002" {
			t.Fatalf("%s: expected EDSIG-KEY-002, got %v", mode, err)
		}
	}
}

func TestParsePublicKey_StrictRejectsNonCanonical(t *testing.T) {
	b := mustHex(t, nonCanonicalIdentityHex)
	_, err := ParsePublicKey(b)
	if RuleID(err) != "EDSIG-KEY-003" {
		t.Fatalf("expected EDSIG-KEY-003, got %v", err)
	}
	if _, err := ParsePublicKeyWithOptions(b, Options{Mode: compliance.Relaxed}); err != nil {
		t.Fatalf("relaxed: expected non-canonical encoding to parse, got %v", err)
	}
}

func TestParsePublicKey_StrictRejectsSmallOrder(t *testing.T) {
	// The identity and the all-zero encoding (a point of order 4).
	for _, h := range []string{identityHex, "0000000000000000000000000000000000000000000000000000000000000000"} {
		_, err := ParsePublicKey(mustHex(t, h))
		if RuleID(err) != "EDSIG-KEY-004" {
			t.Fatalf("%s: expected EDSIG-KEY-004, got %v", h, err)
		}
	}
}

func TestParseSignature_RejectsWrongLength(t *testing.T) {
	for n := 0; n <= 128; n++ {
		if n == SignatureSize {
			continue
		}
		_, err := ParseSignature(make([]byte, n))
		if !IsKind(err, KindSignature) {
			t.Fatalf("len %d: expected KindSignature, got %v", n, err)
		}
		if RuleID(err) != "EDSIG-SIG-001" {
			t.Fatalf("len %d: expected EDSIG-SIG-001, got %q", n, RuleID(err))
		}
	}
}

func TestParseSignature_RejectsNonCanonicalS(t *testing.T) {
	_, _, sig := vector(t)
	for _, s := range []string{orderHex, "ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff"} {
		bad := append(sig[:32:32], mustHex(t, s)...)
		for _, mode := range []compliance.Mode{compliance.Strict, compliance.Relaxed} {
			_, err := ParseSignatureWithOptions(bad, Options{Mode: mode})
			if !IsKind(err, KindSignature) || RuleID(err) != "EDSIG-SIG-002" {
				t.Fatalf("%s/%s: expected EDSIG-SIG-002, got %v", mode, s, err)
			}
		}
	}
}

func TestParseSignature_RejectsBadR(t *testing.T) {
	_, _, sig := vector(t)
	cases := []struct {
		r      string
		ruleID string
	}{
		{offCurveHex, "EDSIG-SIG-003"},
		{nonCanonicalIdentityHex, "EDSIG-SIG-004"},
		{identityHex, "EDSIG-SIG-005"},
	}
	for _, tc := range cases {
		bad := append(mustHex(t, tc.r), sig[32:]...)
		_, err := ParseSignature(bad)
		if !IsKind(err, KindSignature) || RuleID(err) != tc.ruleID {
			t.Fatalf("R=%s: expected %s, got %v", tc.r, tc.ruleID, err)
		}
	}
}

func TestError_UnwrapsCause(t *testing.T) {
	_, err := ParsePublicKey(mustHex(t, offCurveHex))
	var e *Error
	if !errors.As(err, &e) {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.Cause == nil || errors.Unwrap(err) == nil {
		t.Fatalf("expected wrapped decoding cause")
	}
	if RuleID(errors.New("plain")) != "" {
		t.Fatalf("expected empty RuleID for foreign errors")
	}
}
