package contract

import (
	"bytes"
	"testing"

	"xdao.co/edsig/compliance"
	"xdao.co/edsig/edsig"
)

func TestDefault_IsFalse(t *testing.T) {
	s := Default()
	if DefaultProgram().Get(&s) {
		t.Fatalf("expected default() to initialize false")
	}
}

func TestNew_True(t *testing.T) {
	s := New(true)
	if !DefaultProgram().Get(&s) {
		t.Fatalf("expected new(true).get() == true")
	}
}

func TestFlip_Works(t *testing.T) {
	p := DefaultProgram()
	s := p.New(false)
	if p.Get(&s) {
		t.Fatalf("expected false before flip")
	}
	p.Flip(&s)
	if !p.Get(&s) {
		t.Fatalf("expected true after flip")
	}
}

func TestFlip_Involution(t *testing.T) {
	p := DefaultProgram()
	for _, b := range []bool{false, true} {
		s := p.New(b)
		p.Flip(&s)
		p.Flip(&s)
		if p.Get(&s) != b {
			t.Fatalf("new(%v) flip flip: got %v", b, p.Get(&s))
		}
	}
}

func TestVerificationTest_EmbeddedVector(t *testing.T) {
	p := DefaultProgram()
	s := p.Default()
	if !p.VerificationTest(&s) {
		t.Fatalf("expected embedded vector to verify")
	}
	if s.Value {
		t.Fatalf("verification_test must not touch the flag")
	}
}

func TestVerificationTest_CorruptedVector(t *testing.T) {
	base := EmbeddedVector()
	for i := range base.Signature {
		v := EmbeddedVector()
		v.Signature = bytes.Clone(base.Signature)
		v.Signature[i] ^= 0x01
		p, err := NewProgram(Options{Vector: &v})
		if err != nil {
			// A corrupted vector that no longer parses is rejected at construction.
			if !edsig.IsKind(err, edsig.KindSignature) {
				t.Fatalf("byte %d: unexpected construction error %v", i, err)
			}
			continue
		}
		s := p.Default()
		if p.VerificationTest(&s) {
			t.Fatalf("byte %d: corrupted vector verified", i)
		}
	}
}

func TestNewProgram_RejectsMalformedVector(t *testing.T) {
	v := EmbeddedVector()
	v.Signature = v.Signature[:63]
	if _, err := NewProgram(Options{Vector: &v}); !edsig.IsKind(err, edsig.KindSignature) {
		t.Fatalf("expected KindSignature, got %v", err)
	}

	v = EmbeddedVector()
	v.PublicKey = make([]byte, 31)
	if _, err := NewProgram(Options{Vector: &v}); !edsig.IsKind(err, edsig.KindPublicKey) {
		t.Fatalf("expected KindPublicKey, got %v", err)
	}
}

func TestNewProgram_RelaxedMode(t *testing.T) {
	p, err := NewProgram(Options{Mode: compliance.Relaxed})
	if err != nil {
		t.Fatalf("NewProgram: %v", err)
	}
	if p.Mode() != compliance.Relaxed {
		t.Fatalf("unexpected mode %s", p.Mode())
	}
	s := p.Default()
	if !p.VerificationTest(&s) {
		t.Fatalf("expected embedded vector to verify under relaxed mode")
	}
}

func TestEmbeddedVector_IsACopy(t *testing.T) {
	v := EmbeddedVector()
	v.Message[0] ^= 0xff
	if EmbeddedVector().Message[0] == v.Message[0] {
		t.Fatalf("EmbeddedVector returned shared backing storage")
	}
	if len(v.Message) != 64 || len(v.Signature) != 64 || len(v.PublicKey) != 32 {
		t.Fatalf("unexpected vector sizes")
	}
}

func TestParseVector_RejectsBadHex(t *testing.T) {
	if _, err := ParseVector("zz", "m", "00"); err == nil {
		t.Fatalf("expected public key hex error")
	}
	if _, err := ParseVector("00", "m", "zz"); err == nil {
		t.Fatalf("expected signature hex error")
	}
}

func TestState_MarshalRoundTrip(t *testing.T) {
	for _, v := range []bool{false, true} {
		b, err := State{Value: v}.Marshal()
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		got, err := UnmarshalState(b)
		if err != nil {
			t.Fatalf("UnmarshalState: %v", err)
		}
		if got.Value != v {
			t.Fatalf("round trip: got %v want %v", got.Value, v)
		}
	}
	if _, err := UnmarshalState([]byte{0xff}); err == nil {
		t.Fatalf("expected decode error for garbage snapshot")
	}
}
