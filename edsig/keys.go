package edsig

import (
	"bytes"

	"filippo.io/edwards25519"

	"xdao.co/edsig/compliance"
)

const (
	// PublicKeySize is the size of an encoded public key.
	PublicKeySize = 32
	// SignatureSize is the size of an encoded R‖S signature.
	SignatureSize = 64
)

// Options controls parsing and verification policy.
//
// The zero value selects compliance.Strict.
type Options struct {
	Mode compliance.Mode
}

// Message is the opaque byte string a signature covers.
type Message []byte

// PublicKey is a parsed Ed25519 public key.
//
// The zero value is not a valid key and verifies nothing.
type PublicKey struct {
	enc  [PublicKeySize]byte
	negA *edwards25519.Point
	mode compliance.Mode
}

// Signature is a parsed Ed25519 signature: the R point and the S scalar.
//
// The zero value is not a valid signature and verifies nothing.
type Signature struct {
	r      [32]byte
	rPoint *edwards25519.Point
	s      *edwards25519.Scalar
	mode   compliance.Mode
}

// ParsePublicKey parses a 32-byte public key under the Strict policy.
func ParsePublicKey(b []byte) (PublicKey, error) {
	return ParsePublicKeyWithOptions(b, Options{})
}

// ParsePublicKeyWithOptions parses a 32-byte public key under opts.Mode.
func ParsePublicKeyWithOptions(b []byte, opts Options) (PublicKey, error) {
	if len(b) != PublicKeySize {
		return PublicKey{}, newError(KindPublicKey, "EDSIG-KEY-001", "invalid public key length")
	}
	A, err := new(edwards25519.Point).SetBytes(b)
	if err != nil {
		return PublicKey{}, wrapError(KindPublicKey, "EDSIG-KEY-002", "public key is not a curve point", err)
	}
	if opts.Mode == compliance.Strict {
		if !bytes.Equal(A.Bytes(), b) {
			return PublicKey{}, newError(KindPublicKey, "EDSIG-KEY-003", "non-canonical public key encoding")
		}
		if hasSmallOrder(A) {
			return PublicKey{}, newError(KindPublicKey, "EDSIG-KEY-004", "public key has small order")
		}
	}
	pk := PublicKey{negA: new(edwards25519.Point).Negate(A), mode: opts.Mode}
	copy(pk.enc[:], b)
	return pk, nil
}

// Bytes returns the encoding the key was parsed from.
func (pk PublicKey) Bytes() []byte {
	out := make([]byte, PublicKeySize)
	copy(out, pk.enc[:])
	return out
}

// Mode returns the policy the key was parsed under.
func (pk PublicKey) Mode() compliance.Mode { return pk.mode }

// ParseSignature parses a 64-byte R‖S signature under the Strict policy.
func ParseSignature(b []byte) (Signature, error) {
	return ParseSignatureWithOptions(b, Options{})
}

// ParseSignatureWithOptions parses a 64-byte R‖S signature under opts.Mode.
//
// S must be a canonical little-endian scalar below the group order in every mode.
func ParseSignatureWithOptions(b []byte, opts Options) (Signature, error) {
	if len(b) != SignatureSize {
		return Signature{}, newError(KindSignature, "EDSIG-SIG-001", "invalid signature length")
	}
	s, err := edwards25519.NewScalar().SetCanonicalBytes(b[32:])
	if err != nil {
		return Signature{}, wrapError(KindSignature, "EDSIG-SIG-002", "non-canonical S scalar", err)
	}
	R, err := new(edwards25519.Point).SetBytes(b[:32])
	if err != nil {
		return Signature{}, wrapError(KindSignature, "EDSIG-SIG-003", "R is not a curve point", err)
	}
	if opts.Mode == compliance.Strict {
		if !bytes.Equal(R.Bytes(), b[:32]) {
			return Signature{}, newError(KindSignature, "EDSIG-SIG-004", "non-canonical R encoding")
		}
		if hasSmallOrder(R) {
			return Signature{}, newError(KindSignature, "EDSIG-SIG-005", "R has small order")
		}
	}
	sig := Signature{rPoint: R, s: s, mode: opts.Mode}
	copy(sig.r[:], b[:32])
	return sig, nil
}

// Bytes returns the R‖S encoding the signature was parsed from.
func (sig Signature) Bytes() []byte {
	out := make([]byte, SignatureSize)
	copy(out, sig.r[:])
	if sig.s != nil {
		copy(out[32:], sig.s.Bytes())
	}
	return out
}

// Mode returns the policy the signature was parsed under.
func (sig Signature) Mode() compliance.Mode { return sig.mode }

func hasSmallOrder(p *edwards25519.Point) bool {
	return new(edwards25519.Point).MultByCofactor(p).Equal(edwards25519.NewIdentityPoint()) == 1
}
