package edsig

import (
	"crypto/sha512"
	"crypto/subtle"

	"filippo.io/edwards25519"

	"xdao.co/edsig/compliance"
)

// Verify reports whether sig is a valid signature of m by pk.
//
// pk and sig must have been parsed under the same mode; otherwise Verify
// returns false.
func (pk PublicKey) Verify(m Message, sig Signature) bool {
	return pk.check(m, sig) == nil
}

func (pk PublicKey) check(m Message, sig Signature) error {
	if pk.negA == nil || sig.rPoint == nil || sig.s == nil {
		return newError(KindMismatch, "EDSIG-VER-003", "unparsed public key or signature")
	}
	if pk.mode != sig.mode {
		return newError(KindMismatch, "EDSIG-VER-001", "public key and signature parsed under different modes")
	}

	h := sha512.New()
	h.Write(sig.r[:])
	h.Write(pk.enc[:])
	h.Write(m)
	var digest [sha512.Size]byte
	h.Sum(digest[:0])
	k, err := edwards25519.NewScalar().SetUniformBytes(digest[:])
	if err != nil {
		return wrapError(KindMismatch, "EDSIG-VER-002", "challenge reduction failed", err)
	}

	// R' = [S]B - [k]A
	R := new(edwards25519.Point).VarTimeDoubleScalarBaseMult(k, pk.negA, sig.s)

	switch pk.mode {
	case compliance.Relaxed:
		p := new(edwards25519.Point).Subtract(R, sig.rPoint)
		p.MultByCofactor(p)
		if p.Equal(edwards25519.NewIdentityPoint()) != 1 {
			return newError(KindMismatch, "EDSIG-VER-002", "signature does not satisfy the verification equation")
		}
	default:
		if subtle.ConstantTimeCompare(R.Bytes(), sig.r[:]) != 1 {
			return newError(KindMismatch, "EDSIG-VER-002", "signature does not satisfy the verification equation")
		}
	}
	return nil
}

// Verify parses publicKey and signature under the Strict policy and reports
// whether the signature is valid for message.
//
// Parse failures are returned as (false, err). A well-formed signature that
// does not verify is (false, nil).
func Verify(publicKey, message, signature []byte) (bool, error) {
	return VerifyWithOptions(publicKey, message, signature, Options{})
}

// VerifyWithOptions is Verify under opts.Mode.
func VerifyWithOptions(publicKey, message, signature []byte, opts Options) (bool, error) {
	pk, err := ParsePublicKeyWithOptions(publicKey, opts)
	if err != nil {
		return false, err
	}
	sig, err := ParseSignatureWithOptions(signature, opts)
	if err != nil {
		return false, err
	}
	return pk.Verify(message, sig), nil
}

// Valid is the entry point for untrusted input: every failure, including
// malformed encodings, is reported as false.
func Valid(publicKey, message, signature []byte) bool {
	ok, err := Verify(publicKey, message, signature)
	return err == nil && ok
}

// Check returns nil when signature is valid for message under publicKey and
// opts.Mode. Otherwise it returns a structured *Error; an equation mismatch is
// reported with KindMismatch.
func Check(publicKey, message, signature []byte, opts Options) error {
	pk, err := ParsePublicKeyWithOptions(publicKey, opts)
	if err != nil {
		return err
	}
	sig, err := ParseSignatureWithOptions(signature, opts)
	if err != nil {
		return err
	}
	return pk.check(message, sig)
}
