package contract

import (
	"encoding/hex"
	"fmt"
)

// Vector is the fixed (public key, message, signature) triple checked by
// the verification_test message.
type Vector struct {
	PublicKey []byte
	Message   []byte
	Signature []byte
}

const (
	embeddedPublicKey = "7ffc61177fc35cccdf6342afb4afe1bd1895595d09614e47239718deca194d2e"
	embeddedMessage   = "fac63733b4279c7dd38567f45622c3dfde80eb918cf0a0780658d4382add82c3"
	embeddedSignature = "e8470e6054bdb602d9cdcdb1d5f476eef06bf7b3b0282576d25c76995fcafec9" +
		"023353c73050ad532c7d9b364e78715677148fdba8a9459808e5905f6915c10a"
)

// EmbeddedVector returns a copy of the vector compiled into the contract.
// The message is the 64 ASCII bytes of a hex digest, not the decoded digest.
func EmbeddedVector() Vector {
	v, err := ParseVector(embeddedPublicKey, embeddedMessage, embeddedSignature)
	if err != nil {
		panic(err)
	}
	return v
}

// ParseVector builds a Vector from a hex public key, a text message and a hex
// signature. Only the hex encoding is checked here; NewProgram validates the
// key and signature themselves.
func ParseVector(publicKeyHex, message, signatureHex string) (Vector, error) {
	pub, err := hex.DecodeString(publicKeyHex)
	if err != nil {
		return Vector{}, fmt.Errorf("contract: vector public key: %w", err)
	}
	sig, err := hex.DecodeString(signatureHex)
	if err != nil {
		return Vector{}, fmt.Errorf("contract: vector signature: %w", err)
	}
	return Vector{PublicKey: pub, Message: []byte(message), Signature: sig}, nil
}
