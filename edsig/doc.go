// Package edsig verifies Ed25519 signatures.
//
// It parses raw 32-byte public keys and 64-byte R‖S signatures into validated
// types and evaluates the verification equation [S]B = R + [h]A with
// h = SHA-512(R ‖ A ‖ M) mod L.
//
// The acceptance policy is fixed by compliance.Mode. The zero value, Strict,
// rejects non-canonical encodings and small-order points; Relaxed implements
// ZIP-215 semantics. Key generation and signing are out of scope.
package edsig
