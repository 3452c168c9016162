// Package contract implements the flag contract: one persisted bool and a
// self-test that verifies a fixed Ed25519 vector.
//
// The contract holds no storage of its own. Constructors return a State and
// messages operate on the State they are handed; persistence and call
// ordering belong to the host.
package contract

import (
	"fmt"

	"xdao.co/edsig/compliance"
	"xdao.co/edsig/edsig"
)

// Options configures a Program.
type Options struct {
	// Vector overrides the embedded self-test vector when non-nil.
	Vector *Vector
	// Mode is the verification policy. The zero value is compliance.Strict.
	Mode compliance.Mode
}

// Program is the contract code. It is immutable and safe to share; the state
// it operates on is not.
type Program struct {
	publicKey edsig.PublicKey
	message   edsig.Message
	signature edsig.Signature
	mode      compliance.Mode
}

var defaultProgram = mustProgram(Options{})

func mustProgram(opts Options) *Program {
	p, err := NewProgram(opts)
	if err != nil {
		panic(err)
	}
	return p
}

// DefaultProgram returns the program built from the embedded vector under
// the Strict policy.
func DefaultProgram() *Program { return defaultProgram }

// NewProgram validates the self-test vector and returns a Program.
//
// A vector whose key or signature does not parse fails here, so
// VerificationTest never has to abort a call.
func NewProgram(opts Options) (*Program, error) {
	v := opts.Vector
	if v == nil {
		e := EmbeddedVector()
		v = &e
	}
	eo := edsig.Options{Mode: opts.Mode}
	pk, err := edsig.ParsePublicKeyWithOptions(v.PublicKey, eo)
	if err != nil {
		return nil, fmt.Errorf("contract: self-test public key: %w", err)
	}
	sig, err := edsig.ParseSignatureWithOptions(v.Signature, eo)
	if err != nil {
		return nil, fmt.Errorf("contract: self-test signature: %w", err)
	}
	msg := make(edsig.Message, len(v.Message))
	copy(msg, v.Message)
	return &Program{publicKey: pk, message: msg, signature: sig, mode: opts.Mode}, nil
}

// Mode returns the verification policy of p.
func (p *Program) Mode() compliance.Mode { return p.mode }

// New is the constructor that initializes the flag to initValue.
func New(initValue bool) State { return State{Value: initValue} }

// Default is the constructor equivalent to New(false).
func Default() State { return New(false) }

// New is the package constructor New, exposed on the program for dispatch.
func (p *Program) New(initValue bool) State { return New(initValue) }

// Default is the package constructor Default, exposed on the program for dispatch.
func (p *Program) Default() State { return Default() }

// Flip toggles the flag.
func (p *Program) Flip(s *State) { s.Value = !s.Value }

// Get returns the flag.
func (p *Program) Get(s *State) bool { return s.Value }

// VerificationTest verifies the program's self-test vector. It neither reads
// nor writes s.
func (p *Program) VerificationTest(s *State) bool {
	return p.publicKey.Verify(p.message, p.signature)
}
