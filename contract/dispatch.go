package contract

import (
	"fmt"

	"xdao.co/edsig/abi"
)

// Name is the contract name reported in metadata.
const Name = "ed_signature_test"

var (
	selNew              = abi.SelectorFor("new")
	selDefault          = abi.SelectorFor("default")
	selFlip             = abi.SelectorFor("flip")
	selGet              = abi.SelectorFor("get")
	selVerificationTest = abi.SelectorFor("verification_test")
)

var _ abi.Contract = (*Program)(nil)

// Metadata lists the constructors and messages of the contract.
func (p *Program) Metadata() abi.Metadata {
	return abi.Metadata{
		Name: Name,
		Entries: []abi.Entry{
			{Kind: abi.KindConstructor, Name: "new", Selector: selNew, Mutates: true, Args: []abi.Arg{{Name: "init_value", Type: "bool"}}},
			{Kind: abi.KindConstructor, Name: "default", Selector: selDefault, Mutates: true},
			{Kind: abi.KindMessage, Name: "flip", Selector: selFlip, Mutates: true},
			{Kind: abi.KindMessage, Name: "get", Selector: selGet, Returns: "bool"},
			{Kind: abi.KindMessage, Name: "verification_test", Selector: selVerificationTest, Returns: "bool"},
		},
	}
}

// Construct runs a constructor and returns the initial state snapshot.
func (p *Program) Construct(sel abi.Selector, args []byte) ([]byte, error) {
	var s State
	switch sel {
	case selNew:
		v, err := abi.DecodeBool(args)
		if err != nil {
			return nil, err
		}
		s = p.New(v)
	case selDefault:
		if err := abi.ExpectNoArgs(args); err != nil {
			return nil, err
		}
		s = p.Default()
	default:
		return nil, fmt.Errorf("%w: constructor %s", abi.ErrUnknownEntry, sel)
	}
	return s.Marshal()
}

// Call runs a message against a state snapshot.
func (p *Program) Call(sel abi.Selector, state []byte, args []byte) (abi.Result, error) {
	if err := abi.ExpectNoArgs(args); err != nil {
		return abi.Result{}, err
	}
	s, err := UnmarshalState(state)
	if err != nil {
		return abi.Result{}, err
	}
	switch sel {
	case selFlip:
		p.Flip(&s)
		next, err := s.Marshal()
		if err != nil {
			return abi.Result{}, err
		}
		return abi.Result{Mutated: true, State: next}, nil
	case selGet:
		return abi.Result{Output: abi.EncodeBool(p.Get(&s))}, nil
	case selVerificationTest:
		return abi.Result{Output: abi.EncodeBool(p.VerificationTest(&s))}, nil
	default:
		return abi.Result{}, fmt.Errorf("%w: message %s", abi.ErrUnknownEntry, sel)
	}
}
