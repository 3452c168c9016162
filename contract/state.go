package contract

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// State is the persisted storage of one contract instance.
type State struct {
	Value bool
}

// Marshal returns the deterministic snapshot encoding of s.
func (s State) Marshal() ([]byte, error) {
	return proto.MarshalOptions{Deterministic: true}.Marshal(wrapperspb.Bool(s.Value))
}

// UnmarshalState decodes a snapshot produced by State.Marshal.
func UnmarshalState(b []byte) (State, error) {
	var v wrapperspb.BoolValue
	if err := proto.Unmarshal(b, &v); err != nil {
		return State{}, fmt.Errorf("contract: decode state: %w", err)
	}
	return State{Value: v.GetValue()}, nil
}
