package abi

import "fmt"

// EncodeBool encodes a bool as a single byte.
func EncodeBool(v bool) []byte {
	if v {
		return []byte{1}
	}
	return []byte{0}
}

// DecodeBool decodes exactly one byte, 0x00 or 0x01.
func DecodeBool(b []byte) (bool, error) {
	if len(b) != 1 {
		return false, fmt.Errorf("%w: bool must be 1 byte, got %d", ErrInvalidArgs, len(b))
	}
	switch b[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: invalid bool byte %#x", ErrInvalidArgs, b[0])
	}
}

// ExpectNoArgs rejects a non-empty argument payload.
func ExpectNoArgs(b []byte) error {
	if len(b) != 0 {
		return fmt.Errorf("%w: expected no arguments, got %d bytes", ErrInvalidArgs, len(b))
	}
	return nil
}
