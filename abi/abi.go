// Package abi describes the callable surface of a contract: selectors,
// entry metadata and the argument/return encoding.
//
// Selectors follow the ink! convention: the first four bytes of
// BLAKE2b-256 over the entry name.
package abi

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/blake2b"
)

var (
	ErrUnknownEntry = errors.New("abi: unknown entry")
	ErrInvalidArgs  = errors.New("abi: invalid arguments")
)

// Selector identifies a constructor or message.
type Selector [4]byte

// SelectorFor derives the selector of an entry name.
func SelectorFor(name string) Selector {
	sum := blake2b.Sum256([]byte(name))
	var s Selector
	copy(s[:], sum[:4])
	return s
}

// ParseSelector parses "0x"-prefixed (or bare) 8-digit hex.
func ParseSelector(s string) (Selector, error) {
	var sel Selector
	raw := strings.TrimPrefix(strings.TrimSpace(s), "0x")
	if len(raw) != 2*len(sel) {
		return sel, fmt.Errorf("abi: selector must be %d hex digits", 2*len(sel))
	}
	if _, err := hex.Decode(sel[:], []byte(raw)); err != nil {
		return sel, fmt.Errorf("abi: invalid selector: %w", err)
	}
	return sel, nil
}

func (s Selector) String() string { return "0x" + hex.EncodeToString(s[:]) }

// EntryKind distinguishes constructors from messages.
type EntryKind string

const (
	KindConstructor EntryKind = "constructor"
	KindMessage     EntryKind = "message"
)

// Entry describes one callable.
type Entry struct {
	Kind     EntryKind
	Name     string
	Selector Selector
	// Mutates reports whether a message may write state. Always true for constructors.
	Mutates bool
	Args    []Arg
	Returns string
}

// Arg names one positional argument and its type.
type Arg struct {
	Name string
	Type string
}

// Metadata is the full callable surface of a contract.
type Metadata struct {
	Name    string
	Entries []Entry
}

// Lookup resolves ident (an entry name or a hex selector) to an entry of kind.
func (m Metadata) Lookup(kind EntryKind, ident string) (Entry, error) {
	ident = strings.TrimSpace(ident)
	var sel Selector
	byName := true
	if strings.HasPrefix(ident, "0x") {
		s, err := ParseSelector(ident)
		if err != nil {
			return Entry{}, fmt.Errorf("%w: %v", ErrUnknownEntry, err)
		}
		sel = s
		byName = false
	}
	for _, e := range m.Entries {
		if e.Kind != kind {
			continue
		}
		if (byName && e.Name == ident) || (!byName && e.Selector == sel) {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s %q", ErrUnknownEntry, kind, ident)
}

// Result is the outcome of a message call.
type Result struct {
	// Mutated reports whether State holds a new snapshot to persist.
	Mutated bool
	State   []byte
	Output  []byte
}

// Contract is the dispatch surface a host drives. State is exchanged as
// opaque snapshots.
type Contract interface {
	Metadata() Metadata
	Construct(sel Selector, args []byte) (state []byte, err error)
	Call(sel Selector, state []byte, args []byte) (Result, error)
}
