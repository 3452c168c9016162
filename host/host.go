// Package host runs contract instances: it routes constructors and messages
// by name or selector, loads and persists state snapshots through a
// ledger.Store, and serializes calls per instance.
package host

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"xdao.co/edsig/abi"
	"xdao.co/edsig/internal/logging"
	"xdao.co/edsig/ledger"
)

// Host drives one contract over many instances.
type Host struct {
	contract abi.Contract
	meta     abi.Metadata
	store    *ledger.Store
	log      *logging.Logger
	newID    func() string

	mu    sync.Mutex
	locks map[string]*instanceLock
}

type instanceLock struct {
	sync.Mutex
	refs int
}

type Option func(*Host)

func WithLogger(l *logging.Logger) Option {
	return func(h *Host) {
		if l != nil {
			h.log = l
		}
	}
}

// WithIDGenerator overrides the instance id source (UUIDv4 by default).
func WithIDGenerator(fn func() string) Option {
	return func(h *Host) {
		if fn != nil {
			h.newID = fn
		}
	}
}

func New(contract abi.Contract, store *ledger.Store, opts ...Option) *Host {
	h := &Host{
		contract: contract,
		meta:     contract.Metadata(),
		store:    store,
		log:      logging.Nop(),
		newID:    uuid.NewString,
		locks:    map[string]*instanceLock{},
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Metadata returns the hosted contract's callable surface.
func (h *Host) Metadata() abi.Metadata { return h.meta }

// Instantiate runs a constructor under a fresh instance id.
func (h *Host) Instantiate(ctx context.Context, constructor string, args []byte) (string, error) {
	id := h.newID()
	if err := h.InstantiateAs(ctx, id, constructor, args); err != nil {
		return "", err
	}
	return id, nil
}

// InstantiateAs runs a constructor for id. An id can be constructed once.
func (h *Host) InstantiateAs(ctx context.Context, id, constructor string, args []byte) (err error) {
	if err := checkID(id); err != nil {
		return err
	}
	entry, err := h.meta.Lookup(abi.KindConstructor, constructor)
	if err != nil {
		return err
	}

	start := time.Now()
	defer func() { h.logDispatch(id, entry, start, true, err) }()

	unlock := h.lock(id)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := h.store.Heads.Head(id); err == nil {
		return fmt.Errorf("%w: %s", ErrAlreadyInitialized, id)
	} else if !errors.Is(err, ledger.ErrNoInstance) {
		return err
	}

	var state []byte
	if err := guard(func() (err error) {
		state, err = h.contract.Construct(entry.Selector, args)
		return err
	}); err != nil {
		return err
	}

	if _, err := h.store.Create(id, state); err != nil {
		if errors.Is(err, ledger.ErrInstanceExists) {
			return fmt.Errorf("%w: %s", ErrAlreadyInitialized, id)
		}
		return err
	}
	return nil
}

// Call runs a message against instance id and returns its encoded output.
// State is persisted only when the message reports a mutation.
func (h *Host) Call(ctx context.Context, id, message string, args []byte) (out []byte, err error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	entry, err := h.meta.Lookup(abi.KindMessage, message)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var mutated bool
	defer func() { h.logDispatch(id, entry, start, mutated, err) }()

	unlock := h.lock(id)
	defer unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	state, _, err := h.store.Load(id)
	if errors.Is(err, ledger.ErrNoInstance) {
		return nil, fmt.Errorf("%w: %s", ErrUninitialized, id)
	}
	if err != nil {
		return nil, err
	}

	var res abi.Result
	if err := guard(func() (err error) {
		res, err = h.contract.Call(entry.Selector, state, args)
		return err
	}); err != nil {
		return nil, err
	}

	if res.Mutated {
		if _, err := h.store.Commit(id, res.State); err != nil {
			return nil, err
		}
		mutated = true
	}
	return res.Output, nil
}

// checkID rejects ids that could not be routed back verbatim.
func checkID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty instance id", ErrInvalidArgs)
	}
	if strings.TrimSpace(id) != id {
		return fmt.Errorf("%w: instance id %q has surrounding whitespace", ErrInvalidArgs, id)
	}
	return nil
}

// guard converts a contract panic into ErrAborted.
func guard(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrAborted, r)
		}
	}()
	return fn()
}

func (h *Host) lock(id string) func() {
	h.mu.Lock()
	l, ok := h.locks[id]
	if !ok {
		l = &instanceLock{}
		h.locks[id] = l
	}
	l.refs++
	h.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		h.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(h.locks, id)
		}
		h.mu.Unlock()
	}
}

func (h *Host) logDispatch(id string, e abi.Entry, start time.Time, mutated bool, err error) {
	kv := []interface{}{
		"instance", id,
		"kind", string(e.Kind),
		"entry", e.Name,
		"selector", e.Selector.String(),
		"duration", time.Since(start),
	}
	if err != nil {
		h.log.Error(err, "dispatch failed", kv...)
		return
	}
	h.log.Info("dispatch", append(kv, "mutated", mutated)...)
}
