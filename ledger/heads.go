// Package ledger tracks the current state snapshot of every contract instance.
//
// Snapshots themselves are immutable objects in a storage.CAS. Heads is the
// only mutable piece: it maps an instance id to the CID of its latest snapshot.
// An instance with no head is uninitialized.
package ledger

import (
	"errors"
	"sort"
	"sync"

	"github.com/ipfs/go-cid"
)

var (
	ErrNoInstance     = errors.New("ledger: no such instance")
	ErrInstanceExists = errors.New("ledger: instance already exists")
)

// Heads is the instance-id to snapshot-CID index.
type Heads interface {
	// Head returns the current snapshot CID, or ErrNoInstance.
	Head(id string) (cid.Cid, error)
	// Create records the first snapshot of id. It fails with ErrInstanceExists
	// if id already has a head.
	Create(id string, c cid.Cid) error
	// Update moves an existing head. It fails with ErrNoInstance if id has none.
	Update(id string, c cid.Cid) error
	// IDs lists every instance id in sorted order.
	IDs() ([]string, error)
	Close() error
}

// MemoryHeads is an in-process Heads.
type MemoryHeads struct {
	mu    sync.RWMutex
	heads map[string]cid.Cid
}

var _ Heads = (*MemoryHeads)(nil)

func NewMemoryHeads() *MemoryHeads {
	return &MemoryHeads{heads: map[string]cid.Cid{}}
}

func (m *MemoryHeads) Head(id string) (cid.Cid, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.heads[id]
	if !ok {
		return cid.Undef, ErrNoInstance
	}
	return c, nil
}

func (m *MemoryHeads) Create(id string, c cid.Cid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.heads[id]; ok {
		return ErrInstanceExists
	}
	m.heads[id] = c
	return nil
}

func (m *MemoryHeads) Update(id string, c cid.Cid) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.heads[id]; !ok {
		return ErrNoInstance
	}
	m.heads[id] = c
	return nil
}

func (m *MemoryHeads) IDs() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.heads))
	for id := range m.heads {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryHeads) Close() error { return nil }
