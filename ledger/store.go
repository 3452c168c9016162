package ledger

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/ipfs/go-cid"

	"xdao.co/edsig/storage"
	"xdao.co/edsig/storage/bundle"
)

// Store pairs snapshot content with instance heads.
type Store struct {
	CAS   storage.CAS
	Heads Heads
}

func NewStore(cas storage.CAS, heads Heads) *Store {
	return &Store{CAS: cas, Heads: heads}
}

// Create writes the initial snapshot of id.
func (s *Store) Create(id string, snapshot []byte) (cid.Cid, error) {
	c, err := s.put(snapshot)
	if err != nil {
		return cid.Undef, err
	}
	if err := s.Heads.Create(id, c); err != nil {
		return cid.Undef, err
	}
	return c, nil
}

// Load returns the current snapshot of id and its CID. The content is
// checked against the CID before it is returned.
func (s *Store) Load(id string) ([]byte, cid.Cid, error) {
	c, err := s.Heads.Head(id)
	if err != nil {
		return nil, cid.Undef, err
	}
	b, err := s.CAS.Get(c)
	if err != nil {
		return nil, cid.Undef, fmt.Errorf("ledger: load %s: %w", id, err)
	}
	if err := storage.VerifyCID(c, b); err != nil {
		return nil, cid.Undef, fmt.Errorf("ledger: load %s: %w", id, err)
	}
	return b, c, nil
}

// Commit writes a new snapshot of an existing instance and moves its head.
func (s *Store) Commit(id string, snapshot []byte) (cid.Cid, error) {
	c, err := s.put(snapshot)
	if err != nil {
		return cid.Undef, err
	}
	if err := s.Heads.Update(id, c); err != nil {
		return cid.Undef, err
	}
	return c, nil
}

// Export writes the current snapshot of each instance to w as a bundle
// labelled by instance id. With no ids, every instance is exported.
func (s *Store) Export(w io.Writer, ids ...string) error {
	if len(ids) == 0 {
		all, err := s.Heads.IDs()
		if err != nil {
			return err
		}
		ids = all
	}
	labels := make(map[string]cid.Cid, len(ids))
	for _, id := range ids {
		c, err := s.Heads.Head(id)
		if err != nil {
			return fmt.Errorf("ledger: export %s: %w", id, err)
		}
		labels[id] = c
	}
	return bundle.Export(w, s.CAS, nil, bundle.ExportOptions{Labels: labels})
}

// Import loads a bundle written by Export and creates one instance per label.
// Existing instances are not overwritten: the first conflict fails with
// ErrInstanceExists after the instances before it were created.
func (s *Store) Import(r io.Reader) ([]string, error) {
	contents, err := bundle.Import(r, s.CAS)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(contents.Labels))
	for id := range contents.Labels {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for i, id := range ids {
		if err := s.Heads.Create(id, contents.Labels[id]); err != nil {
			return ids[:i], fmt.Errorf("ledger: import %s: %w", id, err)
		}
	}
	return ids, nil
}

func (s *Store) Close() error {
	if s == nil || s.Heads == nil {
		return nil
	}
	return s.Heads.Close()
}

func (s *Store) put(snapshot []byte) (cid.Cid, error) {
	if s == nil || s.CAS == nil || s.Heads == nil {
		return cid.Undef, errors.New("ledger: store not configured")
	}
	c, err := s.CAS.Put(snapshot)
	if err != nil {
		return cid.Undef, fmt.Errorf("ledger: put snapshot: %w", err)
	}
	return c, nil
}
