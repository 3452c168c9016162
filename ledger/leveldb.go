package ledger

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ipfs/go-cid"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const headPrefix = "head:"

// LevelDBHeads persists heads in a LevelDB database.
//
// Keys are "head:"+id; values are the binary CID.
type LevelDBHeads struct {
	// mu makes the existence check and write in Create/Update atomic.
	mu sync.Mutex
	db *leveldb.DB
}

var _ Heads = (*LevelDBHeads)(nil)

func OpenLevelDBHeads(path string) (*LevelDBHeads, error) {
	if path == "" {
		return nil, errors.New("ledger: empty leveldb path")
	}
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("ledger: open leveldb: %w", err)
	}
	return &LevelDBHeads{db: db}, nil
}

func key(id string) []byte { return []byte(headPrefix + id) }

func (l *LevelDBHeads) Head(id string) (cid.Cid, error) {
	b, err := l.db.Get(key(id), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return cid.Undef, ErrNoInstance
	}
	if err != nil {
		return cid.Undef, err
	}
	c, err := cid.Cast(b)
	if err != nil {
		return cid.Undef, fmt.Errorf("ledger: corrupt head for %q: %w", id, err)
	}
	return c, nil
}

func (l *LevelDBHeads) Create(id string, c cid.Cid) error {
	return l.put(id, c, false)
}

func (l *LevelDBHeads) Update(id string, c cid.Cid) error {
	return l.put(id, c, true)
}

func (l *LevelDBHeads) put(id string, c cid.Cid, mustExist bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	exists, err := l.db.Has(key(id), nil)
	if err != nil {
		return err
	}
	switch {
	case mustExist && !exists:
		return ErrNoInstance
	case !mustExist && exists:
		return ErrInstanceExists
	}
	return l.db.Put(key(id), c.Bytes(), nil)
}

// IDs scans the head prefix; LevelDB iterates keys in sorted order.
func (l *LevelDBHeads) IDs() ([]string, error) {
	iter := l.db.NewIterator(util.BytesPrefix([]byte(headPrefix)), nil)
	defer iter.Release()

	var ids []string
	for iter.Next() {
		ids = append(ids, string(iter.Key()[len(headPrefix):]))
	}
	return ids, iter.Error()
}

func (l *LevelDBHeads) Close() error {
	return l.db.Close()
}
