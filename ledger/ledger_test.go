package ledger

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/ipfs/go-cid"

	"xdao.co/edsig/storage"
	"xdao.co/edsig/storage/memory"
)

func runHeads(t *testing.T, h Heads) {
	t.Helper()
	a, _ := storage.SumCID([]byte{})
	b, _ := storage.SumCID([]byte{0x08, 0x01})

	if _, err := h.Head("x"); !errors.Is(err, ErrNoInstance) {
		t.Fatalf("Head on empty: %v", err)
	}
	if err := h.Update("x", a); !errors.Is(err, ErrNoInstance) {
		t.Fatalf("Update before Create: %v", err)
	}
	if err := h.Create("x", a); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := h.Create("x", b); !errors.Is(err, ErrInstanceExists) {
		t.Fatalf("second Create: %v", err)
	}
	if err := h.Update("x", b); err != nil {
		t.Fatalf("Update: %v", err)
	}
	got, err := h.Head("x")
	if err != nil {
		t.Fatalf("Head: %v", err)
	}
	if !got.Equals(b) {
		t.Fatalf("head = %s, want %s", got, b)
	}
}

func TestMemoryHeads(t *testing.T) {
	runHeads(t, NewMemoryHeads())
}

func TestLevelDBHeads(t *testing.T) {
	h, err := OpenLevelDBHeads(filepath.Join(t.TempDir(), "heads"))
	if err != nil {
		t.Fatalf("OpenLevelDBHeads: %v", err)
	}
	defer h.Close()
	runHeads(t, h)
}

func TestLevelDBHeads_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heads")
	c, _ := storage.SumCID([]byte{0x08, 0x01})

	h, err := OpenLevelDBHeads(path)
	if err != nil {
		t.Fatalf("OpenLevelDBHeads: %v", err)
	}
	if err := h.Create("x", c); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	h, err = OpenLevelDBHeads(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer h.Close()
	got, err := h.Head("x")
	if err != nil || !got.Equals(c) {
		t.Fatalf("Head after reopen = %s, %v", got, err)
	}
}

func TestStore_Lifecycle(t *testing.T) {
	s := NewStore(memory.New(), NewMemoryHeads())

	c0, err := s.Create("x", []byte{})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := s.Create("x", []byte{}); !errors.Is(err, ErrInstanceExists) {
		t.Fatalf("second Create: %v", err)
	}
	c1, err := s.Commit("x", []byte{0x08, 0x01})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if c0.Equals(c1) {
		t.Fatalf("distinct snapshots share a CID")
	}
	b, c, err := s.Load("x")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !c.Equals(c1) || string(b) != "\x08\x01" {
		t.Fatalf("Load = %x @ %s", b, c)
	}
	if _, err := s.Commit("y", nil); !errors.Is(err, ErrNoInstance) {
		t.Fatalf("Commit unknown: %v", err)
	}
	if _, _, err := s.Load("y"); !errors.Is(err, ErrNoInstance) {
		t.Fatalf("Load unknown: %v", err)
	}
}

type corruptCAS struct{ storage.CAS }

func (corruptCAS) Get(cid.Cid) ([]byte, error) { return []byte("tampered"), nil }

func TestStore_LoadDetectsCorruption(t *testing.T) {
	inner := memory.New()
	s := NewStore(inner, NewMemoryHeads())
	if _, err := s.Create("x", []byte{0x08, 0x01}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	s.CAS = corruptCAS{inner}
	if _, _, err := s.Load("x"); !errors.Is(err, storage.ErrCIDMismatch) {
		t.Fatalf("expected ErrCIDMismatch, got %v", err)
	}
}

func TestHeads_IDs(t *testing.T) {
	c, _ := storage.SumCID([]byte{})
	ldb, err := OpenLevelDBHeads(filepath.Join(t.TempDir(), "heads"))
	if err != nil {
		t.Fatalf("OpenLevelDBHeads: %v", err)
	}
	defer ldb.Close()

	for _, h := range []Heads{NewMemoryHeads(), ldb} {
		for _, id := range []string{"b", "a", "c"} {
			if err := h.Create(id, c); err != nil {
				t.Fatalf("Create: %v", err)
			}
		}
		ids, err := h.IDs()
		if err != nil {
			t.Fatalf("IDs: %v", err)
		}
		if len(ids) != 3 || ids[0] != "a" || ids[2] != "c" {
			t.Fatalf("IDs = %v", ids)
		}
	}
}

func TestStore_ExportImport(t *testing.T) {
	src := NewStore(memory.New(), NewMemoryHeads())
	if _, err := src.Create("on", []byte{0x08, 0x01}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := src.Create("off", []byte{}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	var buf bytes.Buffer
	if err := src.Export(&buf); err != nil {
		t.Fatalf("Export: %v", err)
	}
	archive := buf.Bytes()

	dst := NewStore(memory.New(), NewMemoryHeads())
	ids, err := dst.Import(bytes.NewReader(archive))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if len(ids) != 2 || ids[0] != "off" || ids[1] != "on" {
		t.Fatalf("imported ids = %v", ids)
	}
	b, _, err := dst.Load("on")
	if err != nil || !bytes.Equal(b, []byte{0x08, 0x01}) {
		t.Fatalf("Load(on) = %x, %v", b, err)
	}

	if _, err := dst.Import(bytes.NewReader(archive)); !errors.Is(err, ErrInstanceExists) {
		t.Fatalf("re-import: expected ErrInstanceExists, got %v", err)
	}
	if err := src.Export(&buf, "missing"); !errors.Is(err, ErrNoInstance) {
		t.Fatalf("export unknown: expected ErrNoInstance, got %v", err)
	}
}
