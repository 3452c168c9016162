package memory

import (
	"testing"

	"xdao.co/edsig/storage"
	"xdao.co/edsig/storage/testkit"
)

func TestMemory_Conformance(t *testing.T) {
	testkit.RunCASConformance(t, func(t *testing.T) storage.CAS { return New() })
}

func TestMemory_ReturnsCopies(t *testing.T) {
	cas := New()
	in := []byte{1, 2, 3}
	id, err := cas.Put(in)
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	in[0] = 9
	got, err := cas.Get(id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got[0] != 1 {
		t.Fatalf("stored object aliased caller buffer")
	}
	got[1] = 9
	again, _ := cas.Get(id)
	if again[1] != 2 {
		t.Fatalf("Get returned shared storage")
	}
	if cas.Len() != 1 {
		t.Fatalf("expected 1 object, got %d", cas.Len())
	}
}

func TestMemory_EmptySnapshot(t *testing.T) {
	cas := New()
	id, err := cas.Put(nil)
	if err != nil {
		t.Fatalf("Put(nil): %v", err)
	}
	if !cas.Has(id) {
		t.Fatalf("expected empty snapshot to be stored")
	}
	b, err := cas.Get(id)
	if err != nil || len(b) != 0 {
		t.Fatalf("Get empty: (%v, %v)", b, err)
	}
}
