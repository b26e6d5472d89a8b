package blobstore

import (
	"context"
	"errors"
	"testing"
)

func TestMemoryGetMissing(t *testing.T) {
	m := NewMemory()
	_, err := m.Get(context.Background(), "absent")
	if !errors.Is(err, ErrBlobNotFound) {
		t.Fatalf("expected ErrBlobNotFound, got %v", err)
	}
}

func TestMemoryPutGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	if err := m.Put(ctx, "prefs", []byte(`{"sound":true}`)); err != nil {
		t.Fatalf("put: %v", err)
	}
	data, err := m.Get(ctx, "prefs")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != `{"sound":true}` {
		t.Errorf("unexpected data %q", data)
	}
}

func TestMemoryPutOverwrites(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.Put(ctx, "k", []byte("one"))
	m.Put(ctx, "k", []byte("two"))
	data, err := m.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != "two" {
		t.Errorf("expected overwrite, got %q", data)
	}
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.Put(ctx, "k", []byte("v"))
	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := m.Get(ctx, "k"); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("expected ErrBlobNotFound after delete, got %v", err)
	}
	// deleting a missing key is not an error
	if err := m.Delete(ctx, "k"); err != nil {
		t.Errorf("second delete: %v", err)
	}
}

func TestMemoryGetReturnsCopy(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.Put(ctx, "k", []byte("abc"))
	data, _ := m.Get(ctx, "k")
	data[0] = 'x'
	again, _ := m.Get(ctx, "k")
	if string(again) != "abc" {
		t.Errorf("stored blob mutated through returned slice: %q", again)
	}
}
