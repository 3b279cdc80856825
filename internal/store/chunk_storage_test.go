package store

import (
	"bytes"
	"context"
	"errors"
	"testing"
)

func TestChunkKey_Layout(t *testing.T) {
	key := chunkKey(7, "collectionuid012345678901234567", "abcdef0123456789")
	want := "user_7/collectionuid012345678901234567/ab/cdef0123456789"
	if key != want {
		t.Errorf("expected key %q, got %q", want, key)
	}
}

func TestFSChunkStore_RoundTrip(t *testing.T) {
	store, err := NewFSChunkStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ctx := context.Background()

	key := chunkKey(1, "collectionuid012345678901234567", "chunkuid012345678901234567890123")
	body := []byte("encrypted chunk body")

	exists, err := store.Exists(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Fatal("chunk must not exist before Put")
	}

	if err = store.Put(ctx, key, body); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Equal(got, body) {
		t.Errorf("expected body %q, got %q", body, got)
	}

	exists, err = store.Exists(ctx, key)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("chunk must exist after Put")
	}
}

func TestFSChunkStore_GetMissing(t *testing.T) {
	store, err := NewFSChunkStore(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = store.Get(context.Background(), "user_1/nope/aa/bb")
	if !errors.Is(err, ErrChunkNotFound) {
		t.Fatalf("expected ErrChunkNotFound, got %v", err)
	}
}
