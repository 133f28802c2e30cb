package snapshot

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemoryStore_PutGetList(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	at := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	key := Key("csv", "default", at)
	if want := "csv/default/20260825T120000Z"; key != want {
		t.Fatalf("unexpected key %q, want %q", key, want)
	}

	if err := store.Put(ctx, key, "text/csv", []byte("url\nx\n")); err != nil {
		t.Fatalf("put: %v", err)
	}
	data, err := store.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != "url\nx\n" {
		t.Fatalf("unexpected content %q", data)
	}

	keys, err := store.List(ctx, "csv/default/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != 1 || keys[0] != key {
		t.Fatalf("unexpected listing %v", keys)
	}
	if keys, _ := store.List(ctx, "report/"); len(keys) != 0 {
		t.Fatalf("prefix filter leaked: %v", keys)
	}
}

func TestMemoryStore_GetMissing(t *testing.T) {
	store := NewMemoryStore()
	if _, err := store.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemoryStore_ContentIsCopied(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	buf := []byte("original")
	if err := store.Put(ctx, "k", "", buf); err != nil {
		t.Fatalf("put: %v", err)
	}
	buf[0] = 'X'
	data, err := store.Get(ctx, "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if string(data) != "original" {
		t.Fatalf("stored content aliased the caller's buffer: %q", data)
	}
}
