package storage

import (
	"context"
	"errors"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}

	ok, err := store.Exists(ctx, "indexes/abc12345678.gob")
	if err != nil || ok {
		t.Fatalf("Exists() before Put = %v, %v", ok, err)
	}
	if _, err := store.Get(ctx, "indexes/abc12345678.gob"); !errors.Is(err, ErrObjectNotFound) {
		t.Fatalf("Get() missing error = %v, want ErrObjectNotFound", err)
	}

	if err := store.Put(ctx, "indexes/abc12345678.gob", []byte("payload")); err != nil {
		t.Fatalf("Put() error: %v", err)
	}
	if err := store.Put(ctx, "indexes/abc12345678.gob", []byte("payload v2")); err != nil {
		t.Fatalf("Put() overwrite error: %v", err)
	}

	data, err := store.Get(ctx, "indexes/abc12345678.gob")
	if err != nil || string(data) != "payload v2" {
		t.Fatalf("Get() = %q, %v", data, err)
	}

	names, err := store.List(ctx, "indexes/")
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(names) != 1 || names[0] != "indexes/abc12345678.gob" {
		t.Fatalf("List() = %v, temp files must not leak", names)
	}
}
