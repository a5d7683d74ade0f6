package fs

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"launchcore/internal/blob/core"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	return store
}

func TestPutGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	info, err := store.Put(ctx, "backups/project_tracker_20250101T000000Z.json", strings.NewReader(`{"groups":[]}`), core.PutOptions{
		ContentType: "application/json",
		Metadata:    map[string]string{"origin": "scheduled"},
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}
	if info.Size != int64(len(`{"groups":[]}`)) {
		t.Fatalf("size %d", info.Size)
	}
	if info.ETag == "" {
		t.Fatal("expected sha256 etag")
	}

	got, rc, err := store.Get(ctx, "backups/project_tracker_20250101T000000Z.json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer func() { _ = rc.Close() }()
	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(body) != `{"groups":[]}` {
		t.Fatalf("body %q", body)
	}
	if got.ContentType != "application/json" || got.Metadata["origin"] != "scheduled" {
		t.Fatalf("metadata lost: %+v", got)
	}
	if got.ETag != info.ETag {
		t.Fatal("etag changed between put and get")
	}
}

func TestPutRejectsExistingKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Put(ctx, "k", strings.NewReader("one"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, err := store.Put(ctx, "k", strings.NewReader("two"), core.PutOptions{}); err == nil {
		t.Fatal("second put on the same key must fail")
	}
}

func TestKeySanitization(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"", "  ", "../escape", "a/../../b", "/absolute"} {
		if _, err := store.Put(ctx, key, strings.NewReader("x"), core.PutOptions{}); err == nil {
			t.Fatalf("key %q should be rejected", key)
		}
	}
}

func TestHeadAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Put(ctx, "a/b.txt", strings.NewReader("hello"), core.PutOptions{ContentType: "text/plain"}); err != nil {
		t.Fatalf("put: %v", err)
	}
	info, err := store.Head(ctx, "a/b.txt")
	if err != nil {
		t.Fatalf("head: %v", err)
	}
	if info.Size != 5 || info.ContentType != "text/plain" {
		t.Fatalf("head info: %+v", info)
	}

	existed, err := store.Delete(ctx, "a/b.txt")
	if err != nil || !existed {
		t.Fatalf("delete: %v %v", existed, err)
	}
	if _, err := store.Head(ctx, "a/b.txt"); err == nil {
		t.Fatal("head after delete should fail")
	}
	existed, err = store.Delete(ctx, "a/b.txt")
	if err != nil || existed {
		t.Fatalf("second delete: %v %v", existed, err)
	}
}

func TestListByPrefix(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, key := range []string{"backups/b.json", "backups/a.json", "other/c.json"} {
		if _, err := store.Put(ctx, key, strings.NewReader("{}"), core.PutOptions{}); err != nil {
			t.Fatalf("put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "backups/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "backups/a.json" || infos[1].Key != "backups/b.json" {
		t.Fatalf("list result: %+v", infos)
	}

	all, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 blobs, got %d", len(all))
	}
}

func TestListSkipsSidecarsAndTempFiles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Put(ctx, "k.txt", strings.NewReader("v"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := os.WriteFile(filepath.Join(store.root, ".tmp-leftover"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	infos, err := store.List(ctx, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(infos) != 1 || infos[0].Key != "k.txt" {
		t.Fatalf("list result: %+v", infos)
	}
}

func TestPresignURL(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if _, err := store.Put(ctx, "k.txt", strings.NewReader("v"), core.PutOptions{}); err != nil {
		t.Fatalf("put: %v", err)
	}
	u, err := store.PresignURL(ctx, "k.txt", core.SignedURLOptions{})
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if !strings.HasPrefix(u, "file://") {
		t.Fatalf("url %q", u)
	}
	if _, err := store.PresignURL(ctx, "k.txt", core.SignedURLOptions{Method: "PUT"}); err != core.ErrUnsupported {
		t.Fatalf("expected ErrUnsupported for PUT, got %v", err)
	}
}
