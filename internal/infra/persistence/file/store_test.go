package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	blobmemory "launchcore/internal/infra/blob/memory"
	"launchcore/internal/infra/persistence/memory"
	"launchcore/pkg/domain"
)

func openTestStore(t *testing.T, opts ...Option) *Store {
	t.Helper()
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "project_tracker.json"), filepath.Join(dir, "backups"), nil, opts...)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	return store
}

func seedGroup(t *testing.T, store *Store, name string) domain.ProductGroup {
	t.Helper()
	var out domain.ProductGroup
	_, err := store.RunInTransaction(context.Background(), func(tx memory.Transaction) error {
		g, err := tx.CreateGroup(domain.ProductGroup{Name: name})
		out = g
		return err
	})
	if err != nil {
		t.Fatalf("seed group: %v", err)
	}
	return out
}

func TestOpenMissingFileStartsEmpty(t *testing.T) {
	store := openTestStore(t)
	if got := store.ListGroups(); len(got) != 0 {
		t.Fatalf("expected empty store, got %d groups", len(got))
	}
	if _, err := os.Stat(store.Path()); !os.IsNotExist(err) {
		t.Fatal("opening must not create the document before the first commit")
	}
}

func TestOpenCorruptFileFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project_tracker.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := Open(path, "", nil)
	var perr domain.PersistenceError
	if !asPersistence(err, &perr) || perr.Op != "load" {
		t.Fatalf("expected load PersistenceError, got %v", err)
	}
}

func TestCommitWritesDocument(t *testing.T) {
	store := openTestStore(t)
	g := seedGroup(t, store, "Refrigerators")

	raw, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read document: %v", err)
	}
	var snap memory.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		t.Fatalf("document is not valid JSON: %v", err)
	}
	if len(snap.Groups) != 1 || snap.Groups[0].ID != g.ID {
		t.Fatalf("document does not reflect the commit: %+v", snap.Groups)
	}
	// Pretty-printed for hand inspection.
	if !strings.Contains(string(raw), "\n  ") {
		t.Fatal("document should be indented")
	}
}

func TestReopenRestoresState(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project_tracker.json")

	first, err := Open(path, "", nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	g := seedGroup(t, first, "Refrigerators")
	_, err = first.RunInTransaction(context.Background(), func(tx memory.Transaction) error {
		_, err := tx.CreateProject(domain.Project{GroupID: g.ID, Name: "Model X"})
		return err
	})
	if err != nil {
		t.Fatalf("seed project: %v", err)
	}

	second, err := Open(path, "", nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	projects := second.ListProjects()
	if len(projects) != 1 || projects[0].Name != "Model X" {
		t.Fatalf("state lost across reopen: %+v", projects)
	}
}

func TestFailedMutationLeavesDocumentUntouched(t *testing.T) {
	store := openTestStore(t)
	seedGroup(t, store, "Refrigerators")
	before, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	_, err = store.RunInTransaction(context.Background(), func(tx memory.Transaction) error {
		return tx.DeleteGroup("no-such-group")
	})
	if !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}

	after, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(before) != string(after) {
		t.Fatal("rejected transaction must not touch the document")
	}
}

func TestPersistFailureRollsBackMemory(t *testing.T) {
	store := openTestStore(t)
	seedGroup(t, store, "Refrigerators")

	// Make the canonical path unwritable by replacing its parent with a file.
	dir := filepath.Dir(store.Path())
	if err := os.RemoveAll(dir); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := os.WriteFile(dir, []byte("x"), 0o644); err != nil {
		t.Fatalf("block dir: %v", err)
	}

	_, err := store.RunInTransaction(context.Background(), func(tx memory.Transaction) error {
		_, err := tx.CreateGroup(domain.ProductGroup{Name: "Doomed"})
		return err
	})
	var perr domain.PersistenceError
	if !asPersistence(err, &perr) || perr.Op != "commit" {
		t.Fatalf("expected commit PersistenceError, got %v", err)
	}
	if got := store.ListGroups(); len(got) != 1 || got[0].Name != "Refrigerators" {
		t.Fatalf("memory must roll back to the persisted state, got %+v", got)
	}
}

func TestBackupAndRestore(t *testing.T) {
	store := openTestStore(t)
	g := seedGroup(t, store, "Refrigerators")

	info, err := store.CreateBackup()
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	if !strings.HasPrefix(info.FileName, "project_tracker_") || !strings.HasSuffix(info.FileName, ".json") {
		t.Fatalf("unexpected backup name %q", info.FileName)
	}

	// Mutate after the backup, then restore it.
	_, err = store.RunInTransaction(context.Background(), func(tx memory.Transaction) error {
		_, err := tx.UpdateGroup(g.ID, func(cur *domain.ProductGroup) error {
			cur.Name = "Renamed"
			return nil
		})
		return err
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}

	if _, err := store.RestoreBackup(info.FileName); err != nil {
		t.Fatalf("restore: %v", err)
	}
	got, ok := store.GetGroup(g.ID)
	if !ok || got.Name != "Refrigerators" {
		t.Fatalf("restore did not roll the graph back: %+v", got)
	}

	// The document on disk matches the restored state.
	second, err := Open(store.Path(), store.BackupsDir(), nil)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	reloaded, _ := second.GetGroup(g.ID)
	if reloaded.Name != "Refrigerators" {
		t.Fatalf("document not rewritten on restore: %+v", reloaded)
	}
}

func TestRestoreWritesSafetyBackup(t *testing.T) {
	store := openTestStore(t)
	seedGroup(t, store, "Refrigerators")

	info, err := store.CreateBackup()
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}
	before, err := store.ListBackups()
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	if _, err := store.RestoreBackup(info.FileName); err != nil {
		t.Fatalf("restore: %v", err)
	}
	after, err := store.ListBackups()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(after) <= len(before) {
		t.Fatalf("restore should leave a safety backup: %d -> %d", len(before), len(after))
	}
}

func TestRestoreFailureRollsBackMemory(t *testing.T) {
	dataDir := t.TempDir()
	store, err := Open(filepath.Join(dataDir, "project_tracker.json"), filepath.Join(t.TempDir(), "backups"), nil)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	g := seedGroup(t, store, "Before")

	info, err := store.CreateBackup()
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}

	_, err = store.RunInTransaction(context.Background(), func(tx memory.Transaction) error {
		_, err := tx.UpdateGroup(g.ID, func(cur *domain.ProductGroup) error {
			cur.Name = "After"
			return nil
		})
		return err
	})
	if err != nil {
		t.Fatalf("mutate: %v", err)
	}

	// Make the canonical path unwritable; the backups live elsewhere and
	// stay readable.
	if err := os.RemoveAll(dataDir); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := os.WriteFile(dataDir, []byte("x"), 0o644); err != nil {
		t.Fatalf("block dir: %v", err)
	}

	_, err = store.RestoreBackup(info.FileName)
	var perr domain.PersistenceError
	if !asPersistence(err, &perr) || perr.Op != "restore" {
		t.Fatalf("expected restore PersistenceError, got %v", err)
	}
	got, ok := store.GetGroup(g.ID)
	if !ok || got.Name != "After" {
		t.Fatalf("memory must keep the pre-restore state, got %+v", got)
	}
}

func TestRestoreRejectsBadNames(t *testing.T) {
	store := openTestStore(t)

	for _, name := range []string{"../evil.json", "a/b.json", "..\\evil.json"} {
		if _, err := store.RestoreBackup(name); !domain.IsValidation(err) {
			t.Fatalf("name %q: expected validation error, got %v", name, err)
		}
	}
	if _, err := store.RestoreBackup("project_tracker_missing.json"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRestoreRejectsCorruptBackup(t *testing.T) {
	store := openTestStore(t)
	if err := os.MkdirAll(store.BackupsDir(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	name := "project_tracker_20250101T000000Z.json"
	if err := os.WriteFile(filepath.Join(store.BackupsDir(), name), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := store.RestoreBackup(name)
	var perr domain.PersistenceError
	if !asPersistence(err, &perr) || perr.Op != "restore" {
		t.Fatalf("expected restore PersistenceError, got %v", err)
	}
}

func TestListBackupsNewestFirst(t *testing.T) {
	store := openTestStore(t)
	seedGroup(t, store, "Refrigerators")
	if err := os.MkdirAll(store.BackupsDir(), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// Same mtime resolution can collapse timestamps; name order breaks ties.
	for _, name := range []string{
		"project_tracker_20250101T000000Z.json",
		"project_tracker_20250201T000000Z.json",
	} {
		if err := os.WriteFile(filepath.Join(store.BackupsDir(), name), []byte("{}"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	got, err := store.ListBackups()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 backups, got %d", len(got))
	}
	if got[0].CreatedAt.Before(got[1].CreatedAt) {
		t.Fatal("backups must list newest first")
	}
}

func TestBackupArchiveMirrorsToBlobStore(t *testing.T) {
	archive := blobmemory.New()
	store := openTestStore(t, WithArchive(archive))
	seedGroup(t, store, "Refrigerators")

	info, err := store.CreateBackup()
	if err != nil {
		t.Fatalf("create backup: %v", err)
	}

	blobs, err := archive.List(context.Background(), "backups/")
	if err != nil {
		t.Fatalf("list archive: %v", err)
	}
	if len(blobs) != 1 || blobs[0].Key != "backups/"+info.FileName {
		t.Fatalf("archive not mirrored: %+v", blobs)
	}
	if blobs[0].ContentType != "application/json" {
		t.Fatalf("archive content type %q", blobs[0].ContentType)
	}
}

func asPersistence(err error, target *domain.PersistenceError) bool {
	return errors.As(err, target)
}
