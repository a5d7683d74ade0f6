// Package file persists the complete tracker document as a single JSON file.
// It embeds the in-memory store for all graph semantics and rewrites the
// canonical file atomically after every committed transaction.
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"launchcore/internal/blob/core"
	"launchcore/internal/infra/persistence/memory"
	"launchcore/pkg/domain"
)

const backupPrefix = "project_tracker_"

var (
	_ domain.PersistentStore = (*Store)(nil)
	_ domain.BackupStore     = (*Store)(nil)
)

// Store wraps the in-memory store with single-file JSON persistence and
// timestamped backups.
type Store struct {
	*memory.Store
	mu         sync.Mutex
	path       string
	backupsDir string
	archive    core.Store
}

// Option configures optional store behaviour.
type Option func(*Store)

// WithArchive mirrors every created backup into the given blob store.
func WithArchive(archive core.Store) Option {
	return func(s *Store) { s.archive = archive }
}

// Open loads (or initializes) the canonical document at path and returns a
// store persisting to it. Backups are written to backupsDir.
func Open(path, backupsDir string, engine *domain.RulesEngine, opts ...Option) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("file store: empty data path")
	}
	if backupsDir == "" {
		backupsDir = filepath.Join(filepath.Dir(path), "backups")
	}
	s := &Store{
		Store:      memory.NewStore(engine),
		path:       path,
		backupsDir: backupsDir,
	}
	for _, opt := range opts {
		opt(s)
	}
	snap, err := loadSnapshot(path)
	if err != nil {
		return nil, err
	}
	s.Store.ImportState(snap)
	return s, nil
}

// Path returns the canonical document path.
func (s *Store) Path() string { return s.path }

// BackupsDir returns the directory backups are written to.
func (s *Store) BackupsDir() string { return s.backupsDir }

func loadSnapshot(path string) (memory.Snapshot, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return memory.Snapshot{}, nil
	}
	if err != nil {
		return memory.Snapshot{}, domain.PersistenceError{Op: "load", Err: err}
	}
	var snap memory.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return memory.Snapshot{}, domain.PersistenceError{Op: "load", Err: fmt.Errorf("parse %s: %w", filepath.Base(path), err)}
	}
	return snap, nil
}

// RunInTransaction applies fn through the in-memory store and persists the
// resulting snapshot. When the write fails the in-memory state is rolled
// back to the previously persisted snapshot, so memory and disk never
// diverge.
func (s *Store) RunInTransaction(ctx context.Context, fn func(tx memory.Transaction) error) (memory.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prior := s.Store.ExportState()
	result, err := s.Store.RunInTransaction(ctx, fn)
	if err != nil {
		return result, err
	}
	if err := s.persist(); err != nil {
		s.Store.ImportState(prior)
		return memory.Result{}, domain.PersistenceError{Op: "commit", Err: err}
	}
	return result, nil
}

// persist writes the current snapshot to the canonical path via a temp file
// followed by an atomic rename.
func (s *Store) persist() error {
	snap := s.Store.ExportState()
	return writeSnapshot(s.path, snap)
}

func writeSnapshot(path string, snap memory.Snapshot) error {
	payload, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func encodeSnapshot(snap memory.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// CreateBackup writes the current snapshot to a timestamped file in the
// backups directory.
func (s *Store) CreateBackup() (domain.BackupInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createBackupLocked()
}

func (s *Store) createBackupLocked() (domain.BackupInfo, error) {
	if err := os.MkdirAll(s.backupsDir, 0o755); err != nil {
		return domain.BackupInfo{}, domain.PersistenceError{Op: "backup", Err: err}
	}
	snap := s.Store.ExportState()
	name := backupPrefix + time.Now().UTC().Format("20060102T150405Z") + ".json"
	dest := filepath.Join(s.backupsDir, name)
	if err := writeSnapshot(dest, snap); err != nil {
		return domain.BackupInfo{}, domain.PersistenceError{Op: "backup", Err: err}
	}
	info, err := os.Stat(dest)
	if err != nil {
		return domain.BackupInfo{}, domain.PersistenceError{Op: "backup", Err: err}
	}
	if s.archive != nil {
		if err := s.archiveBackup(name, snap); err != nil {
			return domain.BackupInfo{}, domain.PersistenceError{Op: "backup archive", Err: err}
		}
	}
	return domain.BackupInfo{FileName: name, CreatedAt: info.ModTime().UTC()}, nil
}

func (s *Store) archiveBackup(name string, snap memory.Snapshot) error {
	payload, err := encodeSnapshot(snap)
	if err != nil {
		return err
	}
	_, err = s.archive.Put(context.Background(), "backups/"+name, bytes.NewReader(payload), core.PutOptions{
		ContentType: "application/json",
	})
	return err
}

// ListBackups returns the backup files newest first.
func (s *Store) ListBackups() ([]domain.BackupInfo, error) {
	entries, err := os.ReadDir(s.backupsDir)
	if os.IsNotExist(err) {
		return []domain.BackupInfo{}, nil
	}
	if err != nil {
		return nil, domain.PersistenceError{Op: "list backups", Err: err}
	}
	backups := make([]domain.BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		backups = append(backups, domain.BackupInfo{FileName: entry.Name(), CreatedAt: info.ModTime().UTC()})
	}
	sort.Slice(backups, func(i, j int) bool {
		if !backups[i].CreatedAt.Equal(backups[j].CreatedAt) {
			return backups[i].CreatedAt.After(backups[j].CreatedAt)
		}
		return backups[i].FileName > backups[j].FileName
	})
	return backups, nil
}

// RestoreBackup validates the named backup, saves a safety backup of the
// current document, then replaces the canonical document and in-memory
// state with the backup contents.
func (s *Store) RestoreBackup(name string) (domain.BackupInfo, error) {
	if name != filepath.Base(name) || strings.Contains(name, "..") {
		return domain.BackupInfo{}, domain.ValidationError{Field: "file_name", Reason: "invalid backup name"}
	}
	path := filepath.Join(s.backupsDir, name)
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return domain.BackupInfo{}, domain.NotFoundError{Entity: "backup", ID: name}
	}
	if err != nil {
		return domain.BackupInfo{}, domain.PersistenceError{Op: "restore", Err: err}
	}
	var snap memory.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return domain.BackupInfo{}, domain.PersistenceError{Op: "restore", Err: fmt.Errorf("parse %s: %w", name, err)}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Keep an escape hatch before overwriting the live document.
	if _, err := os.Stat(s.path); err == nil {
		if _, err := s.createBackupLocked(); err != nil {
			return domain.BackupInfo{}, err
		}
	}

	prior := s.Store.ExportState()
	s.Store.ImportState(snap)
	if err := s.persist(); err != nil {
		s.Store.ImportState(prior)
		return domain.BackupInfo{}, domain.PersistenceError{Op: "restore", Err: err}
	}
	info, err := os.Stat(path)
	if err != nil {
		return domain.BackupInfo{}, domain.PersistenceError{Op: "restore", Err: err}
	}
	return domain.BackupInfo{FileName: name, CreatedAt: info.ModTime().UTC()}, nil
}
