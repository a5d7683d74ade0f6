package core

import (
	"context"
	"fmt"
	"os"
	"strings"

	"launchcore/internal/blob"
	"launchcore/internal/infra/persistence/file"
	"launchcore/internal/infra/persistence/memory"
	"launchcore/internal/infra/persistence/postgres"
	"launchcore/internal/infra/persistence/sqlite"
)

// StorageDriver identifies a concrete persistent storage implementation.
type StorageDriver string

const (
	// StorageMemory keeps state in process memory only (tests / ephemeral).
	StorageMemory StorageDriver = "memory"
	// StorageFile persists the graph as one JSON document on disk (default).
	StorageFile StorageDriver = "file"
	// StorageSQLite persists snapshots into an embedded sqlite file.
	StorageSQLite StorageDriver = "sqlite"
	// StoragePostgres persists snapshots into a PostgreSQL server.
	StoragePostgres StorageDriver = "postgres"
)

// OpenPersistentStore selects a backend using environment variables.
// Defaults to the single-file JSON store when unset.
//
//	LAUNCHCORE_STORAGE_DRIVER: memory|file|sqlite|postgres (default file)
//	LAUNCHCORE_DATA_FILE: canonical JSON document path (default ./data/project_tracker.json)
//	LAUNCHCORE_BACKUPS_DIR: backups directory (default <data dir>/backups)
//	LAUNCHCORE_SQLITE_PATH: sqlite file path when driver=sqlite
//	LAUNCHCORE_POSTGRES_DSN: postgres DSN when driver=postgres
//	LAUNCHCORE_BLOB_ARCHIVE: true to mirror file-driver backups into the
//	blob store selected by the LAUNCHCORE_BLOB_* variables
func OpenPersistentStore(engine *RulesEngine) (PersistentStore, error) {
	driver := os.Getenv("LAUNCHCORE_STORAGE_DRIVER")
	if driver == "" {
		driver = string(StorageFile)
	}
	switch StorageDriver(driver) {
	case StorageMemory:
		return memory.NewStore(engine), nil
	case StorageFile:
		path := os.Getenv("LAUNCHCORE_DATA_FILE")
		if path == "" {
			path = "./data/project_tracker.json"
		}
		var opts []file.Option
		if strings.EqualFold(os.Getenv("LAUNCHCORE_BLOB_ARCHIVE"), "true") {
			archive, err := blob.Open(context.Background())
			if err != nil {
				return nil, fmt.Errorf("open blob archive: %w", err)
			}
			opts = append(opts, file.WithArchive(archive))
		}
		return file.Open(path, os.Getenv("LAUNCHCORE_BACKUPS_DIR"), engine, opts...)
	case StorageSQLite:
		return sqlite.NewStore(os.Getenv("LAUNCHCORE_SQLITE_PATH"), engine)
	case StoragePostgres:
		return postgres.NewStore(os.Getenv("LAUNCHCORE_POSTGRES_DSN"), engine)
	default:
		return nil, fmt.Errorf("unknown storage driver %s", driver)
	}
}
