package core

import "launchcore/pkg/domain"

// backupStore returns the store's backup capability when the configured
// backend supports it.
func (s *Service) backupStore() (BackupStore, error) {
	bs, ok := s.store.(BackupStore)
	if !ok {
		return nil, domain.PersistenceError{Op: "backup", Err: errBackupsUnsupported}
	}
	return bs, nil
}

var errBackupsUnsupported = domain.ValidationError{Field: "storage", Reason: "configured storage driver does not support backups"}

// CreateBackup snapshots the canonical document into the backups location.
func (s *Service) CreateBackup() (BackupInfo, error) {
	bs, err := s.backupStore()
	if err != nil {
		return BackupInfo{}, err
	}
	info, err := bs.CreateBackup()
	s.metrics.ObserveBackup("create", err)
	if err != nil {
		s.logger.Error("backup failed", "error", err.Error())
		return BackupInfo{}, err
	}
	s.logger.Info("backup created", "file", info.FileName)
	return info, nil
}

// ListBackups returns available backups, newest first.
func (s *Service) ListBackups() ([]BackupInfo, error) {
	bs, err := s.backupStore()
	if err != nil {
		return nil, err
	}
	return bs.ListBackups()
}

// RestoreBackup replaces the canonical document and in-memory graph with the
// named backup, taking a safety backup of the current state first.
func (s *Service) RestoreBackup(name string) (BackupInfo, error) {
	bs, err := s.backupStore()
	if err != nil {
		return BackupInfo{}, err
	}
	info, err := bs.RestoreBackup(name)
	s.metrics.ObserveBackup("restore", err)
	if err != nil {
		s.logger.Error("restore failed", "file", name, "error", err.Error())
		return BackupInfo{}, err
	}
	s.logger.Info("backup restored", "file", info.FileName)
	return info, nil
}
