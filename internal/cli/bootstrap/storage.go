package bootstrap

import (
	"fmt"

	"FinSoft/internal/cli/crypto"
	"FinSoft/internal/cli/repo"
	boltrepo "FinSoft/internal/cli/repo/bolt"
	fsrepo "FinSoft/internal/cli/repo/fs"
	reposqlite "FinSoft/internal/cli/repo/sqlite"
	"FinSoft/internal/config"
)

// OpenStorage открывает локальное хранилище, выбранное в конфигурации,
// при необходимости оборачивает его шифрованием и возвращает (storage, cleanup, error).
// cleanup необходимо вызвать после окончания работы, чтобы закрыть файл БД.
func OpenStorage(cfg *config.Config) (repo.Storage, func() error, error) {
	noop := func() error { return nil }

	var (
		st      repo.Storage
		cleanup = noop
	)
	switch cfg.StorageDriver {
	case config.StorageMemory:
		st = repo.NewMemory()
	case config.StorageSQLite:
		s, _, err := reposqlite.Open(cfg.StoragePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		st, cleanup = s, s.Close
	case config.StorageBolt:
		s, err := boltrepo.Open(cfg.StoragePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open bolt storage: %w", err)
		}
		st, cleanup = s, s.Close
	default:
		s, err := fsrepo.New(cfg.StoragePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open fs storage: %w", err)
		}
		st = s
	}

	if cfg.StorageSeal {
		key, err := crypto.LoadOrCreateKey(cfg.StoragePath)
		if err != nil {
			_ = cleanup()
			return nil, nil, fmt.Errorf("load storage key: %w", err)
		}
		st = repo.NewSealed(st, key)
	}
	return st, cleanup, nil
}
