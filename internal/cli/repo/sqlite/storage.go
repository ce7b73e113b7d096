package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"FinSoft/internal/cli/repo"
)

// FileName файл БД внутри каталога хранилища.
const FileName = "client.sqlite"

// Storage — локальное хранилище в SQLite (таблица local_storage).
type Storage struct {
	db *sql.DB
}

var _ repo.Storage = (*Storage)(nil)

// Open открывает (и создаёт при необходимости) файл БД в dir и выполняет миграции.
// Вторым значением возвращается путь к БД.
func Open(dir string) (*Storage, string, error) {
	if dir == "" {
		return nil, "", errors.New("empty storage dir")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, "", err
	}
	dbPath := filepath.Join(dir, FileName)
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, "", err
	}
	// одна запись за раз, иначе SQLITE_BUSY при параллельных SetItem
	db.SetMaxOpenConns(1)
	s := &Storage{db: db}
	if err := s.Migrate(); err != nil {
		_ = db.Close()
		return nil, "", fmt.Errorf("migrate local storage: %w", err)
	}
	return s, dbPath, nil
}

// Migrate гарантирует наличие необходимых таблиц.
func (s *Storage) Migrate() error {
	_, err := s.db.Exec(initialDDL())
	return err
}

// Close закрывает соединение с БД.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) GetItem(key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRow(`SELECT value FROM local_storage WHERE key = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *Storage) SetItem(key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	_, err := s.db.Exec(`
INSERT INTO local_storage (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value, time.Now().UTC().Format(time.RFC3339))
	return err
}

func (s *Storage) RemoveItem(key string) error {
	_, err := s.db.Exec(`DELETE FROM local_storage WHERE key = ?`, key)
	return err
}
