// Package bolt хранит локальные значения клиента в одном файле BoltDB.
package bolt

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "github.com/boltdb/bolt"

	"FinSoft/internal/cli/repo"
)

const (
	bucketName = "local_storage"
	// FileName файл БД внутри каталога хранилища.
	FileName = "client.bolt"
)

// Storage wraps a BoltDB database with a single bucket of key/value pairs.
type Storage struct {
	db *bolt.DB
}

var _ repo.Storage = (*Storage)(nil)

// Open opens (or creates) dir/client.bolt and ensures the bucket exists.
func Open(dir string) (*Storage, error) {
	if dir == "" {
		return nil, errors.New("empty storage dir")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(filepath.Join(dir, FileName), 0o600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, err
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close releases the database file lock.
func (s *Storage) Close() error {
	return s.db.Close()
}

func (s *Storage) GetItem(key string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get([]byte(key))
		if v == nil {
			return repo.ErrNotFound
		}
		// значение валидно только внутри транзакции
		out = append([]byte(nil), v...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Storage) SetItem(key string, value []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Put([]byte(key), value)
	})
}

// RemoveItem is a no-op for absent keys.
func (s *Storage) RemoveItem(key string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketName)).Delete([]byte(key))
	})
}
