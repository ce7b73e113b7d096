package fs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"FinSoft/internal/cli/repo"
)

// Storage — файловое хранилище: один файл на ключ в каталоге конфигурации.
type Storage struct {
	dir string
}

var _ repo.Storage = (*Storage)(nil)

var keyRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// New создаёт каталог (0700) при необходимости.
func New(dir string) (*Storage, error) {
	if dir == "" {
		return nil, errors.New("empty storage dir")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, err
	}
	return &Storage{dir: dir}, nil
}

func (s *Storage) path(key string) (string, error) {
	if !keyRe.MatchString(key) {
		return "", fmt.Errorf("invalid storage key: %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

// GetItem читает значение; пустой файл считается отсутствующим ключом.
func (s *Storage) GetItem(key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if errors.Is(err, os.ErrNotExist) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	// обрезаем завершающие переводы строки/пробелы
	for len(b) > 0 {
		c := b[len(b)-1]
		if c == '\n' || c == '\r' || c == ' ' || c == '\t' {
			b = b[:len(b)-1]
			continue
		}
		break
	}
	if len(b) == 0 {
		return nil, repo.ErrNotFound
	}
	return b, nil
}

// SetItem пишет во временный файл и переименовывает, чтобы не оставить половину записи.
func (s *Storage) SetItem(key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, value, 0o600); err != nil {
		return err
	}
	return os.Rename(tmp, p)
}

// RemoveItem удаляет файл ключа; отсутствие файла не ошибка.
func (s *Storage) RemoveItem(key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
