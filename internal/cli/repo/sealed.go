package repo

import (
	"encoding/base64"
	"fmt"

	"FinSoft/internal/cli/crypto"
)

// Sealed шифрует значения перед записью во вложенное хранилище (AES-GCM).
// Значения хранятся в base64, чтобы текстовые бэкенды их не искажали.
type Sealed struct {
	inner Storage
	key   []byte
}

// NewSealed wraps inner with at-rest encryption under key.
func NewSealed(inner Storage, key []byte) *Sealed {
	return &Sealed{inner: inner, key: key}
}

func (s *Sealed) GetItem(key string) ([]byte, error) {
	raw, err := s.inner.GetItem(key)
	if err != nil {
		return nil, err
	}
	sealed, err := base64.StdEncoding.DecodeString(string(raw))
	if err != nil {
		return nil, fmt.Errorf("decode sealed %q: %w", key, err)
	}
	plain, err := crypto.Open(sealed, s.key)
	if err != nil {
		return nil, fmt.Errorf("open sealed %q: %w", key, err)
	}
	return plain, nil
}

func (s *Sealed) SetItem(key string, value []byte) error {
	sealed, err := crypto.Seal(value, s.key)
	if err != nil {
		return fmt.Errorf("seal %q: %w", key, err)
	}
	return s.inner.SetItem(key, []byte(base64.StdEncoding.EncodeToString(sealed)))
}

func (s *Sealed) RemoveItem(key string) error {
	return s.inner.RemoveItem(key)
}
