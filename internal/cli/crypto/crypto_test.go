package crypto

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadOrCreateKey_CreateAndReuse(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "FinSoft")
	// создаст новый ключ
	k1, err := LoadOrCreateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrCreateKey create: %v", err)
	}
	if len(k1) != 32 {
		t.Fatalf("key len want 32, got %d", len(k1))
	}
	st, err := os.Stat(filepath.Join(dir, KeyFile))
	if err != nil {
		t.Fatalf("key file not created: %v", err)
	}
	if st.Mode().Perm() != 0o600 {
		t.Fatalf("key file perm want 0600, got %o", st.Mode().Perm())
	}
	// повторное получение — тот же ключ
	k2, err := LoadOrCreateKey(dir)
	if err != nil {
		t.Fatalf("LoadOrCreateKey reuse: %v", err)
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("expected same key contents on reuse")
	}
}

func TestLoadOrCreateKey_Errors(t *testing.T) {
	if _, err := LoadOrCreateKey(""); err == nil {
		t.Fatalf("empty dir must fail")
	}
	dir := t.TempDir()
	// подменим файл ключа на неправильной длины
	if err := os.WriteFile(filepath.Join(dir, KeyFile), []byte("short"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadOrCreateKey(dir); err == nil {
		t.Fatalf("invalid key length must fail")
	}
	// каталог указывает на файл
	bad := filepath.Join(dir, "not_dir")
	_ = os.WriteFile(bad, []byte("x"), 0o600)
	if _, err := LoadOrCreateKey(bad); err == nil {
		t.Fatalf("file instead of dir must fail")
	}
}

func TestSealOpen_RoundTrip(t *testing.T) {
	key, err := LoadOrCreateKey(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	plain := []byte(`{"id":"1","token":"abc"}`)
	s1, err := Seal(plain, key)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	s2, _ := Seal(plain, key)
	if bytes.Equal(s1, s2) {
		t.Fatalf("nonce must differ between seals")
	}
	got, err := Open(s1, key)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatalf("round trip mismatch: %q", got)
	}
}

func TestOpen_Tampered(t *testing.T) {
	key := bytes.Repeat([]byte{7}, 32)
	sealed, err := Seal([]byte("secret"), key)
	if err != nil {
		t.Fatal(err)
	}
	sealed[len(sealed)-1] ^= 0xFF
	if _, err := Open(sealed, key); err == nil {
		t.Fatalf("tampered ciphertext must fail")
	}
	if _, err := Open([]byte{1, 2}, key); err == nil {
		t.Fatalf("short input must fail")
	}
	if _, err := Seal([]byte("x"), []byte("short")); err == nil {
		t.Fatalf("invalid key length must fail")
	}
}
