// Package securestore keeps credentials on disk encrypted with a per-device key.
//
// Layout of the store directory:
//
//	device.secret     16-byte salt followed by a 32-byte random secret (0600)
//	<key>.sealed      AES-GCM sealed value for each key (0600)
//
// The AES key is derived from the secret with argon2id the first time it is
// needed and then cached for the life of the FileStore.
package securestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/dzikiwschod/clubapp/internal/common"
	"github.com/dzikiwschod/clubapp/internal/cryptox"
	"github.com/dzikiwschod/clubapp/internal/filex"
)

const (
	secretFile = "device.secret"
	saltSize   = 16
	secretSize = 32
)

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ErrInvalidKey is returned for keys that cannot be used as file names.
var ErrInvalidKey = errors.New("invalid secure store key")

// FileStore implements stores.Store on top of a directory.
type FileStore struct {
	dir string

	mu  sync.Mutex
	key []byte
}

// New returns a FileStore rooted at dir. The directory is created lazily.
func New(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	path, err := s.path(key)
	if err != nil {
		return "", false, err
	}

	sealed, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read secure[%s]: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	aesKey, err := s.deviceKey()
	if err != nil {
		return "", false, err
	}
	plain, err := cryptox.Open(sealed, aesKey)
	if err != nil {
		return "", false, fmt.Errorf("failed to open secure[%s]: %w", key, err)
	}
	return string(plain), true, nil
}

func (s *FileStore) Set(_ context.Context, key, value string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	aesKey, err := s.deviceKey()
	if err != nil {
		return err
	}

	plain := []byte(value)
	defer common.WipeByteArray(plain)

	sealed, err := cryptox.Seal(plain, aesKey)
	if err != nil {
		return fmt.Errorf("failed to seal secure[%s]: %w", key, err)
	}
	if err := writeFileAtomic(path, sealed); err != nil {
		return fmt.Errorf("failed to write secure[%s]: %w", key, err)
	}
	return nil
}

func (s *FileStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete secure[%s]: %w", key, err)
	}
	return nil
}

func (s *FileStore) path(key string) (string, error) {
	if !keyPattern.MatchString(key) {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.dir, key+".sealed"), nil
}

// deviceKey loads or creates the device secret. Callers hold s.mu.
func (s *FileStore) deviceKey() ([]byte, error) {
	if s.key != nil {
		return s.key, nil
	}

	if _, err := filex.EnsureDir(s.dir); err != nil {
		return nil, fmt.Errorf("failed to create secure store dir: %w", err)
	}

	path := filepath.Join(s.dir, secretFile)
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		raw = common.GenerateRandByteArray(saltSize + secretSize)
		if err := writeFileAtomic(path, raw); err != nil {
			return nil, fmt.Errorf("failed to write device secret: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to read device secret: %w", err)
	case len(raw) != saltSize+secretSize:
		return nil, errors.New("device secret is corrupt")
	}

	s.key = cryptox.DeriveKey(raw[saltSize:], raw[:saltSize])
	return s.key, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
