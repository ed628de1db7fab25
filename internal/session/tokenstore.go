package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/acmello/campusctl/internal/crypto"
)

// TokenStore persists the single bearer credential between runs.
type TokenStore interface {
	// Load returns the stored token, or "" when none is stored.
	Load() (string, error)
	Save(token string) error
	Clear() error
}

// FileTokenStore keeps the credential in a JSON file with owner-only
// permissions. With a cipher attached the token value is encrypted at rest.
type FileTokenStore struct {
	path   string
	cipher *crypto.Cipher
}

type tokenFile struct {
	Token string `json:"token"`
}

// NewFileTokenStore creates a store backed by the file at path. The file and
// its directory are created on first save.
func NewFileTokenStore(path string) (*FileTokenStore, error) {
	if path == "" {
		return nil, errors.New("token file path is required")
	}
	return &FileTokenStore{path: path}, nil
}

// SetCipher enables at-rest encryption of the stored token. A nil cipher
// leaves the store writing plaintext.
func (s *FileTokenStore) SetCipher(c *crypto.Cipher) {
	s.cipher = c
}

func (s *FileTokenStore) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading token file: %w", err)
	}
	if len(data) == 0 {
		return "", nil
	}

	var tf tokenFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return "", fmt.Errorf("decoding token file: %w", err)
	}

	token, err := s.cipher.Decrypt(tf.Token)
	if err != nil {
		// An undecryptable token (rotated key, corrupt file) is treated as
		// absent rather than fatal; the user re-authenticates.
		slog.Warn("discarding undecryptable token", "path", s.path, "error", err)
		return "", nil
	}
	return token, nil
}

func (s *FileTokenStore) Save(token string) error {
	stored, err := s.cipher.Encrypt(token)
	if err != nil {
		return fmt.Errorf("encrypting token: %w", err)
	}
	data, err := json.Marshal(tokenFile{Token: stored})
	if err != nil {
		return fmt.Errorf("encoding token file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating token dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}
