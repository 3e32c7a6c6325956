package session

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"atkctl/pkg/logging"
)

// Handle identifies a persisted session record.
type Handle string

// Store persists opaque browser state per account key.
type Store interface {
	Save(key string, state []byte) (Handle, error)
	HandleFor(key string) Handle
	Load(h Handle) ([]byte, bool, error)
	Delete(h Handle) error
	Clear() error
}

const recordExt = ".json"

// FileStore keeps one record file per account in Dir. Each record has a
// sibling .lock file held exclusively while writing and shared while reading,
// so scenarios logging in as the same account from separate processes do
// not observe torn writes.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at dir. The directory is created
// on first write.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// HandleFor maps key to its record path. Keys that need sanitising get a
// short digest suffix so distinct accounts never share a file.
func (s *FileStore) HandleFor(key string) Handle {
	name := unsafeKeyChars.ReplaceAllString(key, "_")
	name = strings.Trim(name, ".")
	if name != key || name == "" {
		sum := sha256.Sum256([]byte(key))
		name = name + "-" + hex.EncodeToString(sum[:4])
	}
	return Handle(filepath.Join(s.Dir, name+recordExt))
}

// Save writes state for key through a temp file and rename.
func (s *FileStore) Save(key string, state []byte) (Handle, error) {
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return "", fmt.Errorf("creating session directory: %w", err)
	}
	h := s.HandleFor(key)
	path := string(h)

	unlock, err := lockFile(path+".lock", true)
	if err != nil {
		return "", err
	}
	defer unlock()

	tmp, err := os.CreateTemp(s.Dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating session temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(state); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("writing session record: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("replacing session record: %w", err)
	}
	logging.Debug("Session", "Saved session record %s", path)
	return h, nil
}

// Load reads the record behind h. A missing record reports ok=false.
func (s *FileStore) Load(h Handle) ([]byte, bool, error) {
	path := string(h)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	unlock, err := lockFile(path+".lock", false)
	if err != nil {
		return nil, false, err
	}
	defer unlock()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading session record: %w", err)
	}
	return data, true, nil
}

// Delete removes the record behind h. Deleting a missing record is not an
// error.
func (s *FileStore) Delete(h Handle) error {
	path := string(h)
	if _, err := os.Stat(filepath.Dir(path)); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	unlock, err := lockFile(path+".lock", true)
	if err != nil {
		return err
	}
	defer unlock()
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing session record: %w", err)
	}
	return nil
}

// Clear removes every record in the store.
func (s *FileStore) Clear() error {
	matches, err := filepath.Glob(filepath.Join(s.Dir, "*"+recordExt))
	if err != nil {
		return err
	}
	for _, path := range matches {
		if err := s.Delete(Handle(path)); err != nil {
			return err
		}
	}
	if len(matches) > 0 {
		logging.Info("Session", "Cleared %d session record(s) from %s", len(matches), s.Dir)
	}
	return nil
}
