package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/seanchatmangpt/ai-self-sustaining-system-sub001/internal/errors"
)

// SnapshotFileName is the canonical ledger snapshot file within a data
// directory. External readers may watch this path; it is only ever replaced
// by atomic rename, never patched in place.
const SnapshotFileName = "ledger.json"

// FileStore persists the ledger as a single JSON snapshot file. Commits
// write the full candidate state to a temp file and rename it over the
// canonical path, so concurrent readers always see a complete prior state.
//
// The version marker is the SHA-256 hash of the snapshot bytes.
// CommitIfUnchanged re-reads the persisted hash while holding a flock(2)
// lock, so validation and swap are race-free against other processes.
type FileStore struct {
	dir  string
	path string
}

// NewFileStore creates a FileStore rooted at dir, creating the directory
// if needed. No snapshot file is written until the first commit.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.NewStorageError("create ledger directory", err).WithPath(dir)
	}
	return &FileStore{
		dir:  dir,
		path: filepath.Join(dir, SnapshotFileName),
	}, nil
}

// Path returns the snapshot file path, for watchers and status reporting.
func (fs *FileStore) Path() string {
	return fs.path
}

// Snapshot returns the current ledger contents and version.
// A missing snapshot file yields an empty ledger at VersionEmpty; an
// unreadable or malformed file yields ErrLedgerCorrupted.
func (fs *FileStore) Snapshot() (*Ledger, Version, error) {
	fl := NewFileLock(fs.dir)
	if err := fl.Lock(); err != nil {
		return nil, "", errors.NewStorageError("acquire ledger lock", err).WithPath(fs.dir)
	}
	defer func() { _ = fl.Unlock() }()

	return fs.readLocked()
}

// readLocked loads and validates the snapshot. Callers must hold the lock.
func (fs *FileStore) readLocked() (*Ledger, Version, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewLedger(), VersionEmpty, nil
		}
		return nil, "", errors.NewStorageError("read ledger snapshot", err).WithPath(fs.path)
	}

	l, err := decodeLedger(data)
	if err != nil {
		return nil, "", err
	}
	return l, hashVersion(data), nil
}

// CommitIfUnchanged atomically replaces the snapshot iff the persisted
// version still equals version. The flock is held across the re-check and
// the rename, closing the window between validation and swap.
func (fs *FileStore) CommitIfUnchanged(version Version, newLedger *Ledger) error {
	if err := newLedger.Validate(); err != nil {
		return errors.Wrap(err, "refusing to commit invalid ledger")
	}

	data, err := json.MarshalIndent(newLedger, "", "  ")
	if err != nil {
		return errors.NewStorageError("marshal ledger snapshot", err).WithPath(fs.path)
	}

	fl := NewFileLock(fs.dir)
	if err := fl.Lock(); err != nil {
		return errors.NewStorageError("acquire ledger lock", err).WithPath(fs.dir)
	}
	defer func() { _ = fl.Unlock() }()

	current, err := fs.currentVersionLocked()
	if err != nil {
		return err
	}
	if current != version {
		return fmt.Errorf("%w: snapshot read at %s, ledger now at %s",
			errors.ErrStaleSnapshot, short(version), short(current))
	}

	tmp, err := os.CreateTemp(fs.dir, ".ledger-*.tmp")
	if err != nil {
		return errors.NewStorageError("create temp snapshot", err).WithPath(fs.dir)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.NewStorageError("write temp snapshot", err).WithPath(tmpPath)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return errors.NewStorageError("sync temp snapshot", err).WithPath(tmpPath)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return errors.NewStorageError("close temp snapshot", err).WithPath(tmpPath)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		_ = os.Remove(tmpPath)
		return errors.NewStorageError("chmod temp snapshot", err).WithPath(tmpPath)
	}

	if err := os.Rename(tmpPath, fs.path); err != nil {
		_ = os.Remove(tmpPath)
		return errors.NewStorageError("swap ledger snapshot", err).WithPath(fs.path)
	}
	return nil
}

// currentVersionLocked hashes the persisted snapshot without decoding it.
// A corrupted file still gets a well-defined version so a writer racing a
// corrupt ledger reports staleness rather than masking the corruption.
func (fs *FileStore) currentVersionLocked() (Version, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return VersionEmpty, nil
		}
		return "", errors.NewStorageError("read ledger snapshot", err).WithPath(fs.path)
	}
	return hashVersion(data), nil
}

// decodeLedger parses snapshot bytes strictly, rejecting unknown fields and
// malformed records at the storage boundary.
func decodeLedger(data []byte) (*Ledger, error) {
	var l Ledger
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrLedgerCorrupted, err)
	}
	if l.Items == nil {
		l.Items = []WorkItem{}
	}
	if err := l.Validate(); err != nil {
		if errors.Is(err, errors.ErrLedgerCorrupted) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errors.ErrLedgerCorrupted, err)
	}
	return &l, nil
}

// hashVersion derives the content-hash version for snapshot bytes.
func hashVersion(data []byte) Version {
	sum := sha256.Sum256(data)
	return Version(hex.EncodeToString(sum[:]))
}

// short abbreviates a version for error messages.
func short(v Version) string {
	s := string(v)
	if len(s) > 12 {
		return s[:12]
	}
	return s
}
