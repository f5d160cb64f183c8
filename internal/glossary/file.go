package glossary

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/internal/tokenizer"
	apperrors "github.com/Adithya-Monish-Kumar-K/Glossary-Extractor/pkg/errors"
)

// RecordSeparator delimits words in a glossary file.
const RecordSeparator = "\n"

const lockRetryDelay = 50 * time.Millisecond

// FileBackend stores the glossary as a plain text file with one word per
// record. There is no header, escaping, or trailing separator.
type FileBackend struct {
	path        string
	lockTimeout time.Duration
}

// NewFileBackend returns a backend for the glossary file at path. Dumps hold
// an advisory lock on path+".lock" for at most lockTimeout. The lock file is
// left in place after a dump and reused by later runs; unlinking it while
// another process waits on it would let two writers hold separate locks.
func NewFileBackend(path string, lockTimeout time.Duration) *FileBackend {
	return &FileBackend{path: path, lockTimeout: lockTimeout}
}

func (b *FileBackend) Location() string {
	return b.path
}

// Load reads the glossary file. A missing file is an empty glossary.
// Empty records, such as the one produced by a trailing newline, are
// dropped so the empty string never becomes a word.
func (b *FileBackend) Load(ctx context.Context) (tokenizer.WordSet, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(tokenizer.WordSet), nil
	}
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrIO, apperrors.ExitFatal, "reading glossary file %s: %v", b.path, err)
	}
	records := strings.Split(string(data), RecordSeparator)
	words := make(tokenizer.WordSet, len(records))
	for _, r := range records {
		if r == "" {
			continue
		}
		words[r] = struct{}{}
	}
	return words, nil
}

// Save replaces the glossary file with words, one per record, in the given
// order. It writes to a temporary file next to the target and renames it
// into place, so a failed dump leaves the previous glossary intact.
func (b *FileBackend) Save(ctx context.Context, words []string) error {
	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.Newf(apperrors.ErrIO, apperrors.ExitFatal, "creating glossary directory: %v", err)
	}

	unlock, err := b.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	tmpPath := b.path + ".tmp"
	if err := writeRecords(tmpPath, words); err != nil {
		os.Remove(tmpPath)
		return apperrors.Newf(apperrors.ErrIO, apperrors.ExitFatal, "writing glossary file: %v", err)
	}
	if err := os.Rename(tmpPath, b.path); err != nil {
		os.Remove(tmpPath)
		return apperrors.Newf(apperrors.ErrIO, apperrors.ExitFatal, "renaming glossary file: %v", err)
	}
	return nil
}

func (b *FileBackend) lock(ctx context.Context) (func(), error) {
	fl := flock.New(b.path + ".lock")
	lockCtx := ctx
	if b.lockTimeout > 0 {
		var cancel context.CancelFunc
		lockCtx, cancel = context.WithTimeout(ctx, b.lockTimeout)
		defer cancel()
	}
	ok, err := fl.TryLockContext(lockCtx, lockRetryDelay)
	if err != nil {
		return nil, apperrors.Newf(apperrors.ErrIO, apperrors.ExitFatal, "locking glossary file %s: %v", b.path, err)
	}
	if !ok {
		return nil, apperrors.Newf(apperrors.ErrIO, apperrors.ExitFatal, "glossary file %s is locked by another run", b.path)
	}
	return func() { fl.Unlock() }, nil
}

func writeRecords(path string, words []string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating temp glossary file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for i, word := range words {
		if i > 0 {
			if _, err := w.WriteString(RecordSeparator); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(word); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flushing glossary records: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("syncing glossary file: %w", err)
	}
	return f.Close()
}
