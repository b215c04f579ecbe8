// Package overlay provides the persisted exclusion overlay: the set of disabled slices
// applied on top of every gaze query.
//
// Readers get lock-free snapshots. Writers are serialized, persist the complete new set
// to disk first, and only publish it in memory once the write succeeded. A failed write
// leaves the previous set in place.
package overlay

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/gaze-slices-go/gazestore"
)

const (
	// DefaultFileName is the overlay file name inside the application data directory.
	DefaultFileName = "disabled_slices.json"

	filePerm = 0o600
	dirPerm  = 0o700

	logMsgLoaded         = "exclusion overlay loaded"
	logMsgMissingFile    = "exclusion overlay file not found, starting empty"
	logMsgUnreadableFile = "exclusion overlay file unreadable, starting empty"
	logMsgCorruptFile    = "exclusion overlay file corrupt, starting empty"
	logMsgPersistFailed  = "persisting exclusion overlay failed"
	logMsgCommitted      = "exclusion overlay committed"
	logAttrPath          = "path"
	logAttrError         = "error"
	logAttrSliceCount    = "slice_count"
	logAttrOperation     = "operation"
	operationReplace     = "replace"
	operationToggle      = "toggle"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Store owns the exclusion overlay. Create one with Open and inject it wherever
// queries run; there is no package-level instance.
type Store struct {
	path     string
	current  atomic.Pointer[gazestore.SliceSet]
	writeMu  sync.Mutex
	logger   gazestore.Logger
	onChange func(gazestore.SliceSet)
}

// Option defines a functional option for configuring a Store.
type Option func(*Store) error

// WithLogger sets the logger for the Store.
func WithLogger(logger gazestore.Logger) Option {
	return func(s *Store) error {
		s.logger = logger
		return nil
	}
}

// WithOnChange registers a callback invoked after every committed mutation with the new set.
// It runs on the writer's goroutine while other writers are still excluded.
func WithOnChange(fn func(gazestore.SliceSet)) Option {
	return func(s *Store) error {
		s.onChange = fn
		return nil
	}
}

// DefaultPath returns <user config dir>/<appName>/disabled_slices.json.
func DefaultPath(appName string) (string, error) {
	if appName == "" {
		return "", errors.New("app name must not be empty")
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}

	return filepath.Join(base, appName, DefaultFileName), nil
}

// Open creates a Store backed by the file at path and loads it once.
// A missing or unparsable file yields an empty overlay, not an error.
func Open(path string, options ...Option) (*Store, error) {
	if path == "" {
		return nil, errors.New("overlay path must not be empty")
	}

	s := &Store{path: path}

	for _, option := range options {
		if err := option(s); err != nil {
			return nil, err
		}
	}

	loaded := s.load()
	s.current.Store(&loaded)

	return s, nil
}

// Path returns the file the overlay is persisted to.
func (s *Store) Path() string {
	return s.path
}

// Get returns a point-in-time snapshot of the overlay. It never blocks.
func (s *Store) Get() gazestore.SliceSet {
	return *s.current.Load()
}

// Replace substitutes the whole overlay. The new set is persisted first and only becomes
// visible once the write succeeded; otherwise the previous set is kept and ErrPersistFailed is returned.
func (s *Store) Replace(ctx context.Context, next gazestore.SliceSet) error {
	return s.mutate(ctx, operationReplace, func(gazestore.SliceSet) gazestore.SliceSet {
		return next
	})
}

// Toggle excludes (excluded=true) or re-includes (excluded=false) a single slice,
// with the same persist-before-commit discipline as Replace.
func (s *Store) Toggle(ctx context.Context, slice gazestore.Slice, excluded bool) error {
	return s.mutate(ctx, operationToggle, func(cur gazestore.SliceSet) gazestore.SliceSet {
		if excluded {
			return cur.With(slice)
		}

		return cur.Without(slice)
	})
}

func (s *Store) mutate(
	ctx context.Context,
	operation string,
	next func(gazestore.SliceSet) gazestore.SliceSet,
) error {

	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	updated := next(s.Get())

	if err := s.persist(updated); err != nil {
		s.logError(logMsgPersistFailed, err, logAttrOperation, operation, logAttrPath, s.path)
		return errors.Join(gazestore.ErrPersistFailed, err)
	}

	s.current.Store(&updated)

	if s.logger != nil {
		s.logger.Info(logMsgCommitted, logAttrOperation, operation, logAttrSliceCount, updated.Len())
	}

	if s.onChange != nil {
		s.onChange(updated)
	}

	return nil
}

func (s *Store) load() gazestore.SliceSet {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logWarn(logMsgMissingFile, logAttrPath, s.path)
		} else {
			s.logWarn(logMsgUnreadableFile, logAttrPath, s.path, logAttrError, err.Error())
		}

		return gazestore.NewSliceSet()
	}

	var slices []gazestore.Slice
	if err := json.Unmarshal(data, &slices); err != nil {
		s.logWarn(logMsgCorruptFile, logAttrPath, s.path, logAttrError, err.Error())
		return gazestore.NewSliceSet()
	}

	set := gazestore.NewSliceSet(slices...)

	if s.logger != nil {
		s.logger.Info(logMsgLoaded, logAttrPath, s.path, logAttrSliceCount, set.Len())
	}

	return set
}

// persist writes the full set through a temp file in the target directory and renames it into place.
func (s *Store) persist(set gazestore.SliceSet) error {
	data, err := Encode(set)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return fmt.Errorf("create overlay directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".disabled-slices-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmp.Chmod(filePerm); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename overlay file: %w", err)
	}

	return nil
}

// Encode renders a set in the persisted file format: a pretty-printed, sorted JSON array.
func Encode(set gazestore.SliceSet) ([]byte, error) {
	return json.MarshalIndent(set.Slices(), "", "  ")
}

func (s *Store) logWarn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func (s *Store) logError(msg string, err error, args ...any) {
	if s.logger != nil {
		allArgs := []any{logAttrError, err.Error()}
		allArgs = append(allArgs, args...)
		s.logger.Error(msg, allArgs...)
	}
}
