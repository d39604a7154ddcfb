package store

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/tomz197/breakout/internal/loop/game"
)

// saveFormatVersion is the envelope layout written by SaveFile.
const saveFormatVersion = 1

var (
	// ErrChecksum means the payload does not match its recorded checksum.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrUnsupportedVersion means the envelope was written by an unknown format.
	ErrUnsupportedVersion = errors.New("unsupported save format version")
	// ErrMissingField means a required snapshot field is absent.
	ErrMissingField = errors.New("missing field")
)

// LoadError reports why a save file could not be turned into a snapshot.
type LoadError struct {
	Path  string
	Field string // dotted path of the offending field, if any
	Err   error
}

func (e *LoadError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("load %s: %s: %v", e.Path, e.Field, e.Err)
	}
	return fmt.Sprintf("load %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

type envelope struct {
	Version  int    `msgpack:"version"`
	Checksum uint64 `msgpack:"checksum"`
	Payload  []byte `msgpack:"payload"`
}

// SaveFile stores one game snapshot at a fixed path.
type SaveFile struct {
	path string
}

// NewSaveFile returns a save file at path.
func NewSaveFile(path string) *SaveFile {
	return &SaveFile{path: path}
}

// Path returns the backing file path.
func (s *SaveFile) Path() string { return s.path }

// Save writes the snapshot, replacing any previous save atomically.
func (s *SaveFile) Save(snap game.Snapshot) error {
	payload, err := msgpack.Marshal(&snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data, err := msgpack.Marshal(&envelope{
		Version:  saveFormatVersion,
		Checksum: xxhash.Sum64(payload),
		Payload:  payload,
	})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp save: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close save: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace save: %w", err)
	}
	return nil
}

// Exists reports whether a save has been written.
func (s *SaveFile) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Remove deletes the save. A missing file is not an error.
func (s *SaveFile) Remove() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove save: %w", err)
	}
	return nil
}

// Load reads and verifies the snapshot. Every failure is a *LoadError;
// nothing is partially reconstructed.
func (s *SaveFile) Load() (game.Snapshot, error) {
	var snap game.Snapshot
	fail := func(field string, err error) (game.Snapshot, error) {
		return game.Snapshot{}, &LoadError{Path: s.path, Field: field, Err: err}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return fail("", err)
	}

	var env envelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return fail("", fmt.Errorf("decode envelope: %w", err))
	}
	if env.Version != saveFormatVersion {
		return fail("version", fmt.Errorf("%w: %d", ErrUnsupportedVersion, env.Version))
	}
	if xxhash.Sum64(env.Payload) != env.Checksum {
		return fail("checksum", ErrChecksum)
	}

	var raw map[string]any
	if err := msgpack.Unmarshal(env.Payload, &raw); err != nil {
		return fail("", fmt.Errorf("decode snapshot: %w", err))
	}
	if field := missingField(reflect.TypeOf(snap), raw, ""); field != "" {
		return fail(field, ErrMissingField)
	}

	if err := msgpack.NewDecoder(bytes.NewReader(env.Payload)).Decode(&snap); err != nil {
		return fail("", fmt.Errorf("decode snapshot: %w", err))
	}
	return snap, nil
}

// missingField walks t's msgpack-tagged fields and returns the dotted path of
// the first one absent from v, or "" when all are present.
func missingField(t reflect.Type, v any, path string) string {
	switch t.Kind() {
	case reflect.Struct:
		m, ok := v.(map[string]any)
		if !ok {
			return path
		}
		for i := range t.NumField() {
			f := t.Field(i)
			name, _, _ := strings.Cut(f.Tag.Get("msgpack"), ",")
			if name == "" || name == "-" {
				continue
			}
			child := join(path, name)
			fv, ok := m[name]
			if !ok {
				return child
			}
			if missing := missingField(f.Type, fv, child); missing != "" {
				return missing
			}
		}
	case reflect.Slice:
		if t.Elem().Kind() != reflect.Struct {
			return ""
		}
		items, ok := v.([]any)
		if !ok {
			// msgpack encodes a nil slice as nil.
			if v == nil {
				return ""
			}
			return path
		}
		for i, item := range items {
			if missing := missingField(t.Elem(), item, fmt.Sprintf("%s[%d]", path, i)); missing != "" {
				return missing
			}
		}
	}
	return ""
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}
