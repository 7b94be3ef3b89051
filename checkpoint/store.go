package checkpoint

import (
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	Magic = "twrl-checkpoint"

	dirName  = "ner_bert_agent"
	fileName = "ner_bert_agent.pkl"
)

var (
	ErrNotFound       = errors.New("checkpoint not found")
	ErrCorrupt        = errors.New("checkpoint is corrupt")
	ErrSchemaMismatch = errors.New("checkpoint schema mismatch")
)

type header struct {
	Magic   string
	Version int
}

// Path returns where the agent checkpoint lives inside an output directory.
func Path(output string) string {
	return filepath.Join(output, dirName, fileName)
}

// Save gob encodes v behind a versioned header. The file is written to a
// temporary sibling and renamed into place, so path either holds the old
// or the new checkpoint.
func Save(path string, version int, v any) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating checkpoint dir: %w", err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating checkpoint: %w", err)
	}
	tmp := f.Name()
	cleanup := func(err error) error {
		f.Close()
		os.Remove(tmp)
		return err
	}

	enc := gob.NewEncoder(f)
	if err := enc.Encode(header{Magic: Magic, Version: version}); err != nil {
		return cleanup(fmt.Errorf("writing checkpoint header: %w", err))
	}
	if err := enc.Encode(v); err != nil {
		return cleanup(fmt.Errorf("writing checkpoint: %w", err))
	}
	if err := f.Sync(); err != nil {
		return cleanup(fmt.Errorf("syncing checkpoint: %w", err))
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing checkpoint: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing checkpoint: %w", err)
	}
	return nil
}

// Load decodes the checkpoint at path into v. The error wraps ErrNotFound,
// ErrCorrupt or ErrSchemaMismatch.
func Load(path string, version int, v any) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("opening checkpoint: %w", err)
	}
	defer f.Close()

	dec := gob.NewDecoder(f)
	h := header{}
	if err := dec.Decode(&h); err != nil {
		return fmt.Errorf("%w: reading header: %s", ErrCorrupt, describe(err))
	}
	if h.Magic != Magic {
		return fmt.Errorf("%w: not a checkpoint file", ErrSchemaMismatch)
	}
	if h.Version != version {
		return fmt.Errorf("%w: version %d, want %d", ErrSchemaMismatch, h.Version, version)
	}
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: reading payload: %s", ErrCorrupt, describe(err))
	}
	return nil
}

func describe(err error) string {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return "truncated file"
	}
	return err.Error()
}
