package checkpoint

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type payload struct {
	Name    string
	Weights []float64
}

func TestPath(t *testing.T) {
	got := Path("/out")
	if got != filepath.Join("/out", "ner_bert_agent", "ner_bert_agent.pkl") {
		t.Fatalf("got %s", got)
	}
}

func TestSaveLoad(t *testing.T) {
	path := Path(t.TempDir())
	in := payload{Name: "agent", Weights: []float64{0.5, -1}}
	if err := Save(path, 2, &in); err != nil {
		t.Fatalf("Save: %v", err)
	}

	out := payload{}
	if err := Load(path, 2, &out); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if out.Name != in.Name || len(out.Weights) != 2 || out.Weights[1] != -1 {
		t.Fatalf("got %+v, want %+v", out, in)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the checkpoint, found %d files", len(entries))
	}
}

func TestSaveReplaces(t *testing.T) {
	path := Path(t.TempDir())
	if err := Save(path, 1, &payload{Name: "old"}); err != nil {
		t.Fatal(err)
	}
	if err := Save(path, 1, &payload{Name: "new"}); err != nil {
		t.Fatal(err)
	}
	out := payload{}
	if err := Load(path, 1, &out); err != nil {
		t.Fatal(err)
	}
	if out.Name != "new" {
		t.Fatalf("got %s, want new", out.Name)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	out := payload{}

	if err := Load(filepath.Join(dir, "missing"), 1, &out); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing: got %v, want ErrNotFound", err)
	}

	garbage := filepath.Join(dir, "garbage")
	os.WriteFile(garbage, []byte("not a gob stream"), 0o644)
	if err := Load(garbage, 1, &out); !errors.Is(err, ErrCorrupt) {
		t.Fatalf("garbage: got %v, want ErrCorrupt", err)
	}

	old := filepath.Join(dir, "old")
	if err := Save(old, 1, &payload{Name: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := Load(old, 2, &out); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("version: got %v, want ErrSchemaMismatch", err)
	}

	full, err := os.ReadFile(old)
	if err != nil {
		t.Fatal(err)
	}
	truncated := filepath.Join(dir, "truncated")
	os.WriteFile(truncated, full[:len(full)-4], 0o644)
	err = Load(truncated, 1, &out)
	if !errors.Is(err, ErrCorrupt) || !strings.Contains(err.Error(), "truncated") {
		t.Fatalf("truncated: got %v, want ErrCorrupt", err)
	}
}
