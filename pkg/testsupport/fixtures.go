package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formschema/pkg/loader"
	"github.com/goliatone/go-formschema/pkg/model"
)

// LoadSchema reads a single-form fixture and returns its schema.
func LoadSchema(path string, opts ...loader.Option) (*model.Schema, error) {
	if path == "" {
		return nil, errors.New("testsupport: schema path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read schema: %w", err)
	}
	docs, err := loader.New(opts...).Parse(data, path)
	if err != nil {
		return nil, err
	}
	if len(docs) != 1 {
		return nil, fmt.Errorf("testsupport: expected one form in %s, found %d", path, len(docs))
	}
	return docs[0].Schema, nil
}

// MustLoadSchema is LoadSchema failing the test on error.
func MustLoadSchema(t *testing.T, path string, opts ...loader.Option) *model.Schema {
	t.Helper()

	schema, err := LoadSchema(path, opts...)
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}
	return schema
}

// MustLoadRegistry loads every form under dir.
func MustLoadRegistry(t *testing.T, dir string, opts ...loader.Option) *loader.Registry {
	t.Helper()

	reg, err := loader.New(opts...).LoadFS(os.DirFS(dir))
	if err != nil {
		t.Fatalf("load registry: %v", err)
	}
	return reg
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CompareJSON decodes both payloads and returns a diff of the decoded values,
// so formatting and key order do not matter.
func CompareJSON(t *testing.T, want, got []byte) string {
	t.Helper()

	var wantValue, gotValue any
	if err := json.Unmarshal(want, &wantValue); err != nil {
		t.Fatalf("decode want: %v", err)
	}
	if err := json.Unmarshal(got, &gotValue); err != nil {
		t.Fatalf("decode got: %v", err)
	}
	return cmp.Diff(wantValue, gotValue)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
