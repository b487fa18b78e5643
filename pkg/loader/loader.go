package loader

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formschema/pkg/condition"
	"github.com/goliatone/go-formschema/pkg/model"
)

// Document is a form loaded from a file.
type Document struct {
	ID     string
	Source string
	Schema *model.Schema
}

// Option configures a Loader.
type Option func(*Loader)

// WithPredicate makes a named predicate available to showWhen documents as
// {predicate: name}.
func WithPredicate(name string, fn condition.PredicateFunc) Option {
	return func(l *Loader) {
		name = strings.TrimSpace(name)
		if name != "" && fn != nil {
			l.predicates[name] = fn
		}
	}
}

// WithPredicates registers several named predicates at once.
func WithPredicates(predicates map[string]condition.PredicateFunc) Option {
	return func(l *Loader) {
		for name, fn := range predicates {
			WithPredicate(name, fn)(l)
		}
	}
}

// WithLabeler overrides how missing labels are derived.
func WithLabeler(labeler func(string) string) Option {
	return func(l *Loader) {
		l.labeler = labeler
	}
}

// WithLogger sets the logger. Defaults to zap.L().
func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		l.logger = logger
	}
}

// Loader parses YAML or JSON form documents into finalised schemas.
type Loader struct {
	predicates map[string]condition.PredicateFunc
	labeler    func(string) string
	logger     *zap.Logger
}

// New constructs a Loader.
func New(opts ...Option) *Loader {
	l := &Loader{predicates: make(map[string]condition.PredicateFunc)}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	if l.logger == nil {
		l.logger = zap.L()
	}
	return l
}

func (l *Loader) lookup(name string) (condition.PredicateFunc, bool) {
	fn, ok := l.predicates[name]
	return fn, ok
}

// Parse decodes every YAML document in data (JSON is accepted as YAML). A
// document without an id takes the file name stem, suffixed with its index
// when the file holds several documents.
func (l *Loader) Parse(data []byte, source string) ([]Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("loader: file %s is empty", source)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	b := builder{lookup: l.lookup}
	var (
		docs []Document
		errs []error
	)
	for index := 0; ; index++ {
		var raw documentFile
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loader: parse %s: %w", source, err)
		}

		id := strings.TrimSpace(raw.ID)
		if id == "" {
			id = stem(source)
			if index > 0 {
				id = fmt.Sprintf("%s-%d", id, index)
			}
		}
		schema, err := b.schema(raw, l.labeler)
		if err != nil {
			errs = append(errs, &DocumentError{Source: source, ID: id, Err: err})
			continue
		}
		docs = append(docs, Document{ID: id, Source: source, Schema: schema})
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return docs, nil
}

// LoadFS walks fsys and loads every .yaml, .yml and .json file into a new
// Registry. Every failing file is reported.
func (l *Loader) LoadFS(fsys fs.FS) (*Registry, error) {
	reg := NewRegistry()
	if fsys == nil {
		return reg, nil
	}

	var errs []error
	err := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(name) {
			return nil
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("loader: read %s: %w", name, err)
		}
		errs = append(errs, l.register(reg, data, name))
		return nil
	})
	if err != nil {
		return nil, err
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return reg, nil
}

// LoadFiles loads an explicit list of files into a new Registry.
func (l *Loader) LoadFiles(paths ...string) (*Registry, error) {
	reg := NewRegistry()
	var errs []error
	for _, name := range paths {
		data, err := os.ReadFile(name)
		if err != nil {
			errs = append(errs, fmt.Errorf("loader: read %s: %w", name, err))
			continue
		}
		errs = append(errs, l.register(reg, data, name))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return reg, nil
}

func (l *Loader) register(reg *Registry, data []byte, source string) error {
	docs, err := l.Parse(data, source)
	if err != nil {
		return err
	}
	var errs []error
	for _, doc := range docs {
		if err := reg.Register(doc); err != nil {
			errs = append(errs, err)
			continue
		}
		l.logger.Debug("loader: schema registered",
			zap.String("id", doc.ID),
			zap.String("source", source),
			zap.Int("fields", len(doc.Schema.Fields())),
		)
	}
	return errors.Join(errs...)
}

// DocumentError reports a document that failed to build.
type DocumentError struct {
	Source string
	ID     string
	Err    error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("loader: %s (form %q): %v", e.Source, e.ID, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

func isSchemaFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func stem(source string) string {
	base := filepath.Base(source)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
