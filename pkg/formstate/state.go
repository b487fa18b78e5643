// Package formstate is a small value-state container for form previews and
// tests. It stores values keyed by field path, seeds schema defaults and
// notifies subscribers of every change. Paths that extend past a field, or
// that name no field of the schema, reach into nested maps.
package formstate

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formschema/pkg/condition"
	"github.com/goliatone/go-formschema/pkg/dependency"
	"github.com/goliatone/go-formschema/pkg/model"
)

// Listener receives change events.
type Listener func(dependency.Event)

// Option configures a State.
type Option func(*State)

// WithValues prefills values on top of the schema defaults.
func WithValues(values map[string]any) Option {
	return func(s *State) {
		for key, value := range values {
			s.values[key] = condition.CloneValue(value)
		}
	}
}

// WithLogger sets the logger used for rejected writes. Defaults to zap.L().
func WithLogger(logger *zap.Logger) Option {
	return func(s *State) {
		s.logger = logger
	}
}

// State holds the current form values. Writes are serialised; listeners run
// synchronously after the write, outside the lock, in the order events were
// produced. Events raised by listeners are queued and delivered after the
// current one.
type State struct {
	mu          sync.Mutex
	values      map[string]any
	fields      map[string]struct{}
	listeners   map[int]Listener
	order       []int
	nextID      int
	queue       []dependency.Event
	dispatching bool
	logger      *zap.Logger
}

// New creates a State seeded with the defaults of schema.
func New(schema *model.Schema, opts ...Option) *State {
	s := &State{
		values:    make(map[string]any),
		fields:    make(map[string]struct{}),
		listeners: make(map[int]Listener),
	}
	if schema != nil {
		for _, entry := range schema.Fields() {
			s.fields[entry.Path] = struct{}{}
		}
		for key, value := range schema.Defaults() {
			s.values[key] = value
		}
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Subscribe registers fn and returns a function that removes it.
func (s *State) Subscribe(fn Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Bind wires policy so that changes reset dependent fields through this
// state. Resets produce their own events, so chains of dependencies cascade
// until values stop changing.
func (s *State) Bind(policy *dependency.Policy) func() {
	return s.Subscribe(func(event dependency.Event) {
		policy.Handle(event, s)
	})
}

// Snapshot returns a deep copy of the current values.
func (s *State) Snapshot() condition.Values {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(condition.Values, len(s.values))
	for key, value := range s.values {
		out[key] = condition.CloneValue(value)
	}
	return out
}

// Get resolves a field path or a dotted path into a value.
func (s *State) Get(path string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value, ok := s.values[path]; ok {
		return condition.CloneValue(value), true
	}
	if field, rest := s.fieldOf(path); rest != "" {
		if value, ok := getPath(s.values[field], rest); ok {
			return condition.CloneValue(value), true
		}
	}
	value, ok := getPath(s.values, path)
	return condition.CloneValue(value), ok
}

// SetValue writes value at path. The path is split into the field it names
// and a remainder; the remainder creates intermediate maps inside the field
// value. An event naming the field is emitted when its value actually
// changes.
func (s *State) SetValue(path string, value any) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("formstate: empty path")
	}
	for _, segment := range strings.Split(path, ".") {
		if segment == "" {
			return fmt.Errorf("formstate: empty segment in path %q", path)
		}
	}

	s.mu.Lock()
	field, rest := s.fieldOf(path)
	old := condition.CloneValue(s.values[field])
	if rest == "" {
		s.values[field] = condition.CloneValue(value)
	} else if err := setPath(s.values, field, rest, condition.CloneValue(value)); err != nil {
		s.mu.Unlock()
		return err
	}
	s.enqueueLocked(dependency.Event{Field: field, Old: old, New: condition.CloneValue(s.values[field])})
	s.dispatch()
	return nil
}

// Set implements dependency.Resetter. Rejected writes are logged.
func (s *State) Set(field string, value any) {
	if err := s.SetValue(field, value); err != nil {
		s.log().Warn("formstate: set rejected", zap.String("field", field), zap.Error(err))
	}
}

// Unset removes the value at path.
func (s *State) Unset(path string) {
	s.mu.Lock()
	field, rest := s.fieldOf(strings.TrimSpace(path))
	old, present := s.values[field]
	if !present {
		s.mu.Unlock()
		return
	}
	old = condition.CloneValue(old)
	if rest == "" {
		delete(s.values, field)
	} else {
		deletePath(s.values[field], rest)
	}
	s.enqueueLocked(dependency.Event{Field: field, Old: old, New: condition.CloneValue(s.values[field])})
	s.dispatch()
}

func (s *State) enqueueLocked(event dependency.Event) {
	if !event.Changed() {
		return
	}
	s.queue = append(s.queue, event)
}

// dispatch must be called with s.mu held; it releases the lock.
func (s *State) dispatch() {
	if s.dispatching {
		s.mu.Unlock()
		return
	}
	s.dispatching = true
	for len(s.queue) > 0 {
		event := s.queue[0]
		s.queue = s.queue[1:]
		listeners := s.snapshotListenersLocked()
		s.mu.Unlock()
		for _, fn := range listeners {
			fn(event)
		}
		s.mu.Lock()
	}
	s.dispatching = false
	s.mu.Unlock()
}

func (s *State) snapshotListenersLocked() []Listener {
	out := make([]Listener, 0, len(s.listeners))
	live := s.order[:0]
	for _, id := range s.order {
		fn, ok := s.listeners[id]
		if !ok {
			continue
		}
		live = append(live, id)
		out = append(out, fn)
	}
	s.order = live
	return out
}

func (s *State) log() *zap.Logger {
	if s.logger != nil {
		return s.logger
	}
	return zap.L()
}

// fieldOf splits path into the longest schema field path it starts with and
// the remainder. Paths outside the schema split after their first segment.
func (s *State) fieldOf(path string) (string, string) {
	if _, ok := s.fields[path]; ok {
		return path, ""
	}
	for idx := strings.LastIndex(path, "."); idx > 0; idx = strings.LastIndex(path[:idx], ".") {
		if _, ok := s.fields[path[:idx]]; ok {
			return path[:idx], path[idx+1:]
		}
	}
	head, rest, _ := strings.Cut(path, ".")
	return head, rest
}

func getPath(root any, path string) (any, bool) {
	current := root
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case condition.Values:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// setPath writes value at path inside the map stored under field, creating
// the map and any intermediate maps.
func setPath(values map[string]any, field, path string, value any) error {
	if values[field] == nil {
		values[field] = make(map[string]any)
	}
	node, ok := values[field].(map[string]any)
	if !ok {
		return fmt.Errorf("formstate: %q holds %s, not a map", field, reflect.TypeOf(values[field]))
	}
	segments := strings.Split(path, ".")
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment]
		if !ok || child == nil {
			next := make(map[string]any)
			node[segment] = next
			node = next
			continue
		}
		next, ok := child.(map[string]any)
		if !ok {
			return fmt.Errorf("formstate: %q holds %s, not a map", segment, reflect.TypeOf(child))
		}
		node = next
	}
	node[segments[len(segments)-1]] = value
	return nil
}

func deletePath(root any, path string) {
	node, ok := root.(map[string]any)
	if !ok {
		return
	}
	segments := strings.Split(path, ".")
	for _, segment := range segments[:len(segments)-1] {
		next, ok := node[segment].(map[string]any)
		if !ok {
			return
		}
		node = next
	}
	delete(node, segments[len(segments)-1])
}
