// Package memds provides an in-memory espalier backend for tests and
// local development. It implements the full backend contract,
// including property filtering and sorting, without any external
// service.
package memds

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/jacentio/espalier/entity"
	"github.com/jacentio/espalier/query"
)

// Store is an in-memory Backend. The zero value is not usable; use New.
type Store struct {
	mu   sync.RWMutex
	rows map[string]row
}

type row struct {
	key   *entity.Key
	props entity.Properties
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		rows: make(map[string]row),
	}
}

// Put stores props under key, assigning a UUID name when key is nil.
// Property maps are copied on the way in so callers never share
// storage memory.
func (s *Store) Put(_ context.Context, kind string, key *entity.Key, props entity.Properties) (*entity.Key, error) {
	if key == nil {
		key = entity.NewKey(kind, uuid.NewString(), nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[key.Path()] = row{key: key, props: copyProps(props)}
	return key, nil
}

// Get returns a copy of the properties stored under key.
func (s *Store) Get(_ context.Context, key *entity.Key) (entity.Properties, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.rows[key.Path()]
	if !ok {
		return nil, entity.ErrNotFound
	}
	return copyProps(r.props), nil
}

// Update overlays props onto the stored entity.
func (s *Store) Update(_ context.Context, key *entity.Key, props entity.Properties) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.rows[key.Path()]
	if !ok {
		return entity.ErrNotFound
	}
	for k, v := range props {
		r.props[k] = v
	}
	return nil
}

// Delete removes the entities stored under keys. Missing keys are
// ignored.
func (s *Store) Delete(_ context.Context, keys ...*entity.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		delete(s.rows, k.Path())
	}
	return nil
}

// Query returns copies of all entities of kind matching spec. With no
// sort terms, results come back in key-path order so repeated queries
// are deterministic.
func (s *Store) Query(_ context.Context, kind string, spec query.Spec) ([]entity.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	filters := spec.Filters()
	var results []entity.Result
	for _, r := range s.rows {
		if r.key.Kind != kind {
			continue
		}
		ok, err := matches(r.props, filters)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		results = append(results, entity.Result{Key: r.key, Props: copyProps(r.props)})
	}

	sorts := spec.Sorts()
	sort.SliceStable(results, func(i, j int) bool {
		for _, term := range sorts {
			c := compare(results[i].Props[term.Property], results[j].Props[term.Property])
			if c == 0 {
				continue
			}
			if term.Dir == query.Descending {
				return c > 0
			}
			return c < 0
		}
		return results[i].Key.Path() < results[j].Key.Path()
	})

	return results, nil
}

// matches evaluates every filter against a property map.
func matches(props entity.Properties, filters []query.Filter) (bool, error) {
	for _, f := range filters {
		v := props[f.Property]
		ok, err := evaluate(v, f)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evaluate(v any, f query.Filter) (bool, error) {
	switch f.Op {
	case query.Equal:
		return equal(v, f.Value), nil
	case query.NotEqual:
		return !equal(v, f.Value), nil
	case query.LessThan:
		return compare(v, f.Value) < 0, nil
	case query.LessEq:
		return compare(v, f.Value) <= 0, nil
	case query.GreaterThan:
		return compare(v, f.Value) > 0, nil
	case query.GreaterEq:
		return compare(v, f.Value) >= 0, nil
	case query.In:
		candidates, ok := f.Value.([]any)
		if !ok {
			return false, fmt.Errorf("memds: in operator requires []any, got %T", f.Value)
		}
		for _, c := range candidates {
			if equal(v, c) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, fmt.Errorf("memds: unsupported operator %v", f.Op)
	}
}

// equal compares with numeric widening so 2010 matches int64(2010).
func equal(a, b any) bool {
	if af, aok := toFloat(a); aok {
		bf, bok := toFloat(b)
		return bok && af == bf
	}
	if at, ok := a.(entity.Text); ok {
		a = string(at)
	}
	if bt, ok := b.(entity.Text); ok {
		b = string(bt)
	}
	return reflect.DeepEqual(a, b)
}

// compare orders two property values: numbers before anything else,
// then strings, with absent (nil) values first. Incomparable pairs
// order as equal.
func compare(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}
	if af, aok := toFloat(a); aok {
		if bf, bok := toFloat(b); bok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}
	as, aok := toString(a)
	bs, bok := toString(b)
	if aok && bok {
		switch {
		case as < bs:
			return -1
		case as > bs:
			return 1
		}
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case entity.Text:
		return string(s), true
	default:
		return "", false
	}
}

func copyProps(props entity.Properties) entity.Properties {
	out := make(entity.Properties, len(props))
	for k, v := range props {
		out[k] = v
	}
	return out
}
