// Package memory holds a document tree in process memory. It backs
// tests and lets the app run without a configured remote store.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"kolipanel/internal/store"
)

type Store struct {
	mu   sync.Mutex
	root map[string]any
	seq  int
}

var _ store.Client = (*Store)(nil)

func New() *Store {
	return &Store{root: make(map[string]any)}
}

func splitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// lookup walks to the node at path, returning nil when absent.
func (s *Store) lookup(path string) any {
	var node any = s.root
	for _, seg := range splitPath(path) {
		m, ok := node.(map[string]any)
		if !ok {
			return nil
		}
		node, ok = m[seg]
		if !ok {
			return nil
		}
	}
	return node
}

// parentOf walks to the parent map of path, creating intermediate
// maps along the way, and returns it with the final segment.
func (s *Store) parentOf(path string) (map[string]any, string, error) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil, "", fmt.Errorf("empty path")
	}
	node := s.root
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[seg] = child
		}
		node = child
	}
	return node, segs[len(segs)-1], nil
}

// toTree normalizes a value to plain maps/slices via a JSON round
// trip, matching what the wire adapter would store.
func toTree(value any) (any, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Get(_ context.Context, path string) (json.RawMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	node := s.lookup(path)
	if node == nil {
		return nil, nil
	}
	b, err := json.Marshal(node)
	if err != nil {
		return nil, fmt.Errorf("marshal subtree %s: %w", path, err)
	}
	return b, nil
}

func (s *Store) Set(_ context.Context, path string, value any) error {
	tree, err := toTree(value)
	if err != nil {
		return fmt.Errorf("set %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	parent, key, err := s.parentOf(path)
	if err != nil {
		return err
	}
	parent[key] = tree
	return nil
}

func (s *Store) Push(_ context.Context, path string, value any) (string, error) {
	tree, err := toTree(value)
	if err != nil {
		return "", fmt.Errorf("push %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	id := fmt.Sprintf("-mem%06d", s.seq)

	parent, key, err := s.parentOf(path)
	if err != nil {
		return "", err
	}
	coll, ok := parent[key].(map[string]any)
	if !ok {
		coll = make(map[string]any)
		parent[key] = coll
	}
	coll[id] = tree
	return id, nil
}

func (s *Store) Update(_ context.Context, path string, partial any) error {
	tree, err := toTree(partial)
	if err != nil {
		return fmt.Errorf("update %s: %w", path, err)
	}
	fields, ok := tree.(map[string]any)
	if !ok {
		return fmt.Errorf("update %s: partial must be an object", path)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	parent, key, err := s.parentOf(path)
	if err != nil {
		return err
	}
	node, ok := parent[key].(map[string]any)
	if !ok {
		node = make(map[string]any)
		parent[key] = node
	}
	for k, v := range fields {
		node[k] = v
	}
	return nil
}

func (s *Store) Delete(_ context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, key, err := s.parentOf(path)
	if err != nil {
		return err
	}
	delete(parent, key)
	return nil
}

func (s *Store) Probe(_ context.Context) bool {
	return true
}
