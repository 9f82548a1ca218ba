// Package store persists each project's task list and dependency graph in a
// key-value store.
package store

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/tasklane/tasklane/internal/kv"
)

// keyPrefix is the namespace for all project keys.
const keyPrefix = "project/"

// Manager hands out project handles over one kv.Store.
// Handles for the same project share a lock.
type Manager struct {
	kv     kv.Store
	logger *log.Logger
	locks  map[string]*sync.Mutex
	mu     sync.Mutex
}

// NewManager creates a new Manager. A nil logger uses log.Default().
func NewManager(store kv.Store, logger *log.Logger) *Manager {
	if logger == nil {
		logger = log.Default()
	}
	return &Manager{
		kv:     store,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Project returns the handle for the named project.
func (m *Manager) Project(name string) *Project {
	m.mu.Lock()
	lock, ok := m.locks[name]
	if !ok {
		lock = &sync.Mutex{}
		m.locks[name] = lock
	}
	m.mu.Unlock()

	return &Project{
		name:   name,
		kv:     m.kv,
		lock:   lock,
		logger: m.logger.With("project", name),
	}
}

// ListProjects returns the names of all projects that have a task list.
func (m *Manager) ListProjects(ctx context.Context) ([]string, error) {
	keys, err := m.kv.Keys(ctx, keyPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := []string{}
	for _, key := range keys {
		rest := strings.TrimPrefix(key, keyPrefix)
		name, suffix, ok := strings.Cut(rest, "/")
		if ok && suffix == tasksSuffix {
			projects = append(projects, name)
		}
	}
	return projects, nil
}

// Close closes the underlying store.
func (m *Manager) Close() error {
	return m.kv.Close()
}
