package service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/inertpad/inertpad/utils"
)

// ShutdownHook releases the resources of a run in reverse order of
// acquisition, so the controller stops before the virtual mouse it writes to
// and the touchpad is closed last.
type ShutdownHook struct {
	mu    sync.Mutex
	hooks []namedHook
}

type namedHook struct {
	name string
	fn   func() error
}

// NewShutdownHook creates an empty hook list
func NewShutdownHook() *ShutdownHook {
	return &ShutdownHook{}
}

// Register adds a cleanup function. name is used in logs and errors.
func (s *ShutdownHook) Register(name string, cleanupFn func() error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks = append(s.hooks, namedHook{name: name, fn: cleanupFn})
	utils.Debug("Registered shutdown hook: %s", name)
}

// Shutdown runs every hook, newest first. A failing hook does not stop the
// remaining ones; all failures are returned joined.
func (s *ShutdownHook) Shutdown() error {
	s.mu.Lock()
	hooks := s.hooks
	s.hooks = nil
	s.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		hook := hooks[i]
		utils.Debug("Running shutdown hook: %s", hook.name)
		if err := hook.fn(); err != nil {
			utils.Debug("Shutdown hook %s failed: %v", hook.name, err)
			errs = append(errs, fmt.Errorf("%s: %w", hook.name, err))
		}
	}

	return errors.Join(errs...)
}

// Count returns the number of pending hooks
func (s *ShutdownHook) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.hooks)
}
