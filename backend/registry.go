// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package backend

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/gogpu/trace"
	"github.com/gogpu/trace/gpucore"
)

var (
	registryMu sync.RWMutex
	backends   = make(map[string]Factory)
	// Priority order for Default (first that works wins).
	backendPriority = []string{BackendGPU, BackendSoftware}
)

// Register registers a backend factory with the given name.
// This is typically called from init() functions in backend packages.
// If a backend with the same name is already registered, it is replaced.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = factory
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names, sorted.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()

	names := make([]string, 0, len(backends))
	for name := range backends {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// Get creates a pipeline from the named backend.
func Get(name string, width, height int, opts ...gpucore.Option) (gpucore.Pipeline, error) {
	registryMu.RLock()
	factory, ok := backends[name]
	registryMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBackendNotAvailable, name)
	}
	p, err := factory(width, height, opts...)
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", name, err)
	}
	return p, nil
}

// Default creates a pipeline from the best backend that works, in priority
// order gpu > software, then any other registered backend by name.
func Default(width, height int, opts ...gpucore.Option) (gpucore.Pipeline, error) {
	var errs []error
	for _, name := range candidates() {
		p, err := Get(name, width, height, opts...)
		if err == nil {
			trace.Logger().Info("backend: selected", "backend", name)
			return p, nil
		}
		// An invalid size fails the same way on every backend.
		if errors.Is(err, gpucore.ErrInvalidSize) {
			return nil, err
		}
		trace.Logger().Warn("backend: unavailable, falling back", "backend", name, "err", err)
		errs = append(errs, err)
	}
	return nil, errors.Join(append([]error{ErrBackendNotAvailable}, errs...)...)
}

// candidates returns registered names in selection order.
func candidates() []string {
	names := Available()
	out := make([]string, 0, len(names))
	for _, name := range backendPriority {
		if slices.Contains(names, name) {
			out = append(out, name)
		}
	}
	for _, name := range names {
		if !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}
