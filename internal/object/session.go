package object

import (
	"sort"
	"sync"
)

// Session holds the variable bindings for one evaluation scope. Sessions
// chain outward: lambda application and lazy arguments create child
// sessions, and lookups walk the chain toward the root. Writes always land
// in the session they are made on, never an outer one.
type Session struct {
	bindings map[string]Object
	outer    *Session
	mu       sync.RWMutex
}

func NewSession() *Session {
	return &Session{bindings: make(map[string]Object)}
}

// NewChildSession creates a scope whose lookups fall through to outer.
func NewChildSession(outer *Session) *Session {
	s := NewSession()
	s.outer = outer
	return s
}

// Get resolves name in this scope or any outer scope.
func (s *Session) Get(name string) (Object, bool) {
	s.mu.RLock()
	obj, ok := s.bindings[name]
	s.mu.RUnlock()
	if !ok && s.outer != nil {
		return s.outer.Get(name)
	}
	return obj, ok
}

// Set binds name in this scope, shadowing any outer binding.
func (s *Session) Set(name string, val Object) Object {
	s.mu.Lock()
	s.bindings[name] = val
	s.mu.Unlock()
	return val
}

// Has reports whether name resolves in this scope or any outer one.
func (s *Session) Has(name string) bool {
	_, ok := s.Get(name)
	return ok
}

// Delete removes a binding from this scope only.
func (s *Session) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.bindings[name]; !ok {
		return false
	}
	delete(s.bindings, name)
	return true
}

// Clear drops every binding in this scope. Outer scopes are untouched.
func (s *Session) Clear() {
	s.mu.Lock()
	s.bindings = make(map[string]Object)
	s.mu.Unlock()
}

// Variables returns every visible binding, with inner scopes shadowing
// outer ones.
func (s *Session) Variables() map[string]Object {
	out := make(map[string]Object)
	if s.outer != nil {
		for k, v := range s.outer.Variables() {
			out[k] = v
		}
	}
	s.mu.RLock()
	for k, v := range s.bindings {
		out[k] = v
	}
	s.mu.RUnlock()
	return out
}

// VariableNames returns the visible binding names in sorted order.
func (s *Session) VariableNames() []string {
	vars := s.Variables()
	names := make([]string, 0, len(vars))
	for name := range vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
