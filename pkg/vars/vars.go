// Package vars holds the shared variable store read and written by script
// commands through $var references. The store is an explicit object passed
// into the engine rather than a singleton, so multiple independent game
// sessions can run in one process.
//
// Script execution is single-threaded and cooperative, so the store does
// no locking; writes made during one tick are visible to every script
// thread from the next line it executes.
package vars

import "strconv"

// Store maps variable names to values. Values are strings at rest;
// numeric commands and comparisons interpret them as integers.
type Store struct {
	values map[string]string
}

// New creates an empty store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

// GetVar implements script.VarSource.
func (s *Store) GetVar(name string) (string, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Get returns a variable's value, or "" when unset.
func (s *Store) Get(name string) string {
	return s.values[name]
}

// GetInt returns a variable interpreted as an integer. Unset or
// non-numeric values read as zero.
func (s *Store) GetInt(name string) int {
	n, _ := strconv.Atoi(s.values[name])
	return n
}

// Set stores a string value.
func (s *Store) Set(name, value string) {
	s.values[name] = value
}

// SetInt stores an integer value.
func (s *Store) SetInt(name string, value int) {
	s.values[name] = strconv.Itoa(value)
}

// Add increments an integer variable by delta and returns the new value.
func (s *Store) Add(name string, delta int) int {
	n := s.GetInt(name) + delta
	s.SetInt(name, n)
	return n
}

// Delete removes a variable.
func (s *Store) Delete(name string) {
	delete(s.values, name)
}

// Len returns the number of variables set.
func (s *Store) Len() int {
	return len(s.values)
}

// Snapshot returns a copy of all bindings, suitable for persisting as
// part of the owning application's save format.
func (s *Store) Snapshot() map[string]string {
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Restore replaces all bindings with the given snapshot.
func (s *Store) Restore(snapshot map[string]string) {
	s.values = make(map[string]string, len(snapshot))
	for k, v := range snapshot {
		s.values[k] = v
	}
}
