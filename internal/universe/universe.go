package universe

import "sort"

// Universe is the immutable, name-indexed aggregate of assembled Systems.
// No entry is ever removed or replaced after Build, so a Universe may be
// shared across goroutines freely.
type Universe struct {
	systems map[string]System
}

// Get returns the System with the given name.
func (u *Universe) Get(name string) (System, bool) {
	sys, ok := u.systems[name]
	return sys, ok
}

// Contains reports whether a System with the given name exists.
func (u *Universe) Contains(name string) bool {
	_, ok := u.systems[name]
	return ok
}

// Len returns the number of Systems in the universe.
func (u *Universe) Len() int {
	return len(u.systems)
}

// Systems returns all Systems as a fresh slice. Order is unspecified;
// re-calling yields the same fixed set.
func (u *Universe) Systems() []System {
	all := make([]System, 0, len(u.systems))
	for _, sys := range u.systems {
		all = append(all, sys)
	}
	return all
}

// Names returns all system names, sorted alphabetically.
func (u *Universe) Names() []string {
	names := make([]string, 0, len(u.systems))
	for name := range u.systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
