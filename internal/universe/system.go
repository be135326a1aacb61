package universe

// System is a single named record fetched from an external source.
// The payload is opaque to the universe domain; callers decode it themselves.
// A System is immutable once constructed.
type System struct {
	name string
	data []byte
}

// NewSystem creates a System with the given name and opaque payload.
// The payload is copied so later mutation of the caller's slice cannot
// reach into the System.
func NewSystem(name string, data []byte) System {
	var copied []byte
	if len(data) > 0 {
		copied = make([]byte, len(data))
		copy(copied, data)
	}
	return System{name: name, data: copied}
}

// Name returns the system's unique name.
func (s System) Name() string {
	return s.name
}

// Data returns a copy of the system's opaque payload.
func (s System) Data() []byte {
	if len(s.data) == 0 {
		return nil
	}
	copied := make([]byte, len(s.data))
	copy(copied, s.data)
	return copied
}

// IsZero reports whether the System is the zero value (no name, no payload).
func (s System) IsZero() bool {
	return s.name == "" && s.data == nil
}
