package universe

// Outcome is the tagged result of one dispatched fetch: either a System or
// the FetchError that prevented it. Exactly one of the two is set.
type Outcome struct {
	name   string
	system System
	err    *FetchError
}

// Succeeded creates an Outcome carrying a fetched System.
func Succeeded(sys System) Outcome {
	return Outcome{name: sys.Name(), system: sys}
}

// Failed creates an Outcome carrying the failure for a name.
func Failed(err *FetchError) Outcome {
	return Outcome{name: err.Name, err: err}
}

// Name returns the requested name this outcome belongs to.
func (o Outcome) Name() string {
	return o.name
}

// OK reports whether the fetch succeeded.
func (o Outcome) OK() bool {
	return o.err == nil
}

// System returns the fetched System. Only meaningful when OK is true.
func (o Outcome) System() System {
	return o.system
}

// Err returns the fetch failure, or nil on success.
func (o Outcome) Err() *FetchError {
	return o.err
}
