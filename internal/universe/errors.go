package universe

import (
	"errors"
	"fmt"
)

// Builder errors
var (
	ErrDuplicateSystem = errors.New("duplicate system name")
	ErrBuilderConsumed = errors.New("universe builder already consumed")
	ErrEmptySystemName = errors.New("system name cannot be empty")
	ErrNilFetcher      = errors.New("fetcher cannot be nil")
	ErrNilScheduler    = errors.New("scheduler cannot be nil")
)

// FetchErrorKind classifies a failed fetch.
type FetchErrorKind int

const (
	// FetchNotFound means the source has no system with the requested name.
	FetchNotFound FetchErrorKind = iota
	// FetchTransport means the source was unreachable or answered abnormally.
	FetchTransport
	// FetchTimeout means the fetch exceeded its deadline.
	FetchTimeout
)

func (k FetchErrorKind) String() string {
	switch k {
	case FetchNotFound:
		return "not-found"
	case FetchTransport:
		return "transport"
	case FetchTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// FetchError is the failure of a single fetch. It is non-fatal to a batch:
// the scheduler collects one per failed name instead of aborting.
type FetchError struct {
	Name string
	Kind FetchErrorKind
	Err  error // underlying cause, may be nil for NotFound/Timeout
}

// NewNotFound creates a FetchError for a name the source does not know.
func NewNotFound(name string) *FetchError {
	return &FetchError{Name: name, Kind: FetchNotFound}
}

// NewTransport creates a FetchError wrapping a transport-level cause.
func NewTransport(name string, err error) *FetchError {
	return &FetchError{Name: name, Kind: FetchTransport, Err: err}
}

// NewTimeout creates a FetchError for a fetch that exceeded its deadline.
func NewTimeout(name string) *FetchError {
	return &FetchError{Name: name, Kind: FetchTimeout}
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %q: %s: %v", e.Name, e.Kind, e.Err)
	}
	return fmt.Sprintf("fetch %q: %s", e.Name, e.Kind)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As chains.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a FetchError with kind FetchNotFound.
func IsNotFound(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == FetchNotFound
}

// IsTimeout reports whether err is a FetchError with kind FetchTimeout.
func IsTimeout(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == FetchTimeout
}

// IsTransport reports whether err is a FetchError with kind FetchTransport.
func IsTransport(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Kind == FetchTransport
}

// DuplicateSystemError is returned when an insertion would overwrite an
// existing name. The failed insertion leaves the builder unchanged.
type DuplicateSystemError struct {
	Name string
}

func (e *DuplicateSystemError) Error() string {
	return fmt.Sprintf("system %q already added", e.Name)
}

// Is makes the error match ErrDuplicateSystem under errors.Is.
func (e *DuplicateSystemError) Is(target error) bool {
	return target == ErrDuplicateSystem
}
