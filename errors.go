package fsbench

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("configuration error")

	// ErrConnection matches every *ConnectionError.
	ErrConnection = errors.New("connection error")

	// ErrFixture matches every *FixtureError.
	ErrFixture = errors.New("fixture error")
)

// ConfigurationError indicates a configuration reference that is missing,
// unreadable or malformed.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ConfigurationError struct {
	Path  string
	cause error
}

func (e *ConfigurationError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("configuration %q", e.Path)
	}
	return fmt.Sprintf("configuration %q: %v", e.Path, e.cause)
}

func (e *ConfigurationError) Unwrap() error { return e.cause }

// Is reports whether target is ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// ConnectionError indicates that the file system named by the configuration
// could not be reached or its client could not be constructed.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ConnectionError struct {
	URI   string
	cause error
}

func (e *ConnectionError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("connect %q", e.URI)
	}
	return fmt.Sprintf("connect %q: %v", e.URI, e.cause)
}

func (e *ConnectionError) Unwrap() error { return e.cause }

// Is reports whether target is ErrConnection.
func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// FixtureError indicates that a fixture could not be created or restored.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type FixtureError struct {
	Fixture string
	Path    string
	cause   error
}

func (e *FixtureError) Error() string {
	return fmt.Sprintf("fixture %s (%s): %v", e.Fixture, e.Path, e.cause)
}

func (e *FixtureError) Unwrap() error { return e.cause }

// Is reports whether target is ErrFixture.
func (e *FixtureError) Is(target error) bool { return target == ErrFixture }

func fixtureError(fixture, path string, err error) error {
	if err == nil {
		return nil
	}
	return &FixtureError{Fixture: fixture, Path: path, cause: err}
}
