package modules

import "errors"

var (
	// ErrNotFound is reported when a module's source library vanished.
	ErrNotFound = errors.New("module source not found")

	// ErrLoadFailure is reported when staging or opening a library failed.
	// The previously loaded version stays active.
	ErrLoadFailure = errors.New("module load failure")

	// ErrSymbolMissing is reported when a lifecycle entry point is absent.
	ErrSymbolMissing = errors.New("module symbol missing")

	// ErrUnsupported is returned by openers on platforms without dynamic
	// loading.
	ErrUnsupported = errors.New("dynamic modules are not supported on this platform")

	ErrAlreadyRegistered = errors.New("module already registered")
)
