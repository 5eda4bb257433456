package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Sync pipeline errors
	ErrTransport     = fmt.Errorf("transport error")
	ErrDecode        = fmt.Errorf("decode error")
	ErrConsistency   = fmt.Errorf("category consistency check failed")
	ErrPersist       = fmt.Errorf("failed to persist snapshot")
	ErrNoSnapshot    = fmt.Errorf("no snapshot")
	ErrUnknownSource = fmt.Errorf("unknown source")
	ErrSyncFailed    = fmt.Errorf("one or more sources failed")

	// Repository errors
	ErrRunNotFound = fmt.Errorf("sync run not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
