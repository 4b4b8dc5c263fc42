package pagination

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfig indicates a caller supplied an impossible configuration,
	// such as a non-positive page size or a negative row count.
	ErrInvalidConfig = errors.New("invalid pagination configuration")

	// ErrModeChanged indicates a caller switched between controlled and
	// uncontrolled state ownership after the [Controller] was created.
	ErrModeChanged = errors.New("pagination ownership mode changed")
)

// ContractError is a developer-facing error describing a misuse of this
// package. It is never meant to be shown to end users.
type ContractError struct {
	Err    error
	Detail string
}

func violation(err error, format string, args ...any) *ContractError {
	return &ContractError{
		Err:    err,
		Detail: fmt.Sprintf(format, args...),
	}
}

func (e *ContractError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Detail)
}

func (e *ContractError) Unwrap() error {
	return e.Err
}

// mustPositive panics with a [*ContractError] when v is not positive.
func mustPositive(name string, v int) {
	if v <= 0 {
		panic(violation(ErrInvalidConfig, "%s must be positive, got %d", name, v))
	}
}

func mustNonNegative(name string, v int) {
	if v < 0 {
		panic(violation(ErrInvalidConfig, "%s must not be negative, got %d", name, v))
	}
}
