package reclaim

import (
	"errors"
	"fmt"
)

// Sentinel errors for registration.
var (
	// ErrAllocationFailure indicates a constructor reported success but
	// produced no value (a nil pointer, map, slice, or interface).
	ErrAllocationFailure = errors.New("constructor produced no value")

	// ErrConstructorFailure matches every *ConstructorError.
	ErrConstructorFailure = errors.New("constructor failed")

	// ErrNilCapability indicates Register was called without a constructor
	// or without a destructor.
	ErrNilCapability = errors.New("constructor and destructor are both required")

	// ErrInputType indicates a typed binding received input of the wrong type.
	ErrInputType = errors.New("input type mismatch")
)

// Sentinel errors for lifecycle misuse.
var (
	// ErrReleased indicates the registry has already been shut down.
	ErrReleased = errors.New("registry already shut down")
)

// ConstructorError wraps an error returned by a constructor.
type ConstructorError struct {
	// Kind is the name of the binding whose constructor failed, if any.
	Kind string
	// Err is the constructor's error.
	Err error
}

// Error implements the error interface.
func (e *ConstructorError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("construct %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("construct: %v", e.Err)
}

// Unwrap returns the constructor's error for errors.Is/As support.
func (e *ConstructorError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrConstructorFailure.
func (e *ConstructorError) Is(target error) bool {
	return target == ErrConstructorFailure
}

// DestroyError reports a destructor that panicked during shutdown.
type DestroyError struct {
	Kind  string
	Seq   uint64
	Panic any
}

// Error implements the error interface.
func (e *DestroyError) Error() string {
	if e.Kind != "" {
		return fmt.Sprintf("destroy %s #%d: panic: %v", e.Kind, e.Seq, e.Panic)
	}
	return fmt.Sprintf("destroy #%d: panic: %v", e.Seq, e.Panic)
}

// Unwrap returns the panic value when it is an error.
func (e *DestroyError) Unwrap() error {
	if err, ok := e.Panic.(error); ok {
		return err
	}
	return nil
}

// Category classifies registry errors.
type Category int

const (
	// CategoryUnknown is any error not produced by this package.
	CategoryUnknown Category = iota

	// CategoryAllocation indicates no value could be obtained.
	CategoryAllocation

	// CategoryConstructor indicates the caller's constructor rejected its input.
	CategoryConstructor

	// CategoryDestructor indicates a destructor failed during shutdown.
	CategoryDestructor

	// CategoryContract indicates the caller broke the registry's usage
	// contract: missing capabilities, wrong input type, or use after shutdown.
	CategoryContract
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryAllocation:
		return "allocation"
	case CategoryConstructor:
		return "constructor"
	case CategoryDestructor:
		return "destructor"
	case CategoryContract:
		return "contract"
	default:
		return "unknown"
	}
}

// Categorize determines which category an error belongs to.
func Categorize(err error) Category {
	if err == nil {
		return CategoryUnknown
	}

	// A DestroyError unwraps to the panic value, which may itself be one
	// of the sentinels below.
	var destroyErr *DestroyError
	if errors.As(err, &destroyErr) {
		return CategoryDestructor
	}

	switch {
	case errors.Is(err, ErrNilCapability),
		errors.Is(err, ErrInputType),
		errors.Is(err, ErrReleased):
		return CategoryContract
	case errors.Is(err, ErrAllocationFailure):
		return CategoryAllocation
	case errors.Is(err, ErrConstructorFailure):
		return CategoryConstructor
	}
	return CategoryUnknown
}
