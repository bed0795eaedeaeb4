package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates that the request is valid but conflicts with the
// current state of a resource (e.g. insufficient funds, non-zero balance).
var ErrConflict = errors.New("state conflict")

// ErrInternal is returned when an unexpected failure should be surfaced
// to the caller without leaking internal detail.
var ErrInternal = errors.New("internal error")
