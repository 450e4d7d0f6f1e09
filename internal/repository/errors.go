package repository

import "errors"

// ErrNotFound is returned when a requested record does not exist in the
// database. For lookups whose contract is "absent is not a fault" the caller
// decides how to surface it.
var ErrNotFound = errors.New("not found")
