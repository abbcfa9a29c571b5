package models

import "errors"

// ErrUnexpectedShape marks upstream documents that are missing fields the
// pipeline depends on, or whose values contradict each other.
var ErrUnexpectedShape = errors.New("unexpected document shape")
