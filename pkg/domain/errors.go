package domain

import "errors"

// ErrActionNotRegistered is returned when an action is not attached to any registered context.
var ErrActionNotRegistered = errors.New("action not registered")

// ErrContextNotFound is returned when a context id has no registered blueprint.
var ErrContextNotFound = errors.New("context not found")

// ErrProfileNotFound is returned when a remapping profile cannot be found in the store.
var ErrProfileNotFound = errors.New("remapping profile not found")

// ErrUnknownHandler is returned when a catalog references a handler that was never registered.
var ErrUnknownHandler = errors.New("unknown action handler")
