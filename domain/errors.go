package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrTimeout indicates a polling loop ran out of attempts.
	ErrTimeout = errors.New("timed out")

	// ErrMalformedConfig indicates a missing or unusable configuration.
	ErrMalformedConfig = errors.New("malformed config")
)

// AuthError is returned when the account info request is rejected.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string {
	return "authentication failed: " + e.Msg
}

func (e *AuthError) Unwrap() error { return ErrUnauthorized }

// RequestError is a non-ok API response (or an unnavigable one) for Op.
type RequestError struct {
	Op  string
	Msg string
	Err error
}

func (e *RequestError) Error() string {
	if e.Msg == "" && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

func (e *RequestError) Unwrap() error { return e.Err }

// TimeoutError reports an exhausted polling bound. The upload behind PostID
// may still have been committed by the platform.
type TimeoutError struct {
	Op       string
	PostID   string
	Attempts int
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s: post %s not settled after %d attempts (it may still appear on the blog)", e.Op, e.PostID, e.Attempts)
}

func (e *TimeoutError) Unwrap() error { return ErrTimeout }

// MalformedConfigError wraps any problem found while loading configuration.
type MalformedConfigError struct {
	Path string
	Err  error
}

func (e *MalformedConfigError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("config: %v", e.Err)
	}
	return fmt.Sprintf("config %s: %v", e.Path, e.Err)
}

func (e *MalformedConfigError) Unwrap() error { return e.Err }

func (e *MalformedConfigError) Is(target error) bool { return target == ErrMalformedConfig }

// PathNotFoundError means a response path step does not exist.
type PathNotFoundError struct {
	Path string
	Step string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path %q: %q not found", e.Path, e.Step)
}

// TypeMismatchError means a path step was applied to a node of the wrong kind.
type TypeMismatchError struct {
	Path string
	Step string
	Got  string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("path %q: cannot apply %q to %s", e.Path, e.Step, e.Got)
}

// MalformedInputError is returned when a value cannot be read as tags.
type MalformedInputError struct {
	Value any
}

func (e *MalformedInputError) Error() string {
	return fmt.Sprintf("malformed tag input of type %T", e.Value)
}
