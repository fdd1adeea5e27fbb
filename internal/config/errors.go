package config

import (
	"errors"
	"fmt"
)

// ErrorKind classifies configuration errors.
type ErrorKind string

const (
	KindNotFound      ErrorKind = "not_found"
	KindInvalidConfig ErrorKind = "invalid_config"
	KindInvalidData   ErrorKind = "invalid_data"
)

var (
	ErrInvalidConfig = errors.New("invalid fit description")
	ErrInvalidData   = errors.New("invalid spectrum data")
)

// OpError wraps a failure with the operation and file that caused it.
type OpError struct {
	Op   string
	Kind ErrorKind
	Path string
	Err  error
}

func (e *OpError) Error() string {
	if e == nil {
		return "<nil>"
	}

	base := fmt.Sprintf("%s: %s", e.Op, e.Kind)
	if e.Path != "" {
		base += fmt.Sprintf(" (path=%s)", e.Path)
	}
	if e.Err != nil {
		base += fmt.Sprintf(": %v", e.Err)
	}
	return base
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// IsKind reports whether err is an OpError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var op *OpError
	return errors.As(err, &op) && op.Kind == kind
}

func invalidField(path, field, msg string) error {
	return &OpError{
		Op:   "config.map",
		Kind: KindInvalidConfig,
		Path: path,
		Err:  fmt.Errorf("field %s: %s: %w", field, msg, ErrInvalidConfig),
	}
}
