package errdefs

import (
	"errors"
	"fmt"
)

type ErrorType int

const (
	ErrTypePanelNotRegistered ErrorType = iota
	ErrTypeUpdateCheck
	ErrTypeSettings
	ErrTypeChannelNotFound
	ErrTypePayload
	ErrTypeInstall
	ErrTypeGeneric
)

type CustomError struct {
	Type    ErrorType
	Message string
	Err     error
}

func (e *CustomError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

func NewCustomError(errType ErrorType, message string) error {
	return &CustomError{
		Type:    errType,
		Message: message,
	}
}

// Wrap classifies err under errType. A nil err yields nil.
func Wrap(errType ErrorType, message string, err error) error {
	if err == nil {
		return nil
	}
	return &CustomError{
		Type:    errType,
		Message: message,
		Err:     err,
	}
}

// IsType reports whether any error in err's chain is a CustomError of errType.
func IsType(err error, errType ErrorType) bool {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce.Type == errType
	}
	return false
}

var ErrTagNotFound = NewCustomError(ErrTypeUpdateCheck, "tag_name not found in release response")
