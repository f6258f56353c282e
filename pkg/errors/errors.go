package errors

import (
	stdErrors "errors"
	"fmt"
)

type Code string

const (
	// CodeValidation marks failures caught locally before any request is sent.
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeServerRejected marks a well-formed server response with success=false.
	CodeServerRejected Code = "SERVER_REJECTED"
	// CodeNetwork marks transport failures and non-JSON or non-2xx responses.
	CodeNetwork Code = "NETWORK_ERROR"
	CodeInternal Code = "INTERNAL_ERROR"
)

type Metadata struct {
	// Verbatim allows the error message to be shown to the user as-is.
	Verbatim bool
	// Terminal failures are never retried; the user must re-trigger the action.
	Terminal bool
}

var metadataByCode = map[Code]Metadata{
	CodeValidation: {
		Verbatim: true,
		Terminal: true,
	},
	CodeServerRejected: {
		Verbatim: true,
		Terminal: true,
	},
	CodeNetwork: {
		Verbatim: false,
		Terminal: true,
	},
	CodeInternal: {
		Verbatim: false,
		Terminal: true,
	},
}

func MetadataFor(code Code) Metadata {
	if meta, ok := metadataByCode[code]; ok {
		return meta
	}
	return metadataByCode[CodeInternal]
}

type Error struct {
	code    Code
	message string
	details any
	cause   error
}

func New(code Code, message string) *Error {
	return &Error{code: code, message: message}
}

func Wrap(code Code, err error, message string) *Error {
	if err == nil {
		return New(code, message)
	}
	return &Error{code: code, message: message, cause: err}
}

func (e *Error) Code() Code {
	if e == nil {
		return CodeInternal
	}
	return e.code
}

func (e *Error) Message() string {
	if e == nil {
		return ""
	}
	return e.message
}

func (e *Error) Details() any {
	if e == nil {
		return nil
	}
	return e.details
}

func (e *Error) WithDetails(details any) *Error {
	if e == nil {
		return nil
	}
	e.details = details
	return e
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.code, e.message)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func As(err error) *Error {
	if err == nil {
		return nil
	}
	var typed *Error
	if stdErrors.As(err, &typed) {
		return typed
	}
	return nil
}

// UserMessage resolves the notification text for a failed action. Messages from
// validation and server rejections surface verbatim; everything else falls back
// to the action-specific localized message.
func UserMessage(err error, fallback string) string {
	typed := As(err)
	if typed == nil {
		return fallback
	}
	meta := MetadataFor(typed.Code())
	if meta.Verbatim && typed.Message() != "" {
		return typed.Message()
	}
	return fallback
}
