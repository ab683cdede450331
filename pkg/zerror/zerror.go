package zerror

import (
	"fmt"
)

// ZError is an error carrying a transport-agnostic status, a stable
// machine-readable code and a human-readable message. An optional parent
// error preserves the underlying cause for logging and errors.Is/As.
type ZError struct {
	parent error
	status Status
	code   string
	msg    string
}

// New initializes a ZError.
//
// code example: PRODUCT_NOT_FOUND
func New(parent error, status Status, code, msg string) ZError {
	return ZError{
		parent: parent,
		status: status,
		code:   code,
		msg:    msg,
	}
}

func (e ZError) Error() string {
	if e.parent != nil {
		return fmt.Sprintf("Code=%s, Msg=%s, Parent=(%v)", e.code, e.msg, e.parent)
	}
	return fmt.Sprintf("Code=%s, Msg=%s", e.code, e.msg)
}

// WrapParent attaches an underlying error to an existing predefined ZError.
func (e ZError) WrapParent(parent error) ZError {
	if parent == nil {
		return e
	}
	e.parent = parent
	return e
}

// Unwrap returns the underlying error for the ZError.
func (e *ZError) Unwrap() error {
	return e.parent
}

func (e ZError) Status() Status {
	return e.status
}

func (e ZError) Code() string {
	return e.code
}

func (e ZError) Msg() string {
	return e.msg
}

func (e ZError) Parent() error {
	return e.parent
}

func NewNotFound(code, msg string) ZError {
	return New(nil, StatusNotFound, code, msg)
}

func NewBadRequest(code, msg string) ZError {
	return New(nil, StatusBadRequest, code, msg)
}

func NewConflict(code, msg string) ZError {
	return New(nil, StatusConflict, code, msg)
}

func NewValidationFailed(code, msg string) ZError {
	return New(nil, StatusValidationFailed, code, msg)
}

func NewInternalServerError(code, msg string) ZError {
	return New(nil, StatusInternalServerError, code, msg)
}

func NewServiceUnavailable(code, msg string) ZError {
	return New(nil, StatusServiceUnavailable, code, msg)
}
