package model

import (
	"context"
	"errors"
	"fmt"

	"xdao.co/edsig/edsig"
	"xdao.co/edsig/host"
	"xdao.co/edsig/ledger"
	"xdao.co/edsig/storage"
)

type ErrorCode string

const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"
	ErrInvalidPublicKey   ErrorCode = "INVALID_PUBLIC_KEY"
	ErrInvalidSignature   ErrorCode = "INVALID_SIGNATURE"
	ErrSignatureMismatch  ErrorCode = "SIGNATURE_MISMATCH"
	ErrUnknownEntry       ErrorCode = "UNKNOWN_ENTRY"
	ErrUninitialized      ErrorCode = "UNINITIALIZED"
	ErrAlreadyInitialized ErrorCode = "ALREADY_INITIALIZED"
	ErrAborted            ErrorCode = "ABORTED"
	ErrCIDMismatch        ErrorCode = "CID_MISMATCH"
	ErrNotFound           ErrorCode = "NOT_FOUND"
	ErrUnavailable        ErrorCode = "UNAVAILABLE"
	ErrInternal           ErrorCode = "INTERNAL"
)

// CodedError is a stable error with a machine-readable code and a human message.
// RuleID carries the verifier rule for key/signature failures.
type CodedError struct {
	Code    ErrorCode `json:"code"`
	RuleID  string    `json:"ruleID,omitempty"`
	Message string    `json:"message"`
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewError(code ErrorCode, message string) *CodedError {
	return &CodedError{Code: code, Message: message}
}

// FromError classifies err into a CodedError. A *CodedError passes through.
func FromError(err error) *CodedError {
	if err == nil {
		return nil
	}
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce
	}

	code := ErrInternal
	switch {
	case edsig.IsKind(err, edsig.KindPublicKey):
		code = ErrInvalidPublicKey
	case edsig.IsKind(err, edsig.KindSignature):
		code = ErrInvalidSignature
	case edsig.IsKind(err, edsig.KindMismatch):
		code = ErrSignatureMismatch
	case errors.Is(err, host.ErrUnknownEntry):
		code = ErrUnknownEntry
	case errors.Is(err, host.ErrInvalidArgs):
		code = ErrInvalidRequest
	case errors.Is(err, host.ErrUninitialized), errors.Is(err, ledger.ErrNoInstance):
		code = ErrUninitialized
	case errors.Is(err, host.ErrAlreadyInitialized), errors.Is(err, ledger.ErrInstanceExists):
		code = ErrAlreadyInitialized
	case errors.Is(err, host.ErrAborted):
		code = ErrAborted
	case errors.Is(err, storage.ErrCIDMismatch):
		code = ErrCIDMismatch
	case errors.Is(err, storage.ErrNotFound):
		code = ErrNotFound
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		code = ErrUnavailable
	}
	return &CodedError{Code: code, RuleID: edsig.RuleID(err), Message: err.Error()}
}
