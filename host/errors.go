package host

import (
	"errors"

	"xdao.co/edsig/abi"
)

var (
	ErrUninitialized      = errors.New("host: instance not initialized")
	ErrAlreadyInitialized = errors.New("host: instance already initialized")
	ErrAborted            = errors.New("host: contract aborted")

	ErrUnknownEntry = abi.ErrUnknownEntry
	ErrInvalidArgs  = abi.ErrInvalidArgs
)
