package domain

import "errors"

var (
	ErrRoomNotFound     = errors.New("room does not exist")
	ErrExecutionBusy    = errors.New("code is already running in this room")
	ErrExecutionFailure = errors.New("code execution failed")
	ErrMalformedIntent  = errors.New("malformed intent")
)
