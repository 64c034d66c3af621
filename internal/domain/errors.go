package domain

import "errors"

var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomFull            = errors.New("room is full")
	ErrDuplicateConnection = errors.New("connection already bound to a participant")
	ErrAlreadyInRoom       = errors.New("connection already in a room")
	ErrTargetUnavailable   = errors.New("target connection unavailable")

	ErrDisplayNameEmpty   = errors.New("display name empty")
	ErrDisplayNameTooLong = errors.New("display name too long")
)
