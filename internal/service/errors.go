package service

import "errors"

// Sentinel errors services return so handlers can map them to stable HTTP
// error codes without inspecting strings.
var (
	ErrNotFound      = errors.New("not found")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalidThread = errors.New("thread must reference a top-level message in the same channel")
	ErrInvalidCursor = errors.New("invalid cursor")
	ErrAlreadyMember = errors.New("user is already a member of this workspace")
	ErrChannelExists = errors.New("channel name already taken in this workspace")
	ErrInvalidName   = errors.New("invalid name")
	ErrInvalidEmail  = errors.New("invalid email address")
	ErrInvalidEmoji  = errors.New("invalid emoji")
	ErrEmptyMessage  = errors.New("message content cannot be empty")
	ErrTooLong       = errors.New("message content too long")

	ErrStorageNotConfigured    = errors.New("storage not configured")
	ErrSummarizerNotConfigured = errors.New("summarizer not configured")
)
