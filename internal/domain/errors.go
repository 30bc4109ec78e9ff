package domain

import "errors"

var (
	ErrWorkerNotFound = errors.New("worker not found")
	ErrWorkerExists   = errors.New("worker already exists")
	ErrInvalidName    = errors.New("invalid worker name")
	ErrReservedName   = errors.New("reserved worker name")
	ErrNotRunning     = errors.New("worker session is not running")
	ErrAgentRunning   = errors.New("worker agent is already running")
	ErrNoFocus        = errors.New("no focused worker")
	ErrStateNotFound  = errors.New("state entry not found")
	ErrImageRejected  = errors.New("image rejected")
	ErrNoChatRecord   = errors.New("no chat record for worker")
	ErrNoPendingClaim = errors.New("no session awaiting a name")
)
