package worker

import "errors"

// Worker domain errors
var (
	ErrWorkerNotFound     = errors.New("worker not found")
	ErrInvalidCredentials = errors.New("invalid worker or password")
	ErrDuplicateWorker    = errors.New("worker listed more than once")
	ErrMalformedEntry     = errors.New("credential entry must be worker:password")
)
