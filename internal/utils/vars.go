package utils

import "errors"

const (
	DefaultBufferSize        = 1024
	DefaultConnections       = 5
	DefaultUpdateFrequencyMs = 1000
)

var (
	ErrRangeRequestsNotSupported = errors.New("server does not support range requests")
	ErrInvalidPlan               = errors.New("invalid segment plan parameters")
	ErrVerificationFailed        = errors.New("content hash verification failed")
)
