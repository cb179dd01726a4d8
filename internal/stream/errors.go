package stream

import "github.com/pkg/errors"

var (
	ErrInvalidPeriod = errors.New("stream: polling period must be positive")
	ErrClosed        = errors.New("stream: polling stream closed")
)
