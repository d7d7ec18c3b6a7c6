package queue

import "errors"

// Errors returned by Dispatcher
var (
	ErrBufferFull       = errors.New("event buffer full")
	ErrDispatcherClosed = errors.New("dispatcher closed")
)
