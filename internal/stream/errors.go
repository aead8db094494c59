package stream

import (
	"errors"
	"fmt"
)

var (
	// ErrConsumerGone is returned to the producer once the consumer has closed its end.
	ErrConsumerGone = errors.New("stream: consumer is gone")
	// ErrStreamClosed is returned to the producer when sending after Close or after a terminal item.
	ErrStreamClosed = errors.New("stream: closed")
	// ErrStreamIncomplete is delivered when the upstream ends without response.completed.
	ErrStreamIncomplete = errors.New("stream closed before response.completed")
)

// ResponseError is a failure reported by the upstream inside the event stream.
type ResponseError struct {
	Type    string
	Code    string
	Message string
}

func (e *ResponseError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "upstream reported a failure"
	}
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, msg, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}
