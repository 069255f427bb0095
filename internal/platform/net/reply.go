package net

import (
	"net/http"

	perr "attractor/internal/platform/errors"
)

// Wire is the envelope every transport replies with
type Wire struct {
	StatusCode int            `json:"status_code"`
	Status     string         `json:"status"`
	Code       perr.ErrorCode `json:"code,omitempty"`
	Error      string         `json:"error,omitempty"`
	Field      string         `json:"field,omitempty"`
	RequestID  string         `json:"request_id,omitempty"`
	Data       any            `json:"data,omitempty"`
}

// OK builds a 200 envelope
func OK(data any, reqID string) (int, Wire) {
	return http.StatusOK, Wire{
		StatusCode: http.StatusOK,
		Status:     http.StatusText(http.StatusOK),
		RequestID:  reqID,
		Data:       data,
	}
}

// Error builds an error envelope; a nil err is an empty OK
func Error(err error, reqID string) (int, Wire) {
	if err == nil {
		return OK(nil, reqID)
	}
	status := perr.HTTPStatus(err)
	w := perr.WireFrom(err)
	return status, Wire{
		StatusCode: status,
		Status:     http.StatusText(status),
		Code:       w.Code,
		Error:      w.Message,
		Field:      w.Field,
		RequestID:  reqID,
	}
}

// Frame kinds
const (
	FrameResult = "result"
	FrameError  = "error"
)

// Frame is one message on a stream (websocket or bus); Seq echoes the request order
type Frame struct {
	Seq  int64  `json:"seq"`
	Kind string `json:"kind"`
	Wire
}

// NewFrame wraps a result or an error for stream delivery
func NewFrame(seq int64, data any, err error, reqID string) Frame {
	if err != nil {
		_, w := Error(err, reqID)
		return Frame{Seq: seq, Kind: FrameError, Wire: w}
	}
	_, w := OK(data, reqID)
	return Frame{Seq: seq, Kind: FrameResult, Wire: w}
}
