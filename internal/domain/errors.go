package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotConfigured  = errors.New("missing api credential")
	ErrInvalidInput   = errors.New("invalid input")
	ErrBadResponse    = errors.New("malformed upstream response")
	ErrDownloadFailed = errors.New("download failed")
	ErrPollTimeout    = errors.New("generation timed out")
)

// UpstreamError is the structured error payload returned by the generative
// API. It is propagated unchanged; translating it into user-facing wording
// (including the "check your key" hint) is the handler layer's job.
type UpstreamError struct {
	Code    int    `json:"code,omitempty"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

func (e *UpstreamError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("upstream error %d: %s", e.Code, e.Message)
	}
	if e.Status != "" {
		return fmt.Sprintf("upstream error %d: %s", e.Code, e.Status)
	}
	return fmt.Sprintf("upstream error %d", e.Code)
}
