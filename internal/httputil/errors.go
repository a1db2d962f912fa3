// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind classifies a failed GET.
type Kind string

const (
	KindNetwork Kind = "network"
	KindTimeout Kind = "timeout"
	KindStatus  Kind = "status"
	KindDecode  Kind = "decode"
	KindUnknown Kind = "unknown"
)

// Error is returned by GetJSON for every failure. StatusCode is set only
// for KindStatus.
type Error struct {
	Kind       Kind
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return "unknown error"
	}
	if e.Kind == KindStatus {
		return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.StatusCode)
	}
	if e.Err == nil {
		return fmt.Sprintf("GET %s: %s", e.URL, e.Kind)
	}
	return fmt.Sprintf("GET %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Classify returns the Kind carried by err, or KindUnknown when err did
// not come from this package. A nil error classifies as "".
func Classify(err error) Kind {
	if err == nil {
		return ""
	}
	var he *Error
	if errors.As(err, &he) && he.Kind != "" {
		return he.Kind
	}
	return KindUnknown
}

// transportKind maps an error from http.Client.Do onto a Kind.
func transportKind(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return KindTimeout
	}
	return KindNetwork
}
