// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the single outbound HTTP helper used to talk to
// the Wikipedia API.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

// maxErrorBody bounds how much of a non-2xx body is drained before close.
const maxErrorBody = 2048

// GetJSON issues one GET to url and decodes the JSON body into v.
//
// There are no retries and no backoff: the first failure is returned as an
// *Error whose Kind separates transport failures (network, timeout),
// non-2xx replies (status), and unreadable bodies (decode). A 2xx reply
// whose payload happens to be empty is not a failure; v is simply left with
// its zero fields.
func GetJSON(ctx context.Context, client *http.Client, url, userAgent string, v any) error {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &Error{Kind: KindUnknown, URL: url, Err: err}
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return &Error{Kind: transportKind(err), URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxErrorBody))
		return &Error{Kind: KindStatus, URL: url, StatusCode: resp.StatusCode}
	}

	err = json.NewDecoder(resp.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return &Error{Kind: KindDecode, URL: url, Err: err}
	}
	return nil
}
