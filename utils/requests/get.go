package requests

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

func Get(ctx context.Context, url string, header Header) (*Response, error) {
	return Do(ctx, http.MethodGet, url, header, nil)
}

// Sends a GET request and unmarshals the JSON body into T. Any non-2xx status is an error.
func JsonGet[T any](ctx context.Context, url string, header Header) (T, error) {
	var data T

	res, err := Get(ctx, url, header)
	if err != nil {
		return data, err
	}

	if !res.OK() {
		return data, &StatusError{StatusCode: res.StatusCode, URL: url}
	}

	if err := json.Unmarshal(res.Body, &data); err != nil {
		return data, fmt.Errorf("[GET] failed to unmarshal response body from %s: %w", url, err)
	}

	return data, nil
}

// Returned when a request went through but the server answered with a non-success status.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}
