package requests

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

var client = http.Client{Timeout: 8 * time.Second}

type Header = map[string]string

// A response whose body has already been read in full and closed.
type Response struct {
	StatusCode int
	Body       []byte
}

// Whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// The standard text for the status code, i.e. "Not Found".
func (r *Response) StatusText() string {
	return http.StatusText(r.StatusCode)
}

// Sends a request and reads the whole response body regardless of its status code.
// Only transport failures (dns, refused connection, timeout, cancelled ctx) are returned as an error.
func Do(ctx context.Context, method, url string, header Header, body io.Reader) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("error creating %s request to %s: %w", method, url, err)
	}

	for k, v := range header {
		req.Header.Set(k, v)
	}

	res, err := client.Do(req)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: url, Err: err}
	}

	resBody, err := ReadResponseBody(res)
	if err != nil {
		return nil, &NetworkError{Method: method, URL: url, Err: err}
	}

	return &Response{StatusCode: res.StatusCode, Body: resBody}, nil
}

// Reads the response body all at once with [io.ReadAll] and closes it.
func ReadResponseBody(r *http.Response) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

// The request never got a complete response: dns, refused connection, timeout, cancelled ctx or a cut-off body.
type NetworkError struct {
	Method string
	URL    string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("error during %s request to %s: %v", e.Method, e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
