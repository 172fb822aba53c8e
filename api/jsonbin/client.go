// Package jsonbin talks to a single JSONBin v3 bin that holds the whole marker document.
//
// The bin only supports replacing its entire contents, so this client exposes exactly two
// operations: fetch the latest document and replace it.
package jsonbin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"mapmarkers/markers"
	"mapmarkers/utils/requests"

	log "github.com/sirupsen/logrus"
)

const DEFAULT_BASE_URL = "https://api.jsonbin.io/v3/b"

const (
	HEADER_MASTER_KEY = "X-Master-Key"
	HEADER_ACCESS_KEY = "X-Access-Key"
)

type Client struct {
	baseURL string
	binID   string
	header  requests.Header
	bucket  *RequestBucket
}

type Option func(c *Client)

// Authenticates with a bin access key instead of (or as well as) the master key.
func WithAccessKey(key string) Option {
	return func(c *Client) {
		if key != "" {
			c.header[HEADER_ACCESS_KEY] = key
		}
	}
}

// Limits outgoing requests to reqPerMin. Zero or less disables the limit.
func WithRateLimit(reqPerMin int) Option {
	return func(c *Client) {
		c.bucket = NewRequestBucket(reqPerMin)
	}
}

func NewClient(baseURL, binID, masterKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DEFAULT_BASE_URL
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		binID:   binID,
		header:  requests.Header{},
	}

	if masterKey != "" {
		c.header[HEADER_MASTER_KEY] = masterKey
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Stops the rate limiter, if any.
func (c *Client) Close() {
	c.bucket.Stop()
}

func (c *Client) latestURL() string {
	return fmt.Sprintf("%s/%s/latest", c.baseURL, c.binID)
}

func (c *Client) binURL() string {
	return fmt.Sprintf("%s/%s", c.baseURL, c.binID)
}

type latestResponse struct {
	Record json.RawMessage `json:"record"`
}

type updateResponse struct {
	Record   json.RawMessage `json:"record"`
	Metadata map[string]any  `json:"metadata"`
	Message  string          `json:"message"`
}

// Takes a request token, waiting for one if the bucket is empty.
func (c *Client) wait(ctx context.Context) error {
	if c.bucket.TryAcquire() {
		return nil
	}

	log.Debug("JSONBin request limit reached, waiting for a token")
	return c.bucket.Acquire(ctx)
}

// Reads the latest version of the bin. A missing or malformed record is returned as an empty document.
func (c *Client) Fetch(ctx context.Context) (markers.Document, error) {
	url := c.latestURL()
	if err := c.wait(ctx); err != nil {
		return nil, &requests.NetworkError{Method: "GET", URL: url, Err: err}
	}

	res, err := requests.JsonGet[latestResponse](ctx, url, c.header)
	if err != nil {
		return nil, fmt.Errorf("failed to load markers: %w", err)
	}

	return markers.DecodeDocument(res.Record), nil
}

// Replaces the whole bin with doc.
//
// On success the store's echoed record is returned as the canonical document, or nil if the
// response carried no record or one that is not an object. A non-2xx status or a body that is not JSON yields a *StoreWriteError.
func (c *Client) Replace(ctx context.Context, doc markers.Document) (markers.Document, error) {
	url := c.binURL()
	if err := c.wait(ctx); err != nil {
		return nil, &requests.NetworkError{Method: "PUT", URL: url, Err: err}
	}

	res, err := requests.JsonPut(ctx, url, c.header, doc)
	if err != nil {
		return nil, err
	}

	var body updateResponse
	if err := json.Unmarshal(res.Body, &body); err != nil {
		log.WithFields(log.Fields{
			"status": res.StatusCode,
			"body":   string(res.Body),
		}).Error("failed to parse JSONBin response")

		return nil, &StoreWriteError{StatusCode: res.StatusCode, Message: res.StatusText()}
	}

	if !res.OK() {
		msg := body.Message
		if msg == "" {
			msg = res.StatusText()
		}

		log.WithField("status", res.StatusCode).Errorf("JSONBin API error: %s", msg)
		return nil, &StoreWriteError{StatusCode: res.StatusCode, Message: msg}
	}

	if len(body.Record) == 0 || string(body.Record) == "null" {
		return nil, nil
	}

	// The write went through, so a record that is not a document is treated as no record.
	var parts map[string]json.RawMessage
	if err := json.Unmarshal(body.Record, &parts); err != nil {
		log.WithError(err).Warn("JSONBin echoed a record that is not a marker document, ignoring it")
		return nil, nil
	}

	return markers.DecodeDocument(body.Record), nil
}
