package requests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"net/http"
)

// Sends a PUT request with body marshalled as JSON. The response is returned as-is so the
// caller can decide how to treat its status and body.
func JsonPut(ctx context.Context, url string, header Header, body any) (*Response, error) {
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal PUT body for %s: %w", url, err)
	}

	h := Header{"Content-Type": "application/json"}
	maps.Copy(h, header)

	return Do(ctx, http.MethodPut, url, h, bytes.NewReader(bodyBytes))
}
