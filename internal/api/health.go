package api

import (
	"context"
	"encoding/json"
	"net/http"
)

// Health is the decoded /health body. The service defines its shape, so the
// raw JSON is kept as-is; Fields is populated when the body is an object.
type Health struct {
	Raw    json.RawMessage
	Fields map[string]any
}

// Status returns the "status" field, or "" when absent.
func (h Health) Status() string {
	s, _ := h.Fields["status"].(string)
	return s
}

// ModelsReady returns the "models_ready" field and whether it was present.
func (h Health) ModelsReady() (ready bool, ok bool) {
	ready, ok = h.Fields["models_ready"].(bool)
	return ready, ok
}

// Version returns the "api_v" field, or "" when absent.
func (h Health) Version() string {
	s, _ := h.Fields["api_v"].(string)
	return s
}

func (h Health) MarshalJSON() ([]byte, error) {
	if len(h.Raw) == 0 {
		return []byte("null"), nil
	}
	return h.Raw, nil
}

// Health calls GET /health. Any failure is returned as an *Error; a nil error
// means the service was reachable and answered 2xx with valid JSON.
func (c *Client) Health(ctx context.Context) (Health, error) {
	req, err := c.newRequest(ctx, http.MethodGet, pathHealth, nil)
	if err != nil {
		return Health{}, transportErr(OpHealth, err)
	}
	body, err := c.do(OpHealth, req)
	if err != nil {
		return Health{}, err
	}
	if !json.Valid(body) {
		return Health{}, schemaErr(OpHealth, "response is not valid JSON")
	}

	h := Health{Raw: json.RawMessage(body)}
	var fields map[string]any
	if err := json.Unmarshal(body, &fields); err == nil {
		h.Fields = fields
	}
	return h, nil
}

// Reachable reports whether Health succeeds. It is the boolean view of the
// health check for callers that only need reachable versus unreachable.
func (c *Client) Reachable(ctx context.Context) bool {
	_, err := c.Health(ctx)
	return err == nil
}
