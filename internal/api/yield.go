package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// YieldRequest is the body of POST /predict/yield. Values are sent as given:
// no range checks, no unit conversion.
type YieldRequest struct {
	AvgQuality  float64 `json:"avg_quality"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
}

type yieldResponse struct {
	EstimatedYield *float64 `json:"estimated_yield"`
}

// PredictYield posts in to /predict/yield and returns estimated_yield in kg.
// A 2xx body without a numeric estimated_yield is a schema failure. Inputs
// that cannot be JSON-encoded (NaN, ±Inf) are rejected with a plain error
// before any request is made.
func (c *Client) PredictYield(ctx context.Context, in YieldRequest) (float64, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return 0, fmt.Errorf("%s: encode request: %w", OpPredictYield, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, pathYield, bytes.NewReader(payload))
	if err != nil {
		return 0, transportErr(OpPredictYield, err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(OpPredictYield, req)
	if err != nil {
		return 0, err
	}

	var out yieldResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return 0, schemaErr(OpPredictYield, "decode response: %v", err)
	}
	if out.EstimatedYield == nil {
		return 0, schemaErr(OpPredictYield, `missing field "estimated_yield"`)
	}
	return *out.EstimatedYield, nil
}
