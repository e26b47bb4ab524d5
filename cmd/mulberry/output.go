package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/mulberryleaf/mulberry-cli/internal/api"
	"github.com/mulberryleaf/mulberry-cli/internal/ui"
)

type healthOutput struct {
	BaseURL   string `json:"base_url" yaml:"base_url"`
	Available bool   `json:"available" yaml:"available"`
	Health    any    `json:"health,omitempty" yaml:"health,omitempty"`
}

type qualityOutput struct {
	Image          string         `json:"image" yaml:"image"`
	PredictedClass string         `json:"predicted_class" yaml:"predicted_class"`
	Confidence     float64        `json:"confidence" yaml:"confidence"`
	Extra          map[string]any `json:"extra,omitempty" yaml:"extra,omitempty"`
}

type yieldOutput struct {
	AvgQuality     float64 `json:"avg_quality" yaml:"avg_quality"`
	Temperature    float64 `json:"temperature" yaml:"temperature"`
	Humidity       float64 `json:"humidity" yaml:"humidity"`
	EstimatedYield float64 `json:"estimated_yield" yaml:"estimated_yield"`
}

type assessOutput struct {
	Quality qualityOutput `json:"quality" yaml:"quality"`
	Yield   *yieldOutput  `json:"yield,omitempty" yaml:"yield,omitempty"`
}

// writeStructured encodes v as JSON or YAML.
func writeStructured(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}

func newHealthOutput(baseURL string, h *api.Health) healthOutput {
	out := healthOutput{BaseURL: baseURL, Available: h != nil}
	if h == nil {
		return out
	}
	if h.Fields != nil {
		out.Health = h.Fields
		return out
	}
	var v any
	if err := json.Unmarshal(h.Raw, &v); err == nil {
		out.Health = v
	}
	return out
}

func newQualityOutput(image string, r *api.QualityResult) qualityOutput {
	out := qualityOutput{Image: image, PredictedClass: r.PredictedClass, Confidence: r.Confidence}
	if len(r.Extra) > 0 {
		out.Extra = make(map[string]any, len(r.Extra))
		for k, raw := range r.Extra {
			var v any
			if err := json.Unmarshal(raw, &v); err != nil {
				v = string(raw)
			}
			out.Extra[k] = v
		}
	}
	return out
}

func newYieldOutput(in api.YieldRequest, kg float64) yieldOutput {
	return yieldOutput{
		AvgQuality:     in.AvgQuality,
		Temperature:    in.Temperature,
		Humidity:       in.Humidity,
		EstimatedYield: kg,
	}
}

func healthView(baseURL string, h api.Health) ui.HealthView {
	v := ui.HealthView{BaseURL: baseURL, Status: h.Status(), Version: h.Version()}
	if ready, ok := h.ModelsReady(); ok {
		v.ModelsReady = &ready
	}
	return v
}

func qualityView(r *api.QualityResult) ui.QualityView {
	v := ui.QualityView{PredictedClass: r.PredictedClass, Confidence: r.Confidence}
	if len(r.Extra) > 0 {
		v.Extra = make(map[string]string, len(r.Extra))
		for k, raw := range r.Extra {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				s = string(raw)
			}
			v.Extra[k] = s
		}
	}
	return v
}

func yieldView(in api.YieldRequest, kg float64) ui.YieldView {
	return ui.YieldView{AvgQuality: in.AvgQuality, Temperature: in.Temperature, Humidity: in.Humidity, YieldKg: kg}
}
