package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// HealthView mirrors api.Health to avoid an import cycle (api logs through
// this package).
type HealthView struct {
	BaseURL     string
	Status      string
	Version     string
	ModelsReady *bool
}

// QualityView mirrors api.QualityResult.
type QualityView struct {
	PredictedClass string
	Confidence     float64
	Extra          map[string]string
}

// YieldView carries the inputs of a yield prediction and its result.
type YieldView struct {
	AvgQuality  float64
	Temperature float64
	Humidity    float64
	YieldKg     float64
}

// ResultUI renders inference results as styled panels.
type ResultUI struct {
	writer io.Writer
	quiet  bool
}

// NewResultUI creates a renderer writing to w. In quiet mode only the bare
// value is printed.
func NewResultUI(w io.Writer, quiet bool) *ResultUI {
	return &ResultUI{writer: w, quiet: quiet}
}

// PrintHealth renders a reachable service.
func (r *ResultUI) PrintHealth(h HealthView) {
	status := h.Status
	if status == "" {
		status = "reachable"
	}
	if r.quiet {
		fmt.Fprintln(r.writer, status)
		return
	}

	var sb strings.Builder
	sb.WriteString(Success.Bold(true).Render("✓ Service available"))
	sb.WriteString("\n\n")
	sb.WriteString(FormatKeyValue("Endpoint", Secondary.Render(h.BaseURL)))
	sb.WriteString("\n")
	sb.WriteString(FormatKeyValue("Status", status))
	if h.ModelsReady != nil {
		sb.WriteString("\n")
		ready := Success.Render("yes")
		if !*h.ModelsReady {
			ready = Warning.Render("no")
		}
		sb.WriteString(FormatKeyValue("Models ready", ready))
	}
	if h.Version != "" {
		sb.WriteString("\n")
		sb.WriteString(FormatKeyValue("API version", h.Version))
	}
	fmt.Fprintln(r.writer, SuccessBox.Render(sb.String()))
}

// PrintQuality renders a leaf-quality prediction.
func (r *ResultUI) PrintQuality(q QualityView) {
	if r.quiet {
		fmt.Fprintf(r.writer, "%s %s\n", q.PredictedClass, FormatConfidence(q.Confidence))
		return
	}

	var sb strings.Builder
	sb.WriteString(SectionHeader.Render("Leaf Analysis"))
	sb.WriteString("\n\n")
	sb.WriteString(Title.Render(q.PredictedClass))
	sb.WriteString("\n")
	sb.WriteString(FormatKeyValue("Confidence", FormatConfidence(q.Confidence)))
	sb.WriteString("\n\n")
	sb.WriteString(Dim.Render(fmt.Sprintf("Based on the visual analysis, this leaf appears to be %s.", strings.ToLower(q.PredictedClass))))

	if len(q.Extra) > 0 {
		keys := make([]string, 0, len(q.Extra))
		for k := range q.Extra {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString("\n")
		for _, k := range keys {
			sb.WriteString("\n")
			sb.WriteString(Muted.Render(k + ": " + q.Extra[k]))
		}
	}
	fmt.Fprintln(r.writer, Box.Render(sb.String()))
}

// PrintYield renders a yield prediction together with its inputs.
func (r *ResultUI) PrintYield(y YieldView) {
	if r.quiet {
		fmt.Fprintln(r.writer, FormatYield(y.YieldKg))
		return
	}

	var sb strings.Builder
	sb.WriteString(SectionHeader.Render("Estimated Cocoon Yield"))
	sb.WriteString("\n\n")
	sb.WriteString(Highlight.Render(FormatYield(y.YieldKg) + " kg"))
	sb.WriteString("\n\n")
	sb.WriteString(FormatKeyValue("Leaf quality", fmt.Sprintf("%g", y.AvgQuality)))
	sb.WriteString("\n")
	sb.WriteString(FormatKeyValue("Temperature", fmt.Sprintf("%g °C", y.Temperature)))
	sb.WriteString("\n")
	sb.WriteString(FormatKeyValue("Humidity", fmt.Sprintf("%g %%", y.Humidity)))
	fmt.Fprintln(r.writer, Box.Render(sb.String()))
}

// FormatConfidence renders a 0..1 confidence as a percentage with one decimal.
// Values outside 0..1 are shown as received.
func FormatConfidence(c float64) string {
	return fmt.Sprintf("%.1f%%", c*100)
}

// FormatYield renders a yield with two decimals.
func FormatYield(kg float64) string {
	return fmt.Sprintf("%.2f", kg)
}
