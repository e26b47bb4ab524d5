package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/huh"

	"github.com/mulberryleaf/mulberry-cli/internal/apperr"
)

func TestColorAppliesANSICodes(t *testing.T) {
	Init(false)
	got := Color("hello", FgGreen)
	want := FgGreen + "hello" + Reset
	if got != want {
		t.Fatalf("Color() = %q, want %q", got, want)
	}
}

func TestColorDisabled(t *testing.T) {
	Init(true)
	defer Init(false)
	if got := Color("hello", FgRed); got != "hello" {
		t.Fatalf("Color() with colors disabled = %q", got)
	}
}

func TestFormatConfidence(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.9234, "92.3%"},
		{1, "100.0%"},
		{0, "0.0%"},
		{1.2, "120.0%"},
	}
	for _, tt := range tests {
		if got := FormatConfidence(tt.in); got != tt.want {
			t.Errorf("FormatConfidence(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResultUI_PrintQuality(t *testing.T) {
	tests := []struct {
		name  string
		view  QualityView
		quiet bool
		want  []string
	}{
		{
			name:  "panel",
			view:  QualityView{PredictedClass: "Healthy", Confidence: 0.875, Extra: map[string]string{"image_hash": "abc"}},
			quiet: false,
			want:  []string{"Leaf Analysis", "Healthy", "87.5%", "appears to be healthy", "image_hash: abc"},
		},
		{
			name:  "quiet",
			view:  QualityView{PredictedClass: "Infected", Confidence: 0.5},
			quiet: true,
			want:  []string{"Infected 50.0%"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewResultUI(&buf, tt.quiet).PrintQuality(tt.view)
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output missing %q:\n%s", w, out)
				}
			}
		})
	}
}

func TestResultUI_PrintYield(t *testing.T) {
	var buf bytes.Buffer
	NewResultUI(&buf, false).PrintYield(YieldView{AvgQuality: 0.85, Temperature: 25.5, Humidity: 65, YieldKg: 42.17})
	out := buf.String()
	for _, w := range []string{"Estimated Cocoon Yield", "42.17 kg", "0.85", "25.5 °C", "65 %"} {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}

	buf.Reset()
	NewResultUI(&buf, true).PrintYield(YieldView{YieldKg: 42.17})
	if got := buf.String(); got != "42.17\n" {
		t.Fatalf("quiet output = %q", got)
	}
}

func TestResultUI_PrintHealth(t *testing.T) {
	ready := false
	var buf bytes.Buffer
	NewResultUI(&buf, false).PrintHealth(HealthView{BaseURL: "http://x", Status: "healthy", Version: "1.0.0", ModelsReady: &ready})
	out := buf.String()
	for _, w := range []string{"Service available", "http://x", "healthy", "Models ready", "no", "1.0.0"} {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestFormErr(t *testing.T) {
	if err := formErr("x", huh.ErrUserAborted); !errors.Is(err, apperr.ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	boom := errors.New("boom")
	if err := formErr("x", boom); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
}

func TestSpinner_NilStopIsSafe(t *testing.T) {
	var s *Spinner
	s.Stop()
}
