package reading

import (
	"strings"
	"testing"

	"github.com/mulberryleaf/mulberry-cli/internal/api"
	"github.com/mulberryleaf/mulberry-cli/internal/apperr"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr string
	}{
		{name: "plain", raw: "25.5", want: 25.5},
		{name: "trimmed", raw: "  65 ", want: 65},
		{name: "negative temperature", raw: "-3.25", want: -3.25},
		{name: "out of range passes through", raw: "1.7", want: 1.7},
		{name: "empty", raw: "", wantErr: "is required"},
		{name: "whitespace", raw: "   ", wantErr: "is required"},
		{name: "text", raw: "warm", wantErr: "must be a number"},
		{name: "nan", raw: "NaN", wantErr: "finite"},
		{name: "inf", raw: "+Inf", wantErr: "finite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse("temperature", tt.raw)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				if !apperr.IsUser(err) {
					t.Fatalf("expected a UserError, got %T", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %v, want %v", tt.raw, got, tt.want)
			}
		})
	}
}

func TestParseAll(t *testing.T) {
	got, err := ParseAll("0.85", "25.5", "65")
	if err != nil {
		t.Fatalf("ParseAll error: %v", err)
	}
	want := api.YieldRequest{AvgQuality: 0.85, Temperature: 25.5, Humidity: 65}
	if got != want {
		t.Fatalf("ParseAll = %+v, want %+v", got, want)
	}
}

func TestParseAll_ReportsFirstBadField(t *testing.T) {
	_, err := ParseAll("0.85", "", "x")
	if err == nil || !strings.HasPrefix(err.Error(), "temperature") {
		t.Fatalf("expected temperature error first, got %v", err)
	}
}

func TestValidator(t *testing.T) {
	v := Validator(FieldHumidity)
	if err := v("70"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := v(""); err == nil {
		t.Fatalf("expected error for empty input")
	}
}

func TestFormat(t *testing.T) {
	if got := Format(0.85); got != "0.85" {
		t.Fatalf("Format(0.85) = %q", got)
	}
	if got := Format(65); got != "65" {
		t.Fatalf("Format(65) = %q", got)
	}
}
