// Package reading parses the user-entered values for a yield prediction.
//
// The inference client is a pass-through and performs no validation, so
// empty or non-numeric input has to be rejected here, before the call.
package reading

import (
	"math"
	"strconv"
	"strings"

	"github.com/mulberryleaf/mulberry-cli/internal/api"
	"github.com/mulberryleaf/mulberry-cli/internal/apperr"
)

// Field labels used in messages and forms.
const (
	FieldQuality     = "quality"
	FieldTemperature = "temperature"
	FieldHumidity    = "humidity"
)

// Parse converts raw to a float64. No range is enforced: a quality outside
// 0..1 or a humidity above 100 is passed through unchanged.
func Parse(name, raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, apperr.Userf("%s is required", name)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, apperr.Userf("%s must be a number, got %q", name, s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, apperr.Userf("%s must be a finite number, got %q", name, s)
	}
	return v, nil
}

// Validator adapts Parse to the func(string) error shape used by form inputs.
func Validator(name string) func(string) error {
	return func(s string) error {
		_, err := Parse(name, s)
		return err
	}
}

// ParseAll parses the three yield inputs. The first failure is returned.
func ParseAll(quality, temperature, humidity string) (api.YieldRequest, error) {
	q, err := Parse(FieldQuality, quality)
	if err != nil {
		return api.YieldRequest{}, err
	}
	t, err := Parse(FieldTemperature, temperature)
	if err != nil {
		return api.YieldRequest{}, err
	}
	h, err := Parse(FieldHumidity, humidity)
	if err != nil {
		return api.YieldRequest{}, err
	}
	return api.YieldRequest{AvgQuality: q, Temperature: t, Humidity: h}, nil
}

// Format renders v the way a user would type it back in, e.g. in a pre-filled
// form field.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
