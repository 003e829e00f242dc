package model

import (
	"github.com/lucasb-eyer/go-colorful"
)

// ColorValue is the excretion-color attribute. Older schema versions
// stored it as a 0-100 severity number, newer ones as a direct color
// token; both survive round-trips unchanged. Exactly one of Severity
// and Token is set.
type ColorValue struct {
	Severity *int   `json:"severity,omitempty"`
	Token    string `json:"token,omitempty"`
}

// SeverityColor builds a legacy severity variant, clamped to 0-100.
func SeverityColor(severity int) *ColorValue {
	severity = min(max(severity, 0), 100)
	return &ColorValue{Severity: &severity}
}

// DirectColor builds a direct color-token variant.
func DirectColor(token string) *ColorValue {
	return &ColorValue{Token: token}
}

// Gradient endpoints for resolving legacy severity values. The low end
// matches the original urine color default.
const (
	severityLowHex  = "#ffeb3b"
	severityHighHex = "#5d4037"
)

// Resolve maps either representation to a renderable hex color.
// Severity blends between the gradient endpoints in Lab space.
func (c *ColorValue) Resolve() string {
	if c == nil {
		return ""
	}
	if c.Token != "" {
		return c.Token
	}
	if c.Severity == nil {
		return ""
	}
	low, err := colorful.Hex(severityLowHex)
	if err != nil {
		return severityLowHex
	}
	high, err := colorful.Hex(severityHighHex)
	if err != nil {
		return severityLowHex
	}
	frac := float64(min(max(*c.Severity, 0), 100)) / 100.0
	return low.BlendLab(high, frac).Clamped().Hex()
}
