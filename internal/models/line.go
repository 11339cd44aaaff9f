package models

import "strings"

// Line represents a transit line of one network
type Line struct {
	Code          string        `json:"code"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Origin        string        `json:"origin,omitempty"`
	Destination   string        `json:"destination,omitempty"`
	Color         string        `json:"color,omitempty"`
	TransportType TransportType `json:"transportType"`
	HasAlerts     bool          `json:"hasAlerts"`
}

// LineResponse represents the raw JSON for a line
type LineResponse struct {
	ID            string `json:"id"`
	Code          string `json:"code"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Origin        string `json:"origin"`
	Destination   string `json:"destination"`
	Color         string `json:"color"`
	TransportType string `json:"transport_type"`
	HasAlerts     bool   `json:"has_alerts"`
}

// ToLine converts the raw response to a Line
func (r *LineResponse) ToLine() *Line {
	code := r.Code
	if code == "" {
		code = r.ID
	}
	return &Line{
		Code:          code,
		Name:          r.Name,
		Description:   r.Description,
		Origin:        r.Origin,
		Destination:   r.Destination,
		Color:         normalizeColor(r.Color),
		TransportType: TransportType(strings.ToLower(r.TransportType)),
		HasAlerts:     r.HasAlerts,
	}
}

// normalizeColor returns a color as "#RRGGBB", or "" when it is not a
// six digit hex value.
func normalizeColor(c string) string {
	c = strings.TrimPrefix(strings.TrimSpace(c), "#")
	if len(c) != 6 {
		return ""
	}
	for _, r := range c {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return ""
		}
	}
	return "#" + strings.ToUpper(c)
}
