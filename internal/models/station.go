package models

import "strings"

// Station represents a stop on a line, or a search result
type Station struct {
	Code          string        `json:"code"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	GroupCode     string        `json:"groupCode,omitempty"`
	Lat           float64       `json:"lat"`
	Lon           float64       `json:"lon"`
	Order         int           `json:"order,omitempty"`
	TransportType TransportType `json:"transportType"`
	LineCode      string        `json:"lineCode,omitempty"`
	LineName      string        `json:"lineName,omitempty"`
	LineColor     string        `json:"lineColor,omitempty"`
	HasAlerts     bool          `json:"hasAlerts"`
}

// StationResponse represents the raw JSON for a station
type StationResponse struct {
	ID               string  `json:"id"`
	Code             string  `json:"code"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	StationGroupCode string  `json:"station_group_code"`
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	Order            int     `json:"order"`
	TransportType    string  `json:"transport_type"`
	Type             string  `json:"type"` // search results use "type"
	LineCode         string  `json:"line_code"`
	LineName         string  `json:"line_name"`
	LineColor        string  `json:"line_color"`
	HasAlerts        bool    `json:"has_alerts"`
}

// ToStation converts the raw response to a Station
func (r *StationResponse) ToStation() *Station {
	code := r.Code
	if code == "" {
		code = r.ID
	}
	tt := r.TransportType
	if tt == "" {
		tt = r.Type
	}
	return &Station{
		Code:          code,
		Name:          r.Name,
		Description:   r.Description,
		GroupCode:     r.StationGroupCode,
		Lat:           r.Latitude,
		Lon:           r.Longitude,
		Order:         r.Order,
		TransportType: TransportType(strings.ToLower(tt)),
		LineCode:      r.LineCode,
		LineName:      r.LineName,
		LineColor:     normalizeColor(r.LineColor),
		HasAlerts:     r.HasAlerts,
	}
}

// ToFavorite builds the favorite payload for this station
func (s *Station) ToFavorite() Favorite {
	fav := Favorite{
		Type:        string(s.TransportType),
		StationCode: s.Code,
		StationName: s.Name,
		LineCode:    s.LineCode,
		Coordinates: []float64{s.Lat, s.Lon},
	}
	if s.GroupCode != "" {
		group := s.GroupCode
		fav.StationGroupCode = &group
	}
	if s.LineName != "" {
		name := s.LineName
		fav.LineName = &name
	}
	return fav
}

// Connection is another line reachable from a station
type Connection struct {
	LineCode      string        `json:"lineCode"`
	LineName      string        `json:"lineName"`
	Description   string        `json:"description"`
	TransportType TransportType `json:"transportType"`
	Color         string        `json:"color,omitempty"`
}

// ConnectionResponse represents the raw JSON for a station connection
type ConnectionResponse struct {
	LineCode        string `json:"line_code"`
	LineName        string `json:"line_name"`
	LineDescription string `json:"line_description"`
	TransportType   string `json:"transport_type"`
	Color           string `json:"color"`
}

// ToConnection converts the raw response to a Connection
func (r *ConnectionResponse) ToConnection() *Connection {
	return &Connection{
		LineCode:      r.LineCode,
		LineName:      r.LineName,
		Description:   r.LineDescription,
		TransportType: TransportType(strings.ToLower(r.TransportType)),
		Color:         normalizeColor(r.Color),
	}
}

// Access is a street entrance of a station
type Access struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Elevators int     `json:"elevators"`
}

// AccessResponse represents the raw JSON for a station access
type AccessResponse struct {
	Code              string  `json:"code"`
	Name              string  `json:"name"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	NumberOfElevators int     `json:"number_of_elevators"`
}

// ToAccess converts the raw response to an Access
func (r *AccessResponse) ToAccess() *Access {
	return &Access{
		Code:      r.Code,
		Name:      r.Name,
		Lat:       r.Latitude,
		Lon:       r.Longitude,
		Elevators: r.NumberOfElevators,
	}
}

// HasElevator reports whether the entrance is step-free.
func (a *Access) HasElevator() bool {
	return a.Elevators > 0
}
