package models

import "strings"

// BicingStation is a bike-share dock with live availability
type BicingStation struct {
	ID              string  `json:"id"`
	Street          string  `json:"street"`
	Lat             float64 `json:"lat"`
	Lon             float64 `json:"lon"`
	Slots           int     `json:"slots"`
	MechanicalBikes int     `json:"mechanicalBikes"`
	ElectricalBikes int     `json:"electricalBikes"`
	Status          string  `json:"status"`
}

// BicingStationResponse represents the raw JSON for a bike-share station
type BicingStationResponse struct {
	ID              string  `json:"id"`
	StreetName      string  `json:"street_name"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	Slots           int     `json:"slots"`
	MechanicalBikes int     `json:"mechanical_bikes"`
	ElectricalBikes int     `json:"electrical_bikes"`
	Status          int     `json:"status"`
	Disponibilidad  int     `json:"disponibilidad"`
}

// ToBicingStation converts the raw response to a BicingStation. The API
// reports status 1 for a working dock.
func (r *BicingStationResponse) ToBicingStation() *BicingStation {
	status := "OUT_OF_SERVICE"
	if r.Status == 1 {
		status = "IN_SERVICE"
	}
	return &BicingStation{
		ID:              r.ID,
		Street:          strings.TrimSpace(r.StreetName),
		Lat:             r.Latitude,
		Lon:             r.Longitude,
		Slots:           r.Slots,
		MechanicalBikes: r.MechanicalBikes,
		ElectricalBikes: r.ElectricalBikes,
		Status:          status,
	}
}

// InService reports whether the dock accepts and lends bikes.
func (b *BicingStation) InService() bool {
	return b.Status == "IN_SERVICE"
}

// Bikes returns the total number of available bikes.
func (b *BicingStation) Bikes() int {
	return b.MechanicalBikes + b.ElectricalBikes
}
