package models

import (
	"encoding/json"
	"testing"
)

func TestStationResponse_ToStation(t *testing.T) {
	raw := `{
		"id": "",
		"code": "121",
		"name": "Catalunya",
		"station_group_code": "6660121",
		"latitude": 41.3873,
		"longitude": 2.1700,
		"order": 12,
		"type": "Metro",
		"line_code": "1",
		"line_name": "L1",
		"line_color": "#e1001a",
		"has_alerts": false
	}`

	var resp StationResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	s := resp.ToStation()

	if s.TransportType != Metro {
		t.Errorf("TransportType = %q, want type fallback metro", s.TransportType)
	}
	if s.GroupCode != "6660121" || s.Order != 12 {
		t.Errorf("unexpected station: %+v", s)
	}
	if s.LineColor != "#E1001A" {
		t.Errorf("LineColor = %q", s.LineColor)
	}
}

func TestStation_ToFavorite(t *testing.T) {
	s := &Station{
		Code:          "121",
		Name:          "Catalunya",
		GroupCode:     "6660121",
		Lat:           41.3873,
		Lon:           2.17,
		TransportType: Metro,
		LineCode:      "1",
		LineName:      "L1",
	}
	fav := s.ToFavorite()

	if fav.Type != "metro" || fav.StationCode != "121" || fav.LineCode != "1" {
		t.Errorf("unexpected favorite: %+v", fav)
	}
	if fav.StationGroupCode == nil || *fav.StationGroupCode != "6660121" {
		t.Error("group code not carried over")
	}
	if fav.DisplayLine() != "L1" {
		t.Errorf("DisplayLine = %q", fav.DisplayLine())
	}
	if len(fav.Coordinates) != 2 || fav.Coordinates[0] != 41.3873 {
		t.Errorf("Coordinates = %v", fav.Coordinates)
	}

	bare := (&Station{Code: "9", TransportType: Bus}).ToFavorite()
	if bare.StationGroupCode != nil || bare.LineName != nil {
		t.Error("empty optional fields should stay nil")
	}

	data, err := json.Marshal(bare)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := m["station_group_code"]; !ok {
		t.Error("nullable fields should still be sent")
	}
}

func TestFavorite_KeyAndDisplayLine(t *testing.T) {
	emoji := "🟥 L1"
	name := "L1"
	f := Favorite{Type: "metro", StationCode: "121", LineCode: "1", LineName: &name, LineNameWithEmoji: &emoji}
	if f.Key() != "metro:121" {
		t.Errorf("Key = %q", f.Key())
	}
	if f.DisplayLine() != emoji {
		t.Errorf("DisplayLine = %q", f.DisplayLine())
	}
	f.LineNameWithEmoji, f.LineName = nil, nil
	if f.DisplayLine() != "1" {
		t.Errorf("DisplayLine fallback = %q", f.DisplayLine())
	}
}

func TestConnectionAndAccess(t *testing.T) {
	c := (&ConnectionResponse{LineCode: "R2", LineName: "R2 Sud", TransportType: "RODALIES", Color: "4c9a2a"}).ToConnection()
	if c.TransportType != Rodalies || c.Color != "#4C9A2A" {
		t.Errorf("unexpected connection: %+v", c)
	}

	a := (&AccessResponse{Code: "A1", Name: "Pl. Catalunya", NumberOfElevators: 1}).ToAccess()
	if !a.HasElevator() {
		t.Error("access with an elevator should be step-free")
	}
	if (&Access{}).HasElevator() {
		t.Error("access without elevators is not step-free")
	}
}

func TestBicingStationResponse(t *testing.T) {
	raw := `{"id": "42", "street_name": " C/ Pau Claris ", "latitude": 41.39, "longitude": 2.17,
		"slots": 10, "mechanical_bikes": 3, "electrical_bikes": 4, "status": 1}`
	var resp BicingStationResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	b := resp.ToBicingStation()
	if !b.InService() || b.Bikes() != 7 || b.Street != "C/ Pau Claris" {
		t.Errorf("unexpected station: %+v", b)
	}

	resp.Status = 0
	if resp.ToBicingStation().InService() {
		t.Error("status 0 should be out of service")
	}
}
