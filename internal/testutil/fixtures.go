package testutil

import "fmt"

// Sample JSON responses for API testing

// SampleLinesResponse is a minimal valid metro lines response
const SampleLinesResponse = `[
	{
		"id": "1",
		"code": "1",
		"name": "L1",
		"description": "Hospital de Bellvitge - Fondo",
		"origin": "Hospital de Bellvitge",
		"destination": "Fondo",
		"color": "E1001A",
		"transport_type": "metro",
		"has_alerts": false
	},
	{
		"id": "3",
		"code": "3",
		"name": "L3",
		"description": "Zona Universitària - Trinitat Nova",
		"origin": "Zona Universitària",
		"destination": "Trinitat Nova",
		"color": "3EA12F",
		"transport_type": "metro",
		"has_alerts": true
	}
]`

// SampleStationsResponse is a minimal valid line stations response
const SampleStationsResponse = `[
	{
		"code": "126",
		"name": "Universitat",
		"station_group_code": "6660126",
		"latitude": 41.3866,
		"longitude": 2.1633,
		"order": 11,
		"transport_type": "metro",
		"line_code": "1",
		"line_name": "L1",
		"line_color": "E1001A",
		"has_alerts": false
	},
	{
		"code": "127",
		"name": "Catalunya",
		"station_group_code": "6660127",
		"latitude": 41.3873,
		"longitude": 2.1700,
		"order": 12,
		"transport_type": "metro",
		"line_code": "1",
		"line_name": "L1",
		"line_color": "E1001A",
		"has_alerts": true
	}
]`

// SampleSearchResponse is a minimal valid station search response
const SampleSearchResponse = `[
	{
		"code": "127",
		"name": "Catalunya",
		"type": "metro",
		"latitude": 41.3873,
		"longitude": 2.1700,
		"line_code": "1",
		"line_name": "L1",
		"line_color": "E1001A"
	},
	{
		"code": "78805",
		"name": "Barcelona - Pl. Catalunya",
		"type": "rodalies",
		"latitude": 41.3866,
		"longitude": 2.1698,
		"line_code": "R3",
		"line_name": "R3",
		"line_color": "EB4128"
	}
]`

// SampleRoutesAt builds a routes response whose trips arrive at the
// given epoch seconds.
func SampleRoutesAt(first, second int64) string {
	return fmt.Sprintf(`[
	{
		"route_id": "1-1",
		"line_code": "1",
		"line_name": "L1",
		"color": "E1001A",
		"destination": "Fondo",
		"transport_type": "metro",
		"next_trips": [
			{"id": "a", "arrival_time": %d, "delay_in_minutes": 0, "platform": "1"},
			{"id": "b", "arrival_time": %d, "delay_in_minutes": 2, "platform": "1"}
		]
	},
	{
		"route_id": "1-2",
		"line_code": "1",
		"line_name": "L1",
		"color": "E1001A",
		"destination": "Hospital de Bellvitge",
		"transport_type": "metro",
		"next_trips": []
	}
]`, first, second)
}

// SampleRoutesResponse is a routes response with fixed arrival times
var SampleRoutesResponse = SampleRoutesAt(1710072090, 1710075600)

// SampleConnectionsResponse is a minimal valid station connections response
const SampleConnectionsResponse = `[
	{"line_code": "3", "line_name": "L3", "line_description": "Zona Universitària - Trinitat Nova", "transport_type": "metro", "color": "3EA12F"},
	{"line_code": "R2", "line_name": "R2", "line_description": "Castelldefels - Granollers", "transport_type": "rodalies", "color": "4C9A2A"}
]`

// SampleAccessesResponse is a minimal valid station accesses response
const SampleAccessesResponse = `[
	{"code": "A1", "name": "Pl. Catalunya", "latitude": 41.3871, "longitude": 2.1701, "number_of_elevators": 1},
	{"code": "A2", "name": "Rambla", "latitude": 41.3869, "longitude": 2.1693, "number_of_elevators": 0}
]`

// SampleAlertsResponse is a minimal valid alerts response
const SampleAlertsResponse = `[
	{
		"id": "alert-1",
		"begin_date": "2024-03-10T06:00:00",
		"end_date": "2024-03-12T23:00:00",
		"status": "ACTIVE",
		"cause": "Obras",
		"publications": [{
			"header_es": "Servicio interrumpido",
			"header_ca": "Servei interromput",
			"header_en": "Service interrupted",
			"text_es": "Sin servicio entre Catalunya y Fondo",
			"text_ca": "Sense servei entre Catalunya i Fondo",
			"text_en": "No service between Catalunya and Fondo"
		}],
		"affected_entities": [
			{"line_code": "1", "line_name": "L1", "station_code": "127", "station_name": "Catalunya"}
		]
	}
]`

// SampleBicingResponse is a minimal valid bike-share station response
const SampleBicingResponse = `{
	"id": "42",
	"street_name": "C/ Pau Claris, 102",
	"latitude": 41.3912,
	"longitude": 2.1690,
	"slots": 12,
	"mechanical_bikes": 5,
	"electrical_bikes": 3,
	"status": 1
}`

// SampleFavoritesResponse is a minimal valid favorites response
const SampleFavoritesResponse = `[
	{
		"type": "metro",
		"station_code": "127",
		"station_name": "Catalunya",
		"station_group_code": "6660127",
		"line_name": "L1",
		"line_name_with_emoji": "🟥 L1",
		"line_code": "1",
		"coordinates": [41.3873, 2.1700]
	},
	{
		"type": "bus",
		"station_code": "1265",
		"station_name": "Pg de Gràcia - Diputació",
		"station_group_code": null,
		"line_name": "V15",
		"line_name_with_emoji": null,
		"line_code": "V15",
		"coordinates": [41.3899, 2.1672]
	},
	{
		"type": "metro",
		"station_code": "213",
		"station_name": "Sagrada Família",
		"station_group_code": null,
		"line_name": "L2",
		"line_name_with_emoji": null,
		"line_code": "2",
		"coordinates": [41.4036, 2.1744]
	}
]`

// SampleSearchHistoryResponse is a minimal valid search history response
const SampleSearchHistoryResponse = `["Catalunya", "Sants", "Glòries"]`

// SampleEmptyResponse is an empty JSON list
const SampleEmptyResponse = `[]`

// SampleErrorResponse is a sample error response
const SampleErrorResponse = `{"detail": "Station not found"}`
