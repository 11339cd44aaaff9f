package api

const (
	// BaseURL is the default base URL of the BCN Transit backend
	BaseURL = "https://api.bcntransit.app"

	// EndpointLines lists the lines of a network
	// Path params: type
	EndpointLines = "/%s/lines"

	// EndpointLineStations lists the stations of a line in order
	// Path params: type, line code
	EndpointLineStations = "/%s/lines/%s/stations"

	// EndpointStationRoutes returns the routes serving a station with next trips
	// Path params: type, station code
	EndpointStationRoutes = "/%s/stations/%s/routes"

	// EndpointStationConnections returns lines reachable from a station
	// Path params: type, station code
	EndpointStationConnections = "/%s/stations/%s/connections"

	// EndpointStationAccesses returns the street entrances of a station
	// Path params: type, station code
	EndpointStationAccesses = "/%s/stations/%s/accesses"

	// EndpointAlerts returns the active service alerts of a network
	// Path params: type
	EndpointAlerts = "/%s/alerts"

	// EndpointBicingStation returns live availability of a bike-share dock
	// Path params: station id
	EndpointBicingStation = "/bicing/stations/%s"

	// EndpointSearch searches stations of every network by name
	// Required params: name
	EndpointSearch = "/results"

	// EndpointSearchHistory returns the user's recent searches
	EndpointSearchHistory = "/results/history"

	// EndpointRegister registers the device of the current user
	EndpointRegister = "/users/register"

	// EndpointNotificationsConfig returns whether alerts are pushed to the user
	EndpointNotificationsConfig = "/users/notifications/configuration"

	// EndpointNotificationsToggle enables or disables pushed alerts
	// Path params: status (true|false)
	EndpointNotificationsToggle = "/users/notifications/toggle/%t"

	// EndpointFavorites lists (GET), adds (POST) or deletes (DELETE) favorites
	// DELETE params: type, item_id
	EndpointFavorites = "/users/favorites"

	// EndpointFavoriteExists checks whether a station is a favorite
	// Required params: type, item_id
	EndpointFavoriteExists = "/users/favorites/exists"
)
