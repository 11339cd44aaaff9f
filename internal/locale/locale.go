// Package locale resolves user-facing strings for the supported languages.
package locale

import "strings"

// Default is the language used when none is configured or the configured
// one is unknown.
const Default = "es"

// Strings holds the translated texts for one language.
type Strings struct {
	Lang string

	// Countdown labels
	Arriving   string
	HourSuffix string

	// Screen texts
	Lines            string
	Stations         string
	Routes           string
	Favorites        string
	FavoritesEmpty   string
	FavoriteAdded    string
	FavoriteDeleted  string
	FavoriteError    string
	ConnectionError  string
	NormalService    string
	NoIncidents      string
	ServiceStatus    string
	OutOfService     string
	NoNextTrips      string
	NotificationsOn  string
	NotificationsOff string
	NoResults        string
	Connections      string
	Accesses         string
	Elevator         string
	Bikes            string
	Electric         string
	FreeSlots        string
	Platform         string
	History          string
}

var catalog = map[string]Strings{
	"es": {
		Lang:             "es",
		Arriving:         "Llegando",
		HourSuffix:       "h",
		Lines:            "Líneas",
		Stations:         "Estaciones",
		Routes:           "Próximas llegadas",
		Favorites:        "Favoritos",
		FavoritesEmpty:   "Todavía no tienes favoritos",
		FavoriteAdded:    "Añadido a favoritos",
		FavoriteDeleted:  "Eliminado de favoritos",
		FavoriteError:    "No se ha podido actualizar el favorito",
		ConnectionError:  "Error de conexión",
		NormalService:    "Servicio normal",
		NoIncidents:      "No hay incidencias",
		ServiceStatus:    "Estado del servicio",
		OutOfService:     "Fuera de servicio",
		NoNextTrips:      "Sin próximas llegadas",
		NotificationsOn:  "Alertas activadas",
		NotificationsOff: "Alertas desactivadas",
		NoResults:        "Sin resultados",
		Connections:      "Correspondencias",
		Accesses:         "Accesos",
		Elevator:         "Ascensor",
		Bikes:            "Bicis",
		Electric:         "Eléctricas",
		FreeSlots:        "Anclajes libres",
		Platform:         "Andén",
		History:          "Búsquedas recientes",
	},
	"ca": {
		Lang:             "ca",
		Arriving:         "Arribant",
		HourSuffix:       "h",
		Lines:            "Línies",
		Stations:         "Estacions",
		Routes:           "Properes arribades",
		Favorites:        "Preferits",
		FavoritesEmpty:   "Encara no tens preferits",
		FavoriteAdded:    "Afegit a preferits",
		FavoriteDeleted:  "Eliminat de preferits",
		FavoriteError:    "No s'ha pogut actualitzar el preferit",
		ConnectionError:  "Error de connexió",
		NormalService:    "Servei normal",
		NoIncidents:      "No hi ha incidències",
		ServiceStatus:    "Estat del servei",
		OutOfService:     "Fora de servei",
		NoNextTrips:      "Sense properes arribades",
		NotificationsOn:  "Alertes activades",
		NotificationsOff: "Alertes desactivades",
		NoResults:        "Sense resultats",
		Connections:      "Correspondències",
		Accesses:         "Accessos",
		Elevator:         "Ascensor",
		Bikes:            "Bicis",
		Electric:         "Elèctriques",
		FreeSlots:        "Ancoratges lliures",
		Platform:         "Andana",
		History:          "Cerques recents",
	},
	"en": {
		Lang:             "en",
		Arriving:         "Arriving",
		HourSuffix:       "h",
		Lines:            "Lines",
		Stations:         "Stations",
		Routes:           "Next arrivals",
		Favorites:        "Favorites",
		FavoritesEmpty:   "You have no favorites yet",
		FavoriteAdded:    "Added to favorites",
		FavoriteDeleted:  "Removed from favorites",
		FavoriteError:    "Could not update favorite",
		ConnectionError:  "Connection error",
		NormalService:    "Normal service",
		NoIncidents:      "No incidents reported",
		ServiceStatus:    "Service status",
		OutOfService:     "Out of service",
		NoNextTrips:      "No upcoming arrivals",
		NotificationsOn:  "Alerts enabled",
		NotificationsOff: "Alerts disabled",
		NoResults:        "No results",
		Connections:      "Connections",
		Accesses:         "Accesses",
		Elevator:         "Elevator",
		Bikes:            "Bikes",
		Electric:         "Electric",
		FreeSlots:        "Free docks",
		Platform:         "Platform",
		History:          "Recent searches",
	},
}

// Normalize maps a language tag such as "ca-ES" or "EN" onto a supported
// language code, falling back to Default.
func Normalize(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		lang = lang[:i]
	}
	if _, ok := catalog[lang]; ok {
		return lang
	}
	return Default
}

// IsSupported reports whether lang is one of the exact supported codes.
func IsSupported(lang string) bool {
	_, ok := catalog[lang]
	return ok
}

// For returns the strings for lang.
func For(lang string) Strings {
	return catalog[Normalize(lang)]
}

// Supported returns the supported language codes in display order.
func Supported() []string {
	return []string{"es", "ca", "en"}
}

// Name returns the native name of a supported language.
func Name(lang string) string {
	switch Normalize(lang) {
	case "ca":
		return "Català"
	case "en":
		return "English"
	default:
		return "Español"
	}
}
