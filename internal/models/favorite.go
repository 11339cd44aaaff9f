package models

// Favorite is a saved station. Field names follow the user API payload.
type Favorite struct {
	Type              string    `json:"type"`
	StationCode       string    `json:"station_code"`
	StationName       string    `json:"station_name"`
	StationGroupCode  *string   `json:"station_group_code"`
	LineName          *string   `json:"line_name"`
	LineNameWithEmoji *string   `json:"line_name_with_emoji"`
	LineCode          string    `json:"line_code"`
	Coordinates       []float64 `json:"coordinates"`
}

// Key identifies a favorite across add, delete and exists calls.
func (f Favorite) Key() string {
	return f.Type + ":" + f.StationCode
}

// DisplayLine returns the best available line label.
func (f Favorite) DisplayLine() string {
	switch {
	case f.LineNameWithEmoji != nil && *f.LineNameWithEmoji != "":
		return *f.LineNameWithEmoji
	case f.LineName != nil && *f.LineName != "":
		return *f.LineName
	}
	return f.LineCode
}

// RegisterRequest registers this device with the backend. The push token
// is the device identifier when no push service is available.
type RegisterRequest struct {
	FCMToken string `json:"fcmToken"`
}
