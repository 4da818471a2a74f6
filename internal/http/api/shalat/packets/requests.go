package packets

// REQUESTS FOR /api/*

// CoordinateQuery is bound from ?latitude=&longitude=. Values stay strings
// so a missing parameter can be told apart from zero.
type CoordinateQuery struct {
	Latitude  string `form:"latitude"`
	Longitude string `form:"longitude"`
}

// CursorQuery selects a city by catalog name or by coordinates.
type CursorQuery struct {
	City string `form:"city"`
	CoordinateQuery
}

type CitySearchQuery struct {
	Query string `form:"q"`
}

// SetCityRequest picks a catalog city by name, or custom coordinates when
// both latitude and longitude are given.
type SetCityRequest struct {
	City      string   `json:"city"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

type PermissionRequest struct {
	Granted *bool `json:"granted" binding:"required"`
}

// StreamRequest is sent by stream clients to switch city.
type StreamRequest struct {
	City      string   `json:"city"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}
