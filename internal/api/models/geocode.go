package models

// GeocodeResponse is a resolved address lookup.
type GeocodeResponse struct {
	Query       string  `json:"query"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	DisplayName string  `json:"displayName"`
}
