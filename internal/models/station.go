package models

// Station is a normalized catalog entry.
type Station struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// StationQueryResult is one page of a catalog search.
// Total counts every matching record, not just the returned page.
type StationQueryResult struct {
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
	Items []Station `json:"items"`
}
