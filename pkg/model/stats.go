package model

// EventCountPerPark is one row of the events-per-park aggregate
type EventCountPerPark struct {
	ParkCode   string `json:"park_code" db:"park_code"`
	Name       string `json:"name" db:"name"`
	EventCount int    `json:"event_count" db:"event_count"`
}

// VisitorCenterCountPerPark is one row of the visitor-centers-per-park aggregate
type VisitorCenterCountPerPark struct {
	ParkCode           string `json:"park_code" db:"park_code"`
	Name               string `json:"name" db:"name"`
	VisitorCenterCount int    `json:"visitor_center_count" db:"visitor_center_count"`
}

// AboveAverageEventPark is a park whose event count exceeds the mean
// over all parks that have at least one event
type AboveAverageEventPark struct {
	ParkCode          string  `json:"park_code" db:"park_code"`
	Name              string  `json:"name" db:"name"`
	EventCount        int     `json:"event_count" db:"event_count"`
	AverageEventCount float64 `json:"average_event_count" db:"average_event_count"`
}

// FreeEventCountPerPark ranks parks by their free events
type FreeEventCountPerPark struct {
	ParkCode       string `json:"park_code" db:"park_code"`
	Name           string `json:"name" db:"name"`
	FreeEventCount int    `json:"free_event_count" db:"free_event_count"`
}

// QualifyingPark is a park meeting both the visitor center and event thresholds
type QualifyingPark struct {
	ParkCode           string `json:"park_code" db:"park_code"`
	Name               string `json:"name" db:"name"`
	VisitorCenterCount int    `json:"visitor_center_count" db:"visitor_center_count"`
	EventCount         int    `json:"event_count" db:"event_count"`
}
