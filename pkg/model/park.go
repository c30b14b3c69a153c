package model

// Park represents a national park row
type Park struct {
	ID              int    `json:"id" db:"id"`
	ParkCode        string `json:"park_code" db:"park_code"`
	Name            string `json:"name" db:"name"`
	StateCode       string `json:"state_code" db:"state_code"`
	EntranceFee     int    `json:"entrance_fee" db:"entrance_fee"`         // private vehicle fee in dollars
	TotalActivities int    `json:"total_activities" db:"total_activities"` // number of listed activities
}

// VisitorCenter represents a visitor center belonging to a park
type VisitorCenter struct {
	ID         int    `json:"id" db:"id"`
	ParkCode   string `json:"park_code" db:"park_code"`
	CenterName string `json:"center_name" db:"center_name"`
}

// VisitorCenterWithPark extends VisitorCenter with the owning park's name
type VisitorCenterWithPark struct {
	VisitorCenter
	ParkName string `json:"park_name" db:"park_name"`
}

// Event represents a scheduled park event
type Event struct {
	ID         int    `json:"id" db:"id"`
	ParkCode   string `json:"park_code" db:"park_code"`
	EventTitle string `json:"event_title" db:"event_title"`
	StartDate  Date   `json:"start_date" db:"start_date"`
	EndDate    *Date  `json:"end_date" db:"end_date"`
	IsFree     bool   `json:"is_free" db:"is_free"`
}
