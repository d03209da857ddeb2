package models

// WindowStatus is the backend's per-window booking tally.
type WindowStatus struct {
	Count  int  `json:"count"`
	IsFull bool `json:"isFull"`
}

// DaySchedule is one calendar day in the backend's availability response.
type DaySchedule struct {
	Date  string                  `json:"date"` // "2006-01-02"
	Slots map[string]WindowStatus `json:"slots"`
}

// AvailabilityResponse mirrors the backend's availability contract:
// hourly window labels plus per-day booking counts keyed by those labels.
type AvailabilityResponse struct {
	TimeSlots []string      `json:"timeSlots"`
	Days      []DaySchedule `json:"days"`
}

// SlotOffer is a bookable sub-slot derived from a window's booking count.
type SlotOffer struct {
	Window         string `json:"window"`
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	IsFull         bool   `json:"isFull"`
	AvailableCount int    `json:"availableCount"`
}

// DayOffers is the assembled availability medigate returns to the UI.
type DayOffers struct {
	Date   string      `json:"date"`
	Offers []SlotOffer `json:"offers"`
}
