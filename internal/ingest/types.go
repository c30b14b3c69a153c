package ingest

import (
	"bytes"
	"strconv"

	json "github.com/goccy/go-json"
)

// response is the envelope every NPS list endpoint returns
type response[T any] struct {
	Total string `json:"total"`
	Limit string `json:"limit"`
	Start string `json:"start"`
	Data  []T    `json:"data"`
}

// RawPark is the subset of an NPS park record used by ingestion
type RawPark struct {
	ParkCode      string        `json:"parkCode"`
	FullName      string        `json:"fullName"`
	Name          string        `json:"name"`
	States        string        `json:"states"`
	EntranceFees  []EntranceFee `json:"entranceFees"`
	Activities    []Activity    `json:"activities"`
	Designation   string        `json:"designation"`
	DirectionsURL string        `json:"directionsUrl"`
}

// EntranceFee is one entry of a park's entranceFees list
type EntranceFee struct {
	Cost        flexString `json:"cost"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
}

// Activity is one entry of a park's activities list
type Activity struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RawVisitorCenter is the subset of an NPS visitor center record used by ingestion
type RawVisitorCenter struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParkCode string `json:"parkCode"`
}

// RawEvent is the subset of an NPS event record used by ingestion.
// The API spells some keys in lower case (isfree, feeinfo); decoding
// matches keys case-insensitively.
type RawEvent struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	ParkCode  string     `json:"parkCode"`
	DateStart string     `json:"datestart"`
	DateEnd   string     `json:"dateend"`
	IsFree    flexString `json:"isFree"`
	FeeInfo   string     `json:"feeInfo"`
}

// flexString accepts a JSON string, number, bool or null
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	if bytes.Equal(b, []byte("true")) || bytes.Equal(b, []byte("false")) {
		*f = flexString(b)
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return err
	}
	*f = flexString(b)
	return nil
}
