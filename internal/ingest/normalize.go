package ingest

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"nps-explorer/pkg/model"
)

const defaultCenterName = "Unknown Visitor Center"

// eventDateLayouts are tried in order when parsing NPS event dates
var eventDateLayouts = []string{
	model.DateLayout,
	"2006-01-02T15:04:05-0700",
	time.RFC3339,
}

var (
	errMissingTitle = errors.New("missing event title")
	errMissingStart = errors.New("no parsable start date")
)

// NormalizePark converts an NPS park record into a park row and checks it
// against the store's invariants
func NormalizePark(code string, raw RawPark) (model.Park, error) {
	code = strings.ToLower(strings.TrimSpace(code))

	name := strings.TrimSpace(raw.FullName)
	if name == "" {
		name = strings.TrimSpace(raw.Name)
	}
	if name == "" {
		name = strings.ToUpper(code)
	}

	p := model.Park{
		ParkCode:        code,
		Name:            name,
		StateCode:       firstState(raw.States),
		EntranceFee:     vehicleFee(raw.EntranceFees),
		TotalActivities: len(raw.Activities),
	}

	if p.ParkCode == "" {
		return p, errors.New("empty park code")
	}
	if !model.IsValidRegion(p.StateCode) {
		return p, fmt.Errorf("state %q is outside the region set %s", p.StateCode, strings.Join(model.Regions, ","))
	}
	if p.EntranceFee < 0 {
		return p, fmt.Errorf("negative entrance fee %d", p.EntranceFee)
	}
	return p, nil
}

// NormalizeVisitorCenter converts an NPS visitor center record
func NormalizeVisitorCenter(code string, raw RawVisitorCenter) model.VisitorCenter {
	name := strings.TrimSpace(raw.Name)
	if name == "" {
		name = defaultCenterName
	}
	return model.VisitorCenter{
		ParkCode:   strings.ToLower(strings.TrimSpace(code)),
		CenterName: name,
	}
}

// NormalizeEvent converts an NPS event record. Start falls back to the end
// date, end falls back to the start date.
func NormalizeEvent(code string, raw RawEvent) (model.Event, error) {
	ev := model.Event{
		ParkCode:   strings.ToLower(strings.TrimSpace(code)),
		EventTitle: strings.TrimSpace(raw.Title),
		IsFree:     isFree(raw),
	}
	if ev.EventTitle == "" {
		return ev, errMissingTitle
	}

	rawStart := firstNonEmpty(raw.DateStart, raw.DateEnd)
	rawEnd := firstNonEmpty(raw.DateEnd, rawStart)

	start, ok := parseEventDate(rawStart)
	if !ok {
		return ev, errMissingStart
	}
	ev.StartDate = start

	end, ok := parseEventDate(rawEnd)
	if !ok {
		end = start
	}
	if end.Before(start.Time) {
		return ev, fmt.Errorf("end date %s is before start date %s", end, start)
	}
	ev.EndDate = &end
	return ev, nil
}

func firstState(states string) string {
	for _, s := range strings.Split(states, ",") {
		if s = strings.TrimSpace(s); s != "" {
			return strings.ToUpper(s)
		}
	}
	return ""
}

// vehicleFee picks the first private vehicle fee, rounded to whole dollars
func vehicleFee(fees []EntranceFee) int {
	for _, fee := range fees {
		if !strings.Contains(strings.ToLower(fee.Title), "vehicle") {
			continue
		}
		cost, err := strconv.ParseFloat(strings.TrimSpace(string(fee.Cost)), 64)
		if err != nil {
			continue
		}
		return int(math.Round(cost))
	}
	return 0
}

func parseEventDate(raw string) (model.Date, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.Date{}, false
	}
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return model.NewDate(t.Year(), t.Month(), t.Day()), true
		}
	}
	return model.Date{}, false
}

// isFree reads the explicit flag when present, otherwise an event is free
// when it has no fee information
func isFree(raw RawEvent) bool {
	switch strings.ToLower(strings.TrimSpace(string(raw.IsFree))) {
	case "true", "yes", "y", "1":
		return true
	case "false", "no", "n", "0":
		return false
	}
	return strings.TrimSpace(raw.FeeInfo) == ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
