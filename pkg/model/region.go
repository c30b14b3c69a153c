package model

import "strings"

// Region codes accepted for parks. The dataset covers five southwestern regions.
var Regions = []string{"AZ", "CA", "UT", "ID", "CO"}

// IsValidRegion reports whether code is one of Regions, ignoring case
func IsValidRegion(code string) bool {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, r := range Regions {
		if r == code {
			return true
		}
	}
	return false
}
