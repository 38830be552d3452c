package fleet

import (
	"strconv"
	"strings"
	"time"
)

// Date layouts accepted across the sheets. Coordinators enter dates by hand,
// so both day-first and month-first slash formats show up.
var dateLayouts = []string{"2006-01-02", "02/01/2006", "01/02/2006"}

// ParseDate parses a sheet date value. Returns the zero time when the value
// is empty or matches none of the accepted layouts.
func ParseDate(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Time{}
}

// SplitSet splits a semicolon- or comma-separated field into a set of
// trimmed, lower-cased entries.
func SplitSet(raw string) map[string]bool {
	set := make(map[string]bool)
	for _, chunk := range strings.FieldsFunc(raw, func(r rune) bool {
		return r == ';' || r == ','
	}) {
		if s := strings.ToLower(strings.TrimSpace(chunk)); s != "" {
			set[s] = true
		}
	}
	return set
}

// MissingFrom returns the entries of required that have does not cover.
// Order follows map iteration; callers sort when the result is user-facing.
func MissingFrom(required, have string) []string {
	req := SplitSet(required)
	got := SplitSet(have)
	var missing []string
	for item := range req {
		if !got[item] {
			missing = append(missing, item)
		}
	}
	return missing
}

// MissingItems is MissingFrom with the sheet's original spelling kept.
// Matching stays case-insensitive; the returned entries read the way the
// coordinator typed them. Duplicates collapse to the first spelling seen.
func MissingItems(required, have string) []string {
	got := SplitSet(have)
	seen := make(map[string]bool)
	var missing []string
	for _, chunk := range strings.FieldsFunc(required, func(r rune) bool {
		return r == ';' || r == ','
	}) {
		item := strings.TrimSpace(chunk)
		key := strings.ToLower(item)
		if item == "" || got[key] || seen[key] {
			continue
		}
		seen[key] = true
		missing = append(missing, item)
	}
	return missing
}

// SubsetOf reports whether every entry of required appears in have.
func SubsetOf(required, have string) bool {
	return len(MissingFrom(required, have)) == 0
}

// NormalizeStatus lower-cases and trims a status value for comparison.
func NormalizeStatus(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// SameLocation compares two location strings case-insensitively.
func SameLocation(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// RainForecast reports whether the forecast category calls for rain checks.
// Sunny, clear, and cloudy skies are safe for every airframe.
func RainForecast(forecast string) bool {
	switch NormalizeStatus(forecast) {
	case "rainy", "rain", "storm", "stormy":
		return true
	}
	return false
}

// RainRated reports whether a weather-resistance rating permits flight in
// rain. Ratings carry an ingress-protection marker when the airframe is
// sealed, e.g. "IP43 (Rain)"; "None (Clear Sky Only)" stays grounded.
func RainRated(resistance string) bool {
	r := strings.ToLower(resistance)
	for _, ip := range []string{"ip43", "ip44", "ip45", "ip53", "ip54", "ip55", "ip67"} {
		if strings.Contains(r, ip) {
			return true
		}
	}
	return false
}

// ParseAmount parses a currency or rate cell. Stray commas and currency
// markers are tolerated; malformed or negative values collapse to zero.
func ParseAmount(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimPrefix(cleaned, "₹")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}
