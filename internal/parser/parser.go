// Package parser turns raw free-text telemetry payloads into structured
// records. The format is tolerant by design: clients assemble reports from
// batch scripts, so lines arrive in any order, with any casing, and with
// arbitrary junk in between. Unrecognized lines are ignored and malformed
// values keep their original text instead of failing the ingestion.
package parser

import (
	"regexp"
	"strconv"
	"strings"

	"resource-tracker/internal/model"
)

var (
	// headerPattern matches the report header line: "<timestamp> - <computer name>".
	headerPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) - (.+)`)
	// gpsPattern extracts a "lat , lon" pair from a GPS value.
	gpsPattern = regexp.MustCompile(`([\d.-]+)\s*,\s*([\d.-]+)`)
	// numberPattern extracts the first run of digits-and-dot from a value
	// such as "15.7844772338867 GB".
	numberPattern = regexp.MustCompile(`[\d.]+`)
)

// fieldRule binds a key substring marker to the record field it populates.
// Rules are tested in order and the first match wins, so more specific
// markers ("cpu cores") must precede looser ones ("cores").
type fieldRule struct {
	marker string
	set    func(rec *model.ParsedRecord, value string)
}

// fieldRules is the ordered marker table. Keys are lower-cased before
// matching, so markers are lower case by construction.
var fieldRules = []fieldRule{
	{"username", func(r *model.ParsedRecord, v string) { r.Username = v }},
	{"gps", setGPS},
	{"location", setGPS},
	{"manufacturer", func(r *model.ParsedRecord, v string) { r.Manufacturer = v }},
	{"model", func(r *model.ParsedRecord, v string) { r.Model = v }},
	{"serial", func(r *model.ParsedRecord, v string) { r.Serial = v }},
	{"cpu name", func(r *model.ParsedRecord, v string) { r.CPUName = v }},
	{"cpu cores", setCores},
	{"cores", setCores},
	{"clock speed", func(r *model.ParsedRecord, v string) { r.MaxClockSpeed = v }},
	{"total ram", func(r *model.ParsedRecord, v string) { r.TotalRAMGB = extractFloat(v) }},
	{"available ram", func(r *model.ParsedRecord, v string) { r.AvailableRAMMB = extractFloat(v) }},
	{"total storage", func(r *model.ParsedRecord, v string) { r.TotalStorageGB = extractFloat(v) }},
	{"available storage", func(r *model.ParsedRecord, v string) { r.AvailableStorageGB = extractFloat(v) }},
}

// Parse extracts a structured record from one raw payload. It never fails:
// the worst possible input yields an empty record.
func Parse(raw string) *model.ParsedRecord {
	rec := &model.ParsedRecord{}

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)

		if m := headerPattern.FindStringSubmatch(line); m != nil {
			rec.Timestamp = m[1]
			rec.ComputerName = strings.TrimSpace(m[2])
			continue
		}

		// Separator lines ("=====...") may contain colons on some clients;
		// skip anything that starts with one.
		if !strings.Contains(line, ":") || strings.HasPrefix(line, "=") {
			continue
		}

		key, value, _ := strings.Cut(line, ":")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)

		for _, rule := range fieldRules {
			if strings.Contains(key, rule.marker) {
				rule.set(rec, value)
				break
			}
		}
	}

	return rec
}

// setGPS keeps the raw text and extracts coordinates when the value
// contains a comma-separated numeric pair.
func setGPS(rec *model.ParsedRecord, value string) {
	rec.GPSLocation = value
	m := gpsPattern.FindStringSubmatch(value)
	if m == nil {
		return
	}
	lat, errLat := strconv.ParseFloat(m[1], 64)
	lon, errLon := strconv.ParseFloat(m[2], 64)
	if errLat != nil || errLon != nil {
		return
	}
	rec.Latitude = &lat
	rec.Longitude = &lon
}

// setCores parses the core count as an integer, keeping the raw text when
// the value is not a clean integer.
func setCores(rec *model.ParsedRecord, value string) {
	if n, err := strconv.Atoi(value); err == nil {
		rec.CPUCores = model.Int(n)
		return
	}
	rec.CPUCores = model.RawInt(value)
}

// extractFloat parses the first digits-and-dot run in the value as a float.
// When no number can be extracted the raw text is preserved so the field is
// never silently dropped.
func extractFloat(value string) model.FlexFloat {
	if m := numberPattern.FindString(value); m != "" {
		if v, err := strconv.ParseFloat(m, 64); err == nil {
			return model.Float(v)
		}
	}
	if value == "" {
		return model.FlexFloat{}
	}
	return model.RawFloat(value)
}
