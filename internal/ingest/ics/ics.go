// Package ics parses iCalendar feeds into event listings. Venue and
// festival calendars are the most common machine-readable source of
// cultural events, so the ingestion path accepts .ics files next to the
// native JSON corpus format.
package ics

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/culturo-labs/culturo-cli/internal/core/domain"
)

// dtstartLayouts are the date-time shapes RFC 5545 allows for DTSTART.
var dtstartLayouts = []string{
	"20060102T150405Z",
	"20060102T150405",
	"20060102",
}

// Parse extracts the VEVENT components of an iCalendar document as raw
// events. Events without a summary or a parseable DTSTART are skipped;
// the caller's chunking stage counts and reports malformed records, so
// parsing is deliberately lenient.
func Parse(data []byte) ([]domain.RawEvent, error) {
	lines := unfold(string(data))

	var events []domain.RawEvent
	var cur *domain.RawEvent
	inCalendar := false

	for _, line := range lines {
		name, value := splitProperty(line)

		switch name {
		case "BEGIN":
			switch value {
			case "VCALENDAR":
				inCalendar = true
			case "VEVENT":
				cur = &domain.RawEvent{}
			}
		case "END":
			if value == "VEVENT" && cur != nil {
				if cur.ID == "" {
					cur.ID = syntheticID(*cur)
				}
				events = append(events, *cur)
				cur = nil
			}
		}

		if cur == nil {
			continue
		}

		switch name {
		case "UID":
			cur.ID = value
		case "SUMMARY":
			cur.Title = unescape(value)
		case "DESCRIPTION":
			cur.Description = unescape(value)
		case "LOCATION":
			cur.Location = unescape(value)
		case "CATEGORIES":
			// Multiple categories may be listed; the first one maps onto
			// the single category field.
			if first, _, _ := strings.Cut(value, ","); first != "" {
				cur.Category = strings.ToLower(strings.TrimSpace(unescape(first)))
			}
		case "URL":
			cur.URL = value
		case "DTSTART":
			if t, ok := parseDate(value); ok {
				cur.Date = t
			}
		}
	}

	if !inCalendar {
		return nil, fmt.Errorf("%w: not an iCalendar document", domain.ErrMalformedRecord)
	}
	return events, nil
}

// unfold joins RFC 5545 folded lines: a line starting with a space or
// tab continues the previous one.
func unfold(s string) []string {
	raw := strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	var lines []string
	for _, l := range raw {
		if (strings.HasPrefix(l, " ") || strings.HasPrefix(l, "\t")) && len(lines) > 0 {
			lines[len(lines)-1] += l[1:]
			continue
		}
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// splitProperty separates a content line into its name and value,
// dropping any parameters (NAME;PARAM=X:VALUE).
func splitProperty(line string) (string, string) {
	name, value, ok := strings.Cut(line, ":")
	if !ok {
		return strings.ToUpper(line), ""
	}
	if semi, _, found := strings.Cut(name, ";"); found {
		name = semi
	}
	return strings.ToUpper(name), value
}

func parseDate(value string) (time.Time, bool) {
	for _, layout := range dtstartLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// unescape reverses RFC 5545 text escaping.
func unescape(s string) string {
	r := strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`)
	return r.Replace(s)
}

// syntheticID derives a stable ID for events whose feed omits a UID, so
// re-ingesting the same feed upserts instead of duplicating.
func syntheticID(ev domain.RawEvent) string {
	seed := "culturo:ics:" + ev.Title + "#" + ev.Date.Format(time.RFC3339)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()
}
