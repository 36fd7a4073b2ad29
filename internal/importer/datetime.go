package importer

import (
	"regexp"
	"strings"
	"time"
)

const months = `january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec`

// datePatterns mirror the formats seen in the group: "15th june",
// "june 15", "on the 21st" (month implied by the posting date) and
// ranges like "5-7 june". A bare number never counts as a date, it is
// too easy to confuse with a time or a seat count.
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:on\s)?(\d{1,2})(?:st|nd|rd|th)(?:\s+of)?\s*(` + months + `)?\b`),
	regexp.MustCompile(`\b(?:on\s)?(` + months + `)\s*(\d{1,2})(?:st|nd|rd|th)?\b`),
	regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s*(?:-|to)\s*(\d{1,2})(?:st|nd|rd|th)?\s*(` + months + `)\b`),
	regexp.MustCompile(`\b(?:on\s)?(\d{1,2})\s*(` + months + `)\b`),
}

// timePatterns, tried in order: "6:30 pm" (with or without the space),
// "6 pm", bare 24-hour "18:00", then a time-of-day word.
var timePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(\d{1,2})[:.](\d{2})\s*(am|pm)\b`),
	regexp.MustCompile(`\b(\d{1,2})\s*(am|pm)\b`),
	regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`),
	regexp.MustCompile(`\b(morning|afternoon|evening|tonight|night)\b`),
}

// ExtractDateTime pulls a travel date and departure time out of a
// message. posted is the day the message appeared in the group; it
// supplies the month for dates like "the 14th" and anchors "today" and
// "tomorrow", which override any other date found. Either return may be
// empty when the message carries no usable value.
func ExtractDateTime(message string, posted time.Time) (rideDate, rideTime string) {
	msg := strings.ToLower(message)
	rideDate = extractDate(msg, posted)
	rideTime = extractTime(msg)

	switch {
	case strings.Contains(msg, "today"):
		rideDate = posted.Format("2006-01-02")
	case strings.Contains(msg, "tomorrow"):
		rideDate = posted.AddDate(0, 0, 1).Format("2006-01-02")
	}
	return rideDate, rideTime
}

func extractDate(msg string, posted time.Time) string {
	impliedMonth := strings.ToLower(posted.Month().String())
	for _, re := range datePatterns {
		m := re.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		parts := nonEmpty(m[1:])
		switch len(parts) {
		case 1:
			return parts[0] + " " + impliedMonth
		case 2:
			return parts[0] + " " + parts[1]
		case 3:
			return parts[0] + " to " + parts[1] + " " + parts[2]
		}
	}
	return ""
}

func extractTime(msg string) string {
	for _, re := range timePatterns {
		m := re.FindStringSubmatch(msg)
		if m == nil {
			continue
		}
		parts := nonEmpty(m[1:])
		switch {
		case len(parts) == 3:
			return parts[0] + ":" + parts[1] + " " + parts[2]
		case len(parts) == 2 && (parts[1] == "am" || parts[1] == "pm"):
			return parts[0] + " " + parts[1]
		case len(parts) == 2:
			return parts[0] + ":" + parts[1]
		default:
			return parts[0]
		}
	}
	return ""
}

func nonEmpty(groups []string) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		if g != "" {
			out = append(out, g)
		}
	}
	return out
}
