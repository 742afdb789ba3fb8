package capture

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	dateRe = regexp.MustCompile(`^(\d{4})[-/](\d{1,2})[-/](\d{1,2})$`)
	timeRe = regexp.MustCompile(`^(\d{1,2})[:.](\d{2})\s*([aApP][mM])?$`)
)

// ParseDate accepts YYYY-M-D or YYYY/M/D and rejects anything else,
// including dates that don't exist on the calendar.
func ParseDate(text string) (time.Time, bool) {
	m := dateRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return time.Time{}, false
	}
	year, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	day, _ := strconv.Atoi(m[3])
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return time.Time{}, false
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (e.g. Feb 30 -> Mar 2), which here means
	// the input wasn't a real date.
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, false
	}
	return d, true
}

// ParseTime accepts H:MM or H.MM with an optional am/pm suffix and returns
// the 24-hour "HH:MM" form.
func ParseTime(text string) (string, bool) {
	m := timeRe.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return "", false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if minute > 59 {
		return "", false
	}
	switch strings.ToLower(m[3]) {
	case "am":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 1 || hour > 12 {
			return "", false
		}
		if hour != 12 {
			hour += 12
		}
	default:
		if hour > 23 {
			return "", false
		}
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), true
}

// ParseYesNo maps common affirmative and negative replies to a bool. The
// second return is false when the text matches neither.
func ParseYesNo(text string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "y", "yes", "yeah", "yup", "true":
		return true, true
	case "n", "no", "nope", "false":
		return false, true
	}
	return false, false
}

// MatchChoice matches trimmed input case-insensitively against the keys and
// titles of a choice set and returns the canonical key.
func MatchChoice(text string, choices map[string]string) (string, bool) {
	needle := strings.ToLower(strings.TrimSpace(text))
	if needle == "" {
		return "", false
	}
	for key, title := range choices {
		if needle == strings.ToLower(key) || needle == strings.ToLower(title) {
			return key, true
		}
	}
	return "", false
}

// OptionalText implements the three-state convention for optional fields:
// empty input means unanswered (nil), a skip word means explicitly skipped
// (""), anything else is the answer verbatim.
func OptionalText(text string) *string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}
	switch strings.ToLower(trimmed) {
	case "skip", "none", "na":
		empty := ""
		return &empty
	}
	return &trimmed
}
