package cls

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Published timestamps are naive site-local wall-clock readings; they are
// parsed in the process's local zone and never converted.
const (
	briefTimeLayout    = "2006年01月02日 15:04:05"
	longFormTimeLayout = "2006-01-02 15:04"
)

// weekdayCodes maps the localized weekday names to their numeric codes
// (Sunday = 0), matching time.Weekday.
var weekdayCodes = map[string]time.Weekday{
	"星期日": time.Sunday,
	"星期一": time.Monday,
	"星期二": time.Tuesday,
	"星期三": time.Wednesday,
	"星期四": time.Thursday,
	"星期五": time.Friday,
	"星期六": time.Saturday,
}

var weekdayPattern = regexp.MustCompile(`星期[一二三四五六日]`)

// ParseBriefTime parses a brief-article timestamp of the form
// "2025年03月12日 14:30:05" to second resolution.
func ParseBriefTime(raw string) (time.Time, error) {
	text := strings.TrimSpace(raw)
	t, err := time.ParseInLocation(briefTimeLayout, text, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable brief timestamp %q: %w", raw, err)
	}
	return t, nil
}

// ParseLongFormTime parses a long-form byline of the form
// "2025-03-12 14:30 星期三". The stated weekday must be consistent with
// the stated date; a mismatch fails the parse.
func ParseLongFormTime(raw string) (time.Time, error) {
	name := weekdayPattern.FindString(raw)
	if name == "" {
		return time.Time{}, fmt.Errorf("no weekday name in long-form timestamp %q", raw)
	}
	stated := weekdayCodes[name]

	rest := strings.Join(strings.Fields(weekdayPattern.ReplaceAllString(raw, " ")), " ")
	t, err := time.ParseInLocation(longFormTimeLayout, rest, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparseable long-form timestamp %q: %w", raw, err)
	}

	if t.Weekday() != stated {
		return time.Time{}, fmt.Errorf("weekday %s does not match date %s in %q",
			name, t.Format("2006-01-02"), raw)
	}
	return t, nil
}
