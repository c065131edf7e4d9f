package extract

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDuration = regexp.MustCompile(`(?i)^P(?:(\d+(?:\.\d+)?)D)?(?:T(?:(\d+(?:\.\d+)?)H)?(?:(\d+(?:\.\d+)?)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)
	textHours   = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:hours?|hrs?|h)\b`)
	textMinutes = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:minutes?|mins?|m)\b`)
	firstInt    = regexp.MustCompile(`\d+`)
)

// parseDuration reads an ISO-8601 duration ("PT1H30M") or a simple English
// one ("1 hour 30 minutes", "45 mins").
func parseDuration(s string) (time.Duration, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if m := isoDuration.FindStringSubmatch(s); m != nil && s != "P" && !strings.EqualFold(s, "PT") {
		d := scale(m[1], 24*time.Hour) + scale(m[2], time.Hour) + scale(m[3], time.Minute) + scale(m[4], time.Second)
		return d, true
	}

	var d time.Duration
	found := false
	if m := textHours.FindStringSubmatch(s); m != nil {
		d += scale(m[1], time.Hour)
		found = true
	}
	if m := textMinutes.FindStringSubmatch(s); m != nil {
		d += scale(m[1], time.Minute)
		found = true
	}
	return d, found
}

func scale(num string, unit time.Duration) time.Duration {
	if num == "" {
		return 0
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	return time.Duration(f * float64(unit))
}

// minutes rounds d to whole minutes.
func minutes(d time.Duration) int {
	return int(d.Round(time.Minute) / time.Minute)
}

// leadingInt returns the first integer found in s.
func leadingInt(s string) (int, bool) {
	m := firstInt.FindString(s)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	return n, err == nil
}
