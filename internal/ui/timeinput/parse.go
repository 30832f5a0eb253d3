package timeinput

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var errEmpty = errors.New("enter a time")

// Parse reads a time offset typed by the user. Accepted forms are
// colon-separated timecodes ("1:02:03.5", "2:30", "45.25") and Go duration
// strings ("1m30s", "1500ms").
func Parse(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errEmpty
	}
	if strings.ContainsAny(s, "hmsuµn") {
		d, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("invalid duration %q", s)
		}
		return d, nil
	}

	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timecode %q", s)
	}
	secs, err := strconv.ParseFloat(parts[len(parts)-1], 64)
	if err != nil || secs < 0 || (len(parts) > 1 && secs >= 60) {
		return 0, fmt.Errorf("invalid seconds in %q", s)
	}
	total := time.Duration(secs * float64(time.Second))

	unit := time.Minute
	for i := len(parts) - 2; i >= 0; i-- {
		n, err := strconv.Atoi(parts[i])
		if err != nil || n < 0 || (i > 0 && n >= 60) {
			return 0, fmt.Errorf("invalid timecode %q", s)
		}
		total += time.Duration(n) * unit
		unit *= 60
	}
	return total.Round(time.Millisecond), nil
}
