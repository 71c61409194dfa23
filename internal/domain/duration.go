package domain

import (
	"fmt"
	"regexp"
	"strconv"
)

// UnknownDuration is displayed when a video's duration could not be parsed.
const UnknownDuration = "Unknown"

var isoDurationPattern = regexp.MustCompile(`^PT(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?`)

// ParseISODuration parses a PT#H#M#S duration into seconds.
// Day or week designators are not supported and report ok=false.
func ParseISODuration(s string) (seconds int, ok bool) {
	m := isoDurationPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}

	hours, _ := atoiOrZero(m[1])
	minutes, _ := atoiOrZero(m[2])
	secs, _ := atoiOrZero(m[3])

	return hours*3600 + minutes*60 + secs, true
}

// FormatDuration renders seconds as HH:MM:SS, or MM:SS below one hour.
func FormatDuration(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}

	return fmt.Sprintf("%02d:%02d", m, s)
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}

	return strconv.Atoi(s)
}
