// Package timecode converts between seconds and the MM:SS textual form
// used by paragraph time tags.
package timecode

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
)

// ErrFormat is returned by Decode when the input is not a valid MM:SS string.
var ErrFormat = errors.New("timecode: invalid MM:SS format")

// Minutes are zero-padded to at least two digits but never clamped, so
// recordings longer than 99 minutes produce tags like "125:30".
var timecodeRe = regexp.MustCompile(`^(\d{2,}):(\d{2})$`)

// Encode renders a duration in seconds as MM:SS. Sub-second precision is
// truncated, not rounded.
func Encode(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	mins := int(math.Floor(seconds / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	return fmt.Sprintf("%02d:%02d", mins, secs)
}

// Decode parses an MM:SS string back into seconds. Both groups must be
// non-negative integers and the seconds group exactly two digits.
func Decode(s string) (float64, error) {
	m := timecodeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	mins, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	secs, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrFormat, s)
	}
	return float64(mins*60 + secs), nil
}
