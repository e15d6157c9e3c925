// Package formatting parses and formats the loosely structured values that
// cross configuration and model boundaries: byte sizes and JSON responses.
package formatting

import (
	"fmt"
	"math"
	"math/bits"
	"regexp"
	"strconv"
	"strings"
)

var units = [...]string{"B", "KB", "MB", "GB", "TB", "PB", "EB"}

// shifts maps each accepted suffix to its power of 1024. KiB style suffixes
// and single letters are accepted alongside KB.
var shifts = func() map[string]int {
	m := map[string]int{"": 0, "B": 0}
	for i, u := range units[1:] {
		p := u[:1]
		m[u] = i + 1
		m[p] = i + 1
		m[p+"IB"] = i + 1
	}
	return m
}()

var bytesPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*([A-Za-z]*)$`)

// FormatBytes renders n with base-1024 units. Negative precision is treated
// as zero.
func FormatBytes(n int64, precision int) string {
	precision = max(precision, 0)
	if n < 1024 && n > -1024 {
		return strconv.FormatInt(n, 10) + " B"
	}

	abs := uint64(n)
	if n < 0 {
		abs = uint64(-n)
	}
	i := min((63-bits.LeadingZeros64(abs))/10, len(units)-1)
	size := float64(n) / float64(uint64(1)<<(10*i))

	return strconv.FormatFloat(size, 'f', precision, 64) + " " + units[i]
}

// ParseBytes parses sizes such as "50MB", "1.5 GiB", "512k" or "2048".
// A bare number is bytes.
func ParseBytes(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty byte size")
	}

	m := bytesPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid byte size %q", s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid byte size %q: %w", s, err)
	}

	shift, ok := shifts[strings.ToUpper(m[2])]
	if !ok {
		return 0, fmt.Errorf("unknown byte size unit %q", m[2])
	}

	size := value * math.Pow(1024, float64(shift))
	if size > math.MaxInt64 {
		return 0, fmt.Errorf("byte size %q overflows", s)
	}
	return int64(size), nil
}
