// Package safecast implements functions to safely cast types to avoid panics
package safecast

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cast"
)

// ParseNat parses a non-negative decimal string as returned by the node for balances,
// counters and Micheline integers.
func ParseNat(value string) (uint64, error) {
	if value == "" {
		return 0, fmt.Errorf("empty natural number")
	}
	if strings.TrimLeft(value, "0123456789") != "" {
		return 0, fmt.Errorf("invalid natural number %q", value)
	}
	// cast parses with base prefixes, so leading zeros would read as octal
	value = strings.TrimLeft(value, "0")
	if value == "" {
		return 0, nil
	}

	n, err := cast.ToInt64E(value)
	if err != nil {
		return 0, fmt.Errorf("natural number %q exceeds int64 range", value)
	}

	return Int64ToUint64(n)
}

// IntToUint32 safely converts an int to uint32 using cast and checks for overflow
func IntToUint32(value int) (uint32, error) {
	if value < 0 || value > math.MaxUint32 {
		return 0, fmt.Errorf("value %d exceeds uint32 range", value)
	}

	return cast.ToUint32E(value)
}

// Uint64ToInt64 safely converts a uint64 to int64 using cast and checks for overflow
func Uint64ToInt64(value uint64) (int64, error) {
	if value > math.MaxInt64 {
		return 0, fmt.Errorf("value %d exceeds int64 range", value)
	}

	return cast.ToInt64E(value)
}

// Int64ToUint64 safely converts an int64 to uint64 using cast and checks for overflow
func Int64ToUint64(value int64) (uint64, error) {
	if value < 0 {
		return 0, fmt.Errorf("value %d is negative, cannot convert to uint64", value)
	}

	return cast.ToUint64E(value)
}
