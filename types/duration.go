package types

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration wraps time.Duration so that timeouts can be written in the config file either as
// a duration string ("90s") or as a number of seconds (90).
type Duration struct {
	time.Duration
}

// NewDuration wraps a time.Duration with a Duration.
func NewDuration(d time.Duration) Duration {
	return Duration{Duration: d}
}

// ParseDuration parses a duration string in the time.Duration format.
func ParseDuration(s string) (Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return Duration{}, err
	}

	return NewDuration(d), nil
}

// MustParseDuration parses a duration string in the time.Duration format.
// Panics if the string is invalid.
//
// Useful for tests, but should be avoided in production code.
func MustParseDuration(s string) Duration {
	d, err := ParseDuration(s)
	if err != nil {
		panic(err)
	}

	return d
}

// OrDefault returns the wrapped duration, or def when the duration is not positive.
func (d Duration) OrDefault(def time.Duration) time.Duration {
	if d.Duration <= 0 {
		return def
	}

	return d.Duration
}

// String returns a string representing the duration in the form "72h3m0.5s".
func (d Duration) String() string {
	return d.Duration.String()
}

// MarshalJSON marshals the duration into JSON bytes and implements the json.Marshaler interface.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON unmarshals the duration from JSON bytes and implements the json.Unmarshaler
// interface. Numbers are read as seconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case string:
		var err error
		if d.Duration, err = time.ParseDuration(value); err != nil {
			return err
		}

		return nil
	case float64:
		if value < 0 {
			return fmt.Errorf("negative duration: %v", value)
		}
		d.Duration = time.Duration(value * float64(time.Second))

		return nil
	default:
		return fmt.Errorf("invalid duration type: %T", v)
	}
}
