package config

import (
	"fmt"
	"time"

	"github.com/docker/go-units"
)

// Size is a byte count written as a human-readable string ("4MB", "16MiB").
// Units are binary: 1MB is 1024*1024 bytes.
type Size int64

// Bytes returns the size as a plain byte count.
func (s Size) Bytes() int64 { return int64(s) }

// UnmarshalText parses a human-readable size.
func (s *Size) UnmarshalText(text []byte) error {
	n, err := units.RAMInBytes(string(text))
	if err != nil {
		return fmt.Errorf("invalid size %q: %w", text, err)
	}
	*s = Size(n)
	return nil
}

// MarshalText renders the size in binary units.
func (s Size) MarshalText() ([]byte, error) {
	return []byte(units.BytesSize(float64(s))), nil
}

func (s Size) String() string {
	return units.BytesSize(float64(s))
}

// Duration is a time.Duration written as a Go duration string ("15m").
type Duration time.Duration

// Std returns the standard library duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText renders the duration as a Go duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}
