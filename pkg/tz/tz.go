package tz

import (
	"fmt"
	"time"
)

// Load returns the single wall-clock location event times are entered and
// rendered in. An empty name means the host's local zone.
func Load(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}
