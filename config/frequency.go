package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Frequency is a predefined auto-update interval.
type Frequency int

// Frequency constants. FrequencyCustom uses the custom seconds preference.
const (
	Frequency1Minute Frequency = iota
	Frequency5Minutes
	Frequency15Minutes
	Frequency30Minutes
	FrequencyHourly
	FrequencyCustom
)

// DefaultCustomIntervalSeconds is used when the custom interval is missing or invalid.
const DefaultCustomIntervalSeconds = 300

// FrequencyDurations maps a predefined Frequency to its time.Duration.
var FrequencyDurations = map[Frequency]time.Duration{
	Frequency1Minute:   time.Minute,
	Frequency5Minutes:  5 * time.Minute,
	Frequency15Minutes: 15 * time.Minute,
	Frequency30Minutes: 30 * time.Minute,
	FrequencyHourly:    time.Hour,
}

// String returns the display name of a Frequency.
func (f Frequency) String() string {
	switch f {
	case Frequency1Minute:
		return "Every Minute"
	case Frequency5Minutes:
		return "Every 5 Minutes"
	case Frequency15Minutes:
		return "Every 15 Minutes"
	case Frequency30Minutes:
		return "Every 30 Minutes"
	case FrequencyHourly:
		return "Hourly"
	case FrequencyCustom:
		return "Custom..."
	default:
		return "Unknown"
	}
}

// Duration returns the interval of f. customSeconds is only consulted for FrequencyCustom.
func (f Frequency) Duration(customSeconds int) time.Duration {
	if f == FrequencyCustom {
		if customSeconds <= 0 {
			customSeconds = DefaultCustomIntervalSeconds
		}
		return time.Duration(customSeconds) * time.Second
	}
	if d, ok := FrequencyDurations[f]; ok {
		return d
	}
	return FrequencyDurations[Frequency5Minutes]
}

// GetFrequencies returns all selectable frequencies AS fmt.Stringer.
func GetFrequencies() []fmt.Stringer {
	frequencies := []Frequency{
		Frequency1Minute,
		Frequency5Minutes,
		Frequency15Minutes,
		Frequency30Minutes,
		FrequencyHourly,
		FrequencyCustom,
	}
	stringers := make([]fmt.Stringer, len(frequencies))
	for i, f := range frequencies {
		stringers[i] = f
	}
	return stringers
}

// ParseCustomSeconds parses user input for the custom interval.
// Anything that is not a positive integer falls back to DefaultCustomIntervalSeconds.
func ParseCustomSeconds(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n <= 0 {
		return DefaultCustomIntervalSeconds
	}
	return n
}
