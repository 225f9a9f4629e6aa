package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Reading is a single timestamped sensor measurement.
type Reading struct {
	Value     float64   `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// Sensor is a measurement device attached to a resource or location.
type Sensor struct {
	// ID is the unique identifier.
	ID string

	// Name is the sensor's display name.
	Name string

	// SensorType describes what is measured, e.g. "temperature".
	SensorType string

	// Unit is the measurement unit, e.g. "celsius".
	Unit string

	// RangeMin and RangeMax bound the measurable range. Readings are
	// recorded as-is; out-of-range values only log a warning. Both
	// zero means unbounded.
	RangeMin float64
	RangeMax float64

	// Accuracy is the measurement tolerance in the sensor's unit.
	Accuracy float64

	// SamplingRate is the nominal readings-per-hour rate.
	SamplingRate float64

	// AlertLow and AlertHigh are the alert thresholds. Both zero
	// disables alerting.
	AlertLow  float64
	AlertHigh float64

	readings []Reading
	maxKeep  int
	log      zerolog.Logger
}

// NewSensor creates a sensor that retains the most recent maxKeep
// readings.
func NewSensor(name, sensorType, unit string, maxKeep int, log zerolog.Logger) (*Sensor, error) {
	if name == "" || sensorType == "" {
		return nil, fmt.Errorf("sensor name and type are required")
	}
	if maxKeep < 1 {
		return nil, fmt.Errorf("sensor must retain at least one reading")
	}
	return &Sensor{
		ID:         uuid.New().String(),
		Name:       name,
		SensorType: sensorType,
		Unit:       unit,
		maxKeep:    maxKeep,
		log:        log,
	}, nil
}

// Record appends a reading, evicting the oldest once the retention
// limit is reached. Out-of-range and alerting values are logged but
// still retained.
func (s *Sensor) Record(value float64) {
	if !s.InRange(value) {
		s.log.Warn().Str("sensor_id", s.ID).Str("name", s.Name).
			Float64("value", value).
			Float64("range_min", s.RangeMin).Float64("range_max", s.RangeMax).
			Msg("reading outside measurement range")
	} else if s.Alerting(value) {
		s.log.Warn().Str("sensor_id", s.ID).Str("name", s.Name).
			Float64("value", value).
			Float64("alert_low", s.AlertLow).Float64("alert_high", s.AlertHigh).
			Msg("reading crossed alert threshold")
	}
	s.readings = append(s.readings, Reading{Value: value, Timestamp: time.Now()})
	if len(s.readings) > s.maxKeep {
		s.readings = s.readings[len(s.readings)-s.maxKeep:]
	}
}

// InRange reports whether a value lies in the measurable range. An
// unset range accepts everything.
func (s *Sensor) InRange(value float64) bool {
	if s.RangeMin == 0 && s.RangeMax == 0 {
		return true
	}
	return value >= s.RangeMin && value <= s.RangeMax
}

// Alerting reports whether a value crosses an alert threshold. Unset
// thresholds never alert.
func (s *Sensor) Alerting(value float64) bool {
	if s.AlertLow == 0 && s.AlertHigh == 0 {
		return false
	}
	return value < s.AlertLow || value > s.AlertHigh
}

// Latest returns the most recent reading.
func (s *Sensor) Latest() (Reading, bool) {
	if len(s.readings) == 0 {
		return Reading{}, false
	}
	return s.readings[len(s.readings)-1], true
}

// Readings returns a copy of the retained readings, oldest first.
func (s *Sensor) Readings() []Reading {
	return append([]Reading(nil), s.readings...)
}

// Average returns the mean of the retained readings, or 0 when empty.
func (s *Sensor) Average() float64 {
	if len(s.readings) == 0 {
		return 0
	}
	var sum float64
	for _, r := range s.readings {
		sum += r.Value
	}
	return sum / float64(len(s.readings))
}
