// Package observation fetches point observations from weather station feeds
// published as GeoJSON and turns them into classified points.
package observation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"raster-points/internal/binning"
	"raster-points/internal/points"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// ErrFeed is wrapped by every error returned while fetching or parsing a feed.
var ErrFeed = errors.New("observation: feed error")

// DateLayout is the day-month-year form used for query dates on the command line.
const DateLayout = "02-01-2006"

// Observation is a single station reading. Value is nil when the station
// reported nothing usable for the requested field.
type Observation struct {
	Location orb.Point
	Value    *float64
}

// Lon returns the station longitude.
func (o Observation) Lon() float64 { return o.Location.Lon() }

// Lat returns the station latitude.
func (o Observation) Lat() float64 { return o.Location.Lat() }

// Query selects one element at one hour of one day.
type Query struct {
	Element string    // Observed element, e.g. "dry_bulb"
	Field   string    // Key under properties.primary holding the value, e.g. "dt"
	Date    time.Time // Only the calendar date is used
	Hour    int       // 0-23
}

// DefaultQuery returns the dry-bulb temperature query used for the
// temperature point sets.
func DefaultQuery() Query {
	return Query{
		Element: "dry_bulb",
		Field:   "dt",
		Date:    time.Date(2024, time.June, 2, 0, 0, 0, 0, time.UTC),
		Hour:    20,
	}
}

// Validate checks the query fields.
func (q Query) Validate() error {
	if q.Element == "" {
		return fmt.Errorf("%w: empty element", ErrFeed)
	}
	if q.Field == "" {
		return fmt.Errorf("%w: empty field", ErrFeed)
	}
	if q.Hour < 0 || q.Hour > 23 {
		return fmt.Errorf("%w: hour %d out of range", ErrFeed, q.Hour)
	}
	return nil
}

// Feed is a source of station observations.
type Feed interface {
	Fetch(ctx context.Context, q Query) ([]Observation, error)
}

// Parse decodes a GeoJSON FeatureCollection and reads each feature's value
// from properties.primary[field]. Features without a point geometry are
// skipped. Missing, null, non-numeric or non-finite values give a nil Value.
func Parse(data []byte, field string) ([]Observation, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feature collection: %w: %w", ErrFeed, err)
	}

	out := make([]Observation, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		pt, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		out = append(out, Observation{
			Location: pt,
			Value:    primaryValue(f.Properties, field),
		})
	}
	return out, nil
}

func primaryValue(props geojson.Properties, field string) *float64 {
	var primary map[string]interface{}
	switch p := props["primary"].(type) {
	case map[string]interface{}:
		primary = p
	case geojson.Properties:
		primary = p
	default:
		return nil
	}

	var v float64
	switch raw := primary[field].(type) {
	case float64:
		v = raw
	case string:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil
		}
		v = f
	default:
		return nil
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// ToPoints bins each observation's value with table. Observations without a
// value are dropped first, then those whose value falls in no bin. X is the
// longitude and Y the latitude.
func ToPoints(obs []Observation, table binning.Table) []points.Record {
	out := make([]points.Record, 0, len(obs))
	for _, o := range obs {
		if o.Value == nil {
			continue
		}
		class, ok := table.Index(*o.Value)
		if !ok {
			continue
		}
		out = append(out, points.Record{X: o.Lon(), Y: o.Lat(), Class: class})
	}
	return out
}
