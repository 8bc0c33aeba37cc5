package feasibility

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
)

// RateSchedule is a sparse year-indexed series of decimal rates. It is a
// tagged value: either a single uniform rate, a per-year mapping, or empty.
// A uniform rate behaves exactly like the mapping {1: rate}.
type RateSchedule struct {
	uniform *float64
	perYear map[int]float64
}

// UniformRate builds a schedule that applies one rate across all years.
func UniformRate(rate float64) RateSchedule {
	return RateSchedule{uniform: &rate}
}

// PerYearRates builds a schedule from a sparse year to rate mapping.
// Keys need not be contiguous; non-positive years are dropped.
func PerYearRates(rates map[int]float64) RateSchedule {
	cleaned := make(map[int]float64, len(rates))
	for year, rate := range rates {
		if year > 0 {
			cleaned[year] = rate
		}
	}
	return RateSchedule{perYear: cleaned}
}

// IsZero reports whether the schedule carries no entries at all.
func (s RateSchedule) IsZero() bool {
	return s.uniform == nil && len(s.perYear) == 0
}

// entries returns the effective sparse mapping of the schedule.
func (s RateSchedule) entries() map[int]float64 {
	if s.uniform != nil {
		return map[int]float64{1: *s.uniform}
	}
	return s.perYear
}

// Densify fills the schedule into a dense table covering years 1..horizon.
// The returned slice has horizon+1 entries; index 0 is unused and left zero.
//
// Rules per year y:
//   - a defined year is used verbatim
//   - years below the first defined year extrapolate flat backward
//   - years above the last defined year extrapolate flat forward
//   - years between two defined years interpolate linearly
//
// Defined years beyond the horizon are ignored. An empty schedule, or one
// whose keys all lie beyond the horizon, yields fallback for every year.
func (s RateSchedule) Densify(horizon int, fallback float64) []float64 {
	dense := make([]float64, horizon+1)
	if horizon < 1 {
		return dense
	}

	rates := s.entries()
	defined := make([]int, 0, len(rates))
	for year := range rates {
		if year >= 1 && year <= horizon {
			defined = append(defined, year)
		}
	}
	if len(defined) == 0 {
		for year := 1; year <= horizon; year++ {
			dense[year] = fallback
		}
		return dense
	}
	sort.Ints(defined)

	for year := 1; year <= horizon; year++ {
		if rate, ok := rates[year]; ok {
			dense[year] = rate
			continue
		}
		lower, upper := surrounding(defined, year)
		switch {
		case lower == 0:
			dense[year] = rates[upper]
		case upper == 0:
			dense[year] = rates[lower]
		default:
			lowerRate := rates[lower]
			upperRate := rates[upper]
			ratio := float64(year-lower) / float64(upper-lower)
			dense[year] = lowerRate + (upperRate-lowerRate)*ratio
		}
	}
	return dense
}

// surrounding finds the nearest defined years below and above year.
// A zero return means no such neighbour exists.
func surrounding(defined []int, year int) (lower, upper int) {
	for _, d := range defined {
		if d < year {
			lower = d
		} else if d > year {
			upper = d
			break
		}
	}
	return lower, upper
}

// MarshalJSON encodes a uniform schedule as a bare number and a per-year
// schedule as an object of year to rate.
func (s RateSchedule) MarshalJSON() ([]byte, error) {
	if s.uniform != nil {
		return json.Marshal(*s.uniform)
	}
	if len(s.perYear) == 0 {
		return []byte("{}"), nil
	}
	out := make(map[string]float64, len(s.perYear))
	for year, rate := range s.perYear {
		out[strconv.Itoa(year)] = rate
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts either a bare number (uniform rate) or an object of
// year to rate. Any other shape, a non-integer year key, or a non-finite
// rate is rejected; malformed input never degrades into a silent default.
func (s *RateSchedule) UnmarshalJSON(data []byte) error {
	var scalar float64
	if err := json.Unmarshal(data, &scalar); err == nil {
		if math.IsNaN(scalar) || math.IsInf(scalar, 0) {
			return fmt.Errorf("%w: non-finite rate", ErrInvalidSchedule)
		}
		*s = UniformRate(scalar)
		return nil
	}

	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: expected a number or a year-to-rate object", ErrInvalidSchedule)
	}
	rates := make(map[int]float64, len(raw))
	for key, rate := range raw {
		year, err := strconv.Atoi(key)
		if err != nil || year < 1 {
			return fmt.Errorf("%w: year key %q", ErrInvalidSchedule, key)
		}
		if math.IsNaN(rate) || math.IsInf(rate, 0) {
			return fmt.Errorf("%w: non-finite rate at year %d", ErrInvalidSchedule, year)
		}
		rates[year] = rate
	}
	*s = RateSchedule{perYear: rates}
	return nil
}
