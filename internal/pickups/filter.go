package pickups

import "time"

// FilterByDate returns the records whose calendar date equals date's, in source order.
// The input slice is never modified.
func FilterByDate(records []Record, date time.Time) []Record {
	y, m, d := date.Date()
	out := make([]Record, 0)
	for _, r := range records {
		ry, rm, rd := r.Timestamp.Date()
		if ry == y && rm == m && rd == d {
			out = append(out, r)
		}
	}
	return out
}

// FilterByHour returns the records picked up during hour (0-23), in source order.
func FilterByHour(records []Record, hour int) []Record {
	out := make([]Record, 0)
	for _, r := range records {
		if r.Hour() == hour {
			out = append(out, r)
		}
	}
	return out
}

// HourHistogram counts records per hour of day. The bins always sum to len(records).
func HourHistogram(records []Record) [24]int {
	var bins [24]int
	for _, r := range records {
		bins[r.Hour()]++
	}
	return bins
}

// DateRange returns the earliest and latest calendar dates present in records.
func DateRange(records []Record) (min, max time.Time, ok bool) {
	if len(records) == 0 {
		return time.Time{}, time.Time{}, false
	}
	min, max = records[0].Date(), records[0].Date()
	for _, r := range records[1:] {
		d := r.Date()
		if d.Before(min) {
			min = d
		}
		if d.After(max) {
			max = d
		}
	}
	return min, max, true
}
