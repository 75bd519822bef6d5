package pickups

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownColumn is returned when a column is requested that the dataset does not have.
var ErrUnknownColumn = errors.New("unknown column")

// ValueCount is the number of rows holding a given value of a column.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Raw returns the header followed by up to limit rows of the normalized table
// (limit <= 0 returns every row).
func (d *Dataset) Raw(limit int) [][]string {
	header := append([]string(nil), d.Columns...)
	n := d.frame.Nrow()
	if n == 0 {
		return [][]string{header}
	}
	if limit <= 0 || limit >= n {
		return d.frame.Records()
	}

	idx := make([]int, limit)
	for i := range idx {
		idx[i] = i
	}
	return d.frame.Subset(idx).Records()
}

// ValueCounts tallies the distinct values of column, most frequent first (ties by value).
// At most limit entries are returned when limit > 0.
func (d *Dataset) ValueCounts(column string, limit int) ([]ValueCount, error) {
	column = normalizeColumn(column)
	if !containsColumn(d.Columns, column) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, column)
	}
	if d.frame.Nrow() == 0 {
		return nil, nil
	}

	col := d.frame.Col(column)
	if col.Err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnknownColumn, col.Err)
	}
	counts := make(map[string]int)
	for _, v := range col.Records() {
		counts[v]++
	}

	out := make([]ValueCount, 0, len(counts))
	for v, c := range counts {
		out = append(out, ValueCount{Value: v, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Value < out[j].Value
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
