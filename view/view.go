// Package view derives the displayed client list from the store: status
// filter, then free-text search, then sort. Nothing here modifies its input.
package view

import (
	"sort"
	"strings"

	"vertex-crm/models"
)

// StatusAll disables the status filter.
const StatusAll = "all"

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

// SortConfig is the chosen sort column. An empty Key keeps filtered order.
type SortConfig struct {
	Key       models.FieldKey
	Direction Direction
}

// Toggle returns the config after a click on the header for key: the same
// column while ascending flips to descending, anything else sorts key
// ascending. Keys that are not sortable leave the config unchanged.
func (c SortConfig) Toggle(key models.FieldKey) SortConfig {
	field, ok := models.LookupField(key)
	if !ok || !field.Sortable {
		return c
	}
	if c.Key == key && c.Direction == Ascending {
		return SortConfig{Key: key, Direction: Descending}
	}
	return SortConfig{Key: key, Direction: Ascending}
}

type Query struct {
	Search string
	Status string
	Sort   SortConfig
}

// Apply runs the whole pipeline and returns a new slice.
func Apply(records []models.Client, query Query) []models.Client {
	out := FilterStatus(records, query.Status)
	out = FilterSearch(out, query.Search)
	return Sort(out, query.Sort)
}

func FilterStatus(records []models.Client, status string) []models.Client {
	out := make([]models.Client, 0, len(records))
	for _, record := range records {
		if status == "" || status == StatusAll || string(record.Status) == status {
			out = append(out, record)
		}
	}
	return out
}

// FilterSearch keeps records where any enumerated field, identifier
// included, contains term case-insensitively.
func FilterSearch(records []models.Client, term string) []models.Client {
	out := make([]models.Client, 0, len(records))
	needle := strings.ToLower(term)
	for _, record := range records {
		if Matches(record, needle) {
			out = append(out, record)
		}
	}
	return out
}

// Matches expects needle to be lower-cased already.
func Matches(record models.Client, needle string) bool {
	if needle == "" {
		return true
	}
	for _, field := range models.Fields {
		if strings.Contains(strings.ToLower(field.Value(record)), needle) {
			return true
		}
	}
	return false
}

// Sort orders records by the configured field's text. The sort is stable, so
// equal values stay in filtered order. Missing values are empty strings and
// come first ascending, last descending.
func Sort(records []models.Client, config SortConfig) []models.Client {
	out := make([]models.Client, len(records))
	copy(out, records)

	field, ok := models.LookupField(config.Key)
	if config.Key == "" || !ok {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := field.Value(out[i]), field.Value(out[j])
		if config.Direction == Descending {
			return a > b
		}
		return a < b
	})
	return out
}
