// Package store holds the client records known to the terminal client.
//
// A Store is an immutable value: every operation returns a new Store and
// leaves the receiver untouched. Records are replaced wholesale, never
// edited in place.
package store

import "vertex-crm/models"

type Store struct {
	records []models.Client
}

// New builds a store from records, keeping at most one entry per identifier.
func New(records []models.Client) Store {
	return Store{}.ReplaceAll(records)
}

// Records returns a copy of the records in store order.
func (s Store) Records() []models.Client {
	out := make([]models.Client, len(s.records))
	copy(out, s.records)
	return out
}

func (s Store) Len() int {
	return len(s.records)
}

func (s Store) Get(id string) (models.Client, bool) {
	if i := s.index(id); i >= 0 {
		return s.records[i], true
	}
	return models.Client{}, false
}

// ReplaceAll swaps in a fresh server snapshot. A repeated identifier keeps
// the position of its first occurrence and the value of its last.
func (s Store) ReplaceAll(records []models.Client) Store {
	out := make([]models.Client, 0, len(records))
	seen := make(map[string]int, len(records))
	for _, record := range records {
		if record.ID != "" {
			if i, ok := seen[record.ID]; ok {
				out[i] = record
				continue
			}
			seen[record.ID] = len(out)
		}
		out = append(out, record)
	}
	return Store{records: out}
}

// Append adds a newly created record at the end. If the identifier is
// already present the existing entry is replaced instead.
func (s Store) Append(record models.Client) Store {
	if s.index(record.ID) >= 0 {
		return s.ReplaceByID(record)
	}
	out := make([]models.Client, len(s.records), len(s.records)+1)
	copy(out, s.records)
	return Store{records: append(out, record)}
}

// ReplaceByID swaps the entry with record.ID. Unknown identifiers are a no-op.
func (s Store) ReplaceByID(record models.Client) Store {
	i := s.index(record.ID)
	if i < 0 {
		return s
	}
	out := s.Records()
	out[i] = record
	return Store{records: out}
}

// RemoveByID drops the entry with id. Unknown identifiers are a no-op.
func (s Store) RemoveByID(id string) Store {
	i := s.index(id)
	if i < 0 {
		return s
	}
	out := make([]models.Client, 0, len(s.records)-1)
	out = append(out, s.records[:i]...)
	out = append(out, s.records[i+1:]...)
	return Store{records: out}
}

func (s Store) index(id string) int {
	if id == "" {
		return -1
	}
	for i, record := range s.records {
		if record.ID == id {
			return i
		}
	}
	return -1
}
