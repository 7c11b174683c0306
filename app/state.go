// Package app holds the terminal client's whole UI state as one immutable
// value, plus the reducers that move it forward. User events and gateway
// results are both folded in here and nowhere else.
package app

import (
	"vertex-crm/form"
	"vertex-crm/models"
	"vertex-crm/store"
	"vertex-crm/view"
)

type State struct {
	Store store.Store
	Query view.Query
	Form  form.Controller

	// PendingDelete is the identifier awaiting confirmation, if any.
	PendingDelete string

	// Notice is a one-line description of the last failure, cleared by the
	// next successful result.
	Notice string
}

func New() State {
	return State{Query: view.Query{Status: view.StatusAll}}
}

// Visible is the pipeline output for the current store and query.
func (s State) Visible() []models.Client {
	return view.Apply(s.Store.Records(), s.Query)
}

func (s State) SetSearch(term string) State {
	s.Query.Search = term
	return s
}

func (s State) SetStatusFilter(status string) State {
	s.Query.Status = status
	return s
}

// StatusFilters lists the selector's options in order.
func StatusFilters() []string {
	out := []string{view.StatusAll}
	for _, status := range models.Statuses {
		out = append(out, string(status))
	}
	return out
}

// CycleStatusFilter steps the status selector by delta, wrapping around.
func (s State) CycleStatusFilter(delta int) State {
	options := StatusFilters()
	current := 0
	for i, option := range options {
		if option == s.Query.Status {
			current = i
			break
		}
	}
	next := ((current+delta)%len(options) + len(options)) % len(options)
	s.Query.Status = options[next]
	return s
}

func (s State) ToggleSort(key models.FieldKey) State {
	s.Query.Sort = s.Query.Sort.Toggle(key)
	return s
}

func (s State) OpenAdd() State {
	s.Form = s.Form.OpenAdd()
	return s
}

// OpenEdit starts editing the stored record with id. Unknown ids are ignored.
func (s State) OpenEdit(id string) State {
	record, ok := s.Store.Get(id)
	if !ok {
		return s
	}
	s.Form = s.Form.OpenEdit(record)
	return s
}

func (s State) CancelForm() State {
	s.Form = s.Form.Close()
	return s
}

// RequestDelete asks for confirmation before deleting id.
func (s State) RequestDelete(id string) State {
	if _, ok := s.Store.Get(id); !ok {
		return s
	}
	s.PendingDelete = id
	return s
}

func (s State) CancelDelete() State {
	s.PendingDelete = ""
	return s
}

// ConfirmDelete clears the pending confirmation and returns the identifier
// to send to the gateway. The record stays in the store until the server
// confirms.
func (s State) ConfirmDelete() (State, string, bool) {
	id := s.PendingDelete
	s.PendingDelete = ""
	return s, id, id != ""
}
