package app

import (
	"context"
	"fmt"

	"vertex-crm/form"
	"vertex-crm/models"
)

// Gateway is the remote API as seen by the client. *gateway.Client
// satisfies it.
type Gateway interface {
	FetchAll(ctx context.Context) ([]models.Client, error)
	Create(ctx context.Context, fields models.ClientFields) (models.Client, error)
	Update(ctx context.Context, id string, client models.Client) (models.Client, error)
	Delete(ctx context.Context, id string) error
}

type Operation int

const (
	OpFetch Operation = iota + 1
	OpCreate
	OpUpdate
	OpDelete
)

func (o Operation) String() string {
	switch o {
	case OpFetch:
		return "fetch"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// Result is a completed gateway call, ready to be folded into State.
type Result struct {
	Op      Operation
	Records []models.Client
	Record  models.Client
	ID      string
	Err     error
}

func Fetch(ctx context.Context, gw Gateway) Result {
	records, err := gw.FetchAll(ctx)
	return Result{Op: OpFetch, Records: records, Err: err}
}

// Submit sends a form intent to the gateway.
func Submit(ctx context.Context, gw Gateway, intent form.Intent) Result {
	switch intent.Kind {
	case form.IntentUpdate:
		record, err := gw.Update(ctx, intent.ID, models.Client{ID: intent.ID, ClientFields: intent.Fields})
		return Result{Op: OpUpdate, Record: record, ID: intent.ID, Err: err}
	default:
		record, err := gw.Create(ctx, intent.Fields)
		return Result{Op: OpCreate, Record: record, Err: err}
	}
}

func Delete(ctx context.Context, gw Gateway, id string) Result {
	return Result{Op: OpDelete, ID: id, Err: gw.Delete(ctx, id)}
}

// Apply folds a gateway result into the state. Failures leave the store and
// the form exactly as they were. Results are applied in arrival order, so a
// late response still takes effect.
func (s State) Apply(result Result) State {
	if result.Err != nil {
		s.Notice = fmt.Sprintf("%s failed: %v", result.Op, result.Err)
		return s
	}
	s.Notice = ""

	switch result.Op {
	case OpFetch:
		s.Store = s.Store.ReplaceAll(result.Records)
	case OpCreate:
		s.Store = s.Store.Append(result.Record)
		if s.Form.Mode() == form.Adding {
			s.Form = s.Form.Close()
		}
	case OpUpdate:
		// Identifiers are immutable: the entry keeps the id it was updated under.
		record := result.Record
		record.ID = result.ID
		s.Store = s.Store.ReplaceByID(record)
		if s.Form.Mode() == form.Editing {
			s.Form = s.Form.Close()
		}
	case OpDelete:
		s.Store = s.Store.RemoveByID(result.ID)
	}
	return s
}
