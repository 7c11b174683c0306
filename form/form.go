// Package form implements the add/edit modal's state machine and the typed
// boundary where raw input values become a client record.
package form

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"vertex-crm/models"
)

type Mode int

const (
	Closed Mode = iota
	Adding
	Editing
)

func (m Mode) String() string {
	switch m {
	case Adding:
		return "adding"
	case Editing:
		return "editing"
	default:
		return "closed"
	}
}

// ErrClosed is returned when submitting a form that is not open.
var ErrClosed = errors.New("form is not open")

// Values holds raw input keyed by the record's JSON field names.
type Values map[models.FieldKey]string

// Controller is an immutable value; each transition returns a new one.
type Controller struct {
	mode   Mode
	target models.Client
}

func (c Controller) Mode() Mode {
	return c.mode
}

func (c Controller) IsOpen() bool {
	return c.mode != Closed
}

// Target returns the record being edited.
func (c Controller) Target() (models.Client, bool) {
	return c.target, c.mode == Editing
}

// OpenAdd moves a closed form to Adding. An open form is left as is.
func (c Controller) OpenAdd() Controller {
	if c.mode != Closed {
		return c
	}
	return Controller{mode: Adding}
}

// OpenEdit moves a closed form to Editing(record).
func (c Controller) OpenEdit(record models.Client) Controller {
	if c.mode != Closed {
		return c
	}
	return Controller{mode: Editing, target: record}
}

func (c Controller) Close() Controller {
	return Controller{}
}

// Initial returns the values the form fields start with: the target's
// fields when editing, otherwise blanks with status Lead.
func (c Controller) Initial() Values {
	if c.mode == Editing {
		return ValuesOf(c.target.ClientFields)
	}
	return Values{models.FieldStatus: string(models.StatusLead)}
}

type IntentKind int

const (
	IntentCreate IntentKind = iota + 1
	IntentUpdate
)

// Intent is what a submit asks the gateway to do.
type Intent struct {
	Kind   IntentKind
	ID     string
	Fields models.ClientFields
}

// Submit validates values and returns the create or update intent for the
// current mode. The form stays open; closing it is up to the caller once the
// server has accepted the change.
func (c Controller) Submit(values Values) (Intent, error) {
	if c.mode == Closed {
		return Intent{}, ErrClosed
	}
	var current models.ClientFields
	if c.mode == Editing {
		current = c.target.ClientFields
	}
	fields, err := assemble(values, current)
	if err != nil {
		return Intent{}, err
	}
	if c.mode == Editing {
		return Intent{Kind: IntentUpdate, ID: c.target.ID, Fields: fields}, nil
	}
	return Intent{Kind: IntentCreate, Fields: fields}, nil
}

var validate = validator.New()

// Assemble builds a typed record from named values. Name is required and
// email must be present and email-shaped; enum fields must hold a known
// option or be empty.
func Assemble(values Values) (models.ClientFields, error) {
	return assemble(values, models.ClientFields{})
}

// assemble is Assemble for an edit of current, whose enum values pass even
// when they are not known options.
func assemble(values Values, current models.ClientFields) (models.ClientFields, error) {
	get := func(key models.FieldKey) string {
		return strings.TrimSpace(values[key])
	}
	fields := models.ClientFields{
		Name:        get(models.FieldName),
		Company:     get(models.FieldCompany),
		Email:       get(models.FieldEmail),
		Phone:       get(models.FieldPhone),
		Status:      models.Status(get(models.FieldStatus)),
		Service:     get(models.FieldService),
		Budget:      get(models.FieldBudget),
		LastContact: get(models.FieldLastContact),
		FollowUp:    get(models.FieldFollowUp),
		Notes:       values[models.FieldNotes],
	}

	if err := validate.Struct(fields); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
			first := validationErrors[0]
			return fields, fmt.Errorf("%s: failed %q check", strings.ToLower(first.Field()), first.Tag())
		}
		return fields, err
	}
	return fields.NormalizeAgainst(current)
}

// ValuesOf flattens a record back into form values.
func ValuesOf(fields models.ClientFields) Values {
	client := models.Client{ClientFields: fields}
	values := make(Values, len(models.Fields))
	for _, field := range models.Columns() {
		values[field.Key] = field.Value(client)
	}
	return values
}
