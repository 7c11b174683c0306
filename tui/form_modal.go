package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"vertex-crm/form"
	"vertex-crm/models"
)

// formField is one row of the modal. Select fields carry options and only
// change through OptionNext/OptionPrev; typed input is ignored for them.
type formField struct {
	key      models.FieldKey
	label    string
	required bool
	options  []string
	input    textinput.Model
}

// FormModal renders the add/edit form and collects its values. It keeps
// no record state of its own; the form.Controller in app.State decides
// whether it is shown and what a submit means.
type FormModal struct {
	title  string
	fields []formField
	focus  int
	err    string
}

func statusOptions() []string {
	out := make([]string, 0, len(models.Statuses))
	for _, status := range models.Statuses {
		out = append(out, string(status))
	}
	return out
}

// NewFormModal builds the modal for controller, pre-filled from its
// initial values.
func NewFormModal(controller form.Controller) FormModal {
	title := "Add New Client"
	if controller.Mode() == form.Editing {
		title = "Edit Client"
	}

	fields := []formField{
		{key: models.FieldName, label: "Name", required: true},
		{key: models.FieldCompany, label: "Company"},
		{key: models.FieldEmail, label: "Email", required: true},
		{key: models.FieldPhone, label: "Phone"},
		{key: models.FieldStatus, label: "Status", options: statusOptions()},
		{key: models.FieldService, label: "Service Interest", options: append([]string{""}, models.Services...)},
		{key: models.FieldBudget, label: "Budget Range", options: append([]string{""}, models.BudgetRanges...)},
		{key: models.FieldLastContact, label: "Last Contact"},
		{key: models.FieldFollowUp, label: "Follow-up Date"},
		{key: models.FieldNotes, label: "Notes"},
	}

	initial := controller.Initial()
	for i := range fields {
		input := textinput.New()
		input.Prompt = ""
		switch fields[i].key {
		case models.FieldLastContact, models.FieldFollowUp:
			input.Placeholder = "YYYY-MM-DD"
		case models.FieldEmail:
			input.Placeholder = "name@example.com"
		}
		input.SetValue(initial[fields[i].key])
		fields[i].input = input
	}

	modal := FormModal{title: title, fields: fields}
	modal.fields[0].input.Focus()
	return modal
}

// Values reads every field at submit time.
func (modal FormModal) Values() form.Values {
	values := make(form.Values, len(modal.fields))
	for _, field := range modal.fields {
		values[field.key] = field.input.Value()
	}
	return values
}

// SetError shows a message under the fields until the next edit.
func (modal *FormModal) SetError(message string) {
	modal.err = message
}

// Update handles a key press inside the modal. Submit and cancel are
// handled by the caller before this is reached.
func (modal *FormModal) Update(message tea.KeyMsg, keys KeyMap) tea.Cmd {
	switch {
	case key.Matches(message, keys.NextField):
		return modal.moveFocus(1)
	case key.Matches(message, keys.PrevField):
		return modal.moveFocus(-1)
	}

	field := &modal.fields[modal.focus]
	if field.options != nil {
		switch {
		case key.Matches(message, keys.OptionNext):
			field.cycle(1)
		case key.Matches(message, keys.OptionPrev):
			field.cycle(-1)
		}
		return nil
	}

	modal.err = ""
	var cmd tea.Cmd
	field.input, cmd = field.input.Update(message)
	return cmd
}

func (modal *FormModal) moveFocus(delta int) tea.Cmd {
	modal.fields[modal.focus].input.Blur()
	modal.focus = (modal.focus + delta + len(modal.fields)) % len(modal.fields)
	return modal.fields[modal.focus].input.Focus()
}

// cycle steps through options. A value outside the list moves to the first
// option going forward and the last going back.
func (field *formField) cycle(delta int) {
	current := -1
	if delta < 0 {
		current = len(field.options)
	}
	for i, option := range field.options {
		if option == field.input.Value() {
			current = i
			break
		}
	}
	next := (current + delta + len(field.options)) % len(field.options)
	field.input.SetValue(field.options[next])
}

// View renders the modal box.
func (modal FormModal) View(theme Theme) string {
	var builder strings.Builder
	builder.WriteString(theme.ModalTitle.Render(modal.title))
	builder.WriteString("\n\n")

	labelWidth := 0
	for _, field := range modal.fields {
		if width := lipgloss.Width(field.label) + 2; width > labelWidth {
			labelWidth = width
		}
	}

	for i, field := range modal.fields {
		label := field.label
		if field.required {
			label += " *"
		}
		labelStyle := theme.Label.Width(labelWidth)
		if i == modal.focus {
			labelStyle = theme.FocusedLabel.Width(labelWidth)
		}

		value := field.input.View()
		if field.options != nil {
			shown := field.input.Value()
			if shown == "" {
				shown = "(none)"
			}
			value = "‹ " + shown + " ›"
			if i == modal.focus {
				value = theme.FocusedLabel.Render(value)
			}
		}
		builder.WriteString(labelStyle.Render(label) + " " + value + "\n")
	}

	if modal.err != "" {
		builder.WriteString("\n" + theme.Error.Render(modal.err) + "\n")
	}
	builder.WriteString("\n" + theme.Hint.Render("tab next · ←/→ choose · enter save · esc cancel"))

	return theme.Modal.Render(builder.String())
}
