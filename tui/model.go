// Package tui is the terminal front end of the CRM client: a header with
// search box and status selector, a sortable client table, and a modal
// add/edit form.
//
// All state lives in an app.State value owned by Model. Gateway calls run
// as tea.Cmds and their results come back as resultMsg values, so every
// state change happens on the Update loop.
package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"vertex-crm/app"
	"vertex-crm/form"
	"vertex-crm/models"
)

// resultMsg carries a finished gateway call back to Update.
type resultMsg struct {
	result app.Result
}

type Model struct {
	ctx     context.Context
	gateway app.Gateway
	state   app.State
	keys    KeyMap
	theme   Theme

	search    textinput.Model
	searching bool

	modal *FormModal

	cursor int
	width  int
	height int
}

// NewModel creates the UI over gateway. Requests are issued with ctx and
// are never cancelled individually.
func NewModel(ctx context.Context, gateway app.Gateway) Model {
	search := textinput.New()
	search.Prompt = ""
	search.Placeholder = "Search clients..."

	return Model{
		ctx:     ctx,
		gateway: gateway,
		state:   app.New(),
		keys:    DefaultKeyMap,
		theme:   DefaultTheme,
		search:  search,
		width:   120,
		height:  30,
	}
}

// State exposes the current application state.
func (model Model) State() app.State {
	return model.state
}

// Init implements tea.Model. Loads the client list.
func (model Model) Init() tea.Cmd {
	return model.fetch()
}

func (model Model) fetch() tea.Cmd {
	ctx, gateway := model.ctx, model.gateway
	return func() tea.Msg {
		return resultMsg{app.Fetch(ctx, gateway)}
	}
}

func (model Model) submit(intent form.Intent) tea.Cmd {
	ctx, gateway := model.ctx, model.gateway
	return func() tea.Msg {
		return resultMsg{app.Submit(ctx, gateway, intent)}
	}
}

func (model Model) delete(id string) tea.Cmd {
	ctx, gateway := model.ctx, model.gateway
	return func() tea.Msg {
		return resultMsg{app.Delete(ctx, gateway, id)}
	}
}

// Update implements tea.Model. Routes keyboard events to the modal, the
// delete prompt, the search box or the table, in that order.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case resultMsg:
		wasOpen := model.state.Form.IsOpen()
		model.state = model.state.Apply(message.result)
		if wasOpen && !model.state.Form.IsOpen() {
			model.modal = nil
		} else if model.modal != nil && message.result.Err != nil &&
			(message.result.Op == app.OpCreate || message.result.Op == app.OpUpdate) {
			model.modal.SetError(model.state.Notice)
		}
		model.clampCursor()
		return model, nil

	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		return model, nil

	case tea.KeyMsg:
		if message.Type == tea.KeyCtrlC {
			return model, tea.Quit
		}
		switch {
		case model.modal != nil:
			return model.handleFormKeys(message)
		case model.state.PendingDelete != "":
			return model.handleConfirmKeys(message)
		case model.searching:
			return model.handleSearchKeys(message)
		default:
			return model.handleListKeys(message)
		}
	}
	return model, nil
}

func (model Model) handleListKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if sortKey, ok := sortKeyForDigit(message.String()); ok {
		model.state = model.state.ToggleSort(sortKey)
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit
	case key.Matches(message, model.keys.Up):
		model.cursor--
		model.clampCursor()
	case key.Matches(message, model.keys.Down):
		model.cursor++
		model.clampCursor()
	case key.Matches(message, model.keys.Search):
		model.searching = true
		cmd := model.search.Focus()
		return model, cmd
	case key.Matches(message, model.keys.StatusNext):
		model.state = model.state.CycleStatusFilter(1)
		model.clampCursor()
	case key.Matches(message, model.keys.StatusPrev):
		model.state = model.state.CycleStatusFilter(-1)
		model.clampCursor()
	case key.Matches(message, model.keys.ClearFilters):
		model.search.SetValue("")
		model.state = model.state.SetSearch("").SetStatusFilter(app.StatusFilters()[0])
		model.clampCursor()
	case key.Matches(message, model.keys.Refresh):
		return model, model.fetch()
	case key.Matches(message, model.keys.Add):
		model.state = model.state.OpenAdd()
		cmd := model.openModal()
		return model, cmd
	case key.Matches(message, model.keys.Edit):
		if selected, ok := model.selected(); ok {
			model.state = model.state.OpenEdit(selected.ID)
			cmd := model.openModal()
			return model, cmd
		}
	case key.Matches(message, model.keys.Delete):
		if selected, ok := model.selected(); ok {
			model.state = model.state.RequestDelete(selected.ID)
		}
	}
	return model, nil
}

func (model *Model) openModal() tea.Cmd {
	if !model.state.Form.IsOpen() {
		return nil
	}
	modal := NewFormModal(model.state.Form)
	model.modal = &modal
	return textinput.Blink
}

func (model Model) handleFormKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Cancel):
		model.state = model.state.CancelForm()
		model.modal = nil
		return model, nil
	case key.Matches(message, model.keys.Submit):
		intent, err := model.state.Form.Submit(model.modal.Values())
		if err != nil {
			model.modal.SetError(err.Error())
			return model, nil
		}
		return model, model.submit(intent)
	}

	modal := *model.modal
	cmd := modal.Update(message, model.keys)
	model.modal = &modal
	return model, cmd
}

func (model Model) handleConfirmKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(message, model.keys.Confirm) {
		state, id, ok := model.state.ConfirmDelete()
		model.state = state
		if ok {
			return model, model.delete(id)
		}
		return model, nil
	}
	model.state = model.state.CancelDelete()
	return model, nil
}

func (model Model) handleSearchKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch message.Type {
	case tea.KeyEnter:
		model.searching = false
		model.search.Blur()
		return model, nil
	case tea.KeyEsc:
		model.searching = false
		model.search.Blur()
		model.search.SetValue("")
		model.state = model.state.SetSearch("")
		model.clampCursor()
		return model, nil
	}

	var cmd tea.Cmd
	model.search, cmd = model.search.Update(message)
	model.state = model.state.SetSearch(model.search.Value())
	model.clampCursor()
	return model, cmd
}

// selected returns the record under the cursor in the visible list.
func (model Model) selected() (models.Client, bool) {
	visible := model.state.Visible()
	if model.cursor < 0 || model.cursor >= len(visible) {
		return models.Client{}, false
	}
	return visible[model.cursor], true
}

func (model *Model) clampCursor() {
	count := len(model.state.Visible())
	if model.cursor >= count {
		model.cursor = count - 1
	}
	if model.cursor < 0 {
		model.cursor = 0
	}
}

// sortKeyForDigit maps "1".."9" to the sortable columns in display order.
func sortKeyForDigit(keyString string) (models.FieldKey, bool) {
	if len(keyString) != 1 || keyString[0] < '1' || keyString[0] > '9' {
		return "", false
	}
	index := int(keyString[0] - '1')
	sortable := sortableColumns()
	if index >= len(sortable) {
		return "", false
	}
	return sortable[index].Key, true
}

func sortableColumns() []models.Field {
	var out []models.Field
	for _, field := range models.Columns() {
		if field.Sortable {
			out = append(out, field)
		}
	}
	return out
}
