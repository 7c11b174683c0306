package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vertex-crm/form"
	"vertex-crm/models"
	"vertex-crm/view"
)

// stubGateway serves an in-memory list and assigns sequential identifiers.
type stubGateway struct {
	records []models.Client
	fail    error
	created []models.ClientFields
	deleted []string
}

func (g *stubGateway) FetchAll(ctx context.Context) ([]models.Client, error) {
	if g.fail != nil {
		return nil, g.fail
	}
	return g.records, nil
}

func (g *stubGateway) Create(ctx context.Context, fields models.ClientFields) (models.Client, error) {
	g.created = append(g.created, fields)
	if g.fail != nil {
		return models.Client{}, g.fail
	}
	return models.Client{ID: "new-1", ClientFields: fields}, nil
}

func (g *stubGateway) Update(ctx context.Context, id string, client models.Client) (models.Client, error) {
	if g.fail != nil {
		return models.Client{}, g.fail
	}
	return client, nil
}

func (g *stubGateway) Delete(ctx context.Context, id string) error {
	g.deleted = append(g.deleted, id)
	return g.fail
}

func testGateway() *stubGateway {
	return &stubGateway{records: []models.Client{
		{ID: "1", ClientFields: models.ClientFields{Name: "Acme Co", Email: "ops@acme.test", Status: models.StatusLead}},
		{ID: "2", ClientFields: models.ClientFields{Name: "Beta", Email: "hi@beta.test", Status: models.StatusActive}},
	}}
}

// loaded returns a model whose initial fetch has completed.
func loaded(t *testing.T, gateway *stubGateway) Model {
	t.Helper()
	model := NewModel(context.Background(), gateway)
	return run(t, model, model.Init())
}

// run executes cmd and feeds its message back, as the tea runtime would.
func run(t *testing.T, model Model, cmd tea.Cmd) Model {
	t.Helper()
	if cmd == nil {
		return model
	}
	message := cmd()
	if _, ok := message.(resultMsg); !ok {
		return model
	}
	updated, _ := model.Update(message)
	return updated.(Model)
}

func press(t *testing.T, model Model, keyString string) (Model, tea.Cmd) {
	t.Helper()
	var message tea.KeyMsg
	switch keyString {
	case "enter":
		message = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		message = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		message = tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		message = tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		message = tea.KeyMsg{Type: tea.KeyRight}
	default:
		message = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(keyString)}
	}
	updated, cmd := model.Update(message)
	return updated.(Model), cmd
}

func typeText(t *testing.T, model Model, text string) Model {
	t.Helper()
	for _, character := range text {
		model, _ = press(t, model, string(character))
	}
	return model
}

func TestInitLoadsClients(t *testing.T) {
	model := loaded(t, testGateway())
	assert.Equal(t, 2, model.State().Store.Len())
	assert.Contains(t, model.View(), "Acme Co")
}

func TestFailedInitialLoadKeepsStoreEmpty(t *testing.T) {
	gateway := testGateway()
	gateway.fail = errors.New("connection refused")

	model := loaded(t, gateway)
	assert.Equal(t, 0, model.State().Store.Len())
	assert.Contains(t, model.View(), "fetch failed")
}

func TestStatusFilterKey(t *testing.T) {
	model := loaded(t, testGateway())

	model, _ = press(t, model, "s")
	model, _ = press(t, model, "s")
	assert.Equal(t, string(models.StatusActive), model.State().Query.Status)

	visible := model.State().Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, "Beta", visible[0].Name)
}

func TestSearchMode(t *testing.T) {
	model := loaded(t, testGateway())

	model, _ = press(t, model, "/")
	model = typeText(t, model, "acme")
	assert.Equal(t, "acme", model.State().Query.Search)
	require.Len(t, model.State().Visible(), 1)

	model, _ = press(t, model, "esc")
	assert.Empty(t, model.State().Query.Search)
	assert.Len(t, model.State().Visible(), 2)
}

func TestDigitSortsColumn(t *testing.T) {
	model := loaded(t, testGateway())

	model, _ = press(t, model, "1")
	assert.Equal(t, view.SortConfig{Key: models.FieldName, Direction: view.Ascending}, model.State().Query.Sort)
	model, _ = press(t, model, "1")
	assert.Equal(t, view.Descending, model.State().Query.Sort.Direction)
	assert.Equal(t, "Beta", model.State().Visible()[0].Name)

	model, _ = press(t, model, "3")
	assert.Equal(t, view.SortConfig{Key: models.FieldEmail, Direction: view.Ascending}, model.State().Query.Sort)
}

func TestAddClientFlow(t *testing.T) {
	gateway := testGateway()
	model := loaded(t, gateway)

	model, _ = press(t, model, "a")
	require.Equal(t, form.Adding, model.State().Form.Mode())
	assert.Contains(t, model.View(), "Add New Client")

	model = typeText(t, model, "X")
	model, _ = press(t, model, "tab")
	model, _ = press(t, model, "tab")
	model = typeText(t, model, "x@x.com")

	model, cmd := press(t, model, "enter")
	require.NotNil(t, cmd)
	model = run(t, model, cmd)

	require.Len(t, gateway.created, 1)
	assert.Equal(t, "X", gateway.created[0].Name)
	assert.Equal(t, "x@x.com", gateway.created[0].Email)
	assert.Equal(t, models.StatusLead, gateway.created[0].Status)
	assert.False(t, model.State().Form.IsOpen())
	_, ok := model.State().Store.Get("new-1")
	assert.True(t, ok)
}

func TestAddClientValidationBlocksRequest(t *testing.T) {
	gateway := testGateway()
	model := loaded(t, gateway)

	model, _ = press(t, model, "a")
	model, cmd := press(t, model, "enter")
	assert.Nil(t, cmd)
	assert.Empty(t, gateway.created)
	assert.True(t, model.State().Form.IsOpen())
}

func TestFailedCreateKeepsModalOpen(t *testing.T) {
	gateway := testGateway()
	model := loaded(t, gateway)
	gateway.fail = errors.New("server error")

	model, _ = press(t, model, "a")
	model = typeText(t, model, "X")
	model, _ = press(t, model, "tab")
	model, _ = press(t, model, "tab")
	model = typeText(t, model, "x@x.com")
	model, cmd := press(t, model, "enter")
	model = run(t, model, cmd)

	assert.Equal(t, form.Adding, model.State().Form.Mode())
	assert.Equal(t, 2, model.State().Store.Len())
	assert.Contains(t, model.View(), "create failed")
}

func TestEditCyclesSelectField(t *testing.T) {
	model := loaded(t, testGateway())

	model, _ = press(t, model, "e")
	require.Equal(t, form.Editing, model.State().Form.Mode())
	assert.Contains(t, model.View(), "Edit Client")

	// Name, Company, Email, Phone, then Status.
	for i := 0; i < 4; i++ {
		model, _ = press(t, model, "tab")
	}
	model, _ = press(t, model, "right")
	model, cmd := press(t, model, "enter")
	model = run(t, model, cmd)

	updated, ok := model.State().Store.Get("1")
	require.True(t, ok)
	assert.Equal(t, models.StatusActive, updated.Status)
	assert.False(t, model.State().Form.IsOpen())
}

func TestDeleteNeedsConfirmation(t *testing.T) {
	gateway := testGateway()
	model := loaded(t, gateway)

	model, _ = press(t, model, "d")
	assert.True(t, strings.Contains(model.View(), "Are you sure"))
	model, _ = press(t, model, "n")
	assert.Empty(t, model.State().PendingDelete)
	assert.Empty(t, gateway.deleted)

	model, _ = press(t, model, "down")
	model, _ = press(t, model, "d")
	model, cmd := press(t, model, "y")
	model = run(t, model, cmd)

	assert.Equal(t, []string{"2"}, gateway.deleted)
	assert.Equal(t, 1, model.State().Store.Len())
	_, ok := model.State().Store.Get("1")
	assert.True(t, ok)
}

func TestSortKeyForDigit(t *testing.T) {
	key, ok := sortKeyForDigit("9")
	require.True(t, ok)
	assert.Equal(t, models.FieldFollowUp, key)

	_, ok = sortKeyForDigit("0")
	assert.False(t, ok)
	_, ok = sortKeyForDigit("12")
	assert.False(t, ok)
}
