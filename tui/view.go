package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"vertex-crm/models"
	"vertex-crm/view"
)

// Fixed column widths; notes take whatever is left.
var columnWidths = map[models.FieldKey]int{
	models.FieldName:        18,
	models.FieldCompany:     16,
	models.FieldEmail:       24,
	models.FieldPhone:       14,
	models.FieldStatus:      10,
	models.FieldService:     22,
	models.FieldBudget:      18,
	models.FieldLastContact: 12,
	models.FieldFollowUp:    14,
}

const minNotesWidth = 10

// View implements tea.Model.
func (model Model) View() string {
	if model.modal != nil {
		return lipgloss.Place(model.width, model.height, lipgloss.Center, lipgloss.Center,
			model.modal.View(model.theme))
	}

	var sections []string
	sections = append(sections, model.renderHeader())
	sections = append(sections, model.renderTable())
	sections = append(sections, model.renderFooter())
	return strings.Join(sections, "\n")
}

func (model Model) renderHeader() string {
	theme := model.theme

	search := model.search.Value()
	if model.searching {
		search = theme.ActiveInput.Render(model.search.View())
	} else if search == "" {
		search = theme.Control.Render("/ Search clients...")
	} else {
		search = theme.Control.Render("/ " + search)
	}

	status := model.state.Query.Status
	if status == view.StatusAll {
		status = "All Status"
	}

	parts := []string{
		theme.Title.Render("Vertex Connections CRM"),
		search,
		theme.Control.Render("[s] " + status),
		theme.Control.Render("[a] Add Client"),
	}
	return theme.Header.Width(model.width).Render(strings.Join(parts, theme.Control.Render("   ")))
}

func (model Model) notesWidth() int {
	used := 0
	for _, width := range columnWidths {
		used += width + 1
	}
	if remaining := model.width - used; remaining > minNotesWidth {
		return remaining
	}
	return minNotesWidth
}

func (model Model) widthOf(key models.FieldKey) int {
	if width, ok := columnWidths[key]; ok {
		return width
	}
	return model.notesWidth()
}

func (model Model) renderTable() string {
	theme := model.theme
	sortConfig := model.state.Query.Sort

	var header []string
	digit := 1
	for _, column := range models.Columns() {
		label := column.Label
		style := theme.ColumnHeader
		if column.Sortable {
			label = fmt.Sprintf("%d %s", digit, label)
			digit++
			if sortConfig.Key == column.Key {
				style = theme.SortedHeader
				if sortConfig.Direction == view.Ascending {
					label += " ▲"
				} else {
					label += " ▼"
				}
			}
		}
		header = append(header, cell(style, label, model.widthOf(column.Key)))
	}

	lines := []string{strings.Join(header, theme.ColumnHeader.Render(" "))}

	visible := model.state.Visible()
	if len(visible) == 0 {
		lines = append(lines, theme.Hint.Render("  No clients to show."))
		return strings.Join(lines, "\n")
	}

	start, end := model.visibleWindow(len(visible))
	for i := start; i < end; i++ {
		lines = append(lines, model.renderRow(visible[i], i == model.cursor))
	}
	return strings.Join(lines, "\n")
}

// visibleWindow keeps the cursor on screen when there are more rows than
// fit below the header and above the footer.
func (model Model) visibleWindow(count int) (int, int) {
	rows := model.height - 4
	if rows < 1 {
		rows = 1
	}
	if count <= rows {
		return 0, count
	}
	start := model.cursor - rows/2
	if start < 0 {
		start = 0
	}
	if start+rows > count {
		start = count - rows
	}
	return start, start + rows
}

func (model Model) renderRow(record models.Client, selected bool) string {
	theme := model.theme
	rowStyle := theme.Row
	if selected {
		rowStyle = theme.SelectedRow
	}

	var cells []string
	for _, column := range models.Columns() {
		width := model.widthOf(column.Key)
		value := column.Value(record)
		if column.Key == models.FieldStatus && !selected {
			cells = append(cells, cell(theme.StatusStyle(record.Status), value, width))
			continue
		}
		cells = append(cells, cell(rowStyle, value, width))
	}
	return strings.Join(cells, rowStyle.Render(" "))
}

// cell truncates value to width and pads it.
func cell(style lipgloss.Style, value string, width int) string {
	value = strings.ReplaceAll(value, "\n", " ")
	return style.Width(width).MaxWidth(width).Render(ansi.Truncate(value, width, "…"))
}

func (model Model) renderFooter() string {
	theme := model.theme
	if id := model.state.PendingDelete; id != "" {
		name := id
		if record, ok := model.state.Store.Get(id); ok && record.Name != "" {
			name = record.Name
		}
		return theme.Error.Render(fmt.Sprintf("Are you sure you want to delete %s? (y/n)", name))
	}
	if model.state.Notice != "" {
		return theme.Notice.Render(model.state.Notice)
	}
	return theme.Hint.Render(fmt.Sprintf(
		"%d of %d clients · j/k move · 1-9 sort · / search · s status · a add · e edit · d delete · r reload · q quit",
		len(model.state.Visible()), model.state.Store.Len()))
}
