// Package inventory provides the TUI view of the item registry.
package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mestredagrelha/grelha/internal/models"
	"github.com/mestredagrelha/grelha/internal/tui/components"
)

// InventoryView displays the registry as a table with the active channel's
// counter highlighted.
type InventoryView struct {
	table      *components.Table
	items      models.Registry
	channel    models.Channel
	showTotals bool
	palette    components.Palette
}

// NewInventoryView creates a new inventory view.
func NewInventoryView(palette components.Palette) *InventoryView {
	v := &InventoryView{
		channel: models.ChannelSales,
		palette: palette,
	}
	v.table = components.NewTable(v.columns())
	v.table.SetPalette(palette)
	v.table.SetVisibleRows(20)
	v.table.Focus(true)
	return v
}

func (v *InventoryView) columns() []components.Column {
	title := func(label string, f models.Field) string {
		if v.channel.Field() == f {
			return "▸" + label
		}
		return label
	}

	return []components.Column{
		{Title: "Produto", MinWidth: 12, Weight: 1, Priority: 9},
		{Title: title("Estoque", models.FieldStock), Width: 8, Align: lipgloss.Right, Priority: 8},
		{Title: title("Vendido", models.FieldSold), Width: 8, Align: lipgloss.Right, Priority: 7},
		{Title: title("Consumo", models.FieldConsumed), Width: 8, Align: lipgloss.Right, Priority: 6},
		{Title: "ID", MinWidth: 10, Weight: 0.6, Priority: 1},
	}
}

// SetItems replaces the displayed registry, keeping the selection.
func (v *InventoryView) SetItems(reg models.Registry) {
	v.items = reg.Clone()

	rows := make([][]string, len(v.items))
	for i, it := range v.items {
		rows[i] = []string{
			it.Name,
			strconv.Itoa(it.Stock),
			strconv.Itoa(it.Sold),
			strconv.Itoa(it.Consumed),
			it.ID,
		}
	}
	v.table.SetRows(rows)

	for i, it := range v.items {
		if it.Stock == 0 {
			v.table.Mark(i)
		}
	}
}

// SetChannel sets which counter column is highlighted.
func (v *InventoryView) SetChannel(c models.Channel) {
	if c == v.channel {
		return
	}
	v.channel = c

	sel := v.table.Selected()
	v.table = components.NewTable(v.columns())
	v.table.SetPalette(v.palette)
	v.table.SetVisibleRows(20)
	v.table.Focus(true)
	v.SetItems(v.items)
	v.table.SetSelected(sel)
}

// SetShowTotals toggles the totals line under the table.
func (v *InventoryView) SetShowTotals(show bool) {
	v.showTotals = show
}

// SetHeight sets how many rows fit on screen.
func (v *InventoryView) SetHeight(h int) {
	v.table.SetVisibleRows(h)
}

// MoveUp moves the selection up.
func (v *InventoryView) MoveUp() {
	v.table.MoveUp()
}

// MoveDown moves the selection down.
func (v *InventoryView) MoveDown() {
	v.table.MoveDown()
}

// SelectLast moves the selection to the last item.
func (v *InventoryView) SelectLast() {
	v.table.GoToBottom()
}

// SelectedItem returns the currently selected item.
func (v *InventoryView) SelectedItem() (models.Item, bool) {
	idx := v.table.Selected()
	if idx >= 0 && idx < len(v.items) {
		return v.items[idx], true
	}
	return models.Item{}, false
}

// Render renders the inventory view.
func (v *InventoryView) Render(width int) string {
	titleStyle := lipgloss.NewStyle().Foreground(v.palette.Accent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(v.palette.Secondary)
	valueStyle := lipgloss.NewStyle().Foreground(v.palette.Primary)
	warnStyle := lipgloss.NewStyle().Foreground(v.palette.Error)

	var b strings.Builder

	b.WriteString(titleStyle.Render("=== ESTOQUE: " + strings.ToUpper(v.channel.Label()) + " ==="))
	b.WriteString("\n\n")

	if v.table.Empty() {
		b.WriteString(labelStyle.Render("Nenhum espeto cadastrado. Tecle 'a' para adicionar."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(v.table.Render(width))

	if v.showTotals {
		t := v.items.Totals()
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Totais: "))
		b.WriteString(valueStyle.Render(fmt.Sprintf("estoque %d | vendido %d | consumo %d", t.Stock, t.Sold, t.Consumed)))
		b.WriteString("\n")
	}

	if n := v.outOfStock(); n > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d sem estoque", n)))
		b.WriteString("\n")
	}

	return b.String()
}

func (v *InventoryView) outOfStock() int {
	n := 0
	for _, it := range v.items {
		if it.Stock == 0 {
			n++
		}
	}
	return n
}

// RenderDetail renders one item.
func (v *InventoryView) RenderDetail(item models.Item, ok bool) string {
	titleStyle := lipgloss.NewStyle().Foreground(v.palette.Accent).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(v.palette.Secondary).Width(12)
	valueStyle := lipgloss.NewStyle().Foreground(v.palette.Primary)

	if !ok {
		return labelStyle.Render("Nenhum item selecionado")
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("=== " + strings.ToUpper(item.Name) + " ==="))
	b.WriteString("\n\n")

	for _, row := range [][2]string{
		{"ID:", item.ID},
		{"Estoque:", strconv.Itoa(item.Stock)},
		{"Vendido:", strconv.Itoa(item.Sold)},
		{"Consumo:", strconv.Itoa(item.Consumed)},
	} {
		b.WriteString(labelStyle.Render(row[0]) + " " + valueStyle.Render(row[1]) + "\n")
	}

	return b.String()
}
