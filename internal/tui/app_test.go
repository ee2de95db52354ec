package tui

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mestredagrelha/grelha/internal/freetext"
	"github.com/mestredagrelha/grelha/internal/models"
)

func mustItem(t *testing.T, app *App, id string) models.Item {
	t.Helper()
	it, ok := app.svc.Item(id)
	if !ok {
		t.Fatalf("item %s not found", id)
	}
	return it
}

func lastAlert(app *App) string {
	if len(app.alerts) == 0 {
		return ""
	}
	return app.alerts[0].Message
}

func TestApp_InitialState(t *testing.T) {
	app := newTestApp(t)

	if app.screen != ScreenInventory {
		t.Errorf("expected initial screen inventory, got %s", app.screen)
	}
	if app.channel != models.ChannelSales {
		t.Errorf("expected initial channel SALES, got %s", app.channel)
	}
	if !app.ready {
		t.Error("expected app to be ready")
	}
	if app.quitting {
		t.Error("expected app not to be quitting")
	}
	if app.confirm != confirmNone {
		t.Error("expected no confirmation pending")
	}
}

func TestApp_View_NotReady(t *testing.T) {
	app := newTestApp(t)
	app.ready = false

	output := app.View()
	if !strings.Contains(output, "Acendendo") {
		t.Error("expected startup message when not ready")
	}
}

func TestApp_View_Quitting(t *testing.T) {
	app := newTestApp(t)
	app.quitting = true

	output := app.View()
	if !strings.Contains(output, "Grelha fechada") {
		t.Error("expected goodbye message when quitting")
	}
}

func TestApp_View_Inventory(t *testing.T) {
	app := newTestApp(t)
	output := app.View()

	for _, want := range []string{"=== ESTOQUE: VENDAS ===", "Contra Filé", "Frango c/ Bacon", "1 sem estoque"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in view output", want)
		}
	}
}

func TestApp_ChannelNavigation(t *testing.T) {
	tests := []struct {
		key      tea.KeyMsg
		expected models.Channel
	}{
		{keyMsg("2"), models.ChannelEntry},
		{keyMsg("3"), models.ChannelConsumption},
		{keyMsg("1"), models.ChannelSales},
		{specialKeyMsg(tea.KeyF2), models.ChannelEntry},
	}

	for _, tt := range tests {
		t.Run(tt.key.String(), func(t *testing.T) {
			app := newTestApp(t)
			app.Update(tt.key)
			if app.channel != tt.expected {
				t.Errorf("expected channel %s, got %s", tt.expected, app.channel)
			}
		})
	}
}

func TestApp_ChannelNavigation_Cycle(t *testing.T) {
	app := newTestApp(t)

	want := []models.Channel{models.ChannelEntry, models.ChannelConsumption, models.ChannelSales}
	for i, c := range want {
		app.Update(specialKeyMsg(tea.KeyTab))
		if app.channel != c {
			t.Fatalf("tab %d: expected %s, got %s", i+1, c, app.channel)
		}
	}

	app.Update(specialKeyMsg(tea.KeyShiftTab))
	if app.channel != models.ChannelConsumption {
		t.Errorf("expected shift+tab to wrap to CONSUMPTION, got %s", app.channel)
	}

	if !strings.Contains(app.View(), "=== ESTOQUE: CONSUMO ===") {
		t.Error("expected view title to follow the channel")
	}
}

func TestApp_SelectionNavigation(t *testing.T) {
	app := newTestApp(t)

	app.Update(keyMsg("j"))
	app.Update(specialKeyMsg(tea.KeyDown))
	item, _ := app.view.SelectedItem()
	if item.ID != "queijo" {
		t.Errorf("expected queijo selected, got %s", item.ID)
	}

	app.Update(keyMsg("k"))
	item, _ = app.view.SelectedItem()
	if item.ID != "frango_bacon" {
		t.Errorf("expected frango_bacon selected, got %s", item.ID)
	}
}

func TestApp_Increment_Sales(t *testing.T) {
	app := newTestApp(t)

	app.Update(keyMsg("+"))

	got := mustItem(t, app, "contra_file")
	if got.Sold != 9 || got.Stock != 11 {
		t.Errorf("expected sold 9 stock 11, got %+v", got)
	}
	if !strings.Contains(lastAlert(app), "vendido 9") {
		t.Errorf("unexpected alert %q", lastAlert(app))
	}
}

func TestApp_Decrement_Consumption(t *testing.T) {
	app := newTestApp(t)

	app.Update(keyMsg("3"))
	app.Update(keyMsg("-"))

	got := mustItem(t, app, "contra_file")
	if got.Consumed != 0 || got.Stock != 13 {
		t.Errorf("expected consumed 0 stock 13, got %+v", got)
	}
}

func TestApp_Decrement_Rejected(t *testing.T) {
	app := newTestApp(t)

	// coracao has nothing sold
	for i := 0; i < 3; i++ {
		app.Update(keyMsg("j"))
	}
	app.Update(keyMsg("-"))

	got := mustItem(t, app, "coracao")
	if got.Sold != 0 || got.Stock != 0 {
		t.Errorf("expected coracao untouched, got %+v", got)
	}
	if app.alerts[0].Level != AlertWarning || !strings.Contains(lastAlert(app), "negativo") {
		t.Errorf("expected rejection warning, got %q", lastAlert(app))
	}
}

func TestApp_Pack(t *testing.T) {
	t.Run("Refused outside entry", func(t *testing.T) {
		app := newTestApp(t)
		app.Update(keyMsg("p"))

		if got := mustItem(t, app, "contra_file"); got.Stock != 12 {
			t.Errorf("expected stock unchanged, got %d", got.Stock)
		}
		if !strings.Contains(lastAlert(app), "Pacote só na Entrada") {
			t.Errorf("unexpected alert %q", lastAlert(app))
		}
	})

	t.Run("Adds pack size on entry", func(t *testing.T) {
		app := newTestApp(t)
		app.Update(keyMsg("2"))
		app.Update(keyMsg("p"))

		if got := mustItem(t, app, "contra_file"); got.Stock != 22 {
			t.Errorf("expected stock 22, got %d", got.Stock)
		}
	})
}

func TestApp_Bulk(t *testing.T) {
	app := newTestApp(t)

	app.Update(keyMsg("b"))
	if app.screen != ScreenBulk {
		t.Fatalf("expected bulk screen, got %s", app.screen)
	}
	if !strings.Contains(app.View(), "LANÇAR LISTA") {
		t.Error("expected bulk title in view")
	}

	typeText(app, "2 queijo, três contra filé; 1 picanha")
	app.Update(specialKeyMsg(tea.KeyEnter))

	if app.screen != ScreenInventory {
		t.Errorf("expected return to inventory, got %s", app.screen)
	}
	if got := mustItem(t, app, "queijo"); got.Sold != 2 || got.Stock != 18 {
		t.Errorf("unexpected queijo %+v", got)
	}
	if got := mustItem(t, app, "contra_file"); got.Sold != 11 || got.Stock != 9 {
		t.Errorf("unexpected contra_file %+v", got)
	}
	if app.alerts[0].Level != AlertWarning {
		t.Error("expected warning for the unknown clause")
	}
	if !strings.Contains(lastAlert(app), "2 lançado(s)") || !strings.Contains(lastAlert(app), "picanha") {
		t.Errorf("unexpected alert %q", lastAlert(app))
	}
}

func TestApp_Bulk_ZeroQuantity(t *testing.T) {
	app := newTestApp(t)

	app.Update(keyMsg("b"))
	typeText(app, "0 queijo, 1 coração")
	app.Update(specialKeyMsg(tea.KeyEnter))

	msg := lastAlert(app)
	if strings.Contains(msg, "Não entendi") {
		t.Errorf("a resolved zero clause must not be reported as not understood: %q", msg)
	}
	if !strings.Contains(msg, "Não lançado: 0 queijo (quantidade zero)") {
		t.Errorf("unexpected alert %q", msg)
	}
	if !strings.Contains(msg, "1 lançado(s)") {
		t.Errorf("expected the second clause applied, got %q", msg)
	}
	if got := mustItem(t, app, "queijo"); got.Sold != 0 {
		t.Errorf("zero clause must not change queijo, got %+v", got)
	}
}

func TestApp_Bulk_TypingDoesNotTriggerShortcuts(t *testing.T) {
	app := newTestApp(t)

	app.Update(keyMsg("b"))
	typeText(app, "q+z")

	if app.confirm != confirmNone {
		t.Error("typing must not open a confirmation")
	}
	if app.input.Value() != "q+z" {
		t.Errorf("expected typed text in input, got %q", app.input.Value())
	}
	if got := mustItem(t, app, "contra_file"); got.Sold != 8 {
		t.Error("typing must not adjust counters")
	}
}

func TestApp_Bulk_Cancel(t *testing.T) {
	app := newTestApp(t)

	app.Update(keyMsg("b"))
	typeText(app, "5 queijo")
	app.Update(specialKeyMsg(tea.KeyEscape))

	if app.screen != ScreenInventory {
		t.Errorf("expected inventory after cancel, got %s", app.screen)
	}
	if got := mustItem(t, app, "queijo"); got.Sold != 0 {
		t.Error("cancelled bulk must not apply")
	}
}

func TestApp_Ask_Disabled(t *testing.T) {
	app := newTestApp(t)

	app.Update(keyMsg("i"))

	if app.screen != ScreenInventory {
		t.Errorf("expected to stay on inventory, got %s", app.screen)
	}
	if !strings.Contains(lastAlert(app), "IA desativada") {
		t.Errorf("unexpected alert %q", lastAlert(app))
	}
}

func TestApp_Ask(t *testing.T) {
	var gotText string
	app := newTestAppWithDelegate(t, freetext.DelegateFunc(func(ctx context.Context, req freetext.Request) (freetext.Response, error) {
		gotText = req.FreeText
		id := "queijo"
		return freetext.Response{ItemID: &id, Quantity: 10}, nil
	}))

	app.Update(keyMsg("2"))
	app.Update(keyMsg("i"))
	typeText(app, "chegou um pacote de queijo")
	_, cmd := app.Update(specialKeyMsg(tea.KeyEnter))

	if cmd == nil {
		t.Fatal("expected a delegate command")
	}
	if !app.pending {
		t.Error("expected pending while the delegate runs")
	}
	if !strings.Contains(app.View(), "IA pensando") {
		t.Error("expected pending indicator in header")
	}

	app.Update(cmd())

	if app.pending {
		t.Error("expected pending cleared after the answer")
	}
	if gotText != "chegou um pacote de queijo" {
		t.Errorf("delegate got %q", gotText)
	}
	if got := mustItem(t, app, "queijo"); got.Stock != 30 {
		t.Errorf("expected stock 30, got %d", got.Stock)
	}
	if !strings.Contains(lastAlert(app), "IA lançou 10 em Queijo") {
		t.Errorf("unexpected alert %q", lastAlert(app))
	}
	if !regexp.MustCompile(`#[0-9a-f]{8}$`).MatchString(lastAlert(app)) {
		t.Errorf("expected short request id at the end of %q", lastAlert(app))
	}
}

func TestApp_Ask_RefusedWhilePending(t *testing.T) {
	app := newTestAppWithDelegate(t, freetext.DelegateFunc(func(ctx context.Context, req freetext.Request) (freetext.Response, error) {
		t.Error("delegate must not be called")
		return freetext.Response{}, nil
	}))
	app.pending = true

	app.Update(keyMsg("i"))
	typeText(app, "vendi 2 queijos")
	_, cmd := app.Update(specialKeyMsg(tea.KeyEnter))

	if cmd != nil {
		t.Error("expected no command while a call is pending")
	}
	if app.screen != ScreenAsk {
		t.Error("expected the input to stay open")
	}
	if !strings.Contains(lastAlert(app), "Aguarde") {
		t.Errorf("unexpected alert %q", lastAlert(app))
	}
}

func TestApp_Ask_Malformed(t *testing.T) {
	app := newTestAppWithDelegate(t, freetext.DelegateFunc(func(ctx context.Context, req freetext.Request) (freetext.Response, error) {
		return freetext.Response{Quantity: 3}, nil
	}))

	app.Update(keyMsg("i"))
	typeText(app, "vendi 3 daquele novo")
	press(app, specialKeyMsg(tea.KeyEnter))

	if app.pending {
		t.Error("expected pending cleared")
	}
	if app.alerts[0].Level != AlertWarning || !strings.Contains(lastAlert(app), "não reconheci") {
		t.Errorf("unexpected alert %q", lastAlert(app))
	}
	if got := mustItem(t, app, "contra_file"); got.Sold != 8 {
		t.Error("malformed answer must not change the registry")
	}
}

func TestApp_SoftReset(t *testing.T) {
	app := newTestApp(t)

	app.Update(keyMsg("d"))
	if app.confirm != confirmSoftReset {
		t.Fatal("expected soft reset confirmation")
	}
	if !strings.Contains(app.View(), "LIMPAR VENDAS E CONSUMO?") {
		t.Error("expected confirmation dialog")
	}

	app.Update(keyMsg("n"))
	if got := mustItem(t, app, "contra_file"); got.Sold != 8 {
		t.Error("declined reset must not apply")
	}

	app.Update(keyMsg("d"))
	app.Update(keyMsg("y"))

	for _, it := range app.svc.Items() {
		if it.Sold != 0 || it.Consumed != 0 {
			t.Errorf("expected period counters zeroed, got %+v", it)
		}
	}
	if got := mustItem(t, app, "contra_file"); got.Stock != 12 {
		t.Errorf("expected stock kept, got %d", got.Stock)
	}
}

func TestApp_HardReset(t *testing.T) {
	app := newTestApp(t)

	app.Update(keyMsg("z"))
	if app.confirm != confirmHardReset {
		t.Fatal("expected hard reset confirmation")
	}
	app.Update(keyMsg("s"))

	items := app.svc.Items()
	if len(items) != 10 {
		t.Fatalf("expected catalog restored, got %d items", len(items))
	}
	for _, it := range items {
		if it.Stock != 0 || it.Sold != 0 || it.Consumed != 0 {
			t.Errorf("expected zeroed item, got %+v", it)
		}
	}
	if app.alerts[0].Level != AlertCritical {
		t.Error("expected critical alert after hard reset")
	}
	if app.screen != ScreenInventory {
		t.Error("contact key must not open while confirming")
	}
}

func TestApp_QuitConfirmation(t *testing.T) {
	t.Run("Cancel", func(t *testing.T) {
		app := newTestApp(t)
		app.Update(keyMsg("q"))
		if app.confirm != confirmQuit {
			t.Fatal("expected quit confirmation")
		}
		if !strings.Contains(app.View(), "SAIR?") {
			t.Error("expected quit dialog")
		}

		app.Update(specialKeyMsg(tea.KeyEscape))
		if app.confirm != confirmNone || app.quitting {
			t.Error("expected quit cancelled")
		}
	})

	t.Run("Confirm", func(t *testing.T) {
		app := newTestApp(t)
		app.Update(specialKeyMsg(tea.KeyCtrlC))
		_, cmd := app.Update(keyMsg("y"))

		if !app.quitting {
			t.Error("expected quitting")
		}
		if cmd == nil {
			t.Error("expected quit command")
		}
	})

	t.Run("Ignores other keys", func(t *testing.T) {
		app := newTestApp(t)
		app.Update(keyMsg("q"))
		app.Update(keyMsg("+"))

		if app.confirm != confirmQuit {
			t.Error("expected confirmation to stay open")
		}
		if got := mustItem(t, app, "contra_file"); got.Sold != 8 {
			t.Error("keys must not act while confirming")
		}
	})
}

func TestApp_AddItem(t *testing.T) {
	app := newTestApp(t)

	app.Update(keyMsg("a"))
	if app.screen != ScreenAdd {
		t.Fatalf("expected add screen, got %s", app.screen)
	}

	typeText(app, "Kafta")
	app.Update(specialKeyMsg(tea.KeyTab))
	typeText(app, "7")
	app.Update(specialKeyMsg(tea.KeyEnter))

	if app.screen != ScreenInventory {
		t.Fatalf("expected inventory after save, got %s", app.screen)
	}
	if got := mustItem(t, app, "kafta"); got.Stock != 7 || got.Name != "Kafta" {
		t.Errorf("unexpected item %+v", got)
	}
	if sel, _ := app.view.SelectedItem(); sel.ID != "kafta" {
		t.Errorf("expected new item selected, got %s", sel.ID)
	}
}

func TestApp_AddItem_RequiresName(t *testing.T) {
	app := newTestApp(t)

	app.Update(keyMsg("a"))
	app.Update(specialKeyMsg(tea.KeyEnter)) // next field
	app.Update(specialKeyMsg(tea.KeyEnter)) // submit

	if app.screen != ScreenAdd {
		t.Error("expected form to stay open without a name")
	}
	if len(app.svc.Items()) != 4 {
		t.Error("no item must be added")
	}

	app.Update(specialKeyMsg(tea.KeyEscape))
	if app.screen != ScreenInventory {
		t.Error("expected esc to cancel the form")
	}
}

func TestApp_Contact(t *testing.T) {
	app := newTestApp(t)

	if !strings.Contains(app.renderAlertBar(), "Zap do patrão não configurado") {
		t.Error("expected missing contact hint")
	}

	app.Update(keyMsg("s"))
	if app.screen != ScreenContact {
		t.Fatalf("expected contact screen, got %s", app.screen)
	}
	typeText(app, "(011) 98765-4321")
	app.Update(specialKeyMsg(tea.KeyEnter))

	if got := app.svc.Contact().Phone; got != "11987654321" {
		t.Errorf("expected normalized phone, got %q", got)
	}
	if !strings.Contains(lastAlert(app), "...4321") {
		t.Errorf("unexpected alert %q", lastAlert(app))
	}

	// Reopening shows the saved number
	app.Update(keyMsg("s"))
	if app.input.Value() != "11987654321" {
		t.Errorf("expected saved phone prefilled, got %q", app.input.Value())
	}
}

func TestApp_Report(t *testing.T) {
	app := newTestApp(t)

	app.Update(keyMsg("r"))
	output := app.View()
	for _, want := range []string{"RELATÓRIO", "*Grelha* - 14/03/2026 21:30", "Configure o Zap"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in report view", want)
		}
	}

	app.Update(specialKeyMsg(tea.KeyEscape))
	if _, err := app.svc.SetContact(context.Background(), "11987654321"); err != nil {
		t.Fatal(err)
	}
	app.Update(keyMsg("r"))
	if !strings.Contains(app.View(), "https://wa.me/5511987654321") {
		t.Error("expected share link once contact is set")
	}
}

func TestApp_HelpAndBack(t *testing.T) {
	app := newTestApp(t)

	app.Update(keyMsg("?"))
	if app.screen != ScreenHelp {
		t.Fatalf("expected help screen, got %s", app.screen)
	}
	output := app.View()
	if !strings.Contains(output, "AJUDA") || !strings.Contains(output, "Um pacote = 10 espetos") {
		t.Error("expected help content")
	}

	app.Update(keyMsg("+"))
	if got := mustItem(t, app, "contra_file"); got.Sold != 8 {
		t.Error("counter keys must not act outside the inventory")
	}

	app.Update(specialKeyMsg(tea.KeyEscape))
	if app.screen != ScreenInventory {
		t.Errorf("expected inventory after esc, got %s", app.screen)
	}
}

func TestApp_Detail(t *testing.T) {
	app := newTestApp(t)

	app.Update(specialKeyMsg(tea.KeyEnter))
	if app.screen != ScreenDetail {
		t.Fatalf("expected detail screen, got %s", app.screen)
	}
	if !strings.Contains(app.View(), "=== CONTRA FILÉ ===") {
		t.Error("expected selected item detail")
	}
}

func TestApp_WindowResize(t *testing.T) {
	app := newTestApp(t)
	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})

	if app.width != 80 || app.height != 24 {
		t.Errorf("expected 80x24, got %dx%d", app.width, app.height)
	}
	if !app.ready {
		t.Error("expected app to be ready after resize")
	}
}

func TestApp_AlertManagement(t *testing.T) {
	app := newTestApp(t)

	app.AddAlert(AlertInfo, "Test info")
	app.AddAlert(AlertWarning, "Test warning")
	app.AddAlert(AlertCritical, "Test critical")

	if len(app.alerts) != 3 {
		t.Errorf("expected 3 alerts, got %d", len(app.alerts))
	}

	// Newest alert should be first
	if app.alerts[0].Message != "Test critical" {
		t.Errorf("expected newest alert first, got %q", app.alerts[0].Message)
	}
	if !app.alerts[0].Time.Equal(testNow) {
		t.Error("expected alert stamped by the app clock")
	}

	output := app.View()
	if !strings.Contains(output, "Test critical") {
		t.Error("expected critical alert in view output")
	}

	app.ClearAlerts()
	if len(app.alerts) != 0 {
		t.Errorf("expected 0 alerts after clear, got %d", len(app.alerts))
	}
}

func TestApp_AlertLimit(t *testing.T) {
	app := newTestApp(t)

	for i := 0; i < 15; i++ {
		app.AddAlert(AlertInfo, fmt.Sprintf("Alert %d", i))
	}

	if len(app.alerts) != 10 {
		t.Errorf("expected max 10 alerts, got %d", len(app.alerts))
	}
}

func TestApp_TickMessage(t *testing.T) {
	app := newTestApp(t)
	_, cmd := app.Update(tickMsg(time.Now()))

	if cmd == nil {
		t.Error("expected tick to return a new command")
	}
}

func TestApp_ResponsiveHeader(t *testing.T) {
	app := newTestApp(t)

	output := app.renderHeader()
	if !strings.Contains(output, "GRELHA v") || !strings.Contains(output, "1 Vendas") {
		t.Error("expected title and channel tabs in header")
	}

	app.width = 50
	output = app.renderHeader()
	if !strings.Contains(output, "3 Consumo") {
		t.Error("expected tabs kept on narrow terminal")
	}
}

func TestApp_ResponsiveFooter(t *testing.T) {
	app := newTestApp(t)

	if !strings.Contains(app.renderFooter(), "[b]Lista") {
		t.Error("expected full help in wide footer")
	}

	app.width = 50
	output := app.renderFooter()
	if !strings.Contains(output, "[?]Ajuda") || strings.Contains(output, "[b]Lista") {
		t.Errorf("expected compact footer, got %q", output)
	}
}
